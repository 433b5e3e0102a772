// Package bot provides automated opponents. A Bot is an engine.Agent: it
// reacts to phase changes by planning its inputs on the runner's scheduler,
// so a bot's answers arrive as timed events exactly like a human's would.
package bot

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/lox/wordstop/internal/answers"
	"github.com/lox/wordstop/internal/engine"
	"github.com/lox/wordstop/internal/game"
	"github.com/lox/wordstop/internal/randutil"
)

// Pace controls when a bot acts, measured from the start of each phase.
type Pace struct {
	Roll      time.Duration // pressing roll
	Letter    time.Duration // picking the letter when chosen
	Fill      time.Duration // window the answers are spread over
	Jitter    time.Duration // random shift applied to each answer
	StopAfter time.Duration // pause between the last answer and stop
}

// DefaultPace mirrors the reference opponent: a letter two seconds after the
// dice are shown, cards spread over a minute, stop 2.5s after the last card.
func DefaultPace() Pace {
	return Pace{
		Roll:      600 * time.Millisecond,
		Letter:    3200 * time.Millisecond,
		Fill:      60 * time.Second,
		Jitter:    time.Second,
		StopAfter: 2500 * time.Millisecond,
	}
}

// Scaled multiplies every duration by factor.
func (p Pace) Scaled(factor float64) Pace {
	scale := func(d time.Duration) time.Duration { return time.Duration(float64(d) * factor) }
	return Pace{
		Roll:      scale(p.Roll),
		Letter:    scale(p.Letter),
		Fill:      scale(p.Fill),
		Jitter:    scale(p.Jitter),
		StopAfter: scale(p.StopAfter),
	}
}

// Bot plays one seat with a Strategy.
type Bot struct {
	id       game.PlayerID
	strategy Strategy
	db       *answers.Database
	rng      randutil.Source
	pace     Pace
	logger   zerolog.Logger
}

// New creates a bot. rng must not be shared with another goroutine.
func New(id game.PlayerID, strategy Strategy, db *answers.Database, rng randutil.Source, pace Pace, logger zerolog.Logger) *Bot {
	return &Bot{
		id:       id,
		strategy: strategy,
		db:       db,
		rng:      rng,
		pace:     pace,
		logger:   logger.With().Str("component", "bot").Str("bot", string(id)).Str("strategy", strategy.Name()).Logger(),
	}
}

// ID implements engine.Agent.
func (b *Bot) ID() game.PlayerID { return b.id }

// Strategy returns the bot's strategy.
func (b *Bot) Strategy() Strategy { return b.strategy }

// Notify implements engine.Agent.
func (b *Bot) Notify(ev engine.Event, desk engine.Desk) {
	pc, ok := ev.(engine.PhaseChangedEvent)
	if !ok {
		return
	}

	switch pc.Phase {
	case game.PhaseRolling:
		if b.strategy.Rolls() {
			desk.Plan(b.pace.Roll, engine.Roll(b.id))
		}

	case game.PhaseLetterSelecting:
		if pc.Chooser != b.id {
			return
		}
		letter := b.strategy.Letter(b.rng)
		b.logger.Debug().Stringer("letter", letter).Msg("Picked letter")
		desk.Plan(b.pace.Letter, engine.ChooseLetter(b.id, letter))

	case game.PhaseFilling:
		b.planAnswers(desk.Round(), desk)
	}
}

// planAnswers spreads one card per category over the fill window and plans a
// stop after the last one.
func (b *Bot) planAnswers(round game.Round, desk engine.Desk) {
	categories := round.Categories()
	letter := round.Letter()

	var last time.Duration
	planned := 0
	for i, category := range categories {
		text, fill := b.strategy.Answer(b.rng, b.db, letter, category)
		if !fill {
			continue
		}
		at := b.slot(i, len(categories))
		if at <= last {
			at = last + time.Millisecond
		}
		last = at
		planned++
		desk.Plan(at, engine.Submit(b.id, category, text))
	}

	if planned == len(categories) && b.strategy.Stops() {
		desk.Plan(last+b.pace.StopAfter, engine.Stop(b.id))
	}
	b.logger.Debug().Int("planned", planned).Dur("last", last).Stringer("letter", letter).Msg("Planned answers")
}

func (b *Bot) slot(i, n int) time.Duration {
	at := b.pace.Fill * time.Duration(i+1) / time.Duration(n)
	if b.pace.Jitter > 0 {
		span := int(2 * b.pace.Jitter / time.Millisecond)
		if span > 0 {
			at += time.Duration(b.rng.IntN(span+1))*time.Millisecond - b.pace.Jitter
		}
	}
	if at < 0 {
		at = 0
	}
	return at
}
