package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lox/wordstop/internal/dictionary"
	"github.com/lox/wordstop/internal/game"
	"github.com/lox/wordstop/internal/randutil"
	"github.com/lox/wordstop/internal/scheduler"
)

// Config describes one match.
type Config struct {
	Categories []game.Category
	Bet        int
	Timings    Timings
}

// DefaultConfig returns the reference categories and pacing with no stake.
func DefaultConfig() Config {
	return Config{
		Categories: game.DefaultCategories,
		Timings:    DefaultTimings(),
	}
}

type itemKind int

const (
	itemInput itemKind = iota
	itemTimer
	itemLookup
)

type timerKind int

const (
	timerBeginRolling timerKind = iota
	timerRoll
	timerAutoLetter
	timerBeginFilling
	timerExpire
	timerReveal
	timerNextRound
)

func (k timerKind) String() string {
	switch k {
	case timerBeginRolling:
		return "begin_rolling"
	case timerRoll:
		return "roll"
	case timerAutoLetter:
		return "auto_letter"
	case timerBeginFilling:
		return "begin_filling"
	case timerExpire:
		return "expire"
	case timerReveal:
		return "reveal"
	case timerNextRound:
		return "next_round"
	default:
		return fmt.Sprintf("timer(%d)", int(k))
	}
}

// item is one entry of the runner's event queue.
type item struct {
	kind   itemKind
	round  int
	input  Input
	timer  timerKind
	lookup lookupResult
}

type lookupResult struct {
	category game.Category
	text     string
	exists   bool
}

// Option configures a MatchRunner.
type Option func(*MatchRunner)

// WithClock sets the clock timers run on.
func WithClock(clock quartz.Clock) Option {
	return func(r *MatchRunner) { r.clock = clock }
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *MatchRunner) { r.logger = logger }
}

// WithMonitor adds a monitor; it can be given several times.
func WithMonitor(m Monitor) Option {
	return func(r *MatchRunner) { r.monitors = append(r.monitors, m) }
}

// WithLookup sets the dictionary service used for Unknown answers.
func WithLookup(l dictionary.Lookup) Option {
	return func(r *MatchRunner) { r.lookup = l }
}

// WithCurated sets the curated answer list.
func WithCurated(c game.Curated) Option {
	return func(r *MatchRunner) { r.validator = game.NewValidator(c) }
}

// WithRand sets the random source for dice and automatic letters.
func WithRand(rng randutil.Source) Option {
	return func(r *MatchRunner) { r.rng = rng }
}

// WithMatchID overrides the generated match ID.
func WithMatchID(id string) Option {
	return func(r *MatchRunner) { r.id = id }
}

// withDispatch replaces the goroutine used for dictionary lookups.
func withDispatch(fn func(func())) Option {
	return func(r *MatchRunner) { r.dispatch = fn }
}

// MatchRunner plays one match. Timers and inputs are serialized through a
// scheduler and handled one at a time on the goroutine calling Run, so a stop
// and a round expiry can never interleave. Dictionary lookups are the only
// work done off that goroutine; their results come back as queue items.
type MatchRunner struct {
	id        string
	cfg       Config
	agents    []Agent
	clock     quartz.Clock
	logger    zerolog.Logger
	monitors  []Monitor
	monitor   Monitor
	lookup    dictionary.Lookup
	validator *game.Validator
	rng       randutil.Source
	dice      *game.DiceArbiter
	dispatch  func(func())
	sched     *scheduler.Scheduler[item]

	match    game.Match
	round    game.Round
	verdicts *game.Verdicts
	group    scheduler.Group

	roundCtx    context.Context
	roundCancel context.CancelFunc
	inflight    map[string]bool
	awaiting    bool // first reveal is due but lookups are in flight
	pressed     map[game.PlayerID]bool

	started  bool
	finished bool
}

// NewMatchRunner prepares a match between agents, in seating order.
func NewMatchRunner(cfg Config, agents []Agent, opts ...Option) (*MatchRunner, error) {
	r := &MatchRunner{
		cfg:       cfg,
		agents:    agents,
		clock:     quartz.NewReal(),
		logger:    zerolog.New(io.Discard),
		lookup:    dictionary.Offline{},
		validator: game.NewValidator(nil),
		dispatch:  func(fn func()) { go fn() },
	}
	for _, opt := range opts {
		opt(r)
	}

	if len(r.cfg.Categories) == 0 {
		r.cfg.Categories = game.DefaultCategories
	}
	if err := r.cfg.Timings.Validate(); err != nil {
		return nil, err
	}
	if r.id == "" {
		r.id = uuid.NewString()
	}
	if r.rng == nil {
		rng, _ := randutil.NewFromClock()
		r.rng = rng
	}

	players := make([]game.PlayerID, len(agents))
	for i, a := range agents {
		players[i] = a.ID()
	}
	match, err := game.NewMatch(r.id, players, cfg.Bet)
	if err != nil {
		return nil, fmt.Errorf("new match: %w", err)
	}
	if _, err := game.NewRound(1, players, r.cfg.Categories); err != nil {
		return nil, fmt.Errorf("new match: %w", err)
	}

	r.match = match
	r.dice = game.NewDiceArbiter(r.rng)
	r.monitor = NewMultiMonitor(r.monitors...)
	r.sched = scheduler.New[item](r.clock)
	r.logger = r.logger.With().Str("component", "runner").Str("match_id", r.id).Logger()
	return r, nil
}

// ID returns the match ID.
func (r *MatchRunner) ID() string { return r.id }

// Send delivers an input from outside the runner goroutine, e.g. a console
// or websocket adapter. It never blocks.
func (r *MatchRunner) Send(in Input) {
	r.sched.Post(item{kind: itemInput, input: in})
}

// Run plays the match to the end and returns its final state. If ctx is
// cancelled first, the unfinished match is returned with ctx's error.
func (r *MatchRunner) Run(ctx context.Context) (game.Match, error) {
	if r.started {
		return r.match, errors.New("match runner already started")
	}
	r.start()
	defer r.shutdown()

	for !r.finished {
		it, err := r.sched.Next(ctx)
		if err != nil {
			r.logger.Info().Err(err).Int("rounds_played", r.match.RoundsPlayed()).Msg("Match cancelled")
			return r.match, err
		}
		r.handle(it)
	}
	return r.match, nil
}

func (r *MatchRunner) start() {
	r.started = true
	r.logger.Info().
		Strs("players", playerStrings(r.match.Players())).
		Int("bet", r.match.Bet()).
		Msg("Match started")
	r.monitor.OnMatchStart(r.match)
	r.startRound()
}

func (r *MatchRunner) shutdown() {
	r.sched.CancelAll()
	if r.roundCancel != nil {
		r.roundCancel()
	}
	r.monitor.OnMatchComplete(r.match)
}

// drain handles every queued item without blocking and reports whether the
// match finished.
func (r *MatchRunner) drain() bool {
	for !r.finished {
		it, ok := r.sched.TryNext()
		if !ok {
			break
		}
		r.handle(it)
	}
	return r.finished
}

func (r *MatchRunner) handle(it item) {
	switch it.kind {
	case itemInput:
		r.handleInput(it.input)
	case itemTimer:
		if it.round != r.round.Number() {
			return
		}
		r.handleTimer(it.timer)
	case itemLookup:
		r.handleLookup(it.round, it.lookup)
	}
}

func (r *MatchRunner) startRound() {
	if r.roundCancel != nil {
		r.roundCancel()
	}
	r.sched.CancelAll()

	round, err := game.NewRound(r.match.NextRoundNumber(), r.match.Players(), r.cfg.Categories)
	if err != nil {
		// Players and categories were validated by NewMatchRunner.
		panic(fmt.Sprintf("new round: %v", err))
	}
	r.round = round
	r.verdicts = nil
	r.inflight = make(map[string]bool)
	r.awaiting = false
	r.pressed = make(map[game.PlayerID]bool)
	r.roundCtx, r.roundCancel = context.WithCancel(context.Background())

	r.logger.Debug().Int("round", round.Number()).Str("label", r.match.NextRoundLabel()).Msg("Round started")
	r.enter(PhaseChangedEvent{
		Label:    r.match.NextRoundLabel(),
		Deadline: r.cfg.Timings.Announce,
	})
	r.after(r.cfg.Timings.Announce, timerBeginRolling)
}

// enter cancels the timers of the phase just left, opens a timer group for
// the current phase and announces it.
func (r *MatchRunner) enter(ev PhaseChangedEvent) {
	if r.group != "" {
		r.sched.Cancel(r.group)
	}
	r.group = scheduler.Group(fmt.Sprintf("round-%d/%s", r.round.Number(), r.round.Phase()))
	ev.EventHeader = r.header()
	ev.Phase = r.round.Phase()
	r.publish(ev)
}

func (r *MatchRunner) after(d time.Duration, kind timerKind) {
	r.sched.After(r.group, d, item{kind: itemTimer, round: r.round.Number(), timer: kind})
}

func (r *MatchRunner) handleTimer(kind timerKind) {
	r.logger.Debug().Stringer("timer", kind).Stringer("phase", r.round.Phase()).Msg("Timer fired")

	switch kind {
	case timerBeginRolling:
		next, err := r.round.BeginRolling()
		if r.unexpected(kind, err) {
			return
		}
		r.round = next
		r.enter(PhaseChangedEvent{Deadline: r.cfg.Timings.RollFallback})
		r.after(r.cfg.Timings.RollFallback, timerRoll)

	case timerRoll:
		r.roll()

	case timerAutoLetter:
		letter := r.dice.RandomLetter()
		chooser := r.round.Chooser()
		next, err := r.round.ChooseLetter(chooser, letter)
		if r.unexpected(kind, err) {
			return
		}
		r.logger.Info().Str("chooser", string(chooser)).Stringer("letter", letter).Msg("Chooser timed out, drew letter")
		r.letterChosen(next, chooser, true)

	case timerBeginFilling:
		next, err := r.round.BeginFilling()
		if r.unexpected(kind, err) {
			return
		}
		r.round = next
		r.verdicts = game.NewVerdicts(r.validator, r.round.Letter())
		r.enter(PhaseChangedEvent{Letter: r.round.Letter(), Deadline: r.cfg.Timings.RoundBudget})
		r.after(r.cfg.Timings.RoundBudget, timerExpire)

	case timerExpire:
		next, err := r.round.Expire()
		if r.unexpected(kind, err) {
			return
		}
		r.logger.Debug().Int("round", r.round.Number()).Msg("Round budget elapsed")
		r.beginComparing(next)

	case timerReveal:
		r.reveal()

	case timerNextRound:
		r.startRound()
	}
}

// unexpected logs a timer that found the round in the wrong phase. Timer
// groups are cancelled on every phase change, so this points at a bug.
func (r *MatchRunner) unexpected(kind timerKind, err error) bool {
	if err == nil {
		return false
	}
	r.logger.Error().Err(err).Stringer("timer", kind).Msg("Timer fired in wrong phase")
	return true
}

func (r *MatchRunner) roll() {
	players := r.round.Players()
	values := r.dice.Roll(len(players))
	next, tie, err := r.round.RecordRoll(values)
	if err != nil {
		r.logger.Error().Err(err).Msg("Roll failed")
		return
	}
	r.round = next
	r.pressed = make(map[game.PlayerID]bool)

	ev := DiceRolledEvent{EventHeader: r.header(), Players: players, Values: values, Tie: tie}
	if !tie {
		ev.Chooser = next.Chooser()
	}
	r.publish(ev)

	if tie {
		r.logger.Debug().Ints("values", values).Msg("Dice tied, re-rolling")
		r.sched.Cancel(r.group)
		r.after(r.cfg.Timings.Tie, timerRoll)
		return
	}

	deadline := r.cfg.Timings.Reveal + r.cfg.Timings.LetterTimeout
	r.enter(PhaseChangedEvent{Chooser: next.Chooser(), Deadline: deadline})
	r.after(deadline, timerAutoLetter)
}

func (r *MatchRunner) letterChosen(next game.Round, chooser game.PlayerID, auto bool) {
	r.round = next
	r.publish(LetterChosenEvent{EventHeader: r.header(), Player: chooser, Letter: next.Letter(), Auto: auto})
	r.enter(PhaseChangedEvent{Letter: next.Letter(), Deadline: r.cfg.Timings.LetterAnnounce})
	r.after(r.cfg.Timings.LetterAnnounce, timerBeginFilling)
}

func (r *MatchRunner) beginComparing(next game.Round) {
	r.round = next
	r.enter(PhaseChangedEvent{Letter: next.Letter()})
	r.after(r.cfg.Timings.StopNotice, timerReveal)
}

func (r *MatchRunner) reveal() {
	if len(r.inflight) > 0 {
		r.logger.Debug().Int("inflight", len(r.inflight)).Msg("Waiting for dictionary before comparing")
		r.awaiting = true
		return
	}
	r.awaiting = false

	next, result, err := r.round.RevealNext(r.verdicts)
	if err != nil {
		r.logger.Error().Err(err).Msg("Reveal failed")
		return
	}
	r.round = next
	r.publish(CategoryResultEvent{EventHeader: r.header(), Result: result, Scores: next.Scores()})

	if next.Phase() == game.PhaseComparing {
		r.after(r.cfg.Timings.Dwell, timerReveal)
		return
	}
	r.resolveRound()
}

func (r *MatchRunner) resolveRound() {
	winner, ok := r.round.Winner()
	r.enter(PhaseChangedEvent{Letter: r.round.Letter()})
	r.publish(RoundResolvedEvent{
		EventHeader: r.header(),
		Winner:      winner,
		Draw:        !ok,
		Scores:      r.round.Scores(),
		StoppedBy:   r.round.StoppedBy(),
	})

	match, err := r.match.RecordRound(winner)
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to record round")
		r.finished = true
		return
	}
	r.match = match
	r.roundCancel()

	r.logger.Info().
		Int("round", r.round.Number()).
		Str("winner", string(winner)).
		Interface("scores", r.round.Scores()).
		Msg("Round resolved")

	if !match.Finished() {
		r.after(r.cfg.Timings.ResultDisplay, timerNextRound)
		return
	}

	matchWinner, _ := match.Winner()
	r.publish(MatchResolvedEvent{
		EventHeader:  r.header(),
		Outcome:      match.Outcome(),
		Winner:       matchWinner,
		Payout:       match.Payout(),
		RoundWinners: match.RoundWinners(),
	})
	r.logger.Info().
		Stringer("outcome", match.Outcome()).
		Str("winner", string(matchWinner)).
		Int("payout", match.Payout()).
		Msg("Match resolved")
	r.finished = true
}

func (r *MatchRunner) handleInput(in Input) {
	if !r.round.HasPlayer(in.Player) {
		r.rejected(in, fmt.Errorf("unknown player %q", in.Player))
		return
	}

	switch in.Kind {
	case InputRoll:
		if r.round.Phase() != game.PhaseRolling {
			r.rejected(in, &game.InputRejectedError{Input: "roll", Phase: r.round.Phase(), Reason: "dice are not being rolled"})
			return
		}
		r.pressed[in.Player] = true
		if len(r.pressed) == len(r.round.Players()) {
			r.roll()
		}

	case InputLetter:
		next, err := r.round.ChooseLetter(in.Player, in.Letter)
		if err != nil {
			r.rejected(in, err)
			return
		}
		r.letterChosen(next, in.Player, false)

	case InputAnswer:
		next, err := r.round.Submit(in.Player, in.Category, in.Text)
		if err != nil {
			r.rejected(in, err)
			return
		}
		r.round = next
		answer, _ := next.Answer(in.Player, in.Category)
		verdict := r.verdicts.Verdict(answer.Category, answer.Text)
		if verdict == game.Unknown {
			r.confirm(answer)
		}
		r.publish(AnswerRecordedEvent{
			EventHeader: r.header(),
			Player:      in.Player,
			Category:    in.Category,
			Text:        answer.Text,
			Filled:      next.Filled(in.Player),
			Verdict:     verdict,
		})

	case InputStop:
		next, err := r.round.Stop(in.Player)
		if err != nil {
			r.rejected(in, err)
			return
		}
		r.logger.Debug().Str("player", string(in.Player)).Msg("Player stopped the round")
		r.beginComparing(next)

	default:
		r.rejected(in, fmt.Errorf("unknown input kind %q", in.Kind))
	}
}

func (r *MatchRunner) rejected(in Input, err error) {
	r.logger.Debug().Err(err).Stringer("input", in).Msg("Input rejected")
	r.publish(InputRejectedEvent{EventHeader: r.header(), Input: in, Reason: err.Error()})
}

// confirm starts a dictionary lookup unless one for the same word is already
// in flight this round.
func (r *MatchRunner) confirm(a game.Answer) {
	key := game.LookupKey(a.Category, a.Text)
	if r.inflight[key] {
		return
	}
	r.inflight[key] = true

	ctx, round, lookup, logger := r.roundCtx, r.round.Number(), r.lookup, r.logger
	result := lookupResult{category: a.Category, text: a.Text}
	r.dispatch(func() {
		result.exists = dictionary.Confirm(ctx, lookup, result.text, logger)
		r.sched.Post(item{kind: itemLookup, round: round, lookup: result})
	})
}

func (r *MatchRunner) handleLookup(round int, res lookupResult) {
	if round != r.round.Number() || r.verdicts == nil {
		r.logger.Debug().Int("round", round).Str("word", res.text).Msg("Dropping stale dictionary result")
		return
	}
	delete(r.inflight, game.LookupKey(res.category, res.text))
	r.verdicts.Confirm(res.category, res.text, res.exists)

	if r.awaiting && len(r.inflight) == 0 {
		r.after(0, timerReveal)
	}
}

func (r *MatchRunner) publish(ev Event) {
	r.monitor.OnEvent(ev)
	for _, a := range r.agents {
		a.Notify(ev, desk{runner: r, player: a.ID()})
	}
}

func (r *MatchRunner) header() EventHeader {
	return EventHeader{MatchID: r.id, Round: r.round.Number(), At: r.clock.Now()}
}

// desk binds an agent to the runner. Inputs are stamped with the agent's own
// player so an agent cannot act for someone else.
type desk struct {
	runner *MatchRunner
	player game.PlayerID
}

func (d desk) Send(in Input) {
	in.Player = d.player
	d.runner.sched.Post(item{kind: itemInput, input: in})
}

func (d desk) Plan(delay time.Duration, in Input) {
	in.Player = d.player
	d.runner.sched.After(d.runner.group, delay, item{kind: itemInput, input: in})
}

func (d desk) Round() game.Round { return d.runner.round }
func (d desk) Match() game.Match { return d.runner.match }

func playerStrings(ps []game.PlayerID) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = string(p)
	}
	return out
}
