package bot

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/wordstop/internal/answers"
	"github.com/lox/wordstop/internal/dictionary"
	"github.com/lox/wordstop/internal/engine"
	"github.com/lox/wordstop/internal/game"
	"github.com/lox/wordstop/internal/randutil"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard).Level(zerolog.Disabled)
}

type planned struct {
	at time.Duration
	in engine.Input
}

// fakeDesk records what a bot asks for.
type fakeDesk struct {
	round game.Round
	sent  []engine.Input
	plans []planned
}

func (d *fakeDesk) Send(in engine.Input) { d.sent = append(d.sent, in) }
func (d *fakeDesk) Plan(at time.Duration, in engine.Input) {
	d.plans = append(d.plans, planned{at, in})
}
func (d *fakeDesk) Round() game.Round { return d.round }
func (d *fakeDesk) Match() game.Match { return game.Match{} }

func fillingRound(t *testing.T, letter game.Letter) game.Round {
	t.Helper()
	r, err := game.NewRound(1, []game.PlayerID{"bot", "human"}, game.DefaultCategories)
	require.NoError(t, err)
	r, _ = r.BeginRolling()
	r, _, err = r.RecordRoll([]int{6, 1})
	require.NoError(t, err)
	r, err = r.ChooseLetter("bot", letter)
	require.NoError(t, err)
	r, err = r.BeginFilling()
	require.NoError(t, err)
	return r
}

func newBot(t *testing.T, name string, seed int64) *Bot {
	t.Helper()
	s, err := ParseStrategy(name)
	require.NoError(t, err)
	return New("bot", s, answers.Default(), randutil.New(seed), DefaultPace(), testLogger())
}

func TestParseStrategy(t *testing.T) {
	assert.Equal(t, []string{"idle", "scholar", "sloppy"}, StrategyNames())
	for _, name := range StrategyNames() {
		s, err := ParseStrategy(name)
		require.NoError(t, err)
		assert.Equal(t, name, s.Name())
	}
	_, err := ParseStrategy("genius")
	assert.Error(t, err)
}

func TestBotRollsAndPicksLetter(t *testing.T) {
	b := newBot(t, "scholar", 1)
	desk := &fakeDesk{}

	b.Notify(engine.PhaseChangedEvent{Phase: game.PhaseRolling}, desk)
	require.Len(t, desk.plans, 1)
	assert.Equal(t, engine.InputRoll, desk.plans[0].in.Kind)
	assert.Equal(t, 600*time.Millisecond, desk.plans[0].at)

	b.Notify(engine.PhaseChangedEvent{Phase: game.PhaseLetterSelecting, Chooser: "human"}, desk)
	assert.Len(t, desk.plans, 1, "only the chooser picks")

	b.Notify(engine.PhaseChangedEvent{Phase: game.PhaseLetterSelecting, Chooser: "bot"}, desk)
	require.Len(t, desk.plans, 2)
	assert.Equal(t, engine.InputLetter, desk.plans[1].in.Kind)
	assert.True(t, desk.plans[1].in.Letter.Valid())
	assert.Equal(t, 3200*time.Millisecond, desk.plans[1].at)
}

func TestScholarFillsCuratedAnswersAndStops(t *testing.T) {
	b := newBot(t, "scholar", 7)
	desk := &fakeDesk{round: fillingRound(t, 'B')}
	db := answers.Default()

	b.Notify(engine.PhaseChangedEvent{Phase: game.PhaseFilling, Letter: 'B'}, desk)
	require.Len(t, desk.plans, len(game.DefaultCategories)+1)

	var last time.Duration
	for i, c := range game.DefaultCategories {
		p := desk.plans[i]
		assert.Equal(t, engine.InputAnswer, p.in.Kind)
		assert.Equal(t, c, p.in.Category)
		assert.True(t, db.Contains("B", string(c), p.in.Text), "%s not curated for %s", p.in.Text, c)
		assert.Greater(t, p.at, last)
		last = p.at
	}
	assert.LessOrEqual(t, last, 61*time.Second)
	assert.GreaterOrEqual(t, last, 59*time.Second)

	stop := desk.plans[len(desk.plans)-1]
	assert.Equal(t, engine.InputStop, stop.in.Kind)
	assert.Equal(t, last+2500*time.Millisecond, stop.at)
}

func TestScholarFillsBlankWhenNothingCurated(t *testing.T) {
	b := newBot(t, "scholar", 3)
	desk := &fakeDesk{round: fillingRound(t, 'X')}

	b.Notify(engine.PhaseChangedEvent{Phase: game.PhaseFilling, Letter: 'X'}, desk)
	var country *planned
	for i := range desk.plans {
		if desk.plans[i].in.Category == "COUNTRY" {
			country = &desk.plans[i]
		}
	}
	require.NotNil(t, country)
	assert.Empty(t, country.in.Text)
}

func TestIdleNeverFills(t *testing.T) {
	b := newBot(t, "idle", 1)
	desk := &fakeDesk{round: fillingRound(t, 'B')}

	b.Notify(engine.PhaseChangedEvent{Phase: game.PhaseFilling}, desk)
	assert.Empty(t, desk.plans)
	assert.Empty(t, desk.sent)
}

func TestSloppySpoilsSomeCards(t *testing.T) {
	db := answers.Default()
	rng := randutil.New(11)
	s := Sloppy{ErrorRate: 30}

	spoiled, total := 0, 0
	for i := 0; i < 200; i++ {
		for _, c := range game.DefaultCategories {
			text, fill := s.Answer(rng, db, 'M', c)
			require.True(t, fill)
			total++
			if !db.Contains("M", string(c), text) {
				spoiled++
			}
		}
	}
	ratio := float64(spoiled) / float64(total)
	assert.InDelta(t, 0.30, ratio, 0.08)
}

func TestMisspellKeepsInitial(t *testing.T) {
	assert.Equal(t, "Mnago", misspell("Mango"))
	assert.Equal(t, "Moose"+"q", misspell("Moose"))
	assert.Equal(t, "Oxq", misspell("Ox"))
}

func TestPaceScaled(t *testing.T) {
	p := DefaultPace().Scaled(0.5)
	assert.Equal(t, 30*time.Second, p.Fill)
	assert.Equal(t, 500*time.Millisecond, p.Jitter)
}

func TestBotsPlayFullMatch(t *testing.T) {
	db := answers.Default()
	pace := DefaultPace().Scaled(0.001)
	scholar := New("scholar", Scholar{}, db, randutil.New(1), pace, testLogger())
	idle := New("idle", Idle{}, db, randutil.New(2), pace, testLogger())

	cfg := engine.DefaultConfig()
	cfg.Bet = 10
	cfg.Timings = engine.DefaultTimings().Scaled(0.001)

	runner, err := engine.NewMatchRunner(cfg, []engine.Agent{scholar, idle},
		engine.WithLogger(testLogger()),
		engine.WithCurated(db),
		engine.WithLookup(dictionary.Offline{}),
		engine.WithRand(randutil.New(3)))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	match, err := runner.Run(ctx)
	require.NoError(t, err)
	require.True(t, match.Finished())

	// The idle bot never scores, so the scholar can at worst draw a round
	// with it when its letter has no curated words at all.
	assert.Zero(t, match.Wins("idle"))
}
