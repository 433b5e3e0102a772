package server

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lox/wordstop/internal/answers"
	"github.com/lox/wordstop/internal/bot"
	"github.com/lox/wordstop/internal/dictionary"
	"github.com/lox/wordstop/internal/engine"
	"github.com/lox/wordstop/internal/game"
	"github.com/lox/wordstop/internal/randutil"
)

var (
	// ErrTooManyMatches is returned when the concurrent match limit is reached.
	ErrTooManyMatches = errors.New("too many running matches")
	// ErrShuttingDown is returned by Launch after Shutdown.
	ErrShuttingDown = errors.New("match manager shutting down")
	// ErrInvalidLaunch wraps every problem with a launch request.
	ErrInvalidLaunch = errors.New("invalid launch request")
)

// MatchStatus is the lifecycle state of a launched match.
type MatchStatus string

const (
	MatchRunning   MatchStatus = "running"
	MatchFinished  MatchStatus = "finished"
	MatchCancelled MatchStatus = "cancelled"
)

// MatchSummary is the public view of a match.
type MatchSummary struct {
	ID           string            `json:"id"`
	Players      []game.PlayerID   `json:"players"`
	Bet          int               `json:"bet"`
	Status       MatchStatus       `json:"status"`
	Round        int               `json:"round,omitempty"`
	Phase        string            `json:"phase,omitempty"`
	RoundWinners []game.PlayerID   `json:"round_winners"`
	Outcome      game.MatchOutcome `json:"outcome"`
	Winner       game.PlayerID     `json:"winner,omitempty"`
	Payout       int               `json:"payout"`
	StartedAt    time.Time         `json:"started_at"`
	FinishedAt   *time.Time        `json:"finished_at,omitempty"`
}

func summarize(m game.Match) MatchSummary {
	s := MatchSummary{
		ID:           m.ID(),
		Players:      m.Players(),
		Bet:          m.Bet(),
		Status:       MatchRunning,
		RoundWinners: m.RoundWinners(),
		Outcome:      m.Outcome(),
		Payout:       m.Payout(),
	}
	if m.Finished() {
		s.Status = MatchFinished
	}
	if winner, ok := m.Winner(); ok {
		s.Winner = winner
	}
	return s
}

// BotSpec seats one bot.
type BotSpec struct {
	Name     string `json:"name"`
	Strategy string `json:"strategy"`
}

// LaunchRequest is the body of POST /matches. Empty fields fall back to the
// manager defaults.
type LaunchRequest struct {
	Bots []BotSpec `json:"bots,omitempty"`
	Bet  *int      `json:"bet,omitempty"`
	Seed *int64    `json:"seed,omitempty"`
}

// ManagerConfig holds the defaults for launched matches.
type ManagerConfig struct {
	Engine     engine.Config
	Bots       []BotSpec
	Pace       bot.Pace
	MaxMatches int
}

// ManagerOption customises a MatchManager.
type ManagerOption func(*MatchManager)

// WithManagerClock sets the clock every runner uses.
func WithManagerClock(clock quartz.Clock) ManagerOption {
	return func(m *MatchManager) { m.clock = clock }
}

// WithManagerMonitor attaches a monitor to every launched match.
func WithManagerMonitor(monitor engine.Monitor) ManagerOption {
	return func(m *MatchManager) { m.monitors = append(m.monitors, monitor) }
}

// WithManagerSeed makes match seeds reproducible.
func WithManagerSeed(seed int64) ManagerOption {
	return func(m *MatchManager) { m.rng = randutil.NewLocked(randutil.New(seed)) }
}

// MatchManager launches bot matches and tracks their progress.
type MatchManager struct {
	cfg      ManagerConfig
	db       *answers.Database
	lookup   dictionary.Lookup
	clock    quartz.Clock
	monitors []engine.Monitor
	rng      randutil.Source
	logger   zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	group  errgroup.Group

	mu      sync.RWMutex
	matches map[string]*MatchSummary
	order   []string
}

// NewMatchManager creates a manager. Matches run until they finish or
// Shutdown is called.
func NewMatchManager(cfg ManagerConfig, db *answers.Database, lookup dictionary.Lookup, logger zerolog.Logger, opts ...ManagerOption) *MatchManager {
	ctx, cancel := context.WithCancel(context.Background())
	m := &MatchManager{
		cfg:     cfg,
		db:      db,
		lookup:  lookup,
		clock:   quartz.NewReal(),
		logger:  logger.With().Str("component", "match_manager").Logger(),
		ctx:     ctx,
		cancel:  cancel,
		matches: make(map[string]*MatchSummary),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rng == nil {
		rng, seed := randutil.NewFromClock()
		m.logger.Debug().Int64("seed", seed).Msg("Seeded match manager")
		m.rng = randutil.NewLocked(rng)
	}
	if m.cfg.MaxMatches < 1 {
		m.cfg.MaxMatches = 1
	}
	m.group.SetLimit(m.cfg.MaxMatches)
	return m
}

// Launch starts a bot match in the background and returns its summary.
func (m *MatchManager) Launch(req LaunchRequest) (MatchSummary, error) {
	if m.ctx.Err() != nil {
		return MatchSummary{}, ErrShuttingDown
	}

	specs := req.Bots
	if len(specs) == 0 {
		specs = m.cfg.Bots
	}
	if len(specs) < 2 || len(specs) > 3 {
		return MatchSummary{}, fmt.Errorf("%w: need 2 or 3 bots, got %d", ErrInvalidLaunch, len(specs))
	}

	cfg := m.cfg.Engine
	if req.Bet != nil {
		cfg.Bet = *req.Bet
	}

	var base randutil.Source = m.rng
	if req.Seed != nil {
		base = randutil.New(*req.Seed)
	}

	agents := make([]engine.Agent, len(specs))
	for i, spec := range specs {
		strategy, err := bot.ParseStrategy(spec.Strategy)
		if err != nil {
			return MatchSummary{}, fmt.Errorf("%w: bot %q: %v", ErrInvalidLaunch, spec.Name, err)
		}
		agents[i] = bot.New(game.PlayerID(spec.Name), strategy, m.db, randutil.Child(base), m.cfg.Pace, m.logger)
	}

	id := uuid.NewString()
	opts := []engine.Option{
		engine.WithMatchID(id),
		engine.WithClock(m.clock),
		engine.WithLogger(m.logger),
		engine.WithLookup(m.lookup),
		engine.WithCurated(m.db),
		engine.WithRand(randutil.Child(base)),
		engine.WithMonitor(tracker{manager: m, id: id}),
	}
	for _, monitor := range m.monitors {
		opts = append(opts, engine.WithMonitor(monitor))
	}
	runner, err := engine.NewMatchRunner(cfg, agents, opts...)
	if err != nil {
		return MatchSummary{}, fmt.Errorf("%w: %v", ErrInvalidLaunch, err)
	}

	players := make([]game.PlayerID, len(agents))
	for i, a := range agents {
		players[i] = a.ID()
	}
	summary := &MatchSummary{
		ID:        id,
		Players:   players,
		Bet:       cfg.Bet,
		Status:    MatchRunning,
		Outcome:   game.OutcomeInProgress,
		StartedAt: m.clock.Now(),
	}

	m.mu.Lock()
	m.matches[id] = summary
	m.order = append(m.order, id)
	snapshot := *summary
	m.mu.Unlock()

	started := m.group.TryGo(func() error {
		if _, err := runner.Run(m.ctx); err != nil && !errors.Is(err, context.Canceled) {
			m.logger.Error().Err(err).Str("match_id", id).Msg("Match failed")
		}
		return nil
	})
	if !started {
		m.forget(id)
		return MatchSummary{}, ErrTooManyMatches
	}

	m.logger.Info().Str("match_id", id).Int("bots", len(agents)).Msg("Match launched")
	return snapshot, nil
}

// Get returns a snapshot of one match.
func (m *MatchManager) Get(id string) (MatchSummary, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.matches[id]
	if !ok {
		return MatchSummary{}, false
	}
	return *s, true
}

// List returns every match, oldest first.
func (m *MatchManager) List() []MatchSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]MatchSummary, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.matches[id])
	}
	return out
}

// Running returns the IDs of matches still in progress, sorted.
func (m *MatchManager) Running() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []string
	for id, s := range m.matches {
		if s.Status == MatchRunning {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Shutdown cancels every running match and waits for the runners to exit or
// ctx to expire.
func (m *MatchManager) Shutdown(ctx context.Context) error {
	m.cancel()
	done := make(chan error, 1)
	go func() { done <- m.group.Wait() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *MatchManager) forget(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.matches, id)
	for i, other := range m.order {
		if other == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

func (m *MatchManager) update(id string, fn func(*MatchSummary)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.matches[id]; ok {
		fn(s)
	}
}

// tracker keeps a match's summary current from its runner's events.
type tracker struct {
	manager *MatchManager
	id      string
}

func (t tracker) OnMatchStart(game.Match) {}

func (t tracker) OnEvent(ev engine.Event) {
	pc, ok := ev.(engine.PhaseChangedEvent)
	if !ok {
		return
	}
	t.manager.update(t.id, func(s *MatchSummary) {
		s.Round = pc.Round
		s.Phase = pc.Phase.String()
	})
}

func (t tracker) OnMatchComplete(match game.Match) {
	now := t.manager.clock.Now()
	final := summarize(match)
	if !match.Finished() {
		final.Status = MatchCancelled
	}
	t.manager.update(t.id, func(s *MatchSummary) {
		s.Status = final.Status
		s.RoundWinners = final.RoundWinners
		s.Outcome = final.Outcome
		s.Winner = final.Winner
		s.Payout = final.Payout
		s.FinishedAt = &now
	})
	t.manager.logger.Info().
		Str("match_id", t.id).
		Str("status", string(final.Status)).
		Str("outcome", final.Outcome.String()).
		Str("winner", string(final.Winner)).
		Msg("Match complete")
}
