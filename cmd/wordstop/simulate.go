package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lox/wordstop/cmd/wordstop/shared"
	"github.com/lox/wordstop/internal/answers"
	"github.com/lox/wordstop/internal/bot"
	"github.com/lox/wordstop/internal/dictionary"
	"github.com/lox/wordstop/internal/engine"
	"github.com/lox/wordstop/internal/fileutil"
	"github.com/lox/wordstop/internal/game"
	"github.com/lox/wordstop/internal/randutil"
	"github.com/lox/wordstop/internal/statistics"
)

// SimulateCmd plays bot-only matches on a compressed clock.
type SimulateCmd struct {
	Matches    int      `default:"100" help:"Number of matches"`
	Strategies []string `default:"scholar,sloppy" help:"One strategy per seat (2 or 3)"`
	Seed       *int64   `help:"Deterministic RNG seed"`
	Parallel   int      `default:"4" help:"Matches run at once"`
	Scale      float64  `default:"0.001" help:"Clock compression applied to every timing"`
	Online     bool     `help:"Use the configured dictionary instead of curated answers only"`
	Out        string   `type:"path" help:"Write the report as JSON to this file"`
}

func printReport(w io.Writer, r statistics.Report, elapsed time.Duration) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%d matches in %s", r.Matches, elapsed.Round(time.Millisecond))))
	if r.Matches == 0 {
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEAT\tSTRATEGY\tWINS\tWIN%\t95% CI\tNET\tNET/MATCH")
	for _, seat := range r.Seats {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.1f%%\t%.1f-%.1f%%\t%+.0f\t%+.2f\n",
			seat.Player, seat.Strategy, seat.Wins, 100*seat.WinRate,
			100*seat.WinRateLo, 100*seat.WinRateHi, seat.NetTotal, seat.NetMean)
	}
	_ = tw.Flush()

	fmt.Fprintln(w, drawStyle.Render(fmt.Sprintf("draws %d (%.1f%%)", r.Draws, 100*r.DrawRate)))
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("rounds/match %.2f, dice ties %d, rejected inputs %d, cancelled %d",
		r.RoundsMean, r.Ties, r.Rejected, r.Cancelled)))
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.Load()
	if err != nil {
		return err
	}
	logger := g.Logger(zerolog.LevelWarnValue)
	ctx := shared.SetupSignalHandler(logger)

	if len(c.Strategies) < 2 || len(c.Strategies) > 3 {
		return fmt.Errorf("need 2 or 3 strategies, got %d", len(c.Strategies))
	}
	if c.Scale <= 0 {
		return fmt.Errorf("scale must be positive")
	}
	strategies := make([]bot.Strategy, len(c.Strategies))
	players := make([]game.PlayerID, len(c.Strategies))
	for i, name := range c.Strategies {
		s, err := bot.ParseStrategy(name)
		if err != nil {
			return err
		}
		strategies[i] = s
		players[i] = game.PlayerID(fmt.Sprintf("%s-%d", name, i+1))
	}

	db, err := shared.LoadAnswers(cfg)
	if err != nil {
		return err
	}
	var lookup dictionary.Lookup = dictionary.Offline{}
	if c.Online {
		l, closeLookup, err := shared.BuildLookup(ctx, cfg, nil, logger)
		if err != nil {
			return err
		}
		defer closeLookup()
		lookup = l
	}

	ecfg, err := cfg.EngineConfig()
	if err != nil {
		return err
	}
	ecfg.Timings = ecfg.Timings.Scaled(c.Scale)
	pace := bot.DefaultPace().Scaled(cfg.Timings.Scale * c.Scale)

	rng, seed := randutil.NewFromClock()
	if c.Seed != nil {
		seed = *c.Seed
		rng = randutil.New(seed)
	}
	logger.Info().Int64("seed", seed).Int("matches", c.Matches).Msg("Starting simulation")

	// Seeds are drawn up front so results do not depend on scheduling.
	seeds := make([]*matchSeeds, c.Matches)
	for i := range seeds {
		seeds[i] = newMatchSeeds(rng, len(players))
	}

	stats := statistics.New()
	start := time.Now()

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(max(1, c.Parallel))
	for i := 0; i < c.Matches; i++ {
		group.Go(func() error {
			return runSimMatch(gctx, ecfg, players, strategies, seeds[i], db, lookup, pace, logger, stats)
		})
	}
	if err := group.Wait(); err != nil && ctx.Err() == nil {
		return err
	}

	elapsed := time.Since(start)
	if err := stats.Validate(); err != nil {
		return err
	}
	report := stats.Report(players, c.Strategies)
	report.Seed = seed
	report.ElapsedSecs = elapsed.Seconds()
	printReport(os.Stdout, report, elapsed)

	if c.Out != "" {
		if err := fileutil.WriteJSON(c.Out, report); err != nil {
			return err
		}
		logger.Info().Str("path", c.Out).Msg("Wrote simulation report")
	}
	return nil
}

type matchSeeds struct {
	runner randutil.Source
	bots   []randutil.Source
}

func newMatchSeeds(rng randutil.Source, n int) *matchSeeds {
	s := &matchSeeds{runner: randutil.Child(rng)}
	for i := 0; i < n; i++ {
		s.bots = append(s.bots, randutil.Child(rng))
	}
	return s
}

func runSimMatch(ctx context.Context, cfg engine.Config, players []game.PlayerID, strategies []bot.Strategy, seeds *matchSeeds,
	db *answers.Database, lookup dictionary.Lookup, pace bot.Pace, logger zerolog.Logger, stats *statistics.Statistics) error {
	agents := make([]engine.Agent, len(players))
	for i, p := range players {
		agents[i] = bot.New(p, strategies[i], db, seeds.bots[i], pace, logger)
	}

	var ties, rejected int
	counter := engine.MonitorFunc(func(ev engine.Event) {
		switch e := ev.(type) {
		case engine.DiceRolledEvent:
			if e.Tie {
				ties++
			}
		case engine.InputRejectedEvent:
			rejected++
		}
	})

	runner, err := engine.NewMatchRunner(cfg, agents,
		engine.WithLogger(logger),
		engine.WithMonitor(counter),
		engine.WithLookup(lookup),
		engine.WithCurated(db),
		engine.WithRand(seeds.runner))
	if err != nil {
		return err
	}

	match, err := runner.Run(ctx)
	stats.Add(statistics.ResultFromMatch(match, ties, rejected))
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
