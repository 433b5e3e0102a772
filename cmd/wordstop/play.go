package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/lox/wordstop/cmd/wordstop/shared"
	"github.com/lox/wordstop/internal/bot"
	"github.com/lox/wordstop/internal/engine"
	"github.com/lox/wordstop/internal/game"
	"github.com/lox/wordstop/internal/randutil"
	"github.com/lox/wordstop/internal/tui"
)

// PlayCmd seats a human on the console against bots.
type PlayCmd struct {
	Name     string `default:"you" help:"Your player name"`
	Players  int    `help:"Players including you, 2 or 3 (default from config)"`
	Bet      *int   `help:"Bet per player (default from config)"`
	Strategy string `default:"scholar" enum:"scholar,sloppy,idle" help:"Bot strategy"`
	Seed     *int64 `help:"Deterministic RNG seed"`
	Offline  bool   `help:"Skip the dictionary, only curated answers count"`
	TUI      bool   `name:"tui" help:"Full-screen interface instead of line mode"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.Load()
	if err != nil {
		return err
	}
	// Keep the console for the game unless debugging
	logger := g.Logger(zerolog.LevelWarnValue)
	ctx := shared.SetupSignalHandler(logger)

	if c.Offline {
		cfg.Dictionary.Offline = true
	}
	if c.Players != 0 {
		cfg.Game.Players = c.Players
	}
	if c.Bet != nil {
		cfg.Game.Bet = *c.Bet
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	db, err := shared.LoadAnswers(cfg)
	if err != nil {
		return err
	}
	lookup, closeLookup, err := shared.BuildLookup(ctx, cfg, nil, logger)
	if err != nil {
		return err
	}
	defer closeLookup()

	ecfg, err := cfg.EngineConfig()
	if err != nil {
		return err
	}
	strategy, err := bot.ParseStrategy(c.Strategy)
	if err != nil {
		return err
	}

	rng, seed := randutil.NewFromClock()
	if c.Seed != nil {
		seed = *c.Seed
		rng = randutil.New(seed)
	}
	logger.Debug().Int64("seed", seed).Msg("Seeded match")

	human := game.PlayerID(c.Name)
	agents := []engine.Agent{engine.AgentFunc{Player: human}}
	pace := bot.DefaultPace().Scaled(cfg.Timings.Scale)
	for i := 1; i < cfg.Game.Players; i++ {
		id := game.PlayerID(fmt.Sprintf("%s-%d", strategy.Name(), i))
		agents = append(agents, bot.New(id, strategy, db, randutil.Child(rng), pace, logger))
	}

	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithLookup(lookup),
		engine.WithCurated(db),
		engine.WithRand(randutil.Child(rng)),
	}
	if c.TUI {
		return playTUI(ctx, human, ecfg, agents, opts)
	}

	view := newConsole(os.Stdout, human, ecfg.Categories)
	runner, err := engine.NewMatchRunner(ecfg, agents, append(opts, engine.WithMonitor(view))...)
	if err != nil {
		return err
	}

	lines := make(chan string)
	go scanLines(ctx, os.Stdin, lines)
	go feedCommands(ctx, lines, human, ecfg.Categories, runner, view)

	match, err := runner.Run(ctx)
	if errors.Is(err, context.Canceled) {
		view.warn("match abandoned after %d rounds", match.RoundsPlayed())
		return nil
	}
	return err
}

// playTUI runs the match behind a Bubble Tea program. Leaving the program
// abandons the match.
func playTUI(ctx context.Context, human game.PlayerID, ecfg engine.Config, agents []engine.Agent, opts []engine.Option) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Update must never block on the program, so submitted lines are buffered.
	lines := make(chan string, 16)
	model := tui.New(human, func(line string) {
		select {
		case lines <- line:
		default:
		}
	})
	prog := tea.NewProgram(model, tea.WithAltScreen())

	view := newConsole(tui.NewLogWriter(prog.Send), human, ecfg.Categories)
	opts = append(opts, engine.WithMonitor(view), engine.WithMonitor(tui.NewBoardMonitor(prog.Send)))
	runner, err := engine.NewMatchRunner(ecfg, agents, opts...)
	if err != nil {
		return err
	}
	go feedCommands(ctx, lines, human, ecfg.Categories, runner, view)

	done := make(chan error, 1)
	go func() {
		_, err := runner.Run(ctx)
		done <- err
	}()
	go func() {
		<-ctx.Done()
		prog.Send(tui.QuitMsg{})
	}()

	if _, err := prog.Run(); err != nil {
		return err
	}
	cancel()
	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// scanLines copies non-blank lines from in until it closes.
func scanLines(ctx context.Context, in io.Reader, lines chan<- string) {
	defer close(lines)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		select {
		case lines <- line:
		case <-ctx.Done():
			return
		}
	}
}

// feedCommands parses lines into inputs for the runner.
func feedCommands(ctx context.Context, lines <-chan string, player game.PlayerID, categories []game.Category, runner *engine.MatchRunner, view *console) {
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			input, err := parseCommand(line, player, categories)
			if err != nil {
				view.warn("%v", err)
				continue
			}
			runner.Send(input)
		}
	}
}
