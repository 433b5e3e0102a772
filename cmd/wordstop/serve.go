package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/lox/wordstop/cmd/wordstop/shared"
	"github.com/lox/wordstop/internal/bot"
	"github.com/lox/wordstop/internal/server"
)

// ServeCmd runs the HTTP server.
type ServeCmd struct {
	Addr string `env:"WORDSTOP_ADDR" help:"Listen address, overrides the config's server block"`
	Seed *int64 `help:"Deterministic RNG seed for launched matches"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := g.Load()
	if err != nil {
		return err
	}
	logger := g.Logger(cfg.Server.LogLevel)
	ctx := shared.SetupSignalHandler(logger)

	addr := cfg.ServerAddress()
	if c.Addr != "" {
		addr = c.Addr
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	db, err := shared.LoadAnswers(cfg)
	if err != nil {
		return err
	}
	lookup, closeLookup, err := shared.BuildLookup(ctx, cfg, registry, logger)
	if err != nil {
		return err
	}
	defer closeLookup()

	ecfg, err := cfg.EngineConfig()
	if err != nil {
		return err
	}

	bots := make([]server.BotSpec, 0, len(cfg.Bots))
	for _, b := range cfg.Bots {
		bots = append(bots, server.BotSpec{Name: b.Name, Strategy: b.Strategy})
	}
	if len(bots) == 0 {
		for i := 1; i <= cfg.Game.Players; i++ {
			bots = append(bots, server.BotSpec{Name: fmt.Sprintf("bot-%d", i), Strategy: "scholar"})
		}
	}

	hub := server.NewHub(logger)
	opts := []server.ManagerOption{
		server.WithManagerMonitor(hub),
		server.WithManagerMonitor(server.NewMatchMetrics(registry)),
	}
	if c.Seed != nil {
		opts = append(opts, server.WithManagerSeed(*c.Seed))
	}
	manager := server.NewMatchManager(server.ManagerConfig{
		Engine:     ecfg,
		Bots:       bots,
		Pace:       bot.DefaultPace().Scaled(cfg.Timings.Scale),
		MaxMatches: cfg.Server.MaxMatches,
	}, db, lookup, logger, opts...)

	logger.Info().
		Str("address", addr).
		Int("bet", ecfg.Bet).
		Int("max_matches", cfg.Server.MaxMatches).
		Int("default_bots", len(bots)).
		Bool("dictionary_offline", cfg.Dictionary.Offline).
		Msg("Starting wordstop server")

	return server.NewServer(addr, manager, hub, registry, logger).Serve(ctx)
}
