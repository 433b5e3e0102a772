package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/wordstop/internal/engine"
	"github.com/lox/wordstop/internal/game"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 2, cfg.Game.Players)
	assert.Equal(t, 0, cfg.Game.Bet)
	assert.Equal(t, []string{"NAME", "ANIMAL", "FRUIT", "OBJECT", "COUNTRY"}, cfg.Game.Categories)
	assert.Equal(t, "localhost:8080", cfg.ServerAddress())
	assert.Equal(t, 3*time.Second, cfg.DictionaryTimeout())
	assert.Equal(t, 168*time.Hour, cfg.CacheTTL())

	timings, err := cfg.EngineTimings()
	require.NoError(t, err)
	assert.Equal(t, engine.DefaultTimings(), timings)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wordstop.hcl")
	src := `
game {
  players    = 3
  bet        = 50
  categories = ["NAME", "CITY"]
}

timings {
  round_budget = "45s"
  dwell        = "1s"
}

dictionary {
  offline    = true
  redis_addr = "localhost:6379"
}

server {
  port      = 9090
  log_level = "debug"
}

bot "rival" {
  strategy = "sloppy"
}

bot "quiet" {}
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 3, cfg.Game.Players)
	assert.True(t, cfg.Dictionary.Offline)
	assert.Equal(t, "localhost:6379", cfg.Dictionary.RedisAddr)
	assert.Equal(t, "localhost:9090", cfg.ServerAddress())
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	require.Len(t, cfg.Bots, 2)
	assert.Equal(t, "sloppy", cfg.Bots[0].Strategy)
	assert.Equal(t, "scholar", cfg.Bots[1].Strategy)

	ec, err := cfg.EngineConfig()
	require.NoError(t, err)
	assert.Equal(t, []game.Category{"NAME", "CITY"}, ec.Categories)
	assert.Equal(t, 50, ec.Bet)
	assert.Equal(t, 45*time.Second, ec.Timings.RoundBudget)
	assert.Equal(t, time.Second, ec.Timings.Dwell)
	assert.Equal(t, engine.DefaultTimings().Announce, ec.Timings.Announce)
}

func TestScaleAppliesAfterOverrides(t *testing.T) {
	cfg, err := Parse([]byte(`
timings {
  round_budget = "10s"
  scale        = 0.5
}
`), "inline.hcl")
	require.NoError(t, err)

	timings, err := cfg.EngineTimings()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, timings.RoundBudget)
	assert.Equal(t, 1250*time.Millisecond, timings.Announce)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte(`game {`), "broken.hcl")
	assert.ErrorContains(t, err, "failed to parse HCL")

	_, err = Parse([]byte(`game { colour = "red" }`), "unknown.hcl")
	assert.ErrorContains(t, err, "failed to decode HCL")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"one player", func(c *Config) { c.Game.Players = 1 }, "players must be 2 or 3"},
		{"four players", func(c *Config) { c.Game.Players = 4 }, "players must be 2 or 3"},
		{"negative bet", func(c *Config) { c.Game.Bet = -1 }, "bet must not be negative"},
		{"duplicate category", func(c *Config) { c.Game.Categories = []string{"A", "A"} }, "duplicate category"},
		{"empty category", func(c *Config) { c.Game.Categories = []string{""} }, "duplicate category"},
		{"bad duration", func(c *Config) { c.Timings.Dwell = "soon" }, "timings dwell"},
		{"negative duration", func(c *Config) { c.Timings.Tie = "-1s" }, "must not be negative"},
		{"negative scale", func(c *Config) { c.Timings.Scale = -2 }, "scale must be positive"},
		{"bad dictionary timeout", func(c *Config) { c.Dictionary.Timeout = "x" }, "dictionary timeout"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "invalid port"},
		{"unknown strategy", func(c *Config) { c.Bots = []BotConfig{{Name: "b", Strategy: "genius"}} }, "bot b"},
		{"duplicate bot", func(c *Config) {
			c.Bots = []BotConfig{{Name: "b", Strategy: "idle"}, {Name: "b", Strategy: "idle"}}
		}, "duplicate name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}

func TestExampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "wordstop.example.hcl"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 100, cfg.Game.Bet)
	require.Len(t, cfg.Bots, 2)
	assert.Equal(t, "sloppy", cfg.Bots[1].Strategy)

	timings, err := cfg.EngineTimings()
	require.NoError(t, err)
	assert.Equal(t, engine.DefaultTimings(), timings)
}
