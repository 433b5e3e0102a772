// Package config loads wordstop.hcl. Every block is optional; a missing file
// yields the defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/wordstop/internal/bot"
	"github.com/lox/wordstop/internal/engine"
	"github.com/lox/wordstop/internal/game"
)

// DefaultFile is the configuration file looked for when none is given.
const DefaultFile = "wordstop.hcl"

// Config is the complete configuration.
type Config struct {
	Game       *GameSettings       `hcl:"game,block"`
	Timings    *TimingSettings     `hcl:"timings,block"`
	Dictionary *DictionarySettings `hcl:"dictionary,block"`
	Server     *ServerSettings     `hcl:"server,block"`
	Bots       []BotConfig         `hcl:"bot,block"`
}

// GameSettings describes the matches to play.
type GameSettings struct {
	Players     int      `hcl:"players,optional"`
	Bet         int      `hcl:"bet,optional"`
	Categories  []string `hcl:"categories,optional"`
	AnswersFile string   `hcl:"answers_file,optional"`
}

// TimingSettings overrides phase durations. Values are Go duration strings;
// Scale multiplies all of them.
type TimingSettings struct {
	Announce       string  `hcl:"announce,optional"`
	RollFallback   string  `hcl:"roll_fallback,optional"`
	Tie            string  `hcl:"tie,optional"`
	Reveal         string  `hcl:"reveal,optional"`
	LetterTimeout  string  `hcl:"letter_timeout,optional"`
	LetterAnnounce string  `hcl:"letter_announce,optional"`
	RoundBudget    string  `hcl:"round_budget,optional"`
	StopNotice     string  `hcl:"stop_notice,optional"`
	Dwell          string  `hcl:"dwell,optional"`
	ResultDisplay  string  `hcl:"result_display,optional"`
	Scale          float64 `hcl:"scale,optional"`
}

// DictionarySettings configures the word-existence service.
type DictionarySettings struct {
	URL           string `hcl:"url,optional"`
	Language      string `hcl:"language,optional"`
	Timeout       string `hcl:"timeout,optional"`
	Offline       bool   `hcl:"offline,optional"`
	RedisAddr     string `hcl:"redis_addr,optional"`
	RedisPassword string `hcl:"redis_password,optional"`
	RedisDB       int    `hcl:"redis_db,optional"`
	CacheTTL      string `hcl:"cache_ttl,optional"`
}

// ServerSettings configures `wordstop serve`.
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
	// MaxMatches caps concurrently running matches.
	MaxMatches int `hcl:"max_matches,optional"`
}

// BotConfig seats a bot in server-launched matches.
type BotConfig struct {
	Name     string `hcl:"name,label"`
	Strategy string `hcl:"strategy,optional"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads filename, falling back to defaults if it does not exist.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

// Parse decodes HCL source, for tests and embedded configs.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}
	var config Config
	if diags := gohcl.DecodeBody(file.Body, nil, &config); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Game == nil {
		c.Game = &GameSettings{}
	}
	if c.Game.Players == 0 {
		c.Game.Players = 2
	}
	if len(c.Game.Categories) == 0 {
		for _, cat := range game.DefaultCategories {
			c.Game.Categories = append(c.Game.Categories, string(cat))
		}
	}

	if c.Timings == nil {
		c.Timings = &TimingSettings{}
	}
	if c.Timings.Scale == 0 {
		c.Timings.Scale = 1
	}

	if c.Dictionary == nil {
		c.Dictionary = &DictionarySettings{}
	}
	if c.Dictionary.URL == "" {
		c.Dictionary.URL = "https://api.dictionaryapi.dev"
	}
	if c.Dictionary.Language == "" {
		c.Dictionary.Language = "en"
	}
	if c.Dictionary.Timeout == "" {
		c.Dictionary.Timeout = "3s"
	}
	if c.Dictionary.CacheTTL == "" {
		c.Dictionary.CacheTTL = "168h"
	}

	if c.Server == nil {
		c.Server = &ServerSettings{}
	}
	if c.Server.Address == "" {
		c.Server.Address = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Server.MaxMatches == 0 {
		c.Server.MaxMatches = 16
	}

	for i := range c.Bots {
		if c.Bots[i].Strategy == "" {
			c.Bots[i].Strategy = "scholar"
		}
	}
}

// Validate checks the configuration for values the game cannot run with.
func (c *Config) Validate() error {
	if c.Game.Players < 2 || c.Game.Players > 3 {
		return fmt.Errorf("players must be 2 or 3, got %d", c.Game.Players)
	}
	if c.Game.Bet < 0 {
		return fmt.Errorf("bet must not be negative, got %d", c.Game.Bet)
	}
	seen := map[string]bool{}
	for _, cat := range c.Game.Categories {
		if cat == "" || seen[cat] {
			return fmt.Errorf("invalid or duplicate category %q", cat)
		}
		seen[cat] = true
	}

	if c.Timings.Scale < 0 {
		return fmt.Errorf("timings scale must be positive, got %g", c.Timings.Scale)
	}
	timings, err := c.EngineTimings()
	if err != nil {
		return err
	}
	if err := timings.Validate(); err != nil {
		return err
	}

	if _, err := time.ParseDuration(c.Dictionary.Timeout); err != nil {
		return fmt.Errorf("dictionary timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.Dictionary.CacheTTL); err != nil {
		return fmt.Errorf("dictionary cache_ttl: %w", err)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Server.MaxMatches < 1 {
		return fmt.Errorf("max_matches must be positive, got %d", c.Server.MaxMatches)
	}

	names := map[string]bool{}
	for _, b := range c.Bots {
		if names[b.Name] {
			return fmt.Errorf("bot %s: duplicate name", b.Name)
		}
		names[b.Name] = true
		if _, err := bot.ParseStrategy(b.Strategy); err != nil {
			return fmt.Errorf("bot %s: %w", b.Name, err)
		}
	}
	return nil
}

// EngineTimings resolves the timing overrides against the defaults and
// applies the scale.
func (c *Config) EngineTimings() (engine.Timings, error) {
	t := engine.DefaultTimings()
	overrides := []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"announce", c.Timings.Announce, &t.Announce},
		{"roll_fallback", c.Timings.RollFallback, &t.RollFallback},
		{"tie", c.Timings.Tie, &t.Tie},
		{"reveal", c.Timings.Reveal, &t.Reveal},
		{"letter_timeout", c.Timings.LetterTimeout, &t.LetterTimeout},
		{"letter_announce", c.Timings.LetterAnnounce, &t.LetterAnnounce},
		{"round_budget", c.Timings.RoundBudget, &t.RoundBudget},
		{"stop_notice", c.Timings.StopNotice, &t.StopNotice},
		{"dwell", c.Timings.Dwell, &t.Dwell},
		{"result_display", c.Timings.ResultDisplay, &t.ResultDisplay},
	}
	for _, o := range overrides {
		if o.value == "" {
			continue
		}
		d, err := time.ParseDuration(o.value)
		if err != nil {
			return engine.Timings{}, fmt.Errorf("timings %s: %w", o.name, err)
		}
		*o.dst = d
	}
	if c.Timings.Scale != 1 {
		t = t.Scaled(c.Timings.Scale)
	}
	return t, nil
}

// EngineConfig returns the per-match configuration.
func (c *Config) EngineConfig() (engine.Config, error) {
	timings, err := c.EngineTimings()
	if err != nil {
		return engine.Config{}, err
	}
	categories := make([]game.Category, len(c.Game.Categories))
	for i, cat := range c.Game.Categories {
		categories[i] = game.Category(cat)
	}
	return engine.Config{Categories: categories, Bet: c.Game.Bet, Timings: timings}, nil
}

// DictionaryTimeout returns the parsed HTTP timeout.
func (c *Config) DictionaryTimeout() time.Duration {
	d, err := time.ParseDuration(c.Dictionary.Timeout)
	if err != nil {
		return 3 * time.Second
	}
	return d
}

// CacheTTL returns the parsed Redis cache TTL.
func (c *Config) CacheTTL() time.Duration {
	d, err := time.ParseDuration(c.Dictionary.CacheTTL)
	if err != nil {
		return 7 * 24 * time.Hour
	}
	return d
}

// ServerAddress returns host:port for the HTTP server.
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
