package main

import (
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/lox/wordstop/cmd/wordstop/shared"
	"github.com/lox/wordstop/internal/config"
)

// version is set by ldflags during build
var version = "dev"

// Globals are the flags shared by every command.
type Globals struct {
	Config   string `short:"c" default:"wordstop.hcl" env:"WORDSTOP_CONFIG" help:"Configuration file"`
	Debug    bool   `env:"WORDSTOP_DEBUG" help:"Enable debug logging"`
	JSONLogs bool   `name:"json-logs" env:"WORDSTOP_JSON_LOGS" help:"Log JSON instead of console output"`
}

// Logger builds the process logger. level comes from the config file.
func (g *Globals) Logger(level string) zerolog.Logger {
	lvl := shared.ParseLevel(level, g.Debug)
	if g.JSONLogs {
		return shared.SetupStructuredLogger(lvl)
	}
	return shared.SetupLogger(lvl)
}

// Load reads and validates the config file.
func (g *Globals) Load() (*config.Config, error) {
	return shared.LoadConfig(g.Config)
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" help:"Play a match against bots on the console"`
	Simulate SimulateCmd      `cmd:"" help:"Run bot-only matches on a compressed clock and print stats"`
	Serve    ServeCmd         `cmd:"" help:"Run the HTTP server with spectator feed and match launcher"`
	Check    CheckCmd         `cmd:"" help:"Validate one answer against the rules and dictionary"`
}

func main() {
	// A missing .env is fine
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("wordstop"),
		kong.Description("Stop, the word game: rounds of letters, categories and a race to fill"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
