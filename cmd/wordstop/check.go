package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lox/wordstop/cmd/wordstop/shared"
	"github.com/lox/wordstop/internal/dictionary"
	"github.com/lox/wordstop/internal/game"
)

// CheckCmd runs one answer through the validator, and the dictionary when
// the rules cannot decide.
type CheckCmd struct {
	Letter   string   `arg:"" help:"Round letter"`
	Category string   `arg:"" help:"Category, e.g. FRUIT"`
	Word     []string `arg:"" optional:"" help:"Answer text"`
	Offline  bool     `help:"Do not consult the dictionary"`
}

func (c *CheckCmd) Run(g *Globals) error {
	cfg, err := g.Load()
	if err != nil {
		return err
	}
	logger := g.Logger(zerolog.LevelWarnValue)
	if c.Offline {
		cfg.Dictionary.Offline = true
	}

	letter, err := game.ParseLetter(c.Letter)
	if err != nil {
		return err
	}
	category := game.Category(strings.ToUpper(c.Category))
	text := strings.Join(c.Word, " ")

	db, err := shared.LoadAnswers(cfg)
	if err != nil {
		return err
	}

	verdict := game.NewValidator(db).Check(letter, category, text)
	source := "rules"
	if verdict == game.Valid {
		source = "curated"
	}
	if verdict == game.Unknown {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.DictionaryTimeout()+2*time.Second)
		defer cancel()
		lookup, closeLookup, err := shared.BuildLookup(ctx, cfg, nil, logger)
		if err != nil {
			return err
		}
		defer closeLookup()

		verdict = game.Invalid
		if dictionary.Confirm(ctx, lookup, text, logger) {
			verdict = game.Valid
		}
		source = "dictionary"
	}

	style := loseStyle
	if verdict == game.Valid {
		style = winStyle
	}
	fmt.Fprintf(os.Stdout, "%s %s %q: %s %s\n", letterStyle.Render(letter.String()), category, text,
		style.Render(verdict.String()), dimStyle.Render("("+source+")"))
	return nil
}
