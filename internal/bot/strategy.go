package bot

import (
	"fmt"
	"sort"

	"github.com/lox/wordstop/internal/answers"
	"github.com/lox/wordstop/internal/game"
	"github.com/lox/wordstop/internal/randutil"
)

// Strategy decides what a bot plays.
type Strategy interface {
	Name() string
	// Rolls reports whether the bot presses roll.
	Rolls() bool
	// Letter picks the round letter when the bot is the chooser.
	Letter(rng randutil.Source) game.Letter
	// Answer returns the card for category; fill false leaves it untouched.
	Answer(rng randutil.Source, db *answers.Database, letter game.Letter, category game.Category) (text string, fill bool)
	// Stops reports whether the bot stops once every card is filled.
	Stops() bool
}

var strategies = map[string]func() Strategy{
	"scholar": func() Strategy { return Scholar{} },
	"sloppy":  func() Strategy { return Sloppy{ErrorRate: 30} },
	"idle":    func() Strategy { return Idle{} },
}

// ParseStrategy returns the strategy registered under name.
func ParseStrategy(name string) (Strategy, error) {
	ctor, ok := strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown bot strategy %q (available: %v)", name, StrategyNames())
	}
	return ctor(), nil
}

// StrategyNames lists the registered strategies, sorted.
func StrategyNames() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func randomLetter(rng randutil.Source) game.Letter {
	return game.Letter(game.Alphabet[rng.IntN(len(game.Alphabet))])
}
