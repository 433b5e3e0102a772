package bot

import (
	"github.com/lox/wordstop/internal/answers"
	"github.com/lox/wordstop/internal/game"
	"github.com/lox/wordstop/internal/randutil"
)

// Idle presses roll and then sits out: it never fills a card or stops, so
// its rounds end on the round budget.
type Idle struct{}

func (Idle) Name() string { return "idle" }
func (Idle) Rolls() bool  { return true }
func (Idle) Stops() bool  { return false }

func (Idle) Letter(rng randutil.Source) game.Letter {
	return randomLetter(rng)
}

func (Idle) Answer(randutil.Source, *answers.Database, game.Letter, game.Category) (string, bool) {
	return "", false
}
