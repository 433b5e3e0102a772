package bot

import (
	"github.com/lox/wordstop/internal/answers"
	"github.com/lox/wordstop/internal/game"
	"github.com/lox/wordstop/internal/randutil"
)

// Scholar answers every card from the curated database and stops as soon as
// it is done. A category with no curated word is filled blank.
type Scholar struct{}

func (Scholar) Name() string { return "scholar" }
func (Scholar) Rolls() bool  { return true }
func (Scholar) Stops() bool  { return true }

func (Scholar) Letter(rng randutil.Source) game.Letter {
	return randomLetter(rng)
}

func (Scholar) Answer(rng randutil.Source, db *answers.Database, letter game.Letter, category game.Category) (string, bool) {
	return db.Random(rng, letter.String(), string(category)), true
}
