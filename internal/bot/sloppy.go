package bot

import (
	"github.com/lox/wordstop/internal/answers"
	"github.com/lox/wordstop/internal/game"
	"github.com/lox/wordstop/internal/randutil"
)

// Sloppy plays like Scholar but spoils ErrorRate percent of its cards, half
// left blank and half misspelt.
type Sloppy struct {
	ErrorRate int
}

func (Sloppy) Name() string { return "sloppy" }
func (Sloppy) Rolls() bool  { return true }
func (Sloppy) Stops() bool  { return true }

func (Sloppy) Letter(rng randutil.Source) game.Letter {
	return randomLetter(rng)
}

func (s Sloppy) Answer(rng randutil.Source, db *answers.Database, letter game.Letter, category game.Category) (string, bool) {
	word := db.Random(rng, letter.String(), string(category))
	if word == "" || rng.IntN(100) >= s.ErrorRate {
		return word, true
	}
	if rng.IntN(2) == 0 {
		return "", true
	}
	return misspell(word), true
}

// misspell swaps the two letters after the first, keeping the initial so
// the card still passes the letter rule and has to go to the dictionary.
func misspell(word string) string {
	r := []rune(word)
	if len(r) < 3 || r[1] == r[2] {
		return word + "q"
	}
	r[1], r[2] = r[2], r[1]
	return string(r)
}
