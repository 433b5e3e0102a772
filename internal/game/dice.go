package game

import (
	"github.com/lox/wordstop/internal/randutil"
)

// DieFaces is the number of faces on each die.
const DieFaces = 6

// Side identifies one of two dice in a pair roll.
type Side int

const (
	SideFirst Side = iota
	SideSecond
)

// Resolution is the outcome of comparing a pair of dice.
type Resolution struct {
	Tie    bool
	Winner Side
}

// DiceArbiter decides who picks the round letter.
type DiceArbiter struct {
	rng randutil.Source
}

// NewDiceArbiter returns an arbiter drawing from rng.
func NewDiceArbiter(rng randutil.Source) *DiceArbiter {
	return &DiceArbiter{rng: rng}
}

// RollDie returns a uniform value in [1, 6].
func (d *DiceArbiter) RollDie() int {
	return d.rng.IntN(DieFaces) + 1
}

// RollPair rolls two dice.
func (d *DiceArbiter) RollPair() (int, int) {
	return d.RollDie(), d.RollDie()
}

// Roll rolls one die per player.
func (d *DiceArbiter) Roll(n int) []int {
	values := make([]int, n)
	for i := range values {
		values[i] = d.RollDie()
	}
	return values
}

// Resolve compares a pair of dice. On a tie the caller must roll again.
func Resolve(v1, v2 int) Resolution {
	switch {
	case v1 == v2:
		return Resolution{Tie: true}
	case v1 > v2:
		return Resolution{Winner: SideFirst}
	default:
		return Resolution{Winner: SideSecond}
	}
}

// ResolveAll returns the index of the single highest die. If the highest value
// is shared, tie is true and every player rolls again.
func ResolveAll(values []int) (winner int, tie bool) {
	winner = -1
	best := 0
	for i, v := range values {
		switch {
		case v > best:
			best, winner, tie = v, i, false
		case v == best:
			tie = true
		}
	}
	if winner < 0 {
		return -1, true
	}
	return winner, tie
}

// Decide rolls until the dice are decisive and returns the winner along with
// every roll made. maxRolls caps the retries so tests stay deterministic; the
// engine re-rolls without a cap.
func (d *DiceArbiter) Decide(n, maxRolls int) (int, [][]int, error) {
	var history [][]int
	for i := 0; i < maxRolls; i++ {
		values := d.Roll(n)
		history = append(history, values)
		if winner, tie := ResolveAll(values); !tie {
			return winner, history, nil
		}
	}
	return -1, history, ErrTooManyTies
}

// RandomLetter draws uniformly from A-Z.
func (d *DiceArbiter) RandomLetter() Letter {
	return Letter(Alphabet[d.rng.IntN(len(Alphabet))])
}
