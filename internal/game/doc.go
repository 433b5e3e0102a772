// Package game implements the rules of the word-category game: answer
// validation, category scoring, dice arbitration, the per-round state machine
// and the best-of-3 match rules.
//
// Everything in this package is synchronous and free of I/O. Round and Match
// are immutable values: every transition returns a new value (or an error when
// the input is illegal in the current phase) and leaves the receiver untouched.
// The engine package owns timing, asynchronous dictionary lookups and event
// publication.
//
// # Basic Usage
//
//	r, _ := game.NewRound(1, []game.PlayerID{"alice", "bob"}, game.DefaultCategories)
//	r, _ = r.BeginRolling()
//	r, _, _ = r.RecordRoll([]int{5, 2}) // alice chooses
//	r, _ = r.ChooseLetter("alice", 'B')
//	r, _ = r.BeginFilling()
//	r, _ = r.Submit("alice", "ANIMAL", "Bear")
//	...
//	for r.Phase() == game.PhaseComparing {
//	    r, result, _ = r.RevealNext(judge)
//	}
//	winner, ok := r.Winner()
//
// # Scoring
//
// A valid answer earns PointsPerAnswer only when no other valid answer for the
// same category is textually equal (trimmed, case-insensitive). Scoring needs
// every verdict resolved: a Judge that still answers Unknown is a programming
// error and panics with *PreconditionError.
package game
