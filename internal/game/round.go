package game

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Phase is the stage a round is in.
type Phase int

const (
	PhaseAnnouncing Phase = iota
	PhaseRolling
	PhaseLetterSelecting
	PhaseLetterAnnouncing
	PhaseFilling
	PhaseComparing
	PhaseResolved
)

func (p Phase) String() string {
	switch p {
	case PhaseAnnouncing:
		return "announcing"
	case PhaseRolling:
		return "rolling"
	case PhaseLetterSelecting:
		return "letter_selecting"
	case PhaseLetterAnnouncing:
		return "letter_announcing"
	case PhaseFilling:
		return "filling"
	case PhaseComparing:
		return "comparing"
	case PhaseResolved:
		return "resolved"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Round is the immutable state of a single round. Transition methods return a
// new Round and never modify the receiver; a rejected input returns the
// receiver unchanged together with an *InputRejectedError.
type Round struct {
	number     int
	players    []PlayerID
	categories []Category
	phase      Phase

	rolls    int
	lastRoll []int
	chooser  PlayerID
	letter   Letter

	answers   map[PlayerID]map[Category]Answer
	stoppedBy PlayerID

	results []CategoryResult
	scores  map[PlayerID]int
	winner  PlayerID
}

// NewRound creates round number (1-based) in the Announcing phase with no
// answers and zero scores.
func NewRound(number int, players []PlayerID, categories []Category) (Round, error) {
	if number < 1 {
		return Round{}, fmt.Errorf("round number must be positive, got %d", number)
	}
	if len(players) < 2 {
		return Round{}, fmt.Errorf("a round needs at least two players, got %d", len(players))
	}
	if len(categories) == 0 {
		return Round{}, fmt.Errorf("a round needs at least one category")
	}
	seenP := make(map[PlayerID]bool, len(players))
	for _, p := range players {
		if p == NoPlayer || seenP[p] {
			return Round{}, fmt.Errorf("invalid or duplicate player %q", p)
		}
		seenP[p] = true
	}
	seenC := make(map[Category]bool, len(categories))
	for _, c := range categories {
		if c == "" || seenC[c] {
			return Round{}, fmt.Errorf("invalid or duplicate category %q", c)
		}
		seenC[c] = true
	}

	r := Round{
		number:     number,
		players:    slices.Clone(players),
		categories: slices.Clone(categories),
		phase:      PhaseAnnouncing,
		answers:    make(map[PlayerID]map[Category]Answer, len(players)),
		scores:     make(map[PlayerID]int, len(players)),
	}
	for _, p := range players {
		r.answers[p] = make(map[Category]Answer, len(categories))
		r.scores[p] = 0
	}
	return r, nil
}

func (r Round) Number() int               { return r.number }
func (r Round) Phase() Phase              { return r.phase }
func (r Round) Letter() Letter            { return r.letter }
func (r Round) Chooser() PlayerID         { return r.chooser }
func (r Round) StoppedBy() PlayerID       { return r.stoppedBy }
func (r Round) Rolls() int                { return r.rolls }
func (r Round) LastRoll() []int           { return slices.Clone(r.lastRoll) }
func (r Round) Players() []PlayerID       { return slices.Clone(r.players) }
func (r Round) Categories() []Category    { return slices.Clone(r.categories) }
func (r Round) Results() []CategoryResult { return slices.Clone(r.results) }
func (r Round) Scores() map[PlayerID]int  { return maps.Clone(r.scores) }
func (r Round) Score(p PlayerID) int      { return r.scores[p] }

// Sealed reports whether the round is resolved and can no longer change.
func (r Round) Sealed() bool { return r.phase == PhaseResolved }

// Winner returns the round winner. ok is false before resolution and for a
// drawn round.
func (r Round) Winner() (PlayerID, bool) {
	return r.winner, r.phase == PhaseResolved && r.winner != NoPlayer
}

// Answer returns the stored answer of player for category.
func (r Round) Answer(player PlayerID, category Category) (Answer, bool) {
	a, ok := r.answers[player][category]
	return a, ok
}

// Filled returns how many categories player has filled.
func (r Round) Filled(player PlayerID) int {
	return len(r.answers[player])
}

// FilledAll reports whether player has filled every category.
func (r Round) FilledAll(player PlayerID) bool {
	return r.Filled(player) == len(r.categories)
}

// HasPlayer reports whether p plays this round.
func (r Round) HasPlayer(p PlayerID) bool {
	return slices.Contains(r.players, p)
}

// HasCategory reports whether c is one of the round's categories.
func (r Round) HasCategory(c Category) bool {
	return slices.Contains(r.categories, c)
}

// CategoryAnswers returns every player's answer for category in player
// order; missing answers are blank.
func (r Round) CategoryAnswers(category Category) []Answer {
	out := make([]Answer, len(r.players))
	for i, p := range r.players {
		a, ok := r.answers[p][category]
		if !ok {
			a = Answer{Player: p, Category: category}
		}
		out[i] = a
	}
	return out
}

// AllAnswers returns every stored answer, category by category.
func (r Round) AllAnswers() []Answer {
	var out []Answer
	for _, c := range r.categories {
		for _, p := range r.players {
			if a, ok := r.answers[p][c]; ok {
				out = append(out, a)
			}
		}
	}
	return out
}

// NextCategory returns the category the next reveal will score.
func (r Round) NextCategory() (Category, bool) {
	if r.phase != PhaseComparing || len(r.results) >= len(r.categories) {
		return "", false
	}
	return r.categories[len(r.results)], true
}

// BeginRolling ends the announcement.
func (r Round) BeginRolling() (Round, error) {
	if r.phase != PhaseAnnouncing {
		return r, reject("begin rolling", r.phase, "round is not announcing")
	}
	r.phase = PhaseRolling
	return r, nil
}

// RecordRoll records one die per player, in player order. On a tie on the
// highest value the round stays in Rolling and tie is true; otherwise the
// highest roller becomes the chooser.
func (r Round) RecordRoll(values []int) (Round, bool, error) {
	if r.phase != PhaseRolling {
		return r, false, reject("roll", r.phase, "dice can only be rolled in rolling phase")
	}
	if len(values) != len(r.players) {
		return r, false, fmt.Errorf("expected %d dice, got %d", len(r.players), len(values))
	}
	for _, v := range values {
		if v < 1 || v > DieFaces {
			return r, false, fmt.Errorf("die value %d out of range", v)
		}
	}

	r.rolls++
	r.lastRoll = slices.Clone(values)
	winner, tie := ResolveAll(values)
	if tie {
		return r, true, nil
	}
	r.chooser = r.players[winner]
	r.phase = PhaseLetterSelecting
	return r, false, nil
}

// ChooseLetter sets the round letter. Only the chooser may pick, and only
// during letter selection.
func (r Round) ChooseLetter(player PlayerID, letter Letter) (Round, error) {
	if r.phase != PhaseLetterSelecting {
		return r, reject("choose letter", r.phase, "no letter is being selected")
	}
	if player != r.chooser {
		return r, reject("choose letter", r.phase, "%s is not the chooser", player)
	}
	if !letter.Valid() {
		return r, reject("choose letter", r.phase, "invalid letter %q", byte(letter))
	}
	r.letter = letter
	r.phase = PhaseLetterAnnouncing
	return r, nil
}

// BeginFilling ends the letter announcement.
func (r Round) BeginFilling() (Round, error) {
	if r.phase != PhaseLetterAnnouncing {
		return r, reject("begin filling", r.phase, "letter is not being announced")
	}
	r.phase = PhaseFilling
	return r, nil
}

// Submit stores a player's answer for a category. Each category can be filled
// once per round; blank text counts as filled.
func (r Round) Submit(player PlayerID, category Category, text string) (Round, error) {
	if r.phase != PhaseFilling {
		return r, reject("submit", r.phase, "answers are only accepted while filling")
	}
	if !r.HasPlayer(player) {
		return r, reject("submit", r.phase, "unknown player %s", player)
	}
	if !r.HasCategory(category) {
		return r, reject("submit", r.phase, "unknown category %s", category)
	}
	if _, ok := r.answers[player][category]; ok {
		return r, reject("submit", r.phase, "%s already filled %s", player, category)
	}

	answers := maps.Clone(r.answers)
	mine := maps.Clone(answers[player])
	mine[category] = Answer{Player: player, Category: category, Text: strings.TrimSpace(text)}
	answers[player] = mine
	r.answers = answers
	return r, nil
}

// Stop ends filling early. Only a player who filled every category may stop.
func (r Round) Stop(player PlayerID) (Round, error) {
	if r.phase != PhaseFilling {
		return r, reject("stop", r.phase, "stop is only possible while filling")
	}
	if !r.HasPlayer(player) {
		return r, reject("stop", r.phase, "unknown player %s", player)
	}
	if !r.FilledAll(player) {
		return r, reject("stop", r.phase, "%s filled %d of %d categories", player, r.Filled(player), len(r.categories))
	}
	r.phase = PhaseComparing
	r.stoppedBy = player
	return r, nil
}

// Expire ends filling because the round budget ran out.
func (r Round) Expire() (Round, error) {
	if r.phase != PhaseFilling {
		return r, reject("expire", r.phase, "round is not filling")
	}
	r.phase = PhaseComparing
	return r, nil
}

// RevealNext scores the next category in sequence and adds its points to the
// round scores. After the last category the round is resolved: the single
// highest score wins, a shared highest score is a draw.
func (r Round) RevealNext(judge Judge) (Round, CategoryResult, error) {
	category, ok := r.NextCategory()
	if !ok {
		return r, CategoryResult{}, reject("reveal", r.phase, "nothing left to compare")
	}

	result := ScoreCategory(r.CategoryAnswers(category), r.letter, category, judge)

	scores := maps.Clone(r.scores)
	for p, pts := range result.Points {
		scores[p] += pts
	}
	r.scores = scores
	r.results = append(slices.Clone(r.results), result)

	if len(r.results) == len(r.categories) {
		r.phase = PhaseResolved
		r.winner = topScorer(r.players, scores)
	}
	return r, result, nil
}

func topScorer(players []PlayerID, scores map[PlayerID]int) PlayerID {
	best, winner, shared := -1, NoPlayer, false
	for _, p := range players {
		switch s := scores[p]; {
		case s > best:
			best, winner, shared = s, p, false
		case s == best:
			shared = true
		}
	}
	if shared {
		return NoPlayer
	}
	return winner
}
