package game

import (
	"fmt"
	"strings"
)

// PointsPerAnswer is awarded for a valid answer nobody else gave.
const PointsPerAnswer = 10

// Alphabet lists the letters a round can be played on.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// PlayerID identifies a participant.
type PlayerID string

// NoPlayer marks the absence of a player, e.g. a drawn round.
const NoPlayer PlayerID = ""

// Category is one fixed slot every player fills once per round.
type Category string

// DefaultCategories is the category sequence used when none is configured.
var DefaultCategories = []Category{"NAME", "ANIMAL", "FRUIT", "OBJECT", "COUNTRY"}

// Letter is an uppercase ASCII letter.
type Letter byte

// ParseLetter accepts a single letter in either case.
func ParseLetter(s string) (Letter, error) {
	s = strings.TrimSpace(s)
	if len(s) != 1 {
		return 0, fmt.Errorf("letter must be a single character, got %q", s)
	}
	l := Letter(strings.ToUpper(s)[0])
	if !l.Valid() {
		return 0, fmt.Errorf("letter must be A-Z, got %q", s)
	}
	return l, nil
}

// Valid reports whether l is one of A-Z.
func (l Letter) Valid() bool {
	return l >= 'A' && l <= 'Z'
}

func (l Letter) String() string {
	if l == 0 {
		return ""
	}
	return string(rune(l))
}

// MarshalText implements encoding.TextMarshaler.
func (l Letter) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Verdict is the validation outcome for one answer.
type Verdict int

const (
	// Unknown means the answer passed the rules but is not curated; it needs a
	// dictionary confirmation before it can be scored.
	Unknown Verdict = iota
	Valid
	Invalid
)

func (v Verdict) String() string {
	switch v {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// Answer is one player's entry for one category. Blank text is a legitimate
// "no answer".
type Answer struct {
	Player   PlayerID `json:"player"`
	Category Category `json:"category"`
	Text     string   `json:"text"`
}

// Blank reports whether the answer has no content.
func (a Answer) Blank() bool {
	return strings.TrimSpace(a.Text) == ""
}

// normalize is the form answers are compared in.
func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Label classifies how a category was decided.
type Label int

const (
	LabelNoAnswers Label = iota
	LabelAllInvalid
	LabelSingleValid
	LabelDuplicateValid
	LabelAllUniqueValid
)

func (l Label) String() string {
	switch l {
	case LabelNoAnswers:
		return "no_answers"
	case LabelAllInvalid:
		return "all_invalid"
	case LabelSingleValid:
		return "single_valid"
	case LabelDuplicateValid:
		return "duplicate_valid"
	case LabelAllUniqueValid:
		return "all_unique_valid"
	default:
		return fmt.Sprintf("label(%d)", int(l))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l Label) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// CategoryResult is the scored outcome of one category.
type CategoryResult struct {
	Category Category          `json:"category"`
	Label    Label             `json:"label"`
	Single   PlayerID          `json:"single,omitempty"` // set for LabelSingleValid
	Points   map[PlayerID]int  `json:"points"`
	Valid    map[PlayerID]bool `json:"valid"`
	Answers  []Answer          `json:"answers"`
}
