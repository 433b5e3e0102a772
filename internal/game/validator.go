package game

import (
	"strings"
	"unicode/utf8"
)

// Curated is the static reference list of known-good answers.
type Curated interface {
	Contains(letter, category, text string) bool
}

// Validator applies the synchronous answer rules.
type Validator struct {
	curated Curated
}

// NewValidator returns a Validator backed by curated. A nil curated list
// sends every rule-abiding answer to the dictionary.
func NewValidator(curated Curated) *Validator {
	return &Validator{curated: curated}
}

// Check applies, in order: blank -> Invalid; wrong first letter -> Invalid;
// fewer than two characters -> Invalid; curated -> Valid; otherwise Unknown.
func (v *Validator) Check(letter Letter, category Category, text string) Verdict {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Invalid
	}
	first, _ := utf8.DecodeRuneInString(trimmed)
	if !strings.EqualFold(string(first), letter.String()) {
		return Invalid
	}
	if utf8.RuneCountInString(trimmed) < 2 {
		return Invalid
	}
	if v.curated != nil && v.curated.Contains(letter.String(), string(category), trimmed) {
		return Valid
	}
	return Unknown
}

// Judge supplies resolved verdicts to the scoring functions.
type Judge interface {
	Judge(letter Letter, category Category, text string) Verdict
}

// JudgeFunc adapts a function to Judge.
type JudgeFunc func(letter Letter, category Category, text string) Verdict

// Judge implements Judge.
func (f JudgeFunc) Judge(letter Letter, category Category, text string) Verdict {
	return f(letter, category, text)
}

type verdictKey struct {
	category Category
	text     string
}

// Verdicts is the per-round verdict cache. It combines the synchronous rules
// with dictionary confirmations; a confirmation is recorded once and never
// changes for the rest of the round. It is not safe for concurrent use: the
// engine touches it only from its event loop.
type Verdicts struct {
	validator *Validator
	letter    Letter
	confirmed map[verdictKey]bool
}

// NewVerdicts starts an empty cache for a round played on letter.
func NewVerdicts(v *Validator, letter Letter) *Verdicts {
	return &Verdicts{
		validator: v,
		letter:    letter,
		confirmed: make(map[verdictKey]bool),
	}
}

// Letter returns the round letter the cache was created for.
func (c *Verdicts) Letter() Letter { return c.letter }

// Verdict returns the current verdict for text in category.
func (c *Verdicts) Verdict(category Category, text string) Verdict {
	v := c.validator.Check(c.letter, category, text)
	if v != Unknown {
		return v
	}
	exists, ok := c.confirmed[verdictKey{category, normalize(text)}]
	switch {
	case !ok:
		return Unknown
	case exists:
		return Valid
	default:
		return Invalid
	}
}

// Confirm records a dictionary answer for text. It returns false, and changes
// nothing, when the answer was already resolved.
func (c *Verdicts) Confirm(category Category, text string, exists bool) bool {
	if c.Verdict(category, text) != Unknown {
		return false
	}
	c.confirmed[verdictKey{category, normalize(text)}] = exists
	return true
}

// Judge implements Judge. A different letter is judged by the rules alone.
func (c *Verdicts) Judge(letter Letter, category Category, text string) Verdict {
	if letter != c.letter {
		return c.validator.Check(letter, category, text)
	}
	return c.Verdict(category, text)
}

// LookupKey is the normalized word sent to the dictionary; answers that share
// a key share a lookup.
func LookupKey(category Category, text string) string {
	return string(category) + "|" + normalize(text)
}
