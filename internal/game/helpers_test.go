package game

import "strings"

// curatedList is an in-memory Curated keyed by letter|category|lowercase text.
type curatedList map[string]bool

func curated(entries ...string) curatedList {
	c := curatedList{}
	for _, e := range entries {
		c[strings.ToLower(e)] = true
	}
	return c
}

func (c curatedList) Contains(letter, category, text string) bool {
	return c[strings.ToLower(letter+"|"+category+"|"+strings.TrimSpace(text))]
}

// rulesJudge accepts every answer that passes the synchronous rules.
var rulesJudge = JudgeFunc(func(letter Letter, category Category, text string) Verdict {
	if NewValidator(nil).Check(letter, category, text) == Invalid {
		return Invalid
	}
	return Valid
})

// fixedJudge returns the verdict registered for a text, Invalid otherwise.
func fixedJudge(valid ...string) Judge {
	set := map[string]bool{}
	for _, v := range valid {
		set[normalize(v)] = true
	}
	return JudgeFunc(func(_ Letter, _ Category, text string) Verdict {
		if set[normalize(text)] {
			return Valid
		}
		return Invalid
	})
}

func ans(p PlayerID, c Category, text string) Answer {
	return Answer{Player: p, Category: c, Text: text}
}
