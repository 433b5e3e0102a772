package game

// ScoreCategory2P scores one category between two players:
//
//	both blank              -> NoAnswers, 0/0
//	neither valid           -> AllInvalid, 0/0
//	exactly one valid       -> SingleValid, 10 to that player
//	both valid, same word   -> DuplicateValid, 0/0
//	both valid, different   -> AllUniqueValid, 10/10
func ScoreCategory2P(a1, a2 Answer, letter Letter, category Category, judge Judge) CategoryResult {
	checkAnswers([]Answer{a1, a2}, category)
	v1 := resolved(judge, letter, category, a1)
	v2 := resolved(judge, letter, category, a2)

	res := newResult(category, []Answer{a1, a2})
	res.Valid[a1.Player] = v1
	res.Valid[a2.Player] = v2

	switch {
	case a1.Blank() && a2.Blank():
		res.Label = LabelNoAnswers
	case !v1 && !v2:
		res.Label = LabelAllInvalid
	case v1 && !v2:
		res.Label = LabelSingleValid
		res.Single = a1.Player
		res.Points[a1.Player] = PointsPerAnswer
	case !v1 && v2:
		res.Label = LabelSingleValid
		res.Single = a2.Player
		res.Points[a2.Player] = PointsPerAnswer
	case normalize(a1.Text) == normalize(a2.Text):
		res.Label = LabelDuplicateValid
	default:
		res.Label = LabelAllUniqueValid
		res.Points[a1.Player] = PointsPerAnswer
		res.Points[a2.Player] = PointsPerAnswer
	}
	return res
}

// ScoreCategoryNP scores one category for any number (>= 2) of players. Each
// valid answer earns points only if no other valid answer is textually equal;
// every player in a tie of equal valid answers gets zero. For two players it
// agrees with ScoreCategory2P.
func ScoreCategoryNP(answers []Answer, letter Letter, category Category, judge Judge) CategoryResult {
	if len(answers) < 2 {
		precondition("scoring needs at least two answers, got %d", len(answers))
	}
	checkAnswers(answers, category)

	res := newResult(category, answers)
	counts := make(map[string]int, len(answers))
	blanks := 0
	for _, a := range answers {
		if a.Blank() {
			blanks++
		}
		ok := resolved(judge, letter, category, a)
		res.Valid[a.Player] = ok
		if ok {
			counts[normalize(a.Text)]++
		}
	}

	validCount, duplicated := 0, false
	for _, a := range answers {
		if !res.Valid[a.Player] {
			continue
		}
		validCount++
		if counts[normalize(a.Text)] == 1 {
			res.Points[a.Player] = PointsPerAnswer
		} else {
			duplicated = true
		}
	}

	switch {
	case blanks == len(answers):
		res.Label = LabelNoAnswers
	case validCount == 0:
		res.Label = LabelAllInvalid
	case validCount == 1:
		res.Label = LabelSingleValid
		for _, a := range answers {
			if res.Valid[a.Player] {
				res.Single = a.Player
			}
		}
	case duplicated:
		res.Label = LabelDuplicateValid
	default:
		res.Label = LabelAllUniqueValid
	}
	return res
}

// ScoreCategory picks the two-player rules for two answers and the general
// rules otherwise.
func ScoreCategory(answers []Answer, letter Letter, category Category, judge Judge) CategoryResult {
	if len(answers) == 2 {
		return ScoreCategory2P(answers[0], answers[1], letter, category, judge)
	}
	return ScoreCategoryNP(answers, letter, category, judge)
}

func newResult(category Category, answers []Answer) CategoryResult {
	res := CategoryResult{
		Category: category,
		Points:   make(map[PlayerID]int, len(answers)),
		Valid:    make(map[PlayerID]bool, len(answers)),
		Answers:  make([]Answer, len(answers)),
	}
	copy(res.Answers, answers)
	for _, a := range answers {
		res.Points[a.Player] = 0
	}
	return res
}

func checkAnswers(answers []Answer, category Category) {
	seen := make(map[PlayerID]bool, len(answers))
	for _, a := range answers {
		if a.Category != category {
			precondition("answer from %s is for %s, scoring %s", a.Player, a.Category, category)
		}
		if seen[a.Player] {
			precondition("player %s answered %s twice", a.Player, category)
		}
		seen[a.Player] = true
	}
}

// resolved returns whether a is valid, panicking if the judge cannot decide.
// Blank answers are invalid without consulting the judge.
func resolved(judge Judge, letter Letter, category Category, a Answer) bool {
	if a.Blank() {
		return false
	}
	switch judge.Judge(letter, category, a.Text) {
	case Valid:
		return true
	case Invalid:
		return false
	default:
		precondition("answer %q from %s for %s is unresolved", a.Text, a.Player, category)
		return false
	}
}
