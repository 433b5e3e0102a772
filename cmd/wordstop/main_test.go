package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/wordstop/internal/engine"
	"github.com/lox/wordstop/internal/game"
	"github.com/lox/wordstop/internal/statistics"
)

func TestParseCommand(t *testing.T) {
	cats := game.DefaultCategories
	tests := []struct {
		line string
		want engine.Input
	}{
		{"roll", engine.Roll("me")},
		{"  ROLL ", engine.Roll("me")},
		{"stop", engine.Stop("me")},
		{"letter b", engine.ChooseLetter("me", 'B')},
		{"q", engine.ChooseLetter("me", 'Q')},
		{"fruit Banana", engine.Submit("me", "FRUIT", "Banana")},
		{"NAME Mary Ann", engine.Submit("me", "NAME", "Mary Ann")},
		{"country", engine.Submit("me", "COUNTRY", "")},
	}
	for _, tt := range tests {
		got, err := parseCommand(tt.line, "me", cats)
		require.NoError(t, err, tt.line)
		assert.Equal(t, tt.want, got, tt.line)
	}

	for _, bad := range []string{"", "letter", "letter 7", "letter ab", "dance now", "7"} {
		_, err := parseCommand(bad, "me", cats)
		assert.Error(t, err, bad)
	}
}

func TestConsoleRendersRound(t *testing.T) {
	var buf bytes.Buffer
	c := newConsole(&buf, "me", game.DefaultCategories)

	c.OnEvent(engine.PhaseChangedEvent{Phase: game.PhaseAnnouncing, Label: "ROUND 1"})
	c.OnEvent(engine.DiceRolledEvent{Players: []game.PlayerID{"me", "bot"}, Values: []int{3, 3}, Tie: true})
	c.OnEvent(engine.PhaseChangedEvent{Phase: game.PhaseLetterSelecting, Chooser: "me"})
	c.OnEvent(engine.LetterChosenEvent{Player: "me", Letter: 'B'})
	c.OnEvent(engine.AnswerRecordedEvent{Player: "me", Category: "FRUIT", Text: "Banana", Filled: 1})
	c.OnEvent(engine.AnswerRecordedEvent{Player: "bot", Category: "FRUIT", Text: "Blueberry", Filled: 2})
	c.OnEvent(engine.CategoryResultEvent{Result: game.CategoryResult{
		Category: "FRUIT",
		Label:    game.LabelAllUniqueValid,
		Points:   map[game.PlayerID]int{"me": 10, "bot": 10},
		Valid:    map[game.PlayerID]bool{"me": true, "bot": true},
		Answers:  []game.Answer{{Player: "me", Category: "FRUIT", Text: "Banana"}, {Player: "bot", Category: "FRUIT", Text: "Blueberry"}},
	}})
	c.OnEvent(engine.RoundResolvedEvent{Winner: "me", Scores: map[game.PlayerID]int{"me": 20, "bot": 10}})
	c.OnEvent(engine.InputRejectedEvent{Input: engine.Stop("bot"), Reason: "hidden"})
	c.OnEvent(engine.InputRejectedEvent{Input: engine.Stop("me"), Reason: "filled 1 of 5"})
	c.OnEvent(engine.MatchResolvedEvent{Outcome: game.OutcomeDraw})

	out := buf.String()
	for _, want := range []string{
		"ROUND 1",
		"me 3, bot 3",
		"tie, rolling again",
		"You choose the letter",
		"me chose",
		"FRUIT: Banana  [1/5]",
		"bot filled 2/5",
		"me: Banana +10",
		"all_unique_valid",
		"You win the round",
		"bot 10, me 20",
		"filled 1 of 5",
		"Match drawn",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "hidden")
	assert.NotContains(t, out, "Blueberry  [")
}

func TestPrintReport(t *testing.T) {
	stats := statistics.New()
	m, err := game.NewMatch("m", []game.PlayerID{"a", "b"}, 10)
	require.NoError(t, err)
	won, _ := m.RecordRound("a")
	won, _ = won.RecordRound("a")
	stats.Add(statistics.ResultFromMatch(won, 1, 2))

	drawn := m
	for _, w := range []game.PlayerID{"a", "b", game.NoPlayer} {
		drawn, err = drawn.RecordRound(w)
		require.NoError(t, err)
	}
	stats.Add(statistics.ResultFromMatch(drawn, 0, 0))
	stats.Add(statistics.ResultFromMatch(m, 0, 0))
	require.NoError(t, stats.Validate())

	var buf bytes.Buffer
	printReport(&buf, stats.Report([]game.PlayerID{"a", "b"}, []string{"scholar", "idle"}), 0)
	out := buf.String()
	assert.Contains(t, out, "2 matches")
	assert.True(t, strings.Contains(out, "50.0%"), out)
	assert.Contains(t, out, "+10")
	assert.Contains(t, out, "draws 1")
	assert.Contains(t, out, "cancelled 1")
}
