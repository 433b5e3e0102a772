package tui

import (
	"fmt"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/wordstop/internal/engine"
	"github.com/lox/wordstop/internal/game"
)

type recorder struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (r *recorder) send(msg tea.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func TestLogWriterSplitsLines(t *testing.T) {
	var rec recorder
	w := NewLogWriter(rec.send)

	n, err := fmt.Fprint(w, "first\nsec")
	require.NoError(t, err)
	assert.Equal(t, 9, n)
	_, _ = fmt.Fprint(w, "ond\n\nthird")

	assert.Equal(t, []tea.Msg{LineMsg("first"), LineMsg("second"), LineMsg("")}, rec.msgs)
}

func TestModelSubmitsInput(t *testing.T) {
	var submitted []string
	m := New("me", func(line string) { submitted = append(submitted, line) })
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	m.input.SetValue("  fruit banana ")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{"fruit banana"}, submitted)
	assert.Empty(t, m.input.Value())

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Len(t, submitted, 1, "blank lines are not submitted")

	// Enter in the log pane does nothing.
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.input.SetValue("stop")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Len(t, submitted, 1)
}

func TestModelQuits(t *testing.T) {
	m := New("me", nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestModelView(t *testing.T) {
	m := New("me", nil)
	assert.Equal(t, "Loading...", m.View())

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.Update(LineMsg("ROUND 1"))
	m.Update(BoardMsg{Board: Board{
		Players: []game.PlayerID{"me", "bot"},
		Bet:     10,
		Round:   1,
		Phase:   game.PhaseFilling,
		Letter:  'B',
		Wins:    map[game.PlayerID]int{"bot": 1},
		Filled:  map[game.PlayerID]int{"me": 2},
	}})

	view := m.View()
	assert.Contains(t, view, "ROUND 1")
	assert.Contains(t, view, "Round 1")
	assert.Contains(t, view, "me (you)")
	assert.Contains(t, view, "filled 2")
	assert.Contains(t, view, "Bet 10")
}

func TestBoardMonitor(t *testing.T) {
	var rec recorder
	b := NewBoardMonitor(rec.send)

	m, err := game.NewMatch("m", []game.PlayerID{"a", "b"}, 5)
	require.NoError(t, err)
	b.OnMatchStart(m)
	b.OnEvent(engine.PhaseChangedEvent{EventHeader: engine.EventHeader{Round: 1}, Phase: game.PhaseFilling})
	b.OnEvent(engine.LetterChosenEvent{EventHeader: engine.EventHeader{Round: 1}, Player: "a", Letter: 'C'})
	b.OnEvent(engine.AnswerRecordedEvent{EventHeader: engine.EventHeader{Round: 1}, Player: "a", Filled: 3})
	b.OnEvent(engine.RoundResolvedEvent{EventHeader: engine.EventHeader{Round: 1}, Winner: "a",
		Scores: map[game.PlayerID]int{"a": 30, "b": 10}})

	board := b.Board()
	assert.Equal(t, 1, board.Round)
	assert.Equal(t, game.Letter('C'), board.Letter)
	assert.Equal(t, 3, board.Filled["a"])
	assert.Equal(t, 1, board.Wins["a"])
	assert.Equal(t, 30, board.Scores["a"])

	// A new round clears per-round progress but keeps the standings.
	b.OnEvent(engine.PhaseChangedEvent{EventHeader: engine.EventHeader{Round: 2}, Phase: game.PhaseAnnouncing})
	board = b.Board()
	assert.Zero(t, board.Filled["a"])
	assert.Zero(t, board.Letter)
	assert.Equal(t, 1, board.Wins["a"])

	m, _ = m.RecordRound("a")
	m, _ = m.RecordRound("a")
	b.OnMatchComplete(m)
	board = b.Board()
	assert.True(t, board.Done)
	assert.Equal(t, game.OutcomeWon, board.Outcome)
	assert.Equal(t, game.PlayerID("a"), board.Winner)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Len(t, rec.msgs, 7)
	assert.IsType(t, BoardMsg{}, rec.msgs[0])
}
