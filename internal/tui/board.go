package tui

import (
	"maps"
	"slices"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/wordstop/internal/engine"
	"github.com/lox/wordstop/internal/game"
)

// Board is the sidebar state: match standing plus progress in the current round.
type Board struct {
	Players []game.PlayerID
	Bet     int
	Round   int
	Phase   game.Phase
	Letter  game.Letter
	Wins    map[game.PlayerID]int
	Filled  map[game.PlayerID]int
	Scores  map[game.PlayerID]int
	Done    bool
	Outcome game.MatchOutcome
	Winner  game.PlayerID
}

func (b Board) clone() Board {
	b.Players = slices.Clone(b.Players)
	b.Wins = maps.Clone(b.Wins)
	b.Filled = maps.Clone(b.Filled)
	b.Scores = maps.Clone(b.Scores)
	return b
}

// BoardMsg carries a Board snapshot into the program.
type BoardMsg struct{ Board Board }

// BoardMonitor is an engine.Monitor that keeps a Board current and sends a
// snapshot after every change.
type BoardMonitor struct {
	mu    sync.Mutex
	send  func(tea.Msg)
	board Board
}

// NewBoardMonitor sends snapshots through send, usually (*tea.Program).Send.
func NewBoardMonitor(send func(tea.Msg)) *BoardMonitor {
	return &BoardMonitor{send: send}
}

// Board returns the latest snapshot.
func (b *BoardMonitor) Board() Board {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.board.clone()
}

func (b *BoardMonitor) update(fn func(*Board)) {
	b.mu.Lock()
	if b.board.Wins == nil {
		b.board.Wins = map[game.PlayerID]int{}
		b.board.Filled = map[game.PlayerID]int{}
	}
	fn(&b.board)
	snap := b.board.clone()
	b.mu.Unlock()
	b.send(BoardMsg{Board: snap})
}

func (b *BoardMonitor) OnMatchStart(m game.Match) {
	b.update(func(board *Board) {
		*board = Board{
			Players: m.Players(),
			Bet:     m.Bet(),
			Wins:    map[game.PlayerID]int{},
			Filled:  map[game.PlayerID]int{},
			Scores:  map[game.PlayerID]int{},
		}
	})
}

func (b *BoardMonitor) OnMatchComplete(m game.Match) {
	b.update(func(board *Board) {
		board.Done = true
		board.Outcome = m.Outcome()
		board.Winner, _ = m.Winner()
	})
}

func (b *BoardMonitor) OnEvent(ev engine.Event) {
	switch e := ev.(type) {
	case engine.PhaseChangedEvent:
		b.update(func(board *Board) {
			if e.Round != board.Round {
				board.Round = e.Round
				board.Letter = 0
				clear(board.Filled)
				clear(board.Scores)
			}
			board.Phase = e.Phase
			if e.Letter != 0 {
				board.Letter = e.Letter
			}
		})
	case engine.LetterChosenEvent:
		b.update(func(board *Board) { board.Letter = e.Letter })
	case engine.AnswerRecordedEvent:
		b.update(func(board *Board) { board.Filled[e.Player] = e.Filled })
	case engine.CategoryResultEvent:
		b.update(func(board *Board) { board.Scores = maps.Clone(e.Scores) })
	case engine.RoundResolvedEvent:
		b.update(func(board *Board) {
			board.Scores = maps.Clone(e.Scores)
			if !e.Draw && e.Winner != game.NoPlayer {
				board.Wins[e.Winner]++
			}
		})
	}
}
