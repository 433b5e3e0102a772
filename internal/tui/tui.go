// Package tui is a Bubble Tea front end for a human seated in a match: a
// scrolling log of the console output, a standings sidebar, and a command line.
package tui

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lox/wordstop/internal/game"
)

const (
	paneLog = iota
	paneInput
)

const sidebarWidth = 26

// LineMsg appends one line to the log pane.
type LineMsg string

// QuitMsg closes the program.
type QuitMsg struct{}

// Model is the Bubble Tea model. Submitted lines go to submit, which runs on
// the program goroutine and must not block.
type Model struct {
	player game.PlayerID
	submit func(string)

	logViewport viewport.Model
	input       textinput.Model
	lines       []string
	board       Board
	focusedPane int

	width    int
	height   int
	quitting bool
}

// New returns a model for player.
func New(player game.PlayerID, submit func(string)) *Model {
	vp := viewport.New(10, 5)

	ti := textinput.New()
	ti.Placeholder = "roll, stop, a letter, or CATEGORY answer"
	ti.Focus()
	ti.CharLimit = 100
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(focusColor).Bold(true)

	return &Model{
		player:      player,
		submit:      submit,
		logViewport: vp,
		input:       ti,
		focusedPane: paneInput,
	}
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case QuitMsg:
		m.quitting = true
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case LineMsg:
		follow := m.logViewport.AtBottom() || len(m.lines) == 0
		m.lines = append(m.lines, string(msg))
		m.logViewport.SetContent(strings.Join(m.lines, "\n"))
		if follow {
			m.logViewport.GotoBottom()
		}

	case BoardMsg:
		m.board = msg.Board

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "tab":
			if m.focusedPane == paneLog {
				m.focusedPane = paneInput
				m.input.Focus()
			} else {
				m.focusedPane = paneLog
				m.input.Blur()
			}
			return m, nil
		case "enter":
			if m.focusedPane == paneInput {
				if line := strings.TrimSpace(m.input.Value()); line != "" && m.submit != nil {
					m.submit(line)
				}
				m.input.SetValue("")
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == paneInput {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	} else {
		m.logViewport, cmd = m.logViewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) resize() {
	// Two border rows for the log pane, three rows for the input pane.
	m.logViewport.Width = max(1, m.width-sidebarWidth-4)
	m.logViewport.Height = max(1, m.height-5)
	m.input.Width = max(1, m.width-6)
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	logBorder, inputBorder := idleColor, focusColor
	if m.focusedPane == paneLog {
		logBorder, inputBorder = focusColor, idleColor
	}

	logPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(logBorder).
		Width(m.logViewport.Width).
		Height(m.logViewport.Height).
		Render(m.logViewport.View())

	sidebar := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(idleColor).
		Width(sidebarWidth - 2).
		Height(m.logViewport.Height).
		Render(m.renderSidebar())

	inputPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(inputBorder).
		Width(max(1, m.width-2)).
		Render(m.input.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebar),
		inputPane)
}

func (m *Model) renderSidebar() string {
	b := m.board
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("STOP!"))
	sb.WriteString("\n\n")
	if b.Round == 0 {
		sb.WriteString(infoStyle.Render("waiting for the match"))
		return sb.String()
	}

	fmt.Fprintf(&sb, "Round %d  %s\n", b.Round, infoStyle.Render(b.Phase.String()))
	if b.Letter != 0 {
		fmt.Fprintf(&sb, "Letter %s\n", letterStyle.Render(b.Letter.String()))
	}
	fmt.Fprintf(&sb, "Bet %d\n\n", b.Bet)

	players := append([]game.PlayerID(nil), b.Players...)
	sort.SliceStable(players, func(i, j int) bool { return b.Wins[players[i]] > b.Wins[players[j]] })
	for _, p := range players {
		name := string(p)
		if p == m.player {
			name += " (you)"
		}
		style := playerStyle
		if b.Done && p == b.Winner {
			style = leaderStyle
		}
		fmt.Fprintf(&sb, "%s\n", style.Render(name))
		fmt.Fprintf(&sb, "  wins %d  pts %d\n", b.Wins[p], b.Scores[p])
		fmt.Fprintf(&sb, "  filled %d\n", b.Filled[p])
	}

	if b.Done {
		sb.WriteString("\n")
		switch b.Outcome {
		case game.OutcomeWon:
			sb.WriteString(leaderStyle.Render(fmt.Sprintf("%s wins the match", b.Winner)))
		case game.OutcomeDraw:
			sb.WriteString(letterStyle.Render("match drawn"))
		default:
			sb.WriteString(infoStyle.Render("match abandoned"))
		}
		sb.WriteString("\n")
		sb.WriteString(infoStyle.Render("esc to exit"))
	}
	return sb.String()
}

// LogWriter turns writes into LineMsgs, one per complete line.
type LogWriter struct {
	mu      sync.Mutex
	send    func(tea.Msg)
	pending []byte
}

// NewLogWriter sends lines through send, usually (*tea.Program).Send.
func NewLogWriter(send func(tea.Msg)) *LogWriter {
	return &LogWriter{send: send}
}

func (w *LogWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	w.pending = append(w.pending, p...)
	var lines []string
	for {
		i := bytes.IndexByte(w.pending, '\n')
		if i < 0 {
			break
		}
		lines = append(lines, string(w.pending[:i]))
		w.pending = w.pending[i+1:]
	}
	w.mu.Unlock()

	for _, line := range lines {
		w.send(LineMsg(line))
	}
	return len(p), nil
}
