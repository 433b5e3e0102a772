package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/wordstop/internal/engine"
	"github.com/lox/wordstop/internal/game"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	letterStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	drawStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	loseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

// console renders a match for a human seated as player. It is an
// engine.Monitor; warn may also be called from the input goroutine.
type console struct {
	mu         sync.Mutex
	out        io.Writer
	player     game.PlayerID
	categories []game.Category
}

func newConsole(out io.Writer, player game.PlayerID, categories []game.Category) *console {
	return &console{out: out, player: player, categories: categories}
}

func (c *console) println(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, s)
}

func (c *console) warn(format string, args ...any) {
	c.println(loseStyle.Render("! " + fmt.Sprintf(format, args...)))
}

func (c *console) OnMatchStart(match game.Match) {
	names := make([]string, 0, len(match.Players()))
	for _, p := range match.Players() {
		names = append(names, string(p))
	}
	c.println(headerStyle.Render(fmt.Sprintf("STOP! %s, bet %d", strings.Join(names, " vs "), match.Bet())))
}

func (c *console) OnMatchComplete(game.Match) {}

func (c *console) OnEvent(ev engine.Event) {
	switch e := ev.(type) {
	case engine.PhaseChangedEvent:
		c.phase(e)

	case engine.DiceRolledEvent:
		rolls := make([]string, len(e.Players))
		for i, p := range e.Players {
			rolls[i] = fmt.Sprintf("%s %d", p, e.Values[i])
		}
		line := "Dice: " + strings.Join(rolls, ", ")
		if e.Tie {
			line += drawStyle.Render("  tie, rolling again")
		}
		c.println(line)

	case engine.LetterChosenEvent:
		how := "chose"
		if e.Auto {
			how = "ran out of time, drew"
		}
		c.println(fmt.Sprintf("%s %s %s", e.Player, how, letterStyle.Render(e.Letter.String())))

	case engine.AnswerRecordedEvent:
		if e.Player == c.player {
			text := e.Text
			if text == "" {
				text = "(blank)"
			}
			c.println(dimStyle.Render(fmt.Sprintf("  %s: %s  [%d/%d]", e.Category, text, e.Filled, len(c.categories))))
		} else {
			c.println(dimStyle.Render(fmt.Sprintf("  %s filled %d/%d", e.Player, e.Filled, len(c.categories))))
		}

	case engine.CategoryResultEvent:
		c.println(c.categoryLine(e.Result))

	case engine.RoundResolvedEvent:
		scores := formatScores(e.Scores)
		switch {
		case e.Draw:
			c.println(drawStyle.Render("Round drawn  " + scores))
		case e.Winner == c.player:
			c.println(winStyle.Render("You win the round  " + scores))
		default:
			c.println(loseStyle.Render(fmt.Sprintf("%s wins the round  %s", e.Winner, scores)))
		}

	case engine.MatchResolvedEvent:
		switch {
		case e.Outcome == game.OutcomeDraw:
			c.println(headerStyle.Render("Match drawn, bets returned"))
		case e.Winner == c.player:
			c.println(winStyle.Render(fmt.Sprintf("You win the match! Payout %d", e.Payout)))
		default:
			c.println(loseStyle.Render(fmt.Sprintf("%s wins the match, payout %d", e.Winner, e.Payout)))
		}

	case engine.InputRejectedEvent:
		if e.Input.Player == c.player {
			c.warn("%s: %s", e.Input, e.Reason)
		}
	}
}

func (c *console) phase(e engine.PhaseChangedEvent) {
	switch e.Phase {
	case game.PhaseAnnouncing:
		c.println("")
		c.println(headerStyle.Render("== " + e.Label + " =="))
	case game.PhaseRolling:
		c.println(promptStyle.Render("Type 'roll' to roll your die"))
	case game.PhaseLetterSelecting:
		if e.Chooser == c.player {
			c.println(promptStyle.Render(fmt.Sprintf("You choose the letter: 'letter X' (%s)", e.Deadline)))
		} else {
			c.println(fmt.Sprintf("%s is choosing the letter", e.Chooser))
		}
	case game.PhaseLetterAnnouncing:
		c.println("Letter " + letterStyle.Render(e.Letter.String()))
	case game.PhaseFilling:
		cats := make([]string, len(c.categories))
		for i, cat := range c.categories {
			cats[i] = string(cat)
		}
		c.println(promptStyle.Render(fmt.Sprintf("GO! %s in %s. Type '<CATEGORY> <word>', then 'stop'",
			strings.Join(cats, " "), e.Deadline)))
	case game.PhaseComparing:
		c.println(headerStyle.Render("STOP!"))
	}
}

func (c *console) categoryLine(r game.CategoryResult) string {
	parts := make([]string, 0, len(r.Answers))
	for _, a := range r.Answers {
		text := a.Text
		if text == "" {
			text = "-"
		}
		entry := fmt.Sprintf("%s: %s +%d", a.Player, text, r.Points[a.Player])
		switch {
		case r.Points[a.Player] > 0:
			entry = winStyle.Render(entry)
		case !r.Valid[a.Player]:
			entry = loseStyle.Render(entry)
		}
		parts = append(parts, entry)
	}
	return fmt.Sprintf("%-8s %s  %s", r.Category, strings.Join(parts, "  "), dimStyle.Render(r.Label.String()))
}

func formatScores(scores map[game.PlayerID]int) string {
	players := make([]string, 0, len(scores))
	for p := range scores {
		players = append(players, string(p))
	}
	sort.Strings(players)
	parts := make([]string, len(players))
	for i, p := range players {
		parts[i] = fmt.Sprintf("%s %d", p, scores[game.PlayerID(p)])
	}
	return strings.Join(parts, ", ")
}

// parseCommand turns a console line into an input for player.
func parseCommand(line string, player game.PlayerID, categories []game.Category) (engine.Input, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return engine.Input{}, fmt.Errorf("empty command")
	}

	switch strings.ToLower(fields[0]) {
	case "roll":
		return engine.Roll(player), nil
	case "stop":
		return engine.Stop(player), nil
	case "letter":
		if len(fields) != 2 {
			return engine.Input{}, fmt.Errorf("usage: letter X")
		}
		l, err := game.ParseLetter(fields[1])
		if err != nil {
			return engine.Input{}, err
		}
		return engine.ChooseLetter(player, l), nil
	}

	for _, cat := range categories {
		if strings.EqualFold(fields[0], string(cat)) {
			return engine.Submit(player, cat, strings.Join(fields[1:], " ")), nil
		}
	}

	if len(fields) == 1 && len(fields[0]) == 1 {
		if l, err := game.ParseLetter(fields[0]); err == nil {
			return engine.ChooseLetter(player, l), nil
		}
	}
	return engine.Input{}, fmt.Errorf("unknown command %q: try roll, letter X, <CATEGORY> <word> or stop", fields[0])
}
