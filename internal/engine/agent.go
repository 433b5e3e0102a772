package engine

import (
	"fmt"
	"time"

	"github.com/lox/wordstop/internal/game"
)

// InputKind names a player input.
type InputKind string

const (
	InputRoll   InputKind = "roll"
	InputLetter InputKind = "letter"
	InputAnswer InputKind = "answer"
	InputStop   InputKind = "stop"
)

// Input is a player action delivered to the runner.
type Input struct {
	Kind     InputKind     `json:"kind"`
	Player   game.PlayerID `json:"player"`
	Letter   game.Letter   `json:"letter,omitempty"`
	Category game.Category `json:"category,omitempty"`
	Text     string        `json:"text,omitempty"`
}

// Roll asks for the dice to be rolled.
func Roll(p game.PlayerID) Input { return Input{Kind: InputRoll, Player: p} }

// ChooseLetter picks the round letter.
func ChooseLetter(p game.PlayerID, l game.Letter) Input {
	return Input{Kind: InputLetter, Player: p, Letter: l}
}

// Submit fills one category.
func Submit(p game.PlayerID, c game.Category, text string) Input {
	return Input{Kind: InputAnswer, Player: p, Category: c, Text: text}
}

// Stop ends filling early.
func Stop(p game.PlayerID) Input { return Input{Kind: InputStop, Player: p} }

func (in Input) String() string {
	switch in.Kind {
	case InputLetter:
		return fmt.Sprintf("%s letter %s", in.Player, in.Letter)
	case InputAnswer:
		return fmt.Sprintf("%s %s=%q", in.Player, in.Category, in.Text)
	default:
		return fmt.Sprintf("%s %s", in.Player, in.Kind)
	}
}

// Agent is a participant: a bot, a console human or a remote adapter. Notify
// is called on the runner goroutine for every event and must return quickly;
// anything slow belongs in Desk.Plan or in the agent's own goroutine.
type Agent interface {
	ID() game.PlayerID
	Notify(ev Event, desk Desk)
}

// Desk is an agent's handle on the runner.
type Desk interface {
	// Send queues an input from the agent's player.
	Send(in Input)
	// Plan queues an input after d. Plans are dropped when the current phase
	// ends.
	Plan(d time.Duration, in Input)
	// Round returns the current round state.
	Round() game.Round
	// Match returns the current match state.
	Match() game.Match
}

// AgentFunc adapts a function to an Agent.
type AgentFunc struct {
	Player game.PlayerID
	Fn     func(ev Event, desk Desk)
}

func (a AgentFunc) ID() game.PlayerID { return a.Player }

func (a AgentFunc) Notify(ev Event, desk Desk) {
	if a.Fn != nil {
		a.Fn(ev, desk)
	}
}
