package engine

import (
	"time"

	"github.com/lox/wordstop/internal/game"
)

// EventType names a published match event.
type EventType string

const (
	EventTypePhaseChanged   EventType = "phase_changed"
	EventTypeDiceRolled     EventType = "dice_rolled"
	EventTypeLetterChosen   EventType = "letter_chosen"
	EventTypeAnswerRecorded EventType = "answer_recorded"
	EventTypeCategoryResult EventType = "category_result"
	EventTypeRoundResolved  EventType = "round_resolved"
	EventTypeMatchResolved  EventType = "match_resolved"
	EventTypeInputRejected  EventType = "input_rejected"
)

func (et EventType) String() string {
	return string(et)
}

// Event is anything the runner publishes to monitors and agents.
type Event interface {
	EventType() EventType
	Timestamp() time.Time
	Header() EventHeader
}

// EventHeader is shared by every event.
type EventHeader struct {
	MatchID string    `json:"match_id"`
	Round   int       `json:"round"`
	At      time.Time `json:"at"`
}

func (h EventHeader) Timestamp() time.Time { return h.At }
func (h EventHeader) Header() EventHeader  { return h }

// PhaseChangedEvent is published on entry to every round phase.
type PhaseChangedEvent struct {
	EventHeader
	Phase   game.Phase    `json:"phase"`
	Label   string        `json:"label,omitempty"`
	Chooser game.PlayerID `json:"chooser,omitempty"`
	Letter  game.Letter   `json:"letter,omitempty"`
	// Deadline is how long the phase lasts at most, zero if it has no limit.
	Deadline time.Duration `json:"deadline,omitempty"`
}

func (PhaseChangedEvent) EventType() EventType { return EventTypePhaseChanged }

// DiceRolledEvent reports one roll of every player's die.
type DiceRolledEvent struct {
	EventHeader
	Players []game.PlayerID `json:"players"`
	Values  []int           `json:"values"`
	Tie     bool            `json:"tie"`
	Chooser game.PlayerID   `json:"chooser,omitempty"`
}

func (DiceRolledEvent) EventType() EventType { return EventTypeDiceRolled }

// LetterChosenEvent reports the round letter. Auto is set when the chooser
// timed out and the letter was drawn at random.
type LetterChosenEvent struct {
	EventHeader
	Player game.PlayerID `json:"player"`
	Letter game.Letter   `json:"letter"`
	Auto   bool          `json:"auto,omitempty"`
}

func (LetterChosenEvent) EventType() EventType { return EventTypeLetterChosen }

// AnswerRecordedEvent reports an accepted answer with its verdict so far.
type AnswerRecordedEvent struct {
	EventHeader
	Player   game.PlayerID `json:"player"`
	Category game.Category `json:"category"`
	Text     string        `json:"text"`
	Filled   int           `json:"filled"`
	Verdict  game.Verdict  `json:"verdict"`
}

func (AnswerRecordedEvent) EventType() EventType { return EventTypeAnswerRecorded }

// CategoryResultEvent carries one scored category and the running totals.
type CategoryResultEvent struct {
	EventHeader
	Result game.CategoryResult   `json:"result"`
	Scores map[game.PlayerID]int `json:"scores"`
}

func (CategoryResultEvent) EventType() EventType { return EventTypeCategoryResult }

// RoundResolvedEvent reports the round winner, or a draw.
type RoundResolvedEvent struct {
	EventHeader
	Winner    game.PlayerID         `json:"winner,omitempty"`
	Draw      bool                  `json:"draw"`
	Scores    map[game.PlayerID]int `json:"scores"`
	StoppedBy game.PlayerID         `json:"stopped_by,omitempty"`
}

func (RoundResolvedEvent) EventType() EventType { return EventTypeRoundResolved }

// MatchResolvedEvent is the last event of a match.
type MatchResolvedEvent struct {
	EventHeader
	Outcome      game.MatchOutcome `json:"outcome"`
	Winner       game.PlayerID     `json:"winner,omitempty"`
	Payout       int               `json:"payout"`
	RoundWinners []game.PlayerID   `json:"round_winners"`
}

func (MatchResolvedEvent) EventType() EventType { return EventTypeMatchResolved }

// InputRejectedEvent reports an input that was illegal in the current phase.
type InputRejectedEvent struct {
	EventHeader
	Input  Input  `json:"input"`
	Reason string `json:"reason"`
}

func (InputRejectedEvent) EventType() EventType { return EventTypeInputRejected }
