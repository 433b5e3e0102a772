package engine

import (
	"fmt"
	"time"
)

// Timings are the fixed durations that drive timer transitions.
type Timings struct {
	Announce       time.Duration // round announcement before rolling
	RollFallback   time.Duration // roll automatically if not every player pressed roll
	Tie            time.Duration // pause before re-rolling a tie
	Reveal         time.Duration // dice shown before the chooser may be timed out
	LetterTimeout  time.Duration // chooser silence before a random letter is drawn
	LetterAnnounce time.Duration // letter shown before filling starts
	RoundBudget    time.Duration // filling time limit
	StopNotice     time.Duration // end of filling until the first reveal
	Dwell          time.Duration // between category reveals
	ResultDisplay  time.Duration // round result shown before the next round
}

// DefaultTimings returns the pacing of the reference game.
func DefaultTimings() Timings {
	return Timings{
		Announce:       2500 * time.Millisecond,
		RollFallback:   10 * time.Second,
		Tie:            time.Second,
		Reveal:         1200 * time.Millisecond,
		LetterTimeout:  15 * time.Second,
		LetterAnnounce: 3500 * time.Millisecond,
		RoundBudget:    90 * time.Second,
		StopNotice:     2500 * time.Millisecond,
		Dwell:          3 * time.Second,
		ResultDisplay:  4 * time.Second,
	}
}

// Scaled multiplies every duration by factor, e.g. 0.01 for simulations.
func (t Timings) Scaled(factor float64) Timings {
	scale := func(d time.Duration) time.Duration {
		return time.Duration(float64(d) * factor)
	}
	return Timings{
		Announce:       scale(t.Announce),
		RollFallback:   scale(t.RollFallback),
		Tie:            scale(t.Tie),
		Reveal:         scale(t.Reveal),
		LetterTimeout:  scale(t.LetterTimeout),
		LetterAnnounce: scale(t.LetterAnnounce),
		RoundBudget:    scale(t.RoundBudget),
		StopNotice:     scale(t.StopNotice),
		Dwell:          scale(t.Dwell),
		ResultDisplay:  scale(t.ResultDisplay),
	}
}

// Validate rejects negative durations and an empty round budget.
func (t Timings) Validate() error {
	named := map[string]time.Duration{
		"announce":        t.Announce,
		"roll_fallback":   t.RollFallback,
		"tie":             t.Tie,
		"reveal":          t.Reveal,
		"letter_timeout":  t.LetterTimeout,
		"letter_announce": t.LetterAnnounce,
		"round_budget":    t.RoundBudget,
		"stop_notice":     t.StopNotice,
		"dwell":           t.Dwell,
		"result_display":  t.ResultDisplay,
	}
	for name, d := range named {
		if d < 0 {
			return fmt.Errorf("timing %s must not be negative, got %s", name, d)
		}
	}
	if t.RoundBudget <= 0 {
		return fmt.Errorf("round_budget must be positive")
	}
	if t.RollFallback <= 0 || t.LetterTimeout <= 0 {
		return fmt.Errorf("roll_fallback and letter_timeout must be positive")
	}
	return nil
}
