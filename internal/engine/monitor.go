package engine

import "github.com/lox/wordstop/internal/game"

// Monitor receives match lifecycle notifications and every published event.
// Calls happen on the runner goroutine and must not block.
type Monitor interface {
	// OnMatchStart is called before the first round is announced.
	OnMatchStart(match game.Match)

	// OnEvent is called for every published event, in order.
	OnEvent(ev Event)

	// OnMatchComplete is called once, with the final match state. A cancelled
	// match is reported with Finished() false.
	OnMatchComplete(match game.Match)
}

// NullMonitor is a no-op implementation.
type NullMonitor struct{}

func (NullMonitor) OnMatchStart(game.Match)    {}
func (NullMonitor) OnEvent(Event)              {}
func (NullMonitor) OnMatchComplete(game.Match) {}

// MultiMonitor fans out to several monitors.
type MultiMonitor struct {
	monitors []Monitor
}

// NewMultiMonitor builds a composite monitor, dropping nil entries. It returns
// NullMonitor for no monitors and the monitor itself for exactly one.
func NewMultiMonitor(monitors ...Monitor) Monitor {
	filtered := make([]Monitor, 0, len(monitors))
	for _, monitor := range monitors {
		if monitor != nil {
			filtered = append(filtered, monitor)
		}
	}

	switch len(filtered) {
	case 0:
		return NullMonitor{}
	case 1:
		return filtered[0]
	default:
		return MultiMonitor{monitors: filtered}
	}
}

func (m MultiMonitor) OnMatchStart(match game.Match) {
	for _, monitor := range m.monitors {
		monitor.OnMatchStart(match)
	}
}

func (m MultiMonitor) OnEvent(ev Event) {
	for _, monitor := range m.monitors {
		monitor.OnEvent(ev)
	}
}

func (m MultiMonitor) OnMatchComplete(match game.Match) {
	for _, monitor := range m.monitors {
		monitor.OnMatchComplete(match)
	}
}

// MonitorFunc adapts a function to a Monitor that only observes events.
type MonitorFunc func(Event)

func (MonitorFunc) OnMatchStart(game.Match)    {}
func (f MonitorFunc) OnEvent(ev Event)         { f(ev) }
func (MonitorFunc) OnMatchComplete(game.Match) {}
