package server

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lox/wordstop/internal/engine"
	"github.com/lox/wordstop/internal/game"
)

// MatchMetrics is an engine.Monitor exporting match activity to Prometheus.
type MatchMetrics struct {
	running   prometheus.Gauge
	started   prometheus.Counter
	completed *prometheus.CounterVec
	rounds    *prometheus.CounterVec
	answers   *prometheus.CounterVec
	rejected  *prometheus.CounterVec
	ties      prometheus.Counter
}

// NewMatchMetrics creates and registers the collectors on reg.
func NewMatchMetrics(reg prometheus.Registerer) *MatchMetrics {
	m := &MatchMetrics{
		running: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wordstop",
			Name:      "matches_running",
			Help:      "Matches currently in progress",
		}),
		started: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wordstop",
			Name:      "matches_started_total",
			Help:      "Matches started",
		}),
		completed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wordstop",
			Name:      "matches_completed_total",
			Help:      "Matches completed by outcome (won, draw, in_progress when cancelled)",
		}, []string{"outcome"}),
		rounds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wordstop",
			Name:      "rounds_total",
			Help:      "Resolved rounds by result (won, draw)",
		}, []string{"result"}),
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wordstop",
			Name:      "answers_total",
			Help:      "Recorded answers by initial verdict",
		}, []string{"verdict"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wordstop",
			Name:      "inputs_rejected_total",
			Help:      "Inputs rejected as illegal in the current phase",
		}, []string{"kind"}),
		ties: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wordstop",
			Name:      "dice_ties_total",
			Help:      "Dice rolls that tied and had to be re-rolled",
		}),
	}
	reg.MustRegister(m.running, m.started, m.completed, m.rounds, m.answers, m.rejected, m.ties)
	return m
}

// OnMatchStart implements engine.Monitor.
func (m *MatchMetrics) OnMatchStart(game.Match) {
	m.started.Inc()
	m.running.Inc()
}

// OnEvent implements engine.Monitor.
func (m *MatchMetrics) OnEvent(ev engine.Event) {
	switch e := ev.(type) {
	case engine.RoundResolvedEvent:
		if e.Draw {
			m.rounds.WithLabelValues("draw").Inc()
		} else {
			m.rounds.WithLabelValues("won").Inc()
		}
	case engine.AnswerRecordedEvent:
		m.answers.WithLabelValues(e.Verdict.String()).Inc()
	case engine.InputRejectedEvent:
		m.rejected.WithLabelValues(string(e.Input.Kind)).Inc()
	case engine.DiceRolledEvent:
		if e.Tie {
			m.ties.Inc()
		}
	}
}

// OnMatchComplete implements engine.Monitor.
func (m *MatchMetrics) OnMatchComplete(match game.Match) {
	m.running.Dec()
	m.completed.WithLabelValues(match.Outcome().String()).Inc()
}
