package server

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/wordstop/internal/engine"
	"github.com/lox/wordstop/internal/game"
)

func TestMatchMetrics(t *testing.T) {
	t.Parallel()
	m := NewMatchMetrics(prometheus.NewRegistry())

	match, err := game.NewMatch("m1", []game.PlayerID{"a", "b"}, 10)
	require.NoError(t, err)

	m.OnMatchStart(match)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.running))

	m.OnEvent(engine.DiceRolledEvent{Tie: true})
	m.OnEvent(engine.DiceRolledEvent{})
	m.OnEvent(engine.AnswerRecordedEvent{Verdict: game.Valid})
	m.OnEvent(engine.AnswerRecordedEvent{Verdict: game.Unknown})
	m.OnEvent(engine.InputRejectedEvent{Input: engine.Stop("a")})
	m.OnEvent(engine.RoundResolvedEvent{Winner: "a"})
	m.OnEvent(engine.RoundResolvedEvent{Draw: true})

	match, err = match.RecordRound("a")
	require.NoError(t, err)
	match, err = match.RecordRound("a")
	require.NoError(t, err)
	m.OnMatchComplete(match)

	assert.Equal(t, 0.0, testutil.ToFloat64(m.running))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.started))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ties))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.completed.WithLabelValues("won")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rounds.WithLabelValues("won")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rounds.WithLabelValues("draw")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.answers.WithLabelValues("valid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.answers.WithLabelValues("unknown")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejected.WithLabelValues("stop")))
}
