package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playRounds(t *testing.T, m Match, winners ...PlayerID) Match {
	t.Helper()
	for _, w := range winners {
		var err error
		m, err = m.RecordRound(w)
		require.NoError(t, err)
	}
	return m
}

func TestNewMatchValidation(t *testing.T) {
	_, err := NewMatch("m", []PlayerID{"a"}, 10)
	assert.Error(t, err)
	_, err = NewMatch("m", []PlayerID{"a", "b"}, -1)
	assert.Error(t, err)
	_, err = NewMatch("m", []PlayerID{"a", "a"}, 10)
	assert.Error(t, err)

	m, err := NewMatch("m", []PlayerID{"a", "b"}, 10)
	require.NoError(t, err)
	assert.Equal(t, OutcomeInProgress, m.Outcome())
	assert.Equal(t, 1, m.NextRoundNumber())
}

func TestMatchThreeRoundWinners(t *testing.T) {
	m, _ := NewMatch("m", []PlayerID{"P1", "P2"}, 50)
	m = playRounds(t, m, "P1", "P2")
	assert.False(t, m.Finished())
	assert.Equal(t, "EXTRA ROUND", m.NextRoundLabel())

	m = playRounds(t, m, "P1")
	require.True(t, m.Finished())
	winner, ok := m.Winner()
	assert.True(t, ok)
	assert.Equal(t, PlayerID("P1"), winner)
	assert.Equal(t, []PlayerID{"P1", "P2", "P1"}, m.RoundWinners())

	_, err := m.RecordRound("P2")
	assert.ErrorIs(t, err, ErrMatchFinished)
	assert.Equal(t, 3, m.RoundsPlayed())
}

func TestMatchEndsAtTwoWins(t *testing.T) {
	m, _ := NewMatch("m", []PlayerID{"a", "b"}, 100)
	assert.Equal(t, "ROUND 1", m.NextRoundLabel())
	m = playRounds(t, m, "b")
	assert.Equal(t, "ROUND 2", m.NextRoundLabel())
	m = playRounds(t, m, "b")

	assert.True(t, m.Finished())
	assert.Equal(t, 2, m.RoundsPlayed())
	assert.Equal(t, 2, m.Wins("b"))
	assert.Equal(t, 200, m.Payout())
}

func TestMatchNeverPlaysFourthRound(t *testing.T) {
	sequences := [][]PlayerID{
		{NoPlayer, NoPlayer, NoPlayer},
		{"a", NoPlayer, NoPlayer},
		{NoPlayer, "a", "b"},
		{"a", "b", "c"},
	}
	for _, seq := range sequences {
		m, _ := NewMatch("m", []PlayerID{"a", "b", "c"}, 10)
		m = playRounds(t, m, seq...)
		assert.True(t, m.Finished(), "winners %v", seq)
		_, err := m.RecordRound("a")
		assert.ErrorIs(t, err, ErrMatchFinished)
	}
}

func TestMatchDrawsAreExplicit(t *testing.T) {
	m, _ := NewMatch("m", []PlayerID{"a", "b", "c"}, 10)
	m = playRounds(t, m, "a", "b", "c")
	assert.Equal(t, OutcomeDraw, m.Outcome())
	_, ok := m.Winner()
	assert.False(t, ok)
	assert.Zero(t, m.Payout())

	m, _ = NewMatch("m", []PlayerID{"a", "b"}, 10)
	m = playRounds(t, m, NoPlayer, NoPlayer, NoPlayer)
	assert.Equal(t, OutcomeDraw, m.Outcome())

	m, _ = NewMatch("m", []PlayerID{"a", "b"}, 10)
	m = playRounds(t, m, "a", NoPlayer, "b")
	assert.Equal(t, OutcomeDraw, m.Outcome())
}

func TestMatchMajorityAfterThreeRounds(t *testing.T) {
	m, _ := NewMatch("m", []PlayerID{"a", "b", "c"}, 30)
	m = playRounds(t, m, NoPlayer, "c", NoPlayer)
	winner, ok := m.Winner()
	require.True(t, ok)
	assert.Equal(t, PlayerID("c"), winner)
	assert.Equal(t, 90, m.Payout())
}

func TestMatchRejectsUnknownWinner(t *testing.T) {
	m, _ := NewMatch("m", []PlayerID{"a", "b"}, 10)
	_, err := m.RecordRound("z")
	assert.Error(t, err)
	assert.Zero(t, m.RoundsPlayed())
}

func TestMatchRecordRoundDoesNotMutate(t *testing.T) {
	m, _ := NewMatch("m", []PlayerID{"a", "b"}, 10)
	next, err := m.RecordRound("a")
	require.NoError(t, err)
	assert.Zero(t, m.RoundsPlayed())
	assert.Equal(t, 1, next.RoundsPlayed())
}
