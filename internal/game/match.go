package game

import (
	"fmt"
	"slices"
)

const (
	// MaxRounds is the most rounds a match can last.
	MaxRounds = 3
	// WinsNeeded ends the match as soon as one player reaches it.
	WinsNeeded = 2
)

// MatchOutcome reports whether and how a match ended.
type MatchOutcome int

const (
	OutcomeInProgress MatchOutcome = iota
	OutcomeWon
	OutcomeDraw
)

func (o MatchOutcome) String() string {
	switch o {
	case OutcomeInProgress:
		return "in_progress"
	case OutcomeWon:
		return "won"
	case OutcomeDraw:
		return "draw"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o MatchOutcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Match is the immutable best-of-3 tally. A drawn round is recorded with
// NoPlayer and still counts towards MaxRounds.
type Match struct {
	id      string
	players []PlayerID
	bet     int

	winners []PlayerID
	outcome MatchOutcome
	winner  PlayerID
}

// NewMatch starts a match between players with a per-player bet.
func NewMatch(id string, players []PlayerID, bet int) (Match, error) {
	if len(players) < 2 {
		return Match{}, fmt.Errorf("a match needs at least two players, got %d", len(players))
	}
	if bet < 0 {
		return Match{}, fmt.Errorf("bet must not be negative, got %d", bet)
	}
	seen := make(map[PlayerID]bool, len(players))
	for _, p := range players {
		if p == NoPlayer || seen[p] {
			return Match{}, fmt.Errorf("invalid or duplicate player %q", p)
		}
		seen[p] = true
	}
	return Match{id: id, players: slices.Clone(players), bet: bet}, nil
}

func (m Match) ID() string               { return m.id }
func (m Match) Bet() int                 { return m.bet }
func (m Match) Players() []PlayerID      { return slices.Clone(m.players) }
func (m Match) RoundWinners() []PlayerID { return slices.Clone(m.winners) }
func (m Match) RoundsPlayed() int        { return len(m.winners) }
func (m Match) Outcome() MatchOutcome    { return m.outcome }
func (m Match) Finished() bool           { return m.outcome != OutcomeInProgress }
func (m Match) NextRoundNumber() int     { return len(m.winners) + 1 }

// Wins counts the rounds p has won.
func (m Match) Wins(p PlayerID) int {
	n := 0
	for _, w := range m.winners {
		if w == p && p != NoPlayer {
			n++
		}
	}
	return n
}

// Winner returns the match winner once the match is won.
func (m Match) Winner() (PlayerID, bool) {
	return m.winner, m.outcome == OutcomeWon
}

// Payout is what the winner collects: the bet of every player. A draw pays
// nothing out.
func (m Match) Payout() int {
	if m.outcome != OutcomeWon {
		return 0
	}
	return m.bet * len(m.players)
}

// NextRoundLabel is the display label for the upcoming round.
func (m Match) NextRoundLabel() string {
	n := m.NextRoundNumber()
	if n == MaxRounds {
		return "EXTRA ROUND"
	}
	return fmt.Sprintf("ROUND %d", n)
}

// RecordRound appends a round result. winner is NoPlayer for a drawn round.
// The match finishes when a player reaches WinsNeeded, or after MaxRounds
// with the strict majority of wins taking it and anything else a draw.
func (m Match) RecordRound(winner PlayerID) (Match, error) {
	if m.Finished() {
		return m, ErrMatchFinished
	}
	if winner != NoPlayer && !slices.Contains(m.players, winner) {
		return m, fmt.Errorf("unknown round winner %q", winner)
	}

	m.winners = append(slices.Clone(m.winners), winner)

	if winner != NoPlayer && m.Wins(winner) >= WinsNeeded {
		m.outcome, m.winner = OutcomeWon, winner
		return m, nil
	}
	if len(m.winners) < MaxRounds {
		return m, nil
	}

	best, leader, shared := 0, NoPlayer, false
	for _, p := range m.players {
		switch w := m.Wins(p); {
		case w > best:
			best, leader, shared = w, p, false
		case w == best && w > 0:
			shared = true
		}
	}
	if leader == NoPlayer || shared {
		m.outcome = OutcomeDraw
		return m, nil
	}
	m.outcome, m.winner = OutcomeWon, leader
	return m, nil
}
