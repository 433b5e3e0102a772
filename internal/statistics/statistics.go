// Package statistics aggregates simulated match results: win rates with
// confidence intervals, net chips per seat and round counts.
package statistics

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/lox/wordstop/internal/game"
)

// MatchResult is the outcome of one simulated match.
type MatchResult struct {
	Players  []game.PlayerID
	Bet      int
	Outcome  game.MatchOutcome
	Winner   game.PlayerID // NoPlayer unless Outcome is OutcomeWon
	Payout   int
	Rounds   int
	Ties     int // dice re-rolls
	Rejected int // illegal inputs
}

// ResultFromMatch converts a final match state.
func ResultFromMatch(m game.Match, ties, rejected int) MatchResult {
	winner, _ := m.Winner()
	return MatchResult{
		Players:  m.Players(),
		Bet:      m.Bet(),
		Outcome:  m.Outcome(),
		Winner:   winner,
		Payout:   m.Payout(),
		Rounds:   m.RoundsPlayed(),
		Ties:     ties,
		Rejected: rejected,
	}
}

// Net returns each player's chip change: the winner collects the pot less
// their own bet, everyone else loses the bet, and a draw returns all bets.
func (r MatchResult) Net() map[game.PlayerID]int {
	net := make(map[game.PlayerID]int, len(r.Players))
	for _, p := range r.Players {
		net[p] = 0
	}
	if r.Outcome != game.OutcomeWon {
		return net
	}
	for _, p := range r.Players {
		if p == r.Winner {
			net[p] = r.Payout - r.Bet
		} else {
			net[p] = -r.Bet
		}
	}
	return net
}

// Sample accumulates a series of values.
type Sample struct {
	N      int
	Sum    float64
	Sum2   float64 // sum of squares for the variance
	Values []float64
}

// Add records one value.
func (s *Sample) Add(v float64) {
	s.N++
	s.Sum += v
	s.Sum2 += v * v
	s.Values = append(s.Values, v)
}

// Mean returns the arithmetic mean.
func (s *Sample) Mean() float64 {
	if s.N == 0 {
		return 0
	}
	return s.Sum / float64(s.N)
}

// Variance returns the sample variance.
func (s *Sample) Variance() float64 {
	if s.N < 2 {
		return 0
	}
	mean := s.Mean()
	v := (s.Sum2 - float64(s.N)*mean*mean) / float64(s.N-1)
	return math.Max(v, 0)
}

// StdDev returns the sample standard deviation.
func (s *Sample) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean.
func (s *Sample) StdError() float64 {
	if s.N == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.N))
}

// ConfidenceInterval95 returns the normal 95% interval for the mean.
func (s *Sample) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the middle value.
func (s *Sample) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the linearly interpolated value at p in [0, 1].
func (s *Sample) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// WilsonInterval95 is the 95% Wilson score interval for successes out of n.
func WilsonInterval95(successes, n int) (float64, float64) {
	if n == 0 {
		return 0, 0
	}
	const z = 1.96
	p := float64(successes) / float64(n)
	nf := float64(n)
	denom := 1 + z*z/nf
	centre := (p + z*z/(2*nf)) / denom
	margin := z * math.Sqrt(p*(1-p)/nf+z*z/(4*nf*nf)) / denom
	return math.Max(0, centre-margin), math.Min(1, centre+margin)
}

// Statistics is safe for concurrent Add calls.
type Statistics struct {
	mu sync.Mutex

	Matches   int // finished matches
	Cancelled int
	Draws     int
	Ties      int
	Rejected  int
	Rounds    Sample
	Wins      map[game.PlayerID]int
	Net       map[game.PlayerID]*Sample
	Ledger    int // sum of every net change, zero when balanced
}

// New returns empty statistics.
func New() *Statistics {
	return &Statistics{
		Wins: make(map[game.PlayerID]int),
		Net:  make(map[game.PlayerID]*Sample),
	}
}

// Add incorporates one result. Unfinished matches only count as cancelled.
func (s *Statistics) Add(r MatchResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Ties += r.Ties
	s.Rejected += r.Rejected
	if r.Outcome == game.OutcomeInProgress {
		s.Cancelled++
		return
	}

	s.Matches++
	s.Rounds.Add(float64(r.Rounds))
	switch r.Outcome {
	case game.OutcomeWon:
		s.Wins[r.Winner]++
	case game.OutcomeDraw:
		s.Draws++
	}
	for p, n := range r.Net() {
		if s.Net[p] == nil {
			s.Net[p] = &Sample{}
		}
		s.Net[p].Add(float64(n))
		s.Ledger += n
	}
}

// WinRate returns p's share of finished matches and its 95% interval.
func (s *Statistics) WinRate(p game.PlayerID) (rate, lo, hi float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Matches == 0 {
		return 0, 0, 0
	}
	lo, hi = WilsonInterval95(s.Wins[p], s.Matches)
	return float64(s.Wins[p]) / float64(s.Matches), lo, hi
}

// Validate checks the accounting is consistent.
func (s *Statistics) Validate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Ledger != 0 {
		return fmt.Errorf("ledger mismatch: net chips sum to %d", s.Ledger)
	}
	if s.Rounds.N != s.Matches {
		return fmt.Errorf("rounds sample (%d) does not match matches (%d)", s.Rounds.N, s.Matches)
	}
	wins := 0
	for _, w := range s.Wins {
		wins += w
	}
	if wins+s.Draws != s.Matches {
		return fmt.Errorf("wins (%d) plus draws (%d) do not match matches (%d)", wins, s.Draws, s.Matches)
	}
	for p, n := range s.Net {
		if n.N != s.Matches {
			return fmt.Errorf("player %s has %d results for %d matches", p, n.N, s.Matches)
		}
	}
	return nil
}

// SeatReport summarises one player.
type SeatReport struct {
	Player    game.PlayerID `json:"player"`
	Strategy  string        `json:"strategy,omitempty"`
	Wins      int           `json:"wins"`
	WinRate   float64       `json:"win_rate"`
	WinRateLo float64       `json:"win_rate_lo"`
	WinRateHi float64       `json:"win_rate_hi"`
	NetTotal  float64       `json:"net_total"`
	NetMean   float64       `json:"net_mean"`
	NetStdDev float64       `json:"net_stddev"`
}

// Report is the serialisable summary of a simulation.
type Report struct {
	Seed        int64        `json:"seed"`
	Matches     int          `json:"matches"`
	Cancelled   int          `json:"cancelled"`
	Draws       int          `json:"draws"`
	DrawRate    float64      `json:"draw_rate"`
	RoundsMean  float64      `json:"rounds_mean"`
	Ties        int          `json:"dice_ties"`
	Rejected    int          `json:"rejected_inputs"`
	ElapsedSecs float64      `json:"elapsed_seconds"`
	Seats       []SeatReport `json:"seats"`
}

// Report builds a summary for players, best win rate first. strategies is
// parallel to players and may be nil.
func (s *Statistics) Report(players []game.PlayerID, strategies []string) Report {
	seats := make([]SeatReport, len(players))
	for i, p := range players {
		rate, lo, hi := s.WinRate(p)
		seat := SeatReport{Player: p, WinRate: rate, WinRateLo: lo, WinRateHi: hi}
		if i < len(strategies) {
			seat.Strategy = strategies[i]
		}
		s.mu.Lock()
		seat.Wins = s.Wins[p]
		if n := s.Net[p]; n != nil {
			seat.NetTotal = n.Sum
			seat.NetMean = n.Mean()
			seat.NetStdDev = n.StdDev()
		}
		s.mu.Unlock()
		seats[i] = seat
	}
	sort.SliceStable(seats, func(a, b int) bool { return seats[a].Wins > seats[b].Wins })

	s.mu.Lock()
	defer s.mu.Unlock()
	r := Report{
		Matches:    s.Matches,
		Cancelled:  s.Cancelled,
		Draws:      s.Draws,
		RoundsMean: s.Rounds.Mean(),
		Ties:       s.Ties,
		Rejected:   s.Rejected,
		Seats:      seats,
	}
	if s.Matches > 0 {
		r.DrawRate = float64(s.Draws) / float64(s.Matches)
	}
	return r
}
