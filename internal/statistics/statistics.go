package statistics

import (
	"fmt"
	"math"
	"slices"

	"github.com/lox/blackjack/blackjack"
)

// RoundResult represents the outcome of a single blackjack round
type RoundResult struct {
	Net      float64             // Net result in units of the initial bet
	Seed     int64               // Table seed the round was played under (for replay)
	Outcomes []blackjack.Outcome // One per player hand, in hand order
	Busts    int                 // Player hands that went over 21
	Doubles  int                 // Hands that doubled down
	Splits   int                 // Number of splits taken
}

// Statistics tracks blackjack simulation statistics
type Statistics struct {
	Rounds  int
	SumNet  float64
	SumNet2 float64   // Sum of squares for variance calculation
	Values  []float64 // Store all values for median/percentile calculation

	// Per-hand outcome counts; a split round contributes several hands
	Hands      int
	Wins       int
	Losses     int
	Pushes     int
	Blackjacks int

	Busts   int
	Doubles int
	Splits  int

	Voided int // Rounds abandoned because the shoe ran dry
}

// Mean returns the arithmetic mean net result in bets per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumNet / float64(s.Rounds)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return max(0, (s.SumNet2-float64(s.Rounds)*mean*mean)/float64(s.Rounds-1))
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Add incorporates a new round result into the statistics
func (s *Statistics) Add(result RoundResult) {
	s.Rounds++
	s.SumNet += result.Net
	s.SumNet2 += result.Net * result.Net
	s.Values = append(s.Values, result.Net)

	for _, o := range result.Outcomes {
		s.Hands++
		switch o {
		case blackjack.Win:
			s.Wins++
		case blackjack.Loss:
			s.Losses++
		case blackjack.Push:
			s.Pushes++
		case blackjack.Blackjack:
			s.Blackjacks++
		}
	}
	s.Busts += result.Busts
	s.Doubles += result.Doubles
	s.Splits += result.Splits
}

// AddVoided records a round that was abandoned without a result
func (s *Statistics) AddVoided() {
	s.Voided++
}

// Merge folds other into s. Values are appended in other's order.
func (s *Statistics) Merge(other *Statistics) {
	s.Rounds += other.Rounds
	s.SumNet += other.SumNet
	s.SumNet2 += other.SumNet2
	s.Values = append(s.Values, other.Values...)
	s.Hands += other.Hands
	s.Wins += other.Wins
	s.Losses += other.Losses
	s.Pushes += other.Pushes
	s.Blackjacks += other.Blackjacks
	s.Busts += other.Busts
	s.Doubles += other.Doubles
	s.Splits += other.Splits
	s.Voided += other.Voided
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := slices.Clone(s.Values)
	slices.Sort(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// WinRate returns the share of hands won, counting naturals as wins
func (s *Statistics) WinRate() float64 {
	if s.Hands == 0 {
		return 0
	}
	return float64(s.Wins+s.Blackjacks) / float64(s.Hands)
}

// Validate performs comprehensive validation of statistics data
func (s *Statistics) Validate() error {
	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}
	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)",
			len(s.Values), s.Rounds)
	}
	if total := s.Wins + s.Losses + s.Pushes + s.Blackjacks; total != s.Hands {
		return fmt.Errorf("outcome total (%d) does not match hands count (%d)", total, s.Hands)
	}
	if s.Hands < s.Rounds {
		return fmt.Errorf("hands (%d) fewer than rounds (%d)", s.Hands, s.Rounds)
	}
	if s.Hands != s.Rounds+s.Splits {
		return fmt.Errorf("hands (%d) does not equal rounds (%d) plus splits (%d)", s.Hands, s.Rounds, s.Splits)
	}
	if s.Busts > s.Losses {
		return fmt.Errorf("busts (%d) exceed losses (%d)", s.Busts, s.Losses)
	}
	return nil
}

// ResultFromRound summarises a completed round. bet is the initial stake
// and actions are the player decisions the engine applied.
func ResultFromRound(done blackjack.RoundComplete, bet float64, seed int64, actions []blackjack.Action) RoundResult {
	result := RoundResult{Seed: seed}
	if bet > 0 {
		result.Net = done.Net() / bet
	}
	for _, h := range done.PlayerHands {
		result.Outcomes = append(result.Outcomes, h.Outcome)
		if h.IsBusted() {
			result.Busts++
		}
	}
	for _, a := range actions {
		switch a {
		case blackjack.Double:
			result.Doubles++
		case blackjack.Split:
			result.Splits++
		}
	}
	return result
}
