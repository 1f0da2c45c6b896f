package blackjack

import (
	"slices"
	"strings"
)

// Outcome is how a hand turned out. The zero value means the hand is still live.
type Outcome uint8

const (
	Pending Outcome = iota
	Win
	Loss
	Push
	Blackjack
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "PENDING"
	case Win:
		return "WIN"
	case Loss:
		return "LOSS"
	case Push:
		return "PUSH"
	case Blackjack:
		return "BLACKJACK"
	default:
		return "UNKNOWN"
	}
}

// Payout returns the total amount returned to the player for a hand with
// the given bet, stake included.
func (o Outcome) Payout(bet float64) float64 {
	switch o {
	case Blackjack:
		return bet * 2.5
	case Win:
		return bet * 2
	case Push:
		return bet
	default:
		return 0
	}
}

// Hand represents one hand of cards, its bet and, once resolved, its outcome
type Hand struct {
	Bet     float64
	Cards   []Card
	Outcome Outcome
}

// NewHand creates an empty hand with the given bet
func NewHand(bet float64) *Hand {
	return &Hand{Bet: bet}
}

// AddCard appends a card to the hand
func (h *Hand) AddCard(c Card) {
	h.Cards = append(h.Cards, c)
}

// IsResolved reports whether the hand has an outcome
func (h *Hand) IsResolved() bool {
	return h.Outcome != Pending
}

// resolve assigns the final outcome. Outcomes never change once set.
func (h *Hand) resolve(o Outcome) error {
	if h.IsResolved() {
		return ErrHandResolved
	}
	h.Outcome = o
	return nil
}

// PossibleValues returns every distinct total the hand can make, ascending.
// Each ace independently counts as 1 or 11.
func (h *Hand) PossibleValues() []int {
	base, aces := 0, 0
	for _, c := range h.Cards {
		if c.IsAce() {
			aces++
			continue
		}
		if v := c.Rank.Values(); len(v) > 0 {
			base += v[0]
		}
	}

	totals := []int{base}
	for range aces {
		next := make([]int, 0, len(totals)*2)
		for _, t := range totals {
			next = append(next, t+1, t+11)
		}
		slices.Sort(next)
		totals = slices.Compact(next)
	}
	return totals
}

// BestValue returns the highest total not over 21, or the lowest total when
// every total busts.
func (h *Hand) BestValue() int {
	values := h.PossibleValues()
	for i := len(values) - 1; i >= 0; i-- {
		if values[i] <= 21 {
			return values[i]
		}
	}
	return values[0]
}

// IsSoft reports whether the best value counts an ace as 11.
func (h *Hand) IsSoft() bool {
	values := h.PossibleValues()
	best := h.BestValue()
	return best <= 21 && best != values[0]
}

// IsNaturalBlackjack reports a two-card 21
func (h *Hand) IsNaturalBlackjack() bool {
	return len(h.Cards) == 2 && h.BestValue() == 21
}

// IsBlackjack reports a total of 21 with any number of cards
func (h *Hand) IsBlackjack() bool {
	return h.BestValue() == 21
}

// IsBusted reports whether every possible total is over 21
func (h *Hand) IsBusted() bool {
	return h.PossibleValues()[0] > 21
}

// CanSplit reports exactly two cards of the same rank
func (h *Hand) CanSplit() bool {
	return len(h.Cards) == 2 && h.Cards[0].Rank == h.Cards[1].Rank
}

// Clone returns a deep copy of the hand
func (h *Hand) Clone() Hand {
	return Hand{Bet: h.Bet, Cards: slices.Clone(h.Cards), Outcome: h.Outcome}
}

// String renders the cards separated by spaces, e.g. "A♣ K♥"
func (h *Hand) String() string {
	parts := make([]string, len(h.Cards))
	for i, c := range h.Cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
