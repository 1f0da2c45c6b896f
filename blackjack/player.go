package blackjack

import (
	"fmt"
	"math"
	"slices"
)

// DefaultBankroll is the starting bankroll for a new player
const DefaultBankroll = 10_000

// Player owns a bankroll and one or more hands (more than one after a split)
type Player struct {
	Hands    []*Hand
	Bankroll float64
}

// NewPlayer creates a player with a single empty hand
func NewPlayer(bankroll float64) *Player {
	return &Player{
		Hands:    []*Hand{NewHand(0)},
		Bankroll: bankroll,
	}
}

// Hand returns the hand at index i
func (p *Player) Hand(i int) (*Hand, error) {
	if i < 0 || i >= len(p.Hands) {
		return nil, fmt.Errorf("hand %d of %d: %w", i, len(p.Hands), ErrHandIndex)
	}
	return p.Hands[i], nil
}

// AddCard adds a card to the hand at index i
func (p *Player) AddCard(c Card, i int) error {
	h, err := p.Hand(i)
	if err != nil {
		return err
	}
	h.AddCard(c)
	return nil
}

// ResetHands discards every hand and starts over with one empty hand
func (p *Player) ResetHands() {
	p.Hands = []*Hand{NewHand(0)}
}

// Debit removes amount from the bankroll. The bankroll never goes negative:
// an overdraw is rejected without changing anything.
func (p *Player) Debit(amount float64) error {
	if !validAmount(amount) {
		return ErrInvalidBet
	}
	if amount > p.Bankroll {
		return fmt.Errorf("need %.2f, have %.2f: %w", amount, p.Bankroll, ErrInsufficientFunds)
	}
	p.Bankroll -= amount
	return nil
}

// Credit adds amount to the bankroll
func (p *Player) Credit(amount float64) {
	p.Bankroll += amount
}

// insertHandAfter places h directly after index i, shifting later hands up.
func (p *Player) insertHandAfter(i int, h *Hand) error {
	if _, err := p.Hand(i); err != nil {
		return err
	}
	p.Hands = slices.Insert(p.Hands, i+1, h)
	return nil
}

// snapshot deep-copies every hand.
func (p *Player) snapshot() []Hand {
	out := make([]Hand, len(p.Hands))
	for i, h := range p.Hands {
		out[i] = h.Clone()
	}
	return out
}

// validAmount reports whether amount is a finite, non-negative stake.
func validAmount(amount float64) bool {
	return !math.IsNaN(amount) && !math.IsInf(amount, 0) && amount >= 0
}
