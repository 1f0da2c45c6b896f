package blackjack

import (
	"fmt"
	"math/rand/v2"
)

// DeckSize is the number of cards in a single deck.
const DeckSize = 52

// Shoe holds the drawable cards for one or more decks plus everything drawn
// from it since the last replenishment.
//
// The top of the shoe is the end of the cards slice.
type Shoe struct {
	cards     []Card
	discarded []Card
	numDecks  int
	rng       *rand.Rand
}

// NewShoe creates an unshuffled shoe of numDecks decks. The RNG is required so
// shuffles are reproducible in tests.
func NewShoe(numDecks int, rng *rand.Rand) *Shoe {
	if rng == nil {
		panic("rng is required for shoe creation")
	}
	if numDecks < 1 {
		panic("shoe needs at least one deck")
	}
	s := &Shoe{numDecks: numDecks, rng: rng}
	s.rebuild()
	return s
}

func (s *Shoe) rebuild() {
	capacity := DeckSize * s.numDecks
	s.cards = make([]Card, 0, capacity)
	s.discarded = make([]Card, 0, capacity)
	for range s.numDecks {
		for _, rank := range Ranks {
			for _, suit := range Suits {
				s.cards = append(s.cards, NewCard(rank, suit))
			}
		}
	}
}

// Shuffle shuffles the drawable cards using Fisher-Yates
func (s *Shoe) Shuffle() {
	for i := len(s.cards) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}
}

// Draw removes the top card and moves it to the discard pile. It returns
// false when the shoe is empty.
func (s *Shoe) Draw() (Card, bool) {
	if len(s.cards) == 0 {
		return Card{}, false
	}
	top := len(s.cards) - 1
	card := s.cards[top]
	s.cards = s.cards[:top]
	s.discarded = append(s.discarded, card)
	return card, true
}

// MinCardsFor returns the drawable count below which a round with numPlayers
// seats (plus the dealer) triggers replenishment.
func MinCardsFor(numPlayers int) int {
	return (numPlayers + 1) * 4
}

// EnsureCardsForPlayers replaces the whole shoe with fresh, shuffled decks
// when fewer than MinCardsFor(numPlayers) cards remain. It reports whether a
// replacement happened.
func (s *Shoe) EnsureCardsForPlayers(numPlayers int) bool {
	if len(s.cards) >= MinCardsFor(numPlayers) {
		return false
	}
	s.rebuild()
	s.Shuffle()
	return true
}

// Stack moves the given cards to the top of the shoe so they are drawn in
// the order given. Each card must currently be drawable.
func (s *Shoe) Stack(cards ...Card) error {
	for i := len(cards) - 1; i >= 0; i-- {
		idx := s.lastIndexOf(cards[i], len(s.cards)-(len(cards)-1-i))
		if idx < 0 {
			return fmt.Errorf("stack %s: %w", cards[i], ErrCardNotInShoe)
		}
		card := s.cards[idx]
		copy(s.cards[idx:], s.cards[idx+1:])
		s.cards[len(s.cards)-1] = card
	}
	return nil
}

// lastIndexOf searches below limit so cards already stacked stay in place.
func (s *Shoe) lastIndexOf(c Card, limit int) int {
	for i := limit - 1; i >= 0; i-- {
		if s.cards[i] == c {
			return i
		}
	}
	return -1
}

// Remaining returns the number of drawable cards
func (s *Shoe) Remaining() int {
	return len(s.cards)
}

// DiscardCount returns the number of cards drawn since the last replenishment
func (s *Shoe) DiscardCount() int {
	return len(s.discarded)
}

// NumDecks returns the number of decks the shoe is built from
func (s *Shoe) NumDecks() int {
	return s.numDecks
}

// Peek returns the cards in draw order without removing them.
func (s *Shoe) Peek(n int) []Card {
	n = min(n, len(s.cards))
	out := make([]Card, n)
	for i := range n {
		out[i] = s.cards[len(s.cards)-1-i]
	}
	return out
}
