package blackjack

import (
	"testing"

	"github.com/lox/blackjack/internal/randutil"
	"github.com/stretchr/testify/require"
)

// newStackedGame returns a one-deck game whose shoe deals the given cards
// first, in order. Initial deal order is player, dealer, player, dealer.
func newStackedGame(t *testing.T, cards string, opts ...Option) *Game {
	t.Helper()
	shoe := NewShoe(1, randutil.New(1))
	shoe.Shuffle()
	require.NoError(t, shoe.Stack(MustParseCards(cards)...))
	return New(NewSettings("Alice", 1), append([]Option{WithShoe(shoe)}, opts...)...)
}

// dealRound bets and deals, failing the test on error.
func dealRound(t *testing.T, g *Game, bet float64) {
	t.Helper()
	require.NoError(t, g.AcceptBet(bet))
	require.NoError(t, g.DealInitialCards())
}

// runDealer advances the dealer until the round leaves DealerTurn.
func runDealer(t *testing.T, g *Game) RoundComplete {
	t.Helper()
	for range 20 {
		if done, ok := g.State().(RoundComplete); ok {
			return done
		}
		require.NoError(t, g.NextDealerTurn())
	}
	t.Fatalf("dealer did not finish, state %s", g.State().Phase())
	return RoundComplete{}
}

func outcomes(hands []Hand) []Outcome {
	out := make([]Outcome, len(hands))
	for i, h := range hands {
		out[i] = h.Outcome
	}
	return out
}

func handOf(s string) *Hand {
	return &Hand{Cards: MustParseCards(s)}
}
