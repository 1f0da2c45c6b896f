package blackjack

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlayer(t *testing.T) {
	p := NewPlayer(DefaultBankroll)
	require.Len(t, p.Hands, 1)
	assert.Empty(t, p.Hands[0].Cards)
	assert.Equal(t, 10_000.0, p.Bankroll)
}

func TestAddCardToHand(t *testing.T) {
	p := NewPlayer(0)
	require.NoError(t, p.AddCard(NewCard(Ace, Spades), 0))
	require.NoError(t, p.AddCard(NewCard(King, Hearts), 0))
	assert.Equal(t, MustParseCards("AsKh"), p.Hands[0].Cards)
}

func TestAddCardToInvalidHand(t *testing.T) {
	p := NewPlayer(0)
	assert.ErrorIs(t, p.AddCard(NewCard(Ace, Spades), 999), ErrHandIndex)
	assert.ErrorIs(t, p.AddCard(NewCard(Ace, Spades), -1), ErrHandIndex)
	assert.Empty(t, p.Hands[0].Cards)
}

func TestResetHands(t *testing.T) {
	p := NewPlayer(0)
	require.NoError(t, p.AddCard(NewCard(Ace, Spades), 0))
	require.NoError(t, p.insertHandAfter(0, handOf("8s")))
	p.ResetHands()
	require.Len(t, p.Hands, 1)
	assert.Empty(t, p.Hands[0].Cards)
}

func TestDebit(t *testing.T) {
	p := NewPlayer(100)
	assert.ErrorIs(t, p.Debit(101), ErrInsufficientFunds)
	assert.Equal(t, 100.0, p.Bankroll)
	assert.ErrorIs(t, p.Debit(-1), ErrInvalidBet)
	assert.ErrorIs(t, p.Debit(math.NaN()), ErrInvalidBet)
	assert.ErrorIs(t, p.Debit(math.Inf(1)), ErrInvalidBet)
	assert.Equal(t, 100.0, p.Bankroll)

	require.NoError(t, p.Debit(100))
	assert.Zero(t, p.Bankroll)

	p.Credit(250)
	assert.Equal(t, 250.0, p.Bankroll)
}

func TestInsertHandAfter(t *testing.T) {
	p := NewPlayer(0)
	p.Hands = []*Hand{handOf("As"), handOf("Ks")}
	require.NoError(t, p.insertHandAfter(0, handOf("Qs")))
	require.Len(t, p.Hands, 3)
	assert.Equal(t, "Q♠", p.Hands[1].String())
	assert.Equal(t, "K♠", p.Hands[2].String())
	assert.ErrorIs(t, p.insertHandAfter(3, handOf("2s")), ErrHandIndex)
}
