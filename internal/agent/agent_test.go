package agent

import (
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/blackjack"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quiet = log.NewWithOptions(io.Discard, log.Options{Level: log.WarnLevel})

func turnWith(cards string, bet, bankroll float64) blackjack.PlayerTurn {
	return blackjack.PlayerTurn{
		DealerHand:  blackjack.Hand{Cards: blackjack.MustParseCards("Kd")},
		PlayerHands: []blackjack.Hand{{Bet: bet, Cards: blackjack.MustParseCards(cards)}},
		Bankroll:    bankroll,
	}
}

func TestNew(t *testing.T) {
	for _, name := range Names {
		t.Run(name, func(t *testing.T) {
			d, err := New(name, randutil.New(1), quiet)
			require.NoError(t, err)
			assert.NotNil(t, d)
			assert.True(t, IsKnown(name))
		})
	}

	_, err := New("counter", randutil.New(1), quiet)
	assert.ErrorIs(t, err, ErrUnknownAgent)
	assert.False(t, IsKnown("counter"))
}

func TestDealerBot(t *testing.T) {
	bot := NewDealerBot(quiet)
	tests := []struct {
		cards string
		want  blackjack.Action
	}{
		{"10h6d", blackjack.Hit},
		{"10h7d", blackjack.Stand},
		{"As5d", blackjack.Stand},
		{"2h3d", blackjack.Hit},
	}
	for _, tt := range tests {
		t.Run(tt.cards, func(t *testing.T) {
			assert.Equal(t, tt.want, bot.Decide(turnWith(tt.cards, 10, 100)))
		})
	}
}

func TestCautiousBot(t *testing.T) {
	bot := NewCautiousBot(quiet)
	tests := []struct {
		cards string
		want  blackjack.Action
	}{
		{"5h6d", blackjack.Hit},
		{"10h2d", blackjack.Stand},
		{"As6d", blackjack.Hit},
		{"As7d", blackjack.Stand},
	}
	for _, tt := range tests {
		t.Run(tt.cards, func(t *testing.T) {
			assert.Equal(t, tt.want, bot.Decide(turnWith(tt.cards, 10, 100)))
		})
	}
}

func TestRandBotOnlyPicksValidActions(t *testing.T) {
	bot := NewRandBot(randutil.New(7), quiet)
	broke := turnWith("8s8h", 10, 0)
	seen := map[blackjack.Action]bool{}
	for range 200 {
		a := bot.Decide(broke)
		assert.Contains(t, []blackjack.Action{blackjack.Hit, blackjack.Stand}, a)
		seen[a] = true
	}
	assert.Len(t, seen, 2)

	rich := turnWith("8s8h", 10, 100)
	seen = map[blackjack.Action]bool{}
	for range 400 {
		seen[bot.Decide(rich)] = true
	}
	assert.Len(t, seen, 4)
}

func TestRandBotRequiresRNG(t *testing.T) {
	assert.Panics(t, func() { NewRandBot(nil, quiet) })
}

func TestAgentsPlayFullRounds(t *testing.T) {
	for _, name := range Names {
		t.Run(name, func(t *testing.T) {
			d, err := New(name, randutil.New(3), quiet)
			require.NoError(t, err)

			g := blackjack.New(blackjack.NewSettings("Bot", 2), blackjack.WithRNG(randutil.New(11)))
			g.ShuffleShoe()
			for range 50 {
				require.NoError(t, g.AcceptBet(10))
				err := g.Play(d)
				if errors.Is(err, blackjack.ErrShoeEmpty) {
					require.NoError(t, g.VoidRound())
					continue
				}
				require.NoError(t, err)
				_, ok := g.State().(blackjack.RoundComplete)
				require.True(t, ok)
				g.NextRound()
			}
		})
	}
}
