// Package agent provides automated players that make blackjack decisions
// without human input. They drive simulated tables and the server's
// autoplay mode.
package agent

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/blackjack"
)

// ErrUnknownAgent is returned by New for an unrecognised agent name
var ErrUnknownAgent = errors.New("unknown agent")

// Names lists the agents New understands
var Names = []string{"dealer", "cautious", "rand", "stand"}

// New creates the named agent. rng is only used by agents that need it.
func New(name string, rng *rand.Rand, logger *log.Logger) (blackjack.Decider, error) {
	switch name {
	case "dealer":
		return NewDealerBot(logger), nil
	case "cautious":
		return NewCautiousBot(logger), nil
	case "rand":
		return NewRandBot(rng, logger), nil
	case "stand":
		return StandBot{}, nil
	}
	return nil, fmt.Errorf("%q (want one of %v): %w", name, Names, ErrUnknownAgent)
}

// DealerBot plays the house policy: hit on 16 or less, stand on 17 or more.
type DealerBot struct {
	logger *log.Logger
}

// NewDealerBot creates a new DealerBot instance
func NewDealerBot(logger *log.Logger) *DealerBot {
	return &DealerBot{logger: logger.WithPrefix("dealer-bot")}
}

func (b *DealerBot) Decide(turn blackjack.PlayerTurn) blackjack.Action {
	hand := turn.Active()
	action := blackjack.Stand
	if hand.BestValue() <= 16 {
		action = blackjack.Hit
	}
	b.logger.Debug("Decision", "hand", hand.String(), "value", hand.BestValue(), "action", action)
	return action
}

// CautiousBot never risks busting: it hits only while no single card can
// take it over 21, and stands on everything else.
type CautiousBot struct {
	logger *log.Logger
}

// NewCautiousBot creates a new CautiousBot instance
func NewCautiousBot(logger *log.Logger) *CautiousBot {
	return &CautiousBot{logger: logger.WithPrefix("cautious-bot")}
}

func (b *CautiousBot) Decide(turn blackjack.PlayerTurn) blackjack.Action {
	hand := turn.Active()
	action := blackjack.Stand
	if hand.IsSoft() && hand.BestValue() <= 17 || !hand.IsSoft() && hand.BestValue() <= 11 {
		action = blackjack.Hit
	}
	b.logger.Debug("Decision", "hand", hand.String(), "soft", hand.IsSoft(), "action", action)
	return action
}

// RandBot picks uniformly among the actions the active hand can take.
type RandBot struct {
	rng    *rand.Rand
	logger *log.Logger
}

// NewRandBot creates a new RandBot instance
func NewRandBot(rng *rand.Rand, logger *log.Logger) *RandBot {
	if rng == nil {
		panic("rng is required for rand bot")
	}
	return &RandBot{rng: rng, logger: logger.WithPrefix("rand-bot")}
}

func (b *RandBot) Decide(turn blackjack.PlayerTurn) blackjack.Action {
	valid := turn.ValidActions()
	action := valid[b.rng.IntN(len(valid))]
	b.logger.Debug("Decision", "valid", len(valid), "action", action)
	return action
}

// StandBot always stands.
type StandBot struct{}

func (StandBot) Decide(blackjack.PlayerTurn) blackjack.Action { return blackjack.Stand }

// IsKnown reports whether New accepts name
func IsKnown(name string) bool {
	return slices.Contains(Names, name)
}
