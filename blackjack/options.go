package blackjack

import (
	"math/rand/v2"

	"github.com/charmbracelet/log"
)

// Option configures a Game during creation.
type Option func(*gameConfig)

type gameConfig struct {
	rng     *rand.Rand
	shoe    *Shoe
	logger  *log.Logger
	onEvent func(Event)
}

// WithRNG sets the random source used to shuffle the shoe. Pass a seeded
// source for reproducible rounds.
func WithRNG(rng *rand.Rand) Option {
	return func(c *gameConfig) {
		c.rng = rng
	}
}

// WithShoe uses the given shoe instead of building one from the settings.
// Useful for tests that stack the shoe.
func WithShoe(shoe *Shoe) Option {
	return func(c *gameConfig) {
		c.shoe = shoe
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *log.Logger) Option {
	return func(c *gameConfig) {
		c.logger = logger
	}
}

// WithEventHandler installs a handler that receives every engine event
// synchronously.
func WithEventHandler(fn func(Event)) Option {
	return func(c *gameConfig) {
		c.onEvent = fn
	}
}
