// Package simulator plays many blackjack rounds with an automated agent
// across independent tables and aggregates the results.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/blackjack"
	"github.com/lox/blackjack/internal/agent"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/statistics"
	"golang.org/x/sync/errgroup"
)

// Config holds configuration for running simulations
type Config struct {
	Rounds   int
	Tables   int
	Agent    string
	Seed     int64
	Bet      float64
	Settings blackjack.Settings
	Logger   *log.Logger
}

// Simulator runs blackjack simulations
type Simulator struct {
	config Config
	logger *log.Logger
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Tables < 1 {
		config.Tables = 1
	}
	logger := config.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Simulator{config: config, logger: logger.WithPrefix("simulator")}
}

// Validate checks the configuration before any table starts
func (c Config) Validate() error {
	if c.Rounds < 1 {
		return fmt.Errorf("rounds must be positive, got %d", c.Rounds)
	}
	if c.Bet <= 0 {
		return fmt.Errorf("bet must be positive, got %.2f", c.Bet)
	}
	if !agent.IsKnown(c.Agent) {
		return fmt.Errorf("%q: %w", c.Agent, agent.ErrUnknownAgent)
	}
	return c.Settings.Validate()
}

// Run plays every table concurrently and returns the merged statistics.
// Tables are seeded independently from Seed so a run is reproducible
// regardless of scheduling.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	if err := s.config.Validate(); err != nil {
		return nil, err
	}

	perTable := make([]*statistics.Statistics, s.config.Tables)
	g, ctx := errgroup.WithContext(ctx)

	base, remainder := s.config.Rounds/s.config.Tables, s.config.Rounds%s.config.Tables
	for table := range s.config.Tables {
		rounds := base
		if table < remainder {
			rounds++
		}
		g.Go(func() error {
			stats, err := s.runTable(ctx, table, rounds)
			if err != nil {
				return fmt.Errorf("table %d: %w", table, err)
			}
			perTable[table] = stats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &statistics.Statistics{}
	for _, ts := range perTable {
		stats.Merge(ts)
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return stats, nil
}

func (s *Simulator) runTable(ctx context.Context, table, rounds int) (*statistics.Statistics, error) {
	seed := randutil.Derive(s.config.Seed, table)
	logger := s.logger.With("table", table, "seed", seed)

	decider, err := agent.New(s.config.Agent, randutil.New(randutil.Derive(seed, 1)), logger)
	if err != nil {
		return nil, err
	}

	var actions []blackjack.Action
	game := blackjack.New(s.config.Settings,
		blackjack.WithRNG(randutil.New(seed)),
		blackjack.WithLogger(logger),
		blackjack.WithEventHandler(func(e blackjack.Event) {
			if pa, ok := e.(blackjack.PlayerActionEvent); ok {
				actions = append(actions, pa.Action)
			}
		}),
	)
	game.ShuffleShoe()

	stats := &statistics.Statistics{}
	for round := range rounds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if game.Bankroll() < s.config.Bet {
			logger.Info("Bankroll exhausted", "round", round, "bankroll", game.Bankroll())
			break
		}

		actions = actions[:0]
		if err := game.AcceptBet(s.config.Bet); err != nil {
			return nil, err
		}
		err := game.Play(decider)
		switch {
		case errors.Is(err, blackjack.ErrShoeEmpty):
			logger.Warn("Shoe ran out mid-round", "round", round)
			if err := game.VoidRound(); err != nil {
				return nil, err
			}
			stats.AddVoided()
			continue
		case err != nil:
			return nil, fmt.Errorf("round %d: %w", round, err)
		}

		done, ok := game.State().(blackjack.RoundComplete)
		if !ok {
			return nil, fmt.Errorf("round %d ended in %s", round, game.State().Phase())
		}
		stats.Add(statistics.ResultFromRound(done, s.config.Bet, seed, actions))
		game.NextRound()
	}

	logger.Debug("Table finished", "rounds", stats.Rounds, "bankroll", game.Bankroll())
	return stats, nil
}

// PrintSummary writes a summary of simulation results
func PrintSummary(w io.Writer, stats *statistics.Statistics, agentName string) {
	low, high := stats.ConfidenceInterval95()

	fmt.Fprintf(w, "\n=== FINAL RESULTS for %s agent ===\n", agentName)
	fmt.Fprintf(w, "Rounds played: %d (%d voided)\n", stats.Rounds, stats.Voided)
	fmt.Fprintf(w, "Hands played: %d\n", stats.Hands)

	fmt.Fprintf(w, "\n=== STATISTICAL RESULTS ===\n")
	fmt.Fprintf(w, "Mean: %.4f bets/round\n", stats.Mean())
	fmt.Fprintf(w, "Median: %.4f bets/round\n", stats.Median())
	fmt.Fprintf(w, "Std Dev: %.4f bets\n", stats.StdDev())
	fmt.Fprintf(w, "Std Error: %.4f bets\n", stats.StdError())
	fmt.Fprintf(w, "95%% CI: [%.4f, %.4f] bets/round\n", low, high)
	fmt.Fprintf(w, "Percentiles: P5=%.3f, P25=%.3f, P75=%.3f, P95=%.3f\n",
		stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95))

	if stats.Hands == 0 {
		return
	}
	pct := func(n int) float64 { return float64(n) / float64(stats.Hands) * 100 }
	fmt.Fprintf(w, "\n=== OUTCOMES ===\n")
	fmt.Fprintf(w, "Wins: %d (%.1f%%)\n", stats.Wins, pct(stats.Wins))
	fmt.Fprintf(w, "Blackjacks: %d (%.1f%%)\n", stats.Blackjacks, pct(stats.Blackjacks))
	fmt.Fprintf(w, "Pushes: %d (%.1f%%)\n", stats.Pushes, pct(stats.Pushes))
	fmt.Fprintf(w, "Losses: %d (%.1f%%), %d busts\n", stats.Losses, pct(stats.Losses), stats.Busts)
	fmt.Fprintf(w, "Doubles: %d, Splits: %d\n", stats.Doubles, stats.Splits)
}
