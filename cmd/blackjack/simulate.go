package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/simulator"
)

// SimulateCmd plays many automated rounds and prints statistics
type SimulateCmd struct {
	Rounds int     `short:"r" default:"10000" help:"Number of rounds to play"`
	Tables int     `default:"0" help:"Independent tables to run in parallel (0 = number of CPUs)"`
	Agent  string  `short:"a" default:"dealer" enum:"dealer,cautious,rand,stand" help:"Agent making the decisions (${enum})"`
	Bet    float64 `short:"b" default:"10" help:"Bet per round"`
	Seed   *int64  `help:"Deterministic RNG seed (optional)"`
}

func (c *SimulateCmd) Run(g *Globals, out io.Writer) error {
	cfg, table, err := loadConfig(g)
	if err != nil {
		return err
	}
	logger := setupLogger(os.Stderr, cfg.Server.LogLevel, g.Debug)

	seed := randutil.EntropySeed()
	if c.Seed != nil {
		seed = *c.Seed
	}
	tables := c.Tables
	if tables <= 0 {
		tables = runtime.NumCPU()
	}
	logger.Info("Running simulation", "rounds", c.Rounds, "tables", tables, "agent", c.Agent, "seed", seed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sim := simulator.New(simulator.Config{
		Rounds:   c.Rounds,
		Tables:   tables,
		Agent:    c.Agent,
		Seed:     seed,
		Bet:      c.Bet,
		Settings: table.Settings(),
		Logger:   logger,
	})
	stats, err := sim.Run(ctx)
	if err != nil {
		return err
	}
	simulator.PrintSummary(out, stats, c.Agent)
	return nil
}
