package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lox/blackjack/blackjack"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/tui"
)

// PlayCmd runs the interactive terminal game
type PlayCmd struct {
	Name    string `short:"n" env:"BLACKJACK_PLAYER" help:"Player name (overrides config)"`
	Seed    *int64 `help:"Deterministic shuffle seed (optional)"`
	LogFile string `default:"blackjack.log" help:"File to write logs to while the game is on screen"`
	NoColor bool   `env:"NO_COLOR" help:"Disable coloured output"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, table, err := loadConfig(g)
	if err != nil {
		return err
	}
	if c.Name != "" {
		table.PlayerName = c.Name
	}

	f, err := openLogFile(c.LogFile)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()
	logger := setupLogger(f, cfg.Server.LogLevel, g.Debug)

	seed := randutil.EntropySeed()
	if c.Seed != nil {
		seed = *c.Seed
	}
	logger.Info("Starting game", "table", table.Name, "player", table.PlayerName, "seed", seed)

	tui.SetColor(!c.NoColor)
	model := tui.NewModel(table, logger, blackjack.WithRNG(randutil.New(seed)))
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return err
	}

	fmt.Printf("Thanks for playing, %s. Final bankroll $%.2f\n", table.PlayerName, model.Game().Bankroll())
	return nil
}
