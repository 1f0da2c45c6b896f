// Package config loads the HCL configuration shared by the blackjack
// commands.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/blackjack/blackjack"
)

const (
	DefaultAddress     = "localhost"
	DefaultPort        = 8080
	DefaultLogLevel    = "info"
	DefaultIdleTimeout = 5 * time.Minute
	DefaultTableName   = "main"
	DefaultPlayerName  = "Player"
	DefaultMinBet      = 1
	DefaultMaxBet      = 1000
)

// Config represents the complete configuration file
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Tables []TableConfig  `hcl:"table,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address     string `hcl:"address,optional"`
	Port        int    `hcl:"port,optional"`
	LogLevel    string `hcl:"log_level,optional"`
	IdleTimeout string `hcl:"idle_timeout,optional"`
}

// TableConfig defines the rules a blackjack table is created with
type TableConfig struct {
	Name       string  `hcl:"name,label" json:"name"`
	PlayerName string  `hcl:"player_name,optional" json:"playerName"`
	Decks      int     `hcl:"decks,optional" json:"decks"`
	Bankroll   float64 `hcl:"bankroll,optional" json:"bankroll"`
	MinBet     float64 `hcl:"min_bet,optional" json:"minBet"`
	MaxBet     float64 `hcl:"max_bet,optional" json:"maxBet"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Server: ServerSettings{
			Address:     DefaultAddress,
			Port:        DefaultPort,
			LogLevel:    DefaultLogLevel,
			IdleTimeout: DefaultIdleTimeout.String(),
		},
		Tables: []TableConfig{defaultTable(DefaultTableName)},
	}
}

func defaultTable(name string) TableConfig {
	return TableConfig{
		Name:       name,
		PlayerName: DefaultPlayerName,
		Decks:      blackjack.DefaultDecks,
		Bankroll:   blackjack.DefaultBankroll,
		MinBet:     DefaultMinBet,
		MaxBet:     DefaultMaxBet,
	}
}

// Load reads configuration from an HCL file. A missing file yields Default.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = DefaultAddress
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = DefaultLogLevel
	}
	if c.Server.IdleTimeout == "" {
		c.Server.IdleTimeout = DefaultIdleTimeout.String()
	}

	if len(c.Tables) == 0 {
		c.Tables = []TableConfig{defaultTable(DefaultTableName)}
	}
	for i := range c.Tables {
		t := &c.Tables[i]
		if t.PlayerName == "" {
			t.PlayerName = DefaultPlayerName
		}
		if t.Decks == 0 {
			t.Decks = blackjack.DefaultDecks
		}
		if t.Bankroll == 0 {
			t.Bankroll = blackjack.DefaultBankroll
		}
		if t.MinBet == 0 {
			t.MinBet = DefaultMinBet
		}
		if t.MaxBet == 0 {
			t.MaxBet = DefaultMaxBet
		}
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if _, err := c.Server.Timeout(); err != nil {
		return err
	}
	if len(c.Tables) == 0 {
		return fmt.Errorf("at least one table must be configured")
	}

	seen := make(map[string]bool, len(c.Tables))
	for _, t := range c.Tables {
		if seen[t.Name] {
			return fmt.Errorf("table %s: defined more than once", t.Name)
		}
		seen[t.Name] = true

		if err := t.Settings().Validate(); err != nil {
			return fmt.Errorf("table %s: %w", t.Name, err)
		}
		if t.MinBet < 0 {
			return fmt.Errorf("table %s: min bet must not be negative", t.Name)
		}
		if t.MaxBet < t.MinBet {
			return fmt.Errorf("table %s: max bet must not be less than min bet", t.Name)
		}
	}
	return nil
}

// Timeout parses the idle timeout
func (s ServerSettings) Timeout() (time.Duration, error) {
	d, err := time.ParseDuration(s.IdleTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid idle_timeout %q: %w", s.IdleTimeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("idle_timeout must be positive, got %s", d)
	}
	return d, nil
}

// ServerAddress returns the full listen address
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// Table returns a table configuration by name
func (c *Config) Table(name string) (TableConfig, bool) {
	for _, t := range c.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return TableConfig{}, false
}

// Settings converts the table into engine settings
func (t TableConfig) Settings() blackjack.Settings {
	return blackjack.Settings{
		PlayerName: t.PlayerName,
		DeckCount:  t.Decks,
		Bankroll:   t.Bankroll,
	}
}

// CheckBet reports whether bet is inside the table limits
func (t TableConfig) CheckBet(bet float64) error {
	if math.IsNaN(bet) || bet < t.MinBet || bet > t.MaxBet {
		return fmt.Errorf("bet %.2f outside table limits %.2f-%.2f: %w", bet, t.MinBet, t.MaxBet, blackjack.ErrInvalidBet)
	}
	return nil
}
