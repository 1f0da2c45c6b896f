package blackjack

import (
	"fmt"
	"strings"
)

// Deck count bounds accepted by Settings.Validate
const (
	MinDecks     = 1
	MaxDecks     = 8
	DefaultDecks = 6
)

// Settings configures a table
type Settings struct {
	// PlayerName is the display name of the seated player
	PlayerName string

	// DeckCount is the number of decks in the shoe (1-8)
	DeckCount int

	// Bankroll is the player's starting bankroll
	Bankroll float64
}

// NewSettings creates settings with the default bankroll
func NewSettings(playerName string, deckCount int) Settings {
	return Settings{
		PlayerName: playerName,
		DeckCount:  deckCount,
		Bankroll:   DefaultBankroll,
	}
}

// DefaultSinglePlayer returns a six deck table for one player
func DefaultSinglePlayer(playerName string) Settings {
	return NewSettings(playerName, DefaultDecks)
}

// SettingsError describes why settings were rejected
type SettingsError struct {
	Field  string
	Reason string
}

func (e *SettingsError) Error() string {
	return e.Reason
}

func (e *SettingsError) Unwrap() error {
	return ErrInvalidSettings
}

// Validate checks the settings are within acceptable ranges. Construction
// does not call it; callers validate first.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.PlayerName) == "" {
		return &SettingsError{Field: "player_name", Reason: "player name cannot be empty"}
	}
	if s.DeckCount < MinDecks || s.DeckCount > MaxDecks {
		return &SettingsError{
			Field:  "deck_count",
			Reason: fmt.Sprintf("deck count must be between %d and %d", MinDecks, MaxDecks),
		}
	}
	if s.Bankroll < 0 {
		return &SettingsError{Field: "bankroll", Reason: "bankroll must not be negative"}
	}
	return nil
}
