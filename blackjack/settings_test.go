package blackjack

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSinglePlayer(t *testing.T) {
	s := DefaultSinglePlayer("Player1")
	assert.Equal(t, "Player1", s.PlayerName)
	assert.Equal(t, 6, s.DeckCount)
	assert.Equal(t, 10_000.0, s.Bankroll)
	assert.NoError(t, s.Validate())
}

func TestValidateSettings(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		field    string
		message  string
	}{
		{"empty name", NewSettings("", 6), "player_name", "player name cannot be empty"},
		{"blank name", NewSettings("   ", 6), "player_name", "player name cannot be empty"},
		{"too many decks", NewSettings("Player1", 9), "deck_count", "deck count must be between 1 and 8"},
		{"no decks", NewSettings("Player1", 0), "deck_count", "deck count must be between 1 and 8"},
		{"negative bankroll", Settings{PlayerName: "Player1", DeckCount: 1, Bankroll: -1}, "bankroll", "bankroll must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidSettings)
			assert.EqualError(t, err, tt.message)

			var se *SettingsError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.field, se.Field)
		})
	}

	for decks := MinDecks; decks <= MaxDecks; decks++ {
		assert.NoError(t, NewSettings("Player1", decks).Validate())
	}
}
