package blackjack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankValues(t *testing.T) {
	tests := []struct {
		rank Rank
		want []int
	}{
		{Ace, []int{1, 11}},
		{Two, []int{2}},
		{Three, []int{3}},
		{Four, []int{4}},
		{Five, []int{5}},
		{Six, []int{6}},
		{Seven, []int{7}},
		{Eight, []int{8}},
		{Nine, []int{9}},
		{Ten, []int{10}},
		{Jack, []int{10}},
		{Queen, []int{10}},
		{King, []int{10}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.rank.Values(), tt.rank.String())
	}
}

func TestRankString(t *testing.T) {
	got := make([]string, 0, len(Ranks))
	for _, r := range Ranks {
		got = append(got, r.String())
	}
	assert.Equal(t, []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}, got)
}

func TestCardString(t *testing.T) {
	assert.Equal(t, "A♣", NewCard(Ace, Clubs).String())
	assert.Equal(t, "10♥", NewCard(Ten, Hearts).String())
	assert.True(t, NewCard(Two, Diamonds).IsRed())
	assert.False(t, NewCard(Two, Spades).IsRed())
}

func TestParseCards(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Card
		wantErr  bool
	}{
		{
			name:     "ace king",
			input:    "AsKh",
			expected: []Card{{Ace, Spades}, {King, Hearts}},
		},
		{
			name:     "ten both ways",
			input:    "Td10c",
			expected: []Card{{Ten, Diamonds}, {Ten, Clubs}},
		},
		{
			name:     "case insensitive with spaces",
			input:    "as 8H qd",
			expected: []Card{{Ace, Spades}, {Eight, Hearts}, {Queen, Diamonds}},
		},
		{name: "invalid rank", input: "XsKs", wantErr: true},
		{name: "invalid suit", input: "AsKx", wantErr: true},
		{name: "odd length", input: "AsK", wantErr: true},
		{name: "empty string", input: "", expected: []Card{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCards(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMustParseCardsPanics(t *testing.T) {
	assert.Panics(t, func() { MustParseCards("invalid") })
}
