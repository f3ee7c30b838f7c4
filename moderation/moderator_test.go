package moderation

import (
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

const replacementChar = '*'

// The dictionary uses specific words to avoid partial collisions
// (e.g., "he" inside "The").
func TestModerator_CensorTitle(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	blacklist := []string{"badger", "snake", "mushroom"}
	mod, err := NewModerator(blacklist, replacementChar, log)
	req.NoError(err)

	tests := []struct {
		name     string
		input    string
		expected string
		words    []string
	}{
		{
			name:     "Simple word and space preservation",
			input:    "The badger is here",
			expected: "The ****** is here",
			words:    []string{"badger"},
		},
		{
			name:     "Leet speak and internal punctuation",
			input:    "Ranked b.4.d.g.3.r night",
			expected: "Ranked *********** night",
			words:    []string{"badger"},
		},
		{
			name:     "Uppercase",
			input:    "SNAKE lobby",
			expected: "***** lobby",
			words:    []string{"snake"},
		},
		{
			name:     "Clean title untouched",
			input:    "Gaming Sesh",
			expected: "Gaming Sesh",
			words:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			censored, words := mod.CensorTitle(tt.input)
			require.Equal(t, tt.expected, censored)
			require.Equal(t, tt.words, words)
		})
	}
}

func TestModerator_CensorTitle_EmptyTitle(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	mod, err := NewModerator([]string{"badger"}, replacementChar, log)
	require.NoError(t, err)

	censored, words := mod.CensorTitle("")
	require.Equal(t, "", censored)
	require.Empty(t, words)
}
