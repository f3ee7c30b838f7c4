// Package moderation censors session titles against a blacklist.
// Matching is resilient to casing, spacing, punctuation, and common leet
// substitutions; replacement preserves the original title length.
package moderation

import (
	"log/slog"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

type Moderator struct {
	matcher     *goahocorasick.Machine
	replacement rune
	log         *slog.Logger
}

// titleMapping links the normalized searchable runes back to their position
// in the original title so matched spans can be starred out in place.
type titleMapping struct {
	normalized []rune
	origIdx    []int
}

// NewModerator builds the Aho-Corasick automaton over the normalized
// blacklist.
func NewModerator(blacklist []string, replacement rune, log *slog.Logger) (Moderator, error) {
	patterns := make([][]rune, len(blacklist))
	for i, word := range blacklist {
		patterns[i] = normalizeRunes([]rune(word))
	}

	machine := new(goahocorasick.Machine)
	if err := machine.Build(patterns); err != nil {
		return Moderator{}, err
	}
	return Moderator{matcher: machine, replacement: replacement, log: log}, nil
}

// CensorTitle replaces every blacklisted span of the title with the
// replacement rune and returns the censored title along with the normalized
// words that matched. A clean title is returned unchanged.
func (m *Moderator) CensorTitle(title string) (string, []string) {
	mapping := normalizeTitle(title)
	if len(mapping.normalized) == 0 {
		return title, nil
	}

	spans := m.matcher.MultiPatternSearch(mapping.normalized, false)
	if len(spans) == 0 {
		return title, nil
	}

	origRunes := []rune(title)
	var matched []string
	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(mapping.origIdx) {
			continue
		}
		matched = append(matched, string(span.Word))

		// Star out everything between the first and last original rune of
		// the span, covering punctuation the normalization skipped.
		from := mapping.origIdx[start]
		to := mapping.origIdx[end-1]
		for i := from; i <= to; i++ {
			origRunes[i] = m.replacement
		}
	}

	if len(matched) > 0 {
		m.log.Debug("Title censored", "matches", len(matched))
	}
	return string(origRunes), matched
}

func normalizeTitle(title string) titleMapping {
	origRunes := []rune(title)
	mapping := titleMapping{
		normalized: make([]rune, 0, len(origRunes)),
		origIdx:    make([]int, 0, len(origRunes)),
	}
	for i, r := range origRunes {
		plain := unleet(r)
		if isNoise(plain) {
			continue
		}
		mapping.normalized = append(mapping.normalized, unicode.ToLower(plain))
		mapping.origIdx = append(mapping.origIdx, i)
	}
	return mapping
}

func normalizeRunes(input []rune) []rune {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		plain := unleet(r)
		if isNoise(plain) {
			continue
		}
		out = append(out, unicode.ToLower(plain))
	}
	return out
}

// unleet maps common leet speak characters back to their alphabet
// counterparts.
func unleet(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}

func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
