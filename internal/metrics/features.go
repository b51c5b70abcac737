// Package metrics derives cheap local measurements from text: byte, rune,
// word and line counts, and a rune-based token estimate.
package metrics

import (
	"strings"
	"unicode/utf8"
)

// runesPerToken is the divisor of the token estimate.
const runesPerToken = 4

// Features holds basic local text features derived from an input string.
type Features struct {
	Bytes int
	Runes int
	Words int
	Lines int
}

// CountFeatures computes byte, rune, word, and line counts for s.
func CountFeatures(s string) Features {
	return Features{
		Bytes: len(s),
		Runes: utf8.RuneCountInString(s),
		Words: len(strings.Fields(s)),
		Lines: countLines(s),
	}
}

// EstimateTokens approximates the token cost of s as ceil(runes/4).
// Empty input costs 0.
func EstimateTokens(s string) int {
	r := utf8.RuneCountInString(s)
	return (r + runesPerToken - 1) / runesPerToken
}

// EstimateTokensAll sums EstimateTokens over the concatenation of parts.
func EstimateTokensAll(parts ...string) int {
	total := 0
	for _, p := range parts {
		total += utf8.RuneCountInString(p)
	}
	return (total + runesPerToken - 1) / runesPerToken
}

// countLines returns 0 for empty strings; otherwise 1 plus the number of '\n' runes.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	return 1 + strings.Count(s, "\n")
}
