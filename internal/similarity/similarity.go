// Package similarity computes token-overlap similarity between item labels.
package similarity

import (
	"strings"
	"unicode"
)

// TokenSet is a set of normalized label tokens.
type TokenSet map[string]bool

// Tokenize normalizes a label into its token set: lower-case, punctuation
// replaced by spaces, split on whitespace, digits stripped from each token.
// Digit stripping makes version-suffixed terms collide ("GPT4" and "GPT"
// produce the same token). There is no minimum token length; single-character
// tokens are retained to keep clustering granularity fine.
//
// A token that consists only of digits strips to nothing and is dropped;
// keeping the empty string would relate every numeric label to every other.
func Tokenize(label string) TokenSet {
	lowered := strings.ToLower(label)

	words := strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})

	set := make(TokenSet, len(words))
	for _, w := range words {
		token := stripDigits(w)
		if token != "" {
			set[token] = true
		}
	}
	return set
}

// stripDigits removes decimal digits from a token.
func stripDigits(token string) string {
	var b strings.Builder
	for _, r := range token {
		if !unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Jaccard returns the Jaccard index of two token sets: intersection size over
// union size, in [0,1]. An empty union yields 0 rather than NaN so degenerate
// labels never poison downstream layout math.
func Jaccard(a, b TokenSet) float64 {
	intersection := 0
	for token := range a {
		if b[token] {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// Union returns a new set containing every token from both inputs.
func Union(a, b TokenSet) TokenSet {
	merged := make(TokenSet, len(a)+len(b))
	for token := range a {
		merged[token] = true
	}
	for token := range b {
		merged[token] = true
	}
	return merged
}

// SharesToken reports whether the two sets have at least one token in common.
func SharesToken(a, b TokenSet) bool {
	for token := range a {
		if b[token] {
			return true
		}
	}
	return false
}
