// Package text holds the text normalization shared by every keyword matcher.
package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases s, strips diacritics, turns punctuation into spaces and
// collapses whitespace. It never fails and Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	lower := strings.ToLower(s)

	// transform.Chain keeps state, so each call builds its own.
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(stripMarks, lower)
	if err != nil {
		stripped = lower
	}

	spaced := strings.Map(func(r rune) rune {
		if isWordRune(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, stripped)

	return strings.Join(strings.Fields(spaced), " ")
}

// ContainsAny reports which of the keywords occur in the already normalized
// message, preserving keyword order.
func ContainsAny(normalized string, keywords []string) []string {
	var found []string
	for _, kw := range keywords {
		if kw != "" && strings.Contains(normalized, kw) {
			found = append(found, kw)
		}
	}
	return found
}

// NormalizeAll normalizes a keyword list, dropping entries that normalize to nothing.
func NormalizeAll(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if n := Normalize(kw); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
