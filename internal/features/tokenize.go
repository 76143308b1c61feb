// ABOUTME: Unicode-aware text normalisation and tokenisation for titles and queries
// ABOUTME: Folds case, strips combining marks, splits on non-word runes
package features

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultMinTokenLen is the shortest token kept in the vocabulary
const DefaultMinTokenLen = 2

// Normalize folds case and removes diacritics so "Éire" and "eire" compare equal.
// A new transformer chain is built per call because x/text transformers are stateful.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), cases.Fold(), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// Tokenize splits normalised text into word tokens of at least minLen runes.
// Word runes are letters, digits and underscore. Stop words are not removed here.
func Tokenize(s string, minLen int) []string {
	if minLen < 1 {
		minLen = 1
	}
	fields := strings.FieldsFunc(Normalize(s), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
	})
	tokens := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) >= minLen {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// contentTokens tokenises and drops English stop words
func contentTokens(s string, minLen int) []string {
	var out []string
	for _, tok := range Tokenize(s, minLen) {
		if IsStopWord(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}
