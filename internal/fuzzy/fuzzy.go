// ABOUTME: Fuzzy title matcher resolving free text to the closest known title
// ABOUTME: Weighted edit-distance ratios on a 0-100 scale, using agext/levenshtein
package fuzzy

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/agext/levenshtein"

	"github.com/harper/bookrec/internal/features"
	"github.com/harper/bookrec/internal/models"
)

// Matcher scores a query against a fixed list of titles.
// Titles are preprocessed once; the matcher is safe for concurrent use.
type Matcher struct {
	titles    []string
	processed []string
}

// NewMatcher prepares titles for matching. Title i keeps id i.
func NewMatcher(titles []string) *Matcher {
	m := &Matcher{
		titles:    titles,
		processed: make([]string, len(titles)),
	}
	for i, t := range titles {
		m.processed[i] = Process(t)
	}
	return m
}

// ExtractOne returns the best scoring title. The first title wins ties.
// It returns false when the query has no word characters or there are no titles.
func (m *Matcher) ExtractOne(query string) (models.TitleMatch, bool) {
	q := Process(query)
	if q == "" || len(m.titles) == 0 {
		return models.TitleMatch{}, false
	}
	best := models.TitleMatch{ID: -1, Score: -1}
	for i, choice := range m.processed {
		score := WRatio(q, choice)
		if score > best.Score {
			best = models.TitleMatch{ID: i, Title: m.titles[i], Score: score}
			if score == 100 {
				break
			}
		}
	}
	return best, true
}

// Process normalises text for matching: case and diacritics folded,
// non-word runes replaced by spaces, whitespace collapsed.
func Process(s string) string {
	s = features.Normalize(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// Ratio is the plain edit-distance similarity of two processed strings
func Ratio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	return int(math.Round(100 * levenshtein.Similarity(a, b, nil)))
}

// PartialRatio is the best Ratio of the shorter string against any
// equal-length rune window of the longer one.
func PartialRatio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	s := string(short)
	best := 0
	for start := 0; start+len(short) <= len(long); start++ {
		r := Ratio(s, string(long[start:start+len(short)]))
		if r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

// TokenSortRatio compares the strings with their words sorted
func TokenSortRatio(a, b string) int {
	return Ratio(sortedTokens(a), sortedTokens(b))
}

// TokenSetRatio compares the shared words against each side's remainder,
// so a query that is a subset of a title scores highly.
func TokenSetRatio(a, b string) int {
	setA, setB := tokenSet(a), tokenSet(b)
	var common, onlyA, onlyB []string
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			common = append(common, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for tok := range setB {
		if _, ok := setA[tok]; !ok {
			onlyB = append(onlyB, tok)
		}
	}
	sort.Strings(common)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	base := strings.Join(common, " ")
	combinedA := strings.TrimSpace(base + " " + strings.Join(onlyA, " "))
	combinedB := strings.TrimSpace(base + " " + strings.Join(onlyB, " "))

	best := Ratio(combinedA, combinedB)
	if base != "" {
		best = max(best, Ratio(base, combinedA), Ratio(base, combinedB))
	}
	return best
}

// WRatio blends the ratios the way a general-purpose "extract one" scorer does:
// similar-length strings use the token ratios, very different lengths use the
// scaled partial ratio.
func WRatio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	la, lb := float64(len([]rune(a))), float64(len([]rune(b)))
	lenRatio := math.Max(la, lb) / math.Min(la, lb)

	base := float64(Ratio(a, b))
	if lenRatio < 1.5 {
		tok := 0.95 * float64(max(TokenSortRatio(a, b), TokenSetRatio(a, b)))
		return int(math.Round(math.Max(base, tok)))
	}

	scale := 0.9
	if lenRatio > 8 {
		scale = 0.6
	}
	partial := float64(PartialRatio(a, b)) * scale
	tok := float64(TokenSetRatio(a, b)) * 0.95 * scale
	return int(math.Round(math.Max(base, math.Max(partial, tok))))
}

func sortedTokens(s string) string {
	toks := strings.Fields(s)
	sort.Strings(toks)
	return strings.Join(toks, " ")
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		set[tok] = struct{}{}
	}
	return set
}
