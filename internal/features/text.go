// ABOUTME: TF-IDF text encoder over book titles
// ABOUTME: Vocabulary and idf weights are frozen at Fit and reused by Transform
package features

import (
	"math"
	"sort"

	"github.com/harper/bookrec/internal/bookerr"
)

// TextEncoder maps text onto a frozen TF-IDF term space.
// It is immutable after FitText and safe for concurrent Transform calls.
type TextEncoder struct {
	vocabulary  map[string]int
	terms       []string
	idf         []float64
	minTokenLen int
}

// FitText builds the vocabulary from titles and returns the encoder together
// with one L2-normalised TF-IDF row per title, in input order.
//
// idf(t) = ln((1+n)/(1+df(t))) + 1, term frequency is the raw count.
func FitText(titles []string, minTokenLen int) (*TextEncoder, []SparseVector, error) {
	if len(titles) == 0 {
		return nil, nil, bookerr.NewInvalidDataError("title", "no titles to fit")
	}
	if minTokenLen <= 0 {
		minTokenLen = DefaultMinTokenLen
	}

	docs := make([][]string, len(titles))
	df := make(map[string]int)
	for i, title := range titles {
		docs[i] = contentTokens(title, minTokenLen)
		seen := make(map[string]struct{}, len(docs[i]))
		for _, tok := range docs[i] {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(df) == 0 {
		return nil, nil, bookerr.NewInvalidDataError("title", "titles are empty after stop-word removal, no vocabulary")
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	enc := &TextEncoder{
		vocabulary:  make(map[string]int, len(terms)),
		terms:       terms,
		idf:         make([]float64, len(terms)),
		minTokenLen: minTokenLen,
	}
	n := float64(len(titles))
	for i, term := range terms {
		enc.vocabulary[term] = i
		enc.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	rows := make([]SparseVector, len(docs))
	for i, tokens := range docs {
		rows[i] = enc.weigh(tokens)
	}
	return enc, rows, nil
}

// Transform encodes text with the frozen vocabulary. Terms outside the
// vocabulary contribute nothing; the width is always VocabularySize.
func (e *TextEncoder) Transform(text string) SparseVector {
	return e.weigh(contentTokens(text, e.minTokenLen))
}

func (e *TextEncoder) weigh(tokens []string) SparseVector {
	counts := make(map[int]float64)
	for _, tok := range tokens {
		if idx, ok := e.vocabulary[tok]; ok {
			counts[idx]++
		}
	}
	// weigh in column order so repeated encodings are bit-identical
	v := NewSparseVector(len(e.terms), counts)
	var norm float64
	for i, idx := range v.Indices {
		v.Values[i] *= e.idf[idx]
		norm += v.Values[i] * v.Values[i]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range v.Values {
			v.Values[i] /= norm
		}
	}
	return v
}

// VocabularySize returns the width of every vector the encoder produces
func (e *TextEncoder) VocabularySize() int {
	return len(e.terms)
}

// TermIndex returns the column of term, if it is in the vocabulary
func (e *TextEncoder) TermIndex(term string) (int, bool) {
	idx, ok := e.vocabulary[term]
	return idx, ok
}

// Terms returns the vocabulary in column order
func (e *TextEncoder) Terms() []string {
	out := make([]string, len(e.terms))
	copy(out, e.terms)
	return out
}

// IDF returns the frozen idf weight of a vocabulary column
func (e *TextEncoder) IDF(idx int) float64 {
	return e.idf[idx]
}
