package faq

import (
	"fmt"
	"math"
	"sort"
)

// sparseVector holds the non-zero columns of a term weighted vector in ascending column order.
type sparseVector struct {
	cols []int
	vals []float64
}

func (v sparseVector) dot(other sparseVector) float64 {
	var (
		sum  float64
		i, j int
	)
	for i < len(v.cols) && j < len(other.cols) {
		switch {
		case v.cols[i] == other.cols[j]:
			sum += v.vals[i] * other.vals[j]
			i++
			j++
		case v.cols[i] < other.cols[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Index is the queryable TF-IDF representation of a corpus.
// It is never mutated after construction and is safe for concurrent readers.
type Index struct {
	vocabulary  map[string]int
	terms       []string
	idf         []float64
	vectors     []sparseVector
	entries     []Entry
	fingerprint string
}

// BuildIndex derives the vocabulary, idf weights and unit document vectors from entries.
// The result depends only on the entries, so equal corpora produce equal indexes.
func BuildIndex(entries []Entry) (*Index, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyCorpus
	}

	docTerms := make([][]string, len(entries))
	df := make(map[string]int)
	for i, entry := range entries {
		tokens := tokenize(normalizeQuestion(entry.Question))
		docTerms[i] = tokens
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	n := float64(len(entries))
	vocabulary := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	for col, term := range terms {
		vocabulary[term] = col
		idf[col] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	idx := &Index{
		vocabulary:  vocabulary,
		terms:       terms,
		idf:         idf,
		vectors:     make([]sparseVector, len(entries)),
		entries:     append([]Entry(nil), entries...),
		fingerprint: Fingerprint(entries),
	}
	for i, tokens := range docTerms {
		idx.vectors[i] = idx.project(tokens)
	}
	return idx, nil
}

// project weights raw term counts by the fixed idf values and scales the result to unit length.
// Terms outside the vocabulary are ignored; a vector without known terms stays zero.
func (idx *Index) project(tokens []string) sparseVector {
	counts := make(map[int]float64, len(tokens))
	for _, tok := range tokens {
		if col, ok := idx.vocabulary[tok]; ok {
			counts[col]++
		}
	}
	if len(counts) == 0 {
		return sparseVector{}
	}

	cols := make([]int, 0, len(counts))
	for col := range counts {
		cols = append(cols, col)
	}
	sort.Ints(cols)

	vals := make([]float64, len(cols))
	var norm float64
	for i, col := range cols {
		w := counts[col] * idx.idf[col]
		vals[i] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return sparseVector{}
	}
	for i := range vals {
		vals[i] /= norm
	}
	return sparseVector{cols: cols, vals: vals}
}

// Len returns the number of indexed entries.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// VocabularySize returns the number of distinct terms.
func (idx *Index) VocabularySize() int {
	return len(idx.terms)
}

// Fingerprint identifies the corpus the index was built from.
func (idx *Index) Fingerprint() string {
	return idx.fingerprint
}

// Entry returns the corpus entry at position i.
func (idx *Index) Entry(i int) (Entry, error) {
	if i < 0 || i >= len(idx.entries) {
		return Entry{}, fmt.Errorf("entry %d out of range [0,%d)", i, len(idx.entries))
	}
	return idx.entries[i], nil
}

// Entries returns a copy of the indexed corpus.
func (idx *Index) Entries() []Entry {
	return append([]Entry(nil), idx.entries...)
}
