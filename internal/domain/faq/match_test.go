package faq

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchConcreteScenario(t *testing.T) {
	idx, err := BuildIndex(sampleEntries())
	require.NoError(t, err)

	fee := Match("what's the fee", idx, DefaultThreshold)
	require.True(t, fee.Matched)
	require.Equal(t, "The fee is 50000 per year.", fee.Answer)
	require.Equal(t, 0, fee.Index)
	require.Greater(t, fee.Score, 0.9)

	joke := Match("tell me a joke", idx, DefaultThreshold)
	require.False(t, joke.Matched)
	require.Empty(t, joke.Answer)
}

func TestMatchSelfMatch(t *testing.T) {
	entries := []Entry{
		{Question: "What is the fee?", Answer: "A0"},
		{Question: "Where is the campus?", Answer: "A1"},
		{Question: "Is hostel facility available for girls?", Answer: "A2"},
		{Question: "Which courses are offered?", Answer: "A3"},
		{Question: "How do I apply for admission?", Answer: "A4"},
	}
	idx, err := BuildIndex(entries)
	require.NoError(t, err)

	for i, e := range entries {
		res := Match(normalizeQuestion(e.Question), idx, DefaultThreshold)
		require.True(t, res.Matched, "entry %d", i)
		require.Equal(t, e.Answer, res.Answer)
		require.Equal(t, i, res.Index)
		require.Less(t, math.Abs(res.Score-1.0), 1e-6)
	}
}

func TestMatchTieBreaksToLowestIndex(t *testing.T) {
	idx, err := BuildIndex([]Entry{
		{Question: "Where is the library?", Answer: "unrelated"},
		{Question: "How do I apply?", Answer: "first"},
		{Question: "  HOW DO I APPLY?  ", Answer: "second"},
	})
	require.NoError(t, err)

	for _, query := range []string{"How do I apply?", "  HOW DO I APPLY?  "} {
		res := Match(query, idx, DefaultThreshold)
		require.True(t, res.Matched)
		require.Equal(t, "first", res.Answer)
		require.Equal(t, 1, res.Index)
	}
}

func TestMatchUnknownTerms(t *testing.T) {
	idx, err := BuildIndex(sampleEntries())
	require.NoError(t, err)

	res := Match("zebra xylophone quantum", idx, DefaultThreshold)
	require.False(t, res.Matched)
	require.Equal(t, 0.0, res.Score)
	require.False(t, math.IsNaN(res.Score))

	empty := Match("   ", idx, DefaultThreshold)
	require.False(t, empty.Matched)
	require.Equal(t, 0.0, empty.Score)
}

func TestMatchZeroDocumentVectors(t *testing.T) {
	idx, err := BuildIndex([]Entry{{Question: "?", Answer: "a"}, {Question: "!", Answer: "b"}})
	require.NoError(t, err)
	require.Equal(t, 0, idx.VocabularySize())

	res := Match("anything at all", idx, DefaultThreshold)
	require.False(t, res.Matched)
	require.Equal(t, 0.0, res.Score)
	require.Equal(t, 0, res.Index)
}

// thresholdIndex holds one document whose unit vector is (cos, sin) over the terms
// alpha and beta, so the query "alpha" scores exactly cos against it.
func thresholdIndex(cos float64) *Index {
	sin := math.Sqrt(1 - cos*cos)
	entries := []Entry{{Question: "alpha beta", Answer: "boundary"}}
	return &Index{
		vocabulary:  map[string]int{"alpha": 0, "beta": 1},
		terms:       []string{"alpha", "beta"},
		idf:         []float64{1, 1},
		vectors:     []sparseVector{{cols: []int{0, 1}, vals: []float64{cos, sin}}},
		entries:     entries,
		fingerprint: Fingerprint(entries),
	}
}

func TestMatchThresholdBoundary(t *testing.T) {
	at := Match("alpha", thresholdIndex(0.6), 0.6)
	require.Equal(t, 0.6, at.Score)
	require.True(t, at.Matched)
	require.Equal(t, "boundary", at.Answer)

	below := Match("alpha", thresholdIndex(0.5999), 0.6)
	require.Equal(t, 0.5999, below.Score)
	require.False(t, below.Matched)
	require.Empty(t, below.Answer)
}

func TestMatchDeterministic(t *testing.T) {
	idx, err := BuildIndex(sampleEntries())
	require.NoError(t, err)

	first := Match("where is campus", idx, DefaultThreshold)
	for i := 0; i < 20; i++ {
		require.Equal(t, first, Match("where is campus", idx, DefaultThreshold))
	}
}

func TestMatchNilIndex(t *testing.T) {
	res := Match("fee", nil, DefaultThreshold)
	require.False(t, res.Matched)
	require.Equal(t, -1, res.Index)
}

func TestMatchSharedIndexAcrossGoroutines(t *testing.T) {
	idx, err := BuildIndex(sampleEntries())
	require.NoError(t, err)

	const workers, calls = 32, 200
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures []MatchResult
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			query, want := "what's the fee", "The fee is 50000 per year."
			if w%2 == 1 {
				query, want = "where is the campus", "The campus is in Virudhunagar."
			}
			for i := 0; i < calls; i++ {
				got := Match(query, idx, DefaultThreshold)
				if !got.Matched || got.Answer != want {
					mu.Lock()
					failures = append(failures, got)
					mu.Unlock()
				}
			}
		}(w)
	}
	wg.Wait()

	require.Empty(t, failures)
}
