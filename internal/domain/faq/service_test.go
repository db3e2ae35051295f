package faq

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/faq-matcher/pkg/errors"
)

type stubStore struct {
	increments []string
	top        []TrendingQuery
	incErr     error
	topErr     error
	lastLimit  int
}

func (s *stubStore) IncrementQuery(_ context.Context, canonical, _ string) error {
	s.increments = append(s.increments, canonical)
	return s.incErr
}

func (s *stubStore) TopQueries(_ context.Context, limit int) ([]TrendingQuery, error) {
	s.lastLimit = limit
	return s.top, s.topErr
}

func newTestService(t *testing.T, store Store) Service {
	t.Helper()
	idx, err := BuildIndex(sampleEntries())
	require.NoError(t, err)
	return NewService(Config{TopRecommendations: 3}, idx, store, newTestLogger())
}

func TestServiceMatchReturnsAnswer(t *testing.T) {
	store := &stubStore{top: []TrendingQuery{{Query: "What is the fee?", Count: 4}}}
	svc := newTestService(t, store)

	resp, err := svc.Match(context.Background(), Request{Question: "  what's the fee  "})
	require.NoError(t, err)
	require.True(t, resp.Matched)
	require.Equal(t, "what's the fee", resp.Question)
	require.Equal(t, "The fee is 50000 per year.", resp.Answer)
	require.Equal(t, "What is the fee?", resp.MatchedQuestion)
	require.Empty(t, resp.Fallback)
	require.Equal(t, []string{"what is the fee?"}, store.increments)
	require.Equal(t, store.top, resp.Recommendations)
	require.Equal(t, 3, store.lastLimit)
}

func TestServiceMatchFallsBackBelowThreshold(t *testing.T) {
	store := &stubStore{}
	svc := newTestService(t, store)

	resp, err := svc.Match(context.Background(), Request{Question: "tell me a joke"})
	require.NoError(t, err)
	require.False(t, resp.Matched)
	require.Empty(t, resp.Answer)
	require.Equal(t, DefaultFallbackMessage, resp.Fallback)
	require.Empty(t, store.increments)
}

func TestServiceMatchRejectsEmptyQuestion(t *testing.T) {
	svc := newTestService(t, &stubStore{})

	_, err := svc.Match(context.Background(), Request{Question: "   "})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestServiceMatchToleratesStoreFailures(t *testing.T) {
	store := &stubStore{incErr: errors.New("valkey down"), topErr: errors.New("valkey down")}
	svc := newTestService(t, store)

	resp, err := svc.Match(context.Background(), Request{Question: "where is the campus"})
	require.NoError(t, err)
	require.True(t, resp.Matched)
	require.Nil(t, resp.Recommendations)
}

func TestServiceTrendingWrapsErrors(t *testing.T) {
	svc := newTestService(t, &stubStore{topErr: errors.New("boom")})

	_, err := svc.Trending(context.Background())
	require.True(t, apperrors.IsCode(err, apperrors.CodeFAQError))
}

func TestServiceStats(t *testing.T) {
	svc := newTestService(t, &stubStore{})

	stats := svc.Stats(context.Background())
	require.Equal(t, 2, stats.Entries)
	require.Equal(t, 6, stats.VocabularySize)
	require.Equal(t, Fingerprint(sampleEntries()), stats.Fingerprint)
	require.Equal(t, DefaultThreshold, stats.Threshold)
}

func TestServiceStatsCountsLookups(t *testing.T) {
	svc := newTestService(t, &stubStore{})

	_, err := svc.Match(context.Background(), Request{Question: "what's the fee"})
	require.NoError(t, err)
	_, err = svc.Match(context.Background(), Request{Question: "tell me a joke"})
	require.NoError(t, err)
	_, err = svc.Match(context.Background(), Request{Question: "   "})
	require.Error(t, err)

	usage := svc.Stats(context.Background()).Usage
	require.EqualValues(t, 2, usage.Queries)
	require.EqualValues(t, 1, usage.Matched)
	require.EqualValues(t, 1, usage.Unmatched)
}
