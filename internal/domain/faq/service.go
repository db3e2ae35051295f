package faq

import (
	"context"
	"log/slog"
	"strings"

	apperrors "github.com/yanqian/faq-matcher/pkg/errors"
	"github.com/yanqian/faq-matcher/pkg/metrics"
)

// Service exposes FAQ matching to transports.
type Service interface {
	Match(ctx context.Context, req Request) (Response, error)
	Trending(ctx context.Context) ([]TrendingQuery, error)
	Stats(ctx context.Context) Stats
}

type service struct {
	cfg    Config
	index  *Index
	store  Store
	usage  metrics.MatchCounters
	logger *slog.Logger
}

// NewService wires up the FAQ domain around a loaded index.
func NewService(cfg Config, index *Index, store Store, logger *slog.Logger) Service {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if strings.TrimSpace(cfg.FallbackMessage) == "" {
		cfg.FallbackMessage = DefaultFallbackMessage
	}
	return &service{
		cfg:    cfg,
		index:  index,
		store:  store,
		logger: logger.With("component", "faq.service"),
	}
}

func (s *service) Match(ctx context.Context, req Request) (Response, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "question cannot be empty", nil)
	}

	result := Match(question, s.index, s.cfg.Threshold)
	s.usage.Observe(result.Matched)
	resp := Response{
		Question: question,
		Matched:  result.Matched,
		Score:    result.Score,
	}

	if result.Matched {
		entry, err := s.index.Entry(result.Index)
		if err != nil {
			return Response{}, apperrors.Wrap(apperrors.CodeFAQError, "matched entry missing", err)
		}
		resp.Answer = result.Answer
		resp.MatchedQuestion = entry.Question
		if err := s.store.IncrementQuery(ctx, normalizeQuestion(entry.Question), entry.Question); err != nil {
			s.logger.Warn("faq trending increment failed", "error", err)
		}
	} else {
		resp.Fallback = s.cfg.FallbackMessage
	}
	s.logger.Debug("faq match", "matched", result.Matched, "score", result.Score, "entry", result.Index)

	recs, err := s.store.TopQueries(ctx, s.cfg.TopRecommendations)
	if err != nil {
		s.logger.Warn("faq trending fetch failed", "error", err)
		recs = nil
	}
	resp.Recommendations = recs
	return resp, nil
}

func (s *service) Trending(ctx context.Context) ([]TrendingQuery, error) {
	recs, err := s.store.TopQueries(ctx, s.cfg.TopRecommendations)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeFAQError, "failed to load trending queries", err)
	}
	return recs, nil
}

func (s *service) Stats(_ context.Context) Stats {
	return Stats{
		Entries:        s.index.Len(),
		VocabularySize: s.index.VocabularySize(),
		Fingerprint:    s.index.Fingerprint(),
		Threshold:      s.cfg.Threshold,
		Usage:          s.usage.Snapshot(),
	}
}
