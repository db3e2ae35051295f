package faq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// CorpusSource reads the tabular FAQ corpus.
type CorpusSource interface {
	Load(ctx context.Context) (Corpus, error)
}

// IndexStore persists encoded index bundles keyed by corpus fingerprint.
// Load reports found=false when nothing is stored under key.
type IndexStore interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, payload []byte) error
}

// LoadOrBuild reads the corpus, returns the cached index when one exists for the
// corpus fingerprint, and otherwise builds the index and persists it. Cache problems
// are logged and never fail the call; corpus problems do.
func LoadOrBuild(ctx context.Context, source CorpusSource, store IndexStore, logger *slog.Logger) (*Index, error) {
	logger = logger.With("component", "faq.loader")

	corpus, err := source.Load(ctx)
	if err != nil {
		return nil, err
	}
	if corpus.Skipped > 0 {
		logger.Warn("faq corpus rows skipped", "source", corpus.Source, "skipped", corpus.Skipped)
	}
	if len(corpus.Entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyCorpus, corpus.Source)
	}

	fingerprint := Fingerprint(corpus.Entries)
	if idx, ok := loadCached(ctx, store, fingerprint, logger); ok {
		logger.Info("faq index loaded from cache", "fingerprint", fingerprint, "entries", idx.Len())
		return idx, nil
	}

	idx, err := BuildIndex(corpus.Entries)
	if err != nil {
		return nil, err
	}
	logger.Info("faq index built", "fingerprint", fingerprint, "entries", idx.Len(), "vocabulary", idx.VocabularySize())

	payload, err := EncodeIndex(idx)
	if err != nil {
		logger.Warn("faq index encode failed", "error", err)
		return idx, nil
	}
	if err := store.Save(ctx, fingerprint, payload); err != nil {
		logger.Warn("faq index cache save failed", "error", err)
	}
	return idx, nil
}

func loadCached(ctx context.Context, store IndexStore, fingerprint string, logger *slog.Logger) (*Index, bool) {
	payload, found, err := store.Load(ctx, fingerprint)
	if err != nil {
		logger.Warn("faq index cache lookup failed", "error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}
	idx, err := DecodeIndex(payload)
	if err != nil {
		if errors.Is(err, ErrCacheCorrupt) {
			logger.Warn("faq index cache corrupt, rebuilding", "error", err)
		} else {
			logger.Warn("faq index cache unreadable, rebuilding", "error", err)
		}
		return nil, false
	}
	if idx.Fingerprint() != fingerprint {
		logger.Warn("faq index cache stale, rebuilding", "cached", idx.Fingerprint(), "current", fingerprint)
		return nil, false
	}
	return idx, true
}
