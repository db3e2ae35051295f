package faq

import "errors"

var (
	// ErrCorpusNotFound means the corpus source does not exist.
	ErrCorpusNotFound = errors.New("faq corpus not found")
	// ErrCorpusMalformed means the source lacks the Question/Answer columns or cannot be parsed.
	ErrCorpusMalformed = errors.New("faq corpus malformed")
	// ErrEmptyCorpus means there are no usable entries to index.
	ErrEmptyCorpus = errors.New("faq corpus is empty")
	// ErrCacheCorrupt means a persisted index bundle could not be decoded.
	ErrCacheCorrupt = errors.New("faq index cache corrupt")
)
