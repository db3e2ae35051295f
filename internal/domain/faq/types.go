package faq

import "github.com/yanqian/faq-matcher/pkg/metrics"

// Entry is a single question/answer pair. Its identity is its position in the corpus.
type Entry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Corpus is the ordered result of reading a tabular FAQ source.
type Corpus struct {
	Entries []Entry
	// Skipped counts rows dropped because the question or answer was empty.
	Skipped int
	Source  string
}

// MatchResult is the outcome of a single lookup against an Index.
type MatchResult struct {
	Matched bool
	Answer  string
	Score   float64
	// Index is the position of the best scoring entry, or -1 for an empty index.
	Index int
}

// Request encapsulates a FAQ match query.
type Request struct {
	Question string `json:"question"`
}

// Response is returned to the HTTP transport.
type Response struct {
	Question        string          `json:"question"`
	Matched         bool            `json:"matched"`
	Answer          string          `json:"answer,omitempty"`
	Score           float64         `json:"score"`
	MatchedQuestion string          `json:"matchedQuestion,omitempty"`
	Fallback        string          `json:"fallback,omitempty"`
	Recommendations []TrendingQuery `json:"recommendations"`
}

// TrendingQuery represents a frequently matched question.
type TrendingQuery struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// Stats describes the loaded index.
type Stats struct {
	Entries        int                `json:"entries"`
	VocabularySize int                `json:"vocabularySize"`
	Fingerprint    string             `json:"fingerprint"`
	Threshold      float64            `json:"threshold"`
	Usage          metrics.MatchUsage `json:"usage"`
}
