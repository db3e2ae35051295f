package metrics

import "sync/atomic"

// MatchUsage summarizes how many lookups were answered from the corpus.
type MatchUsage struct {
	Queries   int64 `json:"queries"`
	Matched   int64 `json:"matched"`
	Unmatched int64 `json:"unmatched"`
}

// IsZero reports whether usage data is absent.
func (u MatchUsage) IsZero() bool {
	return u.Queries == 0 && u.Matched == 0 && u.Unmatched == 0
}

// MatchRate is the share of queries that cleared the threshold.
func (u MatchUsage) MatchRate() float64 {
	if u.Queries == 0 {
		return 0
	}
	return float64(u.Matched) / float64(u.Queries)
}

// MatchCounters tallies lookups; safe for concurrent use.
type MatchCounters struct {
	queries atomic.Int64
	matched atomic.Int64
}

// Observe records one lookup outcome.
func (c *MatchCounters) Observe(matched bool) {
	c.queries.Add(1)
	if matched {
		c.matched.Add(1)
	}
}

// Snapshot returns the current totals.
func (c *MatchCounters) Snapshot() MatchUsage {
	matched := c.matched.Load()
	queries := c.queries.Load()
	if queries < matched {
		queries = matched
	}
	return MatchUsage{Queries: queries, Matched: matched, Unmatched: queries - matched}
}
