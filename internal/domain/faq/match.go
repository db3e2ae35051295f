package faq

// Match returns the answer of the corpus entry closest to query, provided its cosine
// similarity reaches threshold. Ties resolve to the lowest entry index. Match never fails:
// a query with no known terms scores 0 and is reported as unmatched.
func Match(query string, idx *Index, threshold float64) MatchResult {
	if idx == nil || len(idx.vectors) == 0 {
		return MatchResult{Index: -1}
	}

	q := idx.project(tokenize(normalizeQuestion(query)))

	best := 0
	bestScore := q.dot(idx.vectors[0])
	for i := 1; i < len(idx.vectors); i++ {
		// strict comparison keeps the first maximum
		if score := q.dot(idx.vectors[i]); score > bestScore {
			best = i
			bestScore = score
		}
	}

	if bestScore >= threshold {
		return MatchResult{Matched: true, Answer: idx.entries[best].Answer, Score: bestScore, Index: best}
	}
	return MatchResult{Score: bestScore, Index: best}
}
