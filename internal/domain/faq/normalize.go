package faq

import (
	"strings"
	"unicode"
)

func normalizeQuestion(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// tokenize splits normalized text into terms of two or more word characters.
// Everything that is not a letter, digit or underscore separates terms.
func tokenize(text string) []string {
	var (
		tokens []string
		start  = -1
		runes  int
	)
	flush := func(end int) {
		if start >= 0 && runes >= 2 {
			tokens = append(tokens, text[start:end])
		}
		start = -1
		runes = 0
	}
	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			runes++
			continue
		}
		flush(i)
	}
	flush(len(text))
	return tokens
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
