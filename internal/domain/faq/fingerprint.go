package faq

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Fingerprint hashes the ordered corpus content. Any edit to a question, an answer
// or the row order yields a different value.
func Fingerprint(entries []Entry) string {
	h := sha256.New()
	for _, e := range entries {
		fmt.Fprintf(h, "%d:%s%d:%s", len(e.Question), e.Question, len(e.Answer), e.Answer)
	}
	return hex.EncodeToString(h.Sum(nil))
}
