package corpus

import (
	"fmt"
	"strings"

	"github.com/yanqian/faq-matcher/internal/domain/faq"
)

const (
	questionColumn = "question"
	answerColumn   = "answer"
)

// entriesFromRows maps a header row plus data rows onto FAQ entries. Rows with an
// empty question or answer are skipped and counted.
func entriesFromRows(source string, header []string, rows [][]string) (faq.Corpus, error) {
	qCol, aCol := -1, -1
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		switch {
		case name == questionColumn && qCol < 0:
			qCol = i
		case name == answerColumn && aCol < 0:
			aCol = i
		}
	}
	if qCol < 0 || aCol < 0 {
		return faq.Corpus{}, fmt.Errorf("%w: %s: header must contain Question and Answer columns, got %q", faq.ErrCorpusMalformed, source, header)
	}

	out := faq.Corpus{Source: source, Entries: make([]faq.Entry, 0, len(rows))}
	for _, row := range rows {
		question := strings.TrimSpace(cell(row, qCol))
		answer := strings.TrimSpace(cell(row, aCol))
		if question == "" || answer == "" {
			out.Skipped++
			continue
		}
		out.Entries = append(out.Entries, faq.Entry{Question: question, Answer: answer})
	}
	return out, nil
}

func cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return row[col]
}
