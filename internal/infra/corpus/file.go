package corpus

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/yanqian/faq-matcher/internal/domain/faq"
)

// FileSource reads a corpus from a CSV, TSV or XLSX file chosen by extension.
type FileSource struct {
	path  string
	sheet string
}

// NewFileSource constructs a file backed corpus source. sheet selects the XLSX
// worksheet and defaults to the first one.
func NewFileSource(path, sheet string) *FileSource {
	return &FileSource{path: path, sheet: sheet}
}

// Load implements faq.CorpusSource.
func (s *FileSource) Load(_ context.Context) (faq.Corpus, error) {
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return faq.Corpus{}, fmt.Errorf("%w: %s", faq.ErrCorpusNotFound, s.path)
		}
		return faq.Corpus{}, fmt.Errorf("stat corpus: %w", err)
	}

	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".xlsx", ".xlsm":
		return readWorkbook(s.path, s.sheet)
	case ".tsv":
		return s.readDelimited('\t')
	default:
		return s.readDelimited(',')
	}
}

func (s *FileSource) readDelimited(comma rune) (faq.Corpus, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return faq.Corpus{}, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = comma
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return faq.Corpus{}, fmt.Errorf("%w: %s: missing header row", faq.ErrCorpusMalformed, s.path)
		}
		return faq.Corpus{}, fmt.Errorf("%w: %s: %v", faq.ErrCorpusMalformed, s.path, err)
	}
	rows, err := reader.ReadAll()
	if err != nil {
		return faq.Corpus{}, fmt.Errorf("%w: %s: %v", faq.ErrCorpusMalformed, s.path, err)
	}
	return entriesFromRows(s.path, header, rows)
}

var _ faq.CorpusSource = (*FileSource)(nil)
