package corpus

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/yanqian/faq-matcher/internal/domain/faq"
)

func readWorkbook(path, sheet string) (faq.Corpus, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return faq.Corpus{}, fmt.Errorf("%w: %s: %v", faq.ErrCorpusMalformed, path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return faq.Corpus{}, fmt.Errorf("%w: %s: workbook has no sheets", faq.ErrCorpusMalformed, path)
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return faq.Corpus{}, fmt.Errorf("%w: %s: sheet %q: %v", faq.ErrCorpusMalformed, path, sheet, err)
	}
	if len(rows) == 0 {
		return faq.Corpus{}, fmt.Errorf("%w: %s: sheet %q is empty", faq.ErrCorpusMalformed, path, sheet)
	}
	return entriesFromRows(path+"#"+sheet, rows[0], rows[1:])
}
