package extract

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDF concatenates per-page plain text. The parser panics on some malformed
// inputs, so each stage is guarded and extraction stops at the first failure,
// keeping the pages read so far.
func extractPDF(data []byte) (res Result) {
	var buf strings.Builder
	defer func() {
		if rec := recover(); rec != nil {
			res.warn("pdf parser panic: %v", rec)
		}
		res.Text = buf.String()
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		res.warn("open pdf: %v", err)
		return res
	}

	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			res.warn("pdf page %d: %v", i, err)
			return res
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		buf.WriteString(text)
		buf.WriteString("\n")
	}
	return res
}
