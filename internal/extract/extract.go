package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"idea-analyzer/internal/shared/metrics"
	"idea-analyzer/internal/shared/telemetry"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DefaultMaxEntryBytes caps how far a single PPTX/DOCX part may inflate.
const DefaultMaxEntryBytes int64 = 64 << 20

// Extractor turns documents into text. The zero value uses DefaultMaxEntryBytes.
type Extractor struct {
	// MaxEntryBytes bounds the decompressed size of each archive part read.
	MaxEntryBytes int64
}

func (e Extractor) entryLimit() int64 {
	if e.MaxEntryBytes > 0 {
		return e.MaxEntryBytes
	}
	return DefaultMaxEntryBytes
}

// Result is best-effort extracted text plus anything that went wrong along the way.
// Text may be partial when Warnings is non-empty.
type Result struct {
	Text     string
	Warnings []string
}

// HasText reports whether the result carries non-whitespace text.
func (r Result) HasText() bool {
	return strings.TrimSpace(r.Text) != ""
}

func (r *Result) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// ExtractFile extracts with a default Extractor.
func ExtractFile(ctx context.Context, path string, kind Kind) Result {
	return Extractor{}.File(ctx, path, kind)
}

// ExtractBytes extracts with a default Extractor.
func ExtractBytes(ctx context.Context, data []byte, kind Kind) Result {
	return Extractor{}.Bytes(ctx, data, kind)
}

// File reads path and extracts its text. It never fails: read and parse problems are
// reported through Result.Warnings and logged.
func (e Extractor) File(ctx context.Context, path string, kind Kind) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		res := Result{}
		res.warn("read %s: %v", kind, err)
		logWarnings(kind, res)
		return res
	}
	return e.Bytes(ctx, data, kind)
}

// Bytes extracts text from an in-memory payload.
func (e Extractor) Bytes(ctx context.Context, data []byte, kind Kind) Result {
	var res Result
	if err := ctx.Err(); err != nil {
		res.warn("extract %s: %v", kind, err)
		return res
	}

	switch kind {
	case KindPDF:
		res = extractPDF(data)
	case KindSlides:
		res = extractSlides(data, e.entryLimit())
	case KindDocument:
		res = extractDocument(data, e.entryLimit())
	case KindPlainText:
		res = extractPlainText(data)
	default:
		res.warn("%v: %s", ErrUnsupportedKind, kind)
	}

	logWarnings(kind, res)
	return res
}

func extractPlainText(data []byte) Result {
	var res Result
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		res.warn("plain text is not valid UTF-8")
		return res
	}
	res.Text = string(data)
	return res
}

func logWarnings(kind Kind, res Result) {
	if len(res.Warnings) == 0 {
		return
	}
	metrics.AddExtractWarnings(string(kind), len(res.Warnings))
	telemetry.Warn("extract.partial", map[string]any{
		"kind":       string(kind),
		"warnings":   res.Warnings,
		"text_chars": utf8.RuneCountInString(res.Text),
	})
}
