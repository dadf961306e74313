package extract

import (
	"errors"
	"path/filepath"
	"strings"
)

// Kind identifies how a submitted document is turned into text.
type Kind string

const (
	KindPDF       Kind = "pdf"
	KindSlides    Kind = "slides"
	KindDocument  Kind = "document"
	KindPlainText Kind = "plain-text"
)

// ErrUnsupportedKind is returned for file extensions no extractor handles.
var ErrUnsupportedKind = errors.New("unsupported file type")

var kindByExt = map[string]Kind{
	".pdf":  KindPDF,
	".pptx": KindSlides,
	".docx": KindDocument,
	".txt":  KindPlainText,
	".md":   KindPlainText,
}

// KindFromFileName maps a file name's extension to its Kind.
func KindFromFileName(name string) (Kind, error) {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(name)))
	if kind, ok := kindByExt[ext]; ok {
		return kind, nil
	}
	return "", ErrUnsupportedKind
}

// SupportedExtensions lists accepted extensions, for display.
func SupportedExtensions() []string {
	return []string{".pdf", ".pptx", ".docx", ".txt", ".md"}
}
