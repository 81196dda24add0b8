// File: internal/services/documents/extractor.go
package documents

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// Extractor pulls plain text out of uploaded files.
type Extractor struct {
	logger Logger
}

func NewExtractor(logger Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract returns the text of a file with the given extension. doc and docx
// return ErrUnsupportedExtraction.
func (e *Extractor) Extract(ext string, data []byte) (string, error) {
	var (
		text string
		err  error
	)
	switch strings.ToLower(ext) {
	case "pdf":
		text, err = e.extractPDF(data)
	case "txt":
		text = extractPlain(data)
	default:
		return "", ErrUnsupportedExtraction
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}
	return text, nil
}

func (e *Extractor) extractPDF(data []byte) (text string, err error) {
	// The pdf package panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	total := reader.NumPage()
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := pageText(page)
		if err != nil {
			e.logger.Warn("skipping unreadable pdf page", "page", i, "error", err)
			continue
		}
		b.WriteString(pageText)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String()), nil
}

func pageText(page pdf.Page) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page panic: %v", r)
		}
	}()
	return page.GetPlainText(nil)
}

func extractPlain(data []byte) string {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), "�")
}
