// Package cv turns an uploaded CV document into plain text for prompting.
package cv

import (
	"bytes"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/mkarvonen/prepdeck/internal/errors"
)

var (
	// ErrNotPDF marks uploads that are not PDF documents.
	ErrNotPDF = errors.NewSentinel("upload is not a PDF document")
	// ErrNoText marks documents from which no text could be extracted, for
	// example scanned image-only PDFs.
	ErrNoText = errors.NewSentinel("no text in document")
)

// pdfMagic is the header every PDF file starts with.
var pdfMagic = []byte("%PDF-")

// ExtractText reads the PDF at path and returns its plain text contents.
func ExtractText(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", errors.Wrap(errors.Join(ErrNotPDF, err), "open pdf", slog.String("path", path))
	}
	defer f.Close()

	plainText, err := reader.GetPlainText()
	if err != nil {
		return "", errors.Wrap(err, "extract pdf text", slog.String("path", path))
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plainText); err != nil {
		return "", errors.Wrap(err, "read pdf text", slog.String("path", path))
	}

	text := strings.TrimSpace(buf.String())
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

// SniffPDF reports whether the byte prefix looks like a PDF file. Browsers
// lie about content types, so uploads are checked against the magic bytes.
func SniffPDF(prefix []byte) bool {
	return bytes.HasPrefix(prefix, pdfMagic)
}
