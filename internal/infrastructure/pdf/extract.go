// Package pdf extracts plain text from specification-sheet PDFs.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoText is returned when a PDF yields no extractable text, which usually
// means it is a scanned image.
var ErrNoText = errors.New("no extractable text in pdf")

// ExtractText returns the concatenated text of every page in the PDF at path
func ExtractText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()
	return readAll(r)
}

// ExtractTextFromBytes extracts text from an in-memory PDF
func ExtractTextFromBytes(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}
	return readAll(r)
}

func readAll(r *pdf.Reader) (string, error) {
	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// skip pages with broken content streams
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", ErrNoText
	}
	return out, nil
}
