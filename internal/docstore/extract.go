package docstore

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractText pulls plain text out of an uploaded document based on its
// file extension. Unknown types are rejected up front so the analyzer
// never sees content it cannot read.
func extractText(name string, content []byte) (text, mediaType string, err error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		text, err = pdfText(content)
		if err != nil {
			return "", "", fmt.Errorf("docstore: extracting text from %q: %w", name, err)
		}
		return text, "application/pdf", nil
	case ".txt":
		return string(content), "text/plain", nil
	case ".md":
		return string(content), "text/markdown", nil
	default:
		return "", "", fmt.Errorf("docstore: unsupported document type %q (expected .pdf, .txt, or .md)", name)
	}
}

func pdfText(content []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
