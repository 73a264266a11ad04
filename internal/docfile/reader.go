package docfile

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

var extraneousWhitespace = regexp.MustCompile(`\s+`)

// PageCount returns the number of pages in the PDF at path.
func PageCount(path string) (int, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	defer file.Close()
	return reader.NumPage(), nil
}

// PageText extracts the plain text of one page, 1-based. Pages outside the
// document report an error rather than clamping so the caller can tell a
// bad citation from an empty page.
func PageText(path string, page int) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer file.Close()

	if page < 1 || page > reader.NumPage() {
		return "", fmt.Errorf("page %d out of range (document has %d pages)", page, reader.NumPage())
	}
	p := reader.Page(page)
	if p.V.IsNull() {
		return "", nil
	}
	text, err := p.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("extract page %d: %w", page, err)
	}
	return strings.TrimSpace(extraneousWhitespace.ReplaceAllString(text, " ")), nil
}

// FullText extracts the whole document as one normalized string.
func FullText(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer file.Close()

	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	var builder strings.Builder
	if _, err := io.Copy(&builder, content); err != nil {
		return "", err
	}
	return strings.TrimSpace(extraneousWhitespace.ReplaceAllString(builder.String(), " ")), nil
}
