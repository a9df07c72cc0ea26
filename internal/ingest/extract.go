package ingest

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// UnsupportedFormatText is recorded as the resume body when the file
// extension is not one of the supported document types.
const UnsupportedFormatText = "Unsupported format"

var docxTagPattern = regexp.MustCompile(`<[^>]+>`)

// ExtractText returns the plain text of a resume document. It never
// fails: unsupported extensions and unreadable documents degrade to
// sentinel text so a single bad file cannot abort a batch.
func ExtractText(fileName string, data []byte) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))

	var (
		text string
		err  error
	)

	switch ext {
	case "pdf":
		text, err = extractPDF(data)
	case "docx":
		text, err = extractDOCX(data)
	default:
		return UnsupportedFormatText
	}

	if err != nil {
		return fmt.Sprintf("Error reading %s file", strings.ToUpper(ext))
	}

	return text
}

func extractPDF(data []byte) (text string, err error) {
	// The pdf package panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parsing pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}

	var builder strings.Builder
	for pageIndex := 1; pageIndex <= reader.NumPage(); pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		builder.WriteString(pageText)
		builder.WriteString("\n")
	}

	text = strings.TrimSpace(builder.String())
	if text == "" {
		return "", fmt.Errorf("no text content found in pdf")
	}

	return text, nil
}

func extractDOCX(data []byte) (string, error) {
	reader, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening docx: %w", err)
	}
	defer reader.Close()

	content := reader.Editable().GetContent()

	// The raw content is WordprocessingML. Paragraph boundaries become
	// newlines before the markup is stripped.
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	content = docxTagPattern.ReplaceAllString(content, "")

	text := strings.TrimSpace(content)
	if text == "" {
		return "", fmt.Errorf("no text content found in docx")
	}

	return text, nil
}
