// Package resume extracts plain text from uploaded resume documents.
package resume

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Supported content types.
const (
	ContentTypePDF      = "application/pdf"
	ContentTypeDOCX     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ContentTypeText     = "text/plain"
	ContentTypeMarkdown = "text/markdown"
)

var (
	// ErrUnsupportedType is returned for documents that are not PDF, DOCX or text.
	ErrUnsupportedType = errors.New("unsupported resume type")
	// ErrEmptyText is returned when a document contains no extractable text.
	ErrEmptyText = errors.New("resume contains no extractable text")
	// ErrUnreadable is returned when a PDF or DOCX document cannot be parsed.
	ErrUnreadable = errors.New("resume document is unreadable")
)

var extensionTypes = map[string]string{
	".pdf":  ContentTypePDF,
	".docx": ContentTypeDOCX,
	".txt":  ContentTypeText,
	".md":   ContentTypeMarkdown,
}

// ContentTypeFor returns the content type for a file name based on its extension.
func ContentTypeFor(name string) (string, bool) {
	ct, ok := extensionTypes[strings.ToLower(filepath.Ext(name))]
	return ct, ok
}

// ExtractFile reads the file at path and extracts its text, choosing the parser from the extension.
func ExtractFile(path string) (string, error) {
	contentType, ok := ContentTypeFor(path)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read resume file: %w", err)
	}

	return Extract(contentType, data)
}

// Extract returns the trimmed text of a document. contentType may carry parameters
// such as a charset.
func Extract(contentType string, data []byte) (string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}

	var text string
	switch mediaType {
	case ContentTypePDF:
		text, err = extractPDF(data)
	case ContentTypeDOCX:
		text, err = extractDOCX(data)
	case ContentTypeText, ContentTypeMarkdown:
		text = string(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	return text, nil
}

// extractPDF joins the plain text of every page with newlines.
func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w: %w", ErrUnreadable, err)
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read pdf page %d: %w: %w", i, ErrUnreadable, err)
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n"), nil
}

// extractDOCX reads word/document.xml and returns its runs, one paragraph per line.
func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read docx: %w: %w", ErrUnreadable, err)
	}
	defer func() { _ = doc.Close() }()

	return documentText(doc.Editable().GetContent())
}

// documentText walks WordprocessingML, keeping w:t text, mapping w:tab and w:br
// to whitespace and ending a line at each w:p.
func documentText(content string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(content))

	var sb strings.Builder
	inText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse docx content: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}
