// Package ingestion turns uploaded resume and job description files into plain text.
package ingestion

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	pdf "github.com/ledongthuc/pdf"
)

// Kind is a supported document type.
type Kind string

const (
	KindPDF     Kind = "PDF"
	KindDOCX    Kind = "DOCX"
	KindHTML    Kind = "HTML"
	KindText    Kind = "text"
	KindUnknown Kind = "file"
)

// ErrUnsupportedFormat is returned for binary formats that cannot be read.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ExtractionError records which document kind failed to extract.
type ExtractionError struct {
	Kind  Kind
	Cause error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("Error reading %s: %v", e.Kind, e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// Extract returns the cleaned text of a document. Failures do not stop a screening
// run: the descriptive failure message (for example "Error reading PDF: ...") is
// returned in place of the text and scores near zero downstream.
func Extract(filename string, data []byte) string {
	text, err := ExtractText(filename, data)
	if err != nil {
		return err.Error()
	}
	return text
}

// ExtractText returns the cleaned text of a document, choosing a reader by file
// extension and falling back to content sniffing.
func ExtractText(filename string, data []byte) (string, error) {
	kind, err := DetectKind(filename, data)
	if err != nil {
		return "", &ExtractionError{Kind: KindUnknown, Cause: err}
	}

	var text string
	switch kind {
	case KindPDF:
		text, err = extractPDF(data)
	case KindDOCX:
		text, err = extractDOCX(data)
	case KindHTML:
		text, err = extractHTML(data)
	default:
		text = string(data)
	}
	if err != nil {
		return "", &ExtractionError{Kind: kind, Cause: err}
	}

	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}
	return CleanText(text), nil
}

// IsFailure reports whether text is an extraction failure message produced by Extract.
func IsFailure(text string) bool {
	return strings.HasPrefix(text, "Error reading ")
}

// DetectKind classifies a document by extension, then by sniffing its content.
func DetectKind(filename string, data []byte) (Kind, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return KindPDF, nil
	case ".docx":
		return KindDOCX, nil
	case ".html", ".htm":
		return KindHTML, nil
	case ".txt", ".md", ".text":
		return KindText, nil
	}

	contentType := http.DetectContentType(data)
	switch {
	case strings.HasPrefix(contentType, "application/pdf"):
		return KindPDF, nil
	case strings.HasPrefix(contentType, "text/html"):
		return KindHTML, nil
	case strings.HasPrefix(contentType, "application/zip"):
		return KindDOCX, nil
	case strings.HasPrefix(contentType, "text/"):
		return KindText, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, contentType)
	}
}

func extractPDF(data []byte) (text string, err error) {
	// The PDF reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	rs, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rs); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		defer func() { _ = rc.Close() }()
		return docxText(rc)
	}
	return "", errors.New("no word/document.xml found in docx")
}

// docxText walks WordprocessingML, keeping run text and turning paragraphs,
// breaks and tabs into whitespace.
func docxText(r io.Reader) (string, error) {
	var sb strings.Builder
	decoder := xml.NewDecoder(r)
	inText := false
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("invalid document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
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

// extractHTML drops page chrome and converts the remaining markup to Markdown,
// which keeps headings and bullet lists that CleanText preserves.
func extractHTML(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find("script, style, noscript, nav, footer, iframe, svg").Remove()

	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}
	markup, err := body.Html()
	if err != nil {
		return body.Text(), nil
	}

	md, err := htmltomarkdown.ConvertString(markup)
	if err != nil {
		return body.Text(), nil
	}
	return md, nil
}
