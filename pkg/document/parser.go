package document

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"html"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format: only pdf and docx are allowed")
	ErrNoDocumentXML     = errors.New("no document.xml found in docx")
)

var (
	reTags    = regexp.MustCompile(`<[^>]+>`)
	reSpaces  = regexp.MustCompile(`[ \t\r\f\v]+`)
	reNewline = regexp.MustCompile(`\n+`)
)

// allowed maps supported extensions (without dot) to their text extractors.
var allowed = map[string]func([]byte) (string, error){
	"pdf":  extractTextFromPDF,
	"docx": extractTextFromDocx,
}

// Extension returns the lowercase extension of filename without the dot and
// whether it is a supported document type.
func Extension(filename string) (string, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	_, ok := allowed[ext]
	return ext, ok
}

// ParseText extracts plain text from supported formats (.pdf and .docx).
func ParseText(filename string, data []byte) (string, error) {
	ext, ok := Extension(filename)
	if !ok {
		return "", ErrUnsupportedFormat
	}
	return allowed[ext](data)
}

func extractTextFromPDF(data []byte) (text string, err error) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("malformed pdf: %v", r)
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
	if _, err = io.Copy(&buf, rs); err != nil {
		return "", err
	}
	return normalizeWhitespace(buf.String()), nil
}

func extractTextFromDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var docXML []byte
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		docXML, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", err
		}
		break
	}
	if len(docXML) == 0 {
		return "", ErrNoDocumentXML
	}
	xml := string(docXML)
	// Paragraph boundaries become newlines, tabs stay tabs.
	xml = strings.ReplaceAll(xml, "</w:p>", "\n")
	xml = strings.ReplaceAll(xml, "<w:tab/>", "\t")
	txt := reTags.ReplaceAllString(xml, "")
	return normalizeWhitespace(html.UnescapeString(txt)), nil
}

func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\u00A0", " ")
	s = reSpaces.ReplaceAllString(s, " ")
	// Preserve newlines but collapse runs.
	s = reNewline.ReplaceAllString(s, "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
