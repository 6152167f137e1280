package extract

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// FileAccessError reports a resume path that is missing or unreadable.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("resume file %s: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }

// ParseError reports a document whose content could not be decoded into text.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse resume %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Extractor reads the text of one fixed resume document.
type Extractor struct {
	path string
}

// New returns an Extractor for the document at path. PDF and DOCX are supported,
// chosen by file extension.
func New(path string) *Extractor {
	return &Extractor{path: path}
}

// Path returns the configured document path.
func (e *Extractor) Path() string {
	return e.path
}

// Check verifies the document exists and is a regular file without reading it.
func (e *Extractor) Check() error {
	info, err := os.Stat(e.path)
	if err != nil {
		return &FileAccessError{Path: e.path, Err: err}
	}
	if !info.Mode().IsRegular() {
		return &FileAccessError{Path: e.path, Err: errors.New("not a regular file")}
	}
	return nil
}

// Extract returns the text of every page in order, joined with newlines.
func (e *Extractor) Extract(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(e.path)
	if err != nil {
		return "", &FileAccessError{Path: e.path, Err: err}
	}

	var text string
	switch strings.ToLower(filepath.Ext(e.path)) {
	case ".docx":
		text, err = extractDOCX(data)
	default:
		text, err = extractPDF(data)
	}
	if err != nil {
		return "", &ParseError{Path: e.path, Err: err}
	}
	return text, nil
}

func extractPDF(data []byte) (text string, err error) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed pdf: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		plain, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, plain)
	}
	return strings.Join(pages, "\n"), nil
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	defer doc.Close()

	return stripDocxXML(doc.Editable().GetContent())
}

func stripDocxXML(raw string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("docx xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.Write(t)
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String()), nil
}
