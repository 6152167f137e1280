package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPDFJoinsPagesInOrder(t *testing.T) {
	path := writeFile(t, "resume.pdf", buildPDF("Experience: LLM fine-tuning at X", "Skills: Go PyTorch"))

	text, err := New(path).Extract(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, strings.TrimSpace(text))
	first := strings.Index(text, "LLM fine-tuning at X")
	second := strings.Index(text, "Go PyTorch")
	require.GreaterOrEqual(t, first, 0, "first page text missing: %q", text)
	require.Greater(t, second, first, "pages out of order: %q", text)
	assert.Contains(t, text[first:second], "\n")
}

func TestExtractMissingFile(t *testing.T) {
	ex := New(filepath.Join(t.TempDir(), "missing.pdf"))

	_, err := ex.Extract(context.Background())
	var accessErr *FileAccessError
	require.ErrorAs(t, err, &accessErr)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	require.ErrorAs(t, ex.Check(), &accessErr)
}

func TestCheckRejectsDirectory(t *testing.T) {
	var accessErr *FileAccessError
	require.ErrorAs(t, New(t.TempDir()).Check(), &accessErr)
}

func TestExtractGarbageIsParseError(t *testing.T) {
	path := writeFile(t, "resume.pdf", []byte(strings.Repeat("definitely not a pdf ", 20)))

	_, err := New(path).Extract(context.Background())
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, path, parseErr.Path)
}

func TestExtractDOCX(t *testing.T) {
	path := writeFile(t, "resume.docx", buildDOCX(t, "Jane Doe", "Built RAG pipelines with LangChain"))

	text, err := New(path).Extract(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nBuilt RAG pipelines with LangChain", text)
}

func TestExtractCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New("unused.pdf").Extract(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

// buildPDF renders a minimal PDF with one Helvetica text line per page.
func buildPDF(pages ...string) []byte {
	var objects []string
	n := len(pages)
	// 1 catalog, 2 pages, 3 font, then (page, content) pairs.
	kids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		kids = append(kids, fmt.Sprintf("%d 0 R", 4+2*i))
	}
	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)
	for i, text := range pages {
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func buildDOCX(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var body strings.Builder
	for _, p := range paragraphs {
		fmt.Fprintf(&body, "<w:p><w:r><w:t>%s</w:t></w:r></w:p>", p)
	}
	document := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body.String() + `</w:body></w:document>`
	rels := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"word/document.xml":            document,
		"word/_rels/document.xml.rels": rels,
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
