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

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{path: "cv.txt", want: PlainText},
		{path: "/tmp/CV.PDF", want: PageDocument},
		{path: "resume.final.docx", want: RichText},
		{path: "resume.rtf", wantErr: true},
		{path: "resume.doc", wantErr: true},
		{path: "README", wantErr: true},
	}

	for _, tt := range tests {
		got, err := FormatOf(tt.path)
		if tt.wantErr {
			require.ErrorIs(t, err, ErrUnsupportedFormat, tt.path)
			continue
		}
		require.NoError(t, err, tt.path)
		require.Equal(t, tt.want, got, tt.path)
	}
}

func TestExtractPlainText(t *testing.T) {
	text := "Senior Go developer\n\nKubernetes, PostgreSQL — Ünïcode\n"
	path := writeFile(t, "resume.TXT", []byte(text))

	got, err := Extract(path)
	require.NoError(t, err)
	require.Equal(t, text, got)
}

func TestExtractEmptyPlainText(t *testing.T) {
	got, err := Extract(writeFile(t, "empty.txt", nil))
	require.NoError(t, err)
	require.Equal(t, "", got)
}

func TestExtractInvalidUTF8(t *testing.T) {
	_, err := Extract(writeFile(t, "latin1.txt", []byte{'c', 'a', 'f', 0xe9}))
	require.ErrorIs(t, err, ErrDecode)
}

func TestExtractMissingFile(t *testing.T) {
	_, err := Extract(filepath.Join(t.TempDir(), "nope.txt"))
	require.ErrorIs(t, err, ErrDecode)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestExtractUnsupported(t *testing.T) {
	path := writeFile(t, "resume.odt", []byte("anything"))

	_, err := Extract(path)
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = ExtractAs(path, Format("odt"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExtractAsDeclaredFormat(t *testing.T) {
	path := writeFile(t, "job.dat", []byte("Go engineer"))

	got, err := ExtractAs(path, PlainText)
	require.NoError(t, err)
	require.Equal(t, "Go engineer", got)
}

func TestExtractDoesNotModifyInput(t *testing.T) {
	data := buildDocx(t, `<w:p><w:r><w:t>Hello</w:t></w:r></w:p>`)
	path := writeFile(t, "cv.docx", data)
	before, err := os.Stat(path)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		got, err := Extract(path)
		require.NoError(t, err)
		require.Equal(t, "Hello", got)
	}

	after, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, before.ModTime(), after.ModTime())
	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, data, onDisk)
}

func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	return buildArchive(t, map[string]string{
		"[Content_Types].xml": `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
			`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">` +
			`<w:body>` + body + `<w:sectPr/></w:body></w:document>`,
	})
}

func buildArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractDocx(t *testing.T) {
	body := strings.Join([]string{
		`<w:p><w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr>` +
			`<w:r><w:t>Hel</w:t></w:r><w:r><w:rPr><w:b/></w:rPr><w:t>lo</w:t></w:r></w:p>`,
		`<w:p/>`,
		`<w:p><w:r><w:t>Go</w:t><w:tab/><w:t>Rust</w:t><w:br/><w:t xml:space="preserve">  SQL </w:t></w:r></w:p>`,
		`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>table cell</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`,
		`<w:p><w:hyperlink r:id="rId1"><w:r><w:t>github.com/me</w:t></w:r></w:hyperlink></w:p>`,
		`<w:p><w:r><w:t>a &amp; b</w:t></w:r></w:p>`,
	}, "")

	got, err := Extract(writeFile(t, "cv.docx", buildDocx(t, body)))
	require.NoError(t, err)
	require.Equal(t, "Hello\n\nGo\tRust\n  SQL \ngithub.com/me\na & b", got)
}

func TestExtractDocxFailures(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "not an archive", data: []byte("PK? not really")},
		{name: "no document part", data: buildArchive(t, map[string]string{"word/styles.xml": "<styles/>"})},
		{name: "broken xml", data: buildArchive(t, map[string]string{"word/document.xml": "<w:document><w:body>"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(writeFile(t, "cv.docx", tt.data))
			require.ErrorIs(t, err, ErrExtraction)
		})
	}
}

// buildPDF writes a minimal PDF with one page per entry. An empty entry is a
// page without a content stream.
func buildPDF(pages ...string) []byte {
	var objects []string
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)

	for i, text := range pages {
		page := "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >>"
		if text != "" {
			page += fmt.Sprintf(" /Contents %d 0 R", 5+2*i)
		}
		stream := fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", text)
		objects = append(objects,
			page+" >>",
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
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return buf.Bytes()
}

func TestExtractPDF(t *testing.T) {
	got, err := Extract(writeFile(t, "cv.pdf", buildPDF("Hello", "", "World")))
	require.NoError(t, err)

	pages := strings.Split(got, "\n")
	var words []string
	for _, p := range pages {
		if p != "" {
			words = append(words, p)
		}
	}
	require.Equal(t, []string{"Hello", "World"}, words)
	require.Contains(t, got, "Hello\n\n")
}

func TestExtractCorruptPDF(t *testing.T) {
	tests := map[string][]byte{
		"garbage":        []byte("this is not a pdf at all"),
		"header only":    []byte("%PDF-1.4\n" + strings.Repeat("x", 200)),
		"truncated file": buildPDF("Hello")[:150],
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Extract(writeFile(t, "cv.pdf", data))
			require.ErrorIs(t, err, ErrExtraction)
		})
	}
}

type memoryCache struct {
	texts  map[string]string
	puts   int
	getErr error
}

func (m *memoryCache) Get(_ context.Context, key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	text, ok := m.texts[key]
	return text, ok, nil
}

func (m *memoryCache) Put(_ context.Context, key, _ string, text string) error {
	m.puts++
	m.texts[key] = text
	return nil
}

func TestExtractorCache(t *testing.T) {
	data := []byte("Go developer")
	path := writeFile(t, "cv.txt", data)
	cache := &memoryCache{texts: map[string]string{}}
	e := New(cache, zap.NewNop())

	got, err := e.Extract(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, "Go developer", got)
	require.Equal(t, 1, cache.puts)
	require.Equal(t, "Go developer", cache.texts[CacheKey(data, PlainText)])

	cache.texts[CacheKey(data, PlainText)] = "cached"
	got, err = e.Extract(context.Background(), writeFile(t, "copy.txt", data))
	require.NoError(t, err)
	require.Equal(t, "cached", got)
	require.Equal(t, 1, cache.puts)
}

func TestExtractorCacheFailureIsNotFatal(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	cache := &memoryCache{texts: map[string]string{}, getErr: errors.New("database is locked")}
	e := New(cache, zap.New(core))

	got, err := e.Extract(context.Background(), writeFile(t, "cv.txt", []byte("Go")))
	require.NoError(t, err)
	require.Equal(t, "Go", got)

	entries := logs.FilterMessage("text cache lookup failed").All()
	require.Len(t, entries, 1)
	require.Equal(t, "database is locked", entries[0].ContextMap()["error"])
}

func TestCacheKeyDependsOnFormat(t *testing.T) {
	data := []byte("same bytes")
	require.NotEqual(t, CacheKey(data, PlainText), CacheKey(data, RichText))
	require.Equal(t, CacheKey(data, PlainText), CacheKey([]byte("same bytes"), PlainText))
}
