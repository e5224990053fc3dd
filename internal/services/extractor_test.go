package services

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func writeDOCX(t *testing.T, name, documentXML string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func TestExtractTextPlain(t *testing.T) {
	e := NewTextExtractor(zap.NewNop())
	path := writeFile(t, "resume.txt", []byte("Jane Doe\nPython developer"))

	assert.Equal(t, "Jane Doe\nPython developer", e.ExtractText(path))
}

func TestExtractTextDOCX(t *testing.T) {
	e := NewTextExtractor(zap.NewNop())
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Experience</w:t></w:r></w:p>
<w:p><w:r><w:t>Built REST</w:t></w:r><w:r><w:t xml:space="preserve"> APIs in Go</w:t></w:r></w:p>
</w:body>
</w:document>`
	path := writeDOCX(t, "resume.docx", doc)

	assert.Equal(t, "Experience\nBuilt REST APIs in Go", CleanText(e.ExtractText(path)))
}

func TestExtractTextNeverFails(t *testing.T) {
	e := NewTextExtractor(zap.NewNop())

	tests := map[string]string{
		"missing":     filepath.Join(t.TempDir(), "nope.pdf"),
		"corrupt pdf": writeFile(t, "broken.pdf", []byte("%PDF-1.4 not really")),
		"corrupt doc": writeFile(t, "broken.docx", []byte("not a zip")),
		"unsupported": writeFile(t, "photo.png", []byte{0x89, 0x50}),
	}

	for name, path := range tests {
		t.Run(name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, "", CleanText(e.ExtractText(path)))
			})
		})
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", " \n\t\r\n ", ""},
		{"collapses spaces", "Go \t  developer", "Go developer"},
		{"keeps one paragraph break", "Summary\n\n\n\nExperience\r\nAcme", "Summary\n\nExperience\nAcme"},
		{"trims leading blank lines", "\n\nName", "Name"},
		{"non breaking space", "Senior\u00a0Engineer", "Senior Engineer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.in))
		})
	}
}
