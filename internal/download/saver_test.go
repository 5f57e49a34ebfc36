package download

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSave_WritesFileUnderDir(t *testing.T) {
	dir := t.TempDir()
	s := NewSaver(filepath.Join(dir, "downloads"))

	path, err := s.Save("sales-report-2026-01-01-to-2026-01-31.tsv", []byte("a\tb\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "downloads", "sales-report-2026-01-01-to-2026-01-31.tsv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\tb\n", string(data))
}

func TestSave_RejectsEmptyBlob(t *testing.T) {
	s := NewSaver(t.TempDir())

	_, err := s.Save("empty.tsv", nil)
	assert.Error(t, err)
}
