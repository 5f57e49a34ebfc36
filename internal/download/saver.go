// Package download writes API-returned report and invoice blobs to disk so
// the front-end can hand the user a file path instead of raw bytes.
package download

import (
	"fmt"
	"os"
	"path/filepath"
)

// Saver writes downloaded blobs under a single directory.
type Saver struct {
	dir string
}

func NewSaver(dir string) *Saver {
	return &Saver{dir: dir}
}

// Save writes data to name inside the download directory and returns the
// full path. Empty blobs are rejected; callers surface that as a
// file-not-found condition rather than saving a zero-byte file.
func (s *Saver) Save(name string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("refusing to save empty file %q", name)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating download dir: %w", err)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
