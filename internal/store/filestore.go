package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps each slot in its own file under a directory. Slot files are
// written 0600; the directory is created on first use.
type FileStore struct {
	dir string
}

// NewFileStore returns a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(slot string) string {
	return filepath.Join(s.dir, slot)
}

func (s *FileStore) Get(_ context.Context, slot string) (string, error) {
	b, err := os.ReadFile(s.path(slot))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrSlotEmpty
		}
		return "", fmt.Errorf("store: read %s: %w", slot, err)
	}
	if len(b) == 0 {
		return "", ErrSlotEmpty
	}
	return string(b), nil
}

func (s *FileStore) Set(_ context.Context, slot, value string) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("store: mkdir: %w", err)
	}
	// Write-then-rename so a crash never leaves a half-written slot.
	tmp := s.path(slot) + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0o600); err != nil {
		return fmt.Errorf("store: write %s: %w", slot, err)
	}
	if err := os.Rename(tmp, s.path(slot)); err != nil {
		return fmt.Errorf("store: rename %s: %w", slot, err)
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, slot string) error {
	err := os.Remove(s.path(slot))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("store: delete %s: %w", slot, err)
	}
	return nil
}
