package filestore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Store handles local file storage for uploaded receipts
type Store struct {
	basePath string
}

// New creates a new file store with the given base path
func New(basePath string) (*Store, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("create filestore directory: %w", err)
	}
	return &Store{basePath: basePath}, nil
}

// Save stores a file under a fresh unique name, preserving the
// original extension, and returns the stored filename.
func (s *Store) Save(filename string, r io.Reader) (string, error) {
	stored := uuid.NewString() + filepath.Ext(filename)
	fullPath := filepath.Join(s.basePath, stored)

	f, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("write file: %w", err)
	}
	return stored, nil
}

// Open returns a reader for a stored file
func (s *Store) Open(stored string) (*os.File, error) {
	f, err := os.Open(filepath.Join(s.basePath, stored))
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return f, nil
}

// FullPath returns the full filesystem path for a stored filename
func (s *Store) FullPath(stored string) string {
	return filepath.Join(s.basePath, stored)
}
