package report

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileStore persists rendered report bytes and returns a retrievable path.
type FileStore interface {
	Save(name string, data []byte) (string, error)
}

// LocalFileStore writes reports under a single directory on local disk.
type LocalFileStore struct {
	Dir string
}

func NewLocalFileStore(dir string) *LocalFileStore {
	if dir == "" {
		dir = "./reports"
	}
	return &LocalFileStore{Dir: dir}
}

func (s *LocalFileStore) Save(name string, data []byte) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing report file: %w", err)
	}
	return path, nil
}
