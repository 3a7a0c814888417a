// Package storage persists uploaded documents on local disk.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileStore saves uploaded files to disk under a base directory. Stored
// names are prefixed with a millisecond timestamp so repeated uploads of
// the same document never collide.
type FileStore struct {
	basePath string
}

// NewFileStore creates the base directory if missing.
func NewFileStore(basePath string) (*FileStore, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, fmt.Errorf("storage base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStore{basePath: basePath}, nil
}

// Save writes the reader's contents to a new file and returns the stored
// filename and its absolute path.
func (f *FileStore) Save(originalName string, r io.Reader) (filename, path string, err error) {
	filename = fmt.Sprintf("%d_%s", time.Now().UnixMilli(), safeFilename(originalName))
	path = filepath.Join(f.basePath, filename)

	out, err := os.Create(path)
	if err != nil {
		return "", "", fmt.Errorf("create file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, r); err != nil {
		os.Remove(path)
		return "", "", fmt.Errorf("write file: %w", err)
	}
	return filename, path, nil
}

// Remove deletes a stored file. A missing file is not an error.
func (f *FileStore) Remove(filename string) error {
	err := os.Remove(filepath.Join(f.basePath, safeFilename(filename)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func safeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, string(os.PathSeparator), "_")
	name = strings.TrimSpace(name)
	if name == "" {
		return "upload.pdf"
	}
	return name
}
