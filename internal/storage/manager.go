package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shipassist/backend/internal/models"
)

// Store defines the interface for upload storage.
type Store interface {
	Save(name string, contentType string, r io.Reader) (*models.FileInfo, error)
	Probe() error
}

// LocalStore implements Store using the local filesystem. Files are written
// under a timestamp-plus-random prefix so concurrent uploads of the same
// filename cannot collide.
type LocalStore struct {
	uploadDir string
}

// NewLocalStore creates a new LocalStore rooted at uploadDir.
func NewLocalStore(uploadDir string) (*LocalStore, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}

	return &LocalStore{uploadDir: uploadDir}, nil
}

// Save writes the file content synchronously and returns its metadata.
// A storage-provisioning failure is fatal to the request: if the upload
// directory cannot be (re)created, no write is attempted.
func (s *LocalStore) Save(name string, contentType string, r io.Reader) (*models.FileInfo, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("storage unavailable: %w", err)
	}

	id := uuid.New().String()
	stored := fmt.Sprintf("%d_%s_%s", time.Now().UnixMilli(), id[:8], sanitizeName(name))
	path := filepath.Join(s.uploadDir, stored)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("writing file: %w", err)
	}

	return &models.FileInfo{
		ID:          id,
		Name:        name,
		Path:        path,
		Size:        size,
		ContentType: contentType,
	}, nil
}

// Probe verifies that the upload directory is writable by creating and
// removing a uniquely named file. Used by the health check.
func (s *LocalStore) Probe() error {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return fmt.Errorf("creating upload directory: %w", err)
	}

	path := filepath.Join(s.uploadDir, ".probe_"+uuid.New().String())
	if err := os.WriteFile(path, []byte("ok"), 0o644); err != nil {
		return fmt.Errorf("writing probe file: %w", err)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("removing probe file: %w", err)
	}

	return nil
}

// sanitizeName strips path separators from a client-supplied filename.
func sanitizeName(name string) string {
	name = filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '_'
		}
		return r
	}, name)
}
