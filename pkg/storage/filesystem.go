package storage

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ImageStore persists uploaded images on disk under a base directory.
// References handed out are opaque ids resolving to files inside the
// base dir, so callers never deal in paths.
type ImageStore struct {
	baseDir string
}

// NewImageStore ensures the base directory exists and returns a handle.
func NewImageStore(baseDir string) (*ImageStore, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	return &ImageStore{baseDir: baseDir}, nil
}

// Put stores the image bytes and returns the generated reference id.
// The original filename only contributes its extension; the stored name
// is always a fresh uuid.
func (s *ImageStore) Put(data []byte, filename, contentType string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
			ext = exts[0]
		}
	}
	id := uuid.NewString() + ext
	if err := os.WriteFile(s.resolve(id), data, 0o644); err != nil {
		return "", fmt.Errorf("write image file: %w", err)
	}
	return id, nil
}

// Get returns the stored bytes and the content type inferred from the
// reference's extension.
func (s *ImageStore) Get(id string) ([]byte, string, error) {
	data, err := os.ReadFile(s.resolve(id))
	if err != nil {
		return nil, "", fmt.Errorf("read image file: %w", err)
	}
	contentType := mime.TypeByExtension(filepath.Ext(id))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return data, contentType, nil
}

// Delete removes a stored image if present.
func (s *ImageStore) Delete(id string) error {
	if err := os.Remove(s.resolve(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete image file: %w", err)
	}
	return nil
}

func (s *ImageStore) resolve(id string) string {
	// Reference ids are uuid-based names we generated; strip any path
	// separators so crafted ids cannot escape the base dir.
	return filepath.Join(s.baseDir, filepath.Base(id))
}
