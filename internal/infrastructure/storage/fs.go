// Package storage implements the object-storage collaborator surface.
// The filesystem store keeps objects under a local root and serves them
// through the API's static file route; swapping in a bucket-backed
// implementation only touches this package.
package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FileStore writes objects beneath root and returns URLs under baseURL.
type FileStore struct {
	root    string
	baseURL string
}

func NewFileStore(root, baseURL string) *FileStore {
	return &FileStore{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Put stores data at bucket/objectPath and returns its public URL.
func (s *FileStore) Put(_ context.Context, bucket, objectPath string, data []byte) (string, error) {
	rel := path.Join(bucket, objectPath)
	full := filepath.Join(s.root, filepath.FromSlash(rel))

	// Object paths are server-generated, but refuse traversal anyway.
	if !strings.HasPrefix(filepath.Clean(full), filepath.Clean(s.root)) {
		return "", fmt.Errorf("object path escapes storage root")
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create object directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write object: %w", err)
	}
	return s.baseURL + "/" + rel, nil
}
