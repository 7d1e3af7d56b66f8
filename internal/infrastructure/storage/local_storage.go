package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/avatarctic/step-challenge/internal/core/ports"
)

// LocalStorage keeps bucket objects under a root directory, one subdirectory per bucket.
// Objects are served by the HTTP server under PublicPath.
type LocalStorage struct {
	fs      afero.Fs
	baseURL string
}

// PublicPath is the URL prefix the HTTP server serves the storage root under.
const PublicPath = "/storage"

// NewLocalStorage stores files below root on disk. baseURL is the externally visible origin
// (including any base path) used to build public URLs.
func NewLocalStorage(root, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return NewLocalStorageWithFs(afero.NewBasePathFs(afero.NewOsFs(), root), baseURL), nil
}

// NewLocalStorageWithFs uses fs as the storage root.
func NewLocalStorageWithFs(fs afero.Fs, baseURL string) *LocalStorage {
	return &LocalStorage{fs: fs, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *LocalStorage) Upload(ctx context.Context, bucket, objectPath string, body io.Reader) error {
	name, err := objectName(bucket, objectPath)
	if err != nil {
		return err
	}
	if err := s.fs.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return fmt.Errorf("failed to create bucket directory: %w", err)
	}
	f, err := s.fs.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create object: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		_ = s.fs.Remove(name)
		return fmt.Errorf("failed to write object: %w", err)
	}
	return f.Close()
}

func (s *LocalStorage) PublicURL(bucket, objectPath string) string {
	p := path.Join(PublicPath, url.PathEscape(bucket), escapePath(objectPath))
	return s.baseURL + p
}

// objectName rejects paths that would escape the bucket.
func objectName(bucket, objectPath string) (string, error) {
	if bucket == "" || strings.ContainsAny(bucket, `/\`) {
		return "", fmt.Errorf("invalid bucket %q", bucket)
	}
	clean := path.Clean("/" + objectPath)
	if clean == "/" || clean != "/"+strings.TrimPrefix(objectPath, "/") {
		return "", fmt.Errorf("invalid object path %q", objectPath)
	}
	return filepath.Join(bucket, filepath.FromSlash(clean)), nil
}

func escapePath(p string) string {
	parts := strings.Split(strings.TrimPrefix(p, "/"), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

var _ ports.FileStorage = (*LocalStorage)(nil)
