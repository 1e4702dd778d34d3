package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Storage stores profile photos. The ride engine never touches this; only
// the profile handler does.
type Storage interface {
	// Upload stores the bytes and returns a URL path the API can serve.
	Upload(ctx context.Context, data []byte, ext, ownerID string) (string, error)

	// Delete removes a previously uploaded file by its URL path. Deleting
	// an unknown URL is not an error.
	Delete(ctx context.Context, url string) error
}

// DiskStorage is a Storage backed by a local directory, served under
// /uploads by the router.
type DiskStorage struct {
	dir string
}

// NewDiskStorage creates a DiskStorage rooted at dir, creating it if needed.
func NewDiskStorage(dir string) (*DiskStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &DiskStorage{dir: dir}, nil
}

// Upload writes the file under a random name prefixed with the owner ID.
func (s *DiskStorage) Upload(_ context.Context, data []byte, ext, ownerID string) (string, error) {
	name := fmt.Sprintf("%s-%s%s", ownerID, uuid.New().String(), ext)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}

// Delete removes the file behind the URL path.
func (s *DiskStorage) Delete(_ context.Context, url string) error {
	name := strings.TrimPrefix(url, "/uploads/")
	// Refuse anything that would escape the upload directory.
	if name == "" || name != filepath.Base(name) {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Dir returns the directory files are stored in.
func (s *DiskStorage) Dir() string {
	return s.dir
}
