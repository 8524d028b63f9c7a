package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// URLPrefix is the route prefix the server mounts the upload directory under.
const URLPrefix = "/uploads/"

// DiskStore stores blobs as files in a local directory. Stored names are
// random so uploads with the same filename never collide.
type DiskStore struct {
	dir string
}

var _ Store = (*DiskStore)(nil)

// NewDiskStore creates the upload directory if needed and returns a store
// writing into it.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Put writes the blob to disk under a random name keeping the original
// extension, and returns its serving URL.
func (s *DiskStore) Put(ctx context.Context, filename string, r io.Reader) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := uuid.New().String() + sanitizeExtension(filename)
	target := filepath.Join(s.dir, name)

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob file: %w", err)
	}

	size, err := io.Copy(f, r)
	if closeErr := f.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(target)
		return nil, fmt.Errorf("failed to write blob: %w", err)
	}

	return &Object{
		URL:  URLPrefix + name,
		Size: size,
	}, nil
}

// Delete removes the file behind a URL returned by Put. URLs that do not
// point into the store, and files that are already gone, are ignored.
func (s *DiskStore) Delete(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name, ok := strings.CutPrefix(url, URLPrefix)
	if !ok || name == "" {
		return nil
	}
	// path.Base strips any traversal segments from a crafted URL.
	name = path.Base(name)

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}

// sanitizeExtension returns a safe file extension for a user-supplied
// filename, or empty when the extension looks suspect.
func sanitizeExtension(filename string) string {
	base := path.Base(filename)
	ext := strings.ToLower(path.Ext(base))
	// Dotfiles like ".env" have no real extension.
	if ext == strings.ToLower(base) || len(ext) < 2 || len(ext) > 10 {
		return ""
	}
	for _, c := range ext[1:] {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return ""
		}
	}
	return ext
}
