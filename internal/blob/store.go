package blob

import (
	"context"
	"io"
)

// Object describes a stored blob.
type Object struct {
	// URL is the public path the HTTP server serves the blob under.
	URL string
	// Size is the number of bytes written.
	Size int64
}

// Store persists uploaded attachment blobs and hands back a URL the frontend
// can load them from.
type Store interface {
	// Put stores the blob and returns its object descriptor. The provided
	// filename is only used to derive the stored name and extension.
	Put(ctx context.Context, filename string, r io.Reader) (*Object, error)
	// Delete removes the blob behind a URL previously returned by Put.
	// Deleting an unknown URL is not an error.
	Delete(ctx context.Context, url string) error
}
