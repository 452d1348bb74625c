package ports

import (
	"context"
	"io"
)

// ImageStore persists post image attachments.
type ImageStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	// URL returns the public address of a stored object.
	URL(key string) string
}
