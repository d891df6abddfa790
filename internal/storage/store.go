// Package storage holds evidence binaries in an object store.
package storage

import (
	"context"
)

// ObjectStore uploads blobs and hands out URLs a browser can fetch.
type ObjectStore interface {
	Upload(ctx context.Context, key string, contentType string, data []byte) error
	RetrievableURL(ctx context.Context, key string) (string, error)
}
