// Package storage provides the public blob store used for uploaded images
// and documents. Paths returned by Put are relative; URL maps them to the
// world-readable prefix the frontend embeds.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Storage is a disk- or S3-backed public blob store.
type Storage interface {
	// Put stores content under dir with a generated unique name and returns
	// the relative path.
	Put(ctx context.Context, dir, filename string, content io.Reader) (string, error)
	// Delete removes a stored path. Deleting a missing path is a success.
	Delete(ctx context.Context, path string) error
	// Exists reports whether a stored path is present.
	Exists(ctx context.Context, path string) bool
	// Open returns the content of a stored path.
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	// URL maps a relative path to its public URL.
	URL(path string) string
}

// uniqueName keeps the original extension but replaces the name with a
// date-prefixed UUID so concurrent uploads never collide.
func uniqueName(filename string) string {
	ext := filepath.Ext(filename)
	return fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)
}
