package storage

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Disk stores blobs under a local directory served at a fixed URL prefix.
type Disk struct {
	root      string
	urlPrefix string
}

// NewDisk creates a disk store rooted at dir, publicly reachable under
// urlPrefix (defaults to /storage).
func NewDisk(dir, urlPrefix string) *Disk {
	prefix := strings.TrimRight(strings.TrimSpace(urlPrefix), "/")
	if prefix == "" {
		prefix = "/storage"
	}
	return &Disk{root: dir, urlPrefix: prefix}
}

// Root returns the directory served as the public area.
func (d *Disk) Root() string {
	return d.root
}

// Put writes content to dir/<unique name> below the root.
func (d *Disk) Put(ctx context.Context, dir, filename string, content io.Reader) (string, error) {
	relative := path.Join(dir, uniqueName(filename))
	target := filepath.Join(d.root, filepath.FromSlash(relative))

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", err
	}

	out, err := os.Create(target)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(out, content); err != nil {
		out.Close()
		os.Remove(target)
		return "", err
	}

	if err := out.Close(); err != nil {
		return "", err
	}

	return relative, nil
}

// Delete removes a stored path; a missing file counts as deleted.
func (d *Disk) Delete(ctx context.Context, p string) error {
	err := os.Remove(filepath.Join(d.root, filepath.FromSlash(p)))
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// Exists reports whether the path is present on disk.
func (d *Disk) Exists(ctx context.Context, p string) bool {
	info, err := os.Stat(filepath.Join(d.root, filepath.FromSlash(p)))
	return err == nil && !info.IsDir()
}

// Open returns the file content.
func (d *Disk) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(d.root, filepath.FromSlash(p)))
}

// URL maps a relative path to the public prefix.
func (d *Disk) URL(p string) string {
	if p == "" {
		return ""
	}
	return d.urlPrefix + "/" + strings.TrimLeft(p, "/")
}
