package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fwojciec/manfetch"
)

// Ensure Fetcher implements manfetch.ArchiveFetcher at compile time.
var _ manfetch.ArchiveFetcher = (*Fetcher)(nil)

// Fetcher resolves archive locations against a local repository mirror.
// No bytes are copied; cleanup is a no-op since nothing temporary is
// acquired.
type Fetcher struct {
	root string
}

// NewFetcher creates a Fetcher rooted at the mirror directory.
func NewFetcher(root string) *Fetcher {
	return &Fetcher{root: root}
}

// Fetch maps the mirror-relative location to a path under the mirror root.
func (f *Fetcher) Fetch(ctx context.Context, location string) (string, func() error, error) {
	path := filepath.Join(f.root, filepath.FromSlash(location))
	if _, err := os.Stat(path); err != nil {
		return "", nil, manfetch.Errorf(manfetch.ENOTFOUND, "archive %q not present in local mirror", location)
	}
	return path, func() error { return nil }, nil
}
