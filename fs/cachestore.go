// Package fs provides file-based storage: the persisted package cache,
// the extracted-manpage output layout, and a local-mirror archive source.
package fs

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/fwojciec/manfetch"
)

// Ensure CacheStore implements manfetch.CacheStore at compile time.
var _ manfetch.CacheStore = (*CacheStore)(nil)

// CacheStore persists the package cache as one JSON blob with atomic
// update semantics: Save writes to a temporary file in the same directory
// and renames it over the final path.
type CacheStore struct {
	path string
}

// NewCacheStore creates a CacheStore persisting to the given path.
func NewCacheStore(path string) *CacheStore {
	return &CacheStore{path: path}
}

// Load reads the persisted cache.
// Returns ENOTFOUND if no cache has been saved yet.
func (s *CacheStore) Load() (*manfetch.Cache, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, manfetch.Errorf(manfetch.ENOTFOUND, "package cache %q does not exist", s.path)
	}
	if err != nil {
		return nil, err
	}

	var cache manfetch.Cache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, manfetch.Errorf(manfetch.EINTERNAL, "package cache %q is corrupt: %v", s.path, err)
	}
	return &cache, nil
}

// Save persists the whole cache atomically.
func (s *CacheStore) Save(cache *manfetch.Cache) error {
	data, err := json.Marshal(cache)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
