package repo

import (
	"os"

	"github.com/fwojciec/manfetch"
)

// Builder builds and incrementally updates the package cache from the two
// repository indexes. Both index files must already be on disk (the bulk
// index fetch is a separate step); their absence is a precondition
// failure, not a recoverable condition.
type Builder struct {
	ContentsPath string
	PackagesPath string
}

// Build constructs a fresh cache from the indexes: every path that passes
// the manpage predicate is registered under each package that installs it,
// then the Packages scan attaches version, filename and description.
// Deterministic for fixed inputs.
func (b *Builder) Build() (*manfetch.Cache, error) {
	if err := b.ensureInputs(); err != nil {
		return nil, err
	}

	cache := manfetch.NewCache()
	if _, err := b.scanContents(cache); err != nil {
		return nil, err
	}
	if err := b.scanPackages(cache, false); err != nil {
		return nil, err
	}
	return cache, nil
}

// Update reconciles an existing cache against freshly downloaded indexes.
// Newly seen members are added (resetting the owning archive's flushed
// flag), archives missing from the new Contents scan are marked
// PendingDeletion but otherwise untouched, and a version change refreshes
// the metadata fields and resets flushed. Applying Update to a cache that
// already reflects the indexes is a no-op.
func (b *Builder) Update(cache *manfetch.Cache) error {
	if err := b.ensureInputs(); err != nil {
		return err
	}

	seen, err := b.scanContents(cache)
	if err != nil {
		return err
	}

	for key, rec := range cache.Archives {
		if _, ok := seen[key]; !ok {
			rec.PendingDeletion = true
		}
	}

	return b.scanPackages(cache, true)
}

func (b *Builder) ensureInputs() error {
	for _, path := range []string{b.ContentsPath, b.PackagesPath} {
		if _, err := os.Stat(path); err != nil {
			return manfetch.Errorf(manfetch.EPRECONDITION, "index file %q missing; run update first", path)
		}
	}
	return nil
}

// scanContents registers qualifying members into the cache and returns
// the set of archive keys seen in this pass.
func (b *Builder) scanContents(cache *manfetch.Cache) (map[manfetch.ArchiveKey]struct{}, error) {
	r, err := OpenIndex(b.ContentsPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	seen := make(map[manfetch.ArchiveKey]struct{})
	err = ParseContents(r, func(path string, locations []string) error {
		if !manfetch.IsManpagePath(path) {
			return nil
		}
		for _, loc := range locations {
			key, ok := manfetch.ParseArchiveKey(loc)
			if !ok {
				continue
			}
			seen[key] = struct{}{}
			cache.Ensure(key).AddMember(path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return seen, nil
}

// scanPackages attaches stanza metadata to archives already known to the
// cache. In incremental mode only a version change touches the record;
// pre-existing member records are retained as-is either way.
func (b *Builder) scanPackages(cache *manfetch.Cache, incremental bool) error {
	r, err := OpenIndex(b.PackagesPath)
	if err != nil {
		return err
	}
	defer r.Close()

	return ParsePackages(r, func(st Stanza) error {
		key := manfetch.ArchiveKey{Section: st.Section, Name: st.Package}
		rec, ok := cache.Archives[key]
		if !ok {
			return nil
		}

		if incremental && rec.Version == st.Version {
			return nil
		}

		rec.Version = st.Version
		rec.Filename = st.Filename
		rec.Description = st.Description
		if incremental {
			// Install payload may differ even when the member set did not.
			rec.Flushed = false
		}
		return nil
	})
}
