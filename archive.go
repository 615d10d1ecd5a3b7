package manfetch

import (
	"context"
	"encoding/json"
	"io"
	"sort"
	"strings"
)

// MemberState tracks how far a single manpage member has been processed.
type MemberState int

// Member extraction states.
const (
	// StatePending means the member has not been extracted yet.
	StatePending MemberState = iota

	// StateExtracted means the member content has been written to the
	// output layout.
	StateExtracted

	// StateLinkOnly means the member is a symbolic link whose target was
	// absent from the archive; the resolved target name is recorded but no
	// content was materialized.
	StateLinkOnly
)

// ArchiveKey identifies one binary package in the repository.
type ArchiveKey struct {
	Section string `json:"section"`
	Name    string `json:"name"`
}

// String renders the key in the section/name form used by the Contents
// index location lists.
func (k ArchiveKey) String() string {
	return k.Section + "/" + k.Name
}

// ParseArchiveKey parses a "section/name" location. The name is everything
// after the final slash, so area-qualified sections (contrib/utils) work.
func ParseArchiveKey(loc string) (ArchiveKey, bool) {
	i := strings.LastIndex(loc, "/")
	if i < 0 {
		return ArchiveKey{}, false
	}
	return ArchiveKey{Section: loc[:i], Name: loc[i+1:]}, true
}

// MemberRecord is one manpage member inside an archive. The member's
// normalized source path is the key under which the record is stored in
// its ArchiveRecord.
type MemberRecord struct {
	// Name is the canonical display name used in the output layout.
	Name string `json:"name"`

	// State is the extraction state of this member.
	State MemberState `json:"state"`

	// Link holds the canonical name of the resolved symlink target.
	// Set only for symlink members.
	Link string `json:"link,omitempty"`

	// ContentHash is the xxhash of the extracted (decompressed) content.
	// Set only once State is StateExtracted.
	ContentHash string `json:"contentHash,omitempty"`
}

// ArchiveRecord is one entry in the package cache.
type ArchiveRecord struct {
	Version     string `json:"version"`
	Filename    string `json:"filename"` // mirror-relative location of the .deb
	Description string `json:"description"`

	// Flushed is true iff every member has been processed at least once
	// and no retry is owed.
	Flushed bool `json:"flushed"`

	// PendingDeletion marks an archive that no longer appears in the
	// latest Contents scan. Advisory only; never causes removal.
	PendingDeletion bool `json:"pendingDeletion,omitempty"`

	// Members maps normalized member path to its record.
	Members map[string]*MemberRecord `json:"members"`
}

// AddMember registers a manpage member under its normalized path. Adding a
// member the record has not seen before resets Flushed.
func (r *ArchiveRecord) AddMember(memberPath string) {
	if r.Members == nil {
		r.Members = make(map[string]*MemberRecord)
	}

	member := NormalizeMemberPath(memberPath)
	if _, ok := r.Members[member]; ok {
		return
	}

	r.Flushed = false
	r.Members[member] = &MemberRecord{
		Name:  CanonicalName(member),
		State: StatePending,
	}
}

// Cache maps every archive known to contain manpages to its record. It is
// the single persisted object: built or updated from the repository
// indexes, mutated by the fetch pipeline, and saved as one blob.
//
// The fetch phase only reads the top-level map; each worker mutates the
// records of exactly one archive, so no locking is required there.
type Cache struct {
	Archives map[ArchiveKey]*ArchiveRecord
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{Archives: make(map[ArchiveKey]*ArchiveRecord)}
}

// Ensure returns the record for key, creating an empty one on first sight.
func (c *Cache) Ensure(key ArchiveKey) *ArchiveRecord {
	if c.Archives == nil {
		c.Archives = make(map[ArchiveKey]*ArchiveRecord)
	}
	rec, ok := c.Archives[key]
	if !ok {
		rec = &ArchiveRecord{Members: make(map[string]*MemberRecord)}
		c.Archives[key] = rec
	}
	return rec
}

// FindByName returns the record for the named archive. When the same name
// exists in multiple sections the record with the lexically smallest
// section wins, so the duplicate-name edge case resolves deterministically.
func (c *Cache) FindByName(name string) (ArchiveKey, *ArchiveRecord, bool) {
	var (
		found bool
		key   ArchiveKey
	)
	for k := range c.Archives {
		if k.Name != name {
			continue
		}
		if !found || k.Section < key.Section {
			key = k
			found = true
		}
	}
	if !found {
		return ArchiveKey{}, nil, false
	}
	return key, c.Archives[key], true
}

// Unflushed returns the names of all archives still owing work, sorted and
// deduplicated (a name shared across sections is processed once).
func (c *Cache) Unflushed() []string {
	seen := make(map[string]struct{})
	var names []string
	for key, rec := range c.Archives {
		if rec.Flushed {
			continue
		}
		if _, ok := seen[key.Name]; ok {
			continue
		}
		seen[key.Name] = struct{}{}
		names = append(names, key.Name)
	}
	sort.Strings(names)
	return names
}

// MarshalJSON encodes the cache with string "section/name" keys, since
// struct keys are not valid JSON object keys.
func (c *Cache) MarshalJSON() ([]byte, error) {
	m := make(map[string]*ArchiveRecord, len(c.Archives))
	for key, rec := range c.Archives {
		m[key.String()] = rec
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes the string-keyed form produced by MarshalJSON.
func (c *Cache) UnmarshalJSON(data []byte) error {
	var m map[string]*ArchiveRecord
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	c.Archives = make(map[ArchiveKey]*ArchiveRecord, len(m))
	for loc, rec := range m {
		key, ok := ParseArchiveKey(loc)
		if !ok {
			return Errorf(EINVALID, "invalid archive key %q in cache", loc)
		}
		c.Archives[key] = rec
	}
	return nil
}

// CacheStore loads and saves the package cache as one opaque blob.
type CacheStore interface {
	// Load reads the persisted cache.
	// Returns ENOTFOUND if no cache has been saved yet.
	Load() (*Cache, error)

	// Save persists the whole cache atomically.
	Save(cache *Cache) error
}

// ArchiveFetcher obtains the bytes of one archive and makes them available
// as a local file.
type ArchiveFetcher interface {
	// Fetch resolves the mirror-relative location to a local path. The
	// returned cleanup must be called on every exit path to release any
	// temporary resources.
	Fetch(ctx context.Context, location string) (path string, cleanup func() error, err error)
}

// MemberWriter persists extracted member content into the output layout:
// one directory per archive name, one file per member display name.
type MemberWriter interface {
	WriteMember(archive, name string, r io.Reader) error
}

// IndexDownloader refreshes a local copy of a repository index file.
type IndexDownloader interface {
	// Download replaces dest with the index at the mirror-relative
	// location, or leaves the previous copy in place on failure.
	Download(ctx context.Context, location, dest string) error
}

// ArchiveProcessor fetches one archive and extracts its pending members,
// updating member state as it goes.
type ArchiveProcessor interface {
	// Process handles the named archive to completion. Archives that are
	// already flushed are a no-op. Per-archive failures are returned but
	// leave the archive retryable on the next run.
	Process(ctx context.Context, name string) error
}
