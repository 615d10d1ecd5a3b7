// Package fetch runs the concurrent fetch/extract pipeline: a bounded
// worker pool drains the queue of unflushed archives, and an extractor
// downloads each archive, opens its data container, and writes out the
// pending manpage members.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/manfetch"
	"github.com/fwojciec/manfetch/deb"
	"github.com/klauspost/compress/gzip"
)

// Ensure Extractor implements manfetch.ArchiveProcessor at compile time.
var _ manfetch.ArchiveProcessor = (*Extractor)(nil)

// Extractor processes one archive at a time: fetch, open, extract pending
// members, update member state. Failures leave the archive unflushed so
// the next run retries the unfinished members; members already past
// Pending are never re-extracted.
type Extractor struct {
	Cache   *manfetch.Cache
	Fetcher manfetch.ArchiveFetcher
	Writer  manfetch.MemberWriter
}

// extractResult is the explicit outcome of one member loop: either every
// member was handled, or processing was abandoned at a specific member.
type extractResult struct {
	completed bool
	member    string
	reason    error
}

func abandonedAt(member string, reason error) extractResult {
	return extractResult{member: member, reason: reason}
}

// Process handles the named archive to completion. An archive that is
// already flushed is a no-op. When the same name exists in several
// sections the first match is taken (see Cache.FindByName).
func (e *Extractor) Process(ctx context.Context, name string) error {
	_, rec, ok := e.Cache.FindByName(name)
	if !ok {
		return manfetch.Errorf(manfetch.ENOTFOUND, "archive %q not in package cache", name)
	}
	if rec.Flushed {
		return nil
	}

	path, cleanup, err := e.Fetcher.Fetch(ctx, rec.Filename)
	if err != nil {
		return manfetch.Errorf(manfetch.EINTERNAL, "fetching %s: %v", name, err)
	}
	defer func() { _ = cleanup() }()

	archive, err := deb.Open(path)
	if err != nil {
		// Archive unusable: abandon without touching member state, fully
		// retryable next run.
		return manfetch.Errorf(manfetch.EINTERNAL, "opening %s: %v", name, err)
	}

	res := e.extractMembers(archive, name, rec)
	if !res.completed {
		return manfetch.Errorf(manfetch.EINTERNAL, "extracting %s: abandoned at %s: %v", name, res.member, res.reason)
	}

	rec.Flushed = true
	return nil
}

// extractMembers walks every member still Pending and extracts it. The
// flush decision is an explicit branch on the returned result, never a
// fallthrough.
func (e *Extractor) extractMembers(archive *deb.Archive, name string, rec *manfetch.ArchiveRecord) extractResult {
	for member, mr := range rec.Members {
		if mr.State != manfetch.StatePending {
			continue
		}

		entry, ok := archive.Member(member)
		if !ok {
			// Expected member absent and not even a link descriptor:
			// abandon the whole archive, partial state retained.
			return abandonedAt(member, fmt.Errorf("member not present in data container"))
		}

		content, err := archive.Content(entry)
		if err != nil {
			if entry.IsLink() {
				// Link target missing from the archive: record the
				// resolved name, no content materialized, never retried.
				mr.State = manfetch.StateLinkOnly
				mr.Link = manfetch.CanonicalName(entry.Linkname)
				continue
			}
			return abandonedAt(member, err)
		}

		if strings.HasSuffix(member, ".gz") {
			content, err = gunzip(content)
			if err != nil {
				return abandonedAt(member, err)
			}
		}

		if entry.IsLink() {
			mr.Link = manfetch.CanonicalName(entry.Linkname)
		}

		if err := e.Writer.WriteMember(name, mr.Name, bytes.NewReader(content)); err != nil {
			return abandonedAt(member, err)
		}

		mr.ContentHash = fmt.Sprintf("%x", xxhash.Sum64(content))
		mr.State = manfetch.StateExtracted
	}

	return extractResult{completed: true}
}

func gunzip(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}
