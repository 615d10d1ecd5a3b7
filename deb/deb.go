// Package deb reads the inner data container of Debian binary packages.
// A .deb is an ar archive wrapping a compressed data tarball; the package
// loads that tarball into memory and offers member lookup by normalized
// path with symlink resolution.
package deb

import (
	"archive/tar"
	"compress/bzip2"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/blakesmith/ar"
	"github.com/fwojciec/manfetch"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// ErrMissingContent is returned by Content when a symlink chain leaves the
// archive, i.e. the final target is not a regular member.
var ErrMissingContent = errors.New("deb: link target not present in archive")

// maxLinkDepth bounds symlink chain resolution.
const maxLinkDepth = 8

// Entry is one filesystem entry of the data container.
type Entry struct {
	// Name is the normalized member path (no leading "./").
	Name string

	// Linkname is the raw link target. Set only for link entries.
	Linkname string

	sym     bool
	hard    bool
	content []byte
}

// IsLink reports whether the entry is a symbolic or hard link.
func (e *Entry) IsLink() bool { return e.sym || e.hard }

// Archive is a fully loaded data container.
type Archive struct {
	entries map[string]*Entry
}

// Open reads the .deb at path and loads its data container.
func Open(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return OpenReader(f)
}

// OpenReader is like Open but reads the .deb from r.
func OpenReader(r io.Reader) (*Archive, error) {
	data, err := dataReader(r)
	if err != nil {
		return nil, err
	}
	return loadData(data)
}

// arMagic is the global header of an ar container.
const arMagic = "!<arch>\n"

// dataReader walks the outer ar container and returns a decompressing
// reader over the data.tar member.
func dataReader(r io.Reader) (io.Reader, error) {
	magic := make([]byte, len(arMagic))
	if _, err := io.ReadFull(r, magic); err != nil || string(magic) != arMagic {
		return nil, errors.New("deb: not an ar archive")
	}

	// ar.NewReader discards the global header itself, so replay it.
	arr := ar.NewReader(io.MultiReader(strings.NewReader(arMagic), r))
	for {
		hdr, err := arr.Next()
		if err == io.EOF {
			return nil, errors.New("deb: no data.tar member in archive")
		}
		if err != nil {
			return nil, fmt.Errorf("deb: reading ar container: %w", err)
		}

		name := strings.TrimSuffix(strings.TrimSpace(hdr.Name), "/")
		if !strings.HasPrefix(name, "data.tar") {
			continue
		}

		switch {
		case strings.HasSuffix(name, ".tar"):
			return arr, nil
		case strings.HasSuffix(name, ".gz"):
			zr, err := gzip.NewReader(arr)
			if err != nil {
				return nil, fmt.Errorf("deb: opening %s: %w", name, err)
			}
			return zr, nil
		case strings.HasSuffix(name, ".xz"):
			xr, err := xz.NewReader(arr)
			if err != nil {
				return nil, fmt.Errorf("deb: opening %s: %w", name, err)
			}
			return xr, nil
		case strings.HasSuffix(name, ".zst"):
			zr, err := zstd.NewReader(arr)
			if err != nil {
				return nil, fmt.Errorf("deb: opening %s: %w", name, err)
			}
			return zr.IOReadCloser(), nil
		case strings.HasSuffix(name, ".bz2"):
			return bzip2.NewReader(arr), nil
		default:
			return nil, fmt.Errorf("deb: unsupported data container %q", name)
		}
	}
}

// loadData reads every tar entry into memory. Directories are skipped;
// regular files keep their content, links keep their target.
func loadData(r io.Reader) (*Archive, error) {
	a := &Archive{entries: make(map[string]*Entry)}

	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return a, nil
		}
		if err != nil {
			return nil, fmt.Errorf("deb: reading data container: %w", err)
		}

		name := manfetch.NormalizeMemberPath(hdr.Name)
		switch hdr.Typeflag {
		case tar.TypeReg:
			content, err := io.ReadAll(tr)
			if err != nil {
				return nil, fmt.Errorf("deb: reading member %s: %w", name, err)
			}
			a.entries[name] = &Entry{Name: name, content: content}
		case tar.TypeSymlink:
			a.entries[name] = &Entry{Name: name, Linkname: hdr.Linkname, sym: true}
		case tar.TypeLink:
			a.entries[name] = &Entry{Name: name, Linkname: hdr.Linkname, hard: true}
		}
	}
}

// Member looks up an entry by member path. The path is normalized before
// lookup so "./usr/..." and "usr/..." address the same entry.
func (a *Archive) Member(memberPath string) (*Entry, bool) {
	e, ok := a.entries[manfetch.NormalizeMemberPath(memberPath)]
	return e, ok
}

// Content returns the file content of an entry, following link chains
// within the archive. Returns ErrMissingContent when the chain ends
// outside the archive.
func (a *Archive) Content(e *Entry) ([]byte, error) {
	cur := e
	for depth := 0; depth < maxLinkDepth; depth++ {
		if !cur.IsLink() {
			return cur.content, nil
		}
		next, ok := a.entries[cur.target()]
		if !ok {
			return nil, ErrMissingContent
		}
		cur = next
	}
	return nil, ErrMissingContent
}

// target resolves the entry's link target to a normalized member path.
// Symlink targets are relative to the entry's directory unless absolute;
// hard link targets are archive-absolute.
func (e *Entry) target() string {
	link := e.Linkname
	if e.hard {
		return manfetch.NormalizeMemberPath(link)
	}
	if path.IsAbs(link) {
		return strings.TrimPrefix(path.Clean(link), "/")
	}
	return path.Join(path.Dir(e.Name), link)
}
