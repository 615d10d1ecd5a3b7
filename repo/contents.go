// Package repo parses the repository-wide Contents and Packages indexes
// and builds or incrementally updates the package cache from them.
package repo

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// headerMarker terminates the optional free-form header block at the top
// of a Contents index. Everything up to and including the first line
// beginning with it is skipped.
const headerMarker = "FILE"

// ContentsFunc is called for every data row of a Contents index with the
// installed file path and its raw "section/name" locations.
type ContentsFunc func(path string, locations []string) error

// ParseContents streams a Contents index. Each data row maps an installed
// file path to the comma-separated list of packages that install it. Rows
// that do not split into a path and a location list are silently skipped.
func ParseContents(r io.Reader, fn ContentsFunc) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	inHeader := true
	for scanner.Scan() {
		line := scanner.Text()

		if inHeader {
			if strings.HasPrefix(line, headerMarker) {
				inHeader = false
			}
			continue
		}

		path, locations, ok := splitRow(line)
		if !ok {
			continue
		}

		if err := fn(path, strings.Split(locations, ",")); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// splitRow splits a Contents row at its final whitespace run. The path may
// itself contain spaces, so only the last column is the location list.
func splitRow(line string) (path, locations string, ok bool) {
	line = strings.TrimRight(line, " \t")
	i := strings.LastIndexAny(line, " \t")
	if i < 0 {
		return "", "", false
	}
	path = strings.TrimRight(line[:i], " \t")
	locations = line[i+1:]
	if path == "" || locations == "" {
		return "", "", false
	}
	return path, locations, true
}

// OpenIndex opens an index file for reading, transparently decoding gzip
// when the path carries a .gz suffix. The caller must close the result.
func OpenIndex(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}

	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &gzipIndex{zr: zr, f: f}, nil
}

type gzipIndex struct {
	zr *gzip.Reader
	f  *os.File
}

func (g *gzipIndex) Read(p []byte) (int, error) { return g.zr.Read(p) }

func (g *gzipIndex) Close() error {
	zerr := g.zr.Close()
	if err := g.f.Close(); err != nil {
		return err
	}
	return zerr
}
