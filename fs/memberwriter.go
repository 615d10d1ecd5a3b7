package fs

import (
	"io"
	"os"
	"path/filepath"

	"github.com/fwojciec/manfetch"
)

// Ensure MemberWriter implements manfetch.MemberWriter at compile time.
var _ manfetch.MemberWriter = (*MemberWriter)(nil)

// MemberWriter writes extracted manpages under a base directory: one
// directory per archive name, one file per member display name.
type MemberWriter struct {
	baseDir string
}

// NewMemberWriter creates a MemberWriter rooted at baseDir.
func NewMemberWriter(baseDir string) *MemberWriter {
	return &MemberWriter{baseDir: baseDir}
}

// WriteMember streams r to baseDir/archive/name, creating the archive
// directory on first use.
func (w *MemberWriter) WriteMember(archive, name string, r io.Reader) error {
	dir := filepath.Join(w.baseDir, archive)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
