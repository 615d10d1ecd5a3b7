package manfetch_test

import (
	"testing"

	"github.com/fwojciec/manfetch"
	"github.com/stretchr/testify/assert"
)

func TestIsManpagePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"compressed page", "usr/share/man/man1/ls.1.gz", true},
		{"uncompressed page", "usr/share/man/man8/mount.8", true},
		{"absolute path", "/usr/share/man/man1/ls.1.gz", true},
		{"localized page", "usr/share/man/fr/man1/ls.1.gz", false},
		{"not under man", "usr/bin/ls", false},
		{"no extension", "usr/share/man/man1/ls", false},
		{"only gz extension", "usr/share/man/man1/ls.gz", false},
		{"non-digit section", "usr/share/man/man1/ls.x.gz", false},
		{"subsection extension", "usr/share/man/man3/printf.3posix.gz", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, manfetch.IsManpagePath(tt.path), tt.path)
		})
	}
}

func TestCanonicalName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ls.1", manfetch.CanonicalName("usr/share/man/man1/ls.1.gz"))
	assert.Equal(t, "ls.1", manfetch.CanonicalName("ls.1.gz"))
	assert.Equal(t, "ls.1", manfetch.CanonicalName("ls.1"))
}

func TestCanonicalName_Idempotent(t *testing.T) {
	t.Parallel()

	once := manfetch.CanonicalName("usr/share/man/man1/ls.1.gz")
	assert.Equal(t, once, manfetch.CanonicalName(once))
}

func TestNormalizeMemberPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "usr/share/man/man1/ls.1.gz", manfetch.NormalizeMemberPath("./usr/share/man/man1/ls.1.gz"))
	assert.Equal(t, "usr/share/man/man1/ls.1.gz", manfetch.NormalizeMemberPath("usr/share/man/man1/ls.1.gz"))
}

func TestNormalizeMemberPath_Idempotent(t *testing.T) {
	t.Parallel()

	once := manfetch.NormalizeMemberPath("./usr/share/man/man1/ls.1.gz")
	assert.Equal(t, once, manfetch.NormalizeMemberPath(once))
}
