package manfetch

import (
	"path"
	"strings"
)

// IsManpagePath reports whether an installed file path from the Contents
// index refers to an extractable manual page.
//
// A path qualifies only if it contains a man directory segment, its final
// name still has an extension once a trailing .gz is stripped, and that
// extension starts with a digit (the manual section). Paths where the man
// segment appears more than once must contain the direct /man/man form;
// anything else is a localized page and is rejected.
func IsManpagePath(p string) bool {
	manOcc := strings.Count(p, "/man")
	if manOcc == 0 {
		return false
	}

	name := path.Base(p)
	if !strings.Contains(name, ".") {
		return false
	}

	name = CanonicalName(name)
	if !strings.Contains(name, ".") {
		return false
	}

	if manOcc > 1 && !strings.Contains(p, "/man/man") {
		// Localized manpage (e.g. /usr/share/man/fr/man1/...).
		return false
	}

	ext := path.Ext(name)
	if len(ext) < 2 || ext[1] < '0' || ext[1] > '9' {
		return false
	}

	return true
}

// CanonicalName returns the display name of a manpage member: the final
// path component with a trailing .gz suffix stripped. It is idempotent.
func CanonicalName(p string) string {
	if strings.Contains(p, "/") {
		p = path.Base(p)
	}
	return strings.TrimSuffix(p, ".gz")
}

// NormalizeMemberPath collapses the archive-internal "./" prefix so member
// paths compare equal regardless of where they were observed (Contents
// index vs. data tarball). It must be applied everywhere a member path is
// stored or looked up. Idempotent.
func NormalizeMemberPath(p string) string {
	return strings.TrimPrefix(p, "./")
}
