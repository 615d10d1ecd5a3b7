// Package manfetch locates and extracts manual pages bundled inside the
// binary packages of a Debian-style repository. It consults the
// repository-wide Contents index to discover which packages ship manpages,
// fetches only those packages, extracts only the matching members, and
// remembers across runs what has already been extracted so repeated runs
// do no redundant work.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency or medium (e.g., sqlite/, deb/, fs/).
package manfetch
