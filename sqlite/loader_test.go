package sqlite_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/manfetch"
	"github.com/fwojciec/manfetch/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loaderContents = `FILE LOCATION
usr/share/man/man1/ls.1.gz        utils/coreutils
usr/share/man/man1/shared.1.gz    utils/coreutils,admin/busybox
usr/bin/ls                        utils/coreutils
`

const loaderPackages = `Package: coreutils
Section: utils
Version: 9.4-1
Filename: pool/main/c/coreutils/coreutils_9.4-1_amd64.deb
Description: GNU core utilities

Package: busybox
Section: admin
Version: 1.36.1-5
Filename: pool/main/b/busybox/busybox_1.36.1-5_amd64.deb
Description: Tiny utilities

Package: nomanpages
Section: libs
Version: 1.0
Filename: pool/main/n/nomanpages/nomanpages_1.0_amd64.deb
Description: ships no documentation
`

func TestLoader_Load(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	contentsPath := filepath.Join(dir, "Contents")
	packagesPath := filepath.Join(dir, "Packages")
	require.NoError(t, os.WriteFile(contentsPath, []byte(loaderContents), 0644))
	require.NoError(t, os.WriteFile(packagesPath, []byte(loaderPackages), 0644))

	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	defer db.Close()

	ctx := context.Background()
	res, err := sqlite.NewLoader(db).Load(ctx, contentsPath, packagesPath)
	require.NoError(t, err)

	// One row per (path, package) pair; the shared page counts twice.
	assert.Equal(t, 3, res.Manpages)
	// Only packages shipping manpages are exported.
	assert.Equal(t, 2, res.Packages)

	var name, section, pkg string
	err = db.QueryRowContext(ctx, `
		SELECT name, section, package FROM manpages WHERE path = ?
		ORDER BY package LIMIT 1
	`, "usr/share/man/man1/ls.1.gz").Scan(&name, &section, &pkg)
	require.NoError(t, err)
	assert.Equal(t, "ls", name)
	assert.Equal(t, "1", section)
	assert.Equal(t, "coreutils", pkg)

	var version string
	err = db.QueryRowContext(ctx, `
		SELECT version FROM packages WHERE package = ?
	`, "busybox").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, "1.36.1-5", version)

	var excluded int
	err = db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM packages WHERE package = ?
	`, "nomanpages").Scan(&excluded)
	require.NoError(t, err)
	assert.Zero(t, excluded)
}

func TestLoader_Load_MissingInputs(t *testing.T) {
	t.Parallel()

	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	defer db.Close()

	dir := t.TempDir()
	_, err := sqlite.NewLoader(db).Load(context.Background(),
		filepath.Join(dir, "Contents"), filepath.Join(dir, "Packages"))
	require.Error(t, err)
	assert.Equal(t, manfetch.EPRECONDITION, manfetch.ErrorCode(err))
}
