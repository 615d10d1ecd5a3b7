package main_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	main "github.com/fwojciec/manfetch/cmd/manfetch"
	"github.com/fwojciec/manfetch/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoaddbCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("loads indexes into the database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		contentsPath := filepath.Join(dir, "Contents")
		packagesPath := filepath.Join(dir, "Packages")
		require.NoError(t, os.WriteFile(contentsPath, []byte(testContents), 0644))
		require.NoError(t, os.WriteFile(packagesPath, []byte(testPackages), 0644))

		db := sqlite.NewDB(":memory:")
		require.NoError(t, db.Open())
		defer db.Close()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:          testContext(),
			Stdout:       stdout,
			Stderr:       stderr,
			DB:           db,
			ContentsPath: contentsPath,
			PackagesPath: packagesPath,
		}

		cmd := &main.LoaddbCmd{}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Loaded 1 manpages across 1 packages")
		assert.Empty(t, stderr.String())
	})

	t.Run("hints at update when indexes are missing", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(":memory:")
		require.NoError(t, db.Open())
		defer db.Close()

		dir := t.TempDir()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:          testContext(),
			Stdout:       stdout,
			Stderr:       stderr,
			DB:           db,
			ContentsPath: filepath.Join(dir, "Contents"),
			PackagesPath: filepath.Join(dir, "Packages"),
		}

		cmd := &main.LoaddbCmd{}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "manfetch update")
		assert.Empty(t, stdout.String())
	})
}
