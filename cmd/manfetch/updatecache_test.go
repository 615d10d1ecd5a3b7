package main_test

import (
	"bytes"
	"testing"

	"github.com/fwojciec/manfetch"
	main "github.com/fwojciec/manfetch/cmd/manfetch"
	"github.com/fwojciec/manfetch/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateCacheCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("builds from scratch when no cache exists", func(t *testing.T) {
		t.Parallel()

		var saved *manfetch.Cache
		store := &mock.CacheStore{
			LoadFn: func() (*manfetch.Cache, error) {
				return nil, manfetch.Errorf(manfetch.ENOTFOUND, "no cache")
			},
			SaveFn: func(cache *manfetch.Cache) error {
				saved = cache
				return nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:     testContext(),
			Stdout:  stdout,
			Stderr:  stderr,
			Builder: writeIndexes(t, testContents, testPackages),
			Store:   store,
		}

		cmd := &main.UpdateCacheCmd{}

		err := cmd.Run(deps)

		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Len(t, saved.Archives, 1)
		assert.Contains(t, stdout.String(), "1 archives, 1 pending fetch")
		assert.Empty(t, stderr.String())
	})

	t.Run("updates an existing cache in place", func(t *testing.T) {
		t.Parallel()

		builder := writeIndexes(t, testContents, testPackages)
		existing, err := builder.Build()
		require.NoError(t, err)

		// Pretend the previous run already flushed the archive.
		key := manfetch.ArchiveKey{Section: "main", Name: "foo"}
		existing.Archives[key].Flushed = true

		var saved *manfetch.Cache
		store := &mock.CacheStore{
			LoadFn: func() (*manfetch.Cache, error) { return existing, nil },
			SaveFn: func(cache *manfetch.Cache) error {
				saved = cache
				return nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:     testContext(),
			Stdout:  stdout,
			Stderr:  stderr,
			Builder: builder,
			Store:   store,
		}

		cmd := &main.UpdateCacheCmd{}

		err = cmd.Run(deps)

		require.NoError(t, err)
		require.NotNil(t, saved)
		// Unchanged indexes leave the flushed archive alone.
		assert.True(t, saved.Archives[key].Flushed)
		assert.Contains(t, stdout.String(), "1 archives, 0 pending fetch")
	})

	t.Run("returns error when load fails for another reason", func(t *testing.T) {
		t.Parallel()

		store := &mock.CacheStore{
			LoadFn: func() (*manfetch.Cache, error) {
				return nil, manfetch.Errorf(manfetch.EINTERNAL, "cache file corrupt")
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:     testContext(),
			Stdout:  stdout,
			Stderr:  stderr,
			Builder: writeIndexes(t, testContents, testPackages),
			Store:   store,
		}

		cmd := &main.UpdateCacheCmd{}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, manfetch.EINTERNAL, manfetch.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error:")
		assert.Empty(t, stdout.String())
	})
}
