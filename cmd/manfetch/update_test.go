package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/manfetch"
	main "github.com/fwojciec/manfetch/cmd/manfetch"
	"github.com/fwojciec/manfetch/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("downloads both indexes", func(t *testing.T) {
		t.Parallel()

		var got []string
		downloader := &mock.IndexDownloader{
			DownloadFn: func(_ context.Context, location, dest string) error {
				got = append(got, location+" -> "+dest)
				return nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:              testContext(),
			Stdout:           stdout,
			Stderr:           stderr,
			Downloader:       downloader,
			ContentsPath:     "/cache/Contents.gz",
			PackagesPath:     "/cache/Packages.gz",
			ContentsLocation: "dists/stable/main/Contents-amd64.gz",
			PackagesLocation: "dists/stable/main/binary-amd64/Packages.gz",
		}

		cmd := &main.UpdateCmd{}

		err := cmd.Run(deps)

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "dists/stable/main/Contents-amd64.gz -> /cache/Contents.gz", got[0])
		assert.Equal(t, "dists/stable/main/binary-amd64/Packages.gz -> /cache/Packages.gz", got[1])
		assert.Contains(t, stdout.String(), "Updated /cache/Contents.gz")
		assert.Contains(t, stdout.String(), "Updated /cache/Packages.gz")
		assert.Empty(t, stderr.String())
	})

	t.Run("stops after first failed download", func(t *testing.T) {
		t.Parallel()

		var calls int
		downloader := &mock.IndexDownloader{
			DownloadFn: func(_ context.Context, location, dest string) error {
				calls++
				return manfetch.Errorf(manfetch.EINTERNAL, "HTTP 503 for %s", location)
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:              testContext(),
			Stdout:           stdout,
			Stderr:           stderr,
			Downloader:       downloader,
			ContentsPath:     "/cache/Contents.gz",
			PackagesPath:     "/cache/Packages.gz",
			ContentsLocation: "dists/stable/main/Contents-amd64.gz",
			PackagesLocation: "dists/stable/main/binary-amd64/Packages.gz",
		}

		cmd := &main.UpdateCmd{}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, 1, calls, "the second index is not attempted after a failure")
		assert.Contains(t, stderr.String(), "error:")
		assert.Empty(t, stdout.String())
	})
}
