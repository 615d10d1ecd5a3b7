package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/manfetch/sqlite"
	"github.com/stretchr/testify/require"
)

func TestDB_Open(t *testing.T) {
	t.Parallel()

	t.Run("creates schema on first open", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(":memory:")
		err := db.Open()
		require.NoError(t, err)
		defer db.Close()

		ctx := context.Background()

		var manpageCount int
		err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM manpages").Scan(&manpageCount)
		require.NoError(t, err)

		var packageCount int
		err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM packages").Scan(&packageCount)
		require.NoError(t, err)
	})

	t.Run("returns error for invalid path", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB("/nonexistent/path/db.sqlite")
		err := db.Open()
		require.Error(t, err)
	})
}
