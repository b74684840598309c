package store

import (
	"context"
	"database/sql"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, migrationsDir)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(entries), 2)
}

func TestMigrateDispatch(t *testing.T) {
	var gotCmd, gotDir string
	orig := gooseRun
	gooseRun = func(_ context.Context, command string, _ *sql.DB, dir string, _ ...string) error {
		gotCmd, gotDir = command, dir
		return nil
	}
	t.Cleanup(func() { gooseRun = orig })

	require.NoError(t, Migrate(context.Background(), nil, "up"))
	assert.Equal(t, "up", gotCmd)
	assert.Equal(t, migrationsDir, gotDir)

	err := Migrate(context.Background(), nil, "drop-everything")
	assert.EqualError(t, err, `unknown migrate command "drop-everything"`)
}
