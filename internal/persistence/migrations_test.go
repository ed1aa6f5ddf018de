package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCollectMigrationsOrdersAndFiltersSQLFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_complaints.sql", "001_users.sql", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o755))

	files, err := collectMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_users.sql", "002_complaints.sql"}, files)
}

func TestCollectMigrationsMissingDir(t *testing.T) {
	_, err := collectMigrations(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestRunMigrationsSkipsWithoutPool(t *testing.T) {
	err := RunMigrations(context.Background(), nil, "migrations", zap.NewNop())
	assert.NoError(t, err)
}
