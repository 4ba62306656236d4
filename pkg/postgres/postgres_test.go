package postgres

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingMigrations_SortedAndFiltered(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/002_second.sql":  {Data: []byte("SELECT 2")},
		"migrations/001_initial.sql": {Data: []byte("SELECT 1")},
		"migrations/README.md":       {Data: []byte("notes")},
	}

	pending, err := pendingMigrations(fsys, map[string]bool{})

	require.NoError(t, err)
	assert.Equal(t, []string{"001_initial.sql", "002_second.sql"}, pending)
}

func TestPendingMigrations_SkipsApplied(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/001_initial.sql": {Data: []byte("SELECT 1")},
		"migrations/002_second.sql":  {Data: []byte("SELECT 2")},
	}

	pending, err := pendingMigrations(fsys, map[string]bool{"001_initial.sql": true})

	require.NoError(t, err)
	assert.Equal(t, []string{"002_second.sql"}, pending)
}

func TestPendingMigrations_EmbeddedInitialMigration(t *testing.T) {
	pending, err := pendingMigrations(migrationsFS, map[string]bool{})

	require.NoError(t, err)
	assert.Contains(t, pending, "001_initial.sql")
}
