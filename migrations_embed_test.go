package main

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingMigrations(t *testing.T) {
	all := []string{"migrations/002_board.sql", "migrations/001_menu.sql", "migrations/003_x.sql"}

	assert.Equal(t, []string{"migrations/001_menu.sql", "migrations/002_board.sql", "migrations/003_x.sql"},
		pendingMigrations(all, map[string]bool{}))
	assert.Equal(t, []string{"migrations/003_x.sql"},
		pendingMigrations(all, map[string]bool{"migrations/001_menu.sql": true, "migrations/002_board.sql": true}))
	assert.Empty(t, pendingMigrations(all[:1], map[string]bool{"migrations/002_board.sql": true}))
}

func TestEmbeddedMigrations(t *testing.T) {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{"migrations/001_menu.sql", "migrations/002_board.sql"}, names)
}
