package database

import (
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpen_AppliesMigrationsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "events.db")

	db, err := Open(Config{Path: path}, zap.NewNop())
	require.NoError(t, err)

	var tables int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('position_samples','alerts','risk_decisions')`,
	).Scan(&tables))
	assert.Equal(t, 3, tables)
	require.NoError(t, db.Close())

	// reopening does not re-apply
	db, err = Open(Config{Path: path}, zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	var applied int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM migrations`).Scan(&applied))
	assert.Equal(t, 3, applied)
}

func TestLoadMigrations_SortsAndSkipsBadNames(t *testing.T) {
	source := fstest.MapFS{
		"010_later.sql": {Data: []byte("SELECT 1")},
		"002_first.sql": {Data: []byte("SELECT 2")},
		"README.md":     {Data: []byte("docs")},
		"noversion.sql": {Data: []byte("SELECT 3")},
	}
	m := NewMigrationManager(nil, source, zap.NewNop())

	migrations, err := m.LoadMigrations()
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, 2, migrations[0].Version)
	assert.Equal(t, "002_first", migrations[0].Name)
	assert.Equal(t, 10, migrations[1].Version)
}
