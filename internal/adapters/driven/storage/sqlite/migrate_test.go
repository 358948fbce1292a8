package sqlite

import (
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docvault/internal/adapters/driven/storage/sqlite/migrations"
)

func openRawDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", dsn(filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func userVersion(t *testing.T, db *sql.DB) int {
	t.Helper()
	var v int
	require.NoError(t, db.QueryRow("PRAGMA user_version").Scan(&v))
	return v
}

func TestMigrate_AppliesInOrderOnce(t *testing.T) {
	db := openRawDB(t)
	fsys := fstest.MapFS{
		"002_add_col.up.sql":    {Data: []byte("ALTER TABLE t ADD COLUMN b TEXT;")},
		"001_create.up.sql":     {Data: []byte("CREATE TABLE t (a INTEGER);")},
		"001_create.down.sql":   {Data: []byte("DROP TABLE t;")},
		"notes.txt":             {Data: []byte("ignored")},
		"xyz_unnumbered.up.sql": {Data: []byte("this is not sql")},
	}

	applied, err := migrate(db, fsys)
	require.NoError(t, err)
	assert.Equal(t, 2, applied)
	assert.Equal(t, 2, userVersion(t, db))

	_, err = db.Exec("INSERT INTO t (a, b) VALUES (1, 'x')")
	require.NoError(t, err)

	applied, err = migrate(db, fsys)
	require.NoError(t, err)
	assert.Zero(t, applied)
}

func TestMigrate_FailedScriptRollsBack(t *testing.T) {
	db := openRawDB(t)
	fsys := fstest.MapFS{
		"001_create.up.sql": {Data: []byte("CREATE TABLE t (a INTEGER);")},
		"002_broken.up.sql": {Data: []byte("CREATE TABLE u (a INTEGER); NOT SQL;")},
	}

	applied, err := migrate(db, fsys)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "002_broken.up.sql")
	assert.Equal(t, 1, applied)
	assert.Equal(t, 1, userVersion(t, db))

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE name = 'u'").Scan(&n))
	assert.Zero(t, n)
}

func TestMigrate_EmbeddedSchema(t *testing.T) {
	db := openRawDB(t)

	applied, err := migrate(db, migrations.FS)

	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE name = 'vector_items'").Scan(&n))
	assert.Equal(t, 1, n)
}
