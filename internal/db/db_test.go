package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateIsIdempotent(t *testing.T) {
	database := NewTestDB(t)

	require.NoError(t, Migrate(database))
	require.NoError(t, Migrate(database))

	var count int
	err := database.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table'
		 AND name IN ('categories', 'items', 'access', 'instance_access', 'settings')`,
	).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestForeignKeysEnabled(t *testing.T) {
	database := NewTestDB(t)

	var enabled int
	require.NoError(t, database.QueryRow(`PRAGMA foreign_keys`).Scan(&enabled))
	assert.Equal(t, 1, enabled)
}

func TestInstanceAccessTargetsExactlyOneEntity(t *testing.T) {
	database := NewTestDB(t)

	_, err := database.Exec(`INSERT INTO access (id, password_digest) VALUES ('a1', 'd1')`)
	require.NoError(t, err)
	_, err = database.Exec(`INSERT INTO categories (id, name) VALUES ('c1', 'Tools')`)
	require.NoError(t, err)
	_, err = database.Exec(`INSERT INTO items (id, name) VALUES ('i1', 'Hammer')`)
	require.NoError(t, err)

	_, err = database.Exec(`INSERT INTO instance_access (id, access_id) VALUES ('g0', 'a1')`)
	assert.Error(t, err, "grant without a target must be rejected")

	_, err = database.Exec(
		`INSERT INTO instance_access (id, access_id, category_id, item_id) VALUES ('g1', 'a1', 'c1', 'i1')`)
	assert.Error(t, err, "grant with two targets must be rejected")

	_, err = database.Exec(
		`INSERT INTO instance_access (id, access_id, item_id) VALUES ('g2', 'a1', 'i1')`)
	assert.NoError(t, err)
}
