package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS categories (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    description TEXT,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS items (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    description TEXT,
    price       REAL CHECK (price IS NULL OR price >= 0),
    units       INTEGER NOT NULL DEFAULT 0 CHECK (units >= 0),
    category_id TEXT REFERENCES categories(id),
    image_url   TEXT,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS access (
    id              TEXT PRIMARY KEY,
    password_digest TEXT NOT NULL UNIQUE,
    perm_all        INTEGER NOT NULL DEFAULT 0,
    perm_insert     INTEGER NOT NULL DEFAULT 0,
    perm_update     INTEGER NOT NULL DEFAULT 0,
    perm_upload     INTEGER NOT NULL DEFAULT 0,
    perm_delete     INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS instance_access (
    id          TEXT PRIMARY KEY,
    access_id   TEXT NOT NULL REFERENCES access(id) ON DELETE CASCADE,
    category_id TEXT REFERENCES categories(id),
    item_id     TEXT REFERENCES items(id),
    CHECK ((category_id IS NULL) <> (item_id IS NULL))
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// EnsureSchema creates all tables if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
