// Package catalog keeps a SQLite record of the RDF documents in the dataset
// directory: their sizes, graph shape, validation results and node labels.
package catalog

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS documents (
	path       TEXT PRIMARY KEY,
	checksum   TEXT NOT NULL DEFAULT '',
	format     TEXT NOT NULL DEFAULT '',
	triples    INTEGER NOT NULL DEFAULT 0,
	nodes      INTEGER NOT NULL DEFAULT 0,
	links      INTEGER NOT NULL DEFAULT 0,
	violations INTEGER NOT NULL DEFAULT 0,
	error      TEXT NOT NULL DEFAULT '',
	run_id     TEXT NOT NULL DEFAULT '',
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS violations (
	path     TEXT NOT NULL REFERENCES documents(path) ON DELETE CASCADE,
	focus    TEXT NOT NULL,
	position INTEGER NOT NULL,
	UNIQUE(path, focus)
);

CREATE TABLE IF NOT EXISTS nodes (
	path  TEXT NOT NULL REFERENCES documents(path) ON DELETE CASCADE,
	id    TEXT NOT NULL,
	label TEXT NOT NULL DEFAULT '',
	type  TEXT NOT NULL DEFAULT '',
	UNIQUE(path, id)
);

CREATE INDEX IF NOT EXISTS idx_violations_path ON violations(path);
CREATE INDEX IF NOT EXISTS idx_nodes_path ON nodes(path);
`

// DB wraps a sql.DB with catalog-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("catalog: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("catalog: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("catalog: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("catalog: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
