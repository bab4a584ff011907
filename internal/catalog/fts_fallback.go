//go:build !sqlite_fts5

package catalog

import (
	"database/sql"
	"fmt"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; node search uses LIKE on the nodes table.
	return nil
}

func ftsUpsert(_ *sql.Tx, _ string, _ []NodeRow) error {
	// Nodes are already stored in the nodes table; nothing extra to do.
	return nil
}

func ftsDelete(_ *sql.Tx, _ string) {}

// Search finds nodes whose label or id contains query (fallback when FTS5
// is not compiled in).
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + query + "%"
	rows, err := db.conn.Query(`
		SELECT path, id, label, type
		FROM nodes
		WHERE label LIKE ? OR id LIKE ?
		ORDER BY path, label
		LIMIT ?
	`, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("catalog: search: %w", err)
	}
	return scanResults(rows)
}
