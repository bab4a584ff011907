//go:build sqlite_fts5

package catalog

import (
	"database/sql"
	"fmt"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS nodes_fts USING fts5(
			path UNINDEXED,
			id UNINDEXED,
			type UNINDEXED,
			label,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, path string, nodes []NodeRow) error {
	_, _ = tx.Exec(`DELETE FROM nodes_fts WHERE path = ?`, path)
	for _, n := range nodes {
		_, err := tx.Exec(`INSERT INTO nodes_fts (path, id, type, label) VALUES (?, ?, ?, ?)`,
			path, n.ID, n.Type, n.Label)
		if err != nil {
			return fmt.Errorf("catalog: upsert fts: %w", err)
		}
	}
	return nil
}

func ftsDelete(tx *sql.Tx, path string) {
	_, _ = tx.Exec(`DELETE FROM nodes_fts WHERE path = ?`, path)
}

// Search performs an FTS5 full-text search over node labels.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT path, id, label, type
		FROM nodes_fts
		WHERE nodes_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("catalog: search: %w", err)
	}
	return scanResults(rows)
}
