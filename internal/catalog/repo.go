package catalog

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/rowlet/internal/apperr"
	"github.com/starford/rowlet/internal/models"
)

// NodeRow is one graph node of a catalogued document.
type NodeRow struct {
	ID    string
	Label string
	Type  string
}

// SearchResult is one node matched by Search.
type SearchResult struct {
	Path  string `json:"path"`
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

// UpsertDocument inserts or replaces a document with its failing focus nodes
// and graph nodes within a transaction.
func (db *DB) UpsertDocument(doc models.Document, focus []string, nodes []NodeRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("catalog: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO documents (path, checksum, format, triples, nodes, links, violations, error, run_id, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			checksum   = excluded.checksum,
			format     = excluded.format,
			triples    = excluded.triples,
			nodes      = excluded.nodes,
			links      = excluded.links,
			violations = excluded.violations,
			error      = excluded.error,
			run_id     = excluded.run_id,
			updated_at = excluded.updated_at
	`, doc.Path, doc.Checksum, doc.Format, doc.Triples, doc.Nodes, doc.Links,
		len(focus), doc.Error, doc.RunID, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("catalog: upsert document: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM violations WHERE path = ?`, doc.Path); err != nil {
		return fmt.Errorf("catalog: clear violations: %w", err)
	}
	if len(focus) > 0 {
		stmt, err := tx.Prepare(`INSERT OR IGNORE INTO violations (path, focus, position) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("catalog: prepare violation insert: %w", err)
		}
		defer stmt.Close()
		for i, f := range focus {
			if _, err := stmt.Exec(doc.Path, f, i); err != nil {
				return fmt.Errorf("catalog: insert violation: %w", err)
			}
		}
	}

	if _, err := tx.Exec(`DELETE FROM nodes WHERE path = ?`, doc.Path); err != nil {
		return fmt.Errorf("catalog: clear nodes: %w", err)
	}
	if len(nodes) > 0 {
		stmt, err := tx.Prepare(`INSERT OR IGNORE INTO nodes (path, id, label, type) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("catalog: prepare node insert: %w", err)
		}
		defer stmt.Close()
		for _, n := range nodes {
			if _, err := stmt.Exec(doc.Path, n.ID, n.Label, n.Type); err != nil {
				return fmt.Errorf("catalog: insert node: %w", err)
			}
		}
	}

	// FTS upsert (no-op when the FTS5 tag is absent).
	if err := ftsUpsert(tx, doc.Path, nodes); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteDocument removes a document with its violations and nodes.
func (db *DB) DeleteDocument(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("catalog: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, path)
	_, _ = tx.Exec(`DELETE FROM violations WHERE path = ?`, path)
	_, _ = tx.Exec(`DELETE FROM nodes WHERE path = ?`, path)
	_, _ = tx.Exec(`DELETE FROM documents WHERE path = ?`, path)

	return tx.Commit()
}

const documentColumns = `path, checksum, format, triples, nodes, links, violations, error, run_id, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner) (models.Document, error) {
	var d models.Document
	err := s.Scan(&d.Path, &d.Checksum, &d.Format, &d.Triples, &d.Nodes, &d.Links,
		&d.Violations, &d.Error, &d.RunID, &d.UpdatedAt)
	return d, err
}

// GetDocument returns one document with its failing focus nodes.
func (db *DB) GetDocument(path string) (*models.DocumentDetail, error) {
	row := db.conn.QueryRow(`SELECT `+documentColumns+` FROM documents WHERE path = ?`, path)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("catalog: document %s: %w", path, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: get document: %w", err)
	}
	focus, err := db.Violations(path)
	if err != nil {
		return nil, err
	}
	return &models.DocumentDetail{Document: doc, Focus: focus}, nil
}

// ListDocuments returns every catalogued document ordered by path.
func (db *DB) ListDocuments() ([]models.Document, error) {
	rows, err := db.conn.Query(`SELECT ` + documentColumns + ` FROM documents ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("catalog: list documents: %w", err)
	}
	defer rows.Close()

	out := []models.Document{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Violations returns the failing focus nodes of a document in validation order.
func (db *DB) Violations(path string) ([]string, error) {
	rows, err := db.conn.Query(`SELECT focus FROM violations WHERE path = ? ORDER BY position`, path)
	if err != nil {
		return nil, fmt.Errorf("catalog: violations: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// GetChecksum returns the stored checksum for a document, or empty string if not found.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM documents WHERE path = ?`, path).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("catalog: get checksum: %w", err)
	}
	return cs, nil
}

// AllChecksums returns the stored checksum of every document keyed by path.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM documents`)
	if err != nil {
		return nil, fmt.Errorf("catalog: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

func scanResults(rows *sql.Rows) ([]SearchResult, error) {
	defer rows.Close()
	out := []SearchResult{}
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Path, &r.ID, &r.Label, &r.Type); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
