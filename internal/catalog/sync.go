package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/starford/rowlet/internal/models"
	"github.com/starford/rowlet/internal/storage"
)

// Analysis is what an AnalyzeFunc learned from one document.
type Analysis struct {
	Format  string
	Triples int
	Links   int
	Nodes   []NodeRow
	// Focus lists the failing focus nodes in validation order.
	Focus []string
}

// AnalyzeFunc converts and validates one document. An error marks the
// document as unreadable; its message is stored with the entry.
type AnalyzeFunc func(ctx context.Context, path string, data []byte) (Analysis, error)

// Sync walks the dataset and brings the catalog up to date:
//   - new/changed files are analysed and upserted
//   - files removed from disk are deleted from the catalog
func Sync(ctx context.Context, db Index, store storage.Provider, analyze AnalyzeFunc, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		if err := ctx.Err(); err != nil {
			return err
		}
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		doc, err := AnalyzeFile(ctx, db, analyze, m.Path, data)
		if err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		logger.Debug("sync: indexed",
			slog.String("path", m.Path),
			slog.String("run_id", doc.RunID),
			slog.Int("violations", doc.Violations))
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteDocument(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// AnalyzeFile analyses data under a fresh run id and upserts the result.
// Analysis failures are catalogued with the error set and zero counts; only
// cancellation and database errors are returned.
func AnalyzeFile(ctx context.Context, db Index, analyze AnalyzeFunc, path string, data []byte) (models.Document, error) {
	res, analyzeErr := analyze(ctx, path, data)
	if err := ctx.Err(); err != nil {
		return models.Document{}, err
	}
	return Record(db, path, data, res, analyzeErr)
}

// Record upserts an analysis that was already computed for data. A non-nil
// analyzeErr catalogues the document as unreadable.
func Record(db Index, path string, data []byte, res Analysis, analyzeErr error) (models.Document, error) {
	doc := models.Document{
		Path:      path,
		Checksum:  storage.Checksum(data),
		Format:    res.Format,
		RunID:     uuid.NewString(),
		UpdatedAt: time.Now().UTC(),
	}
	if analyzeErr != nil {
		doc.Error = analyzeErr.Error()
		if err := db.UpsertDocument(doc, nil, nil); err != nil {
			return models.Document{}, err
		}
		return doc, nil
	}

	doc.Triples = res.Triples
	doc.Nodes = len(res.Nodes)
	doc.Links = res.Links
	doc.Violations = len(res.Focus)
	if err := db.UpsertDocument(doc, res.Focus, res.Nodes); err != nil {
		return models.Document{}, err
	}
	return doc, nil
}
