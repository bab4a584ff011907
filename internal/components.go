package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/geoknoesis/rdf-go/rdf"

	"github.com/starford/rowlet/internal/catalog"
	"github.com/starford/rowlet/internal/fuseki"
	"github.com/starford/rowlet/internal/graphservice"
	"github.com/starford/rowlet/internal/shacl"
	"github.com/starford/rowlet/internal/storage"
	"github.com/starford/rowlet/internal/triplestore"
	"github.com/starford/rowlet/internal/vocabulary"
)

// components are the wired services shared by serve and the commands.
type components struct {
	svc   *graphservice.Service
	store *storage.FS
	db    *catalog.DB
}

func (c *components) Close() {
	if c.db != nil {
		_ = c.db.Close()
	}
}

func newLogger(level slog.Level, w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadShapes reads the shapes file at path, or returns the built-in star
// shape when path is empty.
func loadShapes(ctx context.Context, path string, maxTriples int64) ([]shacl.Shape, error) {
	if path == "" {
		return shacl.DefaultShapes(), nil
	}
	f, format, err := openInput(path, "", nil)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var opts []triplestore.LoadOption
	if maxTriples > 0 {
		opts = append(opts, triplestore.WithMaxTriples(maxTriples))
	}
	shapes, err := shacl.LoadShapes(ctx, f, format, opts...)
	if err != nil {
		return nil, fmt.Errorf("load shapes %s: %w", path, err)
	}
	return shapes, nil
}

// openInput opens src ("-" is stdin) and resolves its format from the
// format name, falling back to the file extension and then Turtle for stdin.
func openInput(src, formatName string, stdin io.Reader) (io.ReadCloser, rdf.Format, error) {
	var format rdf.Format
	if formatName != "" {
		f, ok := triplestore.ParseFormat(formatName)
		if !ok {
			return nil, "", fmt.Errorf("format %q: %w", formatName, rdf.ErrUnsupportedFormat)
		}
		format = f
	}

	if src == "-" {
		if format == "" {
			format = rdf.FormatTurtle
		}
		return io.NopCloser(stdin), format, nil
	}

	if format == "" {
		f, ok := triplestore.FormatFromPath(src)
		if !ok {
			return nil, "", fmt.Errorf("%s: %w (use --format)", src, rdf.ErrUnsupportedFormat)
		}
		format = f
	}
	file, err := os.Open(src)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", src, err)
	}
	return file, format, nil
}

type buildOptions struct {
	shapesPath string
	datasets   bool
	onChange   func(kind, path string)
}

// build wires the graph service from cfg. The dataset catalog is opened
// only when requested and configured.
func build(ctx context.Context, cfg *Config, logger *slog.Logger, bo buildOptions) (*components, error) {
	shapesPath := cfg.Shapes.Path
	if bo.shapesPath != "" {
		shapesPath = bo.shapesPath
	}
	shapes, err := loadShapes(ctx, shapesPath, cfg.Limits.MaxTriples)
	if err != nil {
		return nil, err
	}
	logger.Info("shapes: loaded", slog.Int("count", len(shapes)), slog.String("path", shapesPath))

	vocab := vocabulary.NewTable(vocabulary.WithExcludedNamespaces(cfg.Vocabulary.ExcludeNamespaces...))

	opts := []graphservice.Option{
		graphservice.WithLogger(logger),
		graphservice.WithMaxTriples(cfg.Limits.MaxTriples),
	}
	if cfg.Fuseki.Enabled() {
		var fopts []fuseki.Option
		if cfg.Fuseki.Timeout > 0 {
			fopts = append(fopts, fuseki.WithTimeout(cfg.Fuseki.Timeout))
		}
		opts = append(opts, graphservice.WithRemote(fuseki.New(cfg.Fuseki.URL, cfg.Fuseki.Dataset, fopts...)))
	}
	if bo.onChange != nil {
		opts = append(opts, graphservice.WithChangeHook(bo.onChange))
	}

	c := &components{}
	if bo.datasets && cfg.Datasets.Enabled() {
		if err := os.MkdirAll(cfg.Datasets.Path, 0o755); err != nil {
			return nil, fmt.Errorf("create datasets dir: %w", err)
		}
		c.store, err = storage.NewFS(cfg.Datasets.Path)
		if err != nil {
			return nil, fmt.Errorf("init storage: %w", err)
		}
		c.db, err = catalog.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("init catalog: %w", err)
		}
		opts = append(opts, graphservice.WithDataset(c.store, c.db))
	}

	c.svc = graphservice.New(vocab, shapes, opts...)
	return c, nil
}

// sync brings the catalog up to date with the dataset directory.
func (c *components) sync(ctx context.Context, logger *slog.Logger) {
	if c.db == nil {
		return
	}
	if err := catalog.Sync(ctx, c.db, c.store, c.svc.Analyze, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}
}
