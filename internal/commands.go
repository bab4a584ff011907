package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/starford/rowlet/internal/mcpserver"
)

// commandSetup wires the service for a one-shot command. Logs go to stderr
// so stdout carries only the command output.
func commandSetup(ctx context.Context, opts []Option, bo buildOptions) (*application, *components, *slog.Logger, error) {
	app := newApplication(opts)
	if app.config == nil {
		return nil, nil, nil, fmt.Errorf("config is required")
	}
	logger := newLogger(app.config.App.LogLevel, os.Stderr)
	slog.SetDefault(logger)

	comps, err := build(ctx, app.config, logger, bo)
	if err != nil {
		return nil, nil, nil, err
	}
	return app, comps, logger, nil
}

func writeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// RunGraph converts the RDF document at src ("-" for stdin) and writes the
// graph JSON to stdout. An empty format is inferred from the extension.
func RunGraph(ctx context.Context, src, format string, opts ...Option) error {
	app, comps, _, err := commandSetup(ctx, opts, buildOptions{})
	if err != nil {
		return err
	}
	defer comps.Close()

	in, f, err := openInput(src, format, app.stdin)
	if err != nil {
		return err
	}
	defer in.Close()

	g, err := comps.svc.Convert(ctx, in, f)
	if err != nil {
		return err
	}
	return writeIndented(app.stdout, g)
}

// RunValidate validates the RDF document at src and writes the failing
// focus nodes as a JSON array. A non-empty shapesPath replaces the
// configured shapes.
func RunValidate(ctx context.Context, src, format, shapesPath string, opts ...Option) error {
	app, comps, logger, err := commandSetup(ctx, opts, buildOptions{shapesPath: shapesPath})
	if err != nil {
		return err
	}
	defer comps.Close()

	in, f, err := openInput(src, format, app.stdin)
	if err != nil {
		return err
	}
	defer in.Close()

	focus, err := comps.svc.Validate(ctx, in, f)
	if err != nil {
		return err
	}
	logger.Info("validate: done", slog.String("source", src), slog.Int("violations", len(focus)))
	return writeIndented(app.stdout, focus)
}

// RunMCP syncs the dataset catalog and serves the MCP tools on stdio.
func RunMCP(ctx context.Context, opts ...Option) error {
	_, comps, logger, err := commandSetup(ctx, opts, buildOptions{datasets: true})
	if err != nil {
		return err
	}
	defer comps.Close()

	comps.sync(ctx, logger)
	logger.Info("mcp: serving on stdio")
	return mcpserver.New(comps.svc).ServeStdio()
}
