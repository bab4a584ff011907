// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Rowlet tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/geoknoesis/rdf-go/rdf"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/rowlet/internal/graphservice"
	"github.com/starford/rowlet/internal/triplestore"
)

// GraphFormatURI identifies the graph contract resource.
const GraphFormatURI = "rowlet://graph-format"

// Server wraps the MCP server with Rowlet tools.
type Server struct {
	mcp *server.MCPServer
	svc *graphservice.Service
}

// New creates a new MCP server with all Rowlet tools registered.
func New(svc *graphservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Rowlet",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("convert_rdf",
		mcp.WithDescription("Convert an RDF document into the node/link graph described by "+
			"the "+GraphFormatURI+" resource."),
		mcp.WithString("data", mcp.Required(), mcp.Description("The RDF document")),
		mcp.WithString("format", mcp.Description("turtle (default), ntriples, rdfxml, jsonld, trig or nquads")),
	), s.convertRDF)

	s.mcp.AddTool(mcp.NewTool("validate_rdf",
		mcp.WithDescription("Validate an RDF document and return the IRIs of the focus nodes "+
			"that violate a shape. Without shapes the configured shapes are used."),
		mcp.WithString("data", mcp.Required(), mcp.Description("The RDF document")),
		mcp.WithString("format", mcp.Description("Format of data, turtle by default")),
		mcp.WithString("shapes", mcp.Description("Optional SHACL shapes document")),
		mcp.WithString("shapes_format", mcp.Description("Format of shapes, turtle by default")),
	), s.validateRDF)

	s.mcp.AddTool(mcp.NewTool("list_shapes",
		mcp.WithDescription("List the configured shapes and their property constraints."),
	), s.listShapes)

	s.mcp.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List the catalogued dataset documents with their triple, node, "+
			"link and violation counts."),
	), s.listDocuments)

	s.mcp.AddTool(mcp.NewTool("get_document_graph",
		mcp.WithDescription("Convert one dataset document into a graph."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path of the document (e.g. stars/sky.ttl)")),
	), s.getDocumentGraph)

	s.mcp.AddTool(mcp.NewTool("search_nodes",
		mcp.WithDescription("Search catalogued nodes by label or IRI."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 20)")),
	), s.searchNodes)

	s.mcp.AddTool(mcp.NewTool("import_rdf",
		mcp.WithDescription("Download an RDF document from an http(s) or base64 data: URL and "+
			"store it in the dataset. The document must parse; it is validated on import."),
		mcp.WithString("url", mcp.Required(), mcp.Description("Source URL")),
		mcp.WithString("path", mcp.Description("Dataset path to store the document at (derived from the URL if empty)")),
	), s.importRDF)

	s.mcp.AddTool(mcp.NewTool("get_graph_contract",
		mcp.WithDescription("Returns the graph output contract. "+
			"Call this before interpreting convert_rdf results."),
	), s.getGraphContract)

	// Resource: graph output contract.
	s.mcp.AddResource(
		mcp.NewResource(GraphFormatURI, "Graph Format Contract",
			mcp.WithResourceDescription("The node/link document produced from RDF input."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readGraphFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func formatArg(req mcp.CallToolRequest, key string) (rdf.Format, error) {
	name := req.GetString(key, "")
	if name == "" {
		return rdf.FormatTurtle, nil
	}
	f, ok := triplestore.ParseFormat(name)
	if !ok {
		return "", fmt.Errorf("%s %q: %w", key, name, rdf.ErrUnsupportedFormat)
	}
	return f, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) convertRDF(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := req.RequireString("data")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	format, err := formatArg(req, "format")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	g, err := s.svc.Convert(ctx, strings.NewReader(data), format)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(g)
}

func (s *Server) validateRDF(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := req.RequireString("data")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	format, err := formatArg(req, "format")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var focus []string
	if shapes := req.GetString("shapes", ""); shapes != "" {
		shapesFormat, ferr := formatArg(req, "shapes_format")
		if ferr != nil {
			return mcp.NewToolResultError(ferr.Error()), nil
		}
		focus, err = s.svc.ValidateWithShapes(ctx,
			strings.NewReader(data), format,
			strings.NewReader(shapes), shapesFormat)
	} else {
		focus, err = s.svc.Validate(ctx, strings.NewReader(data), format)
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(focus)
}

func (s *Server) listShapes(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Shapes())
}

func (s *Server) listDocuments(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docs, err := s.svc.ListDocuments(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(docs)
}

func (s *Server) getDocumentGraph(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	g, err := s.svc.DocumentGraph(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(g)
}

func (s *Server) searchNodes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.SearchNodes(ctx, query, req.GetInt("limit", 20))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("no nodes found"), nil
	}
	return jsonResult(results)
}

func (s *Server) getGraphContract(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(GraphFormatContract), nil
}

func (s *Server) readGraphFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      GraphFormatURI,
			MIMEType: "text/markdown",
			Text:     GraphFormatContract,
		},
	}, nil
}
