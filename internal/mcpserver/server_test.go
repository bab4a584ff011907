package mcpserver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/rowlet/internal/graphservice"
	"github.com/starford/rowlet/internal/ontology"
	"github.com/starford/rowlet/internal/shacl"
	"github.com/starford/rowlet/internal/storage"
	"github.com/starford/rowlet/internal/testutil"
	"github.com/starford/rowlet/internal/vocabulary"
)

const star = shacl.StarNamespace

func testServer(t *testing.T) (*Server, storage.Provider) {
	t.Helper()
	_, store := testutil.TestDataset(t)
	svc := graphservice.New(vocabulary.NewTable(), shacl.DefaultShapes(),
		graphservice.WithDataset(store, testutil.TestDB(t)),
		graphservice.WithLogger(testutil.DiscardLogger()))
	return New(svc), store
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so the handlers are
	// called directly.
	handlers := map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"convert_rdf":        srv.convertRDF,
		"validate_rdf":       srv.validateRDF,
		"list_shapes":        srv.listShapes,
		"list_documents":     srv.listDocuments,
		"get_document_graph": srv.getDocumentGraph,
		"search_nodes":       srv.searchNodes,
		"import_rdf":         srv.importRDF,
		"get_graph_contract": srv.getGraphContract,
	}
	h, ok := handlers[name]
	if !ok {
		t.Fatalf("unknown tool: %s", name)
	}
	result, err := h(ctx, req)
	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestConvertRDF(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "convert_rdf", map[string]interface{}{"data": testutil.StarData})
	if r.IsError {
		t.Fatalf("convert failed: %s", resultText(r))
	}
	var g ontology.Graph
	if err := json.Unmarshal([]byte(resultText(r)), &g); err != nil {
		t.Fatal(err)
	}
	if len(g.Nodes) != 5 || len(g.Links) != 4 {
		t.Errorf("graph = %+v", g)
	}
}

func TestConvertRDFErrors(t *testing.T) {
	srv, _ := testServer(t)
	for _, args := range []map[string]interface{}{
		{},
		{"data": "x", "format": "yaml"},
		{"data": "star:A star:b ."},
	} {
		if r := callTool(t, srv, "convert_rdf", args); !r.IsError {
			t.Errorf("args %v: expected error, got %s", args, resultText(r))
		}
	}
}

func TestValidateRDF(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "validate_rdf", map[string]interface{}{"data": testutil.StarData, "format": "ttl"})
	var focus []string
	if err := json.Unmarshal([]byte(resultText(r)), &focus); err != nil {
		t.Fatalf("decode %q: %v", resultText(r), err)
	}
	if !reflect.DeepEqual(focus, []string{star + "Betelgeuse"}) {
		t.Errorf("focus = %q", focus)
	}
}

func TestValidateRDFWithShapes(t *testing.T) {
	srv, _ := testServer(t)
	shapes := `@prefix sh: <http://www.w3.org/ns/shacl#> .
@prefix star: <http://example.org/star-ontology/> .
star:Labelled sh:targetClass star:Star ;
    sh:property [ sh:path star:mass ; sh:minCount 1 ] .
`
	r := callTool(t, srv, "validate_rdf", map[string]interface{}{"data": testutil.StarData, "shapes": shapes})
	var focus []string
	_ = json.Unmarshal([]byte(resultText(r)), &focus)
	if !reflect.DeepEqual(focus, []string{star + "Betelgeuse", star + "Sirius"}) {
		t.Errorf("focus = %q", focus)
	}
}

func TestListShapes(t *testing.T) {
	srv, _ := testServer(t)
	text := resultText(callTool(t, srv, "list_shapes", map[string]interface{}{}))
	if !strings.Contains(text, star+"Star") {
		t.Errorf("shapes = %s", text)
	}
}

func TestDocumentsAndSearch(t *testing.T) {
	srv, _ := testServer(t)

	uri := "data:text/turtle;base64," + base64.StdEncoding.EncodeToString([]byte(testutil.StarData))
	r := callTool(t, srv, "import_rdf", map[string]interface{}{"url": uri, "path": "sky/stars.ttl"})
	if r.IsError {
		t.Fatalf("import failed: %s", resultText(r))
	}
	var res importResult
	_ = json.Unmarshal([]byte(resultText(r)), &res)
	if res.Path != "sky/stars.ttl" || !res.Created || res.Triples != 10 {
		t.Errorf("import = %+v", res)
	}
	if !reflect.DeepEqual(res.Violations, []string{star + "Betelgeuse"}) {
		t.Errorf("violations = %q", res.Violations)
	}

	text := resultText(callTool(t, srv, "list_documents", map[string]interface{}{}))
	if !strings.Contains(text, "sky/stars.ttl") {
		t.Errorf("list = %s", text)
	}

	r = callTool(t, srv, "get_document_graph", map[string]interface{}{"path": "sky/stars.ttl"})
	if r.IsError || !strings.Contains(resultText(r), `"label": "Sirius"`) {
		t.Errorf("graph = %s", resultText(r))
	}

	r = callTool(t, srv, "search_nodes", map[string]interface{}{"query": "Sirius", "limit": float64(5)})
	if !strings.Contains(resultText(r), star+"Sirius") {
		t.Errorf("search = %s", resultText(r))
	}
	r = callTool(t, srv, "search_nodes", map[string]interface{}{"query": "Vega"})
	if resultText(r) != "no nodes found" {
		t.Errorf("empty search = %s", resultText(r))
	}
}

func TestGetDocumentGraphMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_document_graph", map[string]interface{}{"path": "nope.ttl"})
	if !r.IsError {
		t.Error("expected error for missing document")
	}
}

func TestImportRDFRejects(t *testing.T) {
	srv, store := testServer(t)
	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"missing url", map[string]interface{}{}},
		{"bad scheme", map[string]interface{}{"url": "ftp://example.org/a.ttl"}},
		{"loopback", map[string]interface{}{"url": "http://127.0.0.1/a.ttl"}},
		{"not base64", map[string]interface{}{"url": "data:text/turtle,hello"}},
		{"unparseable", map[string]interface{}{
			"url":  "data:text/turtle;base64," + base64.StdEncoding.EncodeToString([]byte("not turtle")),
			"path": "bad.ttl",
		}},
		{"non-rdf path", map[string]interface{}{
			"url":  "data:text/turtle;base64," + base64.StdEncoding.EncodeToString([]byte(testutil.StarData)),
			"path": "notes.md",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if r := callTool(t, srv, "import_rdf", tt.args); !r.IsError {
				t.Errorf("expected error, got %s", resultText(r))
			}
		})
	}
	if metas, _ := store.List(""); len(metas) != 0 {
		t.Errorf("rejected imports left files: %+v", metas)
	}
}

func TestSanitizePath(t *testing.T) {
	tests := []struct{ in, want string }{
		{"sky/stars.ttl", "sky/stars.ttl"},
		{"../../etc/x.ttl", "etc/x.ttl"},
		{`dir\sub\a b.ttl`, "dir/sub/a_b.ttl"},
		{"./a//b.ttl", "a/b.ttl"},
		{"étoiles/vega.ttl", "_toiles/vega.ttl"},
	}
	for _, tt := range tests {
		if got := sanitizePath(tt.in); got != tt.want {
			t.Errorf("sanitizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := sanitizePath("../.."); !strings.HasSuffix(got, ".ttl") {
		t.Errorf("sanitizePath(../..) = %q", got)
	}
}

func TestFilenameFromURL(t *testing.T) {
	if got := filenameFromURL("https://example.org/data/stars.nt", ".ttl"); got != "stars.nt" {
		t.Errorf("got %q", got)
	}
	if got := filenameFromURL("https://example.org/sparql?x=1", ".rdf"); !strings.HasSuffix(got, ".rdf") {
		t.Errorf("got %q", got)
	}
	if got := filenameFromURL("data:text/turtle;base64,AA==", ""); !strings.HasSuffix(got, ".ttl") {
		t.Errorf("got %q", got)
	}
}

func TestGraphContract(t *testing.T) {
	srv, _ := testServer(t)
	text := resultText(callTool(t, srv, "get_graph_contract", map[string]interface{}{}))
	if text != GraphFormatContract {
		t.Error("contract tool does not return the contract")
	}
	contents, err := srv.readGraphFormatResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil || len(contents) != 1 {
		t.Fatalf("resource = %v, %v", contents, err)
	}
	if tc, ok := contents[0].(mcp.TextResourceContents); !ok || tc.URI != GraphFormatURI {
		t.Errorf("resource = %+v", contents[0])
	}
}
