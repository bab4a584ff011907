package graphservice

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/geoknoesis/rdf-go/rdf"

	"github.com/starford/rowlet/internal/apperr"
	"github.com/starford/rowlet/internal/catalog"
	"github.com/starford/rowlet/internal/shacl"
	"github.com/starford/rowlet/internal/storage"
	"github.com/starford/rowlet/internal/testutil"
	"github.com/starford/rowlet/internal/triplestore"
	"github.com/starford/rowlet/internal/vocabulary"
)

const star = shacl.StarNamespace

type fakeRemote struct {
	mu      sync.Mutex
	body    string
	format  rdf.Format
	err     error
	queries []string
}

func (f *fakeRemote) Ping(context.Context) error { return f.err }

func (f *fakeRemote) Construct(_ context.Context, query string) ([]byte, rdf.Format, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, "", f.err
	}
	return []byte(f.body), f.format, nil
}

func newService(opts ...Option) *Service {
	opts = append([]Option{WithLogger(testutil.DiscardLogger())}, opts...)
	return New(vocabulary.NewTable(), shacl.DefaultShapes(), opts...)
}

func TestConvert(t *testing.T) {
	g, err := newService().Convert(context.Background(), strings.NewReader(testutil.StarData), rdf.FormatTurtle)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if len(g.Nodes) != 5 || len(g.Links) != 4 {
		t.Errorf("graph = %+v", g)
	}
}

func TestConvertParseError(t *testing.T) {
	_, err := newService().Convert(context.Background(), strings.NewReader("star:A star:b ."), rdf.FormatTurtle)
	var pe *triplestore.ParseError
	if !errors.As(err, &pe) {
		t.Errorf("err = %v, want ParseError", err)
	}
}

func TestConvertMaxTriples(t *testing.T) {
	svc := newService(WithMaxTriples(2))
	if _, err := svc.Convert(context.Background(), strings.NewReader(testutil.StarData), rdf.FormatTurtle); err == nil {
		t.Error("expected error above the triple limit")
	}
}

func TestValidate(t *testing.T) {
	got, err := newService().Validate(context.Background(), strings.NewReader(testutil.StarData), rdf.FormatTurtle)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !reflect.DeepEqual(got, []string{star + "Betelgeuse"}) {
		t.Errorf("Validate = %q", got)
	}
}

func TestValidateWithShapes(t *testing.T) {
	shapes := `@prefix sh: <http://www.w3.org/ns/shacl#> .
@prefix star: <http://example.org/star-ontology/> .
star:Strict sh:targetClass star:Star ;
    sh:property [ sh:path star:luminosity ; sh:maxInclusive 1.0 ] .
`
	got, err := newService().ValidateWithShapes(context.Background(),
		strings.NewReader(testutil.StarData), rdf.FormatTurtle,
		strings.NewReader(shapes), rdf.FormatTurtle)
	if err != nil {
		t.Fatalf("ValidateWithShapes: %v", err)
	}
	if !reflect.DeepEqual(got, []string{star + "Betelgeuse", star + "Sirius"}) {
		t.Errorf("ValidateWithShapes = %q", got)
	}
}

func TestValidateWithInvalidShapes(t *testing.T) {
	shapes := `@prefix sh: <http://www.w3.org/ns/shacl#> .
<http://ex.org/S> a sh:NodeShape .
`
	_, err := newService().ValidateWithShapes(context.Background(),
		strings.NewReader(testutil.StarData), rdf.FormatTurtle,
		strings.NewReader(shapes), rdf.FormatTurtle)
	if !errors.Is(err, shacl.ErrInvalidShape) {
		t.Errorf("err = %v, want ErrInvalidShape", err)
	}
}

func TestRemoteUnavailable(t *testing.T) {
	svc := newService()
	if _, err := svc.RemoteGraph(context.Background()); !errors.Is(err, apperr.ErrUnavailable) {
		t.Errorf("RemoteGraph err = %v", err)
	}
	if _, err := svc.RemoteValidate(context.Background()); !errors.Is(err, apperr.ErrUnavailable) {
		t.Errorf("RemoteValidate err = %v", err)
	}
	if err := svc.Ready(context.Background()); err != nil {
		t.Errorf("Ready without remote = %v", err)
	}
}

func TestRemoteGraphAndValidate(t *testing.T) {
	remote := &fakeRemote{body: testutil.StarData, format: rdf.FormatTurtle}
	svc := newService(WithRemote(remote))

	g, err := svc.RemoteGraph(context.Background())
	if err != nil {
		t.Fatalf("RemoteGraph: %v", err)
	}
	if len(g.Nodes) != 5 {
		t.Errorf("nodes = %+v", g.Nodes)
	}

	focus, err := svc.RemoteValidate(context.Background())
	if err != nil {
		t.Fatalf("RemoteValidate: %v", err)
	}
	if !reflect.DeepEqual(focus, []string{star + "Betelgeuse"}) {
		t.Errorf("focus = %q", focus)
	}
	if len(remote.queries) != 2 || !strings.Contains(remote.queries[1], "<"+star+"Star>") {
		t.Errorf("queries = %q", remote.queries)
	}
}

func TestRemoteFailures(t *testing.T) {
	down := newService(WithRemote(&fakeRemote{err: apperr.ErrUpstream}))
	if _, err := down.RemoteGraph(context.Background()); !errors.Is(err, apperr.ErrUpstream) {
		t.Errorf("err = %v, want ErrUpstream", err)
	}
	if err := down.Ready(context.Background()); err == nil {
		t.Error("Ready should report the failing remote")
	}

	garbage := newService(WithRemote(&fakeRemote{body: "<<<", format: rdf.FormatTurtle}))
	if _, err := garbage.RemoteGraph(context.Background()); !errors.Is(err, apperr.ErrUpstream) {
		t.Errorf("unparseable remote body: err = %v, want ErrUpstream", err)
	}
}

func datasetService(t *testing.T) (*Service, storage.Provider, *catalog.DB, *[]string) {
	t.Helper()
	_, store := testutil.TestDataset(t)
	db := testutil.TestDB(t)
	var events []string
	svc := newService(WithDataset(store, db), WithChangeHook(func(kind, path string) {
		events = append(events, kind+":"+path)
	}))
	return svc, store, db, &events
}

func TestDocumentsUnavailable(t *testing.T) {
	svc := newService()
	if _, err := svc.ListDocuments(context.Background()); !errors.Is(err, apperr.ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestPutGetDeleteDocument(t *testing.T) {
	svc, store, _, events := datasetService(t)
	ctx := context.Background()

	detail, created, err := svc.PutDocument(ctx, "stars.ttl", []byte(testutil.StarData), "")
	if err != nil {
		t.Fatalf("PutDocument: %v", err)
	}
	if !created {
		t.Error("first put should create")
	}
	if detail.Triples != 10 || detail.Nodes != 5 || detail.Links != 4 || detail.Violations != 1 {
		t.Errorf("detail = %+v", detail.Document)
	}
	if !reflect.DeepEqual(detail.Focus, []string{star + "Betelgeuse"}) {
		t.Errorf("focus = %q", detail.Focus)
	}
	if detail.Format != string(rdf.FormatTurtle) {
		t.Errorf("format = %q", detail.Format)
	}

	// Optimistic concurrency.
	if _, _, err := svc.PutDocument(ctx, "stars.ttl", []byte(testutil.StarData), "stale"); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("stale If-Match: err = %v, want ErrConflict", err)
	}
	_, created, err = svc.PutDocument(ctx, "stars.ttl", []byte(testutil.StarData), detail.Checksum)
	if err != nil || created {
		t.Errorf("matching If-Match: created=%v err=%v", created, err)
	}

	got, err := svc.GetDocument(ctx, "stars.ttl")
	if err != nil || got.Path != "stars.ttl" {
		t.Fatalf("GetDocument = %+v, %v", got, err)
	}

	g, err := svc.DocumentGraph(ctx, "stars.ttl")
	if err != nil || len(g.Nodes) != 5 {
		t.Errorf("DocumentGraph = %+v, %v", g, err)
	}

	hits, err := svc.SearchNodes(ctx, "Sirius", 10)
	if err != nil || len(hits) != 1 {
		t.Errorf("SearchNodes = %+v, %v", hits, err)
	}

	if err := svc.DeleteDocument(ctx, "stars.ttl"); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	if _, err := store.Read("stars.ttl"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("file survived delete: %v", err)
	}
	if _, err := svc.GetDocument(ctx, "stars.ttl"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("catalog entry survived delete: %v", err)
	}

	want := []string{"created:stars.ttl", "updated:stars.ttl", "deleted:stars.ttl"}
	if !reflect.DeepEqual(*events, want) {
		t.Errorf("events = %q, want %q", *events, want)
	}
}

func TestPutDocumentAnalysesOnce(t *testing.T) {
	_, store := testutil.TestDataset(t)
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	svc := New(vocabulary.NewTable(), shacl.DefaultShapes(),
		WithDataset(store, testutil.TestDB(t)), WithLogger(logger))

	detail, _, err := svc.PutDocument(context.Background(), "stars.ttl", []byte(testutil.StarData), "")
	if err != nil {
		t.Fatalf("PutDocument: %v", err)
	}
	if detail.Violations != 1 {
		t.Errorf("detail = %+v", detail)
	}
	if n := strings.Count(buf.String(), "documents: analysed"); n != 1 {
		t.Errorf("document analysed %d times, want 1", n)
	}
}

func TestPutDocumentRejectsInvalidRDF(t *testing.T) {
	svc, store, _, events := datasetService(t)
	_, _, err := svc.PutDocument(context.Background(), "bad.ttl", []byte("this is not turtle"), "")
	var pe *triplestore.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want ParseError", err)
	}
	if _, err := store.Read("bad.ttl"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("invalid document was written: %v", err)
	}
	if len(*events) != 0 {
		t.Errorf("events = %q", *events)
	}
}

func TestPutDocumentIfMatchOnMissing(t *testing.T) {
	svc, _, _, _ := datasetService(t)
	_, _, err := svc.PutDocument(context.Background(), "new.ttl", []byte(testutil.StarData), "abc")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestAnalyzeUnknownExtension(t *testing.T) {
	_, err := newService().Analyze(context.Background(), "notes.md", []byte("x"))
	if !errors.Is(err, rdf.ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}
