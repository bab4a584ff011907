package ontology

import (
	"log/slog"

	"github.com/starford/rowlet/internal/triplestore"
	"github.com/starford/rowlet/internal/vocabulary"
)

// Node is a display node of the output graph.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

// Link is a directed edge of the output graph. Its endpoints need not be
// present in the node list.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
}

// Graph is the node/link document consumed by the force-directed view.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// Builder transforms a triple store into a Graph.
type Builder struct {
	vocab    *vocabulary.Table
	resolver *Resolver
	filter   *NoiseFilter
	logger   *slog.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger makes the builder log dropped triples at debug level.
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = logger
	}
}

// NewBuilder returns a builder backed by vocab.
func NewBuilder(vocab *vocabulary.Table, opts ...BuilderOption) *Builder {
	b := &Builder{
		vocab:    vocab,
		resolver: NewResolver(vocab),
		filter:   NewNoiseFilter(vocab),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build walks every triple of store in load order. Non-noise triples emit a
// node for each endpoint with a display type and a link between them. Nodes
// are deduplicated by id and the first emitted entry wins.
func (b *Builder) Build(store *triplestore.Store) *Graph {
	var nodes []Node
	links := []Link{}

	for _, t := range store.Triples() {
		if reason := b.filter.Reason(t); reason != NotNoise {
			if b.logger != nil {
				b.logger.Debug("graph: skipped triple",
					slog.String("subject", t.S.String()),
					slog.String("predicate", t.P.Value),
					slog.String("reason", reason.String()))
			}
			continue
		}

		if typ, ok := b.resolver.Type(store, t.S); ok && b.vocab.IsOntologyClass(typ) {
			nodes = append(nodes, b.node(store, t.S, typ))
		}
		if typ, ok := b.resolver.Type(store, t.O); ok && (b.vocab.IsOntologyClass(typ) || typ == vocabulary.RDFSLiteral) {
			nodes = append(nodes, b.node(store, t.O, typ))
		}

		if !b.linkable(t) {
			continue
		}
		links = append(links, Link{
			Source: t.S.String(),
			Target: t.O.String(),
			Label:  PredicateLabel(t.P),
		})
	}

	return &Graph{Nodes: dedupeNodes(nodes), Links: links}
}

func (b *Builder) node(store *triplestore.Store, term triplestore.Term, typ string) Node {
	return Node{
		ID:    term.String(),
		Label: b.resolver.Label(store, term),
		Type:  typ,
	}
}

// linkable repeats the endpoint checks that guard link emission.
func (b *Builder) linkable(t triplestore.Triple) bool {
	if t.S.String() == t.O.String() {
		return false
	}
	if t.S.IsBlank() || t.O.IsBlank() {
		return false
	}
	return !b.filter.excluded(t.S) && !b.filter.excluded(t.O)
}

func dedupeNodes(nodes []Node) []Node {
	seen := make(map[string]struct{}, len(nodes))
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if _, ok := seen[n.ID]; ok {
			continue
		}
		seen[n.ID] = struct{}{}
		out = append(out, n)
	}
	return out
}
