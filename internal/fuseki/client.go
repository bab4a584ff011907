// Package fuseki is a minimal client for the SPARQL query endpoint of an
// Apache Jena Fuseki dataset.
package fuseki

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/geoknoesis/rdf-go/rdf"

	"github.com/starford/rowlet/internal/apperr"
	"github.com/starford/rowlet/internal/triplestore"
)

const (
	defaultTimeout = 30 * time.Second
	// Bytes of an error response kept in the returned error.
	errorExcerpt = 512
)

// Client queries one Fuseki dataset.
type Client struct {
	baseURL    string
	dataset    string
	httpClient *http.Client
	maxBody    int64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.httpClient.Timeout = d
		}
	}
}

// WithMaxBody caps the size of a CONSTRUCT response.
func WithMaxBody(n int64) Option {
	return func(cl *Client) {
		cl.maxBody = n
	}
}

// New creates a client for dataset on the server at baseURL.
func New(baseURL, dataset string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		dataset:    strings.Trim(dataset, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ping checks that the server answers.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/$/ping", nil)
	if err != nil {
		return fmt.Errorf("fuseki: create ping request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: ping: %w", apperr.ErrUpstream, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: ping returned status %d", apperr.ErrUpstream, resp.StatusCode)
	}
	return nil
}

// Construct runs a CONSTRUCT query and returns the serialized result with
// the format named by the response Content-Type (Turtle when absent).
func (c *Client) Construct(ctx context.Context, query string) ([]byte, rdf.Format, error) {
	endpoint := fmt.Sprintf("%s/%s/query", c.baseURL, c.dataset)

	data := url.Values{}
	data.Set("query", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, "", fmt.Errorf("fuseki: create query request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/turtle, application/n-triples;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: query: %w", apperr.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorExcerpt))
		return nil, "", fmt.Errorf("%w: query failed with status %d: %s",
			apperr.ErrUpstream, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var r io.Reader = resp.Body
	if c.maxBody > 0 {
		r = io.LimitReader(resp.Body, c.maxBody+1)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: read response: %w", apperr.ErrUpstream, err)
	}
	if c.maxBody > 0 && int64(len(body)) > c.maxBody {
		return nil, "", fmt.Errorf("%w: response exceeds %d bytes", apperr.ErrUpstream, c.maxBody)
	}

	format := rdf.FormatTurtle
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		f, ok := triplestore.FormatFromContentType(ct)
		if !ok {
			return nil, "", fmt.Errorf("%w: unexpected content type %q", apperr.ErrUpstream, ct)
		}
		format = f
	}
	return body, format, nil
}
