package graphservice

import (
	"bytes"
	"context"
	"fmt"

	"github.com/starford/rowlet/internal/apperr"
	"github.com/starford/rowlet/internal/fuseki"
	"github.com/starford/rowlet/internal/ontology"
)

func (s *Service) requireRemote() error {
	if s.remote == nil {
		return fmt.Errorf("remote triple store: %w", apperr.ErrUnavailable)
	}
	return nil
}

// RemoteGraph converts the whole default graph of the remote store.
func (s *Service) RemoteGraph(ctx context.Context) (*ontology.Graph, error) {
	if err := s.requireRemote(); err != nil {
		return nil, err
	}
	body, format, err := s.remote.Construct(ctx, fuseki.GraphQuery())
	if err != nil {
		return nil, err
	}
	graph, err := s.Convert(ctx, bytes.NewReader(body), format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrUpstream, err)
	}
	return graph, nil
}

// RemoteValidate fetches the instances of every shape target class from
// the remote store and validates them.
func (s *Service) RemoteValidate(ctx context.Context) ([]string, error) {
	if err := s.requireRemote(); err != nil {
		return nil, err
	}
	shapes := s.validator.Shapes()
	if len(shapes) == 0 {
		return []string{}, nil
	}
	classes := make([]string, 0, len(shapes))
	for _, sh := range shapes {
		classes = append(classes, sh.TargetClass)
	}
	body, format, err := s.remote.Construct(ctx, fuseki.TargetQuery(classes))
	if err != nil {
		return nil, err
	}
	focus, err := s.Validate(ctx, bytes.NewReader(body), format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrUpstream, err)
	}
	return focus, nil
}
