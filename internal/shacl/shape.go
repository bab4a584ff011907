// Package shacl evaluates a small subset of SHACL property constraints
// against instance data.
package shacl

import (
	"errors"
	"fmt"
	"net/url"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrInvalidShape is returned when a shapes document declares a shape that
// cannot be evaluated.
var ErrInvalidShape = errors.New("invalid shape")

// PropertyConstraint restricts the values of one property of a focus node.
// Nil fields are not checked.
type PropertyConstraint struct {
	Path         string   `json:"path" yaml:"path"`
	Datatype     string   `json:"datatype,omitempty" yaml:"datatype,omitempty"`
	MinCount     *int     `json:"min_count,omitempty" yaml:"min_count,omitempty"`
	MinInclusive *float64 `json:"min_inclusive,omitempty" yaml:"min_inclusive,omitempty"`
	MaxInclusive *float64 `json:"max_inclusive,omitempty" yaml:"max_inclusive,omitempty"`
}

// Validate validates the constraint.
func (c PropertyConstraint) Validate() error {
	if err := validation.ValidateStruct(&c,
		validation.Field(&c.Path, validation.Required, validation.By(absoluteIRI)),
		validation.Field(&c.Datatype, validation.By(absoluteIRI)),
		validation.Field(&c.MinCount, validation.Min(0)),
	); err != nil {
		return err
	}
	if c.MinInclusive != nil && c.MaxInclusive != nil && *c.MinInclusive > *c.MaxInclusive {
		return fmt.Errorf("path %s: min_inclusive %v is greater than max_inclusive %v",
			c.Path, *c.MinInclusive, *c.MaxInclusive)
	}
	return nil
}

// Shape is a set of constraints on every instance of TargetClass.
type Shape struct {
	// Name is the shape node, used in diagnostics.
	Name        string               `json:"name,omitempty" yaml:"name,omitempty"`
	TargetClass string               `json:"target_class" yaml:"target_class"`
	Constraints []PropertyConstraint `json:"constraints" yaml:"constraints"`
}

// Validate validates the shape and its constraints.
func (s Shape) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.TargetClass, validation.Required, validation.By(absoluteIRI)),
		validation.Field(&s.Constraints),
	)
}

func absoluteIRI(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return errors.New("must be an absolute IRI")
	}
	return nil
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
