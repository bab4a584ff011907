package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnavailable   = errors.New("not configured")
	ErrUpstream      = errors.New("remote triple store failed")
)
