package domain

import "errors"

// common domain errors that cross component boundaries.
var (
	ErrNotFound           = errors.New("user not found")
	ErrInvalidUser        = errors.New("invalid user")
	ErrUnsupportedBackend = errors.New("unsupported backend")

	// ErrConnection marks failures reaching the relational store or the
	// cache, including credential resolution. Infrastructure wraps the
	// underlying cause so callers can still inspect it.
	ErrConnection = errors.New("backend connection failed")
)
