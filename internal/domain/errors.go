package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrProviderFailure = errors.New("provider failure")
	ErrMalformedOutput = errors.New("malformed provider output")
	ErrSchemaViolation = errors.New("schema violation")
)
