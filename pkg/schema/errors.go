package schema

import "errors"

var (
	// ErrEmptyDocument is returned when a schema payload has no content.
	ErrEmptyDocument = errors.New("schema: document is empty")
	// ErrInvalidDocument wraps payloads that are neither JSON nor YAML or that
	// fail structural validation.
	ErrInvalidDocument = errors.New("schema: invalid document")
)
