package schema

import "errors"

// Sentinel kinds for schema errors.
var (
	// ErrUnknownVersion marks a record whose schemaVersion discriminator
	// is missing or not recognized. Unknown versions fail closed; they
	// are never coerced to a known shape.
	ErrUnknownVersion = errors.New("unknown schema version")

	// ErrInvalidEvent marks a record that carries a known version but
	// fails structural validation.
	ErrInvalidEvent = errors.New("invalid event")
)
