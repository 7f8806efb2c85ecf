package storage

import "errors"

// Sentinel kinds for storage errors.
var (
	// ErrAlreadyExists is returned by CreateEvent when the key is taken.
	ErrAlreadyExists = errors.New("event already exists")

	// ErrNotFound is returned by UpdateEvent when no record exists for
	// the event's key.
	ErrNotFound = errors.New("event not found")

	// ErrListUnsupported is returned by backends that refuse bulk
	// enumeration. This is a policy outcome, not a missing feature.
	ErrListUnsupported = errors.New("listing events is not supported")

	// ErrUnknownProvider is returned by the factory for an unrecognized
	// backend type.
	ErrUnknownProvider = errors.New("unknown storage provider type")

	// ErrNotInitialized is returned by a Registry before Init.
	ErrNotInitialized = errors.New("storage not initialized")

	// ErrTransport wraps non-success responses and network faults from
	// the bucket backend.
	ErrTransport = errors.New("storage transport failed")
)
