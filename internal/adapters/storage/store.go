// Package storage defines the event store contract, its errors, and the
// factory that selects a backend from configuration.
package storage

import (
	"context"
	"time"

	"github.com/michaelblawrence/5-or-die/internal/domain/model"
	"github.com/michaelblawrence/5-or-die/pkg/metrics"
)

// Provider gives read/write access to persisted events. Both backends
// satisfy it with the same observable behavior, with two documented
// exceptions: only the file backend pre-checks existence on create, and
// the bucket backend refuses ListEvents outright.
type Provider interface {
	// CreateEvent persists a new record. The file backend returns
	// ErrAlreadyExists when the key is taken; the bucket backend
	// performs a blind upsert.
	CreateEvent(ctx context.Context, event *model.Event) error

	// GetEvent returns the record for the key, or (nil, nil) when no
	// such record exists. Absence is never an error.
	GetEvent(ctx context.Context, eventKey string) (*model.Event, error)

	// UpdateEvent replaces an existing record wholesale. There are no
	// merge semantics: callers pass the full desired state. Returns
	// ErrNotFound when no record exists for the key.
	UpdateEvent(ctx context.Context, event *model.Event) error

	// DeleteEvent removes a record. Deleting a missing key is not an
	// error.
	DeleteEvent(ctx context.Context, eventKey string) error

	// ListEvents enumerates all known events. The bucket backend
	// returns ErrListUnsupported as policy.
	ListEvents(ctx context.Context) ([]*model.Event, error)
}

// observe records an operation's duration. Used as
// defer observe(backend, op, time.Now()) at the top of each operation.
func observe(backend, op string, start time.Time) {
	metrics.RecordStorageOpDuration(backend, op, float64(time.Since(start).Nanoseconds())/1e6)
}
