package storage

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Backend type tags accepted by the factory.
const (
	TypeFile   = "file"
	TypeBucket = "bucket"
)

// Config selects and parameterizes a backend.
type Config struct {
	// Type names the backend: TypeFile or TypeBucket.
	Type string

	// BucketURL is the base address of the object bucket. Required for
	// TypeBucket, ignored otherwise.
	BucketURL string

	// DataFile overrides the file store's table location. Optional.
	DataFile string

	// RequestTimeout bounds each bucket request. Optional; ignored by
	// the file backend.
	RequestTimeout time.Duration
}

// New constructs the backend named by cfg. Unknown or underspecified
// configurations fail fast so misconfiguration is caught at startup,
// not on first use.
func New(_ context.Context, cfg Config) (Provider, error) {
	switch cfg.Type {
	case TypeFile:
		return NewFileStore(WithPath(cfg.DataFile)), nil
	case TypeBucket:
		if cfg.BucketURL == "" {
			return nil, fmt.Errorf("%w: %q requires a bucket URL", ErrUnknownProvider, cfg.Type)
		}
		return NewBucketStore(cfg.BucketURL, WithTimeout(cfg.RequestTimeout)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Type)
	}
}

// Registry holds one active provider, chosen once at startup and
// injected wherever events are read or written. It is an explicit
// handle, not package-global state: construct it in main, pass it down.
type Registry struct {
	mu       sync.RWMutex
	provider Provider
}

// Init constructs and installs the backend named by cfg. Calling Init
// again replaces the previous backend.
func (r *Registry) Init(ctx context.Context, cfg Config) error {
	provider, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.provider = provider
	r.mu.Unlock()
	return nil
}

// Get returns the active provider, or ErrNotInitialized before Init.
func (r *Registry) Get() (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.provider == nil {
		return nil, ErrNotInitialized
	}
	return r.provider, nil
}
