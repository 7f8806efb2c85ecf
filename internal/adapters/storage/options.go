package storage

import (
	"net/http"
	"time"

	"github.com/michaelblawrence/5-or-die/pkg/logger"
)

// FileOption applies a configuration option to a FileStore.
type FileOption func(*FileStore)

// WithPath sets the file holding the serialized event table.
func WithPath(path string) FileOption {
	return func(s *FileStore) {
		if path != "" {
			s.path = path
		}
	}
}

// WithFileLogger sets a custom logger for the file store.
func WithFileLogger(log logger.Logger) FileOption {
	return func(s *FileStore) {
		if log != nil {
			s.log = log
		}
	}
}

// BucketOption applies a configuration option to a BucketStore.
type BucketOption func(*BucketStore)

// WithHTTPClient sets the HTTP client used for bucket requests.
func WithHTTPClient(client *http.Client) BucketOption {
	return func(s *BucketStore) {
		if client != nil {
			s.client = client
		}
	}
}

// WithTimeout sets the per-request timeout on the bucket client.
func WithTimeout(timeout time.Duration) BucketOption {
	return func(s *BucketStore) {
		if timeout > 0 {
			s.client.Timeout = timeout
		}
	}
}

// WithBucketLogger sets a custom logger for the bucket store.
func WithBucketLogger(log logger.Logger) BucketOption {
	return func(s *BucketStore) {
		if log != nil {
			s.log = log
		}
	}
}
