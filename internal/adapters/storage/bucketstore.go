package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/michaelblawrence/5-or-die/internal/domain/model"
	"github.com/michaelblawrence/5-or-die/internal/domain/schema"
	"github.com/michaelblawrence/5-or-die/pkg/logger"
	"github.com/michaelblawrence/5-or-die/pkg/metrics"
)

const (
	defaultBucketTimeout = 15 * time.Second
	objectSuffix         = ".json"
	contentTypeJSON      = "application/json"
)

// BucketStore persists one event per object in an HTTP-addressable
// bucket: PUT to write, GET to read, DELETE to remove. Object addresses
// are derived from the configured base URL plus the event key and a
// fixed .json suffix. Every write is validated through the schema layer
// before any network call, and every read passes through schema
// decoding, so the bucket can never hand back a record the rest of the
// system does not understand.
//
// CreateEvent performs a blind upsert: the bucket is not consulted for
// pre-existence. UpdateEvent pre-reads to require existence; the
// pre-read and the write are not transactional, so a racing delete can
// slip between them.
type BucketStore struct {
	baseURL string
	client  *http.Client
	log     logger.Logger
}

var _ Provider = (*BucketStore)(nil)

// NewBucketStore constructs a bucket-backed store. The base URL is
// normalized to end in a slash so object addresses concatenate cleanly.
func NewBucketStore(baseURL string, opts ...BucketOption) *BucketStore {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	s := &BucketStore{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultBucketTimeout},
		log:     logger.Named("bucketstore"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// eventURL returns the object address for an event key.
func (s *BucketStore) eventURL(eventKey string) string {
	return s.baseURL + eventKey + objectSuffix
}

// CreateEvent validates and writes a new record. The bucket is not
// checked for a pre-existing object.
func (s *BucketStore) CreateEvent(ctx context.Context, event *model.Event) error {
	defer observe("bucket", "create", time.Now())
	if err := s.put(ctx, event); err != nil {
		metrics.RecordStorageOp("bucket", "create", "error")
		return err
	}
	s.log.Debug(ctx, "event created", logger.String("event_key", event.EventKey))
	metrics.RecordStorageOp("bucket", "create", "ok")
	return nil
}

// GetEvent reads the object for the key. A 404 means absent. Any other
// failure, transport faults included, is logged and collapsed to absent
// rather than surfaced: the read path trades error visibility for a
// single "no event here" answer.
func (s *BucketStore) GetEvent(ctx context.Context, eventKey string) (*model.Event, error) {
	defer observe("bucket", "get", time.Now())
	event, err := s.fetch(ctx, eventKey)
	if err != nil {
		s.log.Warn(ctx, "event fetch failed; treating as absent",
			logger.String("event_key", eventKey), logger.Error(err))
		metrics.RecordStorageOp("bucket", "get", "error")
		return nil, nil
	}
	metrics.RecordStorageOp("bucket", "get", "ok")
	return event, nil
}

// fetch performs the raw read, distinguishing absent from failed so
// GetEvent can log the latter before collapsing both to nil.
func (s *BucketStore) fetch(ctx context.Context, eventKey string) (*model.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.eventURL(eventKey), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: fetch event: %s", ErrTransport, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}
	return schema.Decode(body)
}

// UpdateEvent pre-reads to require existence, then validates and
// rewrites the object.
func (s *BucketStore) UpdateEvent(ctx context.Context, event *model.Event) error {
	defer observe("bucket", "update", time.Now())
	existing, err := s.GetEvent(ctx, event.EventKey)
	if err != nil {
		metrics.RecordStorageOp("bucket", "update", "error")
		return err
	}
	if existing == nil {
		metrics.RecordStorageOp("bucket", "update", "miss")
		return fmt.Errorf("%w: %s", ErrNotFound, event.EventKey)
	}
	if err := s.put(ctx, event); err != nil {
		metrics.RecordStorageOp("bucket", "update", "error")
		return err
	}
	s.log.Debug(ctx, "event updated", logger.String("event_key", event.EventKey))
	metrics.RecordStorageOp("bucket", "update", "ok")
	return nil
}

// put stamps the schema version, validates, and PUTs the object.
func (s *BucketStore) put(ctx context.Context, event *model.Event) error {
	body, err := schema.Encode(event)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.eventURL(event.EventKey), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", contentTypeJSON)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: write event: %s", ErrTransport, resp.Status)
	}
	return nil
}

// DeleteEvent removes the object. A 404 counts as success.
func (s *BucketStore) DeleteEvent(ctx context.Context, eventKey string) error {
	defer observe("bucket", "delete", time.Now())
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.eventURL(eventKey), nil)
	if err != nil {
		metrics.RecordStorageOp("bucket", "delete", "error")
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		metrics.RecordStorageOp("bucket", "delete", "error")
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if (resp.StatusCode < 200 || resp.StatusCode >= 300) && resp.StatusCode != http.StatusNotFound {
		metrics.RecordStorageOp("bucket", "delete", "error")
		return fmt.Errorf("%w: delete event: %s", ErrTransport, resp.Status)
	}
	s.log.Debug(ctx, "event deleted", logger.String("event_key", eventKey))
	metrics.RecordStorageOp("bucket", "delete", "ok")
	return nil
}

// ListEvents always refuses. Exposing bulk enumeration of a public
// bucket is a policy decision, not a missing feature.
func (s *BucketStore) ListEvents(_ context.Context) ([]*model.Event, error) {
	defer observe("bucket", "list", time.Now())
	metrics.RecordStorageOp("bucket", "list", "refused")
	return nil, ErrListUnsupported
}
