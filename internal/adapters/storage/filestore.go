package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/michaelblawrence/5-or-die/internal/domain/model"
	"github.com/michaelblawrence/5-or-die/pkg/logger"
	"github.com/michaelblawrence/5-or-die/pkg/metrics"
)

// defaultDataFile is the single fixed location holding the whole event
// table when no path is configured.
const defaultDataFile = "five-or-die-events.json"

// FileStore persists all events as one serialized mapping from event
// key to record, stored in a single JSON file. Every operation is a
// full-table read followed by a full-table rewrite; there is no partial
// update and no indexing. A mutex serializes same-process callers, but
// two processes sharing the file race at whole-table granularity with
// last-writer-wins.
type FileStore struct {
	mu   sync.Mutex
	path string
	log  logger.Logger
}

var _ Provider = (*FileStore)(nil)

// NewFileStore constructs a file-backed store.
func NewFileStore(opts ...FileOption) *FileStore {
	s := &FileStore{
		path: defaultDataFile,
		log:  logger.Named("filestore"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// getEvents reads the whole table. A missing file is an empty table.
func (s *FileStore) getEvents() (map[string]*model.Event, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]*model.Event{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read event table: %w", err)
	}
	events := map[string]*model.Event{}
	if len(data) == 0 {
		return events, nil
	}
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("decode event table: %w", err)
	}
	return events, nil
}

// saveEvents rewrites the whole table.
func (s *FileStore) saveEvents(events map[string]*model.Event) error {
	data, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("encode event table: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write event table: %w", err)
	}
	return nil
}

// CreateEvent inserts a new record, failing when the key is taken.
func (s *FileStore) CreateEvent(ctx context.Context, event *model.Event) error {
	defer observe("file", "create", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.getEvents()
	if err != nil {
		metrics.RecordStorageOp("file", "create", "error")
		return err
	}
	if _, ok := events[event.EventKey]; ok {
		metrics.RecordStorageOp("file", "create", "conflict")
		return fmt.Errorf("%w: %s", ErrAlreadyExists, event.EventKey)
	}
	events[event.EventKey] = event.Clone()
	if err := s.saveEvents(events); err != nil {
		metrics.RecordStorageOp("file", "create", "error")
		return err
	}
	s.log.Debug(ctx, "event created", logger.String("event_key", event.EventKey))
	metrics.RecordStorageOp("file", "create", "ok")
	metrics.SetTrackedEvents(len(events))
	return nil
}

// GetEvent returns the record for the key, or (nil, nil) when absent.
func (s *FileStore) GetEvent(_ context.Context, eventKey string) (*model.Event, error) {
	defer observe("file", "get", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.getEvents()
	if err != nil {
		metrics.RecordStorageOp("file", "get", "error")
		return nil, err
	}
	metrics.RecordStorageOp("file", "get", "ok")
	return events[eventKey].Clone(), nil
}

// UpdateEvent replaces an existing record wholesale.
func (s *FileStore) UpdateEvent(ctx context.Context, event *model.Event) error {
	defer observe("file", "update", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.getEvents()
	if err != nil {
		metrics.RecordStorageOp("file", "update", "error")
		return err
	}
	if _, ok := events[event.EventKey]; !ok {
		metrics.RecordStorageOp("file", "update", "miss")
		return fmt.Errorf("%w: %s", ErrNotFound, event.EventKey)
	}
	events[event.EventKey] = event.Clone()
	if err := s.saveEvents(events); err != nil {
		metrics.RecordStorageOp("file", "update", "error")
		return err
	}
	s.log.Debug(ctx, "event updated", logger.String("event_key", event.EventKey))
	metrics.RecordStorageOp("file", "update", "ok")
	return nil
}

// DeleteEvent removes a record. Deleting a missing key is a no-op.
func (s *FileStore) DeleteEvent(ctx context.Context, eventKey string) error {
	defer observe("file", "delete", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.getEvents()
	if err != nil {
		metrics.RecordStorageOp("file", "delete", "error")
		return err
	}
	delete(events, eventKey)
	if err := s.saveEvents(events); err != nil {
		metrics.RecordStorageOp("file", "delete", "error")
		return err
	}
	s.log.Debug(ctx, "event deleted", logger.String("event_key", eventKey))
	metrics.RecordStorageOp("file", "delete", "ok")
	metrics.SetTrackedEvents(len(events))
	return nil
}

// ListEvents returns every record in the table.
func (s *FileStore) ListEvents(_ context.Context) ([]*model.Event, error) {
	defer observe("file", "list", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.getEvents()
	if err != nil {
		metrics.RecordStorageOp("file", "list", "error")
		return nil, err
	}
	out := make([]*model.Event, 0, len(events))
	for _, e := range events {
		out = append(out, e.Clone())
	}
	metrics.RecordStorageOp("file", "list", "ok")
	return out, nil
}
