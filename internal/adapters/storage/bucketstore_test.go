package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/michaelblawrence/5-or-die/internal/domain/schema"
)

// fakeBucket is an in-memory object store speaking the subset of HTTP
// the bucket backend uses: PUT, GET, and DELETE on /<key>.json.
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	puts    int
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: map[string][]byte{}}
}

func (b *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := strings.TrimPrefix(r.URL.Path, "/")
	switch r.Method {
	case http.MethodPut:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		b.puts++
		b.objects[key] = body
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		body, ok := b.objects[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", contentTypeJSON)
		_, _ = w.Write(body)
	case http.MethodDelete:
		if _, ok := b.objects[key]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		delete(b.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestBucketStore(t *testing.T) (*BucketStore, *fakeBucket) {
	t.Helper()
	bucket := newFakeBucket()
	srv := httptest.NewServer(bucket)
	t.Cleanup(srv.Close)
	// Deliberately no trailing slash: the constructor must normalize.
	return NewBucketStore(srv.URL), bucket
}

func TestBucketStore_BaseURLNormalization(t *testing.T) {
	withSlash := NewBucketStore("https://bucket.example.com/events/")
	withoutSlash := NewBucketStore("https://bucket.example.com/events")

	want := "https://bucket.example.com/events/abc.json"
	if got := withSlash.eventURL("abc"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if got := withoutSlash.eventURL("abc"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestBucketStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	store, bucket := newTestBucketStore(t)
	event := testEvent("ev1")

	if err := store.CreateEvent(ctx, event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := bucket.objects["ev1.json"]; !ok {
		t.Fatal("expected object ev1.json in bucket")
	}

	got, err := store.GetEvent(ctx, "ev1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("expected event, got nil")
	}
	if got.SchemaVersion != schema.CurrentVersion {
		t.Errorf("expected stamped schema version %q, got %q", schema.CurrentVersion, got.SchemaVersion)
	}
	if !reflect.DeepEqual(got, event) {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, event)
	}
}

// Unlike the file store, create does not pre-check existence: a second
// create for the same key silently overwrites. Documented asymmetry.
func TestBucketStore_CreateOverwrites(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestBucketStore(t)

	if err := store.CreateEvent(ctx, testEvent("ev1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second := testEvent("ev1")
	second.Name = "Replacement"
	if err := store.CreateEvent(ctx, second); err != nil {
		t.Fatalf("expected blind upsert to succeed, got %v", err)
	}

	got, err := store.GetEvent(ctx, "ev1")
	if err != nil || got == nil {
		t.Fatalf("unexpected result: %+v, %v", got, err)
	}
	if got.Name != "Replacement" {
		t.Errorf("expected last write to win, got name %q", got.Name)
	}
}

func TestBucketStore_ValidationBeforeNetwork(t *testing.T) {
	ctx := context.Background()
	store, bucket := newTestBucketStore(t)

	invalid := testEvent("ev1")
	invalid.EventKey = ""
	err := store.CreateEvent(ctx, invalid)
	if !errors.Is(err, schema.ErrInvalidEvent) {
		t.Errorf("expected ErrInvalidEvent, got %v", err)
	}
	if bucket.puts != 0 {
		t.Errorf("expected no network write for invalid event, saw %d", bucket.puts)
	}
}

func TestBucketStore_UpdateMissing(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestBucketStore(t)

	err := store.UpdateEvent(ctx, testEvent("never-created"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestBucketStore_Update(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestBucketStore(t)
	event := testEvent("ev1")

	if err := store.CreateEvent(ctx, event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	event.TeamsLocked = true
	if err := store.UpdateEvent(ctx, event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.GetEvent(ctx, "ev1")
	if err != nil || got == nil {
		t.Fatalf("unexpected result: %+v, %v", got, err)
	}
	if !got.TeamsLocked {
		t.Error("expected updated lock flag")
	}
}

func TestBucketStore_IdempotentDelete(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestBucketStore(t)

	if err := store.DeleteEvent(ctx, "never-created"); err != nil {
		t.Errorf("deleting a missing object must succeed, got %v", err)
	}

	if err := store.CreateEvent(ctx, testEvent("ev1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.DeleteEvent(ctx, "ev1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.DeleteEvent(ctx, "ev1"); err != nil {
		t.Errorf("second delete must succeed, got %v", err)
	}
}

func TestBucketStore_DeleteTransportError(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)
	store := NewBucketStore(srv.URL)

	err := store.DeleteEvent(ctx, "ev1")
	if !errors.Is(err, ErrTransport) {
		t.Errorf("expected ErrTransport, got %v", err)
	}
}

func TestBucketStore_ListRefused(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestBucketStore(t)

	if err := store.CreateEvent(ctx, testEvent("ev1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	events, err := store.ListEvents(ctx)
	if !errors.Is(err, ErrListUnsupported) {
		t.Errorf("expected ErrListUnsupported, got %v", err)
	}
	if events != nil {
		t.Errorf("expected no events, got %d", len(events))
	}
}

// The read path collapses every failure into "absent": a 404, a server
// error, an unreachable host, and an undecodable object all read as nil
// without an error.
func TestBucketStore_AbsentVersusDown(t *testing.T) {
	ctx := context.Background()

	t.Run("missing object", func(t *testing.T) {
		store, _ := newTestBucketStore(t)
		got, err := store.GetEvent(ctx, "nope")
		if err != nil || got != nil {
			t.Errorf("expected (nil, nil), got (%+v, %v)", got, err)
		}
	})

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		t.Cleanup(srv.Close)
		store := NewBucketStore(srv.URL)

		got, err := store.GetEvent(ctx, "ev1")
		if err != nil || got != nil {
			t.Errorf("expected (nil, nil), got (%+v, %v)", got, err)
		}
	})

	t.Run("transport fault", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		url := srv.URL
		srv.Close()
		store := NewBucketStore(url)

		got, err := store.GetEvent(ctx, "ev1")
		if err != nil || got != nil {
			t.Errorf("expected (nil, nil), got (%+v, %v)", got, err)
		}
	})

	t.Run("undecodable object", func(t *testing.T) {
		store, bucket := newTestBucketStore(t)
		bucket.objects["ev1.json"] = []byte(`{"schemaVersion": "99"}`)

		got, err := store.GetEvent(ctx, "ev1")
		if err != nil || got != nil {
			t.Errorf("expected (nil, nil), got (%+v, %v)", got, err)
		}
	})
}
