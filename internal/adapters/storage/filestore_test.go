package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/michaelblawrence/5-or-die/internal/domain/model"
	"github.com/michaelblawrence/5-or-die/internal/domain/schema"
	"github.com/michaelblawrence/5-or-die/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func testEvent(key string) *model.Event {
	return &model.Event{
		SchemaVersion: schema.CurrentVersion,
		EventKey:      key,
		AdminToken:    "admin-" + key,
		Name:          "Wednesday Futsal",
		Date:          "2025-09-03T18:30",
		Location:      "Mile End Leisure Centre",
		MaxPlayers:    10,
		PriceTotal:    70,
		Creator:       "Priya",
		Players: []model.Player{
			{Name: "Priya", HasPaid: false, Team: nil},
		},
	}
}

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(WithPath(filepath.Join(t.TempDir(), "events.json")))
}

func TestFileStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := newTestFileStore(t)
	event := testEvent("ev1")

	if err := store.CreateEvent(ctx, event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.GetEvent(ctx, "ev1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, event) {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, event)
	}
}

func TestFileStore_GetMissing(t *testing.T) {
	ctx := context.Background()
	store := newTestFileStore(t)

	got, err := store.GetEvent(ctx, "nope")
	if err != nil {
		t.Fatalf("absence must not be an error, got %v", err)
	}
	if got != nil {
		t.Errorf("expected nil event, got %+v", got)
	}
}

func TestFileStore_DuplicateCreate(t *testing.T) {
	ctx := context.Background()
	store := newTestFileStore(t)

	if err := store.CreateEvent(ctx, testEvent("ev1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := store.CreateEvent(ctx, testEvent("ev1"))
	if !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestFileStore_UpdateMissing(t *testing.T) {
	ctx := context.Background()
	store := newTestFileStore(t)

	err := store.UpdateEvent(ctx, testEvent("never-created"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFileStore_Update(t *testing.T) {
	ctx := context.Background()
	store := newTestFileStore(t)
	event := testEvent("ev1")

	if err := store.CreateEvent(ctx, event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	event.Players = append(event.Players, model.Player{Name: "Noah"})
	if err := store.UpdateEvent(ctx, event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.GetEvent(ctx, "ev1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Players) != 2 {
		t.Errorf("expected 2 players after update, got %d", len(got.Players))
	}
}

func TestFileStore_IdempotentDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestFileStore(t)

	if err := store.DeleteEvent(ctx, "never-created"); err != nil {
		t.Errorf("deleting a missing key must succeed, got %v", err)
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

	got, err := store.GetEvent(ctx, "ev1")
	if err != nil || got != nil {
		t.Errorf("expected event gone, got %+v, err %v", got, err)
	}
}

func TestFileStore_List(t *testing.T) {
	ctx := context.Background()
	store := newTestFileStore(t)

	for _, key := range []string{"ev1", "ev2", "ev3"} {
		if err := store.CreateEvent(ctx, testEvent(key)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	events, err := store.ListEvents(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 3 {
		t.Errorf("expected 3 events, got %d", len(events))
	}
	seen := map[string]bool{}
	for _, e := range events {
		seen[e.EventKey] = true
	}
	for _, key := range []string{"ev1", "ev2", "ev3"} {
		if !seen[key] {
			t.Errorf("missing event %s in list", key)
		}
	}
}

// Two callers build their update from the same snapshot; updates are
// whole-record replacements, so the second write erases the first
// caller's change. The store promises last-write-wins, not a merge.
func TestFileStore_LostUpdate(t *testing.T) {
	ctx := context.Background()
	store := newTestFileStore(t)
	event := testEvent("ev1")

	if err := store.CreateEvent(ctx, event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snapshotA, err := store.GetEvent(ctx, "ev1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snapshotB := snapshotA.Clone()

	snapshotA.Players = append(snapshotA.Players, model.Player{Name: "Ben"})
	if err := store.UpdateEvent(ctx, snapshotA); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snapshotB.TeamsLocked = true
	if err := store.UpdateEvent(ctx, snapshotB); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.GetEvent(ctx, "ev1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.TeamsLocked {
		t.Error("expected the second write's lock flag to survive")
	}
	if got.HasPlayer("Ben") {
		t.Error("expected the first write's player to be lost to the second write")
	}
}

func TestFileStore_CloneIsolation(t *testing.T) {
	ctx := context.Background()
	store := newTestFileStore(t)
	event := testEvent("ev1")

	if err := store.CreateEvent(ctx, event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Mutating the caller's copy after create must not leak into reads.
	event.Name = "mutated"
	got, err := store.GetEvent(ctx, "ev1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Wednesday Futsal" {
		t.Errorf("store leaked caller mutation: got name %q", got.Name)
	}
}

func TestFileStore_CorruptTable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "events.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	store := NewFileStore(WithPath(path))

	if _, err := store.GetEvent(ctx, "ev1"); err == nil {
		t.Error("expected an error reading a corrupt table")
	}
	if err := store.CreateEvent(ctx, testEvent("ev1")); err == nil {
		t.Error("expected an error writing over a corrupt table")
	}
}
