package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNew_CreatesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zerog.db")

	s, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("database file missing: %v", err)
	}
	if s.Path() != path {
		t.Errorf("Path() = %q, want %q", s.Path(), path)
	}
}

func TestNew_Migrates(t *testing.T) {
	s := newTestStore(t)

	for _, table := range []string{"settings", "hook_runs"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q missing: %v", table, err)
		}
	}

	var version int
	if err := s.DB().QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("read user_version: %v", err)
	}
	if version != len(migrations) {
		t.Errorf("user_version = %d, want %d", version, len(migrations))
	}
}

func TestNew_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zerog.db")

	s, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := s.Settings().Set("physics.gravity", "0.05"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	s.Close()

	s, err = New(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s.Close()

	got, err := s.Settings().Get("physics.gravity")
	if err != nil || got != "0.05" {
		t.Errorf("Get() = %q, %v after reopen", got, err)
	}
}

func TestNew_Memory(t *testing.T) {
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	if err := s.Settings().Set("a", "1"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if v, err := s.Settings().Get("a"); err != nil || v != "1" {
		t.Errorf("Get() = %q, %v", v, err)
	}
}

func TestStore_Close(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if _, err := s.DB().Exec("SELECT 1"); err == nil {
		t.Error("queries should fail after Close")
	}
}

func TestSettings(t *testing.T) {
	r := newTestStore(t).Settings()

	if _, err := r.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}

	if err := r.Set("physics.body_count", "10"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := r.Set("physics.body_count", "12"); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}
	if err := r.Set("drawing.snap_distance", "40"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if v, _ := r.Get("physics.body_count"); v != "12" {
		t.Errorf("Get() = %q, want 12", v)
	}

	all, err := r.All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	want := map[string]string{"physics.body_count": "12", "drawing.snap_distance": "40"}
	if len(all) != len(want) {
		t.Errorf("All() = %v, want %v", all, want)
	}
	for k, v := range want {
		if all[k] != v {
			t.Errorf("All()[%q] = %q, want %q", k, all[k], v)
		}
	}

	if err := r.Delete("physics.body_count"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := r.Delete("physics.body_count"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
	if _, err := r.Get("physics.body_count"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v", err)
	}
}

func TestHookRuns(t *testing.T) {
	r := newTestStore(t).HookRuns()
	session := uuid.New()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	runs := []*HookRun{
		{Plugin: "notify", Event: "all_cleared", SessionID: session, Success: true, Duration: 12 * time.Millisecond, CreatedAt: base},
		{Plugin: "notify", Event: "shape_committed", SessionID: session, Success: false, Error: "exit status 1", Duration: time.Second, CreatedAt: base.Add(time.Minute)},
		{Plugin: "logger", Event: "shape_committed", SessionID: session, Success: true, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, run := range runs {
		if err := r.Record(run); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
		if run.ID == uuid.Nil {
			t.Error("Record() did not assign an ID")
		}
	}

	got, err := r.Recent(2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Recent(2) returned %d runs", len(got))
	}
	if got[0].Plugin != "logger" || got[1].Event != "shape_committed" {
		t.Errorf("Recent() order = %s/%s, %s/%s", got[0].Plugin, got[0].Event, got[1].Plugin, got[1].Event)
	}
	if got[1].Success || got[1].Error != "exit status 1" || got[1].Duration != time.Second {
		t.Errorf("failed run = %+v", got[1])
	}
	if got[1].SessionID != session || got[1].ID != runs[1].ID {
		t.Errorf("IDs did not round-trip: %+v", got[1])
	}

	n, err := r.Prune(base.Add(90 * time.Second))
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Prune() removed %d, want 2", n)
	}
	if left, _ := r.Recent(10); len(left) != 1 {
		t.Errorf("%d runs left, want 1", len(left))
	}
}
