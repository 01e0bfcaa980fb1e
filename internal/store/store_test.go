package store

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenRequiresDSN(t *testing.T) {
	t.Parallel()

	if _, err := Open("  "); err == nil {
		t.Error("Expected error for blank DSN")
	}
}

func TestCreateAndGet(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	g := &Generation{ID: "gen-1", Prompt: "draw a triangle"}
	if err := s.Create(g); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if g.Status != GenerationRunning {
		t.Errorf("Default status = %q, want running", g.Status)
	}

	got, err := s.Get("gen-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Prompt != "draw a triangle" || got.Status != GenerationRunning {
		t.Errorf("Unexpected record: %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not persisted")
	}
}

func TestCreateRequiresID(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	if err := s.Create(&Generation{Prompt: "no id"}); err == nil {
		t.Error("Expected error for record without ID")
	}
}

func TestUpdate(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	g := &Generation{ID: "gen-2", Prompt: "p"}
	if err := s.Create(g); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	g.Status = GenerationCompleted
	g.Commands = 7
	g.Dropped = 1
	g.DurationMS = 430
	if err := s.Update(g); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := s.Get("gen-2")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != GenerationCompleted || got.Commands != 7 || got.Dropped != 1 || got.DurationMS != 430 {
		t.Errorf("Update not persisted: %+v", got)
	}
}

func TestListAndClear(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	for _, id := range []string{"a", "b", "c"} {
		if err := s.Create(&Generation{ID: id, Prompt: "p-" + id}); err != nil {
			t.Fatalf("Create %s failed: %v", id, err)
		}
	}

	entries, err := s.List(2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("List limit ignored: got %d entries", len(entries))
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	entries, err = s.List(0)
	if err != nil {
		t.Fatalf("List after clear failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected empty log after clear, got %d entries", len(entries))
	}
}
