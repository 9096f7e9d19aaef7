package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/studiowebux/arangotui/internal/types"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(filepath.Join(t.TempDir(), "nested", "history.db"), "http://localhost:8529")
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestSaveAndLoad(t *testing.T) {
	m := newTestManager(t)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.Local)
	entries := []types.QueryHistoryEntry{
		{Timestamp: base, Database: "shop", Query: "RETURN 1", Status: StatusSucceeded, ResultCount: 1, DurationMs: 3},
		{Timestamp: base.Add(time.Minute), Database: "shop", Query: "RETURN nope", Status: StatusFailed, Error: "syntax error"},
	}
	for _, e := range entries {
		if err := m.Save(e); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	got, err := m.Load(10)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Load returned %d entries, want 2", len(got))
	}

	newest := got[0]
	if newest.Query != "RETURN nope" || newest.Status != StatusFailed || newest.Error != "syntax error" {
		t.Errorf("newest entry = %+v", newest)
	}
	if newest.SessionID != m.SessionID() || newest.SessionID == "" {
		t.Errorf("session id = %q, want %q", newest.SessionID, m.SessionID())
	}
	if newest.Endpoint != "http://localhost:8529" {
		t.Errorf("endpoint = %q", newest.Endpoint)
	}
	if !newest.Timestamp.Equal(base.Add(time.Minute)) {
		t.Errorf("timestamp = %v, want %v", newest.Timestamp, base.Add(time.Minute))
	}
	if got[1].Error != "" || got[1].ResultCount != 1 {
		t.Errorf("oldest entry = %+v", got[1])
	}
}

func TestQueries_PerDatabaseDistinctNewestFirst(t *testing.T) {
	m := newTestManager(t)

	for _, e := range []types.QueryHistoryEntry{
		{Database: "shop", Query: "A", Status: StatusSucceeded},
		{Database: "shop", Query: "B", Status: StatusSucceeded},
		{Database: "test", Query: "C", Status: StatusSucceeded},
		{Database: "shop", Query: "A", Status: StatusSucceeded},
	} {
		if err := m.Save(e); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	got, err := m.Queries("shop", 10)
	if err != nil {
		t.Fatalf("Queries: %v", err)
	}
	if len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Errorf("Queries = %v, want [A B]", got)
	}
}

func TestDeleteClearCount(t *testing.T) {
	m := newTestManager(t)

	for i := 0; i < 3; i++ {
		if err := m.Save(types.QueryHistoryEntry{Database: "shop", Query: "RETURN 1", Status: StatusSucceeded}); err != nil {
			t.Fatal(err)
		}
	}

	entries, _ := m.Load(1)
	if err := m.Delete(entries[0].ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if n, _ := m.GetCount(); n != 2 {
		t.Errorf("count after delete = %d, want 2", n)
	}

	if err := m.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n, _ := m.GetCount(); n != 0 {
		t.Errorf("count after clear = %d, want 0", n)
	}
}

func TestSessionIDsDiffer(t *testing.T) {
	dir := t.TempDir()
	a, err := NewManager(filepath.Join(dir, "h.db"), "")
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	b, err := NewManager(filepath.Join(dir, "h.db"), "")
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	if a.SessionID() == b.SessionID() {
		t.Error("two managers share a session id")
	}
}

func TestRecall(t *testing.T) {
	r := NewRecall([]string{"newest", "older", "oldest"}, "draft")

	steps := []struct {
		prev bool
		want string
		ok   bool
	}{
		{true, "newest", true},
		{true, "older", true},
		{true, "oldest", true},
		{true, "oldest", false},
		{false, "older", true},
		{false, "newest", true},
		{false, "draft", true},
		{false, "draft", false},
	}

	for i, s := range steps {
		var got string
		var ok bool
		if s.prev {
			got, ok = r.Prev()
		} else {
			got, ok = r.Next()
		}
		if got != s.want || ok != s.ok {
			t.Errorf("step %d: got %q, %v; want %q, %v", i, got, ok, s.want, s.ok)
		}
	}
}

func TestRecall_Empty(t *testing.T) {
	r := NewRecall(nil, "draft")
	if got, ok := r.Prev(); ok || got != "draft" {
		t.Errorf("Prev on empty = %q, %v", got, ok)
	}
	if r.Len() != 0 {
		t.Errorf("Len = %d", r.Len())
	}
}
