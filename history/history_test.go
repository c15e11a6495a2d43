package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ByLCY/safescan/config"
	"github.com/ByLCY/safescan/symbology"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveListDelete(t *testing.T) {
	s := openTestStore(t)

	first := config.New()
	first.Content = "https://example.com/a"
	second := config.New()
	second.Content = "4006381333931"
	second.Symbology = symbology.EAN13

	a, err := s.Save(first)
	if err != nil {
		t.Fatalf("Save first: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	b, err := s.Save(second)
	if err != nil {
		t.Fatalf("Save second: %v", err)
	}

	items, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].ID != b.ID || items[1].ID != a.ID {
		t.Fatal("items are not ordered newest first")
	}
	if items[0].Config.Content != "4006381333931" {
		t.Fatalf("round-tripped content = %q", items[0].Config.Content)
	}

	// Deleting one item leaves the rest and its order intact.
	if err := s.Delete(b.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	items, err = s.List()
	if err != nil {
		t.Fatalf("List after delete: %v", err)
	}
	if len(items) != 1 || items[0].ID != a.ID {
		t.Fatalf("unexpected items after delete: %+v", items)
	}

	if err := s.Delete("no-such-id"); err != nil {
		t.Fatalf("Delete of unknown id should be a no-op, got %v", err)
	}
}

func TestUpdatePreservesIdentity(t *testing.T) {
	s := openTestStore(t)

	cfg := config.New()
	cfg.Content = "original"
	saved, err := s.Save(cfg)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	time.Sleep(2 * time.Millisecond)
	other := config.New()
	other.Content = "filler"
	if _, err := s.Save(other); err != nil {
		t.Fatalf("Save filler: %v", err)
	}

	time.Sleep(2 * time.Millisecond)
	cfg.Content = "edited"
	if _, err := s.Update(saved.ID, cfg); err != nil {
		t.Fatalf("Update: %v", err)
	}

	items, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].ID != saved.ID {
		t.Fatal("updated item did not move to the top")
	}
	if items[0].Config.Content != "edited" {
		t.Fatalf("updated content = %q", items[0].Config.Content)
	}
}

func TestListSkipsCorruptRows(t *testing.T) {
	s := openTestStore(t)

	cfg := config.New()
	cfg.Content = "keep"
	if _, err := s.Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := s.db.Exec(`INSERT INTO items (id, created_at, config) VALUES ('bad', 1, 'not json')`); err != nil {
		t.Fatalf("insert corrupt row: %v", err)
	}

	items, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || items[0].Config.Content != "keep" {
		t.Fatalf("unexpected items: %+v", items)
	}
}
