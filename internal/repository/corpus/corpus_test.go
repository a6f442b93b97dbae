package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"kdrama-recommender-be/internal/entity"
)

func TestNewRejectsDuplicateTitles(t *testing.T) {
	_, err := New([]entity.Drama{
		{Title: "Signal"},
		{Title: "signal "}, // case- and space-insensitive duplicate
	})
	if err == nil {
		t.Fatal("duplicate titles should fail corpus construction")
	}
}

func TestNewRejectsEmptyTitle(t *testing.T) {
	if _, err := New([]entity.Drama{{Title: "  "}}); err == nil {
		t.Fatal("blank title should fail corpus construction")
	}
}

func TestIndexOfCaseInsensitive(t *testing.T) {
	c, err := New([]entity.Drama{
		{Title: "Signal"},
		{Title: "Hospital Playlist"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	idx, ok := c.IndexOf("hospital playlist")
	if !ok || idx != 1 {
		t.Errorf("IndexOf(hospital playlist) = (%d, %v), want (1, true)", idx, ok)
	}
	if _, ok := c.IndexOf("Unknown"); ok {
		t.Error("unknown title should not resolve")
	}
}

func TestDocumentsSynthesis(t *testing.T) {
	c, err := New([]entity.Drama{{
		Title:       "Signal",
		Genre:       "Thriller",
		Description: "A detective",
		Cast:        "Lee Je-hoon",
	}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	want := "Signal Thriller A detective Lee Je-hoon"
	if got := c.Documents()[0]; got != want {
		t.Errorf("Documents()[0] = %q, want %q", got, want)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dramas.json")
	data := `[
		{"Title": "Signal", "Genre": "Thriller", "rating_value": "8.7"},
		{"Title": "Misaeng", "Genre": "Drama", "rating_value": 8.2}
	]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}

	// String and numeric rating fields both parse.
	if got := c.Item(0).Rating(); got != 8.7 {
		t.Errorf("Item(0).Rating() = %v, want 8.7", got)
	}
	if got := c.Item(1).Rating(); got != 8.2 {
		t.Errorf("Item(1).Rating() = %v, want 8.2", got)
	}
}

func TestLoadFromFileErrors(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file should error")
	}

	path := filepath.Join(t.TempDir(), "empty.json")
	os.WriteFile(path, []byte(`[]`), 0o644)
	if _, err := LoadFromFile(path); err == nil {
		t.Error("empty dataset should error")
	}
}
