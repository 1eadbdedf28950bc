package tui

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rendis/tourplan/internal/engine/export"
)

func TestHistoryNewestFirstWithoutDuplicates(t *testing.T) {
	dir := t.TempDir()
	h := NewHistory(filepath.Join(dir, "nested", "downloads.json"))
	clock := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	h.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.pdf")
	for _, rec := range []struct {
		path string
		f    export.Format
	}{{a, export.FormatText}, {b, export.FormatPDF}, {a, export.FormatText}} {
		if err := h.Record(rec.path, rec.f); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := h.Entries()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(got))
	}
	if got[0].Path != a || got[1].Path != b {
		t.Errorf("unexpected order %q, %q", got[0].Path, got[1].Path)
	}
	if got[1].Format != export.FormatPDF {
		t.Errorf("Expected pdf format, got %q", got[1].Format)
	}
}

func TestHistoryMissingFile(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "none.json"))
	got, err := h.Entries()
	if err != nil || len(got) != 0 {
		t.Errorf("Expected empty history, got %v, %v", got, err)
	}
}

func TestHistoryIsCapped(t *testing.T) {
	dir := t.TempDir()
	h := NewHistory(filepath.Join(dir, "downloads.json"))
	for i := 0; i < maxDownloads+5; i++ {
		if err := h.Record(filepath.Join(dir, time.Duration(i).String()+".txt"), export.FormatText); err != nil {
			t.Fatal(err)
		}
	}
	got, _ := h.Entries()
	if len(got) != maxDownloads {
		t.Errorf("Expected %d entries, got %d", maxDownloads, len(got))
	}
}
