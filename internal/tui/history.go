package tui

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rendis/tourplan/internal/engine/export"
	"github.com/rendis/tourplan/internal/tui/views"
)

const maxDownloads = 20

type downloadRecord struct {
	Path    string        `json:"path"`
	Format  export.Format `json:"format"`
	SavedAt time.Time     `json:"saved_at"`
}

// History keeps the most recent downloads in a small JSON file, newest
// first, one entry per path.
type History struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

func NewHistory(path string) *History {
	return &History{path: path, now: time.Now}
}

func (h *History) Entries() ([]views.DownloadEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	recs, err := h.read()
	if err != nil {
		return nil, err
	}
	out := make([]views.DownloadEntry, len(recs))
	for i, r := range recs {
		out[i] = views.DownloadEntry{Path: r.Path, Format: r.Format, SavedAt: r.SavedAt}
	}
	return out, nil
}

func (h *History) Record(path string, f export.Format) error {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	recs, err := h.read()
	if err != nil {
		return err
	}
	kept := make([]downloadRecord, 0, len(recs)+1)
	kept = append(kept, downloadRecord{Path: path, Format: f, SavedAt: h.now()})
	for _, r := range recs {
		if r.Path != path {
			kept = append(kept, r)
		}
	}
	if len(kept) > maxDownloads {
		kept = kept[:maxDownloads]
	}

	data, err := json.MarshalIndent(kept, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding download history: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return fmt.Errorf("creating history dir: %w", err)
	}
	if err := os.WriteFile(h.path, data, 0o644); err != nil {
		return fmt.Errorf("writing download history: %w", err)
	}
	return nil
}

func (h *History) read() ([]downloadRecord, error) {
	data, err := os.ReadFile(h.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading download history: %w", err)
	}
	var recs []downloadRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decoding download history: %w", err)
	}
	return recs, nil
}
