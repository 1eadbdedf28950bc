package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rendis/tourplan/internal/engine/geo"
	"github.com/rendis/tourplan/internal/model"
	"github.com/rendis/tourplan/internal/observability"
)

type Format string

const (
	FormatText    Format = "txt"
	FormatPDF     Format = "pdf"
	FormatGeoJSON Format = "geojson"
)

// DownloadDelay is the pause before a download is written, so the
// in-progress state is visible.
const DownloadDelay = time.Second

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(s, "."))); f {
	case FormatText, FormatPDF, FormatGeoJSON:
		return f, nil
	case "text":
		return FormatText, nil
	case "json":
		return FormatGeoJSON, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// FileName is the dated download name, e.g. algeria-itinerary-2025-03-14.txt.
func FileName(f Format, now time.Time) string {
	return fmt.Sprintf("algeria-itinerary-%s.%s", now.Format("2006-01-02"), f)
}

// Render encodes the itinerary in the given format.
func Render(f Format, it *model.ItineraryResponse) ([]byte, error) {
	if it == nil {
		return nil, fmt.Errorf("rendering %s: no itinerary", f)
	}
	switch f {
	case FormatText:
		return []byte(Text(it)), nil
	case FormatPDF:
		return PDF(it)
	case FormatGeoJSON:
		scene, err := geo.Build(it)
		if err != nil {
			return nil, fmt.Errorf("rendering geojson: %w", err)
		}
		return json.MarshalIndent(scene.FeatureCollection(), "", "  ")
	}
	return nil, fmt.Errorf("unknown export format %q", f)
}

// Downloader writes rendered itineraries into a directory.
type Downloader struct {
	Dir   string
	Delay time.Duration
	Now   func() time.Time
}

func NewDownloader(dir string) *Downloader {
	return &Downloader{Dir: dir, Delay: DownloadDelay, Now: time.Now}
}

// Save renders the itinerary and writes it under its dated file name,
// returning the written path.
func (d *Downloader) Save(ctx context.Context, f Format, it *model.ItineraryResponse) (path string, err error) {
	defer func() { observability.ObserveExport(string(f), err) }()

	if d.Delay > 0 {
		t := time.NewTimer(d.Delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return "", ctx.Err()
		case <-t.C:
		}
	}

	data, err := Render(f, it)
	if err != nil {
		return "", err
	}

	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating download directory: %w", err)
	}
	path = filepath.Join(dir, FileName(f, now()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
