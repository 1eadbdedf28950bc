package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rendis/tourplan/internal/model"
)

func sample() *model.ItineraryResponse {
	return &model.ItineraryResponse{
		Success:         true,
		Title:           "2 days in Algiers",
		Summary:         "History and sea views.",
		TotalBudget:     50000,
		TotalTime:       7.5,
		HotelCost:       12000,
		RemainingBudget: 37600,
		Satisfaction:    87.3,
		Days: []model.DayPlan{
			{
				Day: 1, Title: "Old town", Location: "Algiers", TotalCost: 400, TotalTime: 4,
				Activities: []model.Activity{
					{Time: "9:00", Title: "Casbah", Category: "historical", Cost: "Free", Duration: "2h", Rating: 4.5,
						Coordinates: &model.LatLon{Lat: 36.785, Lon: 3.06}},
					{Time: "11:00", Title: "Bardo Museum", Category: "museum", Cost: "400 DZD", Duration: "2h", Rating: 4,
						Coordinates: &model.LatLon{Lat: 36.76, Lon: 3.04}},
				},
				Accommodation: &model.Accommodation{Name: "El Djazair", Type: "hotel", Price: 12000, Rating: 4.2},
			},
			{
				Day: 2, Title: "Coast", Location: "Algiers", TotalTime: 3.5,
				Activities: []model.Activity{
					{Time: "9:00", Title: "Sablettes", Category: "beach", Cost: "Free", Duration: "3h", Rating: 4,
						Coordinates: &model.LatLon{Lat: 36.74, Lon: 3.09}},
				},
				Accommodation: &model.Accommodation{Name: model.PlaceholderHotel},
			},
		},
	}
}

func TestFormatCurrency(t *testing.T) {
	cases := map[float64]string{
		0:       "0 DZD",
		950:     "950 DZD",
		12000:   "12,000 DZD",
		1234567: "1,234,567 DZD",
		399.6:   "400 DZD",
	}
	for in, want := range cases {
		if got := FormatCurrency(in); got != want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatHours(t *testing.T) {
	cases := map[float64]string{
		0:     "0h",
		2:     "2h",
		2.5:   "2h 30m",
		7.25:  "7h 15m",
		1.999: "2h",
	}
	for in, want := range cases {
		if got := FormatHours(in); got != want {
			t.Errorf("FormatHours(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestTextDocument(t *testing.T) {
	doc := Text(sample())
	if !strings.HasPrefix(doc, DocumentHeader+"\n2 days in Algiers\n\nHistory and sea views.\n") {
		t.Errorf("unexpected header:\n%s", doc)
	}
	for _, want := range []string{
		"SUMMARY:\nTotal Budget: 50,000 DZD\nTotal Time: 7h 30m\nHotel Cost: 12,000 DZD\nRemaining Budget: 37,600 DZD\nSatisfaction Score: 87.3%\n",
		"Day 1: Old town\nLocation: Algiers\nTotal Cost: 400 DZD\nTotal Time: 4h\n",
		"- 9:00: Casbah (historical)\n    Duration: 2h | Cost: Free | Rating: 4.5/5\n",
		"Accommodation: El Djazair\nType: hotel\nPrice: 12,000 DZD\nRating: 4.2/5\n",
		"Day 2: Coast",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document is missing %q", want)
		}
	}
	if !strings.HasSuffix(doc, DocumentFooter+"\n") {
		t.Errorf("missing footer")
	}
}

func TestFileName(t *testing.T) {
	now := time.Date(2025, 3, 4, 22, 0, 0, 0, time.UTC)
	if got := FileName(FormatText, now); got != "algeria-itinerary-2025-03-04.txt" {
		t.Errorf("got %s", got)
	}
	if got := FileName(FormatPDF, now); got != "algeria-itinerary-2025-03-04.pdf" {
		t.Errorf("got %s", got)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"txt": FormatText, ".PDF": FormatPDF, "json": FormatGeoJSON, "text": FormatText} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("docx"); err == nil {
		t.Errorf("expected error for docx")
	}
}

func TestRenderPDF(t *testing.T) {
	data, err := Render(FormatPDF, sample())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("output is not a pdf")
	}
}

func TestRenderGeoJSON(t *testing.T) {
	data, err := Render(FormatGeoJSON, sample())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	var fc struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(data, &fc); err != nil {
		t.Fatal(err)
	}
	// 3 attractions, 1 hotel (day 2 has the placeholder), 1 route (day 1).
	if fc.Type != "FeatureCollection" || len(fc.Features) != 5 {
		t.Errorf("unexpected collection: %s with %d features", fc.Type, len(fc.Features))
	}
}

func TestDownloaderSave(t *testing.T) {
	dir := t.TempDir()
	d := &Downloader{
		Dir: dir,
		Now: func() time.Time { return time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC) },
	}
	path, err := d.Save(context.Background(), FormatText, sample())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if path != filepath.Join(dir, "algeria-itinerary-2025-01-02.txt") {
		t.Errorf("unexpected path %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != Text(sample()) {
		t.Errorf("written file differs from rendered text")
	}
}

func TestDownloaderHonoursCancel(t *testing.T) {
	d := &Downloader{Dir: t.TempDir(), Delay: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := d.Save(ctx, FormatText, sample()); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

type fakeSharer struct{ err error }

func (f *fakeSharer) Share(context.Context, Payload) error { return f.err }

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) WriteText(s string) error {
	f.text = s
	return f.err
}

func TestShareNative(t *testing.T) {
	cb := &fakeClipboard{}
	out, err := Share(context.Background(), Host{Sharer: &fakeSharer{}, Clipboard: cb, URL: "http://x/r"}, sample())
	if err != nil || out != Shared {
		t.Fatalf("got %v, %v", out, err)
	}
	if cb.text != "" {
		t.Errorf("clipboard should be untouched")
	}
}

func TestShareFallsBackToClipboard(t *testing.T) {
	want := "2 days in Algiers\n\nHistory and sea views.\n\nView full itinerary: http://x/r"
	for name, sharer := range map[string]Sharer{
		"unsupported": nil,
		"failing":     &fakeSharer{err: errors.New("dismissed")},
	} {
		cb := &fakeClipboard{}
		out, err := Share(context.Background(), Host{Sharer: sharer, Clipboard: cb, URL: "http://x/r"}, sample())
		if err != nil || out != Copied {
			t.Errorf("%s: got %v, %v", name, out, err)
		}
		if cb.text != want {
			t.Errorf("%s: clipboard got %q", name, cb.text)
		}
	}
}

func TestShareWithoutCapabilities(t *testing.T) {
	_, err := Share(context.Background(), Host{}, sample())
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("Expected ErrUnsupported, got %v", err)
	}
}

func TestActionReverts(t *testing.T) {
	var a Action
	t0 := time.Now()
	if !a.Begin() {
		t.Fatal("first Begin should start")
	}
	if a.Begin() {
		t.Errorf("Begin while running should be rejected")
	}
	if a.State(t0.Add(time.Hour)) != InProgress {
		t.Errorf("in-progress actions never revert")
	}
	a.Finish(errors.New("disk full"), t0)
	if a.State(t0.Add(2*time.Second)) != Failed || a.Err() == nil {
		t.Errorf("Expected Failed within the settle window")
	}
	if a.State(t0.Add(SettleFor)) != Idle || a.Err() != nil {
		t.Errorf("Expected Idle after the settle window")
	}

	a.Begin()
	a.Finish(nil, t0)
	if a.State(t0) != Succeeded {
		t.Errorf("Expected Succeeded")
	}
}
