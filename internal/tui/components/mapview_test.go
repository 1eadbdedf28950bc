package components

import (
	"strings"
	"testing"

	"github.com/rendis/tourplan/internal/engine/geo"
	"github.com/rendis/tourplan/internal/model"
)

func at(lat, lon float64) *model.LatLon { return &model.LatLon{Lat: lat, Lon: lon} }

func fourDayScene(t *testing.T) geo.Scene {
	t.Helper()
	it := &model.ItineraryResponse{}
	for d := 1; d <= 4; d++ {
		base := float64(d)
		it.Days = append(it.Days, model.DayPlan{
			Day: d,
			Activities: []model.Activity{
				{Title: "a", Coordinates: at(35+base*0.1, 3+base*0.1)},
				{Title: "b", Coordinates: at(35.05+base*0.1, 3.2+base*0.1)},
			},
		})
	}
	s, err := geo.Build(it)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return s
}

func TestDrawLineEndpoints(t *testing.T) {
	var got [][2]int
	drawLine(0, 0, 4, 2, func(x, y int) { got = append(got, [2]int{x, y}) })
	if len(got) != 5 {
		t.Fatalf("Expected 5 dots, got %d: %v", len(got), got)
	}
	if got[0] != [2]int{0, 0} || got[len(got)-1] != [2]int{4, 2} {
		t.Errorf("unexpected endpoints %v", got)
	}
}

func TestSelectNextWraps(t *testing.T) {
	m := NewMapView(40, 10)
	m.SetScene(fourDayScene(t))
	n := len(m.Scene().Markers)

	first, ok := m.Selected()
	if !ok {
		t.Fatal("Expected first marker selected")
	}
	m.SelectNext(-1)
	last, _ := m.Selected()
	if last.ID != m.Scene().Markers[n-1].ID {
		t.Errorf("Expected wrap to last marker")
	}
	m.SelectNext(1)
	again, _ := m.Selected()
	if again.ID != first.ID {
		t.Errorf("Expected wrap back to first marker")
	}
}

func TestViewSize(t *testing.T) {
	m := NewMapView(30, 8)
	m.SetScene(fourDayScene(t))
	lines := strings.Split(strings.TrimRight(m.View(), "\n"), "\n")
	if len(lines) != 8 {
		t.Errorf("Expected 8 rows, got %d", len(lines))
	}

	m.ZoomIn()
	m.Pan(1, 1)
	if m.View() == "" {
		t.Error("zoomed view should still render")
	}
}

func TestEmptySceneExplains(t *testing.T) {
	m := NewMapView(30, 8)
	m.SetScene(geo.Scene{})
	if _, ok := m.Selected(); ok {
		t.Error("empty scene has no selection")
	}
	if !strings.Contains(m.View(), geo.ErrNoMapData.Error()) {
		t.Errorf("Expected empty-map notice, got %q", m.View())
	}
}

func TestLegendMarksDashedDays(t *testing.T) {
	m := NewMapView(30, 8)
	m.SetScene(fourDayScene(t))
	legend := m.Legend()
	for _, want := range []string{"day 1", "day 4", "╍╍", "hotel"} {
		if !strings.Contains(legend, want) {
			t.Errorf("legend missing %q: %s", want, legend)
		}
	}
}
