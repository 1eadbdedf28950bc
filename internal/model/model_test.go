package model

import (
	"encoding/json"
	"testing"
)

func TestLatLonWireFormat(t *testing.T) {
	var a Activity
	if err := json.Unmarshal([]byte(`{"title":"Casbah","coordinates":[36.78,3.06]}`), &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !a.Located() {
		t.Fatalf("expected activity to be located")
	}
	if a.Coordinates.Lat != 36.78 || a.Coordinates.Lon != 3.06 {
		t.Errorf("Expected 36.78,3.06 got %v", a.Coordinates)
	}
	pt := a.Coordinates.Point()
	if pt.Lon() != 3.06 || pt.Lat() != 36.78 {
		t.Errorf("orb point has wrong ordering: %v", pt)
	}

	var missing Activity
	if err := json.Unmarshal([]byte(`{"title":"x"}`), &missing); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if missing.Located() {
		t.Errorf("activity without coordinates must not be located")
	}

	var short LatLon
	if err := json.Unmarshal([]byte(`[1]`), &short); err == nil {
		t.Errorf("expected error for single-value coordinates")
	}
}

func TestParseCost(t *testing.T) {
	cases := map[string]float64{
		"Free":       0,
		"":           0,
		"500 DZD":    500,
		"1,200 DZD":  1200,
		"12.5":       12.5,
		"approx 300": 300,
		"1 200 000":  1200000,
		"500 1000":   500,
		"200-500":    200,
	}
	for in, want := range cases {
		if got := ParseCost(in); got != want {
			t.Errorf("ParseCost(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSurrogateIDStable(t *testing.T) {
	a := SurrogateID("Casbah", "Algiers", "historical")
	b := SurrogateID(" casbah ", "ALGIERS", "Historical")
	if a != b {
		t.Errorf("expected case/space-insensitive ids, got %s and %s", a, b)
	}
	if a == SurrogateID("Casbah", "Oran", "historical") {
		t.Errorf("different cities must produce different ids")
	}
}

func TestDayLodging(t *testing.T) {
	d := DayPlan{Accommodation: &Accommodation{Name: PlaceholderHotel}}
	if _, ok := d.Lodging(); ok {
		t.Errorf("placeholder accommodation must not count as lodging")
	}
	d.Accommodation = &Accommodation{Name: "El Djazair"}
	if acc, ok := d.Lodging(); !ok || acc.Name != "El Djazair" {
		t.Errorf("expected lodging El Djazair, got %v %v", acc, ok)
	}
	if _, ok := (DayPlan{}).Lodging(); ok {
		t.Errorf("nil accommodation must not count as lodging")
	}
}
