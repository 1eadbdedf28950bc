package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rendis/tourplan/internal/model"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"Grande Mosquée Alger":   "grande mosquee alger",
		"  Jardin d'Essai  ":     "jardin d essai",
		"Martyrs' Memorial!!":    "martyrs memorial",
		"Bordj--El   Kiffan 2":   "bordj el kiffan 2",
		"":                       "",
		"---":                    "",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDefaultTable(t *testing.T) {
	tbl := Default()
	if got := tbl.Attraction("LA CASBAH D'ALGER"); got != "/destinations/La-casbah-dAlger.jpg" {
		t.Errorf("unexpected casbah image %q", got)
	}
	if got := tbl.Attraction("Unknown Ruins"); got != "/image-1.png" {
		t.Errorf("Expected fallback, got %q", got)
	}
	if got := tbl.Hotel(model.Hotel{Image: "sheraton.jpg"}); got != "/Hotels/sheraton.jpg" {
		t.Errorf("unexpected hotel image %q", got)
	}
	if got := tbl.Hotel(model.Hotel{}); got != "/image-1.png" {
		t.Errorf("Expected hotel fallback, got %q", got)
	}
}

func TestLoadOverride(t *testing.T) {
	file := filepath.Join(t.TempDir(), "assets.yaml")
	content := "fallback: /none.png\nattractions:\n  /a.png:\n    - Tassili n'Ajjer\n"
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	tbl, err := Load(file)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := tbl.Attraction("tassili n ajjer"); got != "/a.png" {
		t.Errorf("Expected /a.png, got %q", got)
	}
	if got := tbl.Hotel(model.Hotel{Image: "x.jpg"}); got != "x.jpg" {
		t.Errorf("without hotel_dir the image is used as is, got %q", got)
	}

	if _, err := Parse([]byte("attractions: {}\n")); err == nil {
		t.Errorf("expected error for table without fallback")
	}
}
