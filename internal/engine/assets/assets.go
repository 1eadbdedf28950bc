// Package assets resolves catalog entries to display images through a
// configurable alias table.
package assets

import (
	_ "embed"
	"fmt"
	"os"
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/rendis/tourplan/internal/model"
)

//go:embed default_assets.yaml
var defaultTable []byte

type tableFile struct {
	Fallback      string              `yaml:"fallback"`
	HotelDir      string              `yaml:"hotel_dir"`
	HotelFallback string              `yaml:"hotel_fallback"`
	Attractions   map[string][]string `yaml:"attractions"`
}

// Table maps normalized attraction names to images.
type Table struct {
	fallback      string
	hotelDir      string
	hotelFallback string
	byName        map[string]string
}

// Default returns the built-in table.
func Default() *Table {
	t, err := Parse(defaultTable)
	if err != nil {
		panic(fmt.Sprintf("embedded asset table: %v", err))
	}
	return t
}

// Load reads a table from a YAML file. An empty path yields the default.
func Load(file string) (*Table, error) {
	if file == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading asset table: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing asset table: %w", err)
	}
	if f.Fallback == "" {
		return nil, fmt.Errorf("parsing asset table: fallback image is required")
	}
	t := &Table{
		fallback:      f.Fallback,
		hotelDir:      f.HotelDir,
		hotelFallback: f.HotelFallback,
		byName:        make(map[string]string),
	}
	if t.hotelFallback == "" {
		t.hotelFallback = f.Fallback
	}
	for image, aliases := range f.Attractions {
		for _, a := range aliases {
			if key := Normalize(a); key != "" {
				t.byName[key] = image
			}
		}
	}
	return t, nil
}

// Attraction returns the image for an attraction name, or the fallback.
func (t *Table) Attraction(name string) string {
	if img, ok := t.byName[Normalize(name)]; ok {
		return img
	}
	return t.fallback
}

// Hotel returns the hotel's own image under the hotel directory, or the
// hotel fallback when the service sent none.
func (t *Table) Hotel(h model.Hotel) string {
	img := strings.TrimSpace(h.Image)
	if img == "" {
		return t.hotelFallback
	}
	if t.hotelDir == "" {
		return img
	}
	return path.Join(t.hotelDir, img)
}

func (t *Table) Fallback() string { return t.fallback }

// Normalize folds a name for lookup: accents removed, lower-cased, every
// run of non-alphanumerics collapsed to one space, trimmed.
func Normalize(s string) string {
	tr := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}), norm.NFC)
	folded, _, _ := transform.String(tr, strings.ToLower(s))

	var b strings.Builder
	space := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
			continue
		}
		space = true
	}
	return b.String()
}
