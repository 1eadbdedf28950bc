package components

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rendis/tourplan/internal/engine/geo"
	"github.com/rendis/tourplan/internal/tui/styles"
)

// layer orders what wins when several things share a braille cell.
type layer uint8

const (
	layerNone layer = iota
	layerRoute
	layerAttraction
	layerHotel
	layerSelected
)

type dot struct {
	layer layer
	color lipgloss.Color
}

// MapView renders an itinerary scene with Braille characters: day routes
// in their palette color, attraction and hotel markers on top.
type MapView struct {
	width    int
	height   int
	scene    geo.Scene
	selected int // marker index, -1 if none
	// Viewport bounds
	minLat, maxLat float64
	minLng, maxLng float64
	// Base bounds (for zoom reference)
	basMinLat, basMaxLat float64
	basMinLng, basMaxLng float64
	zoomLevel            float64 // 1.0 = no zoom, >1 = zoomed in
	panLat, panLng       float64 // pan offset in degrees
}

func NewMapView(width, height int) MapView {
	return MapView{
		width:     width,
		height:    height,
		selected:  -1,
		zoomLevel: 1.0,
	}
}

func (m *MapView) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetScene replaces the scene and fits the viewport to it.
func (m *MapView) SetScene(s geo.Scene) {
	m.scene = s
	m.selected = -1
	if len(s.Markers) > 0 {
		m.selected = 0
	}
	m.fitBounds()
}

func (m MapView) Scene() geo.Scene { return m.scene }

// Selected returns the selected marker, if any.
func (m MapView) Selected() (geo.Marker, bool) {
	if m.selected < 0 || m.selected >= len(m.scene.Markers) {
		return geo.Marker{}, false
	}
	return m.scene.Markers[m.selected], true
}

// SelectNext moves the selection by step markers, wrapping around.
func (m *MapView) SelectNext(step int) {
	n := len(m.scene.Markers)
	if n == 0 {
		return
	}
	m.selected = ((m.selected+step)%n + n) % n
}

func (m *MapView) ZoomIn() {
	m.zoomLevel *= 1.5
	if m.zoomLevel > 20 {
		m.zoomLevel = 20
	}
	m.applyZoom()
}

func (m *MapView) ZoomOut() {
	m.zoomLevel /= 1.5
	if m.zoomLevel < 0.5 {
		m.zoomLevel = 0.5
	}
	m.applyZoom()
}

func (m *MapView) ZoomReset() {
	m.zoomLevel = 1.0
	m.panLat = 0
	m.panLng = 0
	m.applyZoom()
}

func (m *MapView) Pan(dLat, dLng float64) {
	latRange := m.basMaxLat - m.basMinLat
	lngRange := m.basMaxLng - m.basMinLng
	m.panLat += dLat * latRange * 0.1 / m.zoomLevel
	m.panLng += dLng * lngRange * 0.1 / m.zoomLevel
	m.applyZoom()
}

func (m *MapView) applyZoom() {
	centerLat := (m.basMinLat+m.basMaxLat)/2 + m.panLat
	centerLng := (m.basMinLng+m.basMaxLng)/2 + m.panLng
	halfLat := (m.basMaxLat - m.basMinLat) / 2 / m.zoomLevel
	halfLng := (m.basMaxLng - m.basMinLng) / 2 / m.zoomLevel
	m.minLat = centerLat - halfLat
	m.maxLat = centerLat + halfLat
	m.minLng = centerLng - halfLng
	m.maxLng = centerLng + halfLng
}

func (m *MapView) fitBounds() {
	b := m.scene.Bound()
	m.basMinLat, m.basMaxLat = b.Min.Lat(), b.Max.Lat()
	m.basMinLng, m.basMaxLng = b.Min.Lon(), b.Max.Lon()

	latPad := (m.basMaxLat - m.basMinLat) * 0.1
	lngPad := (m.basMaxLng - m.basMinLng) * 0.1
	if latPad == 0 {
		latPad = 0.01
	}
	if lngPad == 0 {
		lngPad = 0.01
	}
	m.basMinLat -= latPad
	m.basMaxLat += latPad
	m.basMinLng -= lngPad
	m.basMaxLng += lngPad
	m.zoomLevel = 1.0
	m.panLat, m.panLng = 0, 0
	m.applyZoom()
}

// Braille character encoding:
// Each braille char is a 2x4 dot grid.
// Dot positions:  0 3
//
//	1 4
//	2 5
//	6 7
//
// Unicode: 0x2800 + sum of raised dot bits
var brailleDots = [8]rune{0x01, 0x02, 0x04, 0x08, 0x10, 0x20, 0x40, 0x80}

var dotPositions = [8][2]int{
	{0, 0}, {1, 0}, {2, 0}, {0, 1},
	{1, 1}, {2, 1}, {3, 0}, {3, 1},
}

func (m MapView) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	if len(m.scene.Markers) == 0 {
		return styles.Hint.Render(geo.ErrNoMapData.Error())
	}

	cols := m.width
	rows := m.height
	dotW := cols * 2
	dotH := rows * 4

	latRange := m.maxLat - m.minLat
	lngRange := m.maxLng - m.minLng
	if latRange == 0 || lngRange == 0 {
		return strings.Repeat(strings.Repeat(" ", cols)+"\n", rows)
	}

	// Braille dots are roughly square on screen; correct longitude for the
	// latitude so distances look right.
	avgLat := (m.minLat + m.maxLat) / 2
	cosLat := math.Cos(avgLat * math.Pi / 180)
	geoAspect := lngRange * cosLat / latRange
	dotAspect := float64(dotW) / float64(dotH)

	effectiveW, effectiveH := dotW, dotH
	offsetX, offsetY := 0, 0
	if geoAspect < dotAspect {
		effectiveW = max(int(float64(dotH)*geoAspect), 4)
		offsetX = (dotW - effectiveW) / 2
	} else {
		effectiveH = max(int(float64(dotW)/geoAspect), 4)
		offsetY = (dotH - effectiveH) / 2
	}

	grid := make([][]dot, dotH)
	for i := range grid {
		grid[i] = make([]dot, dotW)
	}
	plot := func(x, y int, l layer, c lipgloss.Color) {
		if x >= 0 && x < dotW && y >= 0 && y < dotH && grid[y][x].layer <= l {
			grid[y][x] = dot{layer: l, color: c}
		}
	}
	toDot := func(lat, lng float64) (int, int) {
		x := offsetX + int((lng-m.minLng)/lngRange*float64(effectiveW-1))
		y := offsetY + int((m.maxLat-lat)/latRange*float64(effectiveH-1))
		return x, y
	}

	for _, r := range m.scene.Routes {
		c := lipgloss.Color(r.Color)
		step := 0
		for i := 1; i < len(r.Path); i++ {
			x0, y0 := toDot(r.Path[i-1].Lat(), r.Path[i-1].Lon())
			x1, y1 := toDot(r.Path[i].Lat(), r.Path[i].Lon())
			drawLine(x0, y0, x1, y1, func(x, y int) {
				// dashed routes: 3 dots on, 3 off
				if !r.Dashed || (step/3)%2 == 0 {
					plot(x, y, layerRoute, c)
				}
				step++
			})
		}
	}

	for i, mk := range m.scene.Markers {
		x, y := toDot(mk.Position.Lat, mk.Position.Lon)
		l, c := layerAttraction, styles.Secondary
		if mk.Kind == geo.MarkerHotel {
			// hotels share the last activity's position; nudge them right
			l, c = layerHotel, styles.Hotel
			x++
		}
		if i == m.selected {
			l, c = layerSelected, styles.Error
		}
		plot(x, y, l, c)
		plot(x, y+1, l, c)
	}

	var sb strings.Builder
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			var val rune = 0x2800
			var top dot
			for d := 0; d < 8; d++ {
				dy := row*4 + dotPositions[d][0]
				dx := col*2 + dotPositions[d][1]
				if dy < dotH && dx < dotW && grid[dy][dx].layer != layerNone {
					val |= brailleDots[d]
					if grid[dy][dx].layer > top.layer {
						top = grid[dy][dx]
					}
				}
			}
			if top.layer == layerNone {
				sb.WriteRune(' ')
				continue
			}
			sb.WriteString(lipgloss.NewStyle().Foreground(top.color).Render(string(val)))
		}
		if row < rows-1 {
			sb.WriteRune('\n')
		}
	}
	return sb.String()
}

// Legend lists the day colors of the scene's routes.
func (m MapView) Legend() string {
	var parts []string
	for _, r := range m.scene.Routes {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(r.Color))
		line := "━━"
		if r.Dashed {
			line = "╍╍"
		}
		parts = append(parts, style.Render(line)+" day "+strconv.Itoa(r.Day))
	}
	parts = append(parts,
		lipgloss.NewStyle().Foreground(styles.Secondary).Render("⣿")+" attraction",
		lipgloss.NewStyle().Foreground(styles.Hotel).Render("⣿")+" hotel",
	)
	return strings.Join(parts, "  ")
}

// drawLine walks the dots between two points using Bresenham's algorithm.
func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 >= x1 {
		sx = -1
	}
	sy := 1
	if y0 >= y1 {
		sy = -1
	}
	err := dx + dy

	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
