package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ourtime/internal/logging"
	"ourtime/internal/mapsync"
)

// MapCanvas is a terminal map surface. It projects WGS84 coordinates onto a
// character grid with an equirectangular projection around a movable
// viewport, and implements mapsync.Renderer so the sync engine can drive
// it.
//
// Initialization can fail (a missing map provider key, for instance); a
// failed canvas renders a persistent error panel and stays failed until the
// user explicitly reloads it. It is never retried automatically.
type MapCanvas struct {
	width  int
	height int

	center  mapsync.LatLng
	spanLat float64 // degrees of latitude covered by the viewport height
	spanLng float64 // degrees of longitude covered by the viewport width

	cursorCol int
	cursorRow int

	markers   []mapsync.Marker
	polylines []mapsync.Polyline

	initErr error
}

// NewMapCanvas creates a canvas centered on the given coordinate.
func NewMapCanvas(centerLat, centerLng float64) *MapCanvas {
	return &MapCanvas{
		center:  mapsync.LatLng{Lat: centerLat, Lng: centerLng},
		spanLat: 0.12,
		spanLng: 0.24,
		width:   60,
		height:  20,
	}
}

// Init attempts to bring the canvas up. An empty map provider key fails
// initialization; the canvas then renders an error panel until Reload.
func (c *MapCanvas) Init(clientID string) error {
	if clientID == "" {
		c.initErr = fmt.Errorf("map client ID is not configured (set map.client_id or OURTIME_MAP_CLIENT_ID)")
		logging.MapError("init failed: %v", c.initErr)
		return c.initErr
	}
	c.initErr = nil
	logging.Map("initialized, center=(%.4f, %.4f)", c.center.Lat, c.center.Lng)
	return nil
}

// Failed reports whether the canvas is in the failed state.
func (c *MapCanvas) Failed() bool { return c.initErr != nil }

// InitError returns the failure that put the canvas in the failed state.
func (c *MapCanvas) InitError() error { return c.initErr }

// Reload retries initialization. Only an explicit user action calls this.
func (c *MapCanvas) Reload(clientID string) error {
	logging.Map("manual reload requested")
	return c.Init(clientID)
}

// =============================================================================
// RENDERER
// =============================================================================

// Reset clears every drawn primitive.
func (c *MapCanvas) Reset() {
	c.markers = nil
	c.polylines = nil
}

// AddMarker draws a memory pin.
func (c *MapCanvas) AddMarker(m mapsync.Marker) {
	c.markers = append(c.markers, m)
}

// AddPolyline draws a route overlay.
func (c *MapCanvas) AddPolyline(p mapsync.Polyline) {
	c.polylines = append(c.polylines, p)
}

// =============================================================================
// VIEWPORT
// =============================================================================

// SetSize resizes the grid, clamping the cursor into bounds.
func (c *MapCanvas) SetSize(width, height int) {
	if width < 10 {
		width = 10
	}
	if height < 5 {
		height = 5
	}
	c.width = width
	c.height = height
	c.clampCursor()
}

// Pan shifts the viewport by whole cells.
func (c *MapCanvas) Pan(dCols, dRows int) {
	c.center.Lng += float64(dCols) * c.spanLng / float64(c.width)
	c.center.Lat -= float64(dRows) * c.spanLat / float64(c.height)
}

// ZoomIn halves the viewport span.
func (c *MapCanvas) ZoomIn() {
	if c.spanLat <= 0.002 {
		return
	}
	c.spanLat /= 2
	c.spanLng /= 2
}

// ZoomOut doubles the viewport span.
func (c *MapCanvas) ZoomOut() {
	if c.spanLat >= 60 {
		return
	}
	c.spanLat *= 2
	c.spanLng *= 2
}

// Center moves the viewport to a coordinate and puts the cursor on it.
func (c *MapCanvas) Center(p mapsync.LatLng) {
	c.center = p
	c.cursorCol = c.width / 2
	c.cursorRow = c.height / 2
}

// MoveCursor moves the pick cursor, panning when it would leave the grid.
func (c *MapCanvas) MoveCursor(dCols, dRows int) {
	c.cursorCol += dCols
	c.cursorRow += dRows
	if c.cursorCol < 0 || c.cursorCol >= c.width || c.cursorRow < 0 || c.cursorRow >= c.height {
		c.Pan(dCols, dRows)
	}
	c.clampCursor()
}

func (c *MapCanvas) clampCursor() {
	if c.cursorCol < 0 {
		c.cursorCol = 0
	}
	if c.cursorCol >= c.width {
		c.cursorCol = c.width - 1
	}
	if c.cursorRow < 0 {
		c.cursorRow = 0
	}
	if c.cursorRow >= c.height {
		c.cursorRow = c.height - 1
	}
}

// CursorLatLng translates the cursor cell back into a coordinate, used when
// the user picks a location for a new memory.
func (c *MapCanvas) CursorLatLng() mapsync.LatLng {
	return c.cellToLatLng(c.cursorCol, c.cursorRow)
}

// MarkerAtCursor returns the marker under the cursor, if any. When several
// markers project onto the same cell the first added wins.
func (c *MapCanvas) MarkerAtCursor() (mapsync.Marker, bool) {
	for _, m := range c.markers {
		col, row, ok := c.latLngToCell(m.Position)
		if ok && col == c.cursorCol && row == c.cursorRow {
			return m, true
		}
	}
	return mapsync.Marker{}, false
}

func (c *MapCanvas) latLngToCell(p mapsync.LatLng) (col, row int, visible bool) {
	col = int((p.Lng-c.center.Lng)/c.spanLng*float64(c.width) + float64(c.width)/2)
	row = int((c.center.Lat-p.Lat)/c.spanLat*float64(c.height) + float64(c.height)/2)
	visible = col >= 0 && col < c.width && row >= 0 && row < c.height
	return col, row, visible
}

func (c *MapCanvas) cellToLatLng(col, row int) mapsync.LatLng {
	return mapsync.LatLng{
		Lat: c.center.Lat - (float64(row)-float64(c.height)/2)/float64(c.height)*c.spanLat,
		Lng: c.center.Lng + (float64(col)-float64(c.width)/2)/float64(c.width)*c.spanLng,
	}
}

// =============================================================================
// RENDERING
// =============================================================================

type cell struct {
	ch    rune
	style lipgloss.Style
}

// View renders the canvas. A failed canvas renders the error panel instead
// of the grid.
func (c *MapCanvas) View(s Styles) string {
	if c.initErr != nil {
		body := s.Error.Render("Map unavailable") + "\n\n" +
			s.Body.Render(c.initErr.Error()) + "\n\n" +
			s.Muted.Render("press R to reload the map")
		return s.ErrorPanel.Render(body)
	}

	grid := make([][]cell, c.height)
	for row := range grid {
		grid[row] = make([]cell, c.width)
		for col := range grid[row] {
			grid[row][col] = cell{ch: '·', style: s.Muted}
		}
	}

	// Routes first so markers draw over them.
	for _, p := range c.polylines {
		c.drawPolyline(grid, p, s)
	}
	for _, m := range c.markers {
		col, row, ok := c.latLngToCell(m.Position)
		if !ok {
			continue
		}
		style := lipgloss.NewStyle().Foreground(GroupColor(m.Memory.GroupID)).Bold(true)
		grid[row][col] = cell{ch: '●', style: style}
	}

	// Cursor is an overlay: invert whatever is under it.
	under := grid[c.cursorRow][c.cursorCol]
	grid[c.cursorRow][c.cursorCol] = cell{
		ch:    under.ch,
		style: under.style.Reverse(true),
	}

	var b strings.Builder
	for row := range grid {
		for col := range grid[row] {
			b.WriteString(grid[row][col].style.Render(string(grid[row][col].ch)))
		}
		if row < len(grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// drawPolyline rasterizes the route path segment by segment with Bresenham
// lines.
func (c *MapCanvas) drawPolyline(grid [][]cell, p mapsync.Polyline, s Styles) {
	style := lipgloss.NewStyle().Foreground(s.Theme.Accent)
	for i := 0; i+1 < len(p.Path); i++ {
		c0, r0, _ := c.latLngToCell(p.Path[i])
		c1, r1, _ := c.latLngToCell(p.Path[i+1])
		for _, pt := range lineCells(c0, r0, c1, r1) {
			if pt.col < 0 || pt.col >= c.width || pt.row < 0 || pt.row >= c.height {
				continue
			}
			grid[pt.row][pt.col] = cell{ch: '•', style: style}
		}
	}
}

type gridPoint struct{ col, row int }

func lineCells(c0, r0, c1, r1 int) []gridPoint {
	dc := abs(c1 - c0)
	dr := -abs(r1 - r0)
	sc, sr := 1, 1
	if c0 > c1 {
		sc = -1
	}
	if r0 > r1 {
		sr = -1
	}
	err := dc + dr
	var pts []gridPoint
	for {
		pts = append(pts, gridPoint{col: c0, row: r0})
		if c0 == c1 && r0 == r1 {
			return pts
		}
		e2 := 2 * err
		if e2 >= dr {
			err += dr
			c0 += sc
		}
		if e2 <= dc {
			err += dc
			r0 += sr
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// StatusLine summarizes the viewport for the footer.
func (c *MapCanvas) StatusLine() string {
	p := c.CursorLatLng()
	return fmt.Sprintf("cursor %.4f, %.4f · %d memories · %d routes", p.Lat, p.Lng, len(c.markers), len(c.polylines))
}
