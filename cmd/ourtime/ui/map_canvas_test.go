package ui

import (
	"math"
	"strings"
	"testing"

	"ourtime/internal/api"
	"ourtime/internal/mapsync"
)

func TestInitRequiresClientID(t *testing.T) {
	c := NewMapCanvas(37.5665, 126.9780)
	if err := c.Init(""); err == nil {
		t.Fatal("empty client id must fail initialization")
	}
	if !c.Failed() {
		t.Error("canvas must report failed state")
	}

	// Only an explicit reload recovers.
	if err := c.Reload("real-client-id"); err != nil {
		t.Fatalf("reload with a key: %v", err)
	}
	if c.Failed() {
		t.Error("canvas still failed after successful reload")
	}
}

func TestFailedCanvasRendersErrorPanel(t *testing.T) {
	c := NewMapCanvas(37.5665, 126.9780)
	_ = c.Init("")

	out := c.View(DefaultStyles())
	if !strings.Contains(out, "Map unavailable") {
		t.Errorf("failed view missing error panel: %q", out)
	}
}

func TestCursorCenterRoundTrip(t *testing.T) {
	c := NewMapCanvas(37.5665, 126.9780)
	c.SetSize(60, 20)
	c.Center(mapsync.LatLng{Lat: 37.5665, Lng: 126.9780})

	p := c.CursorLatLng()
	if math.Abs(p.Lat-37.5665) > 0.01 || math.Abs(p.Lng-126.9780) > 0.01 {
		t.Errorf("center cursor = (%f, %f), want near (37.5665, 126.9780)", p.Lat, p.Lng)
	}
}

func TestCursorMovesChangeCoordinate(t *testing.T) {
	c := NewMapCanvas(37.5665, 126.9780)
	c.SetSize(60, 20)
	c.Center(mapsync.LatLng{Lat: 37.5665, Lng: 126.9780})

	before := c.CursorLatLng()
	c.MoveCursor(5, 0)
	after := c.CursorLatLng()
	if after.Lng <= before.Lng {
		t.Errorf("moving right must increase longitude: %f -> %f", before.Lng, after.Lng)
	}

	c.MoveCursor(0, 3)
	lower := c.CursorLatLng()
	if lower.Lat >= after.Lat {
		t.Errorf("moving down must decrease latitude: %f -> %f", after.Lat, lower.Lat)
	}
}

func TestMarkerAtCursor(t *testing.T) {
	c := NewMapCanvas(37.5665, 126.9780)
	c.SetSize(60, 20)
	_ = c.Init("client")
	c.Center(mapsync.LatLng{Lat: 37.5665, Lng: 126.9780})

	mem := api.Memory{ID: 5, Title: "at the center", Latitude: 37.5665, Longitude: 126.9780}
	c.Reset()
	c.AddMarker(mapsync.Marker{
		Position: mapsync.LatLng{Lat: mem.Latitude, Lng: mem.Longitude},
		Label:    "at the center (by amy)",
		Memory:   mem,
	})

	got, ok := c.MarkerAtCursor()
	if !ok {
		t.Fatal("marker under the cursor not found")
	}
	if got.Memory.ID != 5 {
		t.Errorf("picked memory %d, want 5", got.Memory.ID)
	}

	c.MoveCursor(10, 0)
	if _, ok := c.MarkerAtCursor(); ok {
		t.Error("cursor moved away but still picks the marker")
	}
}

func TestResetClearsPrimitives(t *testing.T) {
	c := NewMapCanvas(0, 0)
	c.AddMarker(mapsync.Marker{})
	c.AddPolyline(mapsync.Polyline{RouteID: "r"})
	c.Reset()
	if len(c.markers) != 0 || len(c.polylines) != 0 {
		t.Error("reset must drop all drawn primitives")
	}
}

func TestZoomBounds(t *testing.T) {
	c := NewMapCanvas(0, 0)
	for i := 0; i < 50; i++ {
		c.ZoomIn()
	}
	if c.spanLat <= 0 {
		t.Error("zoom in must stay positive")
	}
	for i := 0; i < 50; i++ {
		c.ZoomOut()
	}
	if c.spanLat > 120 {
		t.Errorf("zoom out ran away: span %f", c.spanLat)
	}
}

func TestLineCellsConnectEndpoints(t *testing.T) {
	pts := lineCells(0, 0, 4, 2)
	if pts[0] != (gridPoint{0, 0}) || pts[len(pts)-1] != (gridPoint{4, 2}) {
		t.Errorf("line endpoints wrong: %v", pts)
	}
	for i := 1; i < len(pts); i++ {
		dc := abs(pts[i].col - pts[i-1].col)
		dr := abs(pts[i].row - pts[i-1].row)
		if dc > 1 || dr > 1 {
			t.Errorf("line has a gap between %v and %v", pts[i-1], pts[i])
		}
	}
}
