// Package mapsync reconciles the map surface with application state: one
// marker per visible memory, one polyline per visible route. The renderer
// does not garbage-collect primitives, so every sync starts from a clean
// slate — teardown is explicit and owned here.
package mapsync

import (
	"ourtime/internal/api"
	"ourtime/internal/logging"
	"ourtime/internal/route"
)

// LatLng is a WGS84 coordinate in decimal degrees.
type LatLng struct {
	Lat float64
	Lng float64
}

// Marker is one drawn memory pin. It carries the full memory record so a
// click dispatches locally with no network round trip.
type Marker struct {
	Position LatLng
	Label    string
	Memory   api.Memory
}

// Polyline is one drawn route overlay, its path in the route's stored
// visiting order.
type Polyline struct {
	RouteID string
	Name    string
	Path    []LatLng
}

// Renderer is the drawing surface the engine reconciles against. Reset
// removes every previously drawn primitive; the engine calls it at the top
// of each sync.
type Renderer interface {
	Reset()
	AddMarker(m Marker)
	AddPolyline(p Polyline)
}

// Engine drives a Renderer from the current memory list, group filter and
// route overlays.
type Engine struct {
	renderer Renderer
}

// New creates an engine bound to a renderer.
func New(r Renderer) *Engine {
	return &Engine{renderer: r}
}

// Sync redraws the surface. groupFilter nil means no filter (every memory
// is visible); otherwise only memories of that group draw. Routes draw only
// when showRoutes is set, and a route only renders when at least two of its
// memory IDs resolve against the loaded set — fewer resolved points skip
// the route without error.
func (e *Engine) Sync(memories []api.Memory, groupFilter *int64, routes []route.Route, showRoutes bool) {
	e.renderer.Reset()

	visible := Visible(memories, groupFilter)
	for _, m := range visible {
		e.renderer.AddMarker(Marker{
			Position: LatLng{Lat: m.Latitude, Lng: m.Longitude},
			Label:    m.Title + " (by " + m.User.Nickname + ")",
			Memory:   m,
		})
	}
	logging.Map("sync: %d/%d markers", len(visible), len(memories))

	if !showRoutes {
		return
	}
	for _, r := range routes {
		path := ResolvePath(r, memories)
		if len(path) < 2 {
			continue
		}
		e.renderer.AddPolyline(Polyline{RouteID: r.ID, Name: r.Name, Path: path})
	}
}

// Visible returns the memories matching the group filter, preserving list
// order. A nil filter passes everything through.
func Visible(memories []api.Memory, groupFilter *int64) []api.Memory {
	if groupFilter == nil {
		return memories
	}
	var out []api.Memory
	for _, m := range memories {
		if m.GroupID == *groupFilter {
			out = append(out, m)
		}
	}
	return out
}

// ResolvePath maps a route's ordered memory IDs onto coordinates, keeping
// the route's own stored order — never spatial or chronological — and
// silently dropping IDs that do not resolve to a loaded memory.
func ResolvePath(r route.Route, memories []api.Memory) []LatLng {
	byID := make(map[int64]api.Memory, len(memories))
	for _, m := range memories {
		byID[m.ID] = m
	}
	var path []LatLng
	for _, id := range r.MemoryIDs {
		m, ok := byID[id]
		if !ok {
			continue
		}
		path = append(path, LatLng{Lat: m.Latitude, Lng: m.Longitude})
	}
	return path
}
