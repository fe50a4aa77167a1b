package mapsync

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"ourtime/internal/api"
	"ourtime/internal/route"
)

// recordingRenderer captures draw calls for assertions.
type recordingRenderer struct {
	resets    int
	markers   []Marker
	polylines []Polyline
}

func (r *recordingRenderer) Reset() {
	r.resets++
	r.markers = nil
	r.polylines = nil
}
func (r *recordingRenderer) AddMarker(m Marker)     { r.markers = append(r.markers, m) }
func (r *recordingRenderer) AddPolyline(p Polyline) { r.polylines = append(r.polylines, p) }

func mem(id, groupID int64, title, nick string, lat, lng float64) api.Memory {
	return api.Memory{
		ID: id, GroupID: groupID, Title: title,
		User:     api.User{ID: 100 + id, Nickname: nick},
		Latitude: lat, Longitude: lng,
	}
}

var seoulSet = []api.Memory{
	mem(1, 10, "palace walk", "amy", 37.5796, 126.9770),
	mem(2, 10, "night market", "bo", 37.5700, 126.9910),
	mem(3, 20, "han river run", "amy", 37.5200, 126.9300),
}

func TestSyncDrawsOneMarkerPerVisibleMemory(t *testing.T) {
	r := &recordingRenderer{}
	New(r).Sync(seoulSet, nil, nil, false)

	if r.resets != 1 {
		t.Fatalf("resets = %d, want 1", r.resets)
	}
	if len(r.markers) != len(seoulSet) {
		t.Fatalf("markers = %d, want %d", len(r.markers), len(seoulSet))
	}
	if got, want := r.markers[0].Label, "palace walk (by amy)"; got != want {
		t.Errorf("label = %q, want %q", got, want)
	}
	// The full record rides on the marker for click dispatch.
	if diff := cmp.Diff(seoulSet[1], r.markers[1].Memory); diff != "" {
		t.Errorf("marker memory mismatch (-want +got):\n%s", diff)
	}
}

func TestSyncGroupFilterIsExactSubset(t *testing.T) {
	r := &recordingRenderer{}
	gid := int64(10)
	New(r).Sync(seoulSet, &gid, nil, false)

	if len(r.markers) != 2 {
		t.Fatalf("markers = %d, want 2", len(r.markers))
	}
	for _, m := range r.markers {
		if m.Memory.GroupID != gid {
			t.Errorf("marker for group %d leaked through filter %d", m.Memory.GroupID, gid)
		}
	}
}

func TestSyncTeardownFirst(t *testing.T) {
	r := &recordingRenderer{}
	e := New(r)
	e.Sync(seoulSet, nil, nil, false)
	e.Sync(seoulSet[:1], nil, nil, false)

	if r.resets != 2 {
		t.Fatalf("resets = %d, want 2", r.resets)
	}
	// After the second sync only the surviving memory is drawn; nothing
	// from the first pass remains.
	if len(r.markers) != 1 {
		t.Fatalf("markers after resync = %d, want 1", len(r.markers))
	}
}

func TestRoutePreservesStoredOrder(t *testing.T) {
	r := &recordingRenderer{}
	// Stored order deliberately disagrees with list order and geography.
	rt := route.Route{ID: "r1", Name: "weekend", MemoryIDs: []int64{3, 1, 2}}

	New(r).Sync(seoulSet, nil, []route.Route{rt}, true)

	if len(r.polylines) != 1 {
		t.Fatalf("polylines = %d, want 1", len(r.polylines))
	}
	want := []LatLng{
		{Lat: 37.5200, Lng: 126.9300},
		{Lat: 37.5796, Lng: 126.9770},
		{Lat: 37.5700, Lng: 126.9910},
	}
	if diff := cmp.Diff(want, r.polylines[0].Path); diff != "" {
		t.Errorf("route path order (-want +got):\n%s", diff)
	}
}

func TestRouteDropsUnresolvedIDsSilently(t *testing.T) {
	r := &recordingRenderer{}
	rt := route.Route{ID: "r1", Name: "partial", MemoryIDs: []int64{1, 999, 2}}

	New(r).Sync(seoulSet, nil, []route.Route{rt}, true)

	if len(r.polylines) != 1 {
		t.Fatalf("polylines = %d, want 1", len(r.polylines))
	}
	if len(r.polylines[0].Path) != 2 {
		t.Errorf("path = %d points, want 2 (unresolved ID dropped)", len(r.polylines[0].Path))
	}
}

func TestRouteNeedsTwoResolvedPoints(t *testing.T) {
	r := &recordingRenderer{}
	routes := []route.Route{
		{ID: "r1", Name: "one left", MemoryIDs: []int64{1, 998, 999}},
		{ID: "r2", Name: "none left", MemoryIDs: []int64{998, 999}},
		{ID: "r3", Name: "ok", MemoryIDs: []int64{1, 2}},
	}

	New(r).Sync(seoulSet, nil, routes, true)

	if len(r.polylines) != 1 {
		t.Fatalf("polylines = %d, want only the fully resolvable route", len(r.polylines))
	}
	if r.polylines[0].RouteID != "r3" {
		t.Errorf("drawn route = %s, want r3", r.polylines[0].RouteID)
	}
}

func TestRoutesHiddenWhenToggledOff(t *testing.T) {
	r := &recordingRenderer{}
	rt := route.Route{ID: "r1", Name: "weekend", MemoryIDs: []int64{1, 2}}

	New(r).Sync(seoulSet, nil, []route.Route{rt}, false)

	if len(r.polylines) != 0 {
		t.Errorf("polylines = %d, want 0 when routes are off", len(r.polylines))
	}
}

func TestVisibleNilFilterPassesThrough(t *testing.T) {
	got := Visible(seoulSet, nil)
	if diff := cmp.Diff(seoulSet, got); diff != "" {
		t.Errorf("nil filter must pass everything (-want +got):\n%s", diff)
	}
}
