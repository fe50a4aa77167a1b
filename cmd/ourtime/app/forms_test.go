package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ourtime/internal/api"
	"ourtime/internal/mapsync"
)

func TestLoginFormRequiresBothFields(t *testing.T) {
	f := newLoginForm()
	_, ok := f.request()
	assert.False(t, ok)
	assert.Contains(t, f.fieldErr, "email")
	assert.Contains(t, f.fieldErr, "password")

	f.email.SetValue("amy@example.com")
	f.password.SetValue("hunter22")
	req, ok := f.request()
	require.True(t, ok)
	assert.Equal(t, "amy@example.com", req.Email)
}

func TestSignupFormPasswordLength(t *testing.T) {
	f := newSignupForm()
	f.email.SetValue("amy@example.com")
	f.nickname.SetValue("amy")
	f.password.SetValue("short")
	_, ok := f.request()
	assert.False(t, ok)
	assert.Contains(t, f.fieldErr, "password")
}

func TestMemoryFormTagStagingDedupes(t *testing.T) {
	f := newMemoryForm(nil, mapsync.LatLng{})

	f.tagInput.SetValue("picnic")
	f.stageTag()
	f.tagInput.SetValue("  picnic ")
	f.stageTag()
	f.tagInput.SetValue("Picnic")
	f.stageTag()
	f.tagInput.SetValue("spring")
	f.stageTag()

	assert.Equal(t, []string{"picnic", "Picnic", "spring"}, f.tags,
		"exact duplicates collapse; differently-cased tags are distinct")
	assert.Empty(t, f.tagInput.Value(), "input clears after staging")

	f.removeLastTag()
	assert.Equal(t, []string{"picnic", "Picnic"}, f.tags)
}

func TestMemoryFormValidation(t *testing.T) {
	groups := []api.Group{{ID: 1, Name: "crew", Type: api.GroupFriend}}
	f := newMemoryForm(groups, mapsync.LatLng{Lat: 37.5, Lng: 127.0})

	assert.False(t, f.validate())
	assert.Contains(t, f.fieldErr, "title")
	assert.Contains(t, f.fieldErr, "visitedAt")

	f.title.SetValue("picnic")
	f.visitedAt.SetValue("01-05-2026")
	assert.False(t, f.validate(), "wrong date layout must fail")

	f.visitedAt.SetValue("2026-05-01")
	assert.True(t, f.validate())

	req, err := f.createRequest()
	require.NoError(t, err)
	assert.Equal(t, int64(1), req.GroupID)
	assert.InDelta(t, 37.5, req.Latitude, 0.0001)
}

func TestMemoryFormNeedsAGroup(t *testing.T) {
	f := newMemoryForm(nil, mapsync.LatLng{})
	f.title.SetValue("t")
	f.visitedAt.SetValue("2026-05-01")
	assert.False(t, f.validate())
	assert.Contains(t, f.fieldErr, "group")
}

func TestMemoryEditFormPrefills(t *testing.T) {
	mem := api.Memory{
		ID: 9, GroupID: 2, Title: "old title", Description: "desc",
		VisitedAt: "2026-01-02", Latitude: 37.1, Longitude: 127.1,
		Tags: []api.Tag{{ID: 1, Name: "old"}},
	}
	groups := []api.Group{{ID: 1}, {ID: 2}}
	f := newMemoryEditForm(mem, groups)

	assert.True(t, f.editing)
	assert.Equal(t, int64(9), f.memoryID)
	assert.Equal(t, "old title", f.title.Value())
	assert.Equal(t, []string{"old"}, f.tags)
	assert.Equal(t, 1, f.groupIdx, "selector lands on the memory's group")

	// Editing never moves a memory between groups.
	f.cycleGroup()
	assert.Equal(t, 1, f.groupIdx)

	req := f.updateRequest()
	assert.Equal(t, "old title", req.Title)
	assert.Equal(t, []string{"old"}, req.TagNames)
}

func TestGroupFormInviteeSplitting(t *testing.T) {
	f := newGroupForm(false)
	f.name.SetValue("trip crew")
	f.invitees.SetValue(" a@x.com, ,b@y.com ,")

	req, ok := f.createRequest()
	require.True(t, ok)
	assert.Equal(t, []string{"a@x.com", "b@y.com"}, req.InviteeEmails)
	assert.Equal(t, api.GroupCouple, req.Type, "first selector entry is the default")

	f.cycleType()
	req, _ = f.createRequest()
	assert.Equal(t, api.GroupFamily, req.Type)
}

func TestGroupFormJoinCode(t *testing.T) {
	f := newGroupForm(true)
	_, ok := f.joinCode()
	assert.False(t, ok)

	f.code.SetValue("  AB12CD ")
	code, ok := f.joinCode()
	require.True(t, ok)
	assert.Equal(t, "AB12CD", code)
}

func TestRouteFormSelectionOrder(t *testing.T) {
	memories := []api.Memory{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}, {ID: 3, Title: "c"}}
	f := newRouteForm(memories)
	f.name.SetValue("weekend")
	f.desc.SetValue("  two days around Bukchon ")

	// Pick c, then a: that order is the route order.
	f.cursor = 2
	f.toggle()
	f.cursor = 0
	f.toggle()

	name, desc, ids, ok := f.build()
	require.True(t, ok)
	assert.Equal(t, "weekend", name)
	assert.Equal(t, "two days around Bukchon", desc)
	assert.Equal(t, []int64{3, 1}, ids)

	// Toggling off removes from the middle.
	f.cursor = 2
	f.toggle()
	_, _, ids, _ = f.build()
	assert.Equal(t, []int64{1}, ids)
}

func TestRouteFormNeedsTwoStops(t *testing.T) {
	f := newRouteForm([]api.Memory{{ID: 1}, {ID: 2}})
	f.name.SetValue("short")
	f.cursor = 0
	f.toggle()

	_, _, _, ok := f.build()
	assert.False(t, ok)
	assert.Contains(t, f.fieldErr, "memoryIds")
}
