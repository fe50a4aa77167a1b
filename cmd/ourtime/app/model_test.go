package app

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ourtime/internal/api"
	"ourtime/internal/config"
	"ourtime/internal/query"
	"ourtime/internal/session"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	sess, err := session.Open(t.TempDir())
	require.NoError(t, err)
	m, err := New(config.DefaultConfig(), t.TempDir(), sess)
	require.NoError(t, err)
	return m
}

func TestStartsOnLoginWithoutSession(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, LoginView, m.mode)
}

func TestStartsOnMapWithRestoredSession(t *testing.T) {
	dir := t.TempDir()
	sess, err := session.Open(dir)
	require.NoError(t, err)
	require.NoError(t, sess.SetPair("access", "refresh"))

	m, err := New(config.DefaultConfig(), t.TempDir(), sess)
	require.NoError(t, err)
	assert.Equal(t, MapPage, m.mode)
}

func TestMapKeyReturnsFromEveryPage(t *testing.T) {
	m := newTestModel(t)
	key := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}}

	for _, mode := range []ViewMode{GroupsPage, NotificationsPage, ProfilePage, DetailPage} {
		m.mode = mode
		m.detailID = 7
		m.Update(key)
		assert.Equal(t, MapPage, m.mode, "mode %v", mode)
	}
}

func TestGroupFilterCyclesThroughAllGroups(t *testing.T) {
	m := newTestModel(t)
	m.groups = []api.Group{{ID: 10}, {ID: 20}}

	assert.Nil(t, m.groupFilter)
	m.cycleGroupFilter()
	require.NotNil(t, m.groupFilter)
	assert.Equal(t, int64(10), *m.groupFilter)

	m.cycleGroupFilter()
	require.NotNil(t, m.groupFilter)
	assert.Equal(t, int64(20), *m.groupFilter)

	m.cycleGroupFilter()
	assert.Nil(t, m.groupFilter, "after the last group the filter clears")
}

func TestApplyQueryResultRoutesByResource(t *testing.T) {
	m := newTestModel(t)

	needSync := m.applyQueryResult(queryResultMsg{
		key:  query.K(query.ResMemories),
		data: []api.Memory{{ID: 1, Title: "t"}},
	})
	assert.True(t, needSync, "new memories must resync the map")
	assert.Len(t, m.memories, 1)

	needSync = m.applyQueryResult(queryResultMsg{
		key:  query.K(query.ResGroups),
		data: []api.Group{{ID: 3}},
	})
	assert.False(t, needSync)
	assert.Len(t, m.groups, 1)

	m.detailID = 7
	m.applyQueryResult(queryResultMsg{
		key:  query.KID(query.ResMemory, 7),
		data: &api.Memory{ID: 7, Title: "detail"},
	})
	require.NotNil(t, m.detail)
	assert.Equal(t, "detail", m.detail.Title)

	// A stale detail result for a different memory is ignored.
	m.applyQueryResult(queryResultMsg{
		key:  query.KID(query.ResMemory, 8),
		data: &api.Memory{ID: 8, Title: "other"},
	})
	assert.Equal(t, "detail", m.detail.Title)
}

func TestResetToLoginClearsSessionState(t *testing.T) {
	m := newTestModel(t)
	me := api.User{ID: 1, Nickname: "amy"}
	m.me = &me
	m.memories = []api.Memory{{ID: 1}}
	m.groups = []api.Group{{ID: 1}}
	gid := int64(1)
	m.groupFilter = &gid
	m.mode = DetailPage
	m.modal = ModalMemoryForm

	m.resetToLogin("bye")

	assert.Equal(t, LoginView, m.mode)
	assert.Equal(t, ModalNone, m.modal)
	assert.Nil(t, m.me)
	assert.Empty(t, m.memories)
	assert.Nil(t, m.groupFilter)
}

func TestPendingInvitesCountsOnlyPending(t *testing.T) {
	m := newTestModel(t)
	m.invitations = []api.Invitation{
		{ID: 1, Status: api.InvitationPending},
		{ID: 2, Status: api.InvitationAccepted},
		{ID: 3, Status: api.InvitationPending},
	}
	assert.Equal(t, 2, m.pendingInvites())
}

func TestRefetchAfterSkipsForeignDetailKeys(t *testing.T) {
	m := newTestModel(t)
	m.detailID = 4

	cmds := m.refetchAfter(mutationDoneMsg{name: query.MutCommentCreate, id: 4})
	assert.Len(t, cmds, 2, "comments and memory for the open detail both refetch")

	cmds = m.refetchAfter(mutationDoneMsg{name: query.MutCommentCreate, id: 9})
	assert.Empty(t, cmds, "detail keys for a page not on screen are skipped")
}
