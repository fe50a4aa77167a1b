package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"ourtime/internal/api"
	"ourtime/internal/logging"
	"ourtime/internal/query"
)

// fetchCmd reads a key through the cache off the event loop and delivers
// the result as a queryResultMsg. Concurrent reads of the same key collapse
// into one fetch inside the cache.
func (m *Model) fetchCmd(key query.Key) tea.Cmd {
	m.loading++
	cache := m.cache
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		data, err := cache.Get(ctx, key)
		return queryResultMsg{key: key, data: data, err: err}
	}
}

// mutateCmd runs a named write through the cache so its invalidation table
// fires on success, then delivers a mutationDoneMsg.
func (m *Model) mutateCmd(name string, id int64, fn func(ctx context.Context) error) tea.Cmd {
	m.loading++
	cache := m.cache
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := cache.Mutate(ctx, name, id, fn)
		return mutationDoneMsg{name: name, id: id, err: err}
	}
}

// groupCreatedMsg carries the created group so the UI can surface its
// invite code.
type groupCreatedMsg struct {
	group *api.Group
	err   error
}

// createGroupCmd creates a group through the cache, keeping the server
// response so the invite code can be shown.
func (m *Model) createGroupCmd(req api.CreateGroupRequest) tea.Cmd {
	m.loading++
	cache, client := m.cache, m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		var created *api.Group
		err := cache.Mutate(ctx, query.MutGroupCreate, 0, func(ctx context.Context) error {
			g, err := client.CreateGroupWithInvites(ctx, req)
			created = g
			return err
		})
		return groupCreatedMsg{group: created, err: err}
	}
}

// loginCmd exchanges credentials for a token pair.
func (m *Model) loginCmd(req api.LoginRequest) tea.Cmd {
	m.loading++
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		resp, err := client.Login(ctx, req)
		return authDoneMsg{resp: resp, err: err}
	}
}

// signupCmd creates an account; a successful signup signs straight in.
func (m *Model) signupCmd(req api.SignupRequest) tea.Cmd {
	m.loading++
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		resp, err := client.Signup(ctx, req)
		return authDoneMsg{resp: resp, err: err}
	}
}

// logoutCmd tells the server then drops local tokens. The local session
// clears even when the server call fails.
func (m *Model) logoutCmd() tea.Cmd {
	m.loading++
	client, sess := m.client, m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := client.Logout(ctx); err != nil {
			logging.SessionError("server logout failed: %v", err)
		}
		if err := sess.Clear(); err != nil {
			logging.SessionError("clearing tokens: %v", err)
		}
		return loggedOutMsg{}
	}
}

// refetchAfter returns the fetch commands for every key a finished mutation
// invalidated, so the UI converges without manual bookkeeping.
func (m *Model) refetchAfter(msg mutationDoneMsg) []tea.Cmd {
	var cmds []tea.Cmd
	for _, key := range query.InvalidatedBy(msg.name, msg.id) {
		// Detail keys only refetch while that memory is on screen.
		if key.ID != 0 && key.ID != m.detailID {
			continue
		}
		cmds = append(cmds, m.fetchCmd(key))
	}
	return cmds
}

// applyQueryResult folds fetched data into model state. It returns true
// when the map surface needs a resync.
func (m *Model) applyQueryResult(msg queryResultMsg) bool {
	if msg.data == nil {
		return false
	}
	switch msg.key.Resource {
	case query.ResMemories:
		if v, ok := query.As[[]api.Memory](msg.data); ok {
			m.memories = v
			return true
		}
	case query.ResGroups:
		if v, ok := query.As[[]api.Group](msg.data); ok {
			m.groups = v
			if m.groupCursor >= len(m.groups) {
				m.groupCursor = 0
			}
		}
	case query.ResInvitations:
		if v, ok := query.As[[]api.Invitation](msg.data); ok {
			m.invitations = v
			if m.inviteCursor >= len(m.invitations) {
				m.inviteCursor = 0
			}
		}
	case query.ResProfile:
		if v, ok := query.As[*api.User](msg.data); ok {
			m.me = v
		}
	case query.ResMemory:
		if msg.key.ID == m.detailID {
			if v, ok := query.As[*api.Memory](msg.data); ok {
				m.detail = v
			}
		}
	case query.ResComments:
		if msg.key.ID == m.detailID {
			if v, ok := query.As[[]api.Comment](msg.data); ok {
				m.comments = v
			}
		}
	}
	return false
}
