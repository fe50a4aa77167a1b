package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"ourtime/cmd/ourtime/ui"
	"ourtime/internal/api"
	"ourtime/internal/config"
	"ourtime/internal/logging"
	"ourtime/internal/mapsync"
	"ourtime/internal/query"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// A 401 anywhere ends the session; the token store is already cleared
	// by the HTTP layer.
	select {
	case <-m.kickedOut:
		logging.Session("session expired, returning to sign-in")
		m.resetToLogin("session expired, please sign in again")
		return m, nil
	default:
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.canvas.SetSize(msg.Width-2, msg.Height-6)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case configReloadedMsg:
		m.applyConfig(msg.cfg)
		if m.rearmWatch != nil {
			return m, m.rearmWatch()
		}
		return m, nil

	case authDoneMsg:
		return m.handleAuthDone(msg)

	case loggedOutMsg:
		m.doneLoading()
		m.resetToLogin("signed out")
		return m, nil

	case queryResultMsg:
		return m.handleQueryResult(msg)

	case mutationDoneMsg:
		return m.handleMutationDone(msg)

	case groupCreatedMsg:
		m.doneLoading()
		if msg.err != nil {
			m.grpForm.applyError(msg.err)
			m.status = errText(msg.err)
			return m, nil
		}
		m.modal = ModalNone
		if msg.group != nil {
			m.lastInviteCode = msg.group.InviteCode
			m.status = fmt.Sprintf("group %q created · invite code %s", msg.group.Name, msg.group.InviteCode)
		}
		return m, m.fetchCmd(query.K(query.ResGroups))

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// doneLoading decrements the in-flight counter. Responses that straggle in
// after a session reset must not drive it negative.
func (m *Model) doneLoading() {
	if m.loading > 0 {
		m.loading--
	}
}

// resetToLogin clears all session-scoped state.
func (m *Model) resetToLogin(status string) {
	m.mode = LoginView
	m.modal = ModalNone
	m.login = newLoginForm()
	m.me = nil
	m.memories = nil
	m.groups = nil
	m.invitations = nil
	m.comments = nil
	m.detail = nil
	m.detailID = 0
	m.groupFilter = nil
	m.lastInviteCode = ""
	m.loading = 0
	m.status = status
	m.syncMap()
}

// applyConfig folds a hot-reloaded configuration in. The map surface is
// not re-initialized here; a failed map only recovers through the manual
// reload key.
func (m *Model) applyConfig(cfg *config.Config) {
	m.cfg = cfg
	m.styles = ui.NewStyles(ui.ThemeByName(cfg.UI.Theme))
	m.showRoutes = cfg.Map.ShowRoutes
	m.syncMap()
	m.status = "configuration reloaded"
	logging.UI("config reloaded")
}

func (m *Model) handleAuthDone(msg authDoneMsg) (tea.Model, tea.Cmd) {
	m.doneLoading()
	if msg.err != nil {
		if m.mode == SignupView {
			m.signup.applyError(msg.err)
		} else {
			m.login.applyError(msg.err)
		}
		m.status = errText(msg.err)
		return m, nil
	}
	if err := m.session.SetPair(msg.resp.AccessToken, msg.resp.RefreshToken); err != nil {
		m.status = "could not persist session: " + err.Error()
		return m, nil
	}
	logging.Session("signed in as %s", msg.resp.User.Email)
	me := msg.resp.User
	m.me = &me
	m.mode = MapPage
	m.status = "welcome, " + me.Nickname
	return m, tea.Batch(m.loadHomeData()...)
}

func (m *Model) handleQueryResult(msg queryResultMsg) (tea.Model, tea.Cmd) {
	m.doneLoading()
	needSync := m.applyQueryResult(msg)
	if msg.err != nil {
		logging.APIError("query %s: %v", msg.key, msg.err)
		m.status = errText(msg.err)
	}
	if needSync {
		m.syncMap()
	}
	return m, nil
}

func (m *Model) handleMutationDone(msg mutationDoneMsg) (tea.Model, tea.Cmd) {
	m.doneLoading()
	if msg.err != nil {
		m.routeMutationError(msg)
		return m, nil
	}

	switch msg.name {
	case query.MutMemoryCreate:
		m.modal = ModalNone
		m.status = "memory saved"
	case query.MutMemoryUpdate:
		m.modal = ModalNone
		m.status = "memory updated"
	case query.MutMemoryDelete:
		m.status = "memory deleted"
		if m.mode == DetailPage {
			m.mode = MapPage
			m.detail = nil
			m.detailID = 0
		}
	case query.MutCommentCreate:
		m.commentInput.SetValue("")
		m.status = "comment posted"
	case query.MutCommentDelete:
		m.status = "comment deleted"
	case query.MutGroupJoin:
		m.modal = ModalNone
		m.status = "joined group"
	case query.MutGroupDelete:
		m.status = "group deleted"
	case query.MutInviteAccept:
		m.status = "invitation accepted"
	case query.MutInviteReject:
		m.status = "invitation declined"
	case query.MutProfileUpdate:
		m.profileEditing = false
		m.status = "profile updated"
	}

	return m, tea.Batch(m.refetchAfter(msg)...)
}

// routeMutationError sends a failed write's error to whichever form is
// open, falling back to the status line.
func (m *Model) routeMutationError(msg mutationDoneMsg) {
	logging.APIError("mutation %s: %v", msg.name, msg.err)
	switch m.modal {
	case ModalMemoryForm:
		m.memForm.applyError(msg.err)
	case ModalGroupForm:
		m.grpForm.applyError(msg.err)
	}
	m.status = errText(msg.err)
}

// =============================================================================
// KEY DISPATCH
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Ctrl+C always quits.
	if msg.Type == tea.KeyCtrlC {
		m.Close()
		return m, tea.Quit
	}

	// An open modal owns the keyboard.
	if m.modal != ModalNone {
		return m.handleModalKey(msg)
	}

	switch m.mode {
	case LoginView:
		return m.handleLoginKey(msg)
	case SignupView:
		return m.handleSignupKey(msg)
	case MapPage:
		return m.handleMapKey(msg)
	case GroupsPage:
		return m.handleGroupsKey(msg)
	case DetailPage:
		return m.handleDetailKey(msg)
	case NotificationsPage:
		return m.handleNotificationsKey(msg)
	case ProfilePage:
		return m.handleProfileKey(msg)
	}
	return m, nil
}

func (m *Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab, tea.KeyShiftTab:
		m.login.cycleFocus()
		return m, nil
	case tea.KeyEnter:
		req, ok := m.login.request()
		if !ok {
			return m, nil
		}
		return m, m.loginCmd(req)
	case tea.KeyCtrlS:
		m.signup = newSignupForm()
		m.mode = SignupView
		return m, nil
	}
	return m, m.login.update(msg)
}

func (m *Model) handleSignupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab, tea.KeyShiftTab:
		m.signup.cycleFocus()
		return m, nil
	case tea.KeyEnter:
		req, ok := m.signup.request()
		if !ok {
			return m, nil
		}
		return m, m.signupCmd(req)
	case tea.KeyEsc:
		m.mode = LoginView
		return m, nil
	}
	return m, m.signup.update(msg)
}

func (m *Model) handleMapKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up":
		m.canvas.MoveCursor(0, -1)
	case "down":
		m.canvas.MoveCursor(0, 1)
	case "left":
		m.canvas.MoveCursor(-1, 0)
	case "right":
		m.canvas.MoveCursor(1, 0)
	case "+", "=":
		m.canvas.ZoomIn()
	case "-", "_":
		m.canvas.ZoomOut()
	case "enter":
		if marker, ok := m.canvas.MarkerAtCursor(); ok {
			return m, m.openDetail(marker.Memory.ID)
		}
	case "n":
		if m.canvas.Failed() {
			return m, nil
		}
		m.memForm = newMemoryForm(m.groups, m.canvas.CursorLatLng())
		m.modal = ModalMemoryForm
	case "r":
		m.rtForm = newRouteForm(m.visibleMemories())
		m.modal = ModalRouteForm
	case "R":
		if err := m.canvas.Reload(m.cfg.Map.ClientID); err != nil {
			m.status = errText(err)
		} else {
			m.syncMap()
			m.status = "map reloaded"
		}
	case "f":
		m.cycleGroupFilter()
	case "t":
		m.showRoutes = !m.showRoutes
		m.syncMap()
	case "g":
		m.mode = GroupsPage
	case "N":
		m.mode = NotificationsPage
	case "p":
		m.profileEditing = false
		m.mode = ProfilePage
	case "u":
		m.cache.Invalidate(query.K(query.ResMemories), query.K(query.ResGroups), query.K(query.ResInvitations))
		return m, tea.Batch(
			m.fetchCmd(query.K(query.ResMemories)),
			m.fetchCmd(query.K(query.ResGroups)),
			m.fetchCmd(query.K(query.ResInvitations)),
		)
	case "ctrl+l":
		return m, m.logoutCmd()
	}
	return m, nil
}

// cycleGroupFilter steps the map filter: all groups, then each joined
// group, then back to all.
func (m *Model) cycleGroupFilter() {
	if len(m.groups) == 0 {
		m.groupFilter = nil
		return
	}
	switch {
	case m.groupFilter == nil:
		id := m.groups[0].ID
		m.groupFilter = &id
	default:
		idx := -1
		for i, g := range m.groups {
			if g.ID == *m.groupFilter {
				idx = i
				break
			}
		}
		if idx < 0 || idx == len(m.groups)-1 {
			m.groupFilter = nil
		} else {
			id := m.groups[idx+1].ID
			m.groupFilter = &id
		}
	}
	m.syncMap()
}

// visibleMemories returns what the map currently shows, used to seed the
// route picker.
func (m *Model) visibleMemories() []api.Memory {
	return mapsync.Visible(m.memories, m.groupFilter)
}

// openDetail switches to the detail page and loads the memory and its
// comments.
func (m *Model) openDetail(memoryID int64) tea.Cmd {
	m.mode = DetailPage
	m.detailID = memoryID
	m.detail = nil
	m.comments = nil
	m.imageCursor = 0
	m.commentInput.SetValue("")
	m.commentInput.Blur()
	m.registerDetailQueries(memoryID)
	return tea.Batch(
		m.fetchCmd(query.KID(query.ResMemory, memoryID)),
		m.fetchCmd(query.KID(query.ResComments, memoryID)),
	)
}

func (m *Model) handleGroupsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "m":
		m.mode = MapPage
	case "up", "k":
		if m.groupCursor > 0 {
			m.groupCursor--
		}
	case "down", "j":
		if m.groupCursor < len(m.groups)-1 {
			m.groupCursor++
		}
	case "n":
		m.grpForm = newGroupForm(false)
		m.modal = ModalGroupForm
	case "c":
		m.grpForm = newGroupForm(true)
		m.modal = ModalGroupForm
	case "f":
		if m.groupCursor < len(m.groups) {
			id := m.groups[m.groupCursor].ID
			m.groupFilter = &id
			m.mode = MapPage
			m.syncMap()
		}
	case "d":
		if m.groupCursor < len(m.groups) {
			g := m.groups[m.groupCursor]
			if m.me != nil && g.CreatedBy == m.me.ID {
				m.confirm = deleteTarget{kind: "group", id: g.ID, name: g.Name}
				m.modal = ModalConfirmDelete
			} else {
				m.status = "only the group creator can delete it"
			}
		}
	}
	return m, nil
}

func (m *Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the comment box is focused it takes every key except escape
	// and enter.
	if m.commentInput.Focused() {
		switch msg.Type {
		case tea.KeyEsc:
			m.commentInput.Blur()
			return m, nil
		case tea.KeyEnter:
			content := m.commentInput.Value()
			if content == "" || m.detail == nil {
				return m, nil
			}
			id := m.detailID
			req := api.CreateCommentRequest{MemoryID: id, Content: content}
			return m, m.mutateCmd(query.MutCommentCreate, id, func(ctx context.Context) error {
				_, err := m.client.CreateComment(ctx, req)
				return err
			})
		}
		var cmd tea.Cmd
		m.commentInput, cmd = m.commentInput.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "esc", "m":
		m.mode = MapPage
		m.detail = nil
		m.detailID = 0
	case "left", "h":
		if m.imageCursor > 0 {
			m.imageCursor--
		}
	case "right":
		if m.detail != nil && m.imageCursor < len(m.detail.ImageURLs)-1 {
			m.imageCursor++
		}
	case "c":
		m.commentInput.Focus()
	case "l":
		if m.detail != nil {
			id := m.detailID
			return m, m.mutateCmd(query.MutMemoryLike, id, func(ctx context.Context) error {
				return m.client.LikeMemory(ctx, id)
			})
		}
	case "L":
		if m.detail != nil {
			id := m.detailID
			return m, m.mutateCmd(query.MutMemoryUnlike, id, func(ctx context.Context) error {
				return m.client.UnlikeMemory(ctx, id)
			})
		}
	case "e":
		if m.detail != nil && m.me != nil && m.detail.EditableBy(m.me.ID) {
			m.memForm = newMemoryEditForm(*m.detail, m.groups)
			m.modal = ModalMemoryForm
		}
	case "d":
		if m.detail != nil && m.me != nil && m.detail.EditableBy(m.me.ID) {
			m.confirm = deleteTarget{kind: "memory", id: m.detailID, name: m.detail.Title}
			m.modal = ModalConfirmDelete
		}
	}
	return m, nil
}

func (m *Model) handleNotificationsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "m":
		m.mode = MapPage
	case "up", "k":
		if m.inviteCursor > 0 {
			m.inviteCursor--
		}
	case "down", "j":
		if m.inviteCursor < len(m.invitations)-1 {
			m.inviteCursor++
		}
	case "a", "enter":
		if m.inviteCursor < len(m.invitations) {
			inv := m.invitations[m.inviteCursor]
			if inv.Status != api.InvitationPending {
				return m, nil
			}
			id := inv.ID
			return m, m.mutateCmd(query.MutInviteAccept, id, func(ctx context.Context) error {
				return m.client.AcceptInvitation(ctx, id)
			})
		}
	case "x":
		if m.inviteCursor < len(m.invitations) {
			inv := m.invitations[m.inviteCursor]
			if inv.Status != api.InvitationPending {
				return m, nil
			}
			id := inv.ID
			return m, m.mutateCmd(query.MutInviteReject, id, func(ctx context.Context) error {
				return m.client.RejectInvitation(ctx, id)
			})
		}
	}
	return m, nil
}

func (m *Model) handleProfileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.profileEditing {
		switch msg.Type {
		case tea.KeyEsc:
			m.profileEditing = false
			return m, nil
		case tea.KeyEnter:
			nickname := m.profileInput.Value()
			if nickname == "" {
				return m, nil
			}
			req := api.UpdateProfileRequest{Nickname: nickname}
			return m, m.mutateCmd(query.MutProfileUpdate, 0, func(ctx context.Context) error {
				_, err := m.client.UpdateProfile(ctx, req)
				return err
			})
		}
		var cmd tea.Cmd
		m.profileInput, cmd = m.profileInput.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "esc", "m":
		m.mode = MapPage
	case "e":
		if m.me != nil {
			m.profileInput.SetValue(m.me.Nickname)
		}
		m.profileInput.Focus()
		m.profileEditing = true
	case "ctrl+l":
		return m, m.logoutCmd()
	}
	return m, nil
}

// =============================================================================
// MODAL KEYS
// =============================================================================

func (m *Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modal {
	case ModalMemoryForm:
		return m.handleMemoryFormKey(msg)
	case ModalGroupForm:
		return m.handleGroupFormKey(msg)
	case ModalRouteForm:
		return m.handleRouteFormKey(msg)
	case ModalConfirmDelete:
		return m.handleConfirmKey(msg)
	}
	return m, nil
}

func (m *Model) handleMemoryFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.modal = ModalNone
		return m, nil
	case tea.KeyTab:
		m.memForm.cycleFocus(false)
		return m, nil
	case tea.KeyShiftTab:
		m.memForm.cycleFocus(true)
		return m, nil
	case tea.KeyCtrlG:
		m.memForm.cycleGroup()
		return m, nil
	case tea.KeyEnter:
		switch m.memForm.focus {
		case memFieldTags:
			m.memForm.stageTag()
		case memFieldImages:
			m.memForm.stageImage()
		}
		return m, nil
	case tea.KeyCtrlD:
		if m.memForm.focus == memFieldTags {
			m.memForm.removeLastTag()
			return m, nil
		}
	case tea.KeyCtrlS:
		return m.submitMemoryForm()
	}
	return m, m.memForm.update(msg)
}

func (m *Model) submitMemoryForm() (tea.Model, tea.Cmd) {
	if !m.memForm.validate() {
		return m, nil
	}
	if m.memForm.editing {
		id := m.memForm.memoryID
		req := m.memForm.updateRequest()
		return m, m.mutateCmd(query.MutMemoryUpdate, id, func(ctx context.Context) error {
			_, err := m.client.UpdateMemory(ctx, id, req)
			return err
		})
	}
	req, err := m.memForm.createRequest()
	if err != nil {
		m.status = errText(err)
		return m, nil
	}
	return m, m.mutateCmd(query.MutMemoryCreate, 0, func(ctx context.Context) error {
		_, err := m.client.CreateMemory(ctx, req)
		return err
	})
}

func (m *Model) handleGroupFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.modal = ModalNone
		return m, nil
	case tea.KeyTab, tea.KeyShiftTab:
		m.grpForm.cycleFocus()
		return m, nil
	case tea.KeyCtrlT:
		if !m.grpForm.joining {
			m.grpForm.cycleType()
		}
		return m, nil
	case tea.KeyEnter:
		if m.grpForm.joining {
			code, ok := m.grpForm.joinCode()
			if !ok {
				return m, nil
			}
			return m, m.mutateCmd(query.MutGroupJoin, 0, func(ctx context.Context) error {
				_, err := m.client.JoinGroup(ctx, code)
				return err
			})
		}
	case tea.KeyCtrlS:
		if !m.grpForm.joining {
			req, ok := m.grpForm.createRequest()
			if !ok {
				return m, nil
			}
			return m, m.createGroupCmd(req)
		}
		return m, nil
	}
	return m, m.grpForm.update(msg)
}

func (m *Model) handleRouteFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.modal = ModalNone
		return m, nil
	case "tab":
		m.rtForm.cycleFocus()
		return m, nil
	case "up":
		m.rtForm.moveCursor(-1)
		return m, nil
	case "down":
		m.rtForm.moveCursor(1)
		return m, nil
	case " ":
		m.rtForm.toggle()
		return m, nil
	case "ctrl+s":
		name, desc, ids, ok := m.rtForm.build()
		if !ok {
			return m, nil
		}
		r, err := m.routes.Add(name, desc, ids)
		if err != nil {
			m.status = errText(err)
			return m, nil
		}
		m.modal = ModalNone
		m.showRoutes = true
		m.syncMap()
		m.status = fmt.Sprintf("route %q added", r.Name)
		return m, nil
	}
	return m, m.rtForm.update(msg)
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		target := m.confirm
		m.modal = ModalNone
		return m.runDelete(target)
	case "n", "N", "esc":
		m.modal = ModalNone
	}
	return m, nil
}

func (m *Model) runDelete(target deleteTarget) (tea.Model, tea.Cmd) {
	switch target.kind {
	case "memory":
		id := target.id
		return m, m.mutateCmd(query.MutMemoryDelete, id, func(ctx context.Context) error {
			return m.client.DeleteMemory(ctx, id)
		})
	case "group":
		id := target.id
		return m, m.mutateCmd(query.MutGroupDelete, id, func(ctx context.Context) error {
			return m.client.DeleteGroup(ctx, id)
		})
	case "route":
		m.routes.Remove(target.uid)
		m.syncMap()
		m.status = "route removed"
	}
	return m, nil
}

// errText normalizes an error for the status line.
func errText(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
