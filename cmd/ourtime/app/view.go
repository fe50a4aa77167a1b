package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ourtime/cmd/ourtime/ui"
	"ourtime/internal/api"
)

func (m *Model) View() string {
	if m.mode == LoginView || m.mode == SignupView {
		return m.viewAuth()
	}

	header := m.viewHeader()
	var content string
	switch m.mode {
	case MapPage:
		content = m.viewMap()
	case GroupsPage:
		content = m.viewGroups()
	case DetailPage:
		content = m.viewDetail()
	case NotificationsPage:
		content = m.viewNotifications()
	case ProfilePage:
		content = m.viewProfile()
	}

	if m.modal != ModalNone {
		content = m.viewModal()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, content, m.viewFooter())
}

func (m *Model) viewAuth() string {
	var form string
	if m.mode == SignupView {
		form = m.signup.view(m.styles)
	} else {
		form = m.login.view(m.styles)
	}
	box := m.styles.Modal.Render(form)
	if m.status != "" {
		box = lipgloss.JoinVertical(lipgloss.Left, box, m.styles.Muted.Render(m.status))
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) viewHeader() string {
	s := m.styles
	title := s.Header.Render(" OurTime ")

	nav := "m:map · g:groups · N:notifications · p:profile"
	if n := m.pendingInvites(); n > 0 {
		nav += "  " + s.Badge.Render(fmt.Sprintf("%d", n))
	}

	who := ""
	if m.me != nil {
		who = s.Muted.Render(m.me.Nickname + " · " + m.me.Email)
	}

	filter := ""
	if m.groupFilter != nil {
		if g, ok := m.groupByID(*m.groupFilter); ok {
			filter = s.Badge.Render(g.Name)
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", s.Muted.Render(nav), "  ", filter, "  ", who)
}

func (m *Model) viewFooter() string {
	s := m.styles
	left := m.status
	if m.loading > 0 {
		left = m.spinner.View() + " " + left
	}
	return s.Footer.Render(left)
}

// =============================================================================
// PAGES
// =============================================================================

func (m *Model) viewMap() string {
	s := m.styles
	canvas := m.canvas.View(s)
	if m.canvas.Failed() {
		return lipgloss.Place(m.width, m.height-4, lipgloss.Center, lipgloss.Center, canvas)
	}

	status := s.Muted.Render(m.canvas.StatusLine())
	keys := s.Muted.Render("arrows: move · +/-: zoom · enter: open · n: new memory · r: new route · f: filter · t: routes on/off · u: refresh")
	return lipgloss.JoinVertical(lipgloss.Left, canvas, status, keys)
}

func (m *Model) viewGroups() string {
	s := m.styles
	var b strings.Builder
	b.WriteString(s.Title.Render("Groups") + "\n")

	if m.lastInviteCode != "" {
		b.WriteString(s.Info.Render("share this invite code: ") + s.Bold.Render(m.lastInviteCode) + "\n\n")
	}

	if len(m.groups) == 0 {
		b.WriteString(s.Muted.Render("no groups yet — press n to create one or c to join by code") + "\n")
	}
	for i, g := range m.groups {
		badge := lipgloss.NewStyle().Foreground(ui.GroupColor(g.ID)).Render("●")
		line := fmt.Sprintf("%s %s  %s", badge, g.Name, s.Muted.Render(g.Type.Label()))
		if g.Description != "" {
			line += s.Muted.Render(" · " + g.Description)
		}
		if m.me != nil && g.CreatedBy == m.me.ID {
			line += s.Muted.Render(" · invite " + g.InviteCode)
		}
		if i == m.groupCursor {
			b.WriteString(s.Selected.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}

	b.WriteString("\n" + s.Muted.Render("n: new · c: join by code · f: show on map · d: delete · esc: back"))
	return s.Content.Render(b.String())
}

func (m *Model) viewDetail() string {
	s := m.styles
	if m.detail == nil {
		return s.Content.Render(s.Muted.Render("loading memory..."))
	}
	mem := m.detail

	var b strings.Builder
	b.WriteString(s.Title.Render(mem.Title) + "\n")
	meta := fmt.Sprintf("by %s · visited %s", mem.User.Nickname, mem.VisitedAt)
	if mem.LocationName != "" {
		meta += " · " + mem.LocationName
	}
	if g, ok := m.groupByID(mem.GroupID); ok {
		meta += " · " + g.Name
	}
	b.WriteString(s.Subtitle.Render(meta) + "\n")
	b.WriteString(s.Muted.Render(fmt.Sprintf("♥ %d   💬 %d", mem.LikeCount, mem.CommentCount)) + "\n\n")

	if len(mem.Tags) > 0 {
		for _, t := range mem.Tags {
			b.WriteString(s.Tag.Render("#"+t.Name) + " ")
		}
		b.WriteString("\n\n")
	}

	if mem.Description != "" {
		if out, err := m.md.Render(mem.Description); err == nil {
			b.WriteString(out)
		} else {
			b.WriteString(s.Body.Render(mem.Description) + "\n")
		}
	}

	if len(mem.ImageURLs) > 0 {
		b.WriteString(s.FieldLabel.Render(fmt.Sprintf("Image %d/%d", m.imageCursor+1, len(mem.ImageURLs))) + "  ")
		b.WriteString(s.Muted.Render(mem.ImageURLs[m.imageCursor]) + "\n\n")
	}

	b.WriteString(s.FieldLabel.Render("Comments") + "\n")
	if len(m.comments) == 0 {
		b.WriteString(s.Muted.Render("  nothing yet") + "\n")
	}
	for _, c := range m.comments {
		b.WriteString(s.Bold.Render("  "+c.User.Nickname) + s.Muted.Render(" · "+c.CreatedAt) + "\n")
		b.WriteString(s.Body.Render("  "+c.Content) + "\n")
	}
	b.WriteString("\n" + m.commentInput.View() + "\n")

	keys := "c: comment · l: like · L: unlike · ←/→: images · esc: back"
	if m.me != nil && mem.EditableBy(m.me.ID) {
		keys = "e: edit · d: delete · " + keys
	}
	b.WriteString("\n" + s.Muted.Render(keys))
	return s.Content.Render(b.String())
}

func (m *Model) viewNotifications() string {
	s := m.styles
	var b strings.Builder
	b.WriteString(s.Title.Render("Invitations") + "\n")

	if len(m.invitations) == 0 {
		b.WriteString(s.Muted.Render("no pending invitations") + "\n")
	}
	for i, inv := range m.invitations {
		line := fmt.Sprintf("%s invited you to %s", inv.InviterNickname, s.Bold.Render(inv.GroupName))
		switch inv.Status {
		case api.InvitationAccepted:
			line += "  " + s.Success.Render("accepted")
		case api.InvitationRejected:
			line += "  " + s.Muted.Render("declined")
		}
		if i == m.inviteCursor {
			b.WriteString(s.Selected.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}

	b.WriteString("\n" + s.Muted.Render("a: accept · x: decline · esc: back"))
	return s.Content.Render(b.String())
}

func (m *Model) viewProfile() string {
	s := m.styles
	var b strings.Builder
	b.WriteString(s.Title.Render("Profile") + "\n")

	if m.me == nil {
		b.WriteString(s.Muted.Render("loading profile...") + "\n")
		return s.Content.Render(b.String())
	}

	if m.profileEditing {
		b.WriteString(renderField(s, "Nickname", m.profileInput.View(), ""))
		b.WriteString(s.Muted.Render("enter: save · esc: cancel"))
		return s.Content.Render(b.String())
	}

	b.WriteString(s.FieldLabel.Render("Nickname") + "  " + s.Body.Render(m.me.Nickname) + "\n")
	b.WriteString(s.FieldLabel.Render("Email") + "     " + s.Body.Render(m.me.Email) + "\n")
	if m.me.UserTag != "" {
		b.WriteString(s.FieldLabel.Render("Tag") + "       " + s.Body.Render(m.me.UserTag) + "\n")
	}
	if info, ok := m.session.Info(); ok {
		b.WriteString(s.Muted.Render(fmt.Sprintf("session for subject %s, expires %s", info.Subject, info.ExpiresAt.Format("2006-01-02 15:04"))) + "\n")
	}

	b.WriteString("\n" + s.Muted.Render("e: edit nickname · ctrl+l: sign out · esc: back"))
	return s.Content.Render(b.String())
}

// =============================================================================
// MODALS
// =============================================================================

func (m *Model) viewModal() string {
	s := m.styles
	var body string
	switch m.modal {
	case ModalMemoryForm:
		body = m.memForm.view(s)
	case ModalGroupForm:
		body = m.grpForm.view(s)
	case ModalRouteForm:
		body = m.rtForm.view(s)
	case ModalConfirmDelete:
		body = s.Error.Render("Delete "+m.confirm.kind) + "\n\n" +
			s.Body.Render(fmt.Sprintf("really delete %q?", m.confirm.name)) + "\n\n" +
			s.Muted.Render("y: delete · n: keep")
	}
	return lipgloss.Place(m.width, m.height-4, lipgloss.Center, lipgloss.Center, s.Modal.Render(body))
}
