package app

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"ourtime/cmd/ourtime/ui"
	"ourtime/internal/api"
)

// groupTypes is the selector order for the group type field.
var groupTypes = []api.GroupType{
	api.GroupCouple,
	api.GroupFamily,
	api.GroupFriend,
	api.GroupTeam,
	api.GroupEtc,
}

// groupForm creates a group or joins one by invite code, switched by mode.
type groupForm struct {
	joining bool

	name     textinput.Model
	desc     textinput.Model
	invitees textinput.Model
	code     textinput.Model
	typeIdx  int
	focus    int
	fieldErr map[string]string
}

func newGroupForm(joining bool) groupForm {
	f := groupForm{joining: joining, fieldErr: map[string]string{}}

	f.name = textinput.New()
	f.name.Placeholder = "group name"
	f.name.CharLimit = 60

	f.desc = textinput.New()
	f.desc.Placeholder = "description (optional)"
	f.desc.CharLimit = 300

	f.invitees = textinput.New()
	f.invitees.Placeholder = "invite emails, comma separated (optional)"
	f.invitees.CharLimit = 300

	f.code = textinput.New()
	f.code.Placeholder = "invite code"
	f.code.CharLimit = 20

	if joining {
		f.code.Focus()
	} else {
		f.name.Focus()
	}
	return f
}

func (f *groupForm) inputs() []*textinput.Model {
	if f.joining {
		return []*textinput.Model{&f.code}
	}
	return []*textinput.Model{&f.name, &f.desc, &f.invitees}
}

func (f *groupForm) update(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for _, in := range f.inputs() {
		var cmd tea.Cmd
		*in, cmd = in.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (f *groupForm) cycleFocus() {
	inputs := f.inputs()
	f.focus = (f.focus + 1) % len(inputs)
	for i, in := range inputs {
		if i == f.focus {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

func (f *groupForm) cycleType() {
	f.typeIdx = (f.typeIdx + 1) % len(groupTypes)
}

// createRequest builds the creation payload. Invitee emails split on commas
// with empties dropped.
func (f *groupForm) createRequest() (api.CreateGroupRequest, bool) {
	f.fieldErr = map[string]string{}
	req := api.CreateGroupRequest{
		Name:        strings.TrimSpace(f.name.Value()),
		Type:        groupTypes[f.typeIdx],
		Description: strings.TrimSpace(f.desc.Value()),
	}
	for _, part := range strings.Split(f.invitees.Value(), ",") {
		if email := strings.TrimSpace(part); email != "" {
			req.InviteeEmails = append(req.InviteeEmails, email)
		}
	}
	if req.Name == "" {
		f.fieldErr["name"] = "group name is required"
	}
	return req, len(f.fieldErr) == 0
}

// joinCode returns the trimmed invite code.
func (f *groupForm) joinCode() (string, bool) {
	f.fieldErr = map[string]string{}
	code := strings.TrimSpace(f.code.Value())
	if code == "" {
		f.fieldErr["inviteCode"] = "invite code is required"
	}
	return code, len(f.fieldErr) == 0
}

func (f *groupForm) applyError(err error) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Field != "" {
		f.fieldErr[apiErr.Field] = apiErr.Message
	}
}

func (f *groupForm) view(s ui.Styles) string {
	var b strings.Builder
	if f.joining {
		b.WriteString(s.Title.Render("Join a group") + "\n\n")
		b.WriteString(renderField(s, "Invite code", f.code.View(), f.fieldErr["inviteCode"]))
		b.WriteString("\n" + s.Muted.Render("enter: join · esc: cancel"))
		return b.String()
	}

	b.WriteString(s.Title.Render("New group") + "\n\n")
	b.WriteString(renderField(s, "Name", f.name.View(), f.fieldErr["name"]))
	b.WriteString(s.FieldLabel.Render("Type") + "  " +
		s.Selected.Render(groupTypes[f.typeIdx].Label()) +
		s.Muted.Render("  ctrl+t to change") + "\n\n")
	b.WriteString(renderField(s, "Description", f.desc.View(), ""))
	b.WriteString(renderField(s, "Invitees", f.invitees.View(), f.fieldErr["inviteeEmails"]))
	b.WriteString("\n" + s.Muted.Render("ctrl+s: create · tab: next field · esc: cancel"))
	return b.String()
}
