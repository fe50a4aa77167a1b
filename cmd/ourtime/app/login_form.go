package app

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"ourtime/cmd/ourtime/ui"
	"ourtime/internal/api"
)

// loginForm is the credentials entry on the login page.
type loginForm struct {
	email    textinput.Model
	password textinput.Model
	focus    int
	fieldErr map[string]string
}

func newLoginForm() loginForm {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 100
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 100

	return loginForm{email: email, password: password, fieldErr: map[string]string{}}
}

func (f *loginForm) update(msg tea.Msg) tea.Cmd {
	var cmds [2]tea.Cmd
	f.email, cmds[0] = f.email.Update(msg)
	f.password, cmds[1] = f.password.Update(msg)
	return tea.Batch(cmds[0], cmds[1])
}

func (f *loginForm) cycleFocus() {
	f.focus = (f.focus + 1) % 2
	if f.focus == 0 {
		f.email.Focus()
		f.password.Blur()
	} else {
		f.email.Blur()
		f.password.Focus()
	}
}

// request builds the login payload. Field-level problems are cached for the
// view; the client validates again before dispatch.
func (f *loginForm) request() (api.LoginRequest, bool) {
	f.fieldErr = map[string]string{}
	req := api.LoginRequest{
		Email:    strings.TrimSpace(f.email.Value()),
		Password: f.password.Value(),
	}
	if req.Email == "" {
		f.fieldErr["email"] = "email is required"
	}
	if req.Password == "" {
		f.fieldErr["password"] = "password is required"
	}
	return req, len(f.fieldErr) == 0
}

// applyError routes a server-side validation error onto its field.
func (f *loginForm) applyError(err error) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Field != "" {
		f.fieldErr[apiErr.Field] = apiErr.Message
	}
}

func (f *loginForm) view(s ui.Styles) string {
	var b strings.Builder
	b.WriteString(s.Title.Render("OurTime") + "\n")
	b.WriteString(s.Subtitle.Render("sign in to see your memories") + "\n\n")
	b.WriteString(renderField(s, "Email", f.email.View(), f.fieldErr["email"]))
	b.WriteString(renderField(s, "Password", f.password.View(), f.fieldErr["password"]))
	b.WriteString("\n" + s.Muted.Render("enter: sign in · tab: next field · ctrl+s: create account"))
	return b.String()
}

// signupForm is the account creation form.
type signupForm struct {
	email    textinput.Model
	nickname textinput.Model
	password textinput.Model
	focus    int
	fieldErr map[string]string
}

func newSignupForm() signupForm {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 100
	email.Focus()

	nickname := textinput.New()
	nickname.Placeholder = "nickname"
	nickname.CharLimit = 30

	password := textinput.New()
	password.Placeholder = "password (8+ characters)"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 100

	return signupForm{email: email, nickname: nickname, password: password, fieldErr: map[string]string{}}
}

func (f *signupForm) update(msg tea.Msg) tea.Cmd {
	var cmds [3]tea.Cmd
	f.email, cmds[0] = f.email.Update(msg)
	f.nickname, cmds[1] = f.nickname.Update(msg)
	f.password, cmds[2] = f.password.Update(msg)
	return tea.Batch(cmds[0], cmds[1], cmds[2])
}

func (f *signupForm) cycleFocus() {
	f.focus = (f.focus + 1) % 3
	inputs := []*textinput.Model{&f.email, &f.nickname, &f.password}
	for i, in := range inputs {
		if i == f.focus {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

func (f *signupForm) request() (api.SignupRequest, bool) {
	f.fieldErr = map[string]string{}
	req := api.SignupRequest{
		Email:    strings.TrimSpace(f.email.Value()),
		Nickname: strings.TrimSpace(f.nickname.Value()),
		Password: f.password.Value(),
	}
	if req.Email == "" {
		f.fieldErr["email"] = "email is required"
	}
	if req.Nickname == "" {
		f.fieldErr["nickname"] = "nickname is required"
	}
	if len(req.Password) < 8 {
		f.fieldErr["password"] = "password needs at least 8 characters"
	}
	return req, len(f.fieldErr) == 0
}

func (f *signupForm) applyError(err error) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Field != "" {
		f.fieldErr[apiErr.Field] = apiErr.Message
	}
}

func (f *signupForm) view(s ui.Styles) string {
	var b strings.Builder
	b.WriteString(s.Title.Render("Create your OurTime account") + "\n\n")
	b.WriteString(renderField(s, "Email", f.email.View(), f.fieldErr["email"]))
	b.WriteString(renderField(s, "Nickname", f.nickname.View(), f.fieldErr["nickname"]))
	b.WriteString(renderField(s, "Password", f.password.View(), f.fieldErr["password"]))
	b.WriteString("\n" + s.Muted.Render("enter: create account · tab: next field · esc: back to sign in"))
	return b.String()
}

// renderField lays out one labeled input and its inline error.
func renderField(s ui.Styles, label, input, fieldErr string) string {
	out := s.FieldLabel.Render(label) + "\n" + input + "\n"
	if fieldErr != "" {
		out += s.FieldError.Render("  " + fieldErr + "\n")
	}
	return out + "\n"
}
