package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"ourtime/cmd/ourtime/ui"
	"ourtime/internal/api"
)

// routeForm builds a route by picking memories in visiting order. The
// selection order is the route order; toggling a memory off removes it
// wherever it sits.
type routeForm struct {
	name      textinput.Model
	desc      textinput.Model
	descFocus bool
	memories  []api.Memory
	cursor    int
	selected  []int64
	fieldErr  map[string]string
}

func newRouteForm(memories []api.Memory) routeForm {
	name := textinput.New()
	name.Placeholder = "route name"
	name.CharLimit = 60
	name.Focus()
	desc := textinput.New()
	desc.Placeholder = "description (optional)"
	desc.CharLimit = 200
	return routeForm{name: name, desc: desc, memories: memories, fieldErr: map[string]string{}}
}

func (f *routeForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if f.descFocus {
		f.desc, cmd = f.desc.Update(msg)
	} else {
		f.name, cmd = f.name.Update(msg)
	}
	return cmd
}

// cycleFocus moves between the name and description inputs.
func (f *routeForm) cycleFocus() {
	f.descFocus = !f.descFocus
	if f.descFocus {
		f.name.Blur()
		f.desc.Focus()
	} else {
		f.desc.Blur()
		f.name.Focus()
	}
}

func (f *routeForm) moveCursor(delta int) {
	if len(f.memories) == 0 {
		return
	}
	f.cursor = (f.cursor + delta + len(f.memories)) % len(f.memories)
}

// toggle adds the memory under the cursor to the route, or removes it if
// already picked.
func (f *routeForm) toggle() {
	if len(f.memories) == 0 {
		return
	}
	id := f.memories[f.cursor].ID
	for i, sel := range f.selected {
		if sel == id {
			f.selected = append(f.selected[:i], f.selected[i+1:]...)
			return
		}
	}
	f.selected = append(f.selected, id)
}

// order returns the 1-based position of a memory in the route, 0 if unpicked.
func (f *routeForm) order(id int64) int {
	for i, sel := range f.selected {
		if sel == id {
			return i + 1
		}
	}
	return 0
}

// build validates and returns the route inputs.
func (f *routeForm) build() (name, description string, ids []int64, ok bool) {
	f.fieldErr = map[string]string{}
	name = strings.TrimSpace(f.name.Value())
	if name == "" {
		f.fieldErr["name"] = "route name is required"
	}
	if len(f.selected) < 2 {
		f.fieldErr["memoryIds"] = "pick at least two memories"
	}
	return name, strings.TrimSpace(f.desc.Value()), f.selected, len(f.fieldErr) == 0
}

func (f *routeForm) view(s ui.Styles) string {
	var b strings.Builder
	b.WriteString(s.Title.Render("New route") + "\n\n")
	b.WriteString(renderField(s, "Name", f.name.View(), f.fieldErr["name"]))
	b.WriteString(renderField(s, "Description", f.desc.View(), ""))

	b.WriteString(s.FieldLabel.Render("Stops, in visiting order") + "\n")
	if msg := f.fieldErr["memoryIds"]; msg != "" {
		b.WriteString(s.FieldError.Render("  "+msg) + "\n")
	}
	if len(f.memories) == 0 {
		b.WriteString(s.Muted.Render("  no memories loaded") + "\n")
	}
	for i, mem := range f.memories {
		line := fmt.Sprintf("%s · %s", mem.Title, mem.VisitedAt)
		if n := f.order(mem.ID); n > 0 {
			line = fmt.Sprintf("[%d] %s", n, line)
		} else {
			line = "[ ] " + line
		}
		if i == f.cursor {
			b.WriteString(s.Selected.Render("> "+line) + "\n")
		} else {
			b.WriteString(s.Body.Render("  "+line) + "\n")
		}
	}

	b.WriteString("\n" + s.Muted.Render("tab: next field · space: toggle stop · ↑/↓: move · ctrl+s: save · esc: cancel"))
	return b.String()
}
