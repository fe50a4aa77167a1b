package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"ourtime/cmd/ourtime/ui"
	"ourtime/internal/api"
	"ourtime/internal/mapsync"
)

// memoryForm creates or edits a memory. In create mode the location comes
// from the map cursor and images can be staged; edit mode keeps the stored
// location and images and only touches the textual fields and tags.
type memoryForm struct {
	editing  bool
	memoryID int64

	groupIdx int
	groups   []api.Group
	position mapsync.LatLng

	title     textinput.Model
	desc      textinput.Model
	location  textinput.Model
	visitedAt textinput.Model
	tagInput  textinput.Model
	imgInput  textinput.Model

	tags   []string
	images []string // staged file paths, create mode only

	focus    int
	fieldErr map[string]string
}

const (
	memFieldTitle = iota
	memFieldDesc
	memFieldLocation
	memFieldVisited
	memFieldTags
	memFieldImages
	memFieldCount
)

func newMemoryForm(groups []api.Group, pos mapsync.LatLng) memoryForm {
	f := memoryForm{
		groups:   groups,
		position: pos,
		fieldErr: map[string]string{},
	}
	f.title = textinput.New()
	f.title.Placeholder = "title"
	f.title.CharLimit = 120
	f.title.Focus()

	f.desc = textinput.New()
	f.desc.Placeholder = "description (markdown, optional)"
	f.desc.CharLimit = 2000

	f.location = textinput.New()
	f.location.Placeholder = "place name (optional)"
	f.location.CharLimit = 120

	f.visitedAt = textinput.New()
	f.visitedAt.Placeholder = "visited on (YYYY-MM-DD)"
	f.visitedAt.CharLimit = 10

	f.tagInput = textinput.New()
	f.tagInput.Placeholder = "add tag, enter to stage"
	f.tagInput.CharLimit = 40

	f.imgInput = textinput.New()
	f.imgInput.Placeholder = "image path, enter to stage"
	f.imgInput.CharLimit = 250

	return f
}

// newMemoryEditForm prefills the form from an existing memory.
func newMemoryEditForm(mem api.Memory, groups []api.Group) memoryForm {
	f := newMemoryForm(groups, mapsync.LatLng{Lat: mem.Latitude, Lng: mem.Longitude})
	f.editing = true
	f.memoryID = mem.ID
	f.title.SetValue(mem.Title)
	f.desc.SetValue(mem.Description)
	f.location.SetValue(mem.LocationName)
	f.visitedAt.SetValue(mem.VisitedAt)
	for _, t := range mem.Tags {
		f.tags = append(f.tags, t.Name)
	}
	for i, g := range groups {
		if g.ID == mem.GroupID {
			f.groupIdx = i
		}
	}
	return f
}

func (f *memoryForm) inputs() []*textinput.Model {
	return []*textinput.Model{&f.title, &f.desc, &f.location, &f.visitedAt, &f.tagInput, &f.imgInput}
}

func (f *memoryForm) update(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for _, in := range f.inputs() {
		var cmd tea.Cmd
		*in, cmd = in.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (f *memoryForm) cycleFocus(back bool) {
	if back {
		f.focus = (f.focus + memFieldCount - 1) % memFieldCount
	} else {
		f.focus = (f.focus + 1) % memFieldCount
	}
	for i, in := range f.inputs() {
		if i == f.focus {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

// cycleGroup moves the group selector. Disabled while editing; a memory
// cannot move between groups.
func (f *memoryForm) cycleGroup() {
	if f.editing || len(f.groups) == 0 {
		return
	}
	f.groupIdx = (f.groupIdx + 1) % len(f.groups)
}

// stageTag stages the pending tag input. Duplicates collapse silently and
// the input clears either way.
func (f *memoryForm) stageTag() {
	name := strings.TrimSpace(f.tagInput.Value())
	f.tagInput.SetValue("")
	if name == "" {
		return
	}
	for _, t := range f.tags {
		if t == name {
			return
		}
	}
	f.tags = append(f.tags, name)
}

// removeLastTag pops the most recently staged tag.
func (f *memoryForm) removeLastTag() {
	if len(f.tags) > 0 {
		f.tags = f.tags[:len(f.tags)-1]
	}
}

// stageImage stages an image path after checking it exists. Edit mode does
// not touch images.
func (f *memoryForm) stageImage() {
	path := strings.TrimSpace(f.imgInput.Value())
	f.imgInput.SetValue("")
	if path == "" || f.editing {
		return
	}
	if _, err := os.Stat(path); err != nil {
		f.fieldErr["images"] = fmt.Sprintf("cannot read %s", path)
		return
	}
	delete(f.fieldErr, "images")
	f.images = append(f.images, path)
}

// validate checks the required fields, caching problems for the view.
func (f *memoryForm) validate() bool {
	f.fieldErr = map[string]string{}
	if !f.editing && len(f.groups) == 0 {
		f.fieldErr["group"] = "join or create a group first"
	}
	if strings.TrimSpace(f.title.Value()) == "" {
		f.fieldErr["title"] = "title is required"
	}
	visited := strings.TrimSpace(f.visitedAt.Value())
	if visited == "" {
		f.fieldErr["visitedAt"] = "visit date is required"
	} else if _, err := api.ParseVisitDate(visited); err != nil {
		f.fieldErr["visitedAt"] = "use YYYY-MM-DD"
	}
	return len(f.fieldErr) == 0
}

// createRequest builds the multipart payload, loading staged images. Call
// only after validate.
func (f *memoryForm) createRequest() (api.CreateMemoryRequest, error) {
	req := api.CreateMemoryRequest{
		GroupID:      f.groups[f.groupIdx].ID,
		Title:        strings.TrimSpace(f.title.Value()),
		Description:  f.desc.Value(),
		Latitude:     f.position.Lat,
		Longitude:    f.position.Lng,
		LocationName: strings.TrimSpace(f.location.Value()),
		VisitedAt:    strings.TrimSpace(f.visitedAt.Value()),
		TagNames:     f.tags,
	}
	for _, path := range f.images {
		data, err := os.ReadFile(path)
		if err != nil {
			return api.CreateMemoryRequest{}, fmt.Errorf("reading %s: %w", path, err)
		}
		req.Images = append(req.Images, api.ImageFile{Name: filepath.Base(path), Data: data})
	}
	return req, nil
}

// updateRequest builds the JSON payload for edit mode.
func (f *memoryForm) updateRequest() api.UpdateMemoryRequest {
	return api.UpdateMemoryRequest{
		Title:        strings.TrimSpace(f.title.Value()),
		Description:  f.desc.Value(),
		LocationName: strings.TrimSpace(f.location.Value()),
		VisitedAt:    strings.TrimSpace(f.visitedAt.Value()),
		TagNames:     f.tags,
	}
}

func (f *memoryForm) applyError(err error) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Field != "" {
		f.fieldErr[apiErr.Field] = apiErr.Message
	}
}

func (f *memoryForm) view(s ui.Styles) string {
	var b strings.Builder
	if f.editing {
		b.WriteString(s.Title.Render("Edit memory") + "\n")
	} else {
		b.WriteString(s.Title.Render("New memory") + "\n")
	}

	group := "no groups yet"
	if len(f.groups) > 0 {
		g := f.groups[f.groupIdx]
		group = fmt.Sprintf("%s (%s)", g.Name, g.Type.Label())
	}
	b.WriteString(s.FieldLabel.Render("Group") + "  " + s.Body.Render(group))
	if !f.editing {
		b.WriteString(s.Muted.Render("  ctrl+g to change"))
	}
	b.WriteString("\n")
	if msg := f.fieldErr["group"]; msg != "" {
		b.WriteString(s.FieldError.Render("  "+msg) + "\n")
	}
	b.WriteString(s.Muted.Render(fmt.Sprintf("at %.4f, %.4f", f.position.Lat, f.position.Lng)) + "\n\n")

	b.WriteString(renderField(s, "Title", f.title.View(), f.fieldErr["title"]))
	b.WriteString(renderField(s, "Description", f.desc.View(), ""))
	b.WriteString(renderField(s, "Place", f.location.View(), ""))
	b.WriteString(renderField(s, "Visited on", f.visitedAt.View(), f.fieldErr["visitedAt"]))

	b.WriteString(s.FieldLabel.Render("Tags") + "  ")
	for _, t := range f.tags {
		b.WriteString(s.Tag.Render(t) + " ")
	}
	b.WriteString("\n" + f.tagInput.View() + "\n\n")

	if !f.editing {
		b.WriteString(s.FieldLabel.Render("Images") + "  ")
		for _, p := range f.images {
			b.WriteString(s.Tag.Render(filepath.Base(p)) + " ")
		}
		b.WriteString("\n" + f.imgInput.View() + "\n")
		if msg := f.fieldErr["images"]; msg != "" {
			b.WriteString(s.FieldError.Render("  "+msg) + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(s.Muted.Render("ctrl+s: save · tab: next field · esc: cancel"))
	return b.String()
}
