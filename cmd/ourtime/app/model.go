// Package app implements the interactive OurTime client: a map of shared
// memories with group, comment, invitation and route management on top of
// the query cache and the map sync engine.
package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"ourtime/cmd/ourtime/ui"
	"ourtime/internal/api"
	"ourtime/internal/config"
	"ourtime/internal/logging"
	"ourtime/internal/mapsync"
	"ourtime/internal/query"
	"ourtime/internal/route"
	"ourtime/internal/session"
)

// requestTimeout bounds every request issued from the event loop.
const requestTimeout = 15 * time.Second

// =============================================================================
// MODES
// =============================================================================

// ViewMode determines which page is active.
type ViewMode int

const (
	LoginView ViewMode = iota
	SignupView
	MapPage
	GroupsPage
	DetailPage
	NotificationsPage
	ProfilePage
)

// ModalMode is an overlay on top of the active page. While a modal is open
// it owns the keyboard.
type ModalMode int

const (
	ModalNone ModalMode = iota
	ModalMemoryForm
	ModalGroupForm
	ModalRouteForm
	ModalConfirmDelete
)

// deleteTarget says what ModalConfirmDelete is about to remove.
type deleteTarget struct {
	kind string // "memory", "group", "comment", "route"
	id   int64
	uid  string // route IDs are uuids
	name string
}

// =============================================================================
// MESSAGES
// =============================================================================

// queryResultMsg delivers a cache read back into the event loop.
type queryResultMsg struct {
	key  query.Key
	data interface{}
	err  error
}

// mutationDoneMsg delivers a completed write.
type mutationDoneMsg struct {
	name string
	id   int64
	err  error
}

// authDoneMsg delivers a login or signup result.
type authDoneMsg struct {
	resp *api.AuthResponse
	err  error
}

// loggedOutMsg signals the session ended, locally or via a 401.
type loggedOutMsg struct{}

// configReloadedMsg carries a hot-reloaded configuration.
type configReloadedMsg struct{ cfg *config.Config }

// =============================================================================
// MODEL
// =============================================================================

// Model is the root Bubble Tea model.
type Model struct {
	cfg     *config.Config
	cfgDir  string
	styles  ui.Styles
	client  *api.Client
	session *session.Store
	cache   *query.Cache
	routes  *route.Store
	canvas  *ui.MapCanvas
	engine  *mapsync.Engine
	md      *glamour.TermRenderer

	mode  ViewMode
	modal ModalMode

	// Loaded data, refreshed through the cache.
	me          *api.User
	memories    []api.Memory
	groups      []api.Group
	invitations []api.Invitation
	comments    []api.Comment

	// Map page state.
	groupFilter *int64
	showRoutes  bool

	// Detail page state.
	detail       *api.Memory
	detailID     int64
	commentInput textinput.Model
	imageCursor  int

	// Profile page state.
	profileInput   textinput.Model
	profileEditing bool

	// Invite code of the most recently created group, shown until dismissed.
	lastInviteCode string

	// List cursors.
	groupCursor  int
	inviteCursor int

	// Forms.
	login   loginForm
	signup  signupForm
	memForm memoryForm
	grpForm groupForm
	rtForm  routeForm
	confirm deleteTarget

	// Unauthorized responses flip this from the HTTP layer; the next
	// Update tick forces the login page.
	kickedOut chan struct{}

	spinner    spinner.Model
	loading    int // in-flight request count
	status     string
	err        error
	width      int
	height     int
	stopWatch  func()
	rearmWatch func() tea.Cmd
}

// New wires the full client stack and returns the initial model.
func New(cfg *config.Config, cfgDir string, sess *session.Store) (*Model, error) {
	kicked := make(chan struct{}, 1)
	client := api.New(cfg.API.BaseURL, sess,
		api.WithTimeout(time.Duration(cfg.API.TimeoutSeconds)*time.Second),
		api.WithOnUnauthorized(func() {
			select {
			case kicked <- struct{}{}:
			default:
			}
		}))

	md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(76),
	)
	if err != nil {
		return nil, err
	}

	canvas := ui.NewMapCanvas(cfg.Map.CenterLat, cfg.Map.CenterLng)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	comment := textinput.New()
	comment.Placeholder = "write a comment, enter to post"
	comment.CharLimit = 500

	profile := textinput.New()
	profile.Placeholder = "nickname"
	profile.CharLimit = 30

	m := &Model{
		cfg:          cfg,
		cfgDir:       cfgDir,
		styles:       ui.NewStyles(ui.ThemeByName(cfg.UI.Theme)),
		client:       client,
		session:      sess,
		cache:        query.New(),
		routes:       route.NewStore(),
		canvas:       canvas,
		engine:       mapsync.New(canvas),
		md:           md,
		showRoutes:   cfg.Map.ShowRoutes,
		kickedOut:    kicked,
		spinner:      sp,
		commentInput: comment,
		profileInput: profile,
		width:        80,
		height:       24,
	}
	m.registerQueries()

	if sess.LoggedIn() {
		m.mode = MapPage
	} else {
		m.mode = LoginView
	}
	_ = canvas.Init(cfg.Map.ClientID)
	return m, nil
}

// registerQueries binds every server resource the UI reads to the cache.
// List queries are guarded on a live session so a logged-out client never
// fires them; the profile query never retries.
func (m *Model) registerQueries() {
	loggedIn := func() bool { return m.session.LoggedIn() }

	m.cache.Register(query.K(query.ResMemories), func(ctx context.Context) (interface{}, error) {
		return m.client.Memories(ctx, nil)
	}, query.EnabledIf(loggedIn))

	m.cache.Register(query.K(query.ResGroups), func(ctx context.Context) (interface{}, error) {
		return m.client.Groups(ctx)
	}, query.EnabledIf(loggedIn))

	m.cache.Register(query.K(query.ResInvitations), func(ctx context.Context) (interface{}, error) {
		return m.client.PendingInvitations(ctx)
	}, query.EnabledIf(loggedIn))

	m.cache.Register(query.K(query.ResProfile), func(ctx context.Context) (interface{}, error) {
		return m.client.Me(ctx)
	}, query.EnabledIf(loggedIn), query.NoRetry())
}

// registerDetailQueries binds the per-memory queries the detail page needs.
// Re-registering the same key keeps any cached data.
func (m *Model) registerDetailQueries(memoryID int64) {
	m.cache.Register(query.KID(query.ResMemory, memoryID), func(ctx context.Context) (interface{}, error) {
		return m.client.Memory(ctx, memoryID)
	})
	m.cache.Register(query.KID(query.ResComments, memoryID), func(ctx context.Context) (interface{}, error) {
		return m.client.Comments(ctx, memoryID)
	})
}

// Init starts the spinner and, for a restored session, the initial loads.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.watchConfig()}
	if m.session.LoggedIn() {
		cmds = append(cmds, m.loadHomeData()...)
	}
	return tea.Batch(cmds...)
}

// loadHomeData fetches everything the map page needs.
func (m *Model) loadHomeData() []tea.Cmd {
	return []tea.Cmd{
		m.fetchCmd(query.K(query.ResProfile)),
		m.fetchCmd(query.K(query.ResMemories)),
		m.fetchCmd(query.K(query.ResGroups)),
		m.fetchCmd(query.K(query.ResInvitations)),
	}
}

// watchConfig starts the fsnotify watcher and forwards reloads as messages.
func (m *Model) watchConfig() tea.Cmd {
	reloads := make(chan *config.Config, 1)
	stop, err := config.Watch(m.cfgDir, func(cfg *config.Config) {
		select {
		case reloads <- cfg:
		default:
		}
	})
	if err != nil {
		logging.UI("config watch unavailable: %v", err)
		return nil
	}
	m.stopWatch = stop
	wait := func() tea.Msg {
		cfg, ok := <-reloads
		if !ok {
			return nil
		}
		return configReloadedMsg{cfg: cfg}
	}
	// Re-arm after each delivery from Update.
	m.rearmWatch = func() tea.Cmd { return wait }
	return wait
}

// syncMap redraws the map surface from current state. Safe on a failed
// canvas: the engine still reconciles, the view just shows the error panel.
func (m *Model) syncMap() {
	m.engine.Sync(m.memories, m.groupFilter, m.routes.All(), m.showRoutes)
}

// pendingInvites counts invitations awaiting an answer, for the header badge.
func (m *Model) pendingInvites() int {
	n := 0
	for _, inv := range m.invitations {
		if inv.Status == api.InvitationPending {
			n++
		}
	}
	return n
}

// groupByID finds a loaded group.
func (m *Model) groupByID(id int64) (api.Group, bool) {
	for _, g := range m.groups {
		if g.ID == id {
			return g, true
		}
	}
	return api.Group{}, false
}

// Close releases background resources.
func (m *Model) Close() {
	if m.stopWatch != nil {
		m.stopWatch()
	}
}
