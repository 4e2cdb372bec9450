package tui

import (
	"log/slog"
	"slices"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/backlog/internal/catalog"
	"github.com/mmcdole/backlog/internal/domain"
	"github.com/mmcdole/backlog/internal/library"
	"github.com/mmcdole/backlog/internal/notify"
	"github.com/mmcdole/backlog/internal/session"
	"github.com/mmcdole/backlog/internal/tui/components"
	"github.com/mmcdole/backlog/internal/tui/styles"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateAuth ApplicationState = iota
	StateBrowsing
	StateConfirmDelete
	StateConfirmLogout
	StateHelp
)

// FocusArea is the part of the browser receiving keys
type FocusArea int

const (
	FocusList FocusArea = iota
	FocusSearch
	FocusResults
	FocusFilter
)

// Texts shown by the TUI itself
const (
	LogoutText     = "Log out and clear the saved library?"
	OpenFailedText = "Could not open the image"
	NoImageText    = "No image for this game"
)

// Deps are the components the TUI drives
type Deps struct {
	Notices  *notify.Queue
	Search   *catalog.Search
	Store    *library.Store
	Deletion *library.Deletion
	Gate     *session.Gate
	Opener   ImageOpener
	Logger   *slog.Logger

	DefaultTab domain.Status
	ShowStats  bool
	Username   string
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Focus FocusArea
	Ready bool

	// Core components
	Notices  *notify.Queue
	Search   *catalog.Search
	Store    *library.Store
	Deletion *library.Deletion
	Gate     *session.Gate
	Opener   ImageOpener

	// UI Components
	SearchBox components.SearchBox
	FilterBox components.SearchBox
	Dropdown  components.Dropdown
	List      components.EntryList
	AuthForm  components.AuthForm
	Spinner   spinner.Model
	Help      help.Model

	// UI state
	Tab       int // index into domain.Tabs
	ShowStats bool
	Username  string

	// Dimensions
	Width  int
	Height int

	logger *slog.Logger
}

// NewModel creates a new application model
func NewModel(deps Deps) Model {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	tab := slices.Index(domain.Tabs, deps.DefaultTab)
	if tab < 0 {
		tab = 0
	}

	m := Model{
		State:     StateBrowsing,
		Notices:   deps.Notices,
		Search:    deps.Search,
		Store:     deps.Store,
		Deletion:  deps.Deletion,
		Gate:      deps.Gate,
		Opener:    deps.Opener,
		SearchBox: components.NewSearchBox("/ ", "Search games to add..."),
		FilterBox: components.NewSearchBox("f ", "Filter your list..."),
		Dropdown:  components.NewDropdown(),
		List:      components.NewEntryList(),
		AuthForm:  components.NewAuthForm(),
		Spinner:   sp,
		Help:      help.New(),
		Tab:       tab,
		ShowStats: deps.ShowStats,
		Username:  deps.Username,
		logger:    logger,
	}
	if !m.Gate.SignedIn() {
		m.State = StateAuth
	}
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	if m.State == StateAuth {
		return textinput.Blink
	}
	return tea.Batch(m.Store.Load(), m.Spinner.Tick)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case authDoneMsg:
		if msg.err != nil {
			m.AuthForm.SetError(session.Describe(msg.err))
			return m, nil
		}
		m.logger.Info("signed in from tui", "mode", msg.mode)
		m.AuthForm.Reset()
		m.State = StateBrowsing
		m.Focus = FocusList
		return m, tea.Batch(m.Store.Load(), m.Spinner.Tick)

	case loggedOutMsg:
		if msg.err != nil {
			m.logger.Error("logout failed", "error", msg.err)
		}
		m.Store.Reset()
		m.Deletion.Cancel()
		m.Search.SetQuery("")
		m.SearchBox.SetValue("")
		m.SearchBox.Blur()
		m.FilterBox.SetValue("")
		m.FilterBox.Blur()
		m.AuthForm.Reset()
		m.Focus = FocusList
		m.State = StateAuth
		return m, textinput.Blink

	case openedMsg:
		if msg.err != nil {
			m.logger.Warn("failed to open image", "url", msg.url, "error", msg.err)
			return m, m.Notices.Post(OpenFailedText)
		}
		return m, nil
	}

	cmd := m.routeCore(msg)
	return m, cmd
}

// routeCore hands completions to the core components
func (m *Model) routeCore(msg tea.Msg) tea.Cmd {
	m.Notices.Update(msg)
	searchCmd := m.Search.Update(msg)
	storeCmd := m.Store.Update(msg)
	m.syncFocus()
	return tea.Batch(searchCmd, storeCmd)
}

// syncFocus keeps focus and cursors valid after state changes
func (m *Model) syncFocus() {
	if m.Focus == FocusResults && len(m.Search.Hits()) == 0 {
		m.Focus = FocusSearch
		m.SearchBox.Focus()
	}
	m.Dropdown.Clamp(len(m.Search.Hits()))
	m.List.SetHeight(m.listHeight())
	m.List.Clamp(len(m.visibleRows()))
}

// currentTab returns the selected filter tab
func (m Model) currentTab() domain.Status {
	return domain.Tabs[m.Tab]
}

// visibleRows returns the entries of the current tab matching the list filter
func (m Model) visibleRows() []library.Match {
	return m.Store.Find(m.currentTab(), m.FilterBox.Value())
}

// selected returns the entry under the list cursor
func (m Model) selected() (domain.Entry, bool) {
	rows := m.visibleRows()
	i := m.List.Pos()
	if i < 0 || i >= len(rows) {
		return domain.Entry{}, false
	}
	return rows[i].Entry, true
}

// selectedHit returns the search hit under the dropdown cursor
func (m Model) selectedHit() (domain.SearchHit, bool) {
	hits := m.Search.Hits()
	i := m.Dropdown.Pos()
	if i < 0 || i >= len(hits) {
		return domain.SearchHit{}, false
	}
	return hits[i], true
}
