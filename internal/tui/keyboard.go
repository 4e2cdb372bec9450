package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/backlog/internal/domain"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	// Handle state-specific keys
	switch m.State {
	case StateAuth:
		return m.handleAuthKey(msg)

	case StateHelp:
		if key.Matches(msg, Keys.Escape, Keys.Help, Keys.Quit) {
			m.State = StateBrowsing
		}
		return m, nil

	case StateConfirmDelete:
		switch {
		case key.Matches(msg, Keys.Confirm):
			m.State = StateBrowsing
			return m, m.Deletion.Confirm()
		case key.Matches(msg, Keys.Deny):
			m.Deletion.Cancel()
			m.State = StateBrowsing
		}
		return m, nil

	case StateConfirmLogout:
		switch {
		case key.Matches(msg, Keys.Confirm):
			m.State = StateBrowsing
			return m, logoutCmd(m.Gate)
		case key.Matches(msg, Keys.Deny):
			m.State = StateBrowsing
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.Focus {
	case FocusSearch:
		cmd = m.handleSearchKey(msg)
	case FocusResults:
		cmd = m.handleResultsKey(msg)
	case FocusFilter:
		cmd = m.handleFilterKey(msg)
	default:
		cmd = m.handleListKey(msg)
	}
	m.syncFocus()
	return m, cmd
}

func (m Model) handleAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var submitted bool
	m.AuthForm, cmd, submitted = m.AuthForm.Update(msg)
	if !submitted {
		return m, cmd
	}
	m.AuthForm.SetBusy(true)
	return m, authenticateCmd(m.Gate, m.AuthForm.Mode(), m.AuthForm.Credentials())
}

// handleSearchKey edits the catalog query; every change restarts the debounce
func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyTab:
		// Leaving the search box counts as an outside interaction
		m.Search.Dismiss()
		m.focusList()
		return nil
	case tea.KeyEnter, tea.KeyDown:
		if len(m.Search.Hits()) > 0 {
			m.SearchBox.Blur()
			m.Dropdown.Reset()
			m.Focus = FocusResults
		}
		return nil
	}

	var cmd tea.Cmd
	var changed bool
	m.SearchBox, cmd, changed = m.SearchBox.Update(msg)
	if !changed {
		return cmd
	}
	m.Dropdown.Reset()
	return tea.Batch(cmd, m.Search.SetQuery(m.SearchBox.Value()))
}

// handleResultsKey moves through the dropdown and saves the selected hit
func (m *Model) handleResultsKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, Keys.Escape):
		m.Search.Dismiss()
		m.focusList()
	case key.Matches(msg, Keys.Search), key.Matches(msg, Keys.Up) && m.Dropdown.Pos() == 0:
		m.Focus = FocusSearch
		return m.SearchBox.Focus()
	case key.Matches(msg, Keys.Enter):
		if hit, ok := m.selectedHit(); ok {
			return m.Store.SaveFromSearch(hit.ExternalID)
		}
	case key.Matches(msg, Keys.Open):
		if hit, ok := m.selectedHit(); ok {
			return m.openImage(hit.PreviewImage)
		}
	case key.Matches(msg, Keys.Quit):
		return tea.Quit
	default:
		m.Dropdown.HandleKey(msg, len(m.Search.Hits()))
	}
	return nil
}

// handleFilterKey edits the fuzzy list filter
func (m *Model) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.FilterBox.SetValue("")
		m.List.Reset()
		m.focusList()
		return nil
	case tea.KeyEnter, tea.KeyTab:
		m.focusList()
		return nil
	}

	var cmd tea.Cmd
	var changed bool
	m.FilterBox, cmd, changed = m.FilterBox.Update(msg)
	if changed {
		m.List.Reset()
	}
	return cmd
}

func (m *Model) handleListKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, Keys.Quit):
		return tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp

	case key.Matches(msg, Keys.Search):
		m.Focus = FocusSearch
		m.Search.Focus()
		return m.SearchBox.Focus()

	case key.Matches(msg, Keys.Filter):
		m.Focus = FocusFilter
		return m.FilterBox.Focus()

	case key.Matches(msg, Keys.Escape):
		if m.FilterBox.Value() != "" {
			m.FilterBox.SetValue("")
			m.List.Reset()
			return nil
		}
		m.Search.Dismiss()

	case key.Matches(msg, Keys.NextTab):
		m.Tab = (m.Tab + 1) % len(domain.Tabs)
		m.List.Reset()

	case key.Matches(msg, Keys.PrevTab):
		m.Tab = (m.Tab + len(domain.Tabs) - 1) % len(domain.Tabs)
		m.List.Reset()

	case key.Matches(msg, Keys.NextStatus):
		if e, ok := m.selected(); ok {
			return m.Store.UpdateStatus(e.ID, e.Status.Next())
		}

	case key.Matches(msg, Keys.PrevStatus):
		if e, ok := m.selected(); ok {
			return m.Store.UpdateStatus(e.ID, e.Status.Prev())
		}

	case key.Matches(msg, Keys.Delete):
		if e, ok := m.selected(); ok {
			m.Deletion.Request(e.ID)
			m.State = StateConfirmDelete
		}

	case key.Matches(msg, Keys.Refresh):
		return m.Store.Load()

	case key.Matches(msg, Keys.Open):
		if e, ok := m.selected(); ok {
			return m.openImage(e.CoverImage)
		}

	case key.Matches(msg, Keys.Logout):
		m.State = StateConfirmLogout

	default:
		m.List.HandleKey(msg, len(m.visibleRows()))
	}
	return nil
}

// handleMouse treats a click outside the search surface as a dismissal
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.State != StateBrowsing || msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	if msg.Y == searchRow {
		m.Focus = FocusSearch
		m.Search.Focus()
		return m, m.SearchBox.Focus()
	}
	if h := m.Dropdown.Height(m.Search); h > 0 && msg.Y > searchRow && msg.Y <= searchRow+h {
		return m, nil
	}

	m.Search.Dismiss()
	if m.Focus == FocusSearch || m.Focus == FocusResults {
		m.focusList()
	}
	m.syncFocus()
	return m, nil
}

func (m *Model) focusList() {
	m.SearchBox.Blur()
	m.FilterBox.Blur()
	m.Focus = FocusList
}

func (m *Model) openImage(url string) tea.Cmd {
	if url == "" {
		return m.Notices.Post(NoImageText)
	}
	return openImageCmd(m.Opener, url)
}
