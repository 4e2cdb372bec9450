package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/backlog/internal/domain"
	"github.com/mmcdole/backlog/internal/library"
	"github.com/mmcdole/backlog/internal/tui/components"
	"github.com/mmcdole/backlog/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Initializing..."
	}

	switch m.State {
	case StateAuth:
		return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, m.AuthForm.View())

	case StateHelp:
		helpView := styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			styles.ModalTitleStyle.Render("Keys"),
			m.Help.FullHelpView(Keys.FullHelp()),
		))
		return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, helpView)

	case StateConfirmDelete:
		detail := ""
		if id, ok := m.Deletion.Pending(); ok {
			if e, ok := m.Store.Entry(id); ok {
				detail = e.Title
			}
		}
		modal := components.NewConfirmModal(library.ConfirmText, detail)
		return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, modal.View())

	case StateConfirmLogout:
		modal := components.NewConfirmModal(LogoutText, m.Username)
		return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, modal.View())
	}

	return m.renderBrowser()
}

func (m Model) renderBrowser() string {
	lines := []string{
		m.renderHeader(),
		m.SearchBox.View(),
	}
	if dd := m.Dropdown.View(m.Search, m.Store.Owns, m.Focus == FocusResults); dd != "" {
		lines = append(lines, dd)
	}
	lines = append(lines, m.renderTabs())
	if m.ShowStats {
		lines = append(lines, m.renderStats())
	}
	if m.filterVisible() {
		lines = append(lines, m.FilterBox.View())
	}

	list := m.List.View(m.visibleRows(), m.Store.Loading())
	lines = append(lines,
		lipgloss.NewStyle().Height(m.listHeight()).MaxHeight(m.listHeight()).Render(list),
		m.renderToast(),
		m.Help.View(Keys),
	)
	return strings.Join(lines, "\n")
}

func (m Model) renderHeader() string {
	parts := []string{styles.HeaderStyle.Render("backlog")}
	if m.Username != "" {
		parts = append(parts, styles.DimStyle.Render(m.Username))
	}
	if m.Store.Offline() {
		parts = append(parts, styles.DimBadgeStyle.Render("offline"))
	}
	if m.Store.Loading() || m.Store.Refreshing() {
		parts = append(parts, m.Spinner.View())
	}
	return strings.Join(parts, " ")
}

func (m Model) renderTabs() string {
	tabs := make([]string, len(domain.Tabs))
	for i, t := range domain.Tabs {
		if i == m.Tab {
			tabs[i] = styles.ActiveTabStyle.Render(t.Label())
		} else {
			tabs[i] = styles.InactiveTabStyle.Render(t.Label())
		}
	}
	return strings.Join(tabs, " ")
}

// renderStats shows the total and the non-zero per-status counts
func (m Model) renderStats() string {
	counts := m.Store.Counts()
	parts := []string{pluralGames(m.Store.Len())}
	for _, s := range domain.Statuses {
		if n := counts[s]; n > 0 {
			parts = append(parts, lipgloss.NewStyle().Foreground(styles.StatusColor(s)).Render(fmt.Sprintf("%d %s", n, s.Label())))
		}
	}
	return " " + strings.Join(parts, styles.DimStyle.Render(" · "))
}

func (m Model) renderToast() string {
	n, ok := m.Notices.Current()
	if !ok {
		return ""
	}
	return styles.ToastStyle.Render(n.Text)
}

func pluralGames(n int) string {
	if n == 1 {
		return "1 game"
	}
	return fmt.Sprintf("%d games", n)
}
