package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/backlog/internal/tui/styles"
)

// ConfirmModal asks a yes/no question
type ConfirmModal struct {
	title  string
	detail string
}

// NewConfirmModal creates a modal for question; detail is shown dimmed below it
func NewConfirmModal(question, detail string) ConfirmModal {
	return ConfirmModal{title: question, detail: detail}
}

// View renders the modal
func (m ConfirmModal) View() string {
	const modalWidth = 44

	titleStyle := lipgloss.NewStyle().
		Foreground(styles.White).
		Bold(true).
		Width(modalWidth).
		Background(styles.SlateDark)

	lineStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Background(styles.SlateDark)

	spacer := lineStyle.Render("")

	hint := styles.HelpKeyStyle.Background(styles.SlateDark).Render("y") +
		styles.HelpDescStyle.Background(styles.SlateDark).Render(" confirm  ") +
		styles.HelpKeyStyle.Background(styles.SlateDark).Render("n") +
		styles.HelpDescStyle.Background(styles.SlateDark).Render(" cancel")

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.title),
		lineStyle.Foreground(styles.LightGray).Render(styles.Truncate(m.detail, modalWidth)),
		spacer,
		lineStyle.Render(hint),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Accent).
		Background(styles.SlateDark).
		Padding(1, 2).
		Render(content)
}
