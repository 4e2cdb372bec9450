package tui

// Fixed rows of the browser screen
const (
	searchRow = 1 // below the header

	// header, search box, tabs, toast, help
	chromeRows  = 5
	minListRows = 3
)

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}
	m.SearchBox.SetWidth(m.Width)
	m.FilterBox.SetWidth(m.Width)
	m.Dropdown.SetWidth(m.Width)
	m.Help.Width = m.Width
	m.List.SetSize(m.Width, m.listHeight())
}

// listHeight returns the rows left for entries after the chrome, the
// dropdown and the optional stats and filter lines
func (m Model) listHeight() int {
	used := chromeRows + m.Dropdown.Height(m.Search)
	if m.ShowStats {
		used++
	}
	if m.filterVisible() {
		used++
	}
	return max(m.Height-used, minListRows)
}

// filterVisible reports whether the list filter line is shown
func (m Model) filterVisible() bool {
	return m.Focus == FocusFilter || m.FilterBox.Value() != ""
}
