package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/backlog/internal/catalog"
	"github.com/mmcdole/backlog/internal/domain"
	"github.com/mmcdole/backlog/internal/tui/styles"
)

// Dropdown texts
const (
	ResultsHeader = "SEARCH RESULTS"
	SearchingText = "Searching..."
	NoResultsText = "No games found"
	OwnedMark     = "✓"
)

// MaxDropdownRows bounds the number of hits shown at once
const MaxDropdownRows = 8

// SearchBox is the catalog query input
type SearchBox struct {
	input textinput.Model
	width int
}

// NewSearchBox creates a search input with the given prompt
func NewSearchBox(prompt, placeholder string) SearchBox {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = prompt
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return SearchBox{input: ti}
}

// SetWidth sets the rendered width
func (b *SearchBox) SetWidth(w int) {
	b.width = w
	b.input.Width = max(w-lipgloss.Width(b.input.Prompt)-2, 10)
}

// Focus focuses the input
func (b *SearchBox) Focus() tea.Cmd { return b.input.Focus() }

// Blur removes focus from the input
func (b *SearchBox) Blur() { b.input.Blur() }

// Focused reports whether the input has focus
func (b SearchBox) Focused() bool { return b.input.Focused() }

// Value returns the current text
func (b SearchBox) Value() string { return b.input.Value() }

// SetValue replaces the current text
func (b *SearchBox) SetValue(s string) { b.input.SetValue(s) }

// Update feeds a key to the input and reports whether the text changed
func (b SearchBox) Update(msg tea.Msg) (SearchBox, tea.Cmd, bool) {
	before := b.input.Value()
	var cmd tea.Cmd
	b.input, cmd = b.input.Update(msg)
	return b, cmd, b.input.Value() != before
}

// View renders the input line
func (b SearchBox) View() string {
	return b.input.View()
}

// Dropdown renders catalog search state below the search box
type Dropdown struct {
	Cursor
	width int
}

// NewDropdown creates an empty dropdown
func NewDropdown() Dropdown {
	return Dropdown{Cursor: Cursor{height: MaxDropdownRows}}
}

// SetWidth sets the rendered width
func (d *Dropdown) SetWidth(w int) { d.width = w }

// Height returns the number of terminal rows View will use, 0 when hidden
func (d Dropdown) Height(search *catalog.Search) int {
	if !search.Visible() {
		return 0
	}
	switch search.State() {
	case catalog.StateSearching, catalog.StateError:
		return 3 // border + one line
	case catalog.StateResults:
		rows := max(min(len(search.Hits()), MaxDropdownRows), 1)
		return rows + 3 // border + header
	}
	return 0
}

// View renders the dropdown. owned marks hits already in the library;
// selected is true while the dropdown has keyboard focus.
func (d Dropdown) View(search *catalog.Search, owned func(domain.SearchHit) bool, selected bool) string {
	if d.Height(search) == 0 {
		return ""
	}

	width := max(d.width-4, 10)
	var body string
	switch search.State() {
	case catalog.StateSearching:
		body = styles.DimStyle.Render(SearchingText)
	case catalog.StateError:
		body = styles.ErrorStyle.Render(catalog.ErrorText)
	case catalog.StateResults:
		body = d.renderHits(search.Hits(), owned, selected, width)
	}

	return styles.DropdownStyle.Width(width + 2).Render(body)
}

func (d Dropdown) renderHits(hits []domain.SearchHit, owned func(domain.SearchHit) bool, selected bool, width int) string {
	lines := []string{styles.SubtitleStyle.Bold(true).Render(ResultsHeader)}
	if len(hits) == 0 {
		lines = append(lines, styles.DimStyle.Render(NoResultsText))
		return strings.Join(lines, "\n")
	}

	end := min(d.offset+MaxDropdownRows, len(hits))
	for i := d.offset; i < end; i++ {
		hit := hits[i]
		mark := " "
		if owned != nil && owned(hit) {
			mark = OwnedMark
		}
		green := styles.Green
		parts := []styles.RowPart{
			{Text: mark + " ", Foreground: &green},
			{Text: styles.Truncate(hit.Name, width-6)},
		}
		lines = append(lines, styles.RenderListRow(parts, selected && i == d.pos, width))
	}
	return strings.Join(lines, "\n")
}
