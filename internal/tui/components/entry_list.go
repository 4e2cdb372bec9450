package components

import (
	"strings"

	"github.com/mmcdole/backlog/internal/library"
	"github.com/mmcdole/backlog/internal/tui/styles"
)

// Empty-state texts
const (
	LoadingText = "Loading..."
	EmptyText   = "Nothing here yet"
)

const statusColumnWidth = 11

// EntryList renders the filtered backlog with a cursor
type EntryList struct {
	Cursor
	width int
}

// NewEntryList creates an empty list
func NewEntryList() EntryList {
	return EntryList{Cursor: Cursor{height: 1}}
}

// SetSize sets the list dimensions
func (l *EntryList) SetSize(width, height int) {
	l.width = width
	l.SetHeight(height)
}

// View renders the visible window of rows
func (l EntryList) View(rows []library.Match, loading bool) string {
	if loading {
		return styles.DimStyle.Render("  " + LoadingText)
	}
	if len(rows) == 0 {
		return styles.DimStyle.Render("  " + EmptyText)
	}

	end := min(l.offset+l.height, len(rows))
	lines := make([]string, 0, end-l.offset)
	for i := l.offset; i < end; i++ {
		lines = append(lines, l.renderRow(rows[i], i == l.pos))
	}
	return strings.Join(lines, "\n")
}

func (l EntryList) renderRow(row library.Match, selected bool) string {
	statusColor := styles.StatusColor(row.Status)
	label := row.Status.Label()
	parts := []styles.RowPart{
		{Text: label + strings.Repeat(" ", max(statusColumnWidth-len(label), 1)), Foreground: &statusColor},
	}
	title := styles.Truncate(row.Title, l.width-statusColumnWidth-4)
	parts = append(parts, highlight(title, row.MatchedIndexes)...)
	return styles.RenderListRow(parts, selected, l.width)
}

// highlight splits title into parts, emphasizing matched byte offsets
func highlight(title string, matched []int) []styles.RowPart {
	if len(matched) == 0 {
		return []styles.RowPart{{Text: title}}
	}
	hit := make(map[int]bool, len(matched))
	for _, i := range matched {
		hit[i] = true
	}

	accent := styles.Accent
	var parts []styles.RowPart
	var plain strings.Builder
	for i, r := range title {
		if !hit[i] {
			plain.WriteRune(r)
			continue
		}
		if plain.Len() > 0 {
			parts = append(parts, styles.RowPart{Text: plain.String()})
			plain.Reset()
		}
		parts = append(parts, styles.RowPart{Text: string(r), Foreground: &accent, Bold: true})
	}
	if plain.Len() > 0 {
		parts = append(parts, styles.RowPart{Text: plain.String()})
	}
	return parts
}
