package components

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Cursor is a scrolling selection over a list of n rows
type Cursor struct {
	pos    int
	offset int
	height int // visible rows
}

// SetHeight sets the number of visible rows
func (c *Cursor) SetHeight(h int) {
	c.height = max(h, 1)
}

// Pos returns the selected row
func (c Cursor) Pos() int { return c.pos }

// Offset returns the first visible row
func (c Cursor) Offset() int { return c.offset }

// Reset moves to the first row
func (c *Cursor) Reset() {
	c.pos = 0
	c.offset = 0
}

// Clamp keeps the cursor inside a list of n rows
func (c *Cursor) Clamp(n int) {
	if c.pos >= n {
		c.pos = n - 1
	}
	if c.pos < 0 {
		c.pos = 0
	}
	c.scroll()
}

// HandleKey applies a movement key; it reports whether the key was consumed
func (c *Cursor) HandleKey(msg tea.KeyMsg, n int) bool {
	half := max(c.height/2, 1)
	switch {
	case key.Matches(msg, ListKeys.Up):
		c.pos--
	case key.Matches(msg, ListKeys.Down):
		c.pos++
	case key.Matches(msg, ListKeys.Home):
		c.pos = 0
	case key.Matches(msg, ListKeys.End):
		c.pos = n - 1
	case key.Matches(msg, ListKeys.HalfUp):
		c.pos -= half
	case key.Matches(msg, ListKeys.HalfDown):
		c.pos += half
	case key.Matches(msg, ListKeys.PageUp):
		c.pos -= c.height
	case key.Matches(msg, ListKeys.PageDown):
		c.pos += c.height
	default:
		return false
	}
	c.Clamp(n)
	return true
}

func (c *Cursor) scroll() {
	if c.height <= 0 {
		c.height = 1
	}
	if c.pos < c.offset {
		c.offset = c.pos
	}
	if c.pos >= c.offset+c.height {
		c.offset = c.pos - c.height + 1
	}
	if c.offset < 0 {
		c.offset = 0
	}
}
