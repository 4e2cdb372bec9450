// Package notify holds the single transient message shown to the user.
package notify

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/backlog/internal/domain"
	"github.com/mmcdole/backlog/internal/schedule"
)

// DisplayDuration is how long a notification stays visible
const DisplayDuration = 2000 * time.Millisecond

// expiredMsg is delivered when the dismiss task of notification seq elapses
type expiredMsg struct {
	seq uint64
}

// Queue shows at most one notification. A new Post preempts the previous
// message and its dismiss timer; messages are never queued for sequential display.
type Queue struct {
	clock  schedule.Clock
	logger *slog.Logger

	current *domain.Notification
	seq     uint64
	task    *schedule.Task
}

// NewQueue creates an empty queue
func NewQueue(clock schedule.Clock, logger *slog.Logger) *Queue {
	if clock == nil {
		clock = schedule.RealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{clock: clock, logger: logger}
}

// Post replaces the visible notification and restarts the dismiss timer.
// The returned command must be handed to the runtime.
func (q *Queue) Post(text string) tea.Cmd {
	q.task.Cancel()
	q.seq++
	q.current = &domain.Notification{Text: text, CreatedAt: q.clock.Now()}

	task, cmd := schedule.After(q.clock, DisplayDuration, expiredMsg{seq: q.seq})
	q.task = task

	q.logger.Debug("notification posted", "text", text, "seq", q.seq)
	return cmd
}

// Update handles dismiss timer messages; other messages are ignored
func (q *Queue) Update(msg tea.Msg) {
	m, ok := msg.(expiredMsg)
	if !ok {
		return
	}
	if m.seq != q.seq {
		// Expiry of a preempted notification
		return
	}
	q.current = nil
	q.task = nil
}

// Current returns the visible notification, if any
func (q *Queue) Current() (domain.Notification, bool) {
	if q.current == nil {
		return domain.Notification{}, false
	}
	return *q.current, true
}

// Text returns the visible notification text or ""
func (q *Queue) Text() string {
	if q.current == nil {
		return ""
	}
	return q.current.Text
}
