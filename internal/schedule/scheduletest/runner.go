package scheduletest

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultWait bounds how long Next waits for a message
const DefaultWait = 2 * time.Second

// Runner executes tea.Cmds in the background the way the Bubble Tea runtime
// does and hands their messages back to the test one at a time. Commands
// blocked on a ManualClock stay parked until the clock is advanced.
type Runner struct {
	t    testing.TB
	msgs chan tea.Msg
}

// NewRunner creates a runner bound to t
func NewRunner(t testing.TB) *Runner {
	return &Runner{t: t, msgs: make(chan tea.Msg, 64)}
}

// Run starts cmd, expanding batches. A nil cmd is ignored.
func (r *Runner) Run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	go func() {
		msg := cmd()
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, c := range batch {
				r.Run(c)
			}
			return
		}
		if msg != nil {
			r.msgs <- msg
		}
	}()
}

// Next returns the next message produced by a running command
func (r *Runner) Next() tea.Msg {
	r.t.Helper()
	select {
	case msg := <-r.msgs:
		return msg
	case <-time.After(DefaultWait):
		r.t.Fatalf("no message within %s", DefaultWait)
		return nil
	}
}

// Idle reports true when no message arrives within d
func (r *Runner) Idle(d time.Duration) bool {
	select {
	case msg := <-r.msgs:
		r.t.Logf("unexpected message %T", msg)
		return false
	case <-time.After(d):
		return true
	}
}
