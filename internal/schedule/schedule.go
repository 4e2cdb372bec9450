// Package schedule provides cancelable delayed messages for the Bubble Tea
// event loop. A Task delivers its message once, unless canceled first; a
// canceled task's command returns nil and its underlying timer is stopped.
package schedule

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Timer is the subset of *time.Timer used by tasks
type Timer interface {
	C() <-chan time.Time
	Stop() bool
}

// Clock is the time source for scheduled tasks
type Clock interface {
	Now() time.Time
	NewTimer(d time.Duration) Timer
}

type realClock struct{}

type realTimer struct{ t *time.Timer }

func (r realTimer) C() <-chan time.Time { return r.t.C }
func (r realTimer) Stop() bool          { return r.t.Stop() }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) NewTimer(d time.Duration) Timer {
	return realTimer{t: time.NewTimer(d)}
}

// RealClock returns the wall clock
func RealClock() Clock { return realClock{} }

// Task is a handle to one scheduled message
type Task struct {
	timer  Timer
	cancel chan struct{}
	once   sync.Once
}

// Cancel stops the task. Safe to call more than once and on a nil Task.
func (t *Task) Cancel() {
	if t == nil {
		return
	}
	t.once.Do(func() {
		t.timer.Stop()
		close(t.cancel)
	})
}

// Canceled reports whether Cancel has been called
func (t *Task) Canceled() bool {
	if t == nil {
		return true
	}
	select {
	case <-t.cancel:
		return true
	default:
		return false
	}
}

// After starts a timer for d immediately and returns the task handle plus the
// command that waits for it. The deadline is anchored at the call to After,
// not at the moment the runtime executes the command.
func After(clock Clock, d time.Duration, msg tea.Msg) (*Task, tea.Cmd) {
	if clock == nil {
		clock = RealClock()
	}
	t := &Task{
		timer:  clock.NewTimer(d),
		cancel: make(chan struct{}),
	}
	cmd := func() tea.Msg {
		select {
		case <-t.cancel:
			return nil
		default:
		}
		select {
		case <-t.timer.C():
			if t.Canceled() {
				return nil
			}
			return msg
		case <-t.cancel:
			return nil
		}
	}
	return t, cmd
}
