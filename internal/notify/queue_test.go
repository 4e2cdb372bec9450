package notify

import (
	"testing"
	"time"

	"github.com/mmcdole/backlog/internal/schedule/scheduletest"
)

func newTestQueue() (*Queue, *scheduletest.ManualClock) {
	clock := scheduletest.NewManualClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	return NewQueue(clock, nil), clock
}

func TestPostShowsNotification(t *testing.T) {
	q, clock := newTestQueue()

	q.Post("Game saved!")

	n, ok := q.Current()
	if !ok {
		t.Fatal("Expected a visible notification")
	}
	if n.Text != "Game saved!" {
		t.Errorf("Expected text 'Game saved!', got '%s'", n.Text)
	}
	if !n.CreatedAt.Equal(clock.Now()) {
		t.Errorf("Expected CreatedAt %v, got %v", clock.Now(), n.CreatedAt)
	}
	if d := clock.Delays(); len(d) != 1 || d[0] != DisplayDuration {
		t.Errorf("Expected a single %s timer, got %v", DisplayDuration, d)
	}
}

func TestNotificationExpires(t *testing.T) {
	q, clock := newTestQueue()
	r := scheduletest.NewRunner(t)

	r.Run(q.Post("hello"))
	clock.Advance(DisplayDuration)
	q.Update(r.Next())

	if _, ok := q.Current(); ok {
		t.Error("Expected notification to be dismissed after DisplayDuration")
	}
}

func TestNewerPostPreemptsOlderTimer(t *testing.T) {
	q, clock := newTestQueue()
	r := scheduletest.NewRunner(t)

	r.Run(q.Post("A"))
	clock.Advance(500 * time.Millisecond)
	r.Run(q.Post("B"))

	if q.Text() != "B" {
		t.Fatalf("Expected only 'B' visible, got '%s'", q.Text())
	}
	if clock.Live() != 1 {
		t.Fatalf("Expected exactly one live dismiss timer, got %d", clock.Live())
	}

	// A's deadline passes: B must stay.
	clock.Advance(1500 * time.Millisecond)
	if !r.Idle(20 * time.Millisecond) {
		t.Fatal("preempted timer delivered a message")
	}
	if q.Text() != "B" {
		t.Fatalf("Expected 'B' to survive A's deadline, got '%s'", q.Text())
	}

	// B disappears exactly 2000ms after its own post.
	clock.Advance(499 * time.Millisecond)
	if !r.Idle(20 * time.Millisecond) {
		t.Fatal("B dismissed early")
	}
	clock.Advance(time.Millisecond)
	q.Update(r.Next())
	if q.Text() != "" {
		t.Errorf("Expected B dismissed, got '%s'", q.Text())
	}
}

func TestStaleExpiryIgnored(t *testing.T) {
	q, _ := newTestQueue()

	q.Post("A")
	stale := expiredMsg{seq: q.seq}
	q.Post("B")

	q.Update(stale)
	if q.Text() != "B" {
		t.Errorf("Expected stale expiry to be ignored, got '%s'", q.Text())
	}
}
