// Package catalog implements the debounced remote catalog search.
//
// Search is a state machine driven by the Bubble Tea event loop. Typing
// schedules a lookup after QuietPeriod of inactivity; each lookup is tagged
// with the generation of the query that issued it and a response from an
// older generation is discarded on arrival.
package catalog

import (
	"context"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/backlog/internal/domain"
	"github.com/mmcdole/backlog/internal/schedule"
)

// QuietPeriod is the trailing-edge debounce delay
const QuietPeriod = 800 * time.Millisecond

// ErrorText is the inline message for a failed search
const ErrorText = "Failed to search. Try again."

// State is the phase of the search stream
type State int

const (
	StateIdle State = iota
	StateSearching
	StateResults
	StateError
)

// String returns a log-friendly name
func (s State) String() string {
	switch s {
	case StateSearching:
		return "searching"
	case StateResults:
		return "results"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// Search owns the live query, the debounce timer and the displayed results
type Search struct {
	repo   domain.CatalogRepository
	clock  schedule.Clock
	logger *slog.Logger

	query   string
	gen     uint64 // bumped on every SetQuery
	state   State
	hits    []domain.SearchHit
	err     error
	visible bool

	pending *schedule.Task     // scheduled lookup, nil when none
	abort   context.CancelFunc // in-flight request, nil when none
}

// NewSearch creates an idle search
func NewSearch(repo domain.CatalogRepository, clock schedule.Clock, logger *slog.Logger) *Search {
	if clock == nil {
		clock = schedule.RealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Search{repo: repo, clock: clock, logger: logger}
}

// SetQuery updates the live query. A blank query clears results at once and
// issues nothing; otherwise the previous scheduled lookup is canceled and a
// new one is scheduled QuietPeriod from now.
func (s *Search) SetQuery(text string) tea.Cmd {
	s.query = text
	s.gen++

	s.pending.Cancel()
	s.pending = nil
	s.abortInFlight()

	if strings.TrimSpace(text) == "" {
		s.hits = nil
		s.err = nil
		s.state = StateIdle
		return nil
	}

	if s.state == StateSearching {
		// The superseded request was aborted above
		s.state = StateIdle
	}
	s.visible = true

	task, cmd := schedule.After(s.clock, QuietPeriod, debounceMsg{gen: s.gen})
	s.pending = task
	return cmd
}

// Update handles debounce and response messages; other messages are ignored
func (s *Search) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case debounceMsg:
		return s.fire(msg)
	case resultMsg:
		s.receive(msg)
	}
	return nil
}

func (s *Search) fire(msg debounceMsg) tea.Cmd {
	if msg.gen != s.gen {
		return nil
	}
	s.pending = nil

	query := strings.TrimSpace(s.query)
	ctx, cancel := context.WithCancel(context.Background())
	s.abort = cancel
	s.state = StateSearching
	s.err = nil

	s.logger.Debug("catalog search issued", "query", query, "gen", msg.gen)
	return searchCmd(ctx, s.repo, query, msg.gen)
}

func (s *Search) receive(msg resultMsg) {
	if msg.gen != s.gen {
		s.logger.Debug("discarding stale search response", "query", msg.query, "gen", msg.gen, "current", s.gen)
		return
	}
	s.abortInFlight() // releases the request context

	if !s.visible {
		// Dismissed while in flight: the response is not rendered
		s.state = StateIdle
		s.hits = nil
		return
	}

	if msg.err != nil {
		s.logger.Warn("catalog search failed", "query", msg.query, "error", msg.err)
		s.state = StateError
		s.err = msg.err
		s.hits = nil
		return
	}

	s.logger.Debug("catalog search complete", "query", msg.query, "results", len(msg.hits))
	s.state = StateResults
	s.hits = msg.hits
}

// Dismiss handles an interaction outside the search surface. Displayed
// results are cleared; an in-flight request keeps running but its response
// will not be rendered.
func (s *Search) Dismiss() {
	s.visible = false
	s.hits = nil
	s.err = nil
	if s.state != StateSearching {
		s.state = StateIdle
	}
}

// Focus re-opens the search surface for subsequent responses
func (s *Search) Focus() {
	s.visible = true
}

// ClearResults empties the displayed results without touching the query
func (s *Search) ClearResults() {
	s.hits = nil
	s.err = nil
	if s.state != StateSearching {
		s.state = StateIdle
	}
}

func (s *Search) abortInFlight() {
	if s.abort != nil {
		s.abort()
		s.abort = nil
	}
}

// Query returns the live query text
func (s *Search) Query() string { return s.query }

// State returns the current phase
func (s *Search) State() State { return s.state }

// Visible reports whether the search surface is open
func (s *Search) Visible() bool { return s.visible }

// Err returns the failure of the last request when in StateError
func (s *Search) Err() error { return s.err }

// Hits returns the results to render; nil while dismissed
func (s *Search) Hits() []domain.SearchHit {
	if !s.visible {
		return nil
	}
	return s.hits
}

// Scheduled reports whether a lookup is waiting for the quiet period
func (s *Search) Scheduled() bool { return s.pending != nil }
