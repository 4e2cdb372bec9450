package domain

import (
	"fmt"
	"strings"
	"time"
)

// Status is the play state of a backlog entry
type Status string

const (
	StatusPlaying   Status = "PLAYING"
	StatusCompleted Status = "COMPLETED"
	StatusBacklog   Status = "BACKLOG"
	StatusDropped   Status = "DROPPED"

	// StatusAll is a filter-only pseudo-status meaning "no filtering".
	// It is never assigned to an Entry.
	StatusAll Status = "ALL"
)

// Statuses lists every assignable status in display order
var Statuses = []Status{StatusPlaying, StatusCompleted, StatusBacklog, StatusDropped}

// Tabs lists the filter tabs in display order
var Tabs = []Status{StatusAll, StatusPlaying, StatusCompleted, StatusBacklog, StatusDropped}

// Valid reports whether s can be assigned to an Entry
func (s Status) Valid() bool {
	switch s {
	case StatusPlaying, StatusCompleted, StatusBacklog, StatusDropped:
		return true
	}
	return false
}

// Label returns the presentation form ("Playing", "All", ...)
func (s Status) Label() string {
	if s == "" {
		return ""
	}
	lower := strings.ToLower(string(s))
	return strings.ToUpper(lower[:1]) + lower[1:]
}

// Next returns the status after s in display order, wrapping around
func (s Status) Next() Status {
	for i, st := range Statuses {
		if st == s {
			return Statuses[(i+1)%len(Statuses)]
		}
	}
	return Statuses[0]
}

// Prev returns the status before s in display order, wrapping around
func (s Status) Prev() Status {
	for i, st := range Statuses {
		if st == s {
			return Statuses[(i+len(Statuses)-1)%len(Statuses)]
		}
	}
	return Statuses[len(Statuses)-1]
}

// ParseStatus converts user input ("playing", "BACKLOG") to a Status.
// When allowAll is set the ALL pseudo-status is accepted too.
func ParseStatus(s string, allowAll bool) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if st.Valid() || (allowAll && st == StatusAll) {
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Entry is one game in the user's backlog
type Entry struct {
	ID         string `json:"id"`         // Backend-assigned identifier, opaque to the client
	Title      string `json:"title"`      // Display title
	CoverImage string `json:"coverImage"` // Cover image URL
	Status     Status `json:"status"`
}

// SearchHit is a candidate game returned by the remote catalog.
// It only lives for the duration of one search response.
type SearchHit struct {
	ExternalID   string // Catalog identifier, distinct from Entry.ID
	Name         string
	PreviewImage string
}

// Notification is a transient message shown to the user
type Notification struct {
	Text      string
	CreatedAt time.Time
}

// Credentials are submitted to the authentication endpoints
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthMode selects the authentication endpoint
type AuthMode int

const (
	AuthLogin AuthMode = iota
	AuthRegister
)

// String returns the mode name used in logs and prompts
func (m AuthMode) String() string {
	if m == AuthRegister {
		return "register"
	}
	return "login"
}
