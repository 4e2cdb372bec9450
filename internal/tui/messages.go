package tui

import "github.com/mmcdole/backlog/internal/domain"

// Message types for the TUI. Core components define their own messages.

// authDoneMsg reports the outcome of a login or registration
type authDoneMsg struct {
	mode domain.AuthMode
	err  error
}

// loggedOutMsg signals that the token and cache were cleared
type loggedOutMsg struct {
	err error
}

// openedMsg reports whether an image viewer was launched
type openedMsg struct {
	url string
	err error
}
