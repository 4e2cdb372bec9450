package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/backlog/internal/domain"
	"github.com/mmcdole/backlog/internal/session"
)

// ImageOpener shows an image URL outside the terminal
type ImageOpener interface {
	Open(url string) error
}

// authenticateCmd signs in or registers through the session gate
func authenticateCmd(gate *session.Gate, mode domain.AuthMode, creds domain.Credentials) tea.Cmd {
	return func() tea.Msg {
		err := gate.Authenticate(context.Background(), mode, creds)
		return authDoneMsg{mode: mode, err: err}
	}
}

// logoutCmd clears the token and cached snapshot
func logoutCmd(gate *session.Gate) tea.Cmd {
	return func() tea.Msg {
		return loggedOutMsg{err: gate.Logout()}
	}
}

// openImageCmd launches the image viewer
func openImageCmd(opener ImageOpener, url string) tea.Cmd {
	if opener == nil {
		return nil
	}
	return func() tea.Msg {
		return openedMsg{url: url, err: opener.Open(url)}
	}
}
