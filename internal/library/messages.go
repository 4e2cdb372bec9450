package library

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/backlog/internal/domain"
)

// Notification texts posted by the Store
const (
	SavedText           = "Game saved!"
	DuplicateText       = "Game already in your list!"
	StatusTextFormat    = "Status updated to %s"
	RemovedText         = "Game removed from your list"
	OfflineText         = "Offline: showing your saved library"
	LoadFailedText      = "Failed to load your library"
	UnreachableText     = "Could not reach the server"
	SessionExpiredText  = "Session expired. Log in again."
	SavedNotRefreshText = "Game saved, but the library could not be refreshed"
)

// snapshotMsg carries the result of a full fetch issued as generation gen
type snapshotMsg struct {
	epoch   uint64
	gen     uint64
	entries []domain.Entry
	err     error
}

// savedMsg carries the result of a save and the re-fetch that follows it
type savedMsg struct {
	epoch      uint64
	gen        uint64
	externalID string
	err        error // save failure; no re-fetch was attempted
	entries    []domain.Entry
	fetchErr   error
}

// statusMsg reports completion of a background status update
type statusMsg struct {
	epoch  uint64
	id     string
	status domain.Status
	token  uint64
	err    error
}

// removedMsg reports completion of a delete
type removedMsg struct {
	epoch uint64
	id    string
	err   error
}

func fetchCmd(svc *Service, gen, epoch uint64) tea.Cmd {
	return func() tea.Msg {
		entries, err := svc.FetchEntries(context.Background())
		return snapshotMsg{epoch: epoch, gen: gen, entries: entries, err: err}
	}
}

func saveCmd(svc *Service, externalID string, gen, epoch uint64) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if err := svc.SaveFromCatalog(ctx, externalID); err != nil {
			return savedMsg{epoch: epoch, gen: gen, externalID: externalID, err: err}
		}
		entries, err := svc.FetchEntries(ctx)
		return savedMsg{epoch: epoch, gen: gen, externalID: externalID, entries: entries, fetchErr: err}
	}
}

func statusCmd(svc *Service, id string, status domain.Status, token, epoch uint64) tea.Cmd {
	return func() tea.Msg {
		err := svc.SetStatus(context.Background(), id, status)
		return statusMsg{epoch: epoch, id: id, status: status, token: token, err: err}
	}
}

func removeCmd(svc *Service, id string, epoch uint64) tea.Cmd {
	return func() tea.Msg {
		err := svc.Delete(context.Background(), id)
		return removedMsg{epoch: epoch, id: id, err: err}
	}
}
