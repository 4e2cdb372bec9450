package library

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmText is the question shown while a deletion awaits confirmation
const ConfirmText = "Are you sure you want to delete this game?"

// Deletion gates the destructive remove behind an explicit confirmation.
// There is at most one pending target; a new request replaces it.
type Deletion struct {
	store  *Store
	logger *slog.Logger

	target   string
	awaiting bool
}

// NewDeletion creates an idle deletion workflow over store
func NewDeletion(store *Store, logger *slog.Logger) *Deletion {
	if logger == nil {
		logger = slog.Default()
	}
	return &Deletion{store: store, logger: logger}
}

// Request asks for confirmation to delete id. Nothing is removed yet.
func (d *Deletion) Request(id string) {
	if d.awaiting && d.target != id {
		d.logger.Debug("replacing pending deletion", "previous", d.target, "entryID", id)
	}
	d.target = id
	d.awaiting = true
}

// Confirm removes the pending target. It is a no-op while idle.
func (d *Deletion) Confirm() tea.Cmd {
	if !d.awaiting {
		return nil
	}
	id := d.target
	d.target = ""
	d.awaiting = false
	return d.store.remove(id)
}

// Cancel drops the pending target without side effects
func (d *Deletion) Cancel() {
	d.target = ""
	d.awaiting = false
}

// Pending returns the target awaiting confirmation
func (d *Deletion) Pending() (string, bool) {
	return d.target, d.awaiting
}
