package library

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/backlog/internal/domain"
	"github.com/mmcdole/backlog/internal/notify"
)

// Phase is the lifecycle of the snapshot
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseLoading
	PhaseReady
)

// ResultsClearer empties the catalog search results after a successful save
type ResultsClearer interface {
	ClearResults()
}

// optimistic is a local status change. It is overlaid on every installed
// snapshot until a fetch issued after its PATCH completed has been applied.
type optimistic struct {
	status  domain.Status
	token   uint64
	settled uint64 // issued generation when the PATCH succeeded, 0 while in flight
}

// Store is the authoritative local view of the user's backlog. All mutations
// go through its operations; completions re-enter through Update.
type Store struct {
	svc     *Service
	notices *notify.Queue
	results ResultsClearer
	logger  *slog.Logger

	phase      Phase
	entries    []domain.Entry
	refreshing bool
	offline    bool // snapshot came from the local cache

	// Fetch generations: issued increases per fetch, applied is the newest
	// generation whose snapshot has been installed. Older responses are dropped.
	issued  uint64
	applied uint64

	pending map[string]optimistic
	tokens  uint64

	// removed maps deleted IDs to the issued generation at completion;
	// snapshots fetched no later than that still contain them
	removed map[string]uint64

	// epoch advances on Reset; completions from an older epoch are dropped
	epoch uint64
}

// NewStore creates an uninitialized store
func NewStore(svc *Service, notices *notify.Queue, results ResultsClearer, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		svc:     svc,
		notices: notices,
		results: results,
		logger:  logger,
		pending: make(map[string]optimistic),
		removed: make(map[string]uint64),
	}
}

// Load fetches the full snapshot. Consumers observe PhaseLoading until the
// first snapshot is installed.
func (s *Store) Load() tea.Cmd {
	if s.phase != PhaseReady {
		s.phase = PhaseLoading
	} else {
		s.refreshing = true
	}
	s.issued++
	s.logger.Debug("loading library", "gen", s.issued)
	return fetchCmd(s.svc, s.issued, s.epoch)
}

// SaveFromSearch asks the backend to materialize a catalog hit. On success
// the snapshot is re-fetched, search results are cleared and "Game saved!"
// is posted; on refusal the snapshot is left untouched.
func (s *Store) SaveFromSearch(externalID string) tea.Cmd {
	s.issued++
	s.logger.Debug("saving from search", "externalID", externalID, "gen", s.issued)
	return saveCmd(s.svc, externalID, s.issued, s.epoch)
}

// UpdateStatus changes the status locally right away and sends the update
// in the background. A failed update is not rolled back.
func (s *Store) UpdateStatus(id string, status domain.Status) tea.Cmd {
	if !status.Valid() {
		s.logger.Warn("ignoring invalid status", "entryID", id, "status", status)
		return nil
	}
	i := s.indexOf(id)
	if i < 0 {
		s.logger.Warn("status update for unknown entry", "entryID", id)
		return nil
	}
	if s.entries[i].Status == status {
		return nil
	}

	s.entries[i].Status = status
	s.tokens++
	s.pending[id] = optimistic{status: status, token: s.tokens}

	notice := s.notices.Post(fmt.Sprintf(StatusTextFormat, status))
	return tea.Batch(notice, statusCmd(s.svc, id, status, s.tokens, s.epoch))
}

// remove deletes an entry on the backend and then from the snapshot.
// Only Deletion calls it, after confirmation.
func (s *Store) remove(id string) tea.Cmd {
	s.logger.Debug("removing entry", "entryID", id)
	return removeCmd(s.svc, id, s.epoch)
}

// Reset forgets the snapshot after logout. Responses still in flight are
// discarded when they arrive.
func (s *Store) Reset() {
	s.phase = PhaseUninitialized
	s.entries = nil
	s.refreshing = false
	s.offline = false
	s.applied = s.issued
	s.epoch++
	clear(s.pending)
	clear(s.removed)
}

// Update handles completions of the Store's commands
func (s *Store) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case snapshotMsg:
		if s.outdated(msg.epoch) {
			return nil
		}
		return s.handleSnapshot(msg)
	case savedMsg:
		if s.outdated(msg.epoch) {
			return nil
		}
		return s.handleSaved(msg)
	case statusMsg:
		if s.outdated(msg.epoch) {
			return nil
		}
		s.handleStatus(msg)
	case removedMsg:
		if s.outdated(msg.epoch) {
			return nil
		}
		return s.handleRemoved(msg)
	}
	return nil
}

// outdated reports whether a completion was issued before the last Reset
func (s *Store) outdated(epoch uint64) bool {
	if epoch != s.epoch {
		s.logger.Debug("dropping completion from before reset", "epoch", epoch, "current", s.epoch)
		return true
	}
	return false
}

func (s *Store) handleSnapshot(msg snapshotMsg) tea.Cmd {
	if msg.gen <= s.applied {
		s.logger.Debug("discarding stale snapshot", "gen", msg.gen, "applied", s.applied)
		return nil
	}
	if msg.gen == s.issued {
		s.refreshing = false
	}

	if msg.err != nil {
		if s.phase == PhaseLoading {
			if cached, savedAt, ok := s.svc.CachedEntries(); ok {
				s.logger.Warn("library load failed, using cached snapshot", "error", msg.err, "savedAt", savedAt)
				s.install(msg.gen, cached)
				s.offline = true
				return s.notices.Post(OfflineText)
			}
		}
		return s.notices.Post(s.describe(msg.err, LoadFailedText))
	}

	s.install(msg.gen, msg.entries)
	s.offline = false
	s.logger.Info("library loaded", "count", len(s.entries))
	return nil
}

func (s *Store) handleSaved(msg savedMsg) tea.Cmd {
	if msg.err != nil {
		if errors.Is(msg.err, domain.ErrDuplicateEntry) {
			return s.notices.Post(DuplicateText)
		}
		return s.notices.Post(s.describe(msg.err, UnreachableText))
	}

	if s.results != nil {
		s.results.ClearResults()
	}
	if msg.fetchErr != nil {
		return s.notices.Post(SavedNotRefreshText)
	}
	if msg.gen > s.applied {
		s.install(msg.gen, msg.entries)
		s.offline = false
	}
	if msg.gen == s.issued {
		s.refreshing = false
	}
	return s.notices.Post(SavedText)
}

func (s *Store) handleStatus(msg statusMsg) {
	p, current := s.pending[msg.id]
	current = current && p.token == msg.token
	if msg.err != nil {
		// No rollback: the optimistic status stays until the next snapshot
		if current {
			delete(s.pending, msg.id)
		}
		s.logger.Warn("background status update failed", "entryID", msg.id, "status", msg.status, "error", msg.err)
		return
	}
	if current {
		p.settled = s.issued
		s.pending[msg.id] = p
	}
	s.svc.Remember(s.Snapshot())
}

func (s *Store) handleRemoved(msg removedMsg) tea.Cmd {
	if msg.err != nil {
		s.logger.Warn("background delete failed", "entryID", msg.id, "error", msg.err)
	}
	s.entries = slices.DeleteFunc(s.entries, func(e domain.Entry) bool { return e.ID == msg.id })
	delete(s.pending, msg.id)
	s.removed[msg.id] = s.issued
	s.svc.Remember(s.Snapshot())
	return s.notices.Post(RemovedText)
}

// install replaces the snapshot with one fetched as generation gen. Local
// changes that completed after that fetch was issued are applied on top of
// it; changes the snapshot already reflects are forgotten.
func (s *Store) install(gen uint64, entries []domain.Entry) {
	for id, p := range s.pending {
		if p.settled != 0 && gen > p.settled {
			delete(s.pending, id)
		}
	}
	for id, at := range s.removed {
		if gen > at {
			delete(s.removed, id)
		}
	}

	next := make([]domain.Entry, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		if _, gone := s.removed[e.ID]; gone {
			continue
		}
		if p, ok := s.pending[e.ID]; ok {
			e.Status = p.status
		}
		next = append(next, e)
	}
	s.entries = next
	s.applied = gen
	s.phase = PhaseReady
}

// describe maps a failure to notification text
func (s *Store) describe(err error, fallback string) string {
	switch {
	case errors.Is(err, domain.ErrAuthFailed), errors.Is(err, domain.ErrUnauthenticated):
		return SessionExpiredText
	case errors.Is(err, domain.ErrServerOffline):
		return UnreachableText
	default:
		return fallback
	}
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.entries, func(e domain.Entry) bool { return e.ID == id })
}

// Phase returns the snapshot lifecycle phase
func (s *Store) Phase() Phase { return s.phase }

// Loading reports whether the first snapshot is still in flight
func (s *Store) Loading() bool { return s.phase == PhaseLoading }

// Refreshing reports whether a reload of a ready snapshot is in flight
func (s *Store) Refreshing() bool { return s.refreshing }

// Offline reports whether the snapshot was restored from the local cache
func (s *Store) Offline() bool { return s.offline }

// Snapshot returns a copy of the current entries
func (s *Store) Snapshot() []domain.Entry {
	return slices.Clone(s.entries)
}
