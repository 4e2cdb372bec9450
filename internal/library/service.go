package library

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmcdole/backlog/internal/domain"
)

// Service orchestrates the backlog client and the local snapshot cache.
// Its methods block on the network and must run inside tea.Cmds or CLI commands.
type Service struct {
	repo   domain.BacklogRepository
	cache  domain.SnapshotCache
	logger *slog.Logger
}

// NewService creates a new library service. cache may be nil.
func NewService(repo domain.BacklogRepository, cache domain.SnapshotCache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, cache: cache, logger: logger}
}

// FetchEntries downloads the full backlog and refreshes the cache
func (s *Service) FetchEntries(ctx context.Context) ([]domain.Entry, error) {
	entries, err := s.repo.ListEntries(ctx)
	if err != nil {
		s.logger.Error("failed to fetch entries", "error", err)
		return nil, err
	}
	entries = dedupe(entries, s.logger)
	s.saveCache(entries)
	s.logger.Debug("fetched entries", "count", len(entries))
	return entries, nil
}

// SaveFromCatalog asks the backend to add a catalog game.
// A duplicate is reported as domain.ErrDuplicateEntry.
func (s *Service) SaveFromCatalog(ctx context.Context, externalID string) error {
	if err := s.repo.SaveFromCatalog(ctx, externalID); err != nil {
		s.logger.Info("save from catalog refused", "externalID", externalID, "error", err)
		return err
	}
	s.logger.Info("saved from catalog", "externalID", externalID)
	return nil
}

// SetStatus sends a status change to the backend
func (s *Service) SetStatus(ctx context.Context, id string, status domain.Status) error {
	if !status.Valid() {
		return domain.ErrInvalidStatus
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		s.logger.Warn("status update failed", "entryID", id, "status", status, "error", err)
		return err
	}
	s.logger.Debug("status updated", "entryID", id, "status", status)
	return nil
}

// Delete removes an entry on the backend
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteEntry(ctx, id); err != nil {
		s.logger.Warn("delete failed", "entryID", id, "error", err)
		return err
	}
	s.logger.Info("deleted entry", "entryID", id)
	return nil
}

// CachedEntries returns the last snapshot saved locally
func (s *Service) CachedEntries() ([]domain.Entry, time.Time, bool) {
	if s.cache == nil {
		return nil, time.Time{}, false
	}
	return s.cache.GetSnapshot()
}

// Remember writes a locally mutated snapshot to the cache
func (s *Service) Remember(entries []domain.Entry) {
	s.saveCache(entries)
}

// InvalidateCache drops the cached snapshot
func (s *Service) InvalidateCache() {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(); err != nil {
		s.logger.Error("failed to invalidate snapshot cache", "error", err)
		return
	}
	s.logger.Info("invalidated snapshot cache")
}

func (s *Service) saveCache(entries []domain.Entry) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SaveSnapshot(entries); err != nil {
		s.logger.Error("failed to save snapshot", "error", err)
	}
}

// dedupe drops entries whose ID was already seen; the first occurrence wins
func dedupe(entries []domain.Entry, logger *slog.Logger) []domain.Entry {
	seen := make(map[string]bool, len(entries))
	out := make([]domain.Entry, 0, len(entries))
	for _, e := range entries {
		if seen[e.ID] {
			logger.Warn("dropping duplicate entry id", "entryID", e.ID, "title", e.Title)
			continue
		}
		seen[e.ID] = true
		out = append(out, e)
	}
	return out
}
