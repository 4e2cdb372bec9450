package backend

import (
	"log/slog"

	"github.com/mmcdole/backlog/internal/domain"
)

// mapEntries converts GET /games elements to domain entries.
// Entries with an unknown status are kept as BACKLOG.
func mapEntries(dtos []entryDTO, logger *slog.Logger) []domain.Entry {
	entries := make([]domain.Entry, 0, len(dtos))
	for _, d := range dtos {
		status, err := domain.ParseStatus(d.Status, false)
		if err != nil {
			logger.Warn("unknown entry status", "entryID", string(d.ID), "status", d.Status)
			status = domain.StatusBacklog
		}
		entries = append(entries, domain.Entry{
			ID:         string(d.ID),
			Title:      d.Title,
			CoverImage: d.CoverImage,
			Status:     status,
		})
	}
	return entries
}

func mapHits(dtos []hitDTO) []domain.SearchHit {
	hits := make([]domain.SearchHit, 0, len(dtos))
	for _, d := range dtos {
		hits = append(hits, domain.SearchHit{
			ExternalID:   string(d.ID),
			Name:         d.Name,
			PreviewImage: d.BackgroundImage,
		})
	}
	return hits
}
