package catalog

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/backlog/internal/domain"
)

// debounceMsg fires when the quiet period of generation gen elapsed
type debounceMsg struct {
	gen uint64
}

// resultMsg carries the response of the lookup issued for generation gen
type resultMsg struct {
	gen   uint64
	query string
	hits  []domain.SearchHit
	err   error
}

// searchCmd performs one catalog lookup
func searchCmd(ctx context.Context, repo domain.CatalogRepository, query string, gen uint64) tea.Cmd {
	return func() tea.Msg {
		hits, err := repo.SearchCatalog(ctx, query)
		return resultMsg{gen: gen, query: query, hits: hits, err: err}
	}
}
