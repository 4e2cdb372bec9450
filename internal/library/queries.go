package library

import (
	"slices"

	lfuzzy "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/backlog/internal/domain"
	"github.com/sahilm/fuzzy"
)

// Queries are pure, synchronous reads over the current snapshot.
// They never mutate state and are safe to call from View().

// Filter returns the entries with the given status; StatusAll returns every entry
func (s *Store) Filter(status domain.Status) []domain.Entry {
	if status == domain.StatusAll {
		return slices.Clone(s.entries)
	}
	out := make([]domain.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of entries in the snapshot
func (s *Store) Len() int { return len(s.entries) }

// Counts returns the number of entries per status
func (s *Store) Counts() map[domain.Status]int {
	counts := make(map[domain.Status]int, len(domain.Statuses))
	for _, e := range s.entries {
		counts[e.Status]++
	}
	return counts
}

// Entry returns the entry with the given ID
func (s *Store) Entry(id string) (domain.Entry, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return domain.Entry{}, false
	}
	return s.entries[i], true
}

// Match is a filtered entry with the title positions that matched the pattern
type Match struct {
	domain.Entry
	MatchedIndexes []int
}

// entrySource adapts a slice of entries to fuzzy.Source
type entrySource []domain.Entry

func (e entrySource) String(i int) string { return e[i].Title }
func (e entrySource) Len() int            { return len(e) }

// Find filters the given tab by a fuzzy title pattern, best matches first.
// An empty pattern returns the tab in snapshot order.
func (s *Store) Find(status domain.Status, pattern string) []Match {
	entries := s.Filter(status)
	if pattern == "" {
		out := make([]Match, len(entries))
		for i, e := range entries {
			out[i] = Match{Entry: e}
		}
		return out
	}

	matches := fuzzy.FindFrom(pattern, entrySource(entries))
	out := make([]Match, len(matches))
	for i, m := range matches {
		out[i] = Match{Entry: entries[m.Index], MatchedIndexes: m.MatchedIndexes}
	}
	return out
}

// Owns reports whether a catalog hit already appears in the library,
// comparing titles case- and accent-insensitively
func (s *Store) Owns(hit domain.SearchHit) bool {
	for _, e := range s.entries {
		if lfuzzy.MatchNormalizedFold(hit.Name, e.Title) && lfuzzy.MatchNormalizedFold(e.Title, hit.Name) {
			return true
		}
	}
	return false
}
