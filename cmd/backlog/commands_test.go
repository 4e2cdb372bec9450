package main

import (
	"strings"
	"testing"

	"github.com/mmcdole/backlog/internal/domain"
)

func TestFilterEntries(t *testing.T) {
	entries := []domain.Entry{
		{ID: "1", Title: "Hades", Status: domain.StatusPlaying},
		{ID: "2", Title: "Celeste", Status: domain.StatusBacklog},
		{ID: "3", Title: "Tunic", Status: domain.StatusPlaying},
	}

	tests := []struct {
		status domain.Status
		want   []string
	}{
		{domain.StatusAll, []string{"1", "2", "3"}},
		{domain.StatusPlaying, []string{"1", "3"}},
		{domain.StatusDropped, nil},
	}

	for _, tt := range tests {
		got := filterEntries(entries, tt.status)
		var ids []string
		for _, e := range got {
			ids = append(ids, e.ID)
		}
		if strings.Join(ids, ",") != strings.Join(tt.want, ",") {
			t.Errorf("filterEntries(%s): expected %v, got %v", tt.status, tt.want, ids)
		}
	}
}

func TestEntryTable(t *testing.T) {
	out := entryTable([]domain.Entry{{ID: "42", Title: "Outer Wilds", Status: domain.StatusCompleted}}).String()

	for _, want := range []string{"TITLE", "42", "Outer Wilds", "Completed"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in table:\n%s", want, out)
		}
	}
}
