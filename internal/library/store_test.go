package library

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/mmcdole/backlog/internal/domain"
	"github.com/mmcdole/backlog/internal/notify"
	"github.com/mmcdole/backlog/internal/schedule/scheduletest"
)

type fakeBacklog struct {
	mu        sync.Mutex
	entries   []domain.Entry
	listErr   error
	saveErr   error
	statusErr error
	saved     []string
	patched   []string
	deleted   []string
	lists     int
}

func (f *fakeBacklog) ListEntries(ctx context.Context) ([]domain.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.Entry(nil), f.entries...), nil
}

func (f *fakeBacklog) SaveFromCatalog(ctx context.Context, externalID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, externalID)
	f.entries = append(f.entries, domain.Entry{ID: "new-" + externalID, Title: "Saved " + externalID, Status: domain.StatusBacklog})
	return nil
}

func (f *fakeBacklog) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patched = append(f.patched, id+"="+string(status))
	return f.statusErr
}

func (f *fakeBacklog) DeleteEntry(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	f.entries = slices.DeleteFunc(f.entries, func(e domain.Entry) bool { return e.ID == id })
	return nil
}

type fakeCache struct {
	entries []domain.Entry
	ok      bool
	saves   int
}

func (c *fakeCache) GetSnapshot() ([]domain.Entry, time.Time, bool) {
	return c.entries, time.Unix(100, 0), c.ok
}

func (c *fakeCache) SaveSnapshot(entries []domain.Entry) error {
	c.entries = append([]domain.Entry(nil), entries...)
	c.ok = true
	c.saves++
	return nil
}

func (c *fakeCache) Invalidate() error {
	c.entries, c.ok = nil, false
	return nil
}

func (c *fakeCache) Close() error { return nil }

type fakeResults struct{ cleared int }

func (f *fakeResults) ClearResults() { f.cleared++ }

type harness struct {
	repo    *fakeBacklog
	cache   *fakeCache
	results *fakeResults
	notices *notify.Queue
	store   *Store
	clock   *scheduletest.ManualClock
	runner  *scheduletest.Runner
}

func sampleEntries() []domain.Entry {
	return []domain.Entry{
		{ID: "1", Title: "Hollow Knight", Status: domain.StatusPlaying},
		{ID: "2", Title: "Hades", Status: domain.StatusPlaying},
		{ID: "3", Title: "Celeste", Status: domain.StatusBacklog},
	}
}

func newHarness(t *testing.T) *harness {
	clock := scheduletest.NewManualClock(time.Unix(0, 0))
	h := &harness{
		repo:    &fakeBacklog{entries: sampleEntries()},
		cache:   &fakeCache{},
		results: &fakeResults{},
		notices: notify.NewQueue(clock, nil),
		clock:   clock,
		runner:  scheduletest.NewRunner(t),
	}
	h.store = NewStore(NewService(h.repo, h.cache, nil), h.notices, h.results, nil)
	return h
}

// load runs Load to completion
func (h *harness) load(t *testing.T) {
	t.Helper()
	cmd := h.store.Load()
	h.runner.Run(h.store.Update(cmd()))
	if h.store.Phase() != PhaseReady {
		t.Fatalf("Expected PhaseReady after load, got %v", h.store.Phase())
	}
}

func TestLoadPhases(t *testing.T) {
	h := newHarness(t)

	if h.store.Phase() != PhaseUninitialized {
		t.Fatalf("Expected PhaseUninitialized, got %v", h.store.Phase())
	}

	cmd := h.store.Load()
	if !h.store.Loading() {
		t.Fatal("Expected loading while the fetch is in flight")
	}
	if h.store.Len() != 0 {
		t.Fatal("Expected no entries while loading")
	}

	h.store.Update(cmd())
	if h.store.Phase() != PhaseReady || h.store.Len() != 3 {
		t.Fatalf("Expected 3 ready entries, got %d in %v", h.store.Len(), h.store.Phase())
	}
	if h.cache.saves != 1 {
		t.Errorf("Expected snapshot cached once, got %d", h.cache.saves)
	}
}

func TestEmptyLibraryIsReadyNotLoading(t *testing.T) {
	h := newHarness(t)
	h.repo.entries = nil

	h.load(t)
	if h.store.Loading() || h.store.Len() != 0 {
		t.Errorf("Expected an empty ready library, got loading=%v len=%d", h.store.Loading(), h.store.Len())
	}
}

func TestFilterByStatus(t *testing.T) {
	h := newHarness(t)
	h.load(t)

	if got := h.store.Filter(domain.StatusBacklog); len(got) != 1 || got[0].ID != "3" {
		t.Errorf("Expected exactly entry 3 for BACKLOG, got %v", got)
	}
	if got := h.store.Filter(domain.StatusAll); len(got) != 3 {
		t.Errorf("Expected 3 entries for ALL, got %d", len(got))
	}
	if got := h.store.Filter(domain.StatusDropped); len(got) != 0 {
		t.Errorf("Expected 0 DROPPED entries, got %d", len(got))
	}

	counts := h.store.Counts()
	if counts[domain.StatusPlaying] != 2 || counts[domain.StatusBacklog] != 1 {
		t.Errorf("Unexpected counts %v", counts)
	}

	// Filtering is a pure view
	view := h.store.Filter(domain.StatusAll)
	view[0].Title = "changed"
	if e, _ := h.store.Entry("1"); e.Title != "Hollow Knight" {
		t.Error("Filter result aliases the snapshot")
	}
}

func TestSaveDuplicateLeavesSnapshot(t *testing.T) {
	h := newHarness(t)
	h.load(t)
	h.repo.saveErr = domain.ErrDuplicateEntry

	cmd := h.store.SaveFromSearch("42")
	h.runner.Run(h.store.Update(cmd()))

	if h.notices.Text() != DuplicateText {
		t.Errorf("Expected notification %q, got %q", DuplicateText, h.notices.Text())
	}
	if h.store.Len() != 3 {
		t.Errorf("Expected snapshot length 3, got %d", h.store.Len())
	}
	if h.results.cleared != 0 {
		t.Error("Expected search results kept on refusal")
	}
	if h.repo.lists != 1 {
		t.Errorf("Expected no re-fetch after refusal, got %d lists", h.repo.lists)
	}
}

func TestSaveSuccessRefetchesAndClearsResults(t *testing.T) {
	h := newHarness(t)
	h.load(t)

	cmd := h.store.SaveFromSearch("42")
	if h.results.cleared != 0 {
		t.Fatal("results cleared before the save round trip completed")
	}

	h.runner.Run(h.store.Update(cmd()))

	if h.store.Len() != 4 {
		t.Fatalf("Expected re-fetched snapshot of 4, got %d", h.store.Len())
	}
	if _, ok := h.store.Entry("new-42"); !ok {
		t.Error("Expected server-assigned entry in snapshot")
	}
	if h.results.cleared != 1 {
		t.Errorf("Expected results cleared once, got %d", h.results.cleared)
	}
	if h.notices.Text() != SavedText {
		t.Errorf("Expected notification %q, got %q", SavedText, h.notices.Text())
	}
}

func TestSaveTransportFailure(t *testing.T) {
	h := newHarness(t)
	h.load(t)
	h.repo.saveErr = domain.ErrServerOffline

	cmd := h.store.SaveFromSearch("42")
	h.store.Update(cmd())

	if h.notices.Text() != UnreachableText {
		t.Errorf("Expected %q, got %q", UnreachableText, h.notices.Text())
	}
}

func TestUpdateStatusIsOptimistic(t *testing.T) {
	h := newHarness(t)
	h.load(t)

	cmd := h.store.UpdateStatus("3", domain.StatusCompleted)

	// Applied before the PATCH runs
	if e, _ := h.store.Entry("3"); e.Status != domain.StatusCompleted {
		t.Fatalf("Expected COMPLETED synchronously, got %s", e.Status)
	}
	if len(h.repo.patched) != 0 {
		t.Fatal("PATCH dispatched before the command ran")
	}
	if h.notices.Text() != "Status updated to COMPLETED" {
		t.Errorf("Unexpected notification %q", h.notices.Text())
	}

	h.runner.Run(cmd)
	h.store.Update(h.runner.Next())

	if len(h.repo.patched) != 1 || h.repo.patched[0] != "3=COMPLETED" {
		t.Errorf("Expected one PATCH 3=COMPLETED, got %v", h.repo.patched)
	}
	if p, ok := h.store.pending["3"]; !ok || p.settled == 0 {
		t.Error("Expected optimistic update marked settled")
	}
}

func TestStatusFailureDoesNotRollBack(t *testing.T) {
	h := newHarness(t)
	h.load(t)
	h.repo.statusErr = errors.New("boom")

	h.runner.Run(h.store.UpdateStatus("1", domain.StatusDropped))
	h.store.Update(h.runner.Next())

	if e, _ := h.store.Entry("1"); e.Status != domain.StatusDropped {
		t.Errorf("Expected optimistic DROPPED to stay, got %s", e.Status)
	}
}

func TestSnapshotKeepsInFlightStatus(t *testing.T) {
	h := newHarness(t)
	h.load(t)

	patch := h.store.UpdateStatus("2", domain.StatusCompleted)

	// A reload lands before the PATCH completes; the server still says PLAYING
	reload := h.store.Load()
	h.store.Update(reload())
	if e, _ := h.store.Entry("2"); e.Status != domain.StatusCompleted {
		t.Fatalf("Expected in-flight COMPLETED to survive reload, got %s", e.Status)
	}

	h.runner.Run(patch)
	h.store.Update(h.runner.Next())

	// Once settled, the server value wins again
	h.repo.entries[1].Status = domain.StatusBacklog
	reload = h.store.Load()
	h.store.Update(reload())
	if e, _ := h.store.Entry("2"); e.Status != domain.StatusBacklog {
		t.Errorf("Expected server BACKLOG after settle, got %s", e.Status)
	}
}

func TestStaleSnapshotDiscarded(t *testing.T) {
	h := newHarness(t)
	h.load(t)

	older := h.store.Load()
	olderMsg := older() // server state: 3 entries

	save := h.store.SaveFromSearch("7")
	h.runner.Run(h.store.Update(save()))
	if h.store.Len() != 4 {
		t.Fatalf("Expected 4 entries after save, got %d", h.store.Len())
	}

	h.store.Update(olderMsg)
	if h.store.Len() != 4 {
		t.Errorf("stale snapshot overwrote a newer one: %d entries", h.store.Len())
	}
}

func TestLoadFailureFallsBackToCache(t *testing.T) {
	h := newHarness(t)
	h.cache.entries = []domain.Entry{{ID: "9", Title: "Outer Wilds", Status: domain.StatusCompleted}}
	h.cache.ok = true
	h.repo.listErr = domain.ErrServerOffline

	cmd := h.store.Load()
	h.store.Update(cmd())

	if h.store.Phase() != PhaseReady || !h.store.Offline() || h.store.Len() != 1 {
		t.Fatalf("Expected cached snapshot, got phase=%v offline=%v len=%d", h.store.Phase(), h.store.Offline(), h.store.Len())
	}
	if h.notices.Text() != OfflineText {
		t.Errorf("Expected %q, got %q", OfflineText, h.notices.Text())
	}
}

func TestLoadFailureWithoutCacheStaysLoading(t *testing.T) {
	h := newHarness(t)
	h.repo.listErr = errors.New("bad json")

	cmd := h.store.Load()
	h.store.Update(cmd())

	if !h.store.Loading() {
		t.Errorf("Expected to stay loading, got %v", h.store.Phase())
	}
	if h.notices.Text() != LoadFailedText {
		t.Errorf("Expected %q, got %q", LoadFailedText, h.notices.Text())
	}
}

func TestDuplicateIDsDropped(t *testing.T) {
	h := newHarness(t)
	h.repo.entries = append(sampleEntries(), domain.Entry{ID: "1", Title: "Dupe", Status: domain.StatusDropped})

	h.load(t)
	if h.store.Len() != 3 {
		t.Fatalf("Expected 3 unique entries, got %d", h.store.Len())
	}
	if e, _ := h.store.Entry("1"); e.Title != "Hollow Knight" {
		t.Errorf("Expected first occurrence to win, got %q", e.Title)
	}
}

func TestFindAndOwns(t *testing.T) {
	h := newHarness(t)
	h.load(t)

	got := h.store.Find(domain.StatusAll, "hk")
	if len(got) == 0 || got[0].ID != "1" {
		t.Fatalf("Expected Hollow Knight first for 'hk', got %v", got)
	}
	if len(got[0].MatchedIndexes) != 2 {
		t.Errorf("Expected 2 matched indexes, got %v", got[0].MatchedIndexes)
	}
	if got := h.store.Find(domain.StatusBacklog, "hk"); len(got) != 0 {
		t.Errorf("Expected tab filter to apply, got %v", got)
	}
	if got := h.store.Find(domain.StatusPlaying, ""); len(got) != 2 {
		t.Errorf("Expected 2 PLAYING entries for empty pattern, got %d", len(got))
	}

	if !h.store.Owns(domain.SearchHit{Name: "CELESTE"}) {
		t.Error("Expected case-insensitive title match")
	}
	if h.store.Owns(domain.SearchHit{Name: "Celeste 2"}) {
		t.Error("Expected different title not to match")
	}
}

func TestResetDiscardsInFlightLoad(t *testing.T) {
	h := newHarness(t)
	h.load(t)

	cmd := h.store.Load()
	h.store.Reset()
	h.store.Update(cmd())

	if h.store.Phase() != PhaseUninitialized || h.store.Len() != 0 {
		t.Errorf("Expected empty uninitialized store, got %v with %d entries", h.store.Phase(), h.store.Len())
	}
}

func TestSnapshotFetchedBeforeDeleteDoesNotRestoreEntry(t *testing.T) {
	h := newHarness(t)
	h.load(t)

	// The refresh is answered while entry 3 still exists on the server
	held := h.store.Load()
	heldMsg := held()

	d := NewDeletion(h.store, nil)
	d.Request("3")
	rm := d.Confirm()
	h.runner.Run(h.store.Update(rm()))

	h.store.Update(heldMsg)
	if _, ok := h.store.Entry("3"); ok || h.store.Len() != 2 {
		t.Fatalf("Expected deleted entry to stay gone, got %d entries", h.store.Len())
	}

	// A fetch issued after the delete is authoritative again
	fresh := h.store.Load()
	h.store.Update(fresh())
	if h.store.Len() != 2 {
		t.Errorf("Expected 2 entries after fresh load, got %d", h.store.Len())
	}
	if len(h.store.removed) != 0 {
		t.Errorf("Expected removal record dropped, got %v", h.store.removed)
	}
}

func TestSnapshotFetchedBeforePatchKeepsStatus(t *testing.T) {
	h := newHarness(t)
	h.load(t)

	patch := h.store.UpdateStatus("2", domain.StatusCompleted)

	// The server still reports PLAYING for this fetch
	held := h.store.Load()
	heldMsg := held()

	h.runner.Run(patch)
	h.store.Update(h.runner.Next())

	h.store.Update(heldMsg)
	if e, _ := h.store.Entry("2"); e.Status != domain.StatusCompleted {
		t.Fatalf("Expected COMPLETED to survive an older snapshot, got %s", e.Status)
	}

	h.repo.mu.Lock()
	h.repo.entries[1].Status = domain.StatusCompleted
	h.repo.mu.Unlock()

	fresh := h.store.Load()
	h.store.Update(fresh())
	if e, _ := h.store.Entry("2"); e.Status != domain.StatusCompleted {
		t.Errorf("Expected COMPLETED from server, got %s", e.Status)
	}
	if len(h.store.pending) != 0 {
		t.Errorf("Expected settled update forgotten after fresh load, got %v", h.store.pending)
	}
}

func TestResetDropsLateCompletions(t *testing.T) {
	h := newHarness(t)
	h.load(t)

	h.runner.Run(h.store.UpdateStatus("1", domain.StatusDropped))
	patchMsg := h.runner.Next()

	d := NewDeletion(h.store, nil)
	d.Request("2")
	rm := d.Confirm()
	rmMsg := rm()

	save := h.store.SaveFromSearch("42")
	saveMsg := save()

	// Logout
	h.store.Reset()
	h.cache.Invalidate()
	before := h.notices.Text()

	h.runner.Run(h.store.Update(patchMsg))
	h.runner.Run(h.store.Update(rmMsg))
	h.runner.Run(h.store.Update(saveMsg))

	if h.cache.ok {
		t.Errorf("Expected invalidated cache to stay empty, got %v", h.cache.entries)
	}
	if h.notices.Text() != before {
		t.Errorf("Expected no notification after reset, got %q", h.notices.Text())
	}
	if h.results.cleared != 0 {
		t.Error("Expected search results untouched after reset")
	}
	if h.store.Phase() != PhaseUninitialized || h.store.Len() != 0 {
		t.Errorf("Expected empty uninitialized store, got %v with %d entries", h.store.Phase(), h.store.Len())
	}
}

