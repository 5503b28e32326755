package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"

	"github.com/dukerupert/timeanalyzer/internal/clock"
	"github.com/dukerupert/timeanalyzer/internal/model"
	"github.com/dukerupert/timeanalyzer/internal/observability"
)

// ActivitiesKey is the blob key holding the JSON-encoded activity log.
const ActivitiesKey = "timeAnalyzerActivities"

var ErrNotFound = errors.New("activity not found")

// ActivityStore owns the ordered activity log and is the only writer of its
// blob. A mutation is committed in memory only after the blob write
// succeeds, so a failed write leaves the previous log in place.
type ActivityStore struct {
	mu         sync.RWMutex
	blob       Blob
	clock      clock.Clock
	logger     *slog.Logger
	activities []model.Activity
	lastID     int64
	onChange   func()
}

func NewActivityStore(blob Blob, clk clock.Clock, logger *slog.Logger) *ActivityStore {
	return &ActivityStore{blob: blob, clock: clk, logger: logger}
}

// OnChange registers fn to run after every successful mutation. fn runs
// synchronously on the mutating goroutine, after the store lock is released.
func (s *ActivityStore) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Load replaces the in-memory log with the persisted one. A missing,
// unreadable or malformed blob leaves the store empty; the problem is logged
// and never returned.
func (s *ActivityStore) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.activities = nil
	s.lastID = 0
	defer func() { observability.SetActivityCount(len(s.activities)) }()

	raw, ok, err := s.blob.Get(ActivitiesKey)
	if err != nil {
		s.logger.Warn("read stored activities, starting empty", "error", err)
		observability.RecordStoreOp("load", err)
		return
	}
	if !ok || raw == "" {
		return
	}

	var loaded []model.Activity
	if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
		s.logger.Warn("stored activities are malformed, starting empty", "error", err)
		observability.RecordStoreOp("load", err)
		return
	}

	s.activities = loaded
	s.lastID = maxID(loaded)
	s.logger.Info("loaded activities", "count", len(loaded))
	observability.RecordStoreOp("load", nil)
}

// Add validates a, assigns its ID and creation time, appends it and persists
// the log.
func (s *ActivityStore) Add(a model.Activity) (model.Activity, error) {
	s.mu.Lock()
	now := s.clock.Now()
	if err := a.Validate(model.DateOf(now)); err != nil {
		s.mu.Unlock()
		return model.Activity{}, err
	}

	a.ID = max(s.lastID+1, now.UnixMilli())
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now.UTC()
	}

	next := append(slices.Clone(s.activities), a)
	if err := s.commit(next); err != nil {
		s.mu.Unlock()
		observability.RecordStoreOp("add", err)
		return model.Activity{}, fmt.Errorf("add activity: %w", err)
	}
	s.lastID = a.ID
	s.mu.Unlock()

	observability.RecordStoreOp("add", nil)
	s.changed()
	return a, nil
}

// Delete removes the activity with the given id. It returns ErrNotFound
// without touching storage when no such activity exists.
func (s *ActivityStore) Delete(id int64) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}

	next := slices.Delete(slices.Clone(s.activities), i, i+1)
	if err := s.commit(next); err != nil {
		s.mu.Unlock()
		observability.RecordStoreOp("delete", err)
		return fmt.Errorf("delete activity %d: %w", id, err)
	}
	s.mu.Unlock()

	observability.RecordStoreOp("delete", nil)
	s.changed()
	return nil
}

// Update merges p into the activity with the given id and persists the log.
// The merged record must still satisfy the activity invariants.
func (s *ActivityStore) Update(id int64, p model.Patch) (model.Activity, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return model.Activity{}, ErrNotFound
	}

	current := s.activities[i]
	merged := p.Apply(current)
	merged.ID = current.ID
	merged.CreatedAt = current.CreatedAt
	if err := merged.Validate(s.clock.Today()); err != nil {
		s.mu.Unlock()
		return model.Activity{}, err
	}

	next := slices.Clone(s.activities)
	next[i] = merged
	if err := s.commit(next); err != nil {
		s.mu.Unlock()
		observability.RecordStoreOp("update", err)
		return model.Activity{}, fmt.Errorf("update activity %d: %w", id, err)
	}
	s.mu.Unlock()

	observability.RecordStoreOp("update", nil)
	s.changed()
	return merged, nil
}

// Clear removes every activity. IDs keep increasing afterwards.
func (s *ActivityStore) Clear() error {
	s.mu.Lock()
	if err := s.commit([]model.Activity{}); err != nil {
		s.mu.Unlock()
		observability.RecordStoreOp("clear", err)
		return fmt.Errorf("clear activities: %w", err)
	}
	s.mu.Unlock()

	observability.RecordStoreOp("clear", nil)
	s.changed()
	return nil
}

// Replace swaps the whole log for records, as when restoring a backup.
func (s *ActivityStore) Replace(records []model.Activity) error {
	s.mu.Lock()
	if err := s.commit(slices.Clone(records)); err != nil {
		s.mu.Unlock()
		observability.RecordStoreOp("replace", err)
		return fmt.Errorf("replace activities: %w", err)
	}
	s.lastID = max(s.lastID, maxID(records))
	s.mu.Unlock()

	observability.RecordStoreOp("replace", nil)
	s.changed()
	return nil
}

// All returns a copy of the log in insertion order.
func (s *ActivityStore) All() []model.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.activities)
}

func (s *ActivityStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.activities)
}

func (s *ActivityStore) GetByID(id int64) (model.Activity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.activities[i], true
	}
	return model.Activity{}, false
}

// ByCategory returns the activities in category, or all of them for
// model.CategoryAll.
func (s *ActivityStore) ByCategory(category string) []model.Activity {
	if category == model.CategoryAll {
		return s.All()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Activity
	for _, a := range s.activities {
		if string(a.Category) == category {
			out = append(out, a)
		}
	}
	return out
}

// commit persists next and, on success, makes it the current log. Callers
// hold the write lock.
func (s *ActivityStore) commit(next []model.Activity) error {
	if next == nil {
		next = []model.Activity{}
	}
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode activities: %w", err)
	}
	if err := s.blob.Set(ActivitiesKey, string(data)); err != nil {
		return fmt.Errorf("save activities: %w", err)
	}
	s.activities = next
	observability.SetActivityCount(len(next))
	return nil
}

func (s *ActivityStore) changed() {
	s.mu.RLock()
	fn := s.onChange
	s.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

func (s *ActivityStore) indexOf(id int64) int {
	return slices.IndexFunc(s.activities, func(a model.Activity) bool { return a.ID == id })
}

func maxID(records []model.Activity) int64 {
	var id int64
	for _, r := range records {
		id = max(id, r.ID)
	}
	return id
}

// SortByDateDesc returns a copy of records ordered newest date first. Records
// on the same date keep their relative order.
func SortByDateDesc(records []model.Activity) []model.Activity {
	out := slices.Clone(records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}
