// In-process append-only event log of Argus with filtered, paginated reads and
// windowed aggregate statistics. Appends are serialized, reads work on a
// snapshot and never observe a partially written event.

package event

import (
	"Argus/internal/entity"
	"Argus/internal/errors"
	"sort"
	"sync"
	"time"
)

// Store owns the event log. Events are immutable once appended and keep their
// storage-order position, only the administrative delete path removes them.
type Store struct {
	mu     sync.RWMutex
	events []entity.Event
}

// NewStore returns an empty event log.
func NewStore() *Store {
	return &Store{events: []entity.Event{}}
}

// Append adds the event at the end of the log.
func (s *Store) Append(e entity.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

// Get returns the event with the given id.
func (s *Store) Get(id string) (entity.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.events {
		if s.events[i].ID == id {
			return s.events[i], nil
		}
	}
	return entity.Event{}, errors.NotFound("Event not found")
}

// Delete removes the event with the given id from the log.
// Administrative path, not part of the live-delivery contract.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		if s.events[i].ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			return nil
		}
	}
	return errors.NotFound("Event not found")
}

// Query returns one page of the filtered log sorted newest-first, plus the
// filtered count before pagination. Filters form a conjunction, the sort order
// is total and stable: timestamp descending, ties broken by insertion order
// descending. An out-of-range page yields an empty slice.
func (s *Store) Query(search entity.EventSearch) ([]entity.Event, int64) {
	s.mu.RLock()
	// Walk the log backwards so that equal timestamps come out most recently
	// appended first after the stable sort below.
	filtered := []entity.Event{}
	for i := len(s.events) - 1; i >= 0; i-- {
		e := s.events[i]
		if search.Type != "" && e.Type != search.Type {
			continue
		}
		if search.CameraID != "" && e.CameraID != search.CameraID {
			continue
		}
		if !search.StartDate.IsZero() && e.Timestamp.Before(search.StartDate) {
			continue
		}
		if !search.EndDate.IsZero() && e.Timestamp.After(search.EndDate) {
			continue
		}
		filtered = append(filtered, e)
	}
	s.mu.RUnlock()

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Timestamp.After(filtered[j].Timestamp)
	})

	total := int64(len(filtered))
	start := (search.Page - 1) * search.Limit
	if start >= len(filtered) {
		return []entity.Event{}, total
	}
	end := start + search.Limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], total
}

// Stats computes the aggregate counters over the full unfiltered log.
// The four time windows are independent, an event can count in several.
func (s *Store) Stats(asOf time.Time) entity.EventSummary {
	dayStart := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, asOf.Location())
	weekStart := asOf.Add(-7 * 24 * time.Hour)
	monthStart := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, asOf.Location())

	summary := entity.EventSummary{
		ByType:   map[string]int64{},
		ByCamera: map[string]int64{},
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.events {
		e := s.events[i]
		summary.Total++
		if !e.Timestamp.Before(dayStart) {
			summary.Today++
		}
		if !e.Timestamp.Before(weekStart) {
			summary.ThisWeek++
		}
		if !e.Timestamp.Before(monthStart) {
			summary.ThisMonth++
		}
		summary.ByType[e.Type]++
		summary.ByCamera[e.CameraID]++
	}
	return summary
}
