// Package store holds the assembled transaction dataset for the lifetime of
// the process.
//
// The dataset is built once at startup and handed to New. After that it is
// read-mostly: UpdateStatus and AttachAnalysis are the only writes, and both
// take the write lock, so concurrent verdicts on the same id serialise.
// Every read returns copies, so callers may sort or modify results freely.
package store

import (
	"errors"
	"sort"
	"sync"

	"tguardian/monitor-api/internal/domain"
)

// ErrNotFound is returned when no record has the requested transaction id.
var ErrNotFound = errors.New("transaction not found")

// ErrInvalidStatus is returned by SetStatus for a value outside the four verdict states.
var ErrInvalidStatus = errors.New("invalid status")

// Store is a thread-safe in-memory dataset plus the dashboard settings.
type Store struct {
	mu sync.RWMutex

	records []domain.TransactionRecord // insertion order
	byID    map[string]int             // Transaction_ID → index into records

	notifications domain.NotificationSettings
	detection     domain.DetectionSettings
}

// New creates a Store over a copy of records. Settings start at their defaults.
// Later duplicates of an id are ignored for lookups but kept in All.
func New(records []domain.TransactionRecord) *Store {
	s := &Store{
		records:       make([]domain.TransactionRecord, len(records)),
		byID:          make(map[string]int, len(records)),
		notifications: DefaultNotificationSettings(),
		detection:     DefaultDetectionSettings(),
	}
	for i, r := range records {
		s.records[i] = r.Clone()
		if _, dup := s.byID[r.TransactionID]; !dup {
			s.byID[r.TransactionID] = i
		}
	}
	return s
}

// ─── Reads ────────────────────────────────────────────────────────────────────

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// All returns every record in insertion order.
func (s *Store) All() []domain.TransactionRecord {
	return s.ByStatus(nil)
}

// Get retrieves a single record by transaction id.
func (s *Store) Get(id string) (domain.TransactionRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return domain.TransactionRecord{}, false
	}
	return s.records[i].Clone(), true
}

// ByStatus returns, in insertion order, the records for which keep returns
// true. A nil predicate keeps everything.
func (s *Store) ByStatus(keep func(domain.TransactionRecord) bool) []domain.TransactionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.TransactionRecord, 0, len(s.records))
	for _, r := range s.records {
		if keep == nil || keep(r) {
			out = append(out, r.Clone())
		}
	}
	return out
}

// SortedByScoreDesc returns every record ordered by ensemble score, highest
// first. Equal scores keep insertion order.
func (s *Store) SortedByScoreDesc() []domain.TransactionRecord {
	out := s.All()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EnsembleScore > out[j].EnsembleScore
	})
	return out
}

// ─── Writes ───────────────────────────────────────────────────────────────────

// UpdateStatus replaces the status of one record and leaves every other field
// alone. It reports false if the id is unknown.
func (s *Store) UpdateStatus(id, status string) (domain.TransactionRecord, bool) {
	_, rec, err := s.SetStatus(id, status)
	if err != nil {
		return domain.TransactionRecord{}, false
	}
	return rec, true
}

// SetStatus is UpdateStatus that also returns the status it replaced, so the
// caller can record the transition without a second, racy read.
func (s *Store) SetStatus(id, status string) (previous string, updated domain.TransactionRecord, err error) {
	if !domain.ValidStatus(status) {
		return "", domain.TransactionRecord{}, ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.byID[id]
	if !ok {
		return "", domain.TransactionRecord{}, ErrNotFound
	}
	previous = s.records[i].Status
	s.records[i].Status = status
	return previous, s.records[i].Clone(), nil
}

// AttachAnalysis stores text as the record's llm_analysis. No other field changes.
func (s *Store) AttachAnalysis(id, text string) (domain.TransactionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.byID[id]
	if !ok {
		return domain.TransactionRecord{}, ErrNotFound
	}
	s.records[i].LLMAnalysis = &text
	return s.records[i].Clone(), nil
}
