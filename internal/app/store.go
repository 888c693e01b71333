package app

import (
	"sync"
	"time"

	"github.com/glanceworks/glanced/internal/domain"
)

// recordStore holds the current records of one source runtime, keyed by
// (source, kind) so supersession is O(1). The owning loop is the only
// writer; reads take snapshots and may run concurrently with the loop.
//
// Expiry is evaluated at read time: an expired record is never returned,
// even if it is still physically present until the next pruning pass.
type recordStore struct {
	mu      sync.RWMutex
	records map[domain.Key]domain.Record
	order   []domain.Key // insertion order, oldest first
}

func newRecordStore() *recordStore {
	return &recordStore{
		records: make(map[domain.Key]domain.Record),
	}
}

// put inserts rec, removing any resident record with the same key first.
// Returns true if a record was superseded.
func (s *recordStore) put(rec domain.Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := rec.Key()
	_, superseded := s.records[key]
	if superseded {
		s.removeFromOrder(key)
	}
	s.records[key] = rec
	s.order = append(s.order, key)
	return superseded
}

// prune removes all records whose expiry has passed. Returns the number
// of records removed.
func (s *recordStore) prune(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, rec := range s.records {
		if rec.Expired(now) {
			delete(s.records, key)
			s.removeFromOrder(key)
			removed++
		}
	}
	return removed
}

// snapshot returns the live records in insertion order, excluding records
// expired at now. An empty kind matches all kinds.
func (s *recordStore) snapshot(now time.Time, kind string) []domain.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Record, 0, len(s.order))
	for _, key := range s.order {
		rec, ok := s.records[key]
		if !ok {
			continue
		}
		if kind != "" && rec.Kind != kind {
			continue
		}
		if rec.Expired(now) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// latest returns the most recent non-expired record of the given kind,
// picking the maximum CreatedAt. Ties break toward the later insertion;
// supersession keeps at most one record per kind resident, so ties cannot
// occur in practice, but the rule is fixed here regardless.
func (s *recordStore) latest(now time.Time, kind string) (domain.Record, bool) {
	matches := s.snapshot(now, kind)
	if len(matches) == 0 {
		return domain.Record{}, false
	}

	best := matches[0]
	for _, rec := range matches[1:] {
		if !rec.CreatedAt.Before(best.CreatedAt) {
			best = rec
		}
	}
	return best, true
}

// size returns the number of physically resident records, including any
// expired records not yet pruned.
func (s *recordStore) size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// removeFromOrder drops key from the insertion order. Caller holds mu.
func (s *recordStore) removeFromOrder(key domain.Key) {
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
