package app

import (
	"fmt"
	"testing"
	"time"

	"github.com/glanceworks/glanced/internal/domain"
)

func rec(source, kind string, created time.Time, expires time.Time) domain.Record {
	return domain.Record{
		Source:    source,
		Kind:      kind,
		Payload:   kind + "-payload",
		CreatedAt: created,
		Priority:  5,
		ExpiresAt: expires,
	}
}

func TestRecordStore_Supersession(t *testing.T) {
	s := newRecordStore()
	now := time.Now()

	for i := 0; i < 5; i++ {
		superseded := s.put(rec("clock", "time", now.Add(time.Duration(i)*time.Second), time.Time{}))
		if (i == 0) == superseded {
			t.Errorf("put #%d: superseded = %v", i, superseded)
		}
	}

	if got := len(s.snapshot(now, "time")); got != 1 {
		t.Fatalf("record count for kind = %d, want 1", got)
	}

	latest, ok := s.latest(now, "time")
	if !ok {
		t.Fatal("latest returned no record")
	}
	if want := now.Add(4 * time.Second); !latest.CreatedAt.Equal(want) {
		t.Errorf("latest.CreatedAt = %v, want %v", latest.CreatedAt, want)
	}
}

func TestRecordStore_SupersessionKeyedBySourceAndKind(t *testing.T) {
	s := newRecordStore()
	now := time.Now()

	s.put(rec("clock", "time", now, time.Time{}))
	s.put(rec("clock", "date", now, time.Time{}))
	s.put(rec("sysmon", "time", now, time.Time{}))

	if got := len(s.snapshot(now, "")); got != 3 {
		t.Errorf("snapshot size = %d, want 3 (distinct keys must coexist)", got)
	}
}

func TestRecordStore_PruneExpired(t *testing.T) {
	s := newRecordStore()
	now := time.Now()

	s.put(rec("clock", "time", now, now.Add(time.Minute)))
	s.put(rec("clock", "date", now, now.Add(-time.Second)))
	s.put(rec("clock", "display-text", now, time.Time{}))

	removed := s.prune(now)
	if removed != 1 {
		t.Errorf("prune removed = %d, want 1", removed)
	}
	if got := len(s.snapshot(now, "")); got != 2 {
		t.Errorf("snapshot size after prune = %d, want 2", got)
	}
}

func TestRecordStore_ExpiredExcludedBeforePrune(t *testing.T) {
	s := newRecordStore()
	now := time.Now()

	s.put(rec("clock", "time", now, now.Add(50*time.Millisecond)))

	// Physically present, logically expired.
	later := now.Add(time.Second)
	if got := len(s.snapshot(later, "")); got != 0 {
		t.Errorf("snapshot at later = %d records, want 0", got)
	}
	if _, ok := s.latest(later, "time"); ok {
		t.Error("latest returned an expired record")
	}
	if s.size() != 1 {
		t.Errorf("size = %d, want 1 (expired record still resident until prune)", s.size())
	}
}

func TestRecordStore_LatestTieBreaksTowardLastInserted(t *testing.T) {
	s := newRecordStore()
	now := time.Now()

	// Same kind from two sources with identical timestamps.
	for i := 0; i < 3; i++ {
		s.put(rec(fmt.Sprintf("src%d", i), "status", now, time.Time{}))
	}

	latest, ok := s.latest(now, "status")
	if !ok {
		t.Fatal("latest returned no record")
	}
	if latest.Source != "src2" {
		t.Errorf("latest.Source = %s, want src2 (last inserted wins on ties)", latest.Source)
	}
}

func TestRecordStore_SnapshotFiltersByKind(t *testing.T) {
	s := newRecordStore()
	now := time.Now()

	s.put(rec("clock", "time", now, time.Time{}))
	s.put(rec("clock", "date", now, time.Time{}))

	got := s.snapshot(now, "date")
	if len(got) != 1 || got[0].Kind != "date" {
		t.Errorf("snapshot(kind=date) = %v, want exactly the date record", got)
	}
}
