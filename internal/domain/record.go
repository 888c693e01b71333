package domain

import (
	"fmt"
	"time"
)

// Record is one datum produced by a source. Records are immutable after
// construction; an update is modeled as a new Record that supersedes the
// previous one with the same (Source, Kind).
type Record struct {
	// Source identifies the producing source runtime.
	Source string

	// Kind distinguishes logical data types within one source,
	// e.g. "time", "date", "display-text".
	Kind string

	// Payload is an opaque value whose semantics are owned by the producer.
	Payload any

	// CreatedAt is the production timestamp.
	CreatedAt time.Time

	// Priority orders records for callers that arbitrate between them.
	// Lower is more urgent.
	Priority int

	// ExpiresAt, when non-zero, is the wall-clock instant after which the
	// record must no longer be returned from lookups.
	ExpiresAt time.Time
}

// Key identifies the supersession slot a record occupies. At most one
// record per Key is resident in a store at any time.
type Key struct {
	Source string
	Kind   string
}

// Key returns the supersession key for the record.
func (r Record) Key() Key {
	return Key{Source: r.Source, Kind: r.Kind}
}

// ID returns a deterministic identifier derived from source, kind and
// creation time.
func (r Record) ID() string {
	return fmt.Sprintf("%s_%s_%d", r.Source, r.Kind, r.CreatedAt.Unix())
}

// Expired reports whether the record has passed its expiry at the given
// instant. Records without an expiry never expire.
func (r Record) Expired(now time.Time) bool {
	if r.ExpiresAt.IsZero() {
		return false
	}
	return now.After(r.ExpiresAt)
}
