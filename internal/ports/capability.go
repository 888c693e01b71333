package ports

import (
	"context"

	"github.com/glanceworks/glanced/internal/domain"
)

// RecordWriter accepts records produced during a fetch step. The owning
// source runtime implements it; adding a record applies supersession and
// notifies listeners.
type RecordWriter interface {
	// AddRecord inserts a record, replacing any resident record with the
	// same (source, kind). It never fails.
	AddRecord(rec domain.Record)
}

// Capability is the contract a concrete data producer implements. It is
// the only extension point external producers need to satisfy; scheduling,
// storage, expiry and fan-out are handled by the owning runtime.
type Capability interface {
	// Name identifies the source. It becomes the Source field of every
	// record the capability produces.
	Name() string

	// Initialize performs source-specific setup (network handshake, sensor
	// bring-up). Called once before the update loop starts; not retried.
	Initialize(ctx context.Context) error

	// FetchOnce performs one data-gathering step, adding zero or more
	// records via out. A returned error counts toward the runtime's
	// fail-stop threshold.
	FetchOnce(ctx context.Context, out RecordWriter) error

	// Cleanup releases resources held by the capability. Called once when
	// the runtime stops.
	Cleanup(ctx context.Context) error
}
