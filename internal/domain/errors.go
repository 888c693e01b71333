package domain

import "errors"

// Domain errors represent error conditions in the glanced core.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrInitFailed is returned when a source capability fails its one-time
	// setup. Fatal to that source; never retried internally.
	ErrInitFailed = errors.New("glanced: source initialization failed")

	// ErrFetchFailed is returned when one update cycle fails. Recoverable;
	// counted toward the source's fail-stop threshold.
	ErrFetchFailed = errors.New("glanced: fetch failed")

	// ErrRenderFailed is returned when the hardware sink rejects a paint.
	// The arbiter's logical slot is already updated when this is returned.
	ErrRenderFailed = errors.New("glanced: render failed")

	// ErrAlreadyRunning is returned when Start() is called on a running device.
	ErrAlreadyRunning = errors.New("glanced: already running")

	// ErrNotRunning is returned when Stop() is called on a stopped device.
	ErrNotRunning = errors.New("glanced: not running")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("glanced: invalid configuration")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("glanced: shutdown timeout")
)
