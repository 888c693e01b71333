// Package app implements the source scheduling and data-lifecycle core:
// the Runtime polling loop with fail-stop, the supersession-keyed record
// store with TTL expiry, listener fan-out, and the device-level lifecycle
// state machine used by the public facade.
package app
