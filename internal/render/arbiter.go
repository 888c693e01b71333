// Package render implements the single-writer render arbiter: the one
// component allowed to paint the display. It owns the "what is on screen
// now" slot, serializes show/clear requests, and guards timed
// presentations with a generation counter so a stale auto-clear can never
// erase newer content.
package render

import (
	"fmt"
	"sync"
	"time"

	"github.com/glanceworks/glanced/internal/domain"
	"github.com/glanceworks/glanced/internal/ports"
)

// Config carries the display geometry and limits the arbiter needs.
type Config struct {
	WidthPx  int
	HeightPx int
}

// Arbiter serializes all requests to show content on the display and
// enforces at-most-one active timed presentation.
//
// Every mutation of the slot increments the generation counter. An
// auto-clear timer captures the generation it was armed for and becomes a
// no-op if the slot has moved on by the time it fires; a new Show does not
// need to synchronously cancel a live timer to win the race.
type Arbiter struct {
	sink   ports.Sink
	cfg    Config
	logger ports.Logger

	mu         sync.Mutex
	generation uint64
	active     *domain.Content
	timer      *time.Timer
	released   bool
}

// NewArbiter creates an arbiter painting into sink. The arbiter assumes
// exclusive ownership of the sink; no other component may paint directly.
func NewArbiter(sink ports.Sink, cfg Config, logger ports.Logger) *Arbiter {
	return &Arbiter{
		sink:   sink,
		cfg:    cfg,
		logger: logger,
	}
}

// Show replaces whatever is currently displayed with content,
// unconditionally preempting any prior presentation and its pending
// auto-clear. A positive duration arms an auto-clear that blanks the
// display once elapsed, unless a newer request has superseded it.
//
// The logical slot is updated before the paint is attempted, so a
// transient sink failure does not desynchronize subsequent requests; the
// error is still surfaced to the caller.
func (a *Arbiter) Show(content domain.Content, duration time.Duration) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.generation++
	gen := a.generation
	a.disarmLocked()

	c := content
	a.active = &c
	if duration > 0 {
		a.timer = time.AfterFunc(duration, func() { a.autoClear(gen) })
	}

	if err := a.sink.Paint(content.Lines, content.Layout); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrRenderFailed, err)
	}
	return nil
}

// Clear immediately blanks the display and invalidates any pending
// auto-clear.
func (a *Arbiter) Clear() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.clearLocked()
}

// SetBrightness clamps level to the device range and forwards it to the
// sink. Independent of the content slot: neither the generation nor the
// active content is touched.
func (a *Arbiter) SetBrightness(level int) error {
	if level < 0 {
		level = 0
	}
	if level > 255 {
		level = 255
	}
	if err := a.sink.SetContrast(uint8(level)); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrRenderFailed, err)
	}
	return nil
}

// Shutdown cancels any pending timer, clears the slot and releases the
// sink. The arbiter is unusable afterwards.
func (a *Arbiter) Shutdown() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.released {
		return nil
	}
	a.released = true

	if err := a.clearLocked(); err != nil {
		a.logger.Warn("clear on shutdown failed", ports.Err(err))
	}
	if err := a.sink.Release(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrRenderFailed, err)
	}
	return nil
}

// Active returns the currently displayed content, or false when the slot
// is cleared.
func (a *Arbiter) Active() (domain.Content, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.active == nil {
		return domain.Content{}, false
	}
	return *a.active, true
}

// autoClear is the timer callback for the presentation armed at gen. If
// the slot has been mutated since, the timer is stale and must not erase
// the newer content.
func (a *Arbiter) autoClear(gen uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.generation != gen {
		a.logger.Debug("stale auto-clear ignored",
			ports.Uint64("armed_generation", gen),
			ports.Uint64("current_generation", a.generation),
		)
		return
	}
	if err := a.clearLocked(); err != nil {
		a.logger.Error("auto-clear paint failed", ports.Err(err))
	}
}

// clearLocked blanks the slot and the display. Caller holds mu.
func (a *Arbiter) clearLocked() error {
	a.generation++
	a.disarmLocked()
	a.active = nil

	if err := a.sink.Clear(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrRenderFailed, err)
	}
	return nil
}

// disarmLocked stops a pending timer if any. The generation guard makes
// this best-effort: a timer that already fired resolves as stale.
func (a *Arbiter) disarmLocked() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}
