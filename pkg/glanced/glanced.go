package glanced

import (
	"context"
	"fmt"
	"sync"
	"time"

	logAdapter "github.com/glanceworks/glanced/internal/adapters/log"
	"github.com/glanceworks/glanced/internal/adapters/oled"
	"github.com/glanceworks/glanced/internal/adapters/sim"
	"github.com/glanceworks/glanced/internal/app"
	"github.com/glanceworks/glanced/internal/domain"
	"github.com/glanceworks/glanced/internal/ports"
	"github.com/glanceworks/glanced/internal/render"
)

// Device is the on-device runtime: a set of polling data sources and the
// render arbiter that owns the display. Use New() to create an instance,
// then Start() to bring the sources up.
type Device struct {
	config    Config
	opts      options
	lifecycle *app.Lifecycle
	arbiter   *render.Arbiter
	runtimes  []*app.Runtime
	byName    map[string]*app.Runtime
	logger    ports.Logger

	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new Device with the given configuration.
// The instance is created in StateStopped; call Start() to bring it up.
// Without WithSink, New opens the hardware panel (or a simulated one when
// cfg.Simulate is set), so it can fail on I²C errors.
func New(cfg Config, opts ...Option) (*Device, error) {
	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var logger ports.Logger
	if o.logger != nil {
		logger = o.logger
	} else {
		logger = logAdapter.NewNoopLogger()
	}

	sink := o.sink
	if sink == nil {
		if cfg.Simulate {
			sink = sim.New(cfg.Display.WidthPx, cfg.Display.HeightPx, logger)
		} else {
			var err error
			sink, err = oled.New(oled.Config{
				Bus:      cfg.Display.I2CBus,
				Width:    cfg.Display.WidthPx,
				Height:   cfg.Display.HeightPx,
				Rotation: cfg.Display.RotationDegrees,
			}, logger)
			if err != nil {
				return nil, err
			}
		}
	}

	arbiter := render.NewArbiter(sink, render.Config{
		WidthPx:  cfg.Display.WidthPx,
		HeightPx: cfg.Display.HeightPx,
	}, logger)

	d := &Device{
		config:    cfg,
		opts:      o,
		lifecycle: app.NewLifecycle(logger),
		arbiter:   arbiter,
		byName:    make(map[string]*app.Runtime),
		logger:    logger,
	}

	for _, src := range o.sources {
		rt := app.NewRuntime(src.capability, app.RuntimeConfig{
			Enabled:        src.cfg.Enabled,
			UpdateInterval: src.cfg.UpdateInterval,
			MaxErrors:      src.cfg.MaxErrors,
			ErrorBackoff:   src.cfg.ErrorBackoff,
		}, logger)
		if _, dup := d.byName[rt.Name()]; dup {
			return nil, fmt.Errorf("%w: duplicate source %q",
				domain.ErrInvalidConfig, rt.Name())
		}
		d.runtimes = append(d.runtimes, rt)
		d.byName[rt.Name()] = rt
	}

	return d, nil
}

// Subscribe registers a listener for every record the named source
// accepts. Must be called before Start.
func (d *Device) Subscribe(source string, fn Listener) error {
	rt, ok := d.byName[source]
	if !ok {
		return fmt.Errorf("%w: unknown source %q", domain.ErrInvalidConfig, source)
	}
	rt.Subscribe(fn)
	return nil
}

// Start initializes and launches the registered sources in the background.
// Returns immediately once all enabled source loops are running.
// Returns an error if already running or if a source fails to initialize;
// on initialization failure the device transitions to StateCrashed and no
// source loops are left running.
func (d *Device) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.lifecycle.CanStart() {
		return domain.ErrAlreadyRunning
	}
	if err := d.lifecycle.TransitionTo(app.DeviceStarting, "Start() called"); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.ctx = runCtx
	d.cancel = cancel
	d.lifecycle.SetCancel(cancel)

	if err := d.arbiter.SetBrightness(d.config.Display.Brightness); err != nil {
		d.logger.Warn("initial brightness not applied", ports.Err(err))
	}

	for i, rt := range d.runtimes {
		if err := rt.Initialize(runCtx); err != nil {
			cancel()
			// Sources before this one initialized successfully; run their
			// cleanup hooks so a partial start does not leak resources.
			for _, prev := range d.runtimes[:i] {
				prev.Stop(context.Background())
			}
			_ = d.lifecycle.TransitionTo(app.DeviceCrashed, "source init failed: "+rt.Name())
			return err
		}
	}

	if d.config.SplashDuration > 0 {
		splash := CenteredText("glanced", "starting...")
		if err := d.arbiter.Show(splash, d.config.SplashDuration); err != nil {
			d.logger.Warn("splash not shown", ports.Err(err))
		}
	}

	for _, rt := range d.runtimes {
		rt.Start(runCtx)
	}

	if err := d.lifecycle.TransitionTo(app.DeviceRunning, "sources started"); err != nil {
		return err
	}
	return nil
}

// Stop gracefully shuts the device down: stops every source loop, runs
// their cleanup hooks in parallel, then clears and releases the display.
// Returns ErrShutdownTimeout if the sources do not stop in time; the
// display is released either way.
func (d *Device) Stop() error {
	d.mu.Lock()

	if !d.lifecycle.CanStop() {
		d.mu.Unlock()
		return domain.ErrNotRunning
	}
	if err := d.lifecycle.TransitionTo(app.DeviceStopping, "Stop() called"); err != nil {
		d.mu.Unlock()
		return err
	}
	if d.cancel != nil {
		d.cancel()
	}
	d.mu.Unlock()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), app.ShutdownTimeout)
	defer stopCancel()

	for _, rt := range d.runtimes {
		d.lifecycle.AddWorker()
		go func(rt *app.Runtime) {
			defer d.lifecycle.WorkerDone()
			rt.Stop(stopCtx)
		}(rt)
	}
	err := d.lifecycle.WaitWithTimeout(app.ShutdownTimeout)

	if shutdownErr := d.arbiter.Shutdown(); shutdownErr != nil {
		d.logger.Error("display release failed", ports.Err(shutdownErr))
		if err == nil {
			err = shutdownErr
		}
	}

	if err != nil {
		_ = d.lifecycle.TransitionTo(app.DeviceCrashed, "shutdown timeout")
	} else {
		_ = d.lifecycle.TransitionTo(app.DeviceStopped, "graceful shutdown")
	}
	return err
}

// Show replaces whatever is on the display with content. A positive
// duration arms an auto-clear; a later Show or Clear supersedes it, and a
// superseded auto-clear never blanks the newer content.
func (d *Device) Show(content Content, duration time.Duration) error {
	return d.arbiter.Show(content, duration)
}

// Clear immediately blanks the display.
func (d *Device) Clear() error {
	return d.arbiter.Clear()
}

// SetBrightness adjusts the panel brightness. Values outside 0-255 are
// clamped. The displayed content is unaffected.
func (d *Device) SetBrightness(level int) error {
	return d.arbiter.SetBrightness(level)
}

// Active returns the content currently on the display, or false when it
// is blank.
func (d *Device) Active() (Content, bool) {
	return d.arbiter.Active()
}

// Status returns the current lifecycle state.
// Safe to call concurrently from any goroutine.
func (d *Device) Status() State {
	return d.lifecycle.State()
}

// SourceStatuses returns a snapshot of every registered source, in
// registration order.
func (d *Device) SourceStatuses() []SourceStatus {
	statuses := make([]SourceStatus, 0, len(d.runtimes))
	for _, rt := range d.runtimes {
		statuses = append(statuses, rt.Status())
	}
	return statuses
}

// LatestRecord returns the most recent live record of the given kind from
// the named source.
func (d *Device) LatestRecord(source, kind string) (Record, bool) {
	rt, ok := d.byName[source]
	if !ok {
		return Record{}, false
	}
	return rt.LatestRecord(kind)
}
