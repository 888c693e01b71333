package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/glanceworks/glanced/internal/domain"
	"github.com/glanceworks/glanced/internal/ports"
)

// Default scheduling values, applied when a RuntimeConfig field is zero.
const (
	DefaultUpdateInterval = 60 * time.Second
	DefaultMaxErrors      = 5

	// DefaultErrorBackoff is the fixed wait after a failed fetch cycle,
	// independent of the update interval, so a failing source is not
	// hammered.
	DefaultErrorBackoff = 30 * time.Second

	// DefaultSleepCeiling bounds the sleep between loop checks so Stop()
	// is observed promptly even when the update interval is long.
	DefaultSleepCeiling = 10 * time.Second
)

// RuntimeConfig configures one source runtime's scheduling behavior.
type RuntimeConfig struct {
	// Enabled gates the runtime; Start() on a disabled runtime is a no-op.
	Enabled bool

	// UpdateInterval is the target spacing between fetch cycles.
	UpdateInterval time.Duration

	// MaxErrors is the number of consecutive fetch failures after which
	// the runtime fail-stops.
	MaxErrors int

	// ErrorBackoff is the fixed wait after a failed fetch cycle.
	ErrorBackoff time.Duration

	// SleepCeiling bounds the per-iteration sleep.
	SleepCeiling time.Duration
}

// SetDefaults fills zero fields with default values.
func (c *RuntimeConfig) SetDefaults() {
	if c.UpdateInterval <= 0 {
		c.UpdateInterval = DefaultUpdateInterval
	}
	if c.MaxErrors <= 0 {
		c.MaxErrors = DefaultMaxErrors
	}
	if c.ErrorBackoff <= 0 {
		c.ErrorBackoff = DefaultErrorBackoff
	}
	if c.SleepCeiling <= 0 {
		c.SleepCeiling = DefaultSleepCeiling
	}
}

// Status is a point-in-time snapshot of a source runtime.
type Status struct {
	Name           string
	Enabled        bool
	Running        bool
	LastUpdate     time.Time
	ErrorCount     int
	RecordCount    int
	UpdateInterval time.Duration
}

// Runtime wraps one data-producing capability behind a uniform lifecycle:
// an independent cooperative polling loop with fail-stop on repeated
// errors, a supersession-keyed record store with TTL pruning, and listener
// fan-out.
//
// A Runtime runs its loop on its own goroutine. Record reads and Status()
// are safe to call concurrently with the loop. Once stopped, whether
// explicitly or by fail-stop, a Runtime never restarts; create a fresh
// instance instead.
type Runtime struct {
	name       string
	cfg        RuntimeConfig
	capability ports.Capability
	store      *recordStore
	listeners  *listenerRegistry
	logger     ports.Logger

	// now is the clock; replaced in tests.
	now func() time.Time

	mu         sync.Mutex
	running    bool
	started    bool
	stopped    bool
	lastUpdate time.Time
	errCount   int

	stopCh  chan struct{}
	doneCh  chan struct{}
	stopper sync.Once
	cleaner sync.Once
}

// NewRuntime creates a runtime around the given capability.
func NewRuntime(capability ports.Capability, cfg RuntimeConfig, logger ports.Logger) *Runtime {
	cfg.SetDefaults()
	name := capability.Name()
	return &Runtime{
		name:       name,
		cfg:        cfg,
		capability: capability,
		store:      newRecordStore(),
		listeners:  newListenerRegistry(name, logger),
		logger:     logger,
		now:        time.Now,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Name returns the source name.
func (r *Runtime) Name() string {
	return r.name
}

// Initialize performs the capability's one-time setup. It is not retried;
// the caller decides whether to abort or retry at a higher level.
func (r *Runtime) Initialize(ctx context.Context) error {
	r.logger.Info("initializing source", ports.String("source", r.name))
	if err := r.capability.Initialize(ctx); err != nil {
		r.logger.Error("source initialization failed",
			ports.String("source", r.name),
			ports.Err(err),
		)
		return fmt.Errorf("%w: %s: %w", domain.ErrInitFailed, r.name, err)
	}
	return nil
}

// Subscribe registers a listener for every record the runtime accepts.
// Subscribe before Start; the registry is not safe to grow while the
// loop is delivering.
func (r *Runtime) Subscribe(fn Listener) {
	r.listeners.subscribe(fn)
}

// Start launches the scheduling loop. It is a no-op when the runtime is
// disabled, already running, or already stopped.
func (r *Runtime) Start(ctx context.Context) {
	if !r.cfg.Enabled {
		r.logger.Info("source disabled, not starting", ports.String("source", r.name))
		return
	}

	r.mu.Lock()
	if r.started || r.stopped {
		r.mu.Unlock()
		r.logger.Debug("start ignored", ports.String("source", r.name))
		return
	}
	r.started = true
	r.running = true
	r.mu.Unlock()

	r.logger.Info("starting source",
		ports.String("source", r.name),
		ports.Duration("interval", r.cfg.UpdateInterval),
	)
	go r.loop(ctx)
}

// Stop requests the loop to exit, waits for it, then runs the capability's
// cleanup hook. Idempotent; cleanup runs at most once.
func (r *Runtime) Stop(ctx context.Context) {
	r.stopper.Do(func() {
		close(r.stopCh)
	})

	r.mu.Lock()
	wasStarted := r.started
	r.running = false
	r.stopped = true
	r.mu.Unlock()

	if wasStarted {
		<-r.doneCh
	}

	r.cleaner.Do(func() {
		r.logger.Info("stopping source", ports.String("source", r.name))
		if err := r.capability.Cleanup(ctx); err != nil {
			r.logger.Error("source cleanup failed",
				ports.String("source", r.name),
				ports.Err(err),
			)
		}
	})
}

// AddRecord applies the supersession invariant and fans the record out to
// listeners. Source and creation time default to the runtime's name and
// current time when unset. Never fails.
func (r *Runtime) AddRecord(rec domain.Record) {
	if rec.Source == "" {
		rec.Source = r.name
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = r.now()
	}

	r.store.put(rec)
	r.listeners.notify(rec)
}

// CurrentRecords returns the live, non-expired records, optionally
// filtered by kind (empty kind matches all).
func (r *Runtime) CurrentRecords(kind string) []domain.Record {
	return r.store.snapshot(r.now(), kind)
}

// LatestRecord returns the most recent non-expired record of the given
// kind, or false if none is live.
func (r *Runtime) LatestRecord(kind string) (domain.Record, bool) {
	return r.store.latest(r.now(), kind)
}

// Status returns a snapshot of the runtime's scheduling state.
func (r *Runtime) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Status{
		Name:           r.name,
		Enabled:        r.cfg.Enabled,
		Running:        r.running,
		LastUpdate:     r.lastUpdate,
		ErrorCount:     r.errCount,
		RecordCount:    r.store.size(),
		UpdateInterval: r.cfg.UpdateInterval,
	}
}

// loop is the scheduling loop: fetch when due, supersede, fan out, prune,
// sleep. Fetch failures are counted; reaching MaxErrors fail-stops the
// source permanently rather than crashing the process or retrying forever.
func (r *Runtime) loop(ctx context.Context) {
	defer close(r.doneCh)

	for {
		now := r.now()
		if r.due(now) {
			if err := r.capability.FetchOnce(ctx, r); err != nil {
				count := r.recordFailure()
				r.logger.Error("fetch failed",
					ports.String("source", r.name),
					ports.Int("consecutive_errors", count),
					ports.Err(fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)),
				)

				if count >= r.cfg.MaxErrors {
					r.logger.Error("max errors reached, stopping source",
						ports.String("source", r.name),
						ports.Int("max_errors", r.cfg.MaxErrors),
					)
					r.failStop()
					return
				}

				if !r.sleep(ctx, r.cfg.ErrorBackoff) {
					r.markNotRunning()
					return
				}
				continue
			}
			r.recordSuccess(now)
		}

		r.store.prune(r.now())

		interval := r.cfg.UpdateInterval
		if interval > r.cfg.SleepCeiling {
			interval = r.cfg.SleepCeiling
		}
		if !r.sleep(ctx, interval) {
			r.markNotRunning()
			return
		}
	}
}

// due reports whether a fetch cycle should run at now.
func (r *Runtime) due(now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastUpdate.IsZero() {
		return true
	}
	return now.Sub(r.lastUpdate) >= r.cfg.UpdateInterval
}

func (r *Runtime) recordSuccess(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastUpdate = now
	r.errCount = 0
}

func (r *Runtime) recordFailure() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errCount++
	return r.errCount
}

func (r *Runtime) failStop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = false
	r.stopped = true
}

func (r *Runtime) markNotRunning() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = false
}

// sleep waits for d, returning false if a stop was requested or the
// context was canceled before the wait elapsed. Stop latency is therefore
// bounded by the smaller of the update interval and the sleep ceiling.
func (r *Runtime) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-r.stopCh:
		return false
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
