package cliconfig

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/glanceworks/glanced/internal/ports"
)

// DefaultDebounceDelay is how long the watcher waits after a file change
// before reloading, so editors that write in several steps trigger one
// reload, not many.
const DefaultDebounceDelay = 200 * time.Millisecond

// Watcher monitors the config file and invokes a callback with the
// re-validated configuration after changes settle. It lets a running
// device apply a handful of settings (display brightness, source enables)
// without a restart.
type Watcher struct {
	path     string
	base     Config
	debounce time.Duration
	logger   ports.Logger
	onChange func(Config)
	changed  map[string]bool

	mu     sync.Mutex
	timer  *time.Timer
	fsw    *fsnotify.Watcher
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher creates a watcher for the config file at path. onChange is
// called from the watcher's goroutine with each successfully re-loaded
// and validated configuration.
//
// base is the effective configuration at startup and changed the set of
// flags the user set explicitly; reloads rebuild on top of base with the
// flag > env > file precedence intact, so a flag-pinned setting is never
// overwritten by a file edit.
func NewWatcher(path string, base Config, changed map[string]bool, onChange func(Config), logger ports.Logger) *Watcher {
	return &Watcher{
		path:     path,
		base:     base,
		debounce: DefaultDebounceDelay,
		logger:   logger,
		onChange: onChange,
		changed:  changed,
	}
}

// Start begins watching. The directory is watched rather than the file so
// rename-and-replace saves keep working.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.fsw = fsw
	w.cancel = cancel

	w.wg.Add(1)
	go w.run(runCtx)

	w.logger.Info("watching config file", ports.String("path", w.path))
	return nil
}

// Stop ends watching and waits for the watcher goroutine.
func (w *Watcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	if w.fsw != nil {
		w.fsw.Close()
	}
	w.wg.Wait()

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()
}

func (w *Watcher) run(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watch error", ports.Err(err))
		}
	}
}

// scheduleReload (re)arms the debounce timer.
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	fc, err := LoadFileConfig(w.path)
	if err != nil {
		w.logger.Warn("config reload failed", ports.Err(err))
		return
	}

	// Rebuild from the startup configuration so flag-pinned values (via
	// the changed map) and env overrides keep their precedence over the
	// edited file.
	cfg := w.base
	if err := ApplyFileConfig(&cfg, fc, w.changed); err != nil {
		w.logger.Warn("config reload failed", ports.Err(err))
		return
	}
	if err := ApplyEnvConfig(&cfg, w.changed); err != nil {
		w.logger.Warn("config reload failed", ports.Err(err))
		return
	}
	if err := cfg.Validate(); err != nil {
		w.logger.Warn("reloaded config invalid, keeping current settings", ports.Err(err))
		return
	}

	w.logger.Info("config reloaded", ports.String("path", w.path))
	w.onChange(cfg)
}
