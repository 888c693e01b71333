package app

import (
	"context"
	"sync"
	"time"

	"github.com/glanceworks/glanced/internal/domain"
	"github.com/glanceworks/glanced/internal/ports"
)

// ShutdownTimeout is the maximum time to wait for graceful device shutdown.
const ShutdownTimeout = 15 * time.Second

// DeviceState represents the lifecycle state of the device.
type DeviceState int

const (
	DeviceStopped DeviceState = iota
	DeviceStarting
	DeviceRunning
	DeviceStopping
	DeviceCrashed
)

// String returns a human-readable representation of the state.
func (s DeviceState) String() string {
	switch s {
	case DeviceStopped:
		return "Stopped"
	case DeviceStarting:
		return "Starting"
	case DeviceRunning:
		return "Running"
	case DeviceStopping:
		return "Stopping"
	case DeviceCrashed:
		return "Crashed"
	default:
		return "Unknown"
	}
}

// Lifecycle manages the state machine for the device facade. Individual
// source runtimes have their own simpler lifecycle; this one covers the
// whole device: all sources plus the render arbiter.
type Lifecycle struct {
	mu     sync.RWMutex
	state  DeviceState
	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger ports.Logger
}

// NewLifecycle creates a lifecycle manager in DeviceStopped.
func NewLifecycle(logger ports.Logger) *Lifecycle {
	return &Lifecycle{
		state:  DeviceStopped,
		logger: logger,
	}
}

// State returns the current lifecycle state.
func (l *Lifecycle) State() DeviceState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// TransitionTo attempts to move to a new state.
// Returns an error if the transition is not valid.
func (l *Lifecycle) TransitionTo(newState DeviceState, reason string) error {
	l.mu.Lock()
	oldState := l.state

	if !validTransition(oldState, newState) {
		l.mu.Unlock()
		if oldState == DeviceStopped || oldState == DeviceCrashed {
			return domain.ErrNotRunning
		}
		return domain.ErrAlreadyRunning
	}

	l.state = newState
	l.mu.Unlock()

	l.logger.Info("device state transition",
		ports.String("from", oldState.String()),
		ports.String("to", newState.String()),
		ports.String("reason", reason),
	)
	return nil
}

func validTransition(from, to DeviceState) bool {
	switch from {
	case DeviceStopped, DeviceCrashed:
		return to == DeviceStarting
	case DeviceStarting:
		return to == DeviceRunning || to == DeviceStopping || to == DeviceCrashed
	case DeviceRunning:
		return to == DeviceStopping || to == DeviceCrashed
	case DeviceStopping:
		return to == DeviceStopped || to == DeviceCrashed
	}
	return false
}

// CanStart returns true if Start() can be called.
func (l *Lifecycle) CanStart() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state == DeviceStopped || l.state == DeviceCrashed
}

// CanStop returns true if Stop() can be called.
func (l *Lifecycle) CanStop() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state == DeviceRunning || l.state == DeviceStarting
}

// SetCancel stores the cancel function for graceful shutdown.
func (l *Lifecycle) SetCancel(cancel context.CancelFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cancel = cancel
}

// Cancel triggers graceful shutdown.
func (l *Lifecycle) Cancel() {
	l.mu.Lock()
	cancel := l.cancel
	l.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// AddWorker increments the worker count.
func (l *Lifecycle) AddWorker() {
	l.wg.Add(1)
}

// WorkerDone decrements the worker count.
func (l *Lifecycle) WorkerDone() {
	l.wg.Done()
}

// WaitWithTimeout waits for all workers to finish.
// Returns ErrShutdownTimeout if the timeout expires first.
func (l *Lifecycle) WaitWithTimeout(timeout time.Duration) error {
	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		l.logger.Warn("shutdown timeout, forcing exit",
			ports.Duration("timeout", timeout),
		)
		return domain.ErrShutdownTimeout
	}
}
