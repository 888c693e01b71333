package app

import (
	"errors"
	"testing"
	"time"

	"github.com/glanceworks/glanced/internal/domain"
)

func TestDeviceState_String(t *testing.T) {
	tests := []struct {
		state DeviceState
		want  string
	}{
		{DeviceStopped, "Stopped"},
		{DeviceStarting, "Starting"},
		{DeviceRunning, "Running"},
		{DeviceStopping, "Stopping"},
		{DeviceCrashed, "Crashed"},
		{DeviceState(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("DeviceState(%d).String() = %s, want %s", tt.state, got, tt.want)
		}
	}
}

func TestLifecycle_ValidTransitions(t *testing.T) {
	tests := []struct {
		name string
		from DeviceState
		to   DeviceState
	}{
		{"stopped to starting", DeviceStopped, DeviceStarting},
		{"starting to running", DeviceStarting, DeviceRunning},
		{"starting to stopping", DeviceStarting, DeviceStopping},
		{"starting to crashed", DeviceStarting, DeviceCrashed},
		{"running to stopping", DeviceRunning, DeviceStopping},
		{"running to crashed", DeviceRunning, DeviceCrashed},
		{"stopping to stopped", DeviceStopping, DeviceStopped},
		{"stopping to crashed", DeviceStopping, DeviceCrashed},
		{"crashed to starting", DeviceCrashed, DeviceStarting},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLifecycle(mockLogger{})
			l.state = tt.from

			if err := l.TransitionTo(tt.to, "test"); err != nil {
				t.Fatalf("TransitionTo() error = %v", err)
			}
			if l.State() != tt.to {
				t.Errorf("state = %v after transition, want %v", l.State(), tt.to)
			}
		})
	}
}

func TestLifecycle_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    DeviceState
		to      DeviceState
		wantErr error
	}{
		{"stopped to running", DeviceStopped, DeviceRunning, domain.ErrNotRunning},
		{"stopped to stopping", DeviceStopped, DeviceStopping, domain.ErrNotRunning},
		{"running to starting", DeviceRunning, DeviceStarting, domain.ErrAlreadyRunning},
		{"running to stopped", DeviceRunning, DeviceStopped, domain.ErrAlreadyRunning},
		{"crashed to running", DeviceCrashed, DeviceRunning, domain.ErrNotRunning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLifecycle(mockLogger{})
			l.state = tt.from

			err := l.TransitionTo(tt.to, "test")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("TransitionTo() error = %v, want %v", err, tt.wantErr)
			}
			if l.State() != tt.from {
				t.Errorf("state changed to %v on invalid transition", l.State())
			}
		})
	}
}

func TestLifecycle_CanStartCanStop(t *testing.T) {
	l := NewLifecycle(mockLogger{})

	if !l.CanStart() {
		t.Error("CanStart() = false in Stopped")
	}
	if l.CanStop() {
		t.Error("CanStop() = true in Stopped")
	}

	l.state = DeviceRunning
	if l.CanStart() {
		t.Error("CanStart() = true in Running")
	}
	if !l.CanStop() {
		t.Error("CanStop() = false in Running")
	}
}

func TestLifecycle_WaitWithTimeout(t *testing.T) {
	l := NewLifecycle(mockLogger{})

	l.AddWorker()
	go func() {
		time.Sleep(10 * time.Millisecond)
		l.WorkerDone()
	}()

	if err := l.WaitWithTimeout(time.Second); err != nil {
		t.Errorf("WaitWithTimeout() error = %v", err)
	}
}

func TestLifecycle_WaitWithTimeout_Expires(t *testing.T) {
	l := NewLifecycle(mockLogger{})

	l.AddWorker()
	defer l.WorkerDone()

	err := l.WaitWithTimeout(10 * time.Millisecond)
	if !errors.Is(err, domain.ErrShutdownTimeout) {
		t.Errorf("WaitWithTimeout() error = %v, want ErrShutdownTimeout", err)
	}
}
