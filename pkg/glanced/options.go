package glanced

import (
	"github.com/glanceworks/glanced/internal/app"
	"github.com/glanceworks/glanced/internal/domain"
	"github.com/glanceworks/glanced/internal/ports"
)

// Re-exported types so callers do not need to import internal packages.
type (
	// Logger is the interface for structured logging.
	Logger = ports.Logger

	// LogField represents a structured log field.
	LogField = ports.Field

	// Sink is the display output a Device paints into.
	Sink = ports.Sink

	// Capability is a data-producing source that can be registered with
	// WithSource.
	Capability = ports.Capability

	// RecordWriter accepts the records a Capability produces.
	RecordWriter = ports.RecordWriter

	// Record is one datum produced by a source.
	Record = domain.Record

	// Content is what gets painted: lines of text plus placement.
	Content = domain.Content

	// Layout controls where content is placed on the panel.
	Layout = domain.Layout

	// Point is an explicit pixel position.
	Point = domain.Point

	// Listener receives every record a source accepts.
	Listener = app.Listener

	// SourceStatus is a point-in-time snapshot of one source.
	SourceStatus = app.Status

	// State is the device lifecycle state.
	State = app.DeviceState
)

// Device lifecycle states.
const (
	StateStopped  = app.DeviceStopped
	StateStarting = app.DeviceStarting
	StateRunning  = app.DeviceRunning
	StateStopping = app.DeviceStopping
	StateCrashed  = app.DeviceCrashed
)

// Option configures optional behavior of a Device.
type Option func(*options)

type registeredSource struct {
	capability ports.Capability
	cfg        SourceConfig
}

// options holds the optional configuration for a Device instance.
type options struct {
	logger  ports.Logger
	sink    ports.Sink
	sources []registeredSource
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used.
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSink replaces the display output. When set, the Device neither
// opens the I²C bus nor checks Config.Simulate. Useful for tests and for
// embedding on hardware the built-in sinks do not cover.
func WithSink(sink Sink) Option {
	return func(o *options) {
		o.sink = sink
	}
}

// WithSource registers a data source. Sources are initialized and started
// in registration order and stopped together on Stop.
func WithSource(capability Capability, cfg SourceConfig) Option {
	return func(o *options) {
		o.sources = append(o.sources, registeredSource{capability: capability, cfg: cfg})
	}
}

// CenteredText builds content that is centered on the panel, one string
// per line.
func CenteredText(lines ...string) Content {
	return Content{Lines: lines, Layout: Layout{Centered: true}}
}

// TextAt builds content anchored at an explicit pixel position.
func TextAt(x, y int, lines ...string) Content {
	return Content{Lines: lines, Layout: Layout{At: &Point{X: x, Y: y}}}
}
