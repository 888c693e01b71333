package app

import (
	"fmt"

	"github.com/glanceworks/glanced/internal/domain"
	"github.com/glanceworks/glanced/internal/ports"
)

// Listener is a callback invoked with every new record added to a source
// runtime. Listeners run on the source's goroutine; a slow listener delays
// that source's cycle but never another source.
type Listener func(rec domain.Record) error

// listenerRegistry fans records out to subscribed listeners in registration
// order. Each invocation is isolated: an error or panic in one listener is
// logged and does not prevent delivery to the rest, nor does it reach the
// scheduling loop.
type listenerRegistry struct {
	source string
	logger ports.Logger
	fns    []Listener
}

func newListenerRegistry(source string, logger ports.Logger) *listenerRegistry {
	return &listenerRegistry{source: source, logger: logger}
}

// subscribe registers a callback. Not safe to call concurrently with
// notify; subscribe before starting the owning runtime.
func (l *listenerRegistry) subscribe(fn Listener) {
	l.fns = append(l.fns, fn)
}

// notify delivers rec to every listener in registration order.
func (l *listenerRegistry) notify(rec domain.Record) {
	for i, fn := range l.fns {
		l.invoke(i, fn, rec)
	}
}

func (l *listenerRegistry) invoke(i int, fn Listener, rec domain.Record) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("listener panicked",
				ports.String("source", l.source),
				ports.Int("listener", i),
				ports.Err(fmt.Errorf("%v", r)),
			)
		}
	}()

	if err := fn(rec); err != nil {
		l.logger.Error("listener failed",
			ports.String("source", l.source),
			ports.String("kind", rec.Kind),
			ports.Int("listener", i),
			ports.Err(err),
		)
	}
}
