// Package timesource provides the clock capability: a data producer that
// emits the current time and date in several representations, each with a
// TTL tuned to how quickly that representation goes stale.
package timesource

import (
	"context"
	"time"

	"github.com/glanceworks/glanced/internal/ports"

	"github.com/glanceworks/glanced/internal/domain"
)

// Record kinds produced by the time source.
const (
	KindTime        = "time"
	KindDate        = "date"
	KindDisplayText = "display-text"
)

// TimePayload carries the formatted time plus its components.
type TimePayload struct {
	Display string
	Hour    int
	Minute  int
	Second  int
}

// DatePayload carries the formatted date in long and short form.
type DatePayload struct {
	Display   string
	ShortDate string
	Weekday   string
	Day       int
	Month     int
	Year      int
}

// DisplayPayload carries a pre-composed multi-line string ready to show.
type DisplayPayload struct {
	Text string
}

// Config controls the formats the source produces.
type Config struct {
	// Format12h selects 12-hour clock formatting.
	Format12h bool

	// IncludeSeconds adds seconds to the time string.
	IncludeSeconds bool

	// IncludeDate adds date records and a date line to the composed
	// display text.
	IncludeDate bool
}

// DefaultConfig returns the source defaults: 12-hour clock with date,
// no seconds.
func DefaultConfig() Config {
	return Config{
		Format12h:   true,
		IncludeDate: true,
	}
}

// Source implements ports.Capability for the system clock.
type Source struct {
	cfg    Config
	logger ports.Logger

	// now is the clock; replaced in tests.
	now func() time.Time
}

// New creates a time source.
func New(cfg Config, logger ports.Logger) *Source {
	return &Source{
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Name implements ports.Capability.
func (s *Source) Name() string { return "time" }

// Initialize implements ports.Capability. The clock needs no bring-up.
func (s *Source) Initialize(ctx context.Context) error {
	return nil
}

// Cleanup implements ports.Capability.
func (s *Source) Cleanup(ctx context.Context) error {
	return nil
}

// FetchOnce produces one record per representation. The composed display
// text expires fastest since it is the most likely to be shown
// immediately; the date expires slowest.
func (s *Source) FetchOnce(ctx context.Context, out ports.RecordWriter) error {
	now := s.now()

	timeStr := now.Format(s.timeFormat())
	out.AddRecord(domain.Record{
		Kind: KindTime,
		Payload: TimePayload{
			Display: timeStr,
			Hour:    now.Hour(),
			Minute:  now.Minute(),
			Second:  now.Second(),
		},
		CreatedAt: now,
		Priority:  3,
		ExpiresAt: now.Add(2 * time.Minute),
	})

	shortDate := now.Format("01/02/2006")
	if s.cfg.IncludeDate {
		out.AddRecord(domain.Record{
			Kind: KindDate,
			Payload: DatePayload{
				Display:   now.Format("January 02, 2006"),
				ShortDate: shortDate,
				Weekday:   now.Format("Monday"),
				Day:       now.Day(),
				Month:     int(now.Month()),
				Year:      now.Year(),
			},
			CreatedAt: now,
			Priority:  4,
			ExpiresAt: now.Add(time.Hour),
		})
	}

	display := timeStr
	if s.cfg.IncludeDate {
		display = timeStr + "\n" + shortDate
	}
	out.AddRecord(domain.Record{
		Kind:      KindDisplayText,
		Payload:   DisplayPayload{Text: display},
		CreatedAt: now,
		Priority:  2,
		ExpiresAt: now.Add(time.Minute),
	})

	s.logger.Debug("time data updated", ports.String("time", timeStr))
	return nil
}

func (s *Source) timeFormat() string {
	switch {
	case s.cfg.Format12h && s.cfg.IncludeSeconds:
		return "03:04:05 PM"
	case s.cfg.Format12h:
		return "03:04 PM"
	case s.cfg.IncludeSeconds:
		return "15:04:05"
	default:
		return "15:04"
	}
}
