// Package sysmon provides a system-monitor capability for Linux hosts:
// CPU busy fraction and memory pressure sampled from /proc, plus a
// composed status line ready to show on the display.
package sysmon

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/glanceworks/glanced/internal/domain"
	"github.com/glanceworks/glanced/internal/ports"
)

// Record kinds produced by the system monitor.
const (
	KindCPU        = "cpu"
	KindMemory     = "mem"
	KindStatusText = "status-text"
)

// CPUPayload carries the busy fraction over the last sampling window.
type CPUPayload struct {
	Busy float64
}

// MemoryPayload carries memory usage derived from /proc/meminfo.
type MemoryPayload struct {
	TotalKB     uint64
	AvailableKB uint64
	UsedFrac    float64
}

// StatusPayload carries a composed two-line status string.
type StatusPayload struct {
	Text string
}

const (
	procStat    = "/proc/stat"
	procMeminfo = "/proc/meminfo"
)

// Source implements ports.Capability by sampling /proc. CPU busy fraction
// is meaningful from the second fetch on; the first fetch only seeds the
// counters and reports zero.
type Source struct {
	logger ports.Logger

	statPath    string
	meminfoPath string

	prevBusy  uint64
	prevTotal uint64
	seeded    bool
}

// New creates a system monitor source.
func New(logger ports.Logger) *Source {
	return &Source{
		logger:      logger,
		statPath:    procStat,
		meminfoPath: procMeminfo,
	}
}

// Name implements ports.Capability.
func (s *Source) Name() string { return "sysmon" }

// Initialize verifies the /proc files are readable on this host.
func (s *Source) Initialize(ctx context.Context) error {
	for _, p := range []string{s.statPath, s.meminfoPath} {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("sysmon requires %s: %w", p, err)
		}
	}
	return nil
}

// Cleanup implements ports.Capability.
func (s *Source) Cleanup(ctx context.Context) error {
	return nil
}

// FetchOnce samples CPU and memory and emits three records. Status text
// expires fastest; the raw samples keep a little slack past the next
// expected cycle.
func (s *Source) FetchOnce(ctx context.Context, out ports.RecordWriter) error {
	now := time.Now()

	busy, err := s.sampleCPU()
	if err != nil {
		return err
	}
	mem, err := s.sampleMemory()
	if err != nil {
		return err
	}

	out.AddRecord(domain.Record{
		Kind:      KindCPU,
		Payload:   CPUPayload{Busy: busy},
		CreatedAt: now,
		Priority:  4,
		ExpiresAt: now.Add(2 * time.Minute),
	})
	out.AddRecord(domain.Record{
		Kind:      KindMemory,
		Payload:   mem,
		CreatedAt: now,
		Priority:  4,
		ExpiresAt: now.Add(2 * time.Minute),
	})

	text := fmt.Sprintf("CPU %d%%\nMEM %d%%",
		int(busy*100+0.5), int(mem.UsedFrac*100+0.5))
	out.AddRecord(domain.Record{
		Kind:      KindStatusText,
		Payload:   StatusPayload{Text: text},
		CreatedAt: now,
		Priority:  3,
		ExpiresAt: now.Add(time.Minute),
	})

	s.logger.Debug("system sample",
		ports.Float64("cpu_busy", busy),
		ports.Float64("mem_used", mem.UsedFrac),
	)
	return nil
}

// sampleCPU reads the aggregate cpu line and returns the busy fraction
// since the previous sample.
func (s *Source) sampleCPU() (float64, error) {
	data, err := os.ReadFile(s.statPath)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", s.statPath, err)
	}

	busy, total, err := parseCPUStat(string(data))
	if err != nil {
		return 0, err
	}

	var frac float64
	if s.seeded && total > s.prevTotal {
		frac = float64(busy-s.prevBusy) / float64(total-s.prevTotal)
		if frac < 0 {
			frac = 0
		}
		if frac > 1 {
			frac = 1
		}
	}
	s.prevBusy = busy
	s.prevTotal = total
	s.seeded = true
	return frac, nil
}

func (s *Source) sampleMemory() (MemoryPayload, error) {
	data, err := os.ReadFile(s.meminfoPath)
	if err != nil {
		return MemoryPayload{}, fmt.Errorf("read %s: %w", s.meminfoPath, err)
	}
	return parseMeminfo(string(data))
}

// parseCPUStat extracts busy and total jiffies from the aggregate "cpu"
// line of /proc/stat. Fields: user nice system idle iowait irq softirq
// steal [guest guest_nice]; idle and iowait count as not busy.
func parseCPUStat(data string) (busy, total uint64, err error) {
	for _, line := range strings.Split(data, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 5 || fields[0] != "cpu" {
			continue
		}

		var values []uint64
		for _, f := range fields[1:] {
			v, perr := strconv.ParseUint(f, 10, 64)
			if perr != nil {
				return 0, 0, fmt.Errorf("parse cpu stat field %q: %w", f, perr)
			}
			values = append(values, v)
		}

		for i, v := range values {
			total += v
			// idle is field 3, iowait field 4
			if i != 3 && i != 4 {
				busy += v
			}
		}
		return busy, total, nil
	}
	return 0, 0, fmt.Errorf("no aggregate cpu line in stat data")
}

// parseMeminfo extracts MemTotal and MemAvailable (kB).
func parseMeminfo(data string) (MemoryPayload, error) {
	var mem MemoryPayload
	for _, line := range strings.Split(data, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "MemTotal:":
			v, err := strconv.ParseUint(fields[1], 10, 64)
			if err != nil {
				return mem, fmt.Errorf("parse MemTotal: %w", err)
			}
			mem.TotalKB = v
		case "MemAvailable:":
			v, err := strconv.ParseUint(fields[1], 10, 64)
			if err != nil {
				return mem, fmt.Errorf("parse MemAvailable: %w", err)
			}
			mem.AvailableKB = v
		}
	}

	if mem.TotalKB == 0 {
		return mem, fmt.Errorf("no MemTotal in meminfo data")
	}
	mem.UsedFrac = 1 - float64(mem.AvailableKB)/float64(mem.TotalKB)
	return mem, nil
}
