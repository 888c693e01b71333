package sysmon

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/glanceworks/glanced/internal/domain"
	"github.com/glanceworks/glanced/internal/ports"
)

type mockLogger struct{}

func (mockLogger) Debug(msg string, fields ...ports.Field) {}
func (mockLogger) Info(msg string, fields ...ports.Field)  {}
func (mockLogger) Warn(msg string, fields ...ports.Field)  {}
func (mockLogger) Error(msg string, fields ...ports.Field) {}

type recorder struct {
	recs []domain.Record
}

func (r *recorder) AddRecord(rec domain.Record) {
	r.recs = append(r.recs, rec)
}

func (r *recorder) byKind(kind string) (domain.Record, bool) {
	for _, rec := range r.recs {
		if rec.Kind == kind {
			return rec, true
		}
	}
	return domain.Record{}, false
}

const statSample = `cpu  100 0 50 800 50 0 0 0 0 0
cpu0 50 0 25 400 25 0 0 0 0 0
intr 12345
`

const statSampleLater = `cpu  200 0 100 850 50 0 0 0 0 0
cpu0 100 0 50 425 25 0 0 0 0 0
`

const meminfoSample = `MemTotal:        1000000 kB
MemFree:          100000 kB
MemAvailable:     250000 kB
Buffers:           50000 kB
`

func TestParseCPUStat(t *testing.T) {
	busy, total, err := parseCPUStat(statSample)
	if err != nil {
		t.Fatalf("parseCPUStat() error = %v", err)
	}
	// busy = 100+0+50 = 150 (idle 800 and iowait 50 excluded), total = 1000
	if busy != 150 {
		t.Errorf("busy = %d, want 150", busy)
	}
	if total != 1000 {
		t.Errorf("total = %d, want 1000", total)
	}
}

func TestParseCPUStat_NoAggregate(t *testing.T) {
	if _, _, err := parseCPUStat("intr 123\nctxt 456\n"); err == nil {
		t.Error("expected error for stat data without cpu line")
	}
}

func TestParseMeminfo(t *testing.T) {
	mem, err := parseMeminfo(meminfoSample)
	if err != nil {
		t.Fatalf("parseMeminfo() error = %v", err)
	}
	if mem.TotalKB != 1000000 || mem.AvailableKB != 250000 {
		t.Errorf("mem = %+v", mem)
	}
	if math.Abs(mem.UsedFrac-0.75) > 1e-9 {
		t.Errorf("UsedFrac = %v, want 0.75", mem.UsedFrac)
	}
}

func TestParseMeminfo_MissingTotal(t *testing.T) {
	if _, err := parseMeminfo("MemFree: 1 kB\n"); err == nil {
		t.Error("expected error for meminfo without MemTotal")
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func testSource(t *testing.T, stat, meminfo string) *Source {
	t.Helper()
	dir := t.TempDir()
	s := New(mockLogger{})
	s.statPath = writeFile(t, dir, "stat", stat)
	s.meminfoPath = writeFile(t, dir, "meminfo", meminfo)
	return s
}

func TestFetchOnce_FirstSampleSeedsCPU(t *testing.T) {
	s := testSource(t, statSample, meminfoSample)

	out := &recorder{}
	if err := s.FetchOnce(context.Background(), out); err != nil {
		t.Fatalf("FetchOnce() error = %v", err)
	}

	rec, ok := out.byKind(KindCPU)
	if !ok {
		t.Fatal("no cpu record")
	}
	if busy := rec.Payload.(CPUPayload).Busy; busy != 0 {
		t.Errorf("first sample busy = %v, want 0 (seeding)", busy)
	}
}

func TestFetchOnce_DeltaBetweenSamples(t *testing.T) {
	s := testSource(t, statSample, meminfoSample)

	out := &recorder{}
	if err := s.FetchOnce(context.Background(), out); err != nil {
		t.Fatal(err)
	}

	// Advance the counters: busy 150→300, total 1000→1200.
	if err := os.WriteFile(s.statPath, []byte(statSampleLater), 0o644); err != nil {
		t.Fatal(err)
	}
	out = &recorder{}
	if err := s.FetchOnce(context.Background(), out); err != nil {
		t.Fatal(err)
	}

	rec, _ := out.byKind(KindCPU)
	busy := rec.Payload.(CPUPayload).Busy
	if math.Abs(busy-0.75) > 1e-9 {
		t.Errorf("busy fraction = %v, want 0.75 (150 busy of 200 total jiffies)", busy)
	}
}

func TestFetchOnce_StatusText(t *testing.T) {
	s := testSource(t, statSample, meminfoSample)

	out := &recorder{}
	if err := s.FetchOnce(context.Background(), out); err != nil {
		t.Fatal(err)
	}

	rec, ok := out.byKind(KindStatusText)
	if !ok {
		t.Fatal("no status-text record")
	}
	want := "CPU 0%\nMEM 75%"
	if got := rec.Payload.(StatusPayload).Text; got != want {
		t.Errorf("status text = %q, want %q", got, want)
	}
}

func TestFetchOnce_UnreadableStat(t *testing.T) {
	s := testSource(t, statSample, meminfoSample)
	s.statPath = filepath.Join(t.TempDir(), "missing")

	if err := s.FetchOnce(context.Background(), &recorder{}); err == nil {
		t.Error("expected error for unreadable stat file")
	}
}

func TestInitialize_MissingProc(t *testing.T) {
	s := New(mockLogger{})
	s.statPath = filepath.Join(t.TempDir(), "missing")

	if err := s.Initialize(context.Background()); err == nil {
		t.Error("expected error when /proc files are absent")
	}
}
