// Package profiler - lightweight operation timing for the redaction CLI.
//
// The CLI records per-frame detect/redact/encode costs and prints a summary
// when the run ends. This is intentionally much smaller than a general
// profiling harness: a name, a duration, aggregate stats.
package profiler

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Tracker aggregates operation timings. Safe for concurrent use.
type Tracker struct {
	mu    sync.Mutex
	ops   map[string]*opStats
	start time.Time
}

type opStats struct {
	count int64
	total time.Duration
	min   time.Duration
	max   time.Duration
}

// New creates an empty tracker; uptime is measured from this call.
func New() *Tracker {
	return &Tracker{
		ops:   make(map[string]*opStats),
		start: time.Now(),
	}
}

// Record adds one sample for the named operation.
func (t *Tracker) Record(name string, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.ops[name]
	if !ok {
		s = &opStats{min: d, max: d}
		t.ops[name] = s
	}
	s.count++
	s.total += d
	if d < s.min {
		s.min = d
	}
	if d > s.max {
		s.max = d
	}
}

// Time returns a stop function that records the elapsed time under name.
// Intended for defer: defer tracker.Time("detect")().
func (t *Tracker) Time(name string) func() {
	begin := time.Now()
	return func() {
		t.Record(name, time.Since(begin))
	}
}

// Count returns the number of samples recorded under name.
func (t *Tracker) Count(name string) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.ops[name]; ok {
		return s.count
	}
	return 0
}

// Average returns the mean duration recorded under name, or 0 if none.
func (t *Tracker) Average(name string) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.ops[name]; ok && s.count > 0 {
		return s.total / time.Duration(s.count)
	}
	return 0
}

// Report renders a per-operation summary sorted by operation name.
func (t *Tracker) Report() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	names := make([]string, 0, len(t.ops))
	for name := range t.ops {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "uptime %s\n", time.Since(t.start).Round(time.Millisecond))
	for _, name := range names {
		s := t.ops[name]
		avg := s.total / time.Duration(s.count)
		fmt.Fprintf(&b, "%-12s count=%-6d avg=%-12s min=%-12s max=%s\n",
			name, s.count, avg.Round(time.Microsecond),
			s.min.Round(time.Microsecond), s.max.Round(time.Microsecond))
	}
	return b.String()
}
