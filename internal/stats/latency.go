// Package stats keeps rolling-window latency figures for report generation.
package stats

import (
	"slices"
	"sync"
	"time"
)

type sample struct {
	at  time.Time
	dur time.Duration
}

// Snapshot aggregates the samples inside the window, in milliseconds.
type Snapshot struct {
	Count int     `json:"count"`
	MinMs float64 `json:"min_ms"`
	MaxMs float64 `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

// Latency records durations and drops those older than the window.
type Latency struct {
	mu      sync.Mutex
	samples []sample
	window  time.Duration
	now     func() time.Time
}

func NewLatency(window time.Duration) *Latency {
	if window <= 0 {
		window = time.Hour
	}
	return &Latency{
		samples: make([]sample, 0, 256),
		window:  window,
		now:     time.Now,
	}
}

// Observe records the time elapsed since start.
func (l *Latency) Observe(start time.Time) {
	l.Record(l.now().Sub(start))
}

func (l *Latency) Record(d time.Duration) {
	if d < 0 {
		d = 0
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.pruneLocked(now)
	l.samples = append(l.samples, sample{at: now, dur: d})
}

func (l *Latency) Snapshot() Snapshot {
	now := l.now()

	l.mu.Lock()
	l.pruneLocked(now)
	ms := make([]float64, len(l.samples))
	for i, s := range l.samples {
		ms[i] = float64(s.dur) / float64(time.Millisecond)
	}
	l.mu.Unlock()

	if len(ms) == 0 {
		return Snapshot{}
	}
	slices.Sort(ms)

	var sum float64
	for _, v := range ms {
		sum += v
	}
	return Snapshot{
		Count: len(ms),
		MinMs: ms[0],
		MaxMs: ms[len(ms)-1],
		AvgMs: sum / float64(len(ms)),
		P50Ms: percentile(ms, 50),
		P95Ms: percentile(ms, 95),
		P99Ms: percentile(ms, 99),
	}
}

func (l *Latency) pruneLocked(now time.Time) {
	cutoff := now.Add(-l.window)
	l.samples = slices.DeleteFunc(l.samples, func(s sample) bool {
		return s.at.Before(cutoff)
	})
}

// percentile interpolates linearly between the two nearest ranks.
func percentile(sorted []float64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return sorted[0]
	case pct >= 100:
		return sorted[len(sorted)-1]
	}
	rank := float64(len(sorted)-1) * pct / 100
	lo := int(rank)
	if lo+1 >= len(sorted) {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[lo+1]-sorted[lo])*frac
}
