// Package perf provides a small injected timing collaborator for the
// pipeline stages. It deliberately avoids process-wide mutable state so
// stages can be tested without a live timing backend.
package perf

import (
	"sync"
	"time"
)

// Timer measures named operations. Start returns a stop func that records
// the elapsed time under the given name; Record stores an externally
// measured duration.
type Timer interface {
	Start(name string) (stop func())
	Record(name string, d time.Duration)
}

// Stats accumulates the recorded durations for one name.
type Stats struct {
	Count int
	Total time.Duration
	Min   time.Duration
	Max   time.Duration
}

// Recorder is the standard Timer backed by the wall clock. The clock is a
// field so tests can substitute a fake.
type Recorder struct {
	mu    sync.Mutex
	stats map[string]Stats
	now   func() time.Time
}

// NewRecorder creates a Recorder using the wall clock.
func NewRecorder() *Recorder {
	return &Recorder{
		stats: make(map[string]Stats),
		now:   time.Now,
	}
}

// Start begins timing name and returns the func that stops and records it.
func (r *Recorder) Start(name string) func() {
	begin := r.now()
	return func() {
		r.Record(name, r.now().Sub(begin))
	}
}

// Record stores one duration sample under name.
func (r *Recorder) Record(name string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.stats[name]
	if !ok || d < s.Min {
		s.Min = d
	}
	if d > s.Max {
		s.Max = d
	}
	s.Count++
	s.Total += d
	r.stats[name] = s
}

// Snapshot returns a copy of the accumulated stats.
func (r *Recorder) Snapshot() map[string]Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]Stats, len(r.stats))
	for k, v := range r.stats {
		out[k] = v
	}
	return out
}

type nopTimer struct{}

func (nopTimer) Start(string) func()          { return func() {} }
func (nopTimer) Record(string, time.Duration) {}

// Nop returns a Timer that records nothing.
func Nop() Timer { return nopTimer{} }
