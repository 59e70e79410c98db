package pacing

import (
	"context"
	"sync"
	"time"
)

// Recorder is a Sleeper that returns immediately and remembers every
// requested wait. It is meant for tests of code that paces itself.
type Recorder struct {
	mu     sync.Mutex
	sleeps []time.Duration
}

// Sleep records d and only fails when ctx is already done
func (r *Recorder) Sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.sleeps = append(r.sleeps, d)
	r.mu.Unlock()
	return ctx.Err()
}

// Sleeps returns a copy of the recorded waits in call order
func (r *Recorder) Sleeps() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]time.Duration, len(r.sleeps))
	copy(out, r.sleeps)
	return out
}

// Total returns the sum of all recorded waits
func (r *Recorder) Total() time.Duration {
	var total time.Duration
	for _, d := range r.Sleeps() {
		total += d
	}
	return total
}

// CountIn returns how many recorded waits fall inside rg
func (r *Recorder) CountIn(rg Range) int {
	n := 0
	for _, d := range r.Sleeps() {
		if d >= rg.Min && d <= rg.Max {
			n++
		}
	}
	return n
}
