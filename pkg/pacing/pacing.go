package pacing

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Range is an inclusive [Min, Max] interval of wait durations
type Range struct {
	Min time.Duration
	Max time.Duration
}

// IntRange is an inclusive [Min, Max] interval of counts
type IntRange struct {
	Min int
	Max int
}

// Sleeper blocks for a duration or until ctx is done
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// SleeperFunc adapts a function to the Sleeper interface
type SleeperFunc func(ctx context.Context, d time.Duration) error

// Sleep calls f(ctx, d)
func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

// RealSleeper waits on the wall clock
var RealSleeper Sleeper = SleeperFunc(Wait)

// Wait waits for the specified duration or until context is cancelled
func Wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Policy draws randomized waits and counts and performs the waits. A Policy
// built with a fixed seed produces the same sequence of draws every run.
type Policy struct {
	mu      sync.Mutex
	rng     *rand.Rand
	sleeper Sleeper
}

// New creates a Policy. A zero seed picks one from the clock; a nil sleeper
// waits on the wall clock.
func New(seed int64, sleeper Sleeper) *Policy {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if sleeper == nil {
		sleeper = RealSleeper
	}
	return &Policy{
		rng:     rand.New(rand.NewSource(seed)),
		sleeper: sleeper,
	}
}

// Duration draws a duration uniformly from r
func (p *Policy) Duration(r Range) time.Duration {
	if r.Max <= r.Min {
		return r.Min
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return r.Min + time.Duration(p.rng.Int63n(int64(r.Max-r.Min)+1))
}

// Int draws an integer uniformly from r
func (p *Policy) Int(r IntRange) int {
	if r.Max <= r.Min {
		return r.Min
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return r.Min + p.rng.Intn(r.Max-r.Min+1)
}

// Float draws a float uniformly from [lo, hi)
func (p *Policy) Float(lo, hi float64) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return lo + p.rng.Float64()*(hi-lo)
}

// Sleep draws a duration from r and waits for it. The drawn duration is
// returned even when the wait is cut short.
func (p *Policy) Sleep(ctx context.Context, r Range) (time.Duration, error) {
	d := p.Duration(r)
	return d, p.sleeper.Sleep(ctx, d)
}

// SleepFor waits a fixed duration through the policy's sleeper
func (p *Policy) SleepFor(ctx context.Context, d time.Duration) error {
	return p.sleeper.Sleep(ctx, d)
}
