package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter gates an action until the caller may proceed
type Limiter interface {
	// Wait blocks until the next action is allowed or ctx is done
	Wait(ctx context.Context) error
}

// NewIntervalLimiter allows one action per interval with no burst. A
// non-positive interval disables limiting.
func NewIntervalLimiter(interval time.Duration) Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// BatchBudget counts items admitted since the last cool-down. Once capacity
// items have been consumed the budget is exhausted until Reset.
type BatchBudget struct {
	mu       sync.Mutex
	capacity int
	used     int
}

// NewBatchBudget creates a budget of capacity items
func NewBatchBudget(capacity int) *BatchBudget {
	return &BatchBudget{capacity: capacity}
}

// Consume records n admitted items
func (b *BatchBudget) Consume(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.used += n
}

// Exhausted reports whether the items consumed since the last reset reached
// the capacity. A non-positive capacity never exhausts.
func (b *BatchBudget) Exhausted() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.capacity > 0 && b.used >= b.capacity
}

// Used returns the items consumed since the last reset
func (b *BatchBudget) Used() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.used
}

// Reset empties the budget after a cool-down
func (b *BatchBudget) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.used = 0
}
