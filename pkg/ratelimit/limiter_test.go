package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchBudget(t *testing.T) {
	b := NewBatchBudget(200)

	b.Consume(150)
	assert.False(t, b.Exhausted())
	assert.Equal(t, 150, b.Used())

	b.Consume(60)
	assert.True(t, b.Exhausted())
	assert.Equal(t, 210, b.Used())

	b.Reset()
	assert.False(t, b.Exhausted())
	assert.Zero(t, b.Used())
}

func TestBatchBudgetZeroCapacityNeverExhausts(t *testing.T) {
	b := NewBatchBudget(0)
	b.Consume(10000)
	assert.False(t, b.Exhausted())
}

func TestIntervalLimiterSpacesActions(t *testing.T) {
	l := NewIntervalLimiter(50 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, l.Wait(ctx))
	require.NoError(t, l.Wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestIntervalLimiterDisabled(t *testing.T) {
	l := NewIntervalLimiter(0)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 100; i++ {
		require.NoError(t, l.Wait(ctx))
	}
	assert.Less(t, time.Since(start), time.Second)
}

func TestIntervalLimiterCancelled(t *testing.T) {
	l := NewIntervalLimiter(time.Hour)
	require.NoError(t, l.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, l.Wait(ctx))
}
