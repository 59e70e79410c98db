package pacing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationStaysInRange(t *testing.T) {
	p := New(7, &Recorder{})
	r := Range{Min: 60 * time.Second, Max: 120 * time.Second}

	for i := 0; i < 1000; i++ {
		d := p.Duration(r)
		assert.GreaterOrEqual(t, d, r.Min)
		assert.LessOrEqual(t, d, r.Max)
	}
}

func TestIntStaysInRange(t *testing.T) {
	p := New(7, &Recorder{})
	seen := map[int]bool{}

	for i := 0; i < 500; i++ {
		n := p.Int(IntRange{Min: 2, Max: 4})
		require.GreaterOrEqual(t, n, 2)
		require.LessOrEqual(t, n, 4)
		seen[n] = true
	}
	assert.Len(t, seen, 3)
}

func TestDegenerateRanges(t *testing.T) {
	p := New(1, &Recorder{})
	assert.Equal(t, 3*time.Second, p.Duration(Range{Min: 3 * time.Second, Max: 3 * time.Second}))
	assert.Equal(t, 5, p.Int(IntRange{Min: 5, Max: 1}))
}

func TestSameSeedSameSequence(t *testing.T) {
	a := New(42, &Recorder{})
	b := New(42, &Recorder{})
	r := Range{Min: time.Second, Max: time.Minute}

	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Duration(r), b.Duration(r))
	}
}

func TestSleepRecordsDrawnDuration(t *testing.T) {
	rec := &Recorder{}
	p := New(3, rec)

	d, err := p.Sleep(context.Background(), Range{Min: time.Second, Max: 2 * time.Second})
	require.NoError(t, err)
	require.NoError(t, p.SleepFor(context.Background(), 3*time.Second))

	assert.Equal(t, []time.Duration{d, 3 * time.Second}, rec.Sleeps())
	assert.Equal(t, d+3*time.Second, rec.Total())
	assert.Equal(t, 1, rec.CountIn(Range{Min: time.Second, Max: 2 * time.Second}))
}

func TestWaitHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := Wait(ctx, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestWaitElapses(t *testing.T) {
	assert.NoError(t, Wait(context.Background(), 5*time.Millisecond))
	assert.NoError(t, Wait(context.Background(), 0))
}
