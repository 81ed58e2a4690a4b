package regos

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock drives limiter time deterministically.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(t *testing.T, limits Limits) (*Limiter, *fakeClock, *[]time.Duration) {
	t.Helper()

	limiter, err := NewLimiter(limits)
	require.NoError(t, err)

	clock := newFakeClock()
	var slept []time.Duration
	limiter.now = clock.Now
	limiter.lastRefill = clock.Now()
	limiter.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		clock.Advance(d)
		return ctx.Err()
	}
	return limiter, clock, &slept
}

func TestNewLimiterValidation(t *testing.T) {
	tests := []struct {
		name   string
		limits Limits
	}{
		{name: "zero rate", limits: Limits{Rate: 0, Capacity: 10}},
		{name: "negative rate", limits: Limits{Rate: -1, Capacity: 10}},
		{name: "zero capacity", limits: Limits{Rate: 2, Capacity: 0}},
		{name: "negative capacity", limits: Limits{Rate: 2, Capacity: -5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter, err := NewLimiter(tt.limits)
			require.Error(t, err)
			assert.Nil(t, limiter)

			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestLimiterStartsFull(t *testing.T) {
	limiter, _, _ := newTestLimiter(t, Limits{Rate: 2, Capacity: 50})
	assert.InDelta(t, 50.0, limiter.Tokens(), 1e-9)
	assert.Equal(t, 50, limiter.Capacity())
	assert.InDelta(t, 2.0, limiter.Rate(), 1e-9)
}

func TestLimiterBurstThenBlock(t *testing.T) {
	limiter, _, slept := newTestLimiter(t, Limits{Rate: 2, Capacity: 5})
	ctx := context.Background()

	// The full burst passes without waiting.
	for i := 0; i < 5; i++ {
		require.NoError(t, limiter.Acquire(ctx))
	}
	assert.Empty(t, *slept)
	assert.InDelta(t, 0.0, limiter.Tokens(), 1e-9)

	// The sixth call must wait for one full token at 2/s.
	require.NoError(t, limiter.Acquire(ctx))
	require.Len(t, *slept, 1)
	assert.Equal(t, 500*time.Millisecond, (*slept)[0])

	// The slept-for token is spent immediately.
	assert.InDelta(t, 0.0, limiter.Tokens(), 1e-9)
}

func TestLimiterRefillCapsAtCapacity(t *testing.T) {
	limiter, clock, _ := newTestLimiter(t, Limits{Rate: 2, Capacity: 5})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, limiter.Acquire(ctx))
	}

	// An hour idle refills to capacity, never past it.
	clock.Advance(time.Hour)
	assert.InDelta(t, 5.0, limiter.Tokens(), 1e-9)
}

func TestLimiterPartialRefill(t *testing.T) {
	limiter, clock, slept := newTestLimiter(t, Limits{Rate: 2, Capacity: 1})
	ctx := context.Background()

	require.NoError(t, limiter.Acquire(ctx))
	assert.Empty(t, *slept)

	// 250ms restores half a token; the wait covers the missing half.
	clock.Advance(250 * time.Millisecond)
	require.NoError(t, limiter.Acquire(ctx))
	require.Len(t, *slept, 1)
	assert.Equal(t, 250*time.Millisecond, (*slept)[0])
}

func TestLimiterSustainedRate(t *testing.T) {
	// N acquires against a bucket of capacity C at rate R must spend at
	// least (N-C)/R seconds waiting.
	limiter, _, slept := newTestLimiter(t, Limits{Rate: 4, Capacity: 3})
	ctx := context.Background()

	const n = 11
	for i := 0; i < n; i++ {
		require.NoError(t, limiter.Acquire(ctx))
	}

	var total time.Duration
	for _, d := range *slept {
		total += d
	}
	minWait := time.Duration(float64(n-3) / 4 * float64(time.Second))
	assert.GreaterOrEqual(t, total, minWait)
}

func TestLimiterStarvedPairWallClock(t *testing.T) {
	// Real clock: rate 2/s, capacity 1. Two immediate acquires must take
	// roughly half a second end to end.
	limiter, err := NewLimiter(Limits{Rate: 2, Capacity: 1})
	require.NoError(t, err)

	start := time.Now()
	require.NoError(t, limiter.Acquire(context.Background()))
	require.NoError(t, limiter.Acquire(context.Background()))
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 450*time.Millisecond)
	assert.Less(t, elapsed, 2*time.Second)
}

func TestLimiterAcquireCancelledWhileWaiting(t *testing.T) {
	limiter, err := NewLimiter(Limits{Rate: 1, Capacity: 1})
	require.NoError(t, err)

	require.NoError(t, limiter.Acquire(context.Background()))
	before := limiter.Tokens()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err = limiter.Acquire(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// Cancellation while waiting does not consume or reset tokens beyond
	// normal refill.
	assert.GreaterOrEqual(t, limiter.Tokens(), before)
}

func TestLimiterAcquireCancelledBeforeWaiting(t *testing.T) {
	limiter, err := NewLimiter(Limits{Rate: 2, Capacity: 5})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = limiter.Acquire(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.InDelta(t, 5.0, limiter.Tokens(), 1e-9)
}

func TestLimiterConcurrentAcquires(t *testing.T) {
	limiter, err := NewLimiter(Limits{Rate: 100, Capacity: 20})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- limiter.Acquire(context.Background())
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, limiter.Tokens(), 0.0)
}
