package regos

import (
	"context"
	"math"
	"sync"
	"time"
)

// Limits holds the token bucket parameters applied to a credential.
type Limits struct {
	// Rate is the number of tokens replenished per second.
	Rate float64

	// Capacity is the maximum number of stored tokens (burst size).
	Capacity int
}

// DefaultLimits matches the REGOS integration contract: a sustained
// 2 requests/second with bursts of up to 50.
var DefaultLimits = Limits{Rate: 2, Capacity: 50}

// Limiter is a token bucket admission gate. One instance guards one
// credential; Acquire blocks the caller until a token is available.
type Limiter struct {
	rate     float64
	capacity float64

	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewLimiter validates the parameters and returns a full bucket.
func NewLimiter(limits Limits) (*Limiter, error) {
	if limits.Rate <= 0 {
		return nil, &ConfigError{Reason: "limiter rate must be positive"}
	}
	if limits.Capacity <= 0 {
		return nil, &ConfigError{Reason: "limiter capacity must be positive"}
	}
	return newLimiter(limits), nil
}

// newLimiter assumes limits have already been validated.
func newLimiter(limits Limits) *Limiter {
	l := &Limiter{
		rate:     limits.Rate,
		capacity: float64(limits.Capacity),
		tokens:   float64(limits.Capacity),
		sleep:    sleepContext,
	}
	l.now = time.Now
	l.lastRefill = l.now()
	return l
}

// Acquire blocks until one token is consumed or ctx ends. Cancellation while
// waiting leaves the bucket state untouched and returns ctx.Err().
func (l *Limiter) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	l.refillLocked()

	if l.tokens >= 1 {
		l.tokens--
		l.mu.Unlock()
		return nil
	}

	// Not enough tokens: compute how long until one unit accumulates and
	// sleep without holding the lock so other credentials' callers and this
	// bucket's refill arithmetic are not serialized behind a sleeping waiter.
	wait := time.Duration((1 - l.tokens) / l.rate * float64(time.Second))
	l.mu.Unlock()

	if err := l.sleep(ctx, wait); err != nil {
		return err
	}

	// The slept-for unit is consumed; reset to zero rather than going
	// negative so repeated starvation cannot accumulate unbounded debt.
	l.mu.Lock()
	l.tokens = 0
	l.lastRefill = l.now()
	l.mu.Unlock()
	return nil
}

// refillLocked recomputes tokens from elapsed time. Callers hold l.mu.
func (l *Limiter) refillLocked() {
	now := l.now()
	elapsed := now.Sub(l.lastRefill).Seconds()
	if elapsed > 0 {
		l.tokens = math.Min(l.capacity, l.tokens+elapsed*l.rate)
	}
	l.lastRefill = now
}

// Tokens returns the current token count after a refill pass.
func (l *Limiter) Tokens() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refillLocked()
	return l.tokens
}

// Rate returns the configured replenishment rate in tokens per second.
func (l *Limiter) Rate() float64 {
	return l.rate
}

// Capacity returns the configured burst size.
func (l *Limiter) Capacity() int {
	return int(l.capacity)
}

// sleepContext waits for d or until ctx ends, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
