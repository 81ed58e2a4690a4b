package regos

import (
	"sync"
)

// Registry lazily maps credentials to their shared limiter. All callers
// using the same credential observe the same bucket, so retries and parallel
// reports draw from one budget.
//
// The registry is owned by the client that uses it; there is no package-level
// instance. Entries live for the registry lifetime, which is acceptable while
// the set of credentials stays small and bounded.
type Registry struct {
	mu      sync.Mutex
	limits  Limits
	entries map[string]*Limiter
}

// NewRegistry validates the default limits applied to new credentials.
func NewRegistry(limits Limits) (*Registry, error) {
	if limits.Rate <= 0 {
		return nil, &ConfigError{Reason: "registry rate must be positive"}
	}
	if limits.Capacity <= 0 {
		return nil, &ConfigError{Reason: "registry capacity must be positive"}
	}
	return &Registry{
		limits:  limits,
		entries: make(map[string]*Limiter),
	}, nil
}

// Get returns the limiter for a credential, constructing it on first use.
// The check-then-insert runs under one lock so concurrent first-use cannot
// produce two buckets for the same credential.
func (r *Registry) Get(credential string) *Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limiter, ok := r.entries[credential]; ok {
		return limiter
	}

	limiter := newLimiter(r.limits)
	r.entries[credential] = limiter
	return limiter
}

// Len reports the number of distinct credentials seen so far.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
