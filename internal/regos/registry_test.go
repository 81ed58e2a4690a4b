package regos

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistryValidation(t *testing.T) {
	registry, err := NewRegistry(Limits{Rate: 0, Capacity: 10})
	require.Error(t, err)
	assert.Nil(t, registry)

	registry, err = NewRegistry(Limits{Rate: 2, Capacity: 0})
	require.Error(t, err)
	assert.Nil(t, registry)
}

func TestRegistryReturnsSameLimiterPerCredential(t *testing.T) {
	registry, err := NewRegistry(DefaultLimits)
	require.NoError(t, err)

	first := registry.Get("token-a")
	second := registry.Get("token-a")
	require.NotNil(t, first)
	assert.Same(t, first, second)
	assert.Equal(t, 1, registry.Len())
}

func TestRegistryIsolatesCredentials(t *testing.T) {
	registry, err := NewRegistry(Limits{Rate: 2, Capacity: 3})
	require.NoError(t, err)

	a := registry.Get("token-a")
	b := registry.Get("token-b")
	require.NotSame(t, a, b)
	assert.Equal(t, 2, registry.Len())

	// Draining one credential's bucket leaves the other untouched.
	ctx := t.Context()
	for i := 0; i < 3; i++ {
		require.NoError(t, a.Acquire(ctx))
	}
	assert.InDelta(t, 0.0, a.Tokens(), 0.01)
	assert.InDelta(t, 3.0, b.Tokens(), 0.01)
}

func TestRegistryConcurrentFirstUse(t *testing.T) {
	registry, err := NewRegistry(DefaultLimits)
	require.NoError(t, err)

	const workers = 32
	results := make([]*Limiter, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = registry.Get("shared-token")
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		assert.Same(t, results[0], results[i])
	}
	assert.Equal(t, 1, registry.Len())
}

func TestRegistryConcurrentDistinctCredentials(t *testing.T) {
	registry, err := NewRegistry(DefaultLimits)
	require.NoError(t, err)

	const n = 16
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			registry.Get(fmt.Sprintf("token-%d", i))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, n, registry.Len())
}
