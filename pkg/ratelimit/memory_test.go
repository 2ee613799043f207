package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
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

func TestMemory_FixedWindow(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)}
	limiter := NewMemory().WithClock(clock.Now)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		res, err := limiter.CheckAndIncrement(ctx, "ip:10.0.0.1", time.Minute, 3)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 3-i, res.Remaining)
	}

	res, err := limiter.CheckAndIncrement(ctx, "ip:10.0.0.1", time.Minute, 3)
	assert.ErrorIs(t, err, ErrLimitExceeded)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
	assert.Equal(t, clock.now.Add(time.Minute), res.ResetAt)

	// Другой ключ считается независимо
	_, err = limiter.CheckAndIncrement(ctx, "ip:10.0.0.2", time.Minute, 3)
	assert.NoError(t, err)

	// После окончания окна счетчик начинается заново
	clock.Advance(time.Minute)
	res, err = limiter.CheckAndIncrement(ctx, "ip:10.0.0.1", time.Minute, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Remaining)
	assert.Equal(t, clock.Now().Add(time.Minute), res.ResetAt)
}

func TestMemory_ConcurrentIncrementsAreAtomic(t *testing.T) {
	limiter := NewMemory()
	ctx := context.Background()

	const callers = 50
	const limit = 10

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, _ := limiter.CheckAndIncrement(ctx, "user:1:POST /appointments", time.Hour, limit)
			if res.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, limit, allowed)
}

func TestMemory_PurgesExpiredKeysLazily(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)}
	limiter := NewMemory().WithClock(clock.Now)
	limiter.purgeThreshold = 2
	ctx := context.Background()

	_, _ = limiter.CheckAndIncrement(ctx, "a", time.Second, 5)
	_, _ = limiter.CheckAndIncrement(ctx, "b", time.Second, 5)
	assert.Equal(t, 2, limiter.Len())

	clock.Advance(2 * time.Second)
	_, _ = limiter.CheckAndIncrement(ctx, "c", time.Second, 5)
	assert.Equal(t, 1, limiter.Len())
}
