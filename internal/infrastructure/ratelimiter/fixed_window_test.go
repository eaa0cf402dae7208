package ratelimiter

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowWithinLimit(t *testing.T) {
	rl := NewFixedWindowRateLimiter(3, time.Hour)
	defer rl.Close()

	for i := 0; i < 3; i++ {
		allowed, _ := rl.Allow("1.2.3.4")
		assert.True(t, allowed, "request %d should be allowed", i)
	}

	allowed, retryAfter := rl.Allow("1.2.3.4")
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))
}

func TestSourcesAreIndependent(t *testing.T) {
	rl := NewFixedWindowRateLimiter(1, time.Hour)
	defer rl.Close()

	allowed, _ := rl.Allow("1.2.3.4")
	assert.True(t, allowed)
	allowed, _ = rl.Allow("1.2.3.4")
	assert.False(t, allowed)

	allowed, _ = rl.Allow("5.6.7.8")
	assert.True(t, allowed)
}

func TestConcurrentAllowNeverExceedsLimit(t *testing.T) {
	const limit = 10
	rl := NewFixedWindowRateLimiter(limit, time.Hour)
	defer rl.Close()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := rl.Allow("shared"); ok {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, limit, allowedCount)
}

func TestDistinctSourcesDoNotInterfere(t *testing.T) {
	rl := NewFixedWindowRateLimiter(1, time.Hour)
	defer rl.Close()

	for i := 0; i < 20; i++ {
		allowed, _ := rl.Allow(fmt.Sprintf("10.0.0.%d", i))
		assert.True(t, allowed)
	}
}
