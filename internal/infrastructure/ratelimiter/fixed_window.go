package ratelimiter

import (
	"sync"
	"sync/atomic"
	"time"
)

type Limiter interface {
	Allow(source string) (bool, time.Duration)
	Close()
}

// FixedWindowRateLimiter counts requests per source within fixed,
// clock-aligned windows. State for idle sources is dropped by a
// background sweep once their window has passed.
type FixedWindowRateLimiter struct {
	counts      sync.Map // source -> *windowState
	limit       int64
	window      time.Duration
	cleanupTick *time.Ticker
	done        chan struct{}
}

type windowState struct {
	count   int64        // atomic
	resetAt atomic.Value // stores time.Time
	mu      sync.Mutex   // only for window rollover (rare)
}

func NewFixedWindowRateLimiter(limit int, window time.Duration) *FixedWindowRateLimiter {
	rl := &FixedWindowRateLimiter{
		limit:       int64(limit),
		window:      window,
		cleanupTick: time.NewTicker(window),
		done:        make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *FixedWindowRateLimiter) Allow(source string) (bool, time.Duration) {
	now := time.Now()
	nextReset := now.Truncate(rl.window).Add(rl.window)

	val, _ := rl.counts.LoadOrStore(source, &windowState{})
	state := val.(*windowState)

	// First request from this source
	if state.resetAt.Load() == nil {
		state.resetAt.Store(nextReset)
		atomic.StoreInt64(&state.count, 1)
		return true, 0
	}

	currentReset := state.resetAt.Load().(time.Time)

	if now.Before(currentReset) {
		return rl.countAgainst(state, currentReset)
	}

	// Window expired: roll over under the lock
	state.mu.Lock()
	defer state.mu.Unlock()

	// Another goroutine may have rolled the window while we waited
	if currentReset := state.resetAt.Load().(time.Time); now.Before(currentReset) {
		return rl.countAgainst(state, currentReset)
	}

	atomic.StoreInt64(&state.count, 1)
	state.resetAt.Store(nextReset)
	return true, 0
}

func (rl *FixedWindowRateLimiter) countAgainst(state *windowState, resetAt time.Time) (bool, time.Duration) {
	newCount := atomic.AddInt64(&state.count, 1)
	if newCount-1 >= rl.limit {
		atomic.AddInt64(&state.count, -1) // rollback
		return false, time.Until(resetAt)
	}
	return true, 0
}

func (rl *FixedWindowRateLimiter) startCleanup() {
	for {
		select {
		case <-rl.cleanupTick.C:
			rl.cleanup()
		case <-rl.done:
			return
		}
	}
}

func (rl *FixedWindowRateLimiter) cleanup() {
	now := time.Now()
	rl.counts.Range(func(key, value any) bool {
		state := value.(*windowState)
		if resetAt := state.resetAt.Load(); resetAt != nil {
			if now.After(resetAt.(time.Time)) {
				rl.counts.Delete(key)
			}
		}
		return true
	})
}

func (rl *FixedWindowRateLimiter) Close() {
	close(rl.done)
	rl.cleanupTick.Stop()
}
