package infrastructure

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MessageRateLimiter hands out one token bucket per key (bot id, client
// address). Buckets idle for longer than idleTTL are dropped.
type MessageRateLimiter[K comparable] struct {
	mu       sync.Mutex
	buckets  map[K]*bucket
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewMessageRateLimiter creates a limiter allowing perSecond events per key
// with the given burst.
func NewMessageRateLimiter[K comparable](perSecond float64, burst int) *MessageRateLimiter[K] {
	rl := &MessageRateLimiter[K]{
		buckets: make(map[K]*bucket),
		limit:   rate.Limit(perSecond),
		burst:   burst,
		idleTTL: 10 * time.Minute,
		stop:    make(chan struct{}),
	}
	go rl.cleanup(5 * time.Minute)
	return rl
}

func (rl *MessageRateLimiter[K]) get(key K) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = time.Now()
	return b.limiter
}

// Allow consumes a token for key if one is available.
func (rl *MessageRateLimiter[K]) Allow(key K) bool {
	return rl.get(key).Allow()
}

// Wait blocks until key may proceed or ctx is done.
func (rl *MessageRateLimiter[K]) Wait(ctx context.Context, key K) error {
	return rl.get(key).Wait(ctx)
}

// Reset forgets the bucket of key.
func (rl *MessageRateLimiter[K]) Reset(key K) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.buckets, key)
}

// Len returns the number of tracked keys.
func (rl *MessageRateLimiter[K]) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}

// Close stops the cleanup goroutine.
func (rl *MessageRateLimiter[K]) Close() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *MessageRateLimiter[K]) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case now := <-ticker.C:
			rl.evictIdle(now)
		}
	}
}

func (rl *MessageRateLimiter[K]) evictIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, b := range rl.buckets {
		if now.Sub(b.lastSeen) > rl.idleTTL {
			delete(rl.buckets, key)
		}
	}
}
