package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/guardian-backend-go/pkg/response"
)

// RateLimiter is a sliding-window limiter keyed by client
type RateLimiter struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	limit  int
	window time.Duration
	now    func() time.Time
	done   chan struct{}
	exited chan struct{}
	once   sync.Once
}

// NewRateLimiter allows limit requests per key within window. A background
// sweep drops idle keys until Stop is called.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		hits:   make(map[string][]time.Time),
		limit:  limit,
		window: window,
		now:    time.Now,
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	go rl.sweep()
	return rl
}

// Stop ends the background sweep and waits for it to exit. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.done) })
	<-rl.exited
}

// prune drops hits outside the window; the caller holds mu
func (rl *RateLimiter) prune(key string, now time.Time) []time.Time {
	hits := rl.hits[key]
	kept := hits[:0]
	for _, t := range hits {
		if now.Sub(t) < rl.window {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		delete(rl.hits, key)
		return nil
	}
	rl.hits[key] = kept
	return kept
}

func (rl *RateLimiter) sweep() {
	defer close(rl.exited)
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := rl.now()
			for key := range rl.hits {
				rl.prune(key, now)
			}
			rl.mu.Unlock()
		}
	}
}

// Allow records a hit for key and reports whether it is within the limit.
// Rejected hits are not recorded.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	hits := rl.prune(key, now)
	if len(hits) >= rl.limit {
		return false
	}
	rl.hits[key] = append(hits, now)
	return true
}

// RateLimit rejects clients that exceed the limiter with 429
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	retryAfter := strconv.Itoa(int(limiter.window.Seconds()))
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.Header("Retry-After", retryAfter)
			response.TooManyRequests(c, "Rate limit exceeded. Please try again later.")
			return
		}
		c.Next()
	}
}
