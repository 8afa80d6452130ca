package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"amazonia/pkg/metrics"
	"amazonia/pkg/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// idleLimiterTTL is how long an IP's bucket survives without traffic.
const idleLimiterTTL = time.Hour

// RateLimiter keeps one token bucket per client IP. A bucket holds
// requests tokens and refills them evenly over window.
type RateLimiter struct {
	scope    string
	limit    rate.Limit
	burst    int
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

func NewRateLimiter(scope string, requests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		scope:    scope,
		limit:    rate.Limit(float64(requests) / window.Seconds()),
		burst:    requests,
		limiters: make(map[string]*limiterEntry),
		now:      time.Now,
		stop:     make(chan struct{}),
	}
}

// Reserve takes a token for key. When none is available it returns false
// and how long the caller should wait.
func (rl *RateLimiter) Reserve(key string) (bool, time.Duration) {
	now := rl.now()

	rl.mu.Lock()
	entry, ok := rl.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[key] = entry
	}
	entry.lastAccess = now
	limiter := entry.limiter
	rl.mu.Unlock()

	r := limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Second
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Cleanup drops buckets idle for longer than idleLimiterTTL.
func (rl *RateLimiter) Cleanup() int {
	threshold := rl.now().Add(-idleLimiterTTL)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	removed := 0
	for key, e := range rl.limiters {
		if e.lastAccess.Before(threshold) {
			delete(rl.limiters, key)
			removed++
		}
	}
	return removed
}

// StartCleanup runs Cleanup every interval until Stop.
func (rl *RateLimiter) StartCleanup(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.Cleanup()
			case <-rl.stop:
				return
			}
		}
	}()
}

func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// Middleware rejects requests over the limit with 429 and Retry-After.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, wait := rl.Reserve(c.ClientIP())
		if !ok {
			metrics.RateLimited.WithLabelValues(rl.scope).Inc()
			secs := int(math.Ceil(wait.Seconds()))
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			utils.RespondError(c, http.StatusTooManyRequests, "too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}
