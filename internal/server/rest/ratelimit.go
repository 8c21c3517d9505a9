package rest

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const limiterTTL = 10 * time.Minute

// clientBuckets hands out one token bucket per client key. Buckets idle for
// longer than ttl are dropped by a sweep that runs at most once per ttl.
type clientBuckets struct {
	mu        sync.Mutex
	every     rate.Limit
	burst     int
	ttl       time.Duration
	now       func() time.Time
	nextSweep time.Time
	buckets   map[string]*clientBucket
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClientBuckets(every rate.Limit, burst int, ttl time.Duration) *clientBuckets {
	return &clientBuckets{
		every:   every,
		burst:   burst,
		ttl:     ttl,
		now:     time.Now,
		buckets: make(map[string]*clientBucket),
	}
}

func (cb *clientBuckets) allow(key string) bool {
	now := cb.now()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	if now.After(cb.nextSweep) {
		cb.sweep(now)
	}

	b, ok := cb.buckets[key]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(cb.every, cb.burst)}
		cb.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// sweep must be called with mu held.
func (cb *clientBuckets) sweep(now time.Time) {
	cutoff := now.Add(-cb.ttl)
	for key, b := range cb.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(cb.buckets, key)
		}
	}
	cb.nextSweep = now.Add(cb.ttl)
}

// loginLimiter throttles login attempts per client IP. A non-positive rate disables it.
func loginLimiter(cfg RateLimit) gin.HandlerFunc {
	if cfg.PerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	buckets := newClientBuckets(rate.Every(time.Minute/time.Duration(cfg.PerMinute)), burst, limiterTTL)

	return func(c *gin.Context) {
		if !buckets.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many login attempts"})
			return
		}
		c.Next()
	}
}
