package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/dimitrije/taskhive-api/internal/apperr"
	"github.com/dimitrije/taskhive-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	sweepInterval = 5 * time.Minute
	limiterTTL    = 10 * time.Minute
)

// RateLimiter hands out one token bucket per client key. Idle buckets are
// dropped during Allow once sweepInterval has passed.
type RateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	perMinute int
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(perMinute, burst int) *RateLimiter {
	return &RateLimiter{
		limiters:  make(map[string]*limiterEntry),
		perMinute: perMinute,
		limit:     rate.Limit(float64(perMinute) / 60.0),
		burst:     burst,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// Allow consumes a token for key and reports whether the request may proceed
// along with the tokens left afterwards.
func (r *RateLimiter) Allow(key string) (bool, int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if now.Sub(r.lastSweep) > sweepInterval {
		for k, e := range r.limiters {
			if now.Sub(e.lastSeen) > limiterTTL {
				delete(r.limiters, k)
			}
		}
		r.lastSweep = now
	}

	entry, ok := r.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(r.limit, r.burst)}
		r.limiters[key] = entry
	}
	entry.lastSeen = now

	allowed := entry.limiter.AllowN(now, 1)
	remaining := int(entry.limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return allowed, remaining
}

// retryAfter is the number of whole seconds until one token is available.
func (r *RateLimiter) retryAfter() int {
	if r.limit <= 0 {
		return 60
	}
	secs := int(1 / float64(r.limit))
	if secs < 1 {
		secs = 1
	}
	return secs
}

func (r *RateLimiter) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.limiters)
}

// RateLimit throttles requests per client IP as resolved through proxies.
// Exhausted clients get 429 with a Retry-After header.
func RateLimit(rl *RateLimiter, proxies TrustedProxies) drift.HandlerFunc {
	return func(c *drift.Context) {
		ip := proxies.ClientIP(c)
		allowed, remaining := rl.Allow(ip)

		c.Response.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.perMinute))
		c.Response.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			retry := rl.retryAfter()
			c.Response.Header().Set("Retry-After", strconv.Itoa(retry))
			log.Warn().Str("remote_ip", ip).Str("path", c.Request.URL.Path).Msg("Rate limit exceeded")
			_ = c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Message:   "Too many requests. Please retry after " + strconv.Itoa(retry) + " seconds.",
				ErrorCode: apperr.CodeTooManyRequests,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
