package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	// limiterIdleTTL is how long an idle client keeps its bucket. A bucket
	// refills within one minute, so dropping it later loses no state.
	limiterIdleTTL = 10 * time.Minute
	limiterSweep   = time.Minute
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiterStore holds one token bucket per client IP
type rateLimiterStore struct {
	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	every     rate.Limit
	burst     int
	now       func() time.Time
	lastSweep time.Time
}

func newRateLimiterStore(requestsPerMinute int, now func() time.Time) *rateLimiterStore {
	return &rateLimiterStore{
		limiters:  make(map[string]*limiterEntry),
		every:     rate.Every(time.Minute / time.Duration(requestsPerMinute)),
		burst:     requestsPerMinute,
		now:       now,
		lastSweep: now(),
	}
}

func (s *rateLimiterStore) get(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= limiterSweep {
		s.evictIdle(now)
		s.lastSweep = now
	}

	entry, ok := s.limiters[ip]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(s.every, s.burst)}
		s.limiters[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// evictIdle drops buckets not used within limiterIdleTTL. Caller holds mu.
func (s *rateLimiterStore) evictIdle(now time.Time) {
	for ip, entry := range s.limiters {
		if now.Sub(entry.lastSeen) > limiterIdleTTL {
			delete(s.limiters, ip)
		}
	}
}

func (s *rateLimiterStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limiters)
}

// RateLimit allows requestsPerMinute requests per client IP, with the same burst.
// A non-positive limit disables the middleware.
func RateLimit(requestsPerMinute int, logger *slog.Logger) gin.HandlerFunc {
	if requestsPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	store := newRateLimiterStore(requestsPerMinute, time.Now)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !store.get(ip).Allow() {
			logger.Warn("Rate limit exceeded",
				"component", "api",
				"request_id", c.GetString(RequestIDKey),
				"client_ip", ip)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded, try again later",
				"code":  "RATE_LIMITED",
			})
			return
		}
		c.Next()
	}
}
