package middleware

import (
	"clementus360/task-manager/config"
	"clementus360/task-manager/types"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/netip"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window request counter kept in Redis, so every API
// instance shares the same budget per client.
type RateLimiter struct {
	rdb     *redis.Client
	max     int
	window  time.Duration
	prefix  string
	trusted []netip.Prefix
}

// NewRateLimiter builds a limiter keyed by client IP. X-Forwarded-For is
// only consulted for requests arriving from one of the trusted proxies.
func NewRateLimiter(rdb *redis.Client, max int, window time.Duration, trusted ...netip.Prefix) *RateLimiter {
	return &RateLimiter{rdb: rdb, max: max, window: window, prefix: "ratelimit:", trusted: trusted}
}

// Allow counts one request for key. remaining never goes below zero and reset
// is the time left in the current window. A counter found without a TTL gets
// the window applied again so a lost EXPIRE cannot block a client for good.
func (l *RateLimiter) Allow(ctx context.Context, key string) (allowed bool, remaining int, reset time.Duration, err error) {
	k := l.prefix + key

	count, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		return true, l.max, 0, fmt.Errorf("rate limit incr: %w", err)
	}

	reset, err = l.rdb.PTTL(ctx, k).Result()
	if err != nil {
		return true, l.max, 0, fmt.Errorf("rate limit ttl: %w", err)
	}
	if reset < 0 {
		if err := l.rdb.Expire(ctx, k, l.window).Err(); err != nil {
			return true, l.max, 0, fmt.Errorf("rate limit expire: %w", err)
		}
		reset = l.window
	}

	remaining = l.max - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return int(count) <= l.max, remaining, reset, nil
}

// RateLimitMiddleware limits requests per client IP. A nil limiter disables
// limiting, and Redis failures let the request through.
func RateLimitMiddleware(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, remaining, reset, err := limiter.Allow(r.Context(), clientIP(r, limiter.trusted))
			if err != nil {
				config.Logger.Warn("Rate limiter unavailable: ", err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.max))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(reset.Round(time.Second)/time.Second)))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(types.ErrorResponse{Error: "Too many requests. Please try again later."})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
