package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"candidate-boutique/internal/delivery/http/response"
	"candidate-boutique/internal/domain"
	"candidate-boutique/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type RateLimitConfig struct {
	Limit  int
	Window time.Duration
	// KeyPrefix namespaces the counters of one limiter.
	KeyPrefix string
	KeyFunc   func(*gin.Context) string
	// FailClosed rejects requests when Redis errors instead of falling back
	// to the in-memory counter.
	FailClosed bool
}

// PublicRateLimitConfig guards the unauthenticated form and token endpoints.
func PublicRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:     limit,
		Window:    window,
		KeyPrefix: "rl:public:",
		KeyFunc:   func(c *gin.Context) string { return c.ClientIP() },
	}
}

// GlobalRateLimitConfig applies to every request.
func GlobalRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:     limit,
		Window:    window,
		KeyPrefix: "rl:ip:",
		KeyFunc:   func(c *gin.Context) string { return c.ClientIP() },
	}
}

// INCR with the expiry set on the first hit of a window.
const rateLimitScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

type memoryWindow struct {
	count   int
	resetAt time.Time
}

// RateLimiter counts requests per key in fixed windows, in Redis when a
// client is given and in process memory otherwise.
type RateLimiter struct {
	client *redis.Client

	mu      sync.Mutex
	windows map[string]*memoryWindow
	sweptAt time.Time
	now     func() time.Time
}

func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client, windows: make(map[string]*memoryWindow), now: time.Now}
}

// Middleware returns a gin handler enforcing cfg.
func (l *RateLimiter) Middleware(cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := cfg.KeyPrefix + cfg.KeyFunc(c)

		count, resetAt, err := l.hit(c.Request.Context(), key, cfg)
		if err != nil {
			logger.Log.Warn("Rate limiter backend failed", "key_prefix", cfg.KeyPrefix, "error", err)
			if cfg.FailClosed {
				response.Error(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.", nil)
				c.Abort()
				return
			}
			count, resetAt = l.hitMemory(key, cfg)
		}

		remaining := cfg.Limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", resetAt.UTC().Format(time.RFC3339))

		if count > cfg.Limit {
			retryAfter := int(resetAt.Sub(l.now()).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			logger.Log.Warn("Rate limit exceeded",
				"ip", c.ClientIP(),
				"path", c.FullPath(),
				"request_id", c.GetString(string(domain.KeyRequestID)),
			)
			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

func (l *RateLimiter) hit(ctx context.Context, key string, cfg RateLimitConfig) (int, time.Time, error) {
	if l.client == nil {
		count, resetAt := l.hitMemory(key, cfg)
		return count, resetAt, nil
	}

	res, err := l.client.Eval(ctx, rateLimitScript, []string{key}, int(cfg.Window.Seconds())).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("rate limit eval: %w", err)
	}
	arr, ok := res.([]interface{})
	if !ok || len(arr) < 2 {
		return 0, time.Time{}, fmt.Errorf("rate limit eval: unexpected result %v", res)
	}
	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)
	return int(count), l.now().Add(time.Duration(ttl) * time.Second), nil
}

func (l *RateLimiter) hitMemory(key string, cfg RateLimitConfig) (int, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.sweptAt) > 5*time.Minute {
		for k, w := range l.windows {
			if now.After(w.resetAt) {
				delete(l.windows, k)
			}
		}
		l.sweptAt = now
	}

	w, ok := l.windows[key]
	if !ok || now.After(w.resetAt) {
		w = &memoryWindow{resetAt: now.Add(cfg.Window)}
		l.windows[key] = w
	}
	w.count++
	return w.count, w.resetAt
}
