package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go-candidate-backend/internal/delivery/http/response"
	"go-candidate-backend/pkg/redis"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig holds configuration for the fixed-window limiter
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Key prefix for Redis counters
	KeyPrefix string
}

// rateLimitEntry tracks request count for a key (in-memory fallback)
type rateLimitEntry struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

var (
	rateLimitStore = sync.Map{}
	cleanupOnce    sync.Once
)

// Atomic increment with TTL set on first hit.
// KEYS[1] = counter key, ARGV[1] = TTL seconds. Returns {count, ttl}.
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

func startCleanup() {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		for range ticker.C {
			now := time.Now()
			rateLimitStore.Range(func(key, value interface{}) bool {
				entry := value.(*rateLimitEntry)
				entry.mu.Lock()
				if now.After(entry.resetAt) {
					rateLimitStore.Delete(key)
				}
				entry.mu.Unlock()
				return true
			})
		}
	}()
}

// RateLimit limits requests per client IP using Redis when available and an
// in-memory counter otherwise.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	cleanupOnce.Do(startCleanup)

	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "rl:ip:"
	}

	return func(c *gin.Context) {
		key := cfg.KeyPrefix + c.ClientIP()

		var count int
		var retryAfter time.Duration

		if client := redis.Client(); client != nil {
			result, err := client.Eval(c, rateLimitLuaScript, []string{key},
				int(cfg.Window.Seconds())).Result()
			if err == nil {
				values := result.([]interface{})
				count = int(values[0].(int64))
				retryAfter = time.Duration(values[1].(int64)) * time.Second
			} else if err != goredis.Nil {
				// Redis down: fall back to the local counter
				count, retryAfter = incrementLocal(key, cfg.Window)
			}
		} else {
			count, retryAfter = incrementLocal(key, cfg.Window)
		}

		remaining := cfg.Limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if count > cfg.Limit {
			c.Header("Retry-After", fmt.Sprintf("%.0f", retryAfter.Seconds()))
			response.Error(c, http.StatusTooManyRequests, "Too many requests. Please try again later.", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

func incrementLocal(key string, window time.Duration) (int, time.Duration) {
	now := time.Now()
	value, _ := rateLimitStore.LoadOrStore(key, &rateLimitEntry{resetAt: now.Add(window)})
	entry := value.(*rateLimitEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if now.After(entry.resetAt) {
		entry.count = 0
		entry.resetAt = now.Add(window)
	}
	entry.count++
	return entry.count, time.Until(entry.resetAt)
}
