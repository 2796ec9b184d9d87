package middleware

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const rateLimitKeyPrefix = "ratelimit:"

// WindowStore counts hits per key within the current fixed window and
// reports when the window resets. Two backends exist: Redis when configured
// (shared across replicas) and an in-process store otherwise.
type WindowStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (count int64, reset time.Time, err error)
}

// RedisWindowStore keeps per-client counters in Redis with the window as TTL.
type RedisWindowStore struct {
	rdb *redis.Client
}

func NewRedisWindowStore(rdb *redis.Client) *RedisWindowStore {
	return &RedisWindowStore{rdb: rdb}
}

func (s *RedisWindowStore) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	ttl := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, time.Time{}, err
	}
	remaining := ttl.Val()
	if remaining < 0 {
		remaining = window
	}
	return incr.Val(), time.Now().Add(remaining), nil
}

// MemoryWindowStore is the single-process fallback, safe for concurrent use.
type MemoryWindowStore struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	now     func() time.Time
}

type windowEntry struct {
	count int64
	reset time.Time
}

func NewMemoryWindowStore() *MemoryWindowStore {
	return &MemoryWindowStore{
		entries: make(map[string]*windowEntry),
		now:     time.Now,
	}
}

func (s *MemoryWindowStore) Incr(_ context.Context, key string, window time.Duration) (int64, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, ok := s.entries[key]
	if !ok || now.After(e.reset) {
		e = &windowEntry{reset: now.Add(window)}
		s.entries[key] = e
	}
	e.count++
	return e.count, e.reset, nil
}

// RateLimit enforces a fixed window per client address: at most limit
// requests per window, 429 beyond the ceiling. The X-RateLimit-* headers are
// reflected on every response. Store failures fail open so a Redis outage
// does not take reads down with it.
func RateLimit(store WindowStore, limit int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rateLimitKeyPrefix + c.ClientIP()
		count, reset, err := store.Incr(c.Request.Context(), key, window)
		if err != nil {
			log.Printf("rate limit store: %v", err)
			c.Next()
			return
		}

		remaining := limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.FormatInt(limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		if count > limit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "Too many requests",
				"message": "Rate limit exceeded, try again later",
			})
			return
		}
		c.Next()
	}
}
