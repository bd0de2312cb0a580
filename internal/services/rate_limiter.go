package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"messaging-service/internal/database"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimiter decides whether one more request under key fits in the window.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RedisRateLimiter keeps a sliding window per key in a sorted set, so limits
// hold across every instance sharing the Redis server.
type RedisRateLimiter struct {
	client *database.RedisClient
}

func NewRedisRateLimiter(client *database.RedisClient) *RedisRateLimiter {
	return &RedisRateLimiter{client: client}
}

func (r *RedisRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	windowStart := now.Add(-window).UnixNano()

	pipe := r.client.GetClient().Pipeline()

	// Remove old entries
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart))

	// Count current entries
	count := pipe.ZCard(ctx, key)

	// Add current request
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixNano()), Member: windowMember(now)})

	pipe.Expire(ctx, key, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	return count.Val() < int64(limit), nil
}

// windowMember is unique per request so same-nanosecond hits count separately.
func windowMember(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.UnixNano(), uuid.NewString())
}

// MemoryRateLimiter holds a token bucket per key inside this process.
type MemoryRateLimiter struct {
	mu              sync.Mutex
	clients         map[string]*clientEntry
	idleTTL         time.Duration
	cleanupInterval time.Duration
	stopCh          chan struct{}
	stopOnce        sync.Once
}

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewMemoryRateLimiter starts a limiter whose idle buckets are dropped every
// cleanupInterval. Call Stop to end the cleanup goroutine.
func NewMemoryRateLimiter(cleanupInterval time.Duration) *MemoryRateLimiter {
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}
	s := &MemoryRateLimiter{
		clients:         map[string]*clientEntry{},
		idleTTL:         10 * time.Minute,
		cleanupInterval: cleanupInterval,
		stopCh:          make(chan struct{}),
	}
	go s.cleanupLoop()
	return s
}

func (s *MemoryRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.evictIdle(time.Now().Add(-s.idleTTL))
		case <-s.stopCh:
			return
		}
	}
}

func (s *MemoryRateLimiter) evictIdle(cutoff time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range s.clients {
		if v.lastSeen.Before(cutoff) {
			delete(s.clients, k)
		}
	}
}

func (s *MemoryRateLimiter) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

func (s *MemoryRateLimiter) getLimiter(key string, limit int, window time.Duration) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.clients[key]; ok {
		e.lastSeen = time.Now()
		return e.limiter
	}
	limiter := rate.NewLimiter(rate.Every(window/time.Duration(limit)), limit)
	s.clients[key] = &clientEntry{limiter: limiter, lastSeen: time.Now()}
	return limiter
}

func (s *MemoryRateLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 || window <= 0 {
		return true, nil
	}
	return s.getLimiter(key, limit, window).Allow(), nil
}
