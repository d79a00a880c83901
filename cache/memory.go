package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type entry struct {
	value     string
	expiresAt time.Time // zero means no expiration
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryClient is an in-process stand-in for the Redis commands the services
// use. Results are returned as go-redis command values so callers handle both
// backends the same way, including redis.Nil on a miss.
type MemoryClient struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (c *MemoryClient) Get(_ context.Context, key string) *redis.StringCmd {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || e.expired(c.now()) {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(e.value, nil)
}

func (c *MemoryClient) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		s = fmt.Sprint(v)
	}

	e := entry{value: s}
	if expiration > 0 {
		e.expiresAt = c.now().Add(expiration)
	}

	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()

	return redis.NewStatusResult("OK", nil)
}

func (c *MemoryClient) Del(_ context.Context, keys ...string) *redis.IntCmd {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int64
	now := c.now()
	for _, k := range keys {
		if e, ok := c.entries[k]; ok {
			if !e.expired(now) {
				n++
			}
			delete(c.entries, k)
		}
	}
	return redis.NewIntResult(n, nil)
}

// TTL returns the remaining lifetime of key, -1 for keys without expiration
// and -2 for missing keys, mirroring the Redis TTL command.
func (c *MemoryClient) TTL(key string) time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || e.expired(c.now()) {
		return -2
	}
	if e.expiresAt.IsZero() {
		return -1
	}
	return e.expiresAt.Sub(c.now())
}
