package memory

import (
	"context"
	"sync"
	"time"

	"github.com/MiguelMialdeaDev/ShopFlow/internal/infra/cache"
)

type entry struct {
	value     string
	expiresAt time.Time
}

// MemoryCache 程序內快取, 未設定redis時使用
type MemoryCache struct {
	mu sync.RWMutex
	m  map[string]entry
}

func NewMemoryCache() cache.Cache {
	return &MemoryCache{m: make(map[string]entry)}
}

var _ cache.Cache = (*MemoryCache)(nil)

func (c *MemoryCache) Ping(ctx context.Context) (string, error) {
	return "PONG", nil
}

func (c *MemoryCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return "", cache.ErrKeyNotFound
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		return "", cache.ErrKeyNotFound
	}
	return e.value, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.m[key] = entry{value: value, expiresAt: expiresAt}
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.m, key)
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.Get(ctx, key)
	if err == cache.ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.m = make(map[string]entry)
	c.mu.Unlock()
	return nil
}
