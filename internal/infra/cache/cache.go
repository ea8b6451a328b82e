package cache

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound key不存在
var ErrKeyNotFound = errors.New("cache: key not found")

type Cache interface {
	// 基本操作
	Ping(ctx context.Context) (string, error)
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)

	// 辅助功能
	Clear(ctx context.Context) error
}
