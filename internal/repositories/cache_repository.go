package repositories

import (
	"context"
	"time"
)

// CacheRepositoryInterface — контракт кеша для агрегатора статистики.
// ErrCacheMiss отличается от прочих ошибок в реализации.
type CacheRepositoryInterface interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}
