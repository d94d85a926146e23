package lock

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
)

// Unlock снимает блокировки, взятые Lock
type Unlock func(ctx context.Context) error

// releaseScript удаляет ключ, только если в нем все еще наш токен
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker блокирует пары (площадка, дата) ключами SET NX PX
type RedisLocker struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisLocker создает новый экземпляр RedisLocker, ttl ограничивает время жизни блокировки
func NewRedisLocker(client *redis.Client, prefix string, ttl time.Duration) *RedisLocker {
	if prefix == "" {
		prefix = "banquet:lock"
	}
	return &RedisLocker{client: client, prefix: prefix, ttl: ttl}
}

// Lock берет по ключу на каждую пару (площадка, дата) заполненных сессий.
// Ключи берутся в отсортированном порядке, при ошибке взятые ключи освобождаются.
func (l *RedisLocker) Lock(ctx context.Context, items []domain.Session) (Unlock, error) {
	keys := l.keys(items)
	token := uuid.NewString()

	acquired := make([]string, 0, len(keys))
	release := func(ctx context.Context) error {
		var firstErr error
		for i := len(acquired) - 1; i >= 0; i-- {
			if err := releaseScript.Run(ctx, l.client, []string{acquired[i]}, token).Err(); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("%w: release %s: %v", ErrBackend, acquired[i], err)
			}
		}
		return firstErr
	}

	for _, key := range keys {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			_ = release(context.WithoutCancel(ctx))
			return nil, fmt.Errorf("%w: acquire %s: %v", ErrBackend, key, err)
		}
		if !ok {
			_ = release(context.WithoutCancel(ctx))
			return nil, fmt.Errorf("%w: %s", ErrLocked, key)
		}
		acquired = append(acquired, key)
	}

	return release, nil
}

func (l *RedisLocker) keys(items []domain.Session) []string {
	seen := make(map[string]struct{}, len(items))
	keys := make([]string, 0, len(items))
	for i := range items {
		s := &items[i]
		if !s.IsSchedulable() {
			continue
		}
		key := fmt.Sprintf("%s:%s:%s", l.prefix, s.Venue, s.SessionDate.Key())
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// NoopLocker используется при выключенном Redis, ограничение на слоты продолжает действовать
type NoopLocker struct{}

// Lock всегда успешен
func (NoopLocker) Lock(context.Context, []domain.Session) (Unlock, error) {
	return func(context.Context) error { return nil }, nil
}
