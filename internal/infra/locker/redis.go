package locker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const (
	keyPrefix     = "parking:lock:"
	retryInterval = 25 * time.Millisecond
)

// Снимаем блокировку только если она все еще наша
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

type redisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// RedisLocker распределенная блокировка по ключу: SET NX PX + compare-and-delete
// Нужна, когда запущено несколько экземпляров сервиса над одной базой
type RedisLocker struct {
	client redisClient
	ttl    time.Duration
	logger Logger
}

// NewRedisLocker создает блокировку поверх клиента Redis
// ttl ограничивает время жизни ключа, если экземпляр упал, не сняв блокировку
func NewRedisLocker(client redisClient, ttl time.Duration, logger Logger) *RedisLocker {
	return &RedisLocker{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Lock ждет блокировку до отмены ctx
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	redisKey := keyPrefix + key

	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: key=%s: %v", ErrTimeout, key, ctx.Err())
			}
			return nil, fmt.Errorf("%w: key=%s: %v", ErrAcquire, key, err)
		}
		if ok {
			return l.unlockFunc(redisKey, token), nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: key=%s: %v", ErrTimeout, key, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (l *RedisLocker) unlockFunc(redisKey, token string) func() {
	var once sync.Once
	return func() {
		once.Do(func() { l.release(redisKey, token) })
	}
}

func (l *RedisLocker) release(redisKey, token string) {
	// Контекст запроса мог уже истечь, а ключ нужно снять в любом случае
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := l.client.Eval(ctx, releaseScript, []string{redisKey}, token).Err(); err != nil {
		l.logger.Warn("Unlock: failed to release %s, it will expire in %s: %v", redisKey, l.ttl, err)
	}
}
