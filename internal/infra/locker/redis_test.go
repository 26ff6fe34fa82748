package locker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/pkg/logger"
)

// fakeRedis эмулирует SET NX и скрипт снятия блокировки
type fakeRedis struct {
	mu      sync.Mutex
	values  map[string]string
	setErr  error
	evalled int
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: make(map[string]string)}
}

func (f *fakeRedis) SetNX(ctx context.Context, key string, value interface{}, _ time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.setErr != nil {
		return redis.NewBoolResult(false, f.setErr)
	}
	if _, ok := f.values[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.values[key] = value.(string)
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) Eval(_ context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.evalled++
	if f.values[keys[0]] == args[0].(string) {
		delete(f.values, keys[0])
		return redis.NewCmdResult(int64(1), nil)
	}
	return redis.NewCmdResult(int64(0), nil)
}

func TestRedisLocker_LockUnlock(t *testing.T) {
	client := newFakeRedis()
	l := NewRedisLocker(client, time.Minute, logger.NewNop())

	unlock, err := l.Lock(context.Background(), "slot:lot-1:A001")
	require.NoError(t, err)
	assert.Contains(t, client.values, "parking:lock:slot:lot-1:A001")

	unlock()
	unlock()

	assert.Empty(t, client.values)
	assert.Equal(t, 1, client.evalled)
}

func TestRedisLocker_WaitsForRelease(t *testing.T) {
	l := NewRedisLocker(newFakeRedis(), time.Minute, logger.NewNop())

	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		second, err := l.Lock(context.Background(), "k")
		if assert.NoError(t, err) {
			second()
		}
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first is held")
	case <-time.After(3 * retryInterval):
	}

	unlock()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second lock was not acquired after release")
	}
}

func TestRedisLocker_ContextCancelled(t *testing.T) {
	l := NewRedisLocker(newFakeRedis(), time.Minute, logger.NewNop())

	_, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*retryInterval)
	defer cancel()

	_, err = l.Lock(ctx, "k")
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestRedisLocker_RedisError(t *testing.T) {
	client := newFakeRedis()
	client.setErr = errors.New("connection refused")
	l := NewRedisLocker(client, time.Minute, logger.NewNop())

	_, err := l.Lock(context.Background(), "k")
	assert.ErrorIs(t, err, ErrAcquire)
}
