package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

func newRedisLocker(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	l := NewRedis(rdb, 10*time.Second)
	l.poll = 5 * time.Millisecond
	return l, mr
}

func lockers(t *testing.T) map[string]locker {
	rl, _ := newRedisLocker(t)
	return map[string]locker{
		"local": NewLocal(),
		"redis": rl,
	}
}

func TestLocker_SerializesSameKey(t *testing.T) {
	for name, l := range lockers(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var (
				mu      sync.Mutex
				inside  int
				maxSeen int
				wg      sync.WaitGroup
			)

			for range 8 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					unlock, err := l.Lock(ctx, "project:p-1")
					if !assert.NoError(t, err) {
						return
					}
					mu.Lock()
					inside++
					if inside > maxSeen {
						maxSeen = inside
					}
					mu.Unlock()

					time.Sleep(2 * time.Millisecond)

					mu.Lock()
					inside--
					mu.Unlock()
					unlock()
				}()
			}
			wg.Wait()

			assert.Equal(t, 1, maxSeen)
		})
	}
}

func TestLocker_DifferentKeysDoNotBlock(t *testing.T) {
	for name, l := range lockers(t) {
		t.Run(name, func(t *testing.T) {
			unlockA, err := l.Lock(context.Background(), "project:a")
			require.NoError(t, err)
			defer unlockA()

			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			unlockB, err := l.Lock(ctx, "project:b")
			require.NoError(t, err)
			unlockB()
		})
	}
}

func TestLocker_ContextCancelledWhileWaiting(t *testing.T) {
	for name, l := range lockers(t) {
		t.Run(name, func(t *testing.T) {
			unlock, err := l.Lock(context.Background(), "project:p-1")
			require.NoError(t, err)

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
			defer cancel()
			_, err = l.Lock(ctx, "project:p-1")
			assert.ErrorIs(t, err, context.DeadlineExceeded)

			unlock()
			unlock() // second call is harmless

			unlock2, err := l.Lock(context.Background(), "project:p-1")
			require.NoError(t, err)
			unlock2()
		})
	}
}

func TestLocalLocker_ForgetsReleasedKeys(t *testing.T) {
	l := NewLocal()
	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	assert.Len(t, l.keys, 1)

	unlock()
	assert.Empty(t, l.keys)
}

func TestRedisLocker_ExpiredLockIsNotReleasedByOldHolder(t *testing.T) {
	l, mr := newRedisLocker(t)
	ctx := context.Background()

	unlockOld, err := l.Lock(ctx, "project:p-1")
	require.NoError(t, err)

	mr.FastForward(11 * time.Second)

	unlockNew, err := l.Lock(ctx, "project:p-1")
	require.NoError(t, err)

	unlockOld()
	assert.True(t, mr.Exists("lock:project:p-1"))

	unlockNew()
	assert.False(t, mr.Exists("lock:project:p-1"))
}
