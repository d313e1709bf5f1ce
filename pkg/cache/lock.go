package cache

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var ErrLockTimeout = errors.New("timed out waiting for lock")

const (
	lockPrefix       = "echo-audit:lock:"
	defaultLockTTL   = 30 * time.Second
	defaultLockWait  = 10 * time.Second
	lockPollInterval = 50 * time.Millisecond
)

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`)

// RedisLocker serialises work on a key across server instances.
type RedisLocker struct {
	client redis.Cmdable
	ttl    time.Duration
	wait   time.Duration
}

func NewRedisLocker(client redis.Cmdable) *RedisLocker {
	return &RedisLocker{client: client, ttl: defaultLockTTL, wait: defaultLockWait}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	token, err := randomToken()
	if err != nil {
		return nil, err
	}
	redisKey := lockPrefix + key

	ctx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()
	ticker := time.NewTicker(lockPollInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ErrLockTimeout
			}
			return nil, err
		}
		if ok {
			return func() {
				releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				if err := releaseScript.Run(releaseCtx, l.client, []string{redisKey}, token).Err(); err != nil {
					log.Warn().Err(err).Str("key", redisKey).Msg("Failed to release lock")
				}
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, ErrLockTimeout
		case <-ticker.C:
		}
	}
}

func randomToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// LocalLocker is a keyed mutex for single-instance deployments.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	ch   chan struct{}
	refs int
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*keyLock)}
}

func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	kl, ok := l.locks[key]
	if !ok {
		kl = &keyLock{ch: make(chan struct{}, 1)}
		l.locks[key] = kl
	}
	kl.refs++
	l.mu.Unlock()

	select {
	case kl.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, kl, false)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.release(key, kl, true) })
	}, nil
}

func (l *LocalLocker) release(key string, kl *keyLock, held bool) {
	if held {
		<-kl.ch
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	kl.refs--
	if kl.refs == 0 {
		delete(l.locks, key)
	}
}

func (l *LocalLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
