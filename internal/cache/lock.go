package cache

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// ErrLocked is returned by TryLock when the lock is already held.
var ErrLocked = errors.New("lock is already held")

const unlockScript = `
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	end
	return 0
`

// TryLock acquires the lock KeyPrefix+name with SET NX and the given TTL.
// The returned unlock func releases it only while this holder's token is
// still stored, so an expired lock taken over by another host is left alone.
func TryLock(ctx context.Context, r *Redis, name string, ttl time.Duration) (unlock func(), err error) {
	key := KeyPrefix + name
	token := randomToken()

	ok, err := r.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("cache lock %s: %w", key, err)
	}
	if !ok {
		return nil, ErrLocked
	}

	return func() {
		// Background context: the run's context may already be cancelled.
		_ = r.client.Eval(context.Background(), unlockScript, []string{key}, token).Err()
	}, nil
}

// IsLocked reports whether the lock name is currently held.
func IsLocked(ctx context.Context, r *Redis, name string) bool {
	n, _ := r.client.Exists(ctx, KeyPrefix+name).Result()
	return n > 0
}

func randomToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
