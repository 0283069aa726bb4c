// Package runlock keeps two grabber runs from writing the same output at
// once: a local file lock, plus a Redis lock when several hosts share the
// same configuration.
package runlock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"

	"github.com/voyagen/tvgrab/internal/cache"
)

// ErrBusy is returned when another run holds the lock.
var ErrBusy = errors.New("another run is in progress")

// redisLockName is the shared lock's name under cache.KeyPrefix.
const redisLockName = "run"

// Lock is a held run lock.
type Lock struct {
	file        *flock.Flock
	unlockRedis func()
}

// Acquire takes the file lock at path and, when rds is non-nil, the shared
// Redis lock with the given TTL. Neither call blocks; a held lock yields an
// error wrapping ErrBusy.
func Acquire(ctx context.Context, path string, rds *cache.Redis, ttl time.Duration) (*Lock, error) {
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("lock %s: %w", path, ErrBusy)
	}

	l := &Lock{file: fl}
	if rds != nil {
		unlock, err := cache.TryLock(ctx, rds, redisLockName, ttl)
		if err != nil {
			_ = fl.Unlock()
			if errors.Is(err, cache.ErrLocked) {
				return nil, fmt.Errorf("redis lock: %w", ErrBusy)
			}
			return nil, err
		}
		l.unlockRedis = unlock
	}
	return l, nil
}

// Release drops both locks. The lock file itself is left in place.
func (l *Lock) Release() error {
	if l.unlockRedis != nil {
		l.unlockRedis()
		l.unlockRedis = nil
	}
	return l.file.Unlock()
}
