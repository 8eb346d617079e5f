package cache

import (
	"context"
	"errors"
	"time"
)

var (
	ErrCacheMiss = errors.New("cache miss")
	ErrLockHeld  = errors.New("lock held by another owner")
)

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Locker hands out exclusive, expiring locks. The returned release func
// only deletes the lock if it is still owned by the caller.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, err error)
}

// Keys shared between the services that fill and invalidate them.

func GroupKey(groupID string) string {
	return "group:" + groupID
}

func UserGroupsKey(userID string) string {
	return "groups:user:" + userID
}

const MatchingRunLockKey = "lock:matching:run"
