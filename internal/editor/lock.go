package editor

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgredis "github.com/angelmondragon/webtheme-backend/pkg/redis"
	"github.com/google/uuid"
)

const defaultSaveLockTTL = 30 * time.Second

type lockStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// saveLock marks a save in flight for one brand across every API instance.
// It expires on its own if the holder dies.
type saveLock struct {
	client lockStore
	key    string
	ttl    time.Duration
	owner  string
}

func newSaveLock(client lockStore, key string, ttl time.Duration) *saveLock {
	if ttl <= 0 {
		ttl = defaultSaveLockTTL
	}
	return &saveLock{client: client, key: key, ttl: ttl}
}

// acquire reports false when another save holds the lock.
func (l *saveLock) acquire(ctx context.Context) (bool, error) {
	owner := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key, owner, l.ttl)
	if err != nil {
		return false, fmt.Errorf("setnx: %w", err)
	}
	if ok {
		l.owner = owner
	}
	return ok, nil
}

// release frees the lock only while this holder still owns it. It runs even
// when the request context is already cancelled.
func (l *saveLock) release(ctx context.Context) error {
	if l.owner == "" {
		return nil
	}
	ctx = context.WithoutCancel(ctx)
	value, err := l.client.Get(ctx, l.key)
	if err != nil {
		if errors.Is(err, pkgredis.ErrNotFound) {
			l.owner = ""
			return nil
		}
		return fmt.Errorf("read lock owner: %w", err)
	}
	if value != l.owner {
		l.owner = ""
		return nil
	}
	if err := l.client.Del(ctx, l.key); err != nil {
		return fmt.Errorf("delete lock: %w", err)
	}
	l.owner = ""
	return nil
}
