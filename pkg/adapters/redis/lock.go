package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/weft/pkg/ports"
	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"
)

var (
	// ErrLockAcquire is returned when the lock cannot be acquired.
	ErrLockAcquire = errors.New("failed to acquire distributed lock")
)

// unlockScript deletes the lock only while it still holds our token.
var unlockScript = backend.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`)

// DefaultPollInterval is how often a blocked Lock retries.
const DefaultPollInterval = 100 * time.Millisecond

// Locker implements ports.DistributedLocker using Redis.
type Locker struct {
	client *backend.Client
	prefix string
	poll   time.Duration
}

// NewLocker creates a new Redis locker.
func NewLocker(client *backend.Client, prefix string) *Locker {
	return &Locker{
		client: client,
		prefix: prefix,
		poll:   DefaultPollInterval,
	}
}

// Lock acquires a distributed lock for key using SET NX PX, polling until it succeeds or ctx ends.
// Each acquisition stores a random token so only the holder can release it.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	lockKey := l.prefix + "lock:" + key
	token := uuid.NewString()

	unlock := func(ctx context.Context) error {
		return unlockScript.Run(ctx, l.client, []string{lockKey}, token).Err()
	}

	acquired, err := l.client.SetNX(ctx, lockKey, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLockAcquire, err)
	}
	if acquired {
		return unlock, nil
	}

	ticker := time.NewTicker(l.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			acquired, err := l.client.SetNX(ctx, lockKey, token, ttl).Result()
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrLockAcquire, err)
			}
			if acquired {
				return unlock, nil
			}
		}
	}
}
