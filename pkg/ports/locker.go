package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker defines the interface for distributed concurrency control.
// It lets the run coordinator serialize writers of the same run across replicas.
type DistributedLocker interface {
	// Lock acquires a lock for key (a run id). It blocks until the lock is acquired or the
	// context is canceled. The returned UnlockFunc MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
