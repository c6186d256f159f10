package coordinator

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"log/slog"

	"github.com/aretw0/weft/internal/logging"
	"github.com/aretw0/weft/pkg/domain"
	"github.com/aretw0/weft/pkg/ports"
	"github.com/aretw0/weft/pkg/runstate"
)

// DefaultLockTTL bounds how long a distributed lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the run mutex and the reference count.
type lockEntry struct {
	mu   sync.RWMutex
	refs int
}

// Coordinator owns the live runs of a process and serializes their writers.
// It uses reference counting to garbage collect unused locks.
type Coordinator struct {
	store ports.RunStore // optional, required by Checkpoint

	mu    sync.Mutex                // guards runs and locks
	runs  map[string]*runstate.State
	locks map[string]*lockEntry

	locker       ports.DistributedLocker // optional
	lockTTL      time.Duration
	maxCallDepth int // 0 disables the check
	logger       *slog.Logger
}

// Option configures the Coordinator.
type Option func(*Coordinator)

// WithStore enables checkpoints to the given store.
func WithStore(store ports.RunStore) Option {
	return func(c *Coordinator) {
		c.store = store
	}
}

// WithLocker enables distributed locking of writers.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(c *Coordinator) {
		c.locker = locker
	}
}

// WithLockTTL sets the TTL of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(c *Coordinator) {
		c.lockTTL = ttl
	}
}

// WithMaxCallDepth rejects runs registered with a deeper call depth.
func WithMaxCallDepth(depth int) Option {
	return func(c *Coordinator) {
		c.maxCallDepth = depth
	}
}

// WithLogger configures a logger for internal events (like deferred unlock errors).
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// New creates a Coordinator.
func New(opts ...Option) *Coordinator {
	c := &Coordinator{
		runs:    make(map[string]*runstate.State),
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register makes state addressable by runID.
func (c *Coordinator) Register(runID string, state *runstate.State) error {
	if runID == "" {
		return domain.ErrEmptyRunID
	}
	if c.maxCallDepth > 0 && state.CallDepth() > c.maxCallDepth {
		return fmt.Errorf("%w: run %s has depth %d, max %d", ErrCallDepthExceeded, runID, state.CallDepth(), c.maxCallDepth)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.runs[runID]; exists {
		return fmt.Errorf("%w: %s", ErrRunExists, runID)
	}
	c.runs[runID] = state
	c.logger.Debug("run registered", "run_id", runID, "workflow_id", state.Workflow().ID, "call_depth", state.CallDepth())
	return nil
}

// Runs returns the registered run ids, sorted.
func (c *Coordinator) Runs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]string, 0, len(c.runs))
	for id := range c.runs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Store returns the configured run store, or nil.
func (c *Coordinator) Store() ports.RunStore {
	return c.store
}

// Write runs fn as the exclusive writer of the run.
func (c *Coordinator) Write(ctx context.Context, runID string, fn func(*runstate.State) error) error {
	state, err := c.lookup(runID)
	if err != nil {
		return err
	}

	entry := c.acquire(runID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		c.release(runID)
	}()

	if c.locker != nil {
		unlock, err := c.locker.Lock(ctx, runID, c.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				c.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"run_id", runID,
					"err", err,
				)
			}
		}()
	}

	return fn(state)
}

// Read runs fn while no writer holds the run. Readers of the same run may overlap.
// fn must not mutate the state.
func (c *Coordinator) Read(ctx context.Context, runID string, fn func(*runstate.State) error) error {
	state, err := c.lookup(runID)
	if err != nil {
		return err
	}

	entry := c.acquire(runID)
	entry.mu.RLock()
	defer func() {
		entry.mu.RUnlock()
		c.release(runID)
	}()

	return fn(state)
}

// Checkpoint snapshots the run and saves it to the store.
func (c *Coordinator) Checkpoint(ctx context.Context, runID string) (*domain.RunSnapshot, error) {
	if c.store == nil {
		return nil, ErrNoStore
	}

	var snap *domain.RunSnapshot
	err := c.Read(ctx, runID, func(s *runstate.State) error {
		snap = s.Snapshot(runID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := c.store.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("failed to checkpoint run %s: %w", runID, err)
	}
	c.logger.Debug("run checkpointed", "run_id", runID, "steps", snap.Steps, "total_tokens", snap.TotalTokens)
	return snap, nil
}

// Release unregisters the run after waiting for in-flight writers. With a store configured,
// a final checkpoint is saved first; the run stays registered if that checkpoint fails.
func (c *Coordinator) Release(ctx context.Context, runID string) error {
	if c.store != nil {
		if _, err := c.Checkpoint(ctx, runID); err != nil {
			return err
		}
	}

	return c.Write(ctx, runID, func(*runstate.State) error {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.runs, runID)
		c.logger.Debug("run released", "run_id", runID)
		return nil
	})
}

func (c *Coordinator) lookup(runID string) (*runstate.State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, ok := c.runs[runID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotRegistered, runID)
	}
	return state, nil
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST lock entry.mu, and then call release(runID) after unlocking.
func (c *Coordinator) acquire(runID string) *lockEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.locks[runID]
	if !exists {
		entry = &lockEntry{}
		c.locks[runID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (c *Coordinator) release(runID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.locks[runID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(c.locks, runID)
	}
}
