package weft

import (
	"fmt"
	"maps"
	"time"

	"github.com/aretw0/weft/pkg/coordinator"
	"github.com/aretw0/weft/pkg/domain"
	"github.com/aretw0/weft/pkg/pool"
	"github.com/aretw0/weft/pkg/runstate"
	"github.com/aretw0/weft/pkg/segment"
	"github.com/google/uuid"
)

// Version is the library version reported by the CLI.
const Version = "0.3.0"

// Seed holds the variables a run starts with.
type Seed struct {
	System       map[domain.SystemVariableKey]any
	UserInputs   map[string]any
	Environment  []segment.Variable
	Conversation []segment.Variable
}

// Invocation identifies who started a run, from where, and for which workflow.
type Invocation struct {
	Workflow   domain.WorkflowMetadata
	UserID     string
	UserFrom   domain.UserFrom
	InvokeFrom domain.InvokeFrom
	CallDepth  int
}

// Run is a started workflow run: an id and its live state.
type Run struct {
	ID    string
	State *runstate.State

	invocation Invocation
	cfg        config
}

type config struct {
	runID       string
	now         func() time.Time
	hooks       domain.LifecycleHooks
	coordinator *coordinator.Coordinator
}

// Option configures Start.
type Option func(*config)

// WithRunID fixes the run id instead of generating a UUID.
func WithRunID(id string) Option {
	return func(c *config) {
		c.runID = id
	}
}

// WithClock sets the time source for the run start and its events.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.now = now
	}
}

// WithLifecycleHooks registers observability hooks on the run state.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *config) {
		c.hooks = hooks
	}
}

// WithCoordinator registers the run with c once it is created.
func WithCoordinator(c *coordinator.Coordinator) Option {
	return func(cfg *config) {
		cfg.coordinator = c
	}
}

// Start validates the invocation, builds the variable pool and returns a fresh run.
//
// The system variables workflow_run_id, workflow_id, app_id and user_id are filled from the
// invocation unless the seed already sets them.
func Start(inv Invocation, seed Seed, opts ...Option) (*Run, error) {
	cfg := config{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.runID == "" {
		cfg.runID = uuid.NewString()
	}

	if err := inv.Workflow.Validate(); err != nil {
		return nil, err
	}
	if inv.CallDepth < 0 {
		return nil, fmt.Errorf("invalid call depth %d", inv.CallDepth)
	}

	system := maps.Clone(seed.System)
	if system == nil {
		system = make(map[domain.SystemVariableKey]any)
	}
	defaults := map[domain.SystemVariableKey]string{
		domain.SystemWorkflowRunID: cfg.runID,
		domain.SystemWorkflowID:    inv.Workflow.ID,
		domain.SystemAppID:         inv.Workflow.AppID,
		domain.SystemUserID:        inv.UserID,
	}
	for key, value := range defaults {
		if _, set := system[key]; !set && value != "" {
			system[key] = value
		}
	}

	p, err := pool.New(system, seed.UserInputs, seed.Environment, seed.Conversation)
	if err != nil {
		return nil, fmt.Errorf("failed to build variable pool: %w", err)
	}

	state := runstate.New(
		inv.Workflow,
		cfg.now(),
		p,
		inv.UserID,
		inv.UserFrom,
		inv.InvokeFrom,
		inv.CallDepth,
		runstate.WithHooks(cfg.hooks),
		runstate.WithClock(cfg.now),
	)

	if cfg.coordinator != nil {
		if err := cfg.coordinator.Register(cfg.runID, state); err != nil {
			return nil, err
		}
	}

	return &Run{ID: cfg.runID, State: state, invocation: inv, cfg: cfg}, nil
}

// Child starts a nested run of workflow on behalf of the same user, one call level deeper.
// The child has its own pool and ledger; it inherits the parent's hooks, clock and coordinator
// but gets a fresh run id unless opts set one.
func (r *Run) Child(workflow domain.WorkflowMetadata, seed Seed, opts ...Option) (*Run, error) {
	inv := r.invocation
	inv.Workflow = workflow
	inv.CallDepth++

	inherited := []Option{
		WithClock(r.cfg.now),
		WithLifecycleHooks(r.cfg.hooks),
		WithCoordinator(r.cfg.coordinator),
	}
	return Start(inv, seed, append(inherited, opts...)...)
}

// Invocation returns the invocation the run was started with.
func (r *Run) Invocation() Invocation {
	return r.invocation
}

// Snapshot captures the run under its id.
func (r *Run) Snapshot() *domain.RunSnapshot {
	return r.State.Snapshot(r.ID)
}
