package runstate

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/aretw0/weft/pkg/domain"
	"github.com/aretw0/weft/pkg/pool"
)

// NodeAndResult pairs a node with one of its results. A node retried twice appears three times.
type NodeAndResult struct {
	Node   domain.NodeRef
	Result domain.NodeRunResult
}

// State is the mutable ledger of one workflow run.
type State struct {
	workflow   domain.WorkflowMetadata
	startAt    time.Time
	userID     string
	userFrom   domain.UserFrom
	invokeFrom domain.InvokeFrom
	callDepth  int

	pool        *pool.Pool
	totalTokens int64
	steps       int
	history     []NodeAndResult
	nodeRuns    []domain.NodeRun
	iteration   *domain.IterationState
	loop        *domain.LoopState

	hooks domain.LifecycleHooks
	now   func() time.Time
}

// New creates the state of a run that started at startAt. The token count starts at 0, the
// step counter at 1, and no frame is active. A nil pool is a programming error and panics.
func New(
	workflow domain.WorkflowMetadata,
	startAt time.Time,
	p *pool.Pool,
	userID string,
	userFrom domain.UserFrom,
	invokeFrom domain.InvokeFrom,
	callDepth int,
	opts ...Option,
) *State {
	if p == nil {
		panic("runstate: nil variable pool")
	}
	s := &State{
		workflow:   workflow,
		startAt:    startAt,
		userID:     userID,
		userFrom:   userFrom,
		invokeFrom: invokeFrom,
		callDepth:  callDepth,
		pool:       p,
		steps:      1,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *State) Workflow() domain.WorkflowMetadata { return s.workflow }
func (s *State) StartAt() time.Time                { return s.startAt }
func (s *State) UserID() string                    { return s.userID }
func (s *State) UserFrom() domain.UserFrom         { return s.userFrom }
func (s *State) InvokeFrom() domain.InvokeFrom     { return s.invokeFrom }
func (s *State) CallDepth() int                    { return s.callDepth }

// Pool returns the variable pool. The pool is shared, not copied.
func (s *State) Pool() *pool.Pool { return s.pool }

// TotalTokens returns the tokens consumed so far.
func (s *State) TotalTokens() int64 { return s.totalTokens }

// Steps returns the step counter.
func (s *State) Steps() int { return s.steps }

// Elapsed returns the time between the run start and now.
func (s *State) Elapsed(now time.Time) time.Duration { return now.Sub(s.startAt) }

// RecordNodeResult appends a copy of result to the history. Retries append, they never replace.
func (s *State) RecordNodeResult(node domain.NodeRef, result domain.NodeRunResult) {
	result = result.Clone()
	s.history = append(s.history, NodeAndResult{Node: node, Result: result})

	if s.hooks.OnNodeResult != nil {
		s.hooks.OnNodeResult(&domain.NodeResultEvent{
			EventBase:  s.event(domain.EventNodeResult),
			Node:       node,
			Status:     result.Status,
			RetryIndex: result.RetryIndex,
			Step:       s.steps,
			Tokens:     result.TotalTokens(),
			Elapsed:    s.Elapsed(s.now()),
		})
	}
}

// RecordNodeRun appends a dispatch entry. Empty enclosing ids mean "not inside".
func (s *State) RecordNodeRun(nodeID, iterationNodeID, loopNodeID string) {
	s.nodeRuns = append(s.nodeRuns, domain.NodeRun{
		NodeID:          nodeID,
		IterationNodeID: iterationNodeID,
		LoopNodeID:      loopNodeID,
	})
}

// AdvanceStep increments the step counter and returns the new value.
func (s *State) AdvanceStep() int {
	s.steps++
	return s.steps
}

// AddTokens adds n consumed tokens. A negative n panics with domain.ErrNegativeTokens and a
// total past math.MaxInt64 panics with domain.ErrTokenOverflow.
func (s *State) AddTokens(n int64) {
	if n < 0 {
		panic(fmt.Errorf("%w: %d", domain.ErrNegativeTokens, n))
	}
	if s.totalTokens > math.MaxInt64-n {
		panic(fmt.Errorf("%w: %d + %d", domain.ErrTokenOverflow, s.totalTokens, n))
	}
	s.totalTokens += n

	if s.hooks.OnTokens != nil {
		s.hooks.OnTokens(&domain.TokenEvent{
			EventBase: s.event(domain.EventTokens),
			Delta:     n,
			Total:     s.totalTokens,
		})
	}
}

// History returns a copy of the node result ledger in insertion order.
func (s *State) History() []NodeAndResult {
	out := make([]NodeAndResult, len(s.history))
	for i, entry := range s.history {
		out[i] = NodeAndResult{Node: entry.Node, Result: entry.Result.Clone()}
	}
	return out
}

// NodeRuns returns a copy of the dispatch ledger in insertion order.
func (s *State) NodeRuns() []domain.NodeRun {
	return slices.Clone(s.nodeRuns)
}

func (s *State) event(t domain.EventType) domain.EventBase {
	return domain.EventBase{
		Timestamp:  s.now(),
		Type:       t,
		WorkflowID: s.workflow.ID,
	}
}
