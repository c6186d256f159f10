package runstate_test

import (
	"testing"
	"time"

	"github.com/aretw0/weft/pkg/domain"
	"github.com/aretw0/weft/pkg/runstate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHooks(t *testing.T) {
	now := start.Add(3 * time.Second)
	var (
		results []*domain.NodeResultEvent
		frames  []*domain.FrameEvent
		tokens  []*domain.TokenEvent
	)
	s := newState(t,
		runstate.WithClock(func() time.Time { return now }),
		runstate.WithHooks(domain.LifecycleHooks{
			OnNodeResult:     func(e *domain.NodeResultEvent) { results = append(results, e) },
			OnIterationEnter: func(e *domain.FrameEvent) { frames = append(frames, e) },
			OnIterationExit:  func(e *domain.FrameEvent) { frames = append(frames, e) },
			OnLoopEnter:      func(e *domain.FrameEvent) { frames = append(frames, e) },
			OnLoopExit:       func(e *domain.FrameEvent) { frames = append(frames, e) },
			OnTokens:         func(e *domain.TokenEvent) { tokens = append(tokens, e) },
		}),
	)

	s.AdvanceStep()
	s.RecordNodeResult(domain.NodeRef{ID: "llm", Type: "llm"}, domain.NodeRunResult{
		Status:   domain.NodeStatusSucceeded,
		Metadata: map[domain.NodeRunMetadataKey]any{domain.MetaTotalTokens: 12},
	})
	s.EnterIteration(domain.IterationState{NodeID: "iter", Index: 4})
	s.ExitIteration()
	s.EnterLoop(domain.LoopState{NodeID: "loop"})
	s.ExitLoop()
	s.AddTokens(12)

	require.Len(t, results, 1)
	assert.Equal(t, domain.EventNodeResult, results[0].Type)
	assert.Equal(t, "wf-1", results[0].WorkflowID)
	assert.Equal(t, 2, results[0].Step)
	assert.Equal(t, int64(12), results[0].Tokens)
	assert.Equal(t, 3*time.Second, results[0].Elapsed)
	assert.Equal(t, now, results[0].Timestamp)

	require.Len(t, frames, 4)
	assert.Equal(t, domain.EventIterationEnter, frames[0].Type)
	assert.Equal(t, 4, frames[0].Index)
	assert.Equal(t, domain.EventIterationExit, frames[1].Type)
	assert.Equal(t, domain.EventLoopEnter, frames[2].Type)
	assert.Equal(t, domain.EventLoopExit, frames[3].Type)

	require.Len(t, tokens, 1)
	assert.Equal(t, int64(12), tokens[0].Total)
}

func TestHooks_ExitAbsentFrameIsSilent(t *testing.T) {
	fired := false
	s := newState(t, runstate.WithHooks(domain.LifecycleHooks{
		OnIterationExit: func(*domain.FrameEvent) { fired = true },
	}))
	s.ExitIteration()
	assert.False(t, fired)
}
