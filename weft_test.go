package weft_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/weft"
	"github.com/aretw0/weft/pkg/coordinator"
	"github.com/aretw0/weft/pkg/domain"
	"github.com/aretw0/weft/pkg/pool"
	"github.com/aretw0/weft/pkg/runstate"
	"github.com/aretw0/weft/pkg/segment"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invocation() weft.Invocation {
	return weft.Invocation{
		Workflow:   domain.WorkflowMetadata{ID: "wf-1", TenantID: "t-1", AppID: "app-1", Type: domain.WorkflowTypeChat},
		UserID:     "u-1",
		UserFrom:   domain.UserFromEndUser,
		InvokeFrom: domain.InvokeFromWebApp,
	}
}

func TestStart(t *testing.T) {
	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	run, err := weft.Start(invocation(), weft.Seed{
		System:      map[domain.SystemVariableKey]any{domain.SystemQuery: "hello"},
		UserInputs:  map[string]any{"topic": "go"},
		Environment: []segment.Variable{segment.NewVariable("region", segment.NewString("eu"))},
	}, weft.WithClock(func() time.Time { return at }))
	require.NoError(t, err)

	_, err = uuid.Parse(run.ID)
	assert.NoError(t, err, "generated run ids are UUIDs")
	assert.Equal(t, at, run.State.StartAt())
	assert.Equal(t, 1, run.State.Steps())

	p := run.State.Pool()
	get := func(sel ...string) string {
		v, ok := p.Get(pool.Selector(sel))
		require.True(t, ok, sel)
		return v.Text()
	}
	assert.Equal(t, "hello", get("sys", "query"))
	assert.Equal(t, run.ID, get("sys", "workflow_run_id"))
	assert.Equal(t, "wf-1", get("sys", "workflow_id"))
	assert.Equal(t, "app-1", get("sys", "app_id"))
	assert.Equal(t, "u-1", get("sys", "user_id"))
	assert.Equal(t, "eu", get("env", "region"))
	assert.Equal(t, "go", p.UserInputs()["topic"])
}

func TestStart_SeedWinsOverDefaults(t *testing.T) {
	run, err := weft.Start(invocation(), weft.Seed{
		System: map[domain.SystemVariableKey]any{domain.SystemUserID: "override"},
	}, weft.WithRunID("fixed"))
	require.NoError(t, err)
	assert.Equal(t, "fixed", run.ID)

	v, ok := run.State.Pool().Get(pool.Selector{"sys", "user_id"})
	require.True(t, ok)
	assert.Equal(t, "override", v.Text())
}

func TestStart_InvalidInvocation(t *testing.T) {
	inv := invocation()
	inv.Workflow.Type = "pipeline"
	_, err := weft.Start(inv, weft.Seed{})
	assert.Error(t, err)

	inv = invocation()
	inv.Workflow.ID = ""
	_, err = weft.Start(inv, weft.Seed{})
	assert.Error(t, err)

	inv = invocation()
	inv.CallDepth = -1
	_, err = weft.Start(inv, weft.Seed{})
	assert.Error(t, err)
}

func TestStart_BadSeed(t *testing.T) {
	_, err := weft.Start(invocation(), weft.Seed{
		System: map[domain.SystemVariableKey]any{domain.SystemFiles: func() {}},
	})
	assert.ErrorIs(t, err, segment.ErrUnsupportedValue)
}

func TestRun_Child(t *testing.T) {
	c := coordinator.New(coordinator.WithMaxCallDepth(1))
	parent, err := weft.Start(invocation(), weft.Seed{}, weft.WithCoordinator(c))
	require.NoError(t, err)

	sub := domain.WorkflowMetadata{ID: "wf-sub", TenantID: "t-1", AppID: "app-1", Type: domain.WorkflowTypeWorkflow}
	child, err := parent.Child(sub, weft.Seed{UserInputs: map[string]any{"x": 1}})
	require.NoError(t, err)

	assert.NotEqual(t, parent.ID, child.ID)
	assert.Equal(t, 1, child.State.CallDepth())
	assert.Equal(t, "u-1", child.State.UserID())
	assert.NotSame(t, parent.State.Pool(), child.State.Pool())
	assert.ElementsMatch(t, []string{parent.ID, child.ID}, c.Runs())

	_, err = child.Child(sub, weft.Seed{})
	assert.ErrorIs(t, err, coordinator.ErrCallDepthExceeded)
}

func TestRun_Coordinated(t *testing.T) {
	c := coordinator.New()
	run, err := weft.Start(invocation(), weft.Seed{}, weft.WithCoordinator(c), weft.WithRunID("r1"))
	require.NoError(t, err)

	err = c.Write(context.Background(), run.ID, func(s *runstate.State) error {
		return s.Pool().Add(pool.Selector{"llm", "text"}, "done")
	})
	require.NoError(t, err)

	snap := run.Snapshot()
	assert.Equal(t, "r1", snap.RunID)
	assert.Equal(t, domain.WorkflowTypeChat, snap.Workflow.Type)

	_, err = weft.Start(invocation(), weft.Seed{}, weft.WithCoordinator(c), weft.WithRunID("r1"))
	assert.ErrorIs(t, err, coordinator.ErrRunExists)
}
