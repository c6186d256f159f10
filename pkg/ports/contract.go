package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/weft/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreContract runs a suite of tests to verify that a RunStore implementation
// adheres to the defined interface contract.
func RunStoreContract(t *testing.T, store RunStore) {
	ctx := context.Background()
	runID := "contract-test-run-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		snap := contractSnapshot(runID)

		err := store.Save(ctx, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, runID, loaded.RunID)
		assert.Equal(t, snap.Workflow, loaded.Workflow)
		assert.Equal(t, snap.TotalTokens, loaded.TotalTokens)
		assert.Equal(t, snap.Steps, loaded.Steps)
		assert.Equal(t, snap.NodeRuns, loaded.NodeRuns)
		assert.True(t, snap.StartAt.Equal(loaded.StartAt), "StartAt should survive a round trip")

		require.Len(t, loaded.History, 2)
		assert.Equal(t, domain.NodeStatusRetry, loaded.History[0].Result.Status)
		assert.Equal(t, 1, loaded.History[1].Result.RetryIndex)
		assert.Equal(t, "hi", loaded.History[1].Result.Outputs["text"])

		require.NotNil(t, loaded.Iteration)
		assert.Equal(t, "iter", loaded.Iteration.NodeID)

		require.Len(t, loaded.Variables, 2)
		assert.Equal(t, []string{"node1", "text"}, loaded.Variables[0].Selector)
		assert.Equal(t, "hi", loaded.Variables[0].Value)
		// JSON backends decode numbers as float64; only existence is part of the contract.
		assert.NotNil(t, loaded.Variables[1].Value)
	})

	t.Run("Save Replaces", func(t *testing.T) {
		snap := contractSnapshot(runID)
		snap.Steps = 9
		require.NoError(t, store.Save(ctx, snap))

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err)
		assert.Equal(t, 9, loaded.Steps)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, contractSnapshot(runID))
		require.NoError(t, err)

		err = store.Delete(ctx, runID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound, "Load after Delete should return ErrRunNotFound")

		assert.NoError(t, store.Delete(ctx, runID), "Deleting twice should not fail")
	})

	t.Run("List", func(t *testing.T) {
		id1 := runID + "-1"
		id2 := runID + "-2"
		require.NoError(t, store.Save(ctx, contractSnapshot(id1)))
		require.NoError(t, store.Save(ctx, contractSnapshot(id2)))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		runs, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, runs, id1)
		assert.Contains(t, runs, id2)
	})
}

func contractSnapshot(runID string) *domain.RunSnapshot {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &domain.RunSnapshot{
		RunID: runID,
		Workflow: domain.WorkflowMetadata{
			ID:       "wf-contract",
			TenantID: "tenant",
			AppID:    "app",
			Type:     domain.WorkflowTypeChat,
		},
		UserID:      "user",
		UserFrom:    domain.UserFromEndUser,
		InvokeFrom:  domain.InvokeFromWebApp,
		StartAt:     start,
		CapturedAt:  start.Add(time.Second),
		TotalTokens: 120,
		Steps:       3,
		History: []domain.NodeResultRecord{
			{
				Node:   domain.NodeRef{ID: "llm", Type: "llm"},
				Result: domain.NodeRunResult{Status: domain.NodeStatusRetry, Error: "rate limited"},
			},
			{
				Node: domain.NodeRef{ID: "llm", Type: "llm"},
				Result: domain.NodeRunResult{
					Status:     domain.NodeStatusSucceeded,
					Outputs:    map[string]any{"text": "hi"},
					RetryIndex: 1,
				},
			},
		},
		NodeRuns: []domain.NodeRun{
			{NodeID: "llm"},
			{NodeID: "body", IterationNodeID: "iter"},
		},
		Iteration: &domain.IterationState{NodeID: "iter", Index: 1, Metadata: domain.IterationMetadata{IteratorLength: 3}},
		Variables: []domain.VariableRecord{
			{Selector: []string{"node1", "text"}, Name: "text", Kind: "string", Value: "hi"},
			{Selector: []string{"node1", "score"}, Name: "score", Kind: "number", Value: 0.5},
		},
	}
}
