package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/weft/pkg/adapters/memory"
	"github.com/aretw0/weft/pkg/domain"
	"github.com/aretw0/weft/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	snap := &domain.RunSnapshot{
		RunID:    "run-1",
		NodeRuns: []domain.NodeRun{{NodeID: "a"}},
		History: []domain.NodeResultRecord{{
			Node:   domain.NodeRef{ID: "a"},
			Result: domain.NodeRunResult{Outputs: map[string]any{"k": "v"}},
		}},
	}
	require.NoError(t, store.Save(ctx, snap))

	snap.NodeRuns[0].NodeID = "mutated"
	snap.History[0].Result.Outputs["k"] = "mutated"

	loaded, err := store.Load(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "a", loaded.NodeRuns[0].NodeID)
	assert.Equal(t, "v", loaded.History[0].Result.Outputs["k"])

	loaded.NodeRuns[0].NodeID = "mutated"
	again, err := store.Load(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "a", again.NodeRuns[0].NodeID)
}

func TestMemoryStore_RejectsEmptyRunID(t *testing.T) {
	store := memory.NewStore()
	assert.ErrorIs(t, store.Save(context.Background(), &domain.RunSnapshot{}), domain.ErrEmptyRunID)
	assert.ErrorIs(t, store.Save(context.Background(), nil), domain.ErrEmptyRunID)
}
