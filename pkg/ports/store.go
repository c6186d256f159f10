package ports

import (
	"context"

	"github.com/aretw0/weft/pkg/domain"
)

// RunStore persists run snapshots.
// Snapshots are checkpoints for inspection and traces; a store never rebuilds a live run.
type RunStore interface {
	// Save persists the snapshot under its RunID, replacing any previous checkpoint.
	Save(ctx context.Context, snapshot *domain.RunSnapshot) error

	// Load retrieves the latest snapshot of a run.
	// Returns domain.ErrRunNotFound if the run does not exist.
	Load(ctx context.Context, runID string) (*domain.RunSnapshot, error)

	// Delete removes the snapshot of a run. Deleting an unknown run is not an error.
	Delete(ctx context.Context, runID string) error

	// List returns the ids of stored runs.
	List(ctx context.Context) ([]string, error)
}
