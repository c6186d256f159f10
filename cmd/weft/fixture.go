package main

import (
	"fmt"

	"github.com/aretw0/weft"
	"github.com/aretw0/weft/internal/fixture"
	"github.com/aretw0/weft/pkg/observability"
)

// startFixture loads a fixture file and starts a run from it, logging run events.
func startFixture(path string, opts ...weft.Option) (*weft.Run, error) {
	f, err := fixture.Load(path)
	if err != nil {
		return nil, err
	}
	opts = append([]weft.Option{weft.WithLifecycleHooks(observability.LoggingHooks(logger))}, opts...)
	run, err := f.Start(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to start run from %s: %w", path, err)
	}
	logger.Debug("run started", "run_id", run.ID, "workflow_id", f.Workflow.ID, "variables", run.State.Pool().Len())
	return run, nil
}
