package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/weft/pkg/domain"
)

// LoggingHooks logs every lifecycle event at debug level, and failed results at warn.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	frame := func(msg string) func(*domain.FrameEvent) {
		return func(e *domain.FrameEvent) {
			logger.Debug(msg, "workflow_id", e.WorkflowID, "node_id", e.NodeID, "index", e.Index)
		}
	}
	return domain.LifecycleHooks{
		OnNodeResult: func(e *domain.NodeResultEvent) {
			level := slog.LevelDebug
			if e.Status == domain.NodeStatusFailed || e.Status == domain.NodeStatusException {
				level = slog.LevelWarn
			}
			logger.Log(context.Background(), level, "node_result",
				"workflow_id", e.WorkflowID,
				"node_id", e.Node.ID,
				"node_type", e.Node.Type,
				"status", e.Status,
				"retry_index", e.RetryIndex,
				"step", e.Step,
				"tokens", e.Tokens,
				"elapsed", e.Elapsed,
			)
		},
		OnIterationEnter: frame("iteration_enter"),
		OnIterationExit:  frame("iteration_exit"),
		OnLoopEnter:      frame("loop_enter"),
		OnLoopExit:       frame("loop_exit"),
		OnTokens: func(e *domain.TokenEvent) {
			logger.Debug("tokens", "workflow_id", e.WorkflowID, "delta", e.Delta, "total", e.Total)
		},
	}
}
