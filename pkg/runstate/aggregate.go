package runstate

import (
	"maps"
	"slices"

	"github.com/aretw0/weft/pkg/domain"
)

// Attempts returns how many results were recorded for nodeID.
func (s *State) Attempts(nodeID string) int {
	n := 0
	for _, entry := range s.history {
		if entry.Node.ID == nodeID {
			n++
		}
	}
	return n
}

// LastResult returns the most recent result recorded for nodeID.
func (s *State) LastResult(nodeID string) (domain.NodeRunResult, bool) {
	for i := len(s.history) - 1; i >= 0; i-- {
		if s.history[i].Node.ID == nodeID {
			return s.history[i].Result.Clone(), true
		}
	}
	return domain.NodeRunResult{}, false
}

// Usage sums the LLM usage of every recorded result.
func (s *State) Usage() domain.LLMUsage {
	var total domain.LLMUsage
	for _, entry := range s.history {
		if entry.Result.LLMUsage != nil {
			total = total.Plus(*entry.Result.LLMUsage)
		}
	}
	return total
}

// RunsInIteration returns the dispatches made inside the given iteration node.
func (s *State) RunsInIteration(iterationNodeID string) []domain.NodeRun {
	return s.filterRuns(func(r domain.NodeRun) bool { return r.IterationNodeID == iterationNodeID })
}

// RunsInLoop returns the dispatches made inside the given loop node.
func (s *State) RunsInLoop(loopNodeID string) []domain.NodeRun {
	return s.filterRuns(func(r domain.NodeRun) bool { return r.LoopNodeID == loopNodeID })
}

func (s *State) filterRuns(keep func(domain.NodeRun) bool) []domain.NodeRun {
	var out []domain.NodeRun
	for _, r := range s.nodeRuns {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// Snapshot captures the run as a serializable value. The snapshot shares no memory with the
// state, so later writes do not leak into it.
func (s *State) Snapshot(runID string) *domain.RunSnapshot {
	snap := &domain.RunSnapshot{
		RunID:       runID,
		Workflow:    s.workflow,
		UserID:      s.userID,
		UserFrom:    s.userFrom,
		InvokeFrom:  s.invokeFrom,
		CallDepth:   s.callDepth,
		StartAt:     s.startAt,
		CapturedAt:  s.now(),
		TotalTokens: s.totalTokens,
		Steps:       s.steps,
		NodeRuns:    slices.Clone(s.nodeRuns),
		Variables:   s.pool.Records(),
	}

	if len(s.history) > 0 {
		snap.History = make([]domain.NodeResultRecord, len(s.history))
		for i, entry := range s.history {
			snap.History[i] = domain.NodeResultRecord{Node: entry.Node, Result: entry.Result.Clone()}
		}
	}
	if s.iteration != nil {
		frame := *s.iteration
		frame.Inputs = maps.Clone(frame.Inputs)
		snap.Iteration = &frame
	}
	if s.loop != nil {
		frame := *s.loop
		frame.Inputs = maps.Clone(frame.Inputs)
		snap.Loop = &frame
	}
	return snap
}
