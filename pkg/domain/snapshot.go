package domain

import (
	"maps"
	"slices"
	"time"
)

// NodeResultRecord pairs a node with one of its recorded results.
type NodeResultRecord struct {
	Node   NodeRef       `json:"node"`
	Result NodeRunResult `json:"result"`
}

// VariableRecord is the serialized form of a pool entry.
type VariableRecord struct {
	Selector []string `json:"selector"`
	Name     string   `json:"name"`
	Kind     string   `json:"kind"`
	Value    any      `json:"value"`
}

// Scope returns the first selector element.
func (r VariableRecord) Scope() string {
	if len(r.Selector) == 0 {
		return ""
	}
	return r.Selector[0]
}

// RunSnapshot is a point-in-time copy of a run: identity, counters, ledgers, frames and the
// variable pool contents. Snapshots are what stores persist and what traces are built from;
// they are never turned back into a live run.
type RunSnapshot struct {
	RunID      string           `json:"run_id"`
	Workflow   WorkflowMetadata `json:"workflow"`
	UserID     string           `json:"user_id"`
	UserFrom   UserFrom         `json:"user_from"`
	InvokeFrom InvokeFrom       `json:"invoke_from"`
	CallDepth  int              `json:"call_depth"`
	StartAt    time.Time        `json:"start_at"`
	CapturedAt time.Time        `json:"captured_at"`

	TotalTokens int64 `json:"total_tokens"`
	Steps       int   `json:"steps"`

	History   []NodeResultRecord `json:"history,omitempty"`
	NodeRuns  []NodeRun          `json:"node_runs,omitempty"`
	Iteration *IterationState    `json:"iteration,omitempty"`
	Loop      *LoopState         `json:"loop,omitempty"`
	Variables []VariableRecord   `json:"variables,omitempty"`

	// Sealed holds the encrypted snapshot when a store middleware has wrapped it.
	Sealed string `json:"sealed,omitempty"`
}

// Clone returns a copy of s that shares no slices, frames or result maps with it.
// Variable values are copied by reference; they are treated as immutable.
func (s *RunSnapshot) Clone() *RunSnapshot {
	if s == nil {
		return nil
	}
	out := *s
	out.NodeRuns = slices.Clone(s.NodeRuns)
	if s.History != nil {
		out.History = make([]NodeResultRecord, len(s.History))
		for i, rec := range s.History {
			out.History[i] = NodeResultRecord{Node: rec.Node, Result: rec.Result.Clone()}
		}
	}
	if s.Variables != nil {
		out.Variables = make([]VariableRecord, len(s.Variables))
		for i, v := range s.Variables {
			v.Selector = slices.Clone(v.Selector)
			out.Variables[i] = v
		}
	}
	if s.Iteration != nil {
		frame := *s.Iteration
		frame.Inputs = maps.Clone(frame.Inputs)
		out.Iteration = &frame
	}
	if s.Loop != nil {
		frame := *s.Loop
		frame.Inputs = maps.Clone(frame.Inputs)
		out.Loop = &frame
	}
	return &out
}
