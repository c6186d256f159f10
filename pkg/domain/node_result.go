package domain

import "maps"

// NodeRunMetadataKey is a well-known key of NodeRunResult.Metadata.
type NodeRunMetadataKey string

const (
	MetaTotalTokens               NodeRunMetadataKey = "total_tokens"
	MetaTotalPrice                NodeRunMetadataKey = "total_price"
	MetaCurrency                  NodeRunMetadataKey = "currency"
	MetaToolInfo                  NodeRunMetadataKey = "tool_info"
	MetaAgentLog                  NodeRunMetadataKey = "agent_log"
	MetaIterationID               NodeRunMetadataKey = "iteration_id"
	MetaIterationIndex            NodeRunMetadataKey = "iteration_index"
	MetaLoopID                    NodeRunMetadataKey = "loop_id"
	MetaLoopIndex                 NodeRunMetadataKey = "loop_index"
	MetaParallelID                NodeRunMetadataKey = "parallel_id"
	MetaParallelStartNodeID       NodeRunMetadataKey = "parallel_start_node_id"
	MetaParentParallelID          NodeRunMetadataKey = "parent_parallel_id"
	MetaParentParallelStartNodeID NodeRunMetadataKey = "parent_parallel_start_node_id"
	MetaParallelModeRunID         NodeRunMetadataKey = "parallel_mode_run_id"
	MetaIterationDurationMap      NodeRunMetadataKey = "iteration_duration_map" // per-iteration durations of an iteration node
	MetaLoopDurationMap           NodeRunMetadataKey = "loop_duration_map"      // per-round durations of a loop node
	MetaErrorStrategy             NodeRunMetadataKey = "error_strategy"         // set when the node continued on error
	MetaLoopVariableMap           NodeRunMetadataKey = "loop_variable_map"      // loop variables after each round
)

// NodeRunMetadataKeys lists the closed key set in declaration order.
var NodeRunMetadataKeys = []NodeRunMetadataKey{
	MetaTotalTokens,
	MetaTotalPrice,
	MetaCurrency,
	MetaToolInfo,
	MetaAgentLog,
	MetaIterationID,
	MetaIterationIndex,
	MetaLoopID,
	MetaLoopIndex,
	MetaParallelID,
	MetaParallelStartNodeID,
	MetaParentParallelID,
	MetaParentParallelStartNodeID,
	MetaParallelModeRunID,
	MetaIterationDurationMap,
	MetaLoopDurationMap,
	MetaErrorStrategy,
	MetaLoopVariableMap,
}

// IsValid reports whether k belongs to the closed key set.
func (k NodeRunMetadataKey) IsValid() bool {
	for _, known := range NodeRunMetadataKeys {
		if k == known {
			return true
		}
	}
	return false
}

// LLMUsage accounts for model usage of a node attempt.
type LLMUsage struct {
	PromptTokens     int64   `json:"prompt_tokens"`
	CompletionTokens int64   `json:"completion_tokens"`
	TotalTokens      int64   `json:"total_tokens"`
	TotalPrice       float64 `json:"total_price"`
	Currency         string  `json:"currency,omitempty"`
	Latency          float64 `json:"latency"` // seconds
}

// Plus returns the element-wise sum of u and other. The currency of u wins unless empty.
func (u LLMUsage) Plus(other LLMUsage) LLMUsage {
	currency := u.Currency
	if currency == "" {
		currency = other.Currency
	}
	return LLMUsage{
		PromptTokens:     u.PromptTokens + other.PromptTokens,
		CompletionTokens: u.CompletionTokens + other.CompletionTokens,
		TotalTokens:      u.TotalTokens + other.TotalTokens,
		TotalPrice:       u.TotalPrice + other.TotalPrice,
		Currency:         currency,
		Latency:          u.Latency + other.Latency,
	}
}

// NodeRef identifies the node a result belongs to.
type NodeRef struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title,omitempty"`
}

// NodeRunResult is the outcome of running a node once.
// It starts as running and is replaced or finalized by the caller; a terminal result is not
// modified afterwards.
type NodeRunResult struct {
	Status NodeExecutionStatus `json:"status"`

	Inputs      map[string]any             `json:"inputs,omitempty"`
	ProcessData map[string]any             `json:"process_data,omitempty"`
	Outputs     map[string]any             `json:"outputs,omitempty"`
	Metadata    map[NodeRunMetadataKey]any `json:"metadata,omitempty"`
	LLMUsage    *LLMUsage                  `json:"llm_usage,omitempty"`

	// EdgeSourceHandle is the branch taken by nodes with multiple outgoing handles.
	EdgeSourceHandle string `json:"edge_source_handle,omitempty"`

	Error     string `json:"error,omitempty"`
	ErrorType string `json:"error_type,omitempty"`

	// RetryIndex is zero for the first attempt of a node step.
	RetryIndex int `json:"retry_index"`
}

// NewNodeRunResult returns a result in the running status.
func NewNodeRunResult() NodeRunResult {
	return NodeRunResult{Status: NodeStatusRunning}
}

// Clone copies the top-level maps so the copy can be stored independently of r.
func (r NodeRunResult) Clone() NodeRunResult {
	out := r
	out.Inputs = maps.Clone(r.Inputs)
	out.ProcessData = maps.Clone(r.ProcessData)
	out.Outputs = maps.Clone(r.Outputs)
	out.Metadata = maps.Clone(r.Metadata)
	if r.LLMUsage != nil {
		usage := *r.LLMUsage
		out.LLMUsage = &usage
	}
	return out
}

// TotalTokens reads MetaTotalTokens, falling back to the LLM usage.
func (r NodeRunResult) TotalTokens() int64 {
	switch v := r.Metadata[MetaTotalTokens].(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	}
	if r.LLMUsage != nil {
		return r.LLMUsage.TotalTokens
	}
	return 0
}

// AgentStrategy describes the strategy an agent node was initialized with.
type AgentStrategy struct {
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}
