package domain

// IterationMetadata describes the collection an iteration node walks over.
type IterationMetadata struct {
	IteratorLength int `json:"iterator_length"`
}

// IterationState is the active frame of an iteration node.
type IterationState struct {
	NodeID   string            `json:"iteration_node_id"`
	Index    int               `json:"index"`
	Inputs   map[string]any    `json:"inputs,omitempty"`
	Metadata IterationMetadata `json:"metadata"`
}

// LoopMetadata describes the bounds of a loop node.
type LoopMetadata struct {
	LoopCount int `json:"loop_count"`
}

// LoopState is the active frame of a loop node.
type LoopState struct {
	NodeID   string         `json:"loop_node_id"`
	Index    int            `json:"index"`
	Inputs   map[string]any `json:"inputs,omitempty"`
	Metadata LoopMetadata   `json:"metadata"`
}

// NodeRun is the compact ledger entry of one node dispatch.
// Empty enclosing ids mean the node ran outside any iteration or loop.
type NodeRun struct {
	NodeID          string `json:"node_id"`
	IterationNodeID string `json:"iteration_node_id,omitempty"`
	LoopNodeID      string `json:"loop_node_id,omitempty"`
}
