package domain

import "time"

// EventType defines the category of a run event.
type EventType string

const (
	EventNodeResult     EventType = "node_result"
	EventIterationEnter EventType = "iteration_enter"
	EventIterationExit  EventType = "iteration_exit"
	EventLoopEnter      EventType = "loop_enter"
	EventLoopExit       EventType = "loop_exit"
	EventTokens         EventType = "tokens"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp  time.Time `json:"timestamp"`
	Type       EventType `json:"type"`
	WorkflowID string    `json:"workflow_id"`
}

// NodeResultEvent is emitted when a node result is appended to the history.
type NodeResultEvent struct {
	EventBase
	Node       NodeRef             `json:"node"`
	Status     NodeExecutionStatus `json:"status"`
	RetryIndex int                 `json:"retry_index"`
	Step       int                 `json:"step"`
	Tokens     int64               `json:"tokens"`
	Elapsed    time.Duration       `json:"elapsed"` // since run start
}

// FrameEvent is emitted when an iteration or loop frame is entered or exited.
type FrameEvent struct {
	EventBase
	NodeID string `json:"node_id"`
	Index  int    `json:"index"`
}

// TokenEvent is emitted when tokens are added to a run.
type TokenEvent struct {
	EventBase
	Delta int64 `json:"delta"`
	Total int64 `json:"total"`
}

// LifecycleHooks defines callbacks for run observability.
// Hooks run synchronously on the writer's goroutine; nil hooks are skipped.
type LifecycleHooks struct {
	OnNodeResult     func(*NodeResultEvent)
	OnIterationEnter func(*FrameEvent)
	OnIterationExit  func(*FrameEvent)
	OnLoopEnter      func(*FrameEvent)
	OnLoopExit       func(*FrameEvent)
	OnTokens         func(*TokenEvent)
}
