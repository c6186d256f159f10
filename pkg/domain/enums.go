package domain

// NodeExecutionStatus is the lifecycle status of a single node attempt.
type NodeExecutionStatus string

const (
	NodeStatusRunning   NodeExecutionStatus = "running"
	NodeStatusSucceeded NodeExecutionStatus = "succeeded"
	NodeStatusFailed    NodeExecutionStatus = "failed"
	NodeStatusStopped   NodeExecutionStatus = "stopped"
	NodeStatusException NodeExecutionStatus = "exception" // failed, but the node continues on error
	NodeStatusRetry     NodeExecutionStatus = "retry"     // attempt failed and will be retried
)

// IsTerminal reports whether no further transition is expected for this attempt.
func (s NodeExecutionStatus) IsTerminal() bool {
	switch s {
	case NodeStatusSucceeded, NodeStatusFailed, NodeStatusStopped, NodeStatusException, NodeStatusRetry:
		return true
	}
	return false
}

// WorkflowType distinguishes plain workflows from chat-style (advanced chat) apps.
type WorkflowType string

const (
	WorkflowTypeWorkflow WorkflowType = "workflow"
	WorkflowTypeChat     WorkflowType = "chat"
)

// UserFrom tells whether the invoking user is an account or an end user.
type UserFrom string

const (
	UserFromAccount UserFrom = "account"
	UserFromEndUser UserFrom = "end-user"
)

// InvokeFrom is the channel a run was invoked through.
type InvokeFrom string

const (
	InvokeFromServiceAPI InvokeFrom = "service-api"
	InvokeFromWebApp     InvokeFrom = "web-app"
	InvokeFromExplore    InvokeFrom = "explore"
	InvokeFromDebugger   InvokeFrom = "debugger"
)
