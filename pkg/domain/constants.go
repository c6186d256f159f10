package domain

// Scope identifiers used as the first element of a selector.
// Any other first element is a node id.
const (
	SystemScope       = "sys"
	EnvironmentScope  = "env"
	ConversationScope = "conversation"
)

// SystemVariableKey names a variable injected by the platform under SystemScope.
type SystemVariableKey string

const (
	SystemQuery          SystemVariableKey = "query"
	SystemFiles          SystemVariableKey = "files"
	SystemConversationID SystemVariableKey = "conversation_id"
	SystemUserID         SystemVariableKey = "user_id"
	SystemDialogueCount  SystemVariableKey = "dialogue_count"
	SystemAppID          SystemVariableKey = "app_id"
	SystemWorkflowID     SystemVariableKey = "workflow_id"
	SystemWorkflowRunID  SystemVariableKey = "workflow_run_id"
)

// SystemVariableKeys lists every well-known system key.
var SystemVariableKeys = []SystemVariableKey{
	SystemQuery,
	SystemFiles,
	SystemConversationID,
	SystemUserID,
	SystemDialogueCount,
	SystemAppID,
	SystemWorkflowID,
	SystemWorkflowRunID,
}

// IsValid reports whether k is a well-known system key.
func (k SystemVariableKey) IsValid() bool {
	for _, known := range SystemVariableKeys {
		if k == known {
			return true
		}
	}
	return false
}
