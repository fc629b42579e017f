package types

import "time"

// Status is the terminal outcome of task execution. A result's status never
// changes after creation.
type Status string

const (
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// ExecutionResult is the immutable outcome of processing a Task.
// Payload is present iff the status is COMPLETED; Error iff FAILED.
type ExecutionResult struct {
	TaskID    string            `json:"task_id"`
	Status    Status            `json:"status"`
	Payload   map[string]any    `json:"payload,omitempty"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// Completed builds a successful result for the given task.
func Completed(taskID string, payload map[string]any, agentID string) *ExecutionResult {
	return &ExecutionResult{
		TaskID:    taskID,
		Status:    StatusCompleted,
		Payload:   payload,
		Metadata:  map[string]string{"agent_id": agentID},
		CreatedAt: time.Now(),
	}
}

// Failed builds a failure result. Extra metadata pairs are merged over the
// default agent_id entry.
func Failed(taskID, errMsg, agentID string, metadata map[string]string) *ExecutionResult {
	md := map[string]string{"agent_id": agentID}
	for k, v := range metadata {
		md[k] = v
	}
	return &ExecutionResult{
		TaskID:    taskID,
		Status:    StatusFailed,
		Error:     errMsg,
		Metadata:  md,
		CreatedAt: time.Now(),
	}
}

// Succeeded reports whether the result completed.
func (r *ExecutionResult) Succeeded() bool {
	return r != nil && r.Status == StatusCompleted
}
