package types

import (
	"time"

	"github.com/google/uuid"
)

// Priority represents task urgency.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityNormal Priority = "NORMAL"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// Valid reports whether p is one of the defined priority levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Task is an immutable unit of work flowing through the delegation tree.
//
// Params must be treated as read-only after construction: a node only reads
// from them and writes to a freshly constructed child Task (see Child).
type Task struct {
	TaskID     string         `json:"task_id"`
	Kind       string         `json:"task_kind"`
	Priority   Priority       `json:"priority"`
	Params     map[string]any `json:"parameters,omitempty"`
	AssignedTo Role           `json:"assigned_to"`
	AssignedBy Role           `json:"assigned_by"`
	CreatedAt  time.Time      `json:"created_at"`
}

// NewTask constructs a top-level task. An empty id gets a generated UUID.
func NewTask(id, kind string, priority Priority, params map[string]any, to, by Role) *Task {
	if id == "" {
		id = uuid.NewString()
	}
	if !priority.Valid() {
		priority = PriorityNormal
	}
	return &Task{
		TaskID:     id,
		Kind:       kind,
		Priority:   priority,
		Params:     params,
		AssignedTo: to,
		AssignedBy: by,
		CreatedAt:  time.Now(),
	}
}

// Child derives a subordinate task from t. The child id is the parent id with
// the subordinate role appended, priority is inherited, and the assignment
// fields record the delegation edge: AssignedTo is the child's role,
// AssignedBy the parent's.
func (t *Task) Child(role Role, kind string, params map[string]any) *Task {
	return &Task{
		TaskID:     t.TaskID + "_" + string(role),
		Kind:       kind,
		Priority:   t.Priority,
		Params:     params,
		AssignedTo: role,
		AssignedBy: t.AssignedTo,
		CreatedAt:  time.Now(),
	}
}

// Param returns the raw parameter value for key.
func (t *Task) Param(key string) (any, bool) {
	v, ok := t.Params[key]
	return v, ok
}

// StringParam returns the parameter as a string, or "" when absent or not a string.
func (t *Task) StringParam(key string) string {
	if v, ok := t.Params[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// FloatParam returns a numeric parameter as float64. Integers are widened.
func (t *Task) FloatParam(key string) (float64, bool) {
	switch v := t.Params[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// StringsParam returns a parameter declared as either []string or []any of
// strings. Fan-out targets arrive both ways depending on the caller.
func (t *Task) StringsParam(key string) []string {
	switch v := t.Params[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
