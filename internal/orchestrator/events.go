package orchestrator

import "time"

// EventType represents the type of orchestrator event.
type EventType string

const (
	// EventSessionStarted indicates a session has begun analyzing a request.
	EventSessionStarted EventType = "session_started"
	// EventPlanReady indicates decomposition produced an execution plan.
	EventPlanReady EventType = "plan_ready"
	// EventTaskStarted indicates a task has started execution.
	EventTaskStarted EventType = "task_started"
	// EventTaskCompleted indicates a task completed successfully.
	EventTaskCompleted EventType = "task_completed"
	// EventTaskFailed indicates a task failed or timed out.
	EventTaskFailed EventType = "task_failed"
	// EventSessionDone indicates the entire session is complete.
	EventSessionDone EventType = "session_done"
)

// Event represents an event emitted by the orchestrator.
// These events drive CLI progress output.
type Event struct {
	// Type is the kind of event.
	Type EventType
	// TaskID is the ID of the related task, if applicable.
	TaskID string
	// WorkerKind is the worker tag of the related task, if applicable.
	WorkerKind string
	// Message provides additional context about the event.
	Message string
	// Err contains error details for failure events.
	Err error
	// Timestamp is when the event occurred.
	Timestamp time.Time
}
