package models

import "time"

// ResultStatus is the terminal outcome of one task execution.
type ResultStatus string

const (
	// ResultCompleted indicates the capability returned a payload.
	ResultCompleted ResultStatus = "completed"
	// ResultFailed indicates a permanent failure (no worker, exhausted
	// retries, or an unmet dependency on the sequential path).
	ResultFailed ResultStatus = "failed"
	// ResultTimeout indicates the capability exceeded the task timeout.
	// Timeouts are terminal and never retried.
	ResultTimeout ResultStatus = "timeout"
)

// TaskResult is the outcome of executing a single subtask.
type TaskResult struct {
	// TaskID identifies the subtask this outcome belongs to.
	TaskID string `json:"task_id"`
	// Description is carried over from the subtask.
	Description string `json:"description"`
	// WorkerKind is the capability tag that executed (or should have
	// executed) the task.
	WorkerKind string `json:"worker_kind"`
	// Status is the terminal outcome.
	Status ResultStatus `json:"status"`
	// Result is the capability payload for completed tasks.
	Result map[string]any `json:"result,omitempty"`
	// Error is the failure message for failed and timed-out tasks.
	Error string `json:"error,omitempty"`
	// Duration is the wall time spent on the task. For timeouts this is
	// the timeout value itself.
	Duration time.Duration `json:"duration"`
	// RetryCount is the number of retries actually performed.
	RetryCount int `json:"retry_count,omitempty"`
	// Priority is carried over from the subtask.
	Priority Priority `json:"priority"`
}

// Completed reports whether the task finished successfully.
func (r *TaskResult) Completed() bool {
	return r.Status == ResultCompleted
}

// ExecutionSummary aggregates per-task outcomes for one plan execution.
type ExecutionSummary struct {
	// TotalTasks is the number of task outcomes recorded.
	TotalTasks int `json:"total_tasks"`
	// SuccessfulTasks is the number of completed tasks.
	SuccessfulTasks int `json:"successful_tasks"`
	// FailedTasks is the number of permanently failed tasks.
	FailedTasks int `json:"failed_tasks"`
	// TimeoutTasks is the number of timed-out tasks.
	TimeoutTasks int `json:"timeout_tasks"`
	// SuccessRate is SuccessfulTasks/TotalTasks*100, 0 when TotalTasks is 0.
	SuccessRate float64 `json:"success_rate"`
	// TotalDuration is the wall time of the whole execution.
	TotalDuration time.Duration `json:"total_duration"`
	// AvgTaskDuration is TotalDuration/TotalTasks, 0 when TotalTasks is 0.
	AvgTaskDuration time.Duration `json:"avg_task_duration"`
}

// Summarize builds an ExecutionSummary from task outcomes.
func Summarize(results []*TaskResult, duration time.Duration) ExecutionSummary {
	s := ExecutionSummary{
		TotalTasks:    len(results),
		TotalDuration: duration,
	}
	for _, r := range results {
		switch r.Status {
		case ResultCompleted:
			s.SuccessfulTasks++
		case ResultTimeout:
			s.TimeoutTasks++
		default:
			s.FailedTasks++
		}
	}
	if s.TotalTasks > 0 {
		s.SuccessRate = float64(s.SuccessfulTasks) / float64(s.TotalTasks) * 100
		s.AvgTaskDuration = duration / time.Duration(s.TotalTasks)
	}
	return s
}

// ExecutionOutcome is the execution engine's result for one plan.
type ExecutionOutcome struct {
	// Results are the per-task outcomes in execution order.
	Results []*TaskResult `json:"results"`
	// Summary aggregates the outcomes.
	Summary ExecutionSummary `json:"summary"`
	// Duration is the wall time of the whole execution.
	Duration time.Duration `json:"duration"`
}

// SessionInfo carries session-level metadata on a session result.
type SessionInfo struct {
	// SessionID identifies the orchestration session.
	SessionID string `json:"session_id"`
	// TotalDuration is the end-to-end session wall time.
	TotalDuration time.Duration `json:"total_duration"`
	// SuccessRate is the execution success rate for the session.
	SuccessRate float64 `json:"success_rate"`
}

// SessionStatus is the overall outcome of one orchestration session.
type SessionStatus string

const (
	// SessionSuccess indicates the session produced a report.
	SessionSuccess SessionStatus = "success"
	// SessionError indicates the session failed at some phase.
	SessionError SessionStatus = "error"
)

// SessionResult is the sole externally observable contract of the
// orchestrator: callers always receive one of these, never a raw error.
type SessionResult struct {
	// Status is success or error.
	Status SessionStatus `json:"status"`
	// Request is the original request text.
	Request string `json:"request"`
	// Complexity is the classified complexity, when analysis succeeded.
	Complexity Complexity `json:"complexity,omitempty"`
	// Strategy is the chosen strategy, when analysis succeeded.
	Strategy Strategy `json:"strategy,omitempty"`
	// Summary aggregates task outcomes, when execution ran.
	Summary ExecutionSummary `json:"execution_summary"`
	// Report is the synthesized final report text.
	Report string `json:"final_report,omitempty"`
	// Session carries session-level metadata.
	Session SessionInfo `json:"session_info"`
	// Error is the failure message for error sessions.
	Error string `json:"error,omitempty"`
	// PartialResults are the task outcomes accumulated before an error.
	PartialResults []*TaskResult `json:"partial_results,omitempty"`
}

// OrchestratorState is the per-session record owned by one orchestrator.
// It is mutated only during Orchestrate and never shared across concurrent
// sessions.
type OrchestratorState struct {
	// SessionID identifies this session.
	SessionID string `json:"session_id"`
	// Request is the original request text.
	Request string `json:"request"`
	// Plan is the execution plan built for the request, if planning ran.
	Plan *ExecutionPlan `json:"plan,omitempty"`
	// ActiveTasks maps IDs of tasks currently running.
	ActiveTasks map[string]*SubTask `json:"active_tasks"`
	// CompletedTasks maps IDs of tasks that completed.
	CompletedTasks map[string]*TaskResult `json:"completed_tasks"`
	// FailedTasks maps IDs of tasks that failed or timed out.
	FailedTasks map[string]*TaskResult `json:"failed_tasks"`
	// StartTime is when the session began.
	StartTime time.Time `json:"start_time"`
	// EndTime is when the session reached a terminal phase.
	EndTime time.Time `json:"end_time"`
	// TotalDuration is the end-to-end session wall time.
	TotalDuration time.Duration `json:"total_duration"`
	// SuccessRate is the execution success rate for the session.
	SuccessRate float64 `json:"success_rate"`
}

// NewOrchestratorState creates an empty per-session state record.
func NewOrchestratorState(sessionID, request string) *OrchestratorState {
	return &OrchestratorState{
		SessionID:      sessionID,
		Request:        request,
		ActiveTasks:    make(map[string]*SubTask),
		CompletedTasks: make(map[string]*TaskResult),
		FailedTasks:    make(map[string]*TaskResult),
	}
}
