// Package models defines the core data types shared across GamePulse.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Complexity classifies how involved an analysis request is.
type Complexity string

const (
	// ComplexitySimple is a single-domain, direct request.
	ComplexitySimple Complexity = "simple"
	// ComplexityModerate spans two domains and needs coordination.
	ComplexityModerate Complexity = "moderate"
	// ComplexityComplex spans several domains and needs deep analysis.
	ComplexityComplex Complexity = "complex"
	// ComplexityComprehensive needs every analysis domain.
	ComplexityComprehensive Complexity = "comprehensive"
)

// Valid returns true if the complexity is a known value.
func (c Complexity) Valid() bool {
	switch c {
	case ComplexitySimple, ComplexityModerate, ComplexityComplex, ComplexityComprehensive:
		return true
	default:
		return false
	}
}

// ComplexityForDomainCount derives a complexity from the number of involved
// domains. Used when no complexity keyword matched the request.
func ComplexityForDomainCount(n int) Complexity {
	switch {
	case n == 1:
		return ComplexitySimple
	case n <= 2:
		return ComplexityModerate
	case n <= 3:
		return ComplexityComplex
	default:
		return ComplexityComprehensive
	}
}

// Strategy is the chosen execution shape for a request.
type Strategy string

const (
	// StrategyDirect hands the request to a single worker.
	StrategyDirect Strategy = "direct"
	// StrategySequential runs tasks one at a time in plan order.
	StrategySequential Strategy = "sequential"
	// StrategyParallel runs dependency layers concurrently.
	StrategyParallel Strategy = "parallel"
	// StrategyHybrid fans out a base layer, then runs dependent work.
	StrategyHybrid Strategy = "hybrid"
)

// Valid returns true if the strategy is a known value.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyDirect, StrategySequential, StrategyParallel, StrategyHybrid:
		return true
	default:
		return false
	}
}

// StrategyFor derives the execution strategy from complexity and domain count.
func StrategyFor(c Complexity, domainCount int) Strategy {
	if c == ComplexitySimple && domainCount == 1 {
		return StrategyDirect
	}
	if c == ComplexityModerate || c == ComplexityComplex {
		return StrategyParallel
	}
	return StrategyHybrid
}

// Priority ranks how important a subtask is relative to its siblings.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Rank returns the numeric weight of a priority for comparisons.
// Unknown priorities rank lowest.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityCritical:
		return 4
	default:
		return 0
	}
}

// Valid returns true if the priority is a known value.
func (p Priority) Valid() bool {
	return p.Rank() != 0
}

// Status is the lifecycle state of a subtask.
type Status string

const (
	// StatusPending indicates the task has not started.
	StatusPending Status = "pending"
	// StatusRunning indicates the task is executing.
	StatusRunning Status = "running"
	// StatusCompleted indicates the task finished successfully.
	StatusCompleted Status = "completed"
	// StatusFailed indicates the task failed permanently.
	StatusFailed Status = "failed"
	// StatusCancelled is reserved for future cancellation support.
	StatusCancelled Status = "cancelled"
)

// Valid returns true if the status is a known value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusRunning, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// Default execution bounds applied to every subtask unless overridden.
const (
	// DefaultTaskTimeout bounds a single capability invocation.
	DefaultTaskTimeout = 120 * time.Second
	// DefaultMaxRetries is the retry budget for capability errors.
	DefaultMaxRetries = 2
)

// SubTask is one unit of analysis work inside an execution plan.
type SubTask struct {
	// ID is the unique, domain-prefixed identifier for this task.
	ID string `json:"id"`
	// Description is the human-readable description of the work.
	Description string `json:"description"`
	// WorkerKind names the capability that executes this task.
	WorkerKind string `json:"worker_kind"`
	// Priority ranks this task relative to its siblings.
	Priority Priority `json:"priority"`
	// DependsOn lists task IDs that must complete before this task.
	DependsOn []string `json:"depends_on,omitempty"`
	// EstimatedDuration is an informational estimate, not a bound.
	EstimatedDuration time.Duration `json:"estimated_duration"`
	// Timeout bounds a single capability invocation.
	Timeout time.Duration `json:"timeout"`
	// RetryCount is the number of retries performed so far.
	RetryCount int `json:"retry_count"`
	// MaxRetries is the retry budget for capability errors.
	MaxRetries int `json:"max_retries"`
	// Status is the current lifecycle state.
	Status Status `json:"status"`
	// Result holds the capability payload once completed.
	Result map[string]any `json:"result,omitempty"`
	// Error holds the failure message once failed.
	Error string `json:"error,omitempty"`
	// StartTime is when execution began, if it did.
	StartTime *time.Time `json:"start_time,omitempty"`
	// EndTime is when execution reached a terminal state, if it did.
	EndTime *time.Time `json:"end_time,omitempty"`
	// Metadata carries free-form per-task context (game ID, chart type, ...).
	Metadata map[string]string `json:"metadata,omitempty"`
}

// NewSubTask creates a pending subtask with a domain-prefixed unique ID and
// default timeout and retry bounds.
func NewSubTask(prefix, description, workerKind string, priority Priority, estimate time.Duration) *SubTask {
	return &SubTask{
		ID:                fmt.Sprintf("%s_%s", prefix, uuid.New().String()[:8]),
		Description:       description,
		WorkerKind:        workerKind,
		Priority:          priority,
		EstimatedDuration: estimate,
		Timeout:           DefaultTaskTimeout,
		MaxRetries:        DefaultMaxRetries,
		Status:            StatusPending,
		Metadata:          make(map[string]string),
	}
}
