// Package orchestrator provides request classification, task decomposition,
// plan execution, and result synthesis for GamePulse sessions.
package orchestrator

import (
	"context"

	"github.com/gamepulse/gamepulse/pkg/models"
)

// WorkerCapability is the externally supplied unit of work execution for one
// domain tag. Implementations should honor context cancellation on a
// best-effort basis; the engine bounds every invocation with the task's
// timeout regardless.
type WorkerCapability interface {
	Invoke(ctx context.Context, description string, taskCtx TaskContext) (map[string]any, error)
}

// WorkerFunc adapts a plain function to the WorkerCapability interface.
type WorkerFunc func(ctx context.Context, description string, taskCtx TaskContext) (map[string]any, error)

// Invoke calls the wrapped function.
func (f WorkerFunc) Invoke(ctx context.Context, description string, taskCtx TaskContext) (map[string]any, error) {
	return f(ctx, description, taskCtx)
}

// TimeRange bounds the data window a worker should analyze.
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// TaskContext is the minimal structured bag passed to a worker capability.
// It is built fresh per task from task metadata.
type TaskContext struct {
	// GameID identifies the game under analysis.
	GameID string `json:"game_id"`
	// AnalysisKind is the requested analysis kind (the worker tag).
	AnalysisKind string `json:"analysis_kind"`
	// TimeRange bounds the analysis window.
	TimeRange TimeRange `json:"time_range"`
	// Metrics lists the specific metrics to analyze.
	Metrics []string `json:"metrics"`
}

// defaultGameID is used when task metadata carries no game ID.
const defaultGameID = "demo_game"

// ContextForTask builds the per-task worker context from task metadata.
func ContextForTask(task *models.SubTask) TaskContext {
	gameID := task.Metadata["game_id"]
	if gameID == "" {
		gameID = defaultGameID
	}
	return TaskContext{
		GameID:       gameID,
		AnalysisKind: task.WorkerKind,
		TimeRange:    TimeRange{Start: "2024-01-01", End: "2024-12-31"},
		Metrics:      []string{task.WorkerKind},
	}
}
