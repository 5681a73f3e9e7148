package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gamepulse/gamepulse/internal/graph"
	"github.com/gamepulse/gamepulse/pkg/models"
)

// ErrNoWorker indicates the worker mapping has no capability registered for
// a task's worker kind. This is permanent and never retried.
var ErrNoWorker = errors.New("no worker registered")

// Engine executes an execution plan against a worker mapping. It groups
// tasks into dependency layers, runs each layer concurrently under a
// concurrency cap, bounds every invocation with the task timeout, and
// retries capability errors with exponential backoff.
type Engine struct {
	// maxConcurrent caps simultaneously running tasks.
	maxConcurrent int
	// backoffBase scales the 2^n retry backoff. Production uses one
	// second; tests shrink it.
	backoffBase time.Duration
	// onEvent receives task lifecycle events, if set.
	onEvent func(Event)
	// debugLog is an optional logging function.
	debugLog func(format string, args ...interface{})
}

// EngineConfig contains configuration options for the Engine.
type EngineConfig struct {
	// MaxConcurrent caps simultaneously running tasks. Defaults to 5.
	MaxConcurrent int
	// BackoffBase scales retry backoff delays. Defaults to 1s.
	BackoffBase time.Duration
}

// NewEngine creates a new execution engine.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 5
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = time.Second
	}
	return &Engine{
		maxConcurrent: cfg.MaxConcurrent,
		backoffBase:   cfg.BackoffBase,
		debugLog:      func(format string, args ...interface{}) {},
	}
}

// SetDebugLog sets the debug logging function.
func (e *Engine) SetDebugLog(fn func(format string, args ...interface{})) {
	if fn != nil {
		e.debugLog = fn
	}
}

// SetEventFunc sets the task lifecycle event callback. The callback may be
// invoked from multiple goroutines.
func (e *Engine) SetEventFunc(fn func(Event)) {
	e.onEvent = fn
}

// Execute runs the plan against the worker mapping and aggregates per-task
// outcomes. Failed tasks surface through the summary, not through an error.
func (e *Engine) Execute(ctx context.Context, plan *models.ExecutionPlan, workers map[string]WorkerCapability) *models.ExecutionOutcome {
	start := time.Now()
	e.debugLog("[engine] executing plan: strategy=%s tasks=%d", plan.Strategy, len(plan.SubTasks))

	var results []*models.TaskResult
	switch plan.Strategy {
	case models.StrategyDirect:
		if len(plan.SubTasks) > 0 {
			results = []*models.TaskResult{e.runTask(ctx, plan.SubTasks[0], workers)}
		}
	case models.StrategySequential:
		results = e.executeSequential(ctx, plan.SubTasks, workers, nil)
	case models.StrategyHybrid:
		results = e.executeHybrid(ctx, plan, workers)
	default:
		results = e.executeLayered(ctx, plan.SubTasks, workers)
	}

	duration := time.Since(start)
	return &models.ExecutionOutcome{
		Results:  results,
		Summary:  models.Summarize(results, duration),
		Duration: duration,
	}
}

// executeLayered groups tasks into dependency layers and runs each layer
// concurrently under the concurrency cap. Outcomes come back flattened in
// layer order.
func (e *Engine) executeLayered(ctx context.Context, tasks []*models.SubTask, workers map[string]WorkerCapability) []*models.TaskResult {
	layers := graph.LayersWithLog(tasks, e.debugLog)
	e.debugLog("[engine] %d tasks grouped into %d layers", len(tasks), len(layers))

	sem := make(chan struct{}, e.maxConcurrent)
	var all []*models.TaskResult

	for _, layer := range layers {
		results := make([]*models.TaskResult, len(layer))
		var wg sync.WaitGroup
		for i, task := range layer {
			wg.Add(1)
			go func(i int, task *models.SubTask) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()
				results[i] = e.runTask(ctx, task, workers)
			}(i, task)
		}
		wg.Wait()
		all = append(all, results...)
	}
	return all
}

// executeSequential runs tasks one at a time in order. Before each task it
// verifies every dependency completed among the accumulated results (prior
// outcomes included); an unsatisfied dependency fails the task without
// invocation. A failed critical task halts the remaining sequence.
func (e *Engine) executeSequential(ctx context.Context, tasks []*models.SubTask, workers map[string]WorkerCapability, prior []*models.TaskResult) []*models.TaskResult {
	completed := make(map[string]bool)
	for _, r := range prior {
		if r.Completed() {
			completed[r.TaskID] = true
		}
	}

	var results []*models.TaskResult
	for _, task := range tasks {
		if unmet := unmetDependency(task, completed); unmet != "" {
			e.debugLog("[engine] task %s has unmet dependency %s, failing without execution", task.ID, unmet)
			now := time.Now()
			task.Status = models.StatusFailed
			task.Error = fmt.Sprintf("unmet dependency: %s", unmet)
			task.EndTime = &now
			results = append(results, &models.TaskResult{
				TaskID:      task.ID,
				Description: task.Description,
				WorkerKind:  task.WorkerKind,
				Status:      models.ResultFailed,
				Error:       task.Error,
				Priority:    task.Priority,
			})
			if task.Priority == models.PriorityCritical {
				e.debugLog("[engine] critical task %s failed, halting sequential execution", task.ID)
				break
			}
			continue
		}

		result := e.runTask(ctx, task, workers)
		results = append(results, result)
		if result.Completed() {
			completed[task.ID] = true
		} else if task.Priority == models.PriorityCritical {
			e.debugLog("[engine] critical task %s failed, halting sequential execution", task.ID)
			break
		}
	}
	return results
}

// executeHybrid runs the declared parallel groups through the layered
// algorithm, then the declared sequential subset seeded with the group
// outcomes so cross-phase dependencies resolve. Plans without a declared
// partition degrade to one layered pass over the whole task list.
func (e *Engine) executeHybrid(ctx context.Context, plan *models.ExecutionPlan, workers map[string]WorkerCapability) []*models.TaskResult {
	if len(plan.ParallelGroups) == 0 && len(plan.SequentialOrder) == 0 {
		e.debugLog("[engine] hybrid plan has no declared partition, running one layered pass")
		return e.executeLayered(ctx, plan.SubTasks, workers)
	}

	var all []*models.TaskResult
	for _, group := range plan.ParallelGroups {
		groupTasks := tasksByID(plan, group)
		all = append(all, e.executeLayered(ctx, groupTasks, workers)...)
	}

	if seqTasks := tasksByID(plan, plan.SequentialOrder); len(seqTasks) > 0 {
		all = append(all, e.executeSequential(ctx, seqTasks, workers, all)...)
	}
	return all
}

// runTask executes one task against its worker capability: mark running,
// resolve the worker, invoke with the task timeout, and retry capability
// errors in a bounded loop with 2^n backoff. Missing workers and timeouts
// are permanent.
func (e *Engine) runTask(ctx context.Context, task *models.SubTask, workers map[string]WorkerCapability) *models.TaskResult {
	for {
		start := time.Now()
		task.Status = models.StatusRunning
		task.StartTime = &start
		e.emit(Event{Type: EventTaskStarted, TaskID: task.ID, WorkerKind: task.WorkerKind, Message: task.Description, Timestamp: start})

		worker, ok := workers[task.WorkerKind]
		if !ok {
			err := fmt.Errorf("%w: %s", ErrNoWorker, task.WorkerKind)
			e.debugLog("[engine] task %s: %v", task.ID, err)
			return e.fail(task, err, time.Since(start))
		}

		payload, err := e.invoke(ctx, worker, task)
		elapsed := time.Since(start)

		if err == nil {
			end := time.Now()
			task.Status = models.StatusCompleted
			task.Result = payload
			task.EndTime = &end
			e.emit(Event{Type: EventTaskCompleted, TaskID: task.ID, WorkerKind: task.WorkerKind, Timestamp: end})
			return &models.TaskResult{
				TaskID:      task.ID,
				Description: task.Description,
				WorkerKind:  task.WorkerKind,
				Status:      models.ResultCompleted,
				Result:      payload,
				Duration:    elapsed,
				RetryCount:  task.RetryCount,
				Priority:    task.Priority,
			}
		}

		if errors.Is(err, context.DeadlineExceeded) {
			// Timeouts are terminal: retry only applies to capability errors.
			e.debugLog("[engine] task %s timed out after %s", task.ID, task.Timeout)
			end := time.Now()
			task.Status = models.StatusFailed
			task.Error = fmt.Sprintf("task timed out (%s)", task.Timeout)
			task.EndTime = &end
			e.emit(Event{Type: EventTaskFailed, TaskID: task.ID, WorkerKind: task.WorkerKind, Err: err, Timestamp: end})
			return &models.TaskResult{
				TaskID:      task.ID,
				Description: task.Description,
				WorkerKind:  task.WorkerKind,
				Status:      models.ResultTimeout,
				Error:       task.Error,
				Duration:    task.Timeout,
				RetryCount:  task.RetryCount,
				Priority:    task.Priority,
			}
		}

		if task.RetryCount < task.MaxRetries {
			task.RetryCount++
			delay := e.backoffBase << task.RetryCount
			e.debugLog("[engine] task %s failed (attempt %d), retrying in %s: %v", task.ID, task.RetryCount, delay, err)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return e.fail(task, ctx.Err(), time.Since(start))
			}
			continue
		}

		e.debugLog("[engine] task %s failed permanently after %d retries: %v", task.ID, task.RetryCount, err)
		return e.fail(task, err, elapsed)
	}
}

// invoke calls the worker with a context bounded by the task timeout.
// The invocation runs in its own goroutine so a worker that ignores
// cancellation cannot stall the engine past the deadline.
func (e *Engine) invoke(ctx context.Context, worker WorkerCapability, task *models.SubTask) (map[string]any, error) {
	tctx, cancel := context.WithTimeout(ctx, task.Timeout)
	defer cancel()

	type invocation struct {
		payload map[string]any
		err     error
	}
	done := make(chan invocation, 1)
	go func() {
		payload, err := worker.Invoke(tctx, task.Description, ContextForTask(task))
		done <- invocation{payload, err}
	}()

	select {
	case inv := <-done:
		return inv.payload, inv.err
	case <-tctx.Done():
		return nil, tctx.Err()
	}
}

// fail marks the task permanently failed and builds its outcome.
func (e *Engine) fail(task *models.SubTask, err error, elapsed time.Duration) *models.TaskResult {
	end := time.Now()
	task.Status = models.StatusFailed
	task.Error = err.Error()
	task.EndTime = &end
	e.emit(Event{Type: EventTaskFailed, TaskID: task.ID, WorkerKind: task.WorkerKind, Err: err, Timestamp: end})
	return &models.TaskResult{
		TaskID:      task.ID,
		Description: task.Description,
		WorkerKind:  task.WorkerKind,
		Status:      models.ResultFailed,
		Error:       task.Error,
		Duration:    elapsed,
		RetryCount:  task.RetryCount,
		Priority:    task.Priority,
	}
}

// emit forwards a task lifecycle event to the callback, if set.
func (e *Engine) emit(ev Event) {
	if e.onEvent != nil {
		e.onEvent(ev)
	}
}

// unmetDependency returns the first dependency ID not yet completed, or ""
// when all dependencies are satisfied.
func unmetDependency(task *models.SubTask, completed map[string]bool) string {
	for _, depID := range task.DependsOn {
		if !completed[depID] {
			return depID
		}
	}
	return ""
}

// tasksByID resolves plan task IDs to subtasks, preserving order and
// skipping IDs the plan does not contain.
func tasksByID(plan *models.ExecutionPlan, ids []string) []*models.SubTask {
	var tasks []*models.SubTask
	for _, id := range ids {
		if t := plan.Task(id); t != nil {
			tasks = append(tasks, t)
		}
	}
	return tasks
}
