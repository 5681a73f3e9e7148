package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gamepulse/gamepulse/internal/classify"
	"github.com/gamepulse/gamepulse/pkg/models"
)

// Phase is the orchestrator's position in the session state machine.
type Phase string

const (
	// PhaseIdle is the state before any request arrives.
	PhaseIdle Phase = "idle"
	// PhaseAnalyzing is classification of the request.
	PhaseAnalyzing Phase = "analyzing"
	// PhasePlanning is decomposition into an execution plan.
	PhasePlanning Phase = "planning"
	// PhaseExecuting is plan execution against the worker mapping.
	PhaseExecuting Phase = "executing"
	// PhaseSynthesizing is merging outcomes into the final report.
	PhaseSynthesizing Phase = "synthesizing"
	// PhaseDone is the terminal state of a successful session.
	PhaseDone Phase = "done"
	// PhaseError is reachable from any step on an unhandled failure.
	PhaseError Phase = "error"
)

// Config contains configuration options for the Orchestrator.
type Config struct {
	// Workers maps worker kinds to their capabilities. Required.
	Workers map[string]WorkerCapability
	// Classifier classifies requests. Defaults to the keyword classifier.
	Classifier classify.Classifier
	// Engine executes plans. Defaults to NewEngine with default bounds.
	Engine *Engine
	// Logger is the debug logger. Defaults to a no-op logger.
	Logger *DebugLogger
	// EventBuffer sizes the event channel. Defaults to 64.
	EventBuffer int
	// TaskTimeout overrides the per-task timeout when positive.
	TaskTimeout time.Duration
	// MaxRetries overrides the per-task retry budget when positive.
	MaxRetries int
}

// Orchestrator sequences classification, decomposition, execution, and
// synthesis for one request at a time. Each Orchestrate call is one
// session with its own state record; concurrent sessions need separate
// Orchestrator instances.
type Orchestrator struct {
	classifier  classify.Classifier
	decomposer  *Decomposer
	engine      *Engine
	synthesizer *Synthesizer
	workers     map[string]WorkerCapability
	logger      *DebugLogger

	// events is the channel for emitting session events.
	events chan Event
	// dropped counts events discarded because the channel was full.
	dropped uint64

	// mu protects phase and state.
	mu    sync.RWMutex
	phase Phase
	state *models.OrchestratorState
}

// New creates an Orchestrator from the given configuration.
func New(cfg Config) *Orchestrator {
	if cfg.Classifier == nil {
		cfg.Classifier = classify.NewKeywordClassifier()
	}
	if cfg.Engine == nil {
		cfg.Engine = NewEngine(EngineConfig{})
	}
	if cfg.Logger == nil {
		cfg.Logger = NopLogger()
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = 64
	}

	o := &Orchestrator{
		classifier:  cfg.Classifier,
		decomposer:  NewDecomposer(),
		engine:      cfg.Engine,
		synthesizer: NewSynthesizer(),
		workers:     cfg.Workers,
		logger:      cfg.Logger,
		events:      make(chan Event, cfg.EventBuffer),
		phase:       PhaseIdle,
	}

	o.decomposer.SetTaskDefaults(cfg.TaskTimeout, cfg.MaxRetries)
	o.decomposer.SetDebugLog(o.logger.Log)
	o.engine.SetDebugLog(o.logger.Log)
	o.engine.SetEventFunc(o.onTaskEvent)
	return o
}

// Events returns the channel for receiving session events.
func (o *Orchestrator) Events() <-chan Event {
	return o.events
}

// Phase returns the current state machine phase.
func (o *Orchestrator) Phase() Phase {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.phase
}

// State returns the state record of the current or most recent session.
func (o *Orchestrator) State() *models.OrchestratorState {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// DroppedEventCount returns the number of events discarded because no
// consumer kept up with the event channel.
func (o *Orchestrator) DroppedEventCount() uint64 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.dropped
}

// Orchestrate runs one full session for the request. It always returns a
// structured result: failures at any phase surface as an error-status
// result carrying the message and whatever task outcomes had accumulated,
// never as a raw error.
func (o *Orchestrator) Orchestrate(ctx context.Context, request string) *models.SessionResult {
	state := models.NewOrchestratorState(uuid.New().String(), request)
	state.StartTime = time.Now()

	o.mu.Lock()
	o.state = state
	o.mu.Unlock()

	o.setPhase(PhaseAnalyzing)
	o.emit(Event{Type: EventSessionStarted, Message: request, Timestamp: state.StartTime})
	o.logger.Log("[orchestrator] session %s: analyzing request %q", state.SessionID, request)

	classification, err := o.classifier.Classify(ctx, request)
	if err != nil {
		return o.failSession(state, fmt.Errorf("classify request: %w", err), nil)
	}
	o.logger.Log("[orchestrator] session %s: complexity=%s domains=%v strategy=%s",
		state.SessionID, classification.Complexity, classification.Domains, classification.Strategy)

	o.setPhase(PhasePlanning)
	plan := o.decomposer.BuildPlan(request, classification)
	state.Plan = plan
	o.emit(Event{Type: EventPlanReady, Message: fmt.Sprintf("%d tasks, %s strategy", len(plan.SubTasks), plan.Strategy), Timestamp: time.Now()})
	o.logger.Log("[orchestrator] session %s: plan has %d subtasks, expected duration %s",
		state.SessionID, len(plan.SubTasks), plan.ExpectedDuration)

	o.setPhase(PhaseExecuting)
	outcome := o.engine.Execute(ctx, plan, o.workers)

	o.setPhase(PhaseSynthesizing)
	report := o.synthesizer.Synthesize(outcome.Results, request, outcome.Summary)

	state.EndTime = time.Now()
	state.TotalDuration = state.EndTime.Sub(state.StartTime)
	state.SuccessRate = outcome.Summary.SuccessRate
	o.recordOutcomes(state, outcome.Results)

	o.setPhase(PhaseDone)
	o.emit(Event{Type: EventSessionDone, Message: fmt.Sprintf("success rate %.1f%%", state.SuccessRate), Timestamp: state.EndTime})
	o.logger.Log("[orchestrator] session %s: done in %s, success rate %.1f%%",
		state.SessionID, state.TotalDuration, state.SuccessRate)

	return &models.SessionResult{
		Status:     models.SessionSuccess,
		Request:    request,
		Complexity: classification.Complexity,
		Strategy:   classification.Strategy,
		Summary:    outcome.Summary,
		Report:     report,
		Session: models.SessionInfo{
			SessionID:     state.SessionID,
			TotalDuration: state.TotalDuration,
			SuccessRate:   state.SuccessRate,
		},
	}
}

// failSession transitions to the error phase and builds the error-shaped
// session result.
func (o *Orchestrator) failSession(state *models.OrchestratorState, err error, partial []*models.TaskResult) *models.SessionResult {
	state.EndTime = time.Now()
	state.TotalDuration = state.EndTime.Sub(state.StartTime)
	o.recordOutcomes(state, partial)

	o.setPhase(PhaseError)
	o.emit(Event{Type: EventSessionDone, Err: err, Timestamp: state.EndTime})
	o.logger.Log("[orchestrator] session %s: failed: %v", state.SessionID, err)

	return &models.SessionResult{
		Status:  models.SessionError,
		Request: state.Request,
		Error:   err.Error(),
		Session: models.SessionInfo{
			SessionID:     state.SessionID,
			TotalDuration: state.TotalDuration,
		},
		PartialResults: partial,
	}
}

// recordOutcomes files task outcomes into the session state maps.
func (o *Orchestrator) recordOutcomes(state *models.OrchestratorState, results []*models.TaskResult) {
	for _, r := range results {
		delete(state.ActiveTasks, r.TaskID)
		if r.Completed() {
			state.CompletedTasks[r.TaskID] = r
		} else {
			state.FailedTasks[r.TaskID] = r
		}
	}
}

// onTaskEvent tracks active tasks on the session state and forwards engine
// events to the session channel.
func (o *Orchestrator) onTaskEvent(ev Event) {
	o.mu.Lock()
	if o.state != nil && o.state.Plan != nil {
		switch ev.Type {
		case EventTaskStarted:
			if task := o.state.Plan.Task(ev.TaskID); task != nil {
				o.state.ActiveTasks[ev.TaskID] = task
			}
		case EventTaskCompleted, EventTaskFailed:
			delete(o.state.ActiveTasks, ev.TaskID)
		}
	}
	o.mu.Unlock()

	o.emit(ev)
}

// setPhase records a state machine transition.
func (o *Orchestrator) setPhase(p Phase) {
	o.mu.Lock()
	o.phase = p
	o.mu.Unlock()
}

// emit sends an event without blocking; events are dropped when no consumer
// keeps up.
func (o *Orchestrator) emit(ev Event) {
	select {
	case o.events <- ev:
	default:
		o.mu.Lock()
		o.dropped++
		o.mu.Unlock()
	}
}
