package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gamepulse/gamepulse/internal/classify"
	"github.com/gamepulse/gamepulse/pkg/models"
)

// stubClassifier returns a fixed classification or error.
type stubClassifier struct {
	classification classify.Classification
	err            error
}

func (s *stubClassifier) Classify(ctx context.Context, request string) (classify.Classification, error) {
	return s.classification, s.err
}

func stubWorkers() map[string]WorkerCapability {
	payload := func(kind string) map[string]any {
		return map[string]any{"kind": kind}
	}
	workers := make(map[string]WorkerCapability)
	for _, kind := range classify.KnownDomains() {
		kind := kind
		workers[kind] = WorkerFunc(func(ctx context.Context, description string, taskCtx TaskContext) (map[string]any, error) {
			return payload(kind), nil
		})
	}
	return workers
}

func TestOrchestrateSuccess(t *testing.T) {
	orch := New(Config{
		Workers: stubWorkers(),
		Engine:  testEngine(),
	})

	result := orch.Orchestrate(context.Background(), "quick revenue check")

	if result.Status != models.SessionSuccess {
		t.Fatalf("expected success, got %q with error %q", result.Status, result.Error)
	}
	if result.Complexity != models.ComplexitySimple {
		t.Errorf("expected simple complexity, got %q", result.Complexity)
	}
	if result.Strategy != models.StrategyDirect {
		t.Errorf("expected direct strategy, got %q", result.Strategy)
	}
	if result.Summary.TotalTasks != 1 {
		t.Errorf("expected 1 task, got %d", result.Summary.TotalTasks)
	}
	if result.Summary.SuccessRate != 100 {
		t.Errorf("expected 100%% success rate, got %v", result.Summary.SuccessRate)
	}
	if result.Report == "" {
		t.Error("expected a synthesized report")
	}
	if result.Session.SessionID == "" {
		t.Error("expected a session ID")
	}
	if orch.Phase() != PhaseDone {
		t.Errorf("expected done phase, got %q", orch.Phase())
	}
}

func TestOrchestrateClassifierErrorReturnsStructuredResult(t *testing.T) {
	orch := New(Config{
		Workers:    stubWorkers(),
		Classifier: &stubClassifier{err: errors.New("model unavailable")},
		Engine:     testEngine(),
	})

	result := orch.Orchestrate(context.Background(), "anything")

	if result.Status != models.SessionError {
		t.Fatalf("expected error status, got %q", result.Status)
	}
	if result.Error == "" {
		t.Error("expected an error message")
	}
	if result.Request != "anything" {
		t.Errorf("expected request echoed back, got %q", result.Request)
	}
	if result.Session.SessionID == "" {
		t.Error("expected a session ID even on failure")
	}
	if orch.Phase() != PhaseError {
		t.Errorf("expected error phase, got %q", orch.Phase())
	}
}

func TestOrchestrateComprehensiveSession(t *testing.T) {
	orch := New(Config{
		Workers: stubWorkers(),
		Classifier: &stubClassifier{classification: classify.Classification{
			Complexity: models.ComplexityComprehensive,
			Domains: []string{
				classify.DomainPlayerBehavior,
				classify.DomainPerformance,
				classify.DomainRevenue,
				classify.DomainRetention,
			},
			Strategy: models.StrategyHybrid,
		}},
		Engine: testEngine(),
	})

	result := orch.Orchestrate(context.Background(), "complete overview")

	if result.Status != models.SessionSuccess {
		t.Fatalf("expected success, got %q with error %q", result.Status, result.Error)
	}
	// 3 base + 1 deep + synthesis.
	if result.Summary.TotalTasks != 5 {
		t.Errorf("expected 5 tasks, got %d", result.Summary.TotalTasks)
	}
	if result.Summary.SuccessRate != 100 {
		t.Errorf("expected 100%% success rate, got %v", result.Summary.SuccessRate)
	}

	state := orch.State()
	if len(state.CompletedTasks) != 5 {
		t.Errorf("expected 5 completed tasks in state, got %d", len(state.CompletedTasks))
	}
	if len(state.ActiveTasks) != 0 {
		t.Errorf("expected no active tasks after the session, got %d", len(state.ActiveTasks))
	}
}

func TestOrchestratePartialFailureStillSucceeds(t *testing.T) {
	workers := stubWorkers()
	workers[classify.DomainRetention] = WorkerFunc(func(ctx context.Context, description string, taskCtx TaskContext) (map[string]any, error) {
		return nil, errors.New("retention source offline")
	})

	orch := New(Config{
		Workers: workers,
		Classifier: &stubClassifier{classification: classify.Classification{
			Complexity: models.ComplexityModerate,
			Domains:    []string{classify.DomainRevenue, classify.DomainRetention},
			Strategy:   models.StrategyParallel,
		}},
		Engine:     testEngine(),
		MaxRetries: 1,
	})

	result := orch.Orchestrate(context.Background(), "compare revenue and retention")

	// Task failures degrade the summary; only phase-level errors fail a session.
	if result.Status != models.SessionSuccess {
		t.Fatalf("expected success with partial failures, got %q", result.Status)
	}
	if result.Summary.FailedTasks != 1 {
		t.Errorf("expected 1 failed task, got %d", result.Summary.FailedTasks)
	}
	if len(orch.State().FailedTasks) != 1 {
		t.Errorf("expected 1 failed task in state, got %d", len(orch.State().FailedTasks))
	}
}

func TestOrchestrateEmitsLifecycleEvents(t *testing.T) {
	orch := New(Config{
		Workers:     stubWorkers(),
		Engine:      testEngine(),
		EventBuffer: 128,
	})

	done := make(chan map[EventType]int, 1)
	go func() {
		counts := make(map[EventType]int)
		for ev := range orch.Events() {
			counts[ev.Type]++
			if ev.Type == EventSessionDone {
				done <- counts
				return
			}
		}
	}()

	orch.Orchestrate(context.Background(), "quick revenue check")

	select {
	case counts := <-done:
		if counts[EventSessionStarted] != 1 {
			t.Errorf("expected 1 session_started event, got %d", counts[EventSessionStarted])
		}
		if counts[EventPlanReady] != 1 {
			t.Errorf("expected 1 plan_ready event, got %d", counts[EventPlanReady])
		}
		if counts[EventTaskCompleted] != 1 {
			t.Errorf("expected 1 task_completed event, got %d", counts[EventTaskCompleted])
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for session events")
	}
}

func TestOrchestrateFreshStatePerSession(t *testing.T) {
	orch := New(Config{
		Workers: stubWorkers(),
		Engine:  testEngine(),
	})

	first := orch.Orchestrate(context.Background(), "quick revenue check")
	firstID := first.Session.SessionID

	second := orch.Orchestrate(context.Background(), "quick revenue check")
	if second.Session.SessionID == firstID {
		t.Error("expected a fresh session ID per Orchestrate call")
	}
	if len(orch.State().CompletedTasks) != 1 {
		t.Errorf("expected state to reflect only the latest session, got %d completed", len(orch.State().CompletedTasks))
	}
}
