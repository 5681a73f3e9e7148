package models

import (
	"testing"
	"time"
)

func TestSummarize(t *testing.T) {
	results := []*TaskResult{
		{TaskID: "a", Status: ResultCompleted},
		{TaskID: "b", Status: ResultCompleted},
		{TaskID: "c", Status: ResultFailed},
		{TaskID: "d", Status: ResultTimeout},
	}

	s := Summarize(results, 8*time.Second)

	if s.TotalTasks != 4 {
		t.Errorf("expected 4 total tasks, got %d", s.TotalTasks)
	}
	if s.SuccessfulTasks != 2 {
		t.Errorf("expected 2 successful tasks, got %d", s.SuccessfulTasks)
	}
	if s.FailedTasks != 1 {
		t.Errorf("expected 1 failed task, got %d", s.FailedTasks)
	}
	if s.TimeoutTasks != 1 {
		t.Errorf("expected 1 timeout task, got %d", s.TimeoutTasks)
	}
	if s.SuccessRate != 50 {
		t.Errorf("expected 50%% success rate, got %v", s.SuccessRate)
	}
	if s.AvgTaskDuration != 2*time.Second {
		t.Errorf("expected 2s average duration, got %v", s.AvgTaskDuration)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, 0)

	if s.TotalTasks != 0 {
		t.Errorf("expected 0 total tasks, got %d", s.TotalTasks)
	}
	if s.SuccessRate != 0 {
		t.Errorf("expected 0 success rate for empty results, got %v", s.SuccessRate)
	}
	if s.AvgTaskDuration != 0 {
		t.Errorf("expected 0 average duration for empty results, got %v", s.AvgTaskDuration)
	}
}

func TestTaskResultCompleted(t *testing.T) {
	if !(&TaskResult{Status: ResultCompleted}).Completed() {
		t.Error("expected completed result to report completed")
	}
	if (&TaskResult{Status: ResultFailed}).Completed() {
		t.Error("expected failed result to not report completed")
	}
	if (&TaskResult{Status: ResultTimeout}).Completed() {
		t.Error("expected timeout result to not report completed")
	}
}

func TestNewOrchestratorState(t *testing.T) {
	state := NewOrchestratorState("session-1", "analyze revenue")

	if state.SessionID != "session-1" {
		t.Errorf("expected session ID session-1, got %q", state.SessionID)
	}
	if state.Request != "analyze revenue" {
		t.Errorf("expected request to be recorded, got %q", state.Request)
	}
	if state.ActiveTasks == nil || state.CompletedTasks == nil || state.FailedTasks == nil {
		t.Error("expected task maps to be initialized")
	}
}
