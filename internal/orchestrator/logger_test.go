package orchestrator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gamepulse/gamepulse/pkg/models"
)

func TestDebugLoggerWritesLines(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "debug.log")

	logger, err := NewDebugLogger(logPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logger.Log("task %s finished", "abc123")
	if err := logger.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if !strings.Contains(string(content), "task abc123 finished") {
		t.Errorf("expected formatted message in log, got %q", string(content))
	}
}

func TestNopLoggerIsSafe(t *testing.T) {
	logger := NopLogger()
	logger.Log("goes nowhere %d", 42)
	if err := logger.Close(); err != nil {
		t.Errorf("expected nil close error, got %v", err)
	}
}

func TestContextForTask(t *testing.T) {
	task := models.NewSubTask("revenue", "revenue analysis", "revenue", models.PriorityHigh, time.Second)

	taskCtx := ContextForTask(task)
	if taskCtx.GameID != "demo_game" {
		t.Errorf("expected default game ID, got %q", taskCtx.GameID)
	}
	if taskCtx.AnalysisKind != "revenue" {
		t.Errorf("expected analysis kind from worker kind, got %q", taskCtx.AnalysisKind)
	}

	task.Metadata["game_id"] = "game_7"
	if got := ContextForTask(task).GameID; got != "game_7" {
		t.Errorf("expected metadata game ID, got %q", got)
	}
}
