package orchestrator

import (
	"strings"
	"testing"
	"time"

	"github.com/gamepulse/gamepulse/internal/classify"
	"github.com/gamepulse/gamepulse/pkg/models"
)

func TestSynthesizeReportSections(t *testing.T) {
	s := NewSynthesizer()

	results := []*models.TaskResult{
		{
			TaskID:     "r1",
			WorkerKind: classify.DomainRevenue,
			Status:     models.ResultCompleted,
			Result:     map[string]any{"total_revenue": 1234.5, "arpu": 1.2},
		},
		{
			TaskID:     "t1",
			WorkerKind: classify.DomainRetention,
			Status:     models.ResultCompleted,
			Result:     map[string]any{"day1_retention": 42.0},
		},
		{
			TaskID:     "p1",
			WorkerKind: classify.DomainPerformance,
			Status:     models.ResultFailed,
			Error:      "boom",
		},
	}
	summary := models.Summarize(results, 3*time.Second)

	report := s.Synthesize(results, "revenue and retention overview", summary)

	if !strings.Contains(report, "# Game Analytics Report") {
		t.Error("expected report title")
	}
	if !strings.Contains(report, "revenue and retention overview") {
		t.Error("expected the request to appear in the report")
	}
	if !strings.Contains(report, "### Revenue Analysis") {
		t.Error("expected a revenue findings section")
	}
	if !strings.Contains(report, "### Retention Analysis") {
		t.Error("expected a retention findings section")
	}
	if strings.Contains(report, "Performance Analysis") {
		t.Error("expected failed tasks to be excluded from findings")
	}
	if !strings.Contains(report, "total_revenue") {
		t.Error("expected payload keys in the findings")
	}
	if !strings.Contains(report, "Success rate") && !strings.Contains(report, "success rate") {
		t.Error("expected success rate in the execution overview")
	}
}

func TestSynthesizeInsightsRule(t *testing.T) {
	s := NewSynthesizer()

	completed := func(id, kind string) *models.TaskResult {
		return &models.TaskResult{TaskID: id, WorkerKind: kind, Status: models.ResultCompleted, Result: map[string]any{}}
	}

	two := []*models.TaskResult{
		completed("a", classify.DomainRevenue),
		completed("b", classify.DomainRetention),
	}
	report := s.Synthesize(two, "req", models.Summarize(two, time.Second))
	if strings.Contains(report, "consolidated dashboard") {
		t.Error("expected no cross-cutting insight for two kinds")
	}

	three := append(two, completed("c", classify.DomainPerformance))
	report = s.Synthesize(three, "req", models.Summarize(three, time.Second))
	if !strings.Contains(report, "consolidated dashboard") {
		t.Error("expected cross-cutting insight for more than two kinds")
	}
}

func TestSynthesizeEmptyResults(t *testing.T) {
	s := NewSynthesizer()

	report := s.Synthesize(nil, "anything", models.Summarize(nil, 0))

	if !strings.Contains(report, "# Game Analytics Report") {
		t.Error("expected a report shell even with no results")
	}
	if !strings.Contains(report, "**Total tasks**: 0") {
		t.Error("expected zero task count in the overview")
	}
}

func TestSynthesizeDeterministicPayloadOrder(t *testing.T) {
	s := NewSynthesizer()

	results := []*models.TaskResult{{
		TaskID:     "r1",
		WorkerKind: classify.DomainRevenue,
		Status:     models.ResultCompleted,
		Result:     map[string]any{"zeta": 1, "alpha": 2, "mid": 3},
	}}
	summary := models.Summarize(results, time.Second)

	first := s.Synthesize(results, "req", summary)
	for i := 0; i < 5; i++ {
		if again := s.Synthesize(results, "req", summary); again != first {
			t.Fatal("expected identical reports across runs")
		}
	}

	alpha := strings.Index(first, "alpha")
	zeta := strings.Index(first, "zeta")
	if alpha == -1 || zeta == -1 || alpha > zeta {
		t.Error("expected payload keys sorted alphabetically")
	}
}

func TestDisplayNameFallback(t *testing.T) {
	if got := displayName("custom_metric_kind"); got != "Custom Metric Kind" {
		t.Errorf("expected capitalized fallback, got %q", got)
	}
	if got := displayName(classify.DomainRevenue); got != "Revenue Analysis" {
		t.Errorf("expected mapped display name, got %q", got)
	}
}
