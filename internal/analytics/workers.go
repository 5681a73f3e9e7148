package analytics

import (
	"context"

	"github.com/gamepulse/gamepulse/internal/classify"
	"github.com/gamepulse/gamepulse/internal/orchestrator"
)

// Worker runs one analysis domain against the shared dataset store.
type Worker struct {
	kind    string
	store   *Store
	analyze func(*Dataset) map[string]any
}

// Invoke implements orchestrator.WorkerCapability.
func (w *Worker) Invoke(ctx context.Context, description string, taskCtx orchestrator.TaskContext) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	payload := w.analyze(w.store.Dataset())
	payload["analysis_kind"] = w.kind
	payload["game_id"] = taskCtx.GameID
	payload["time_range"] = map[string]any{
		"start": taskCtx.TimeRange.Start,
		"end":   taskCtx.TimeRange.End,
	}
	return payload, nil
}

// Kind returns the worker's capability tag.
func (w *Worker) Kind() string {
	return w.kind
}

// NewWorkers builds the built-in capability mapping over one shared store.
func NewWorkers(store *Store) map[string]orchestrator.WorkerCapability {
	if store == nil {
		store = NewStore(nil)
	}
	return map[string]orchestrator.WorkerCapability{
		classify.DomainPlayerBehavior: &Worker{
			kind:    classify.DomainPlayerBehavior,
			store:   store,
			analyze: AnalyzePlayerBehavior,
		},
		classify.DomainPerformance: &Worker{
			kind:    classify.DomainPerformance,
			store:   store,
			analyze: AnalyzePerformance,
		},
		classify.DomainRevenue: &Worker{
			kind:    classify.DomainRevenue,
			store:   store,
			analyze: AnalyzeRevenue,
		},
		classify.DomainRetention: &Worker{
			kind:    classify.DomainRetention,
			store:   store,
			analyze: AnalyzeRetention,
		},
		classify.DomainVisualization: &Worker{
			kind:    classify.DomainVisualization,
			store:   store,
			analyze: BuildChartConfigs,
		},
	}
}

// DefaultWorkers builds the built-in capability mapping with a fresh store.
func DefaultWorkers() map[string]orchestrator.WorkerCapability {
	return NewWorkers(nil)
}

// BuildChartConfigs assembles the visualization payload: one chart config
// per headline metric family.
func BuildChartConfigs(data *Dataset) map[string]any {
	behavior := AnalyzePlayerBehavior(data)
	revenue := AnalyzeRevenue(data)
	retention := AnalyzeRetention(data)

	return map[string]any{
		"charts": []any{
			map[string]any{
				"type":        "pie",
				"title":       "Player Segment Distribution",
				"data":        behavior["segments"],
				"description": "Share of casual, core, whale, and new players",
			},
			map[string]any{
				"type":        "line",
				"title":       "Daily Revenue Trend",
				"data":        revenue["daily_revenue"],
				"description": "Revenue per day across the reporting window",
			},
			map[string]any{
				"type":  "funnel",
				"title": "Retention Funnel",
				"data": map[string]any{
					"new_players":     100.0,
					"day1_retention":  retention["day1_retention"],
					"day7_retention":  retention["day7_retention"],
					"day30_retention": retention["day30_retention"],
				},
				"description": "Retention rate at the standard checkpoints",
			},
		},
		"chart_count": 3,
	}
}
