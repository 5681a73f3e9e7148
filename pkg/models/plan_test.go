package models

import (
	"reflect"
	"testing"
	"time"
)

func planFixture() *ExecutionPlan {
	a := NewSubTask("revenue", "revenue analysis", "revenue", PriorityHigh, 30*time.Second)
	b := NewSubTask("retention", "retention analysis", "retention", PriorityHigh, 30*time.Second)
	c := NewSubTask("viz", "visual report", "visualization", PriorityMedium, 20*time.Second)
	c.DependsOn = []string{a.ID, b.ID}
	return &ExecutionPlan{
		Request:  "compare revenue and retention",
		Strategy: StrategyParallel,
		SubTasks: []*SubTask{a, b, c},
	}
}

func TestPlanTaskLookup(t *testing.T) {
	plan := planFixture()

	id := plan.SubTasks[1].ID
	if got := plan.Task(id); got == nil || got.WorkerKind != "retention" {
		t.Errorf("expected to find retention task by ID %q", id)
	}
	if plan.Task("missing") != nil {
		t.Error("expected nil for unknown task ID")
	}
}

func TestPlanTaskIDs(t *testing.T) {
	plan := planFixture()

	ids := plan.TaskIDs()
	if len(ids) != 3 {
		t.Fatalf("expected 3 IDs, got %d", len(ids))
	}
	for i, task := range plan.SubTasks {
		if ids[i] != task.ID {
			t.Errorf("expected plan order preserved at index %d", i)
		}
	}
}

func TestPlanWorkerKinds(t *testing.T) {
	plan := planFixture()
	plan.SubTasks = append(plan.SubTasks,
		NewSubTask("revenue", "second revenue task", "revenue", PriorityLow, time.Second))

	want := []string{"revenue", "retention", "visualization"}
	if got := plan.WorkerKinds(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected distinct kinds %v in first-seen order, got %v", want, got)
	}
}
