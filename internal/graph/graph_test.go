package graph

import (
	"testing"
	"time"

	"github.com/gamepulse/gamepulse/pkg/models"
)

func task(id string, deps ...string) *models.SubTask {
	t := models.NewSubTask("test", "test task", "performance", models.PriorityMedium, time.Second)
	t.ID = id
	t.DependsOn = deps
	return t
}

func TestBuildAndGetReady(t *testing.T) {
	g := New()
	g.Build([]*models.SubTask{
		task("a"),
		task("b", "a"),
		task("c", "a"),
	})

	ready := g.GetReady()
	if len(ready) != 1 || ready[0].ID != "a" {
		t.Fatalf("expected only a ready, got %d tasks", len(ready))
	}

	g.MarkMaterialized("a")
	ready = g.GetReady()
	if len(ready) != 2 {
		t.Fatalf("expected b and c ready after a, got %d", len(ready))
	}
	if ready[0].ID != "b" || ready[1].ID != "c" {
		t.Errorf("expected insertion order b, c; got %s, %s", ready[0].ID, ready[1].ID)
	}
}

func TestLayersDiamond(t *testing.T) {
	tasks := []*models.SubTask{
		task("a"),
		task("b", "a"),
		task("c", "a"),
		task("d", "b", "c"),
	}

	layers := Layers(tasks)

	if len(layers) != 3 {
		t.Fatalf("expected 3 layers, got %d", len(layers))
	}
	if len(layers[0]) != 1 || layers[0][0].ID != "a" {
		t.Errorf("expected first layer [a], got %v", layerIDs(layers[0]))
	}
	if len(layers[1]) != 2 {
		t.Errorf("expected second layer with 2 tasks, got %v", layerIDs(layers[1]))
	}
	if len(layers[2]) != 1 || layers[2][0].ID != "d" {
		t.Errorf("expected final layer [d], got %v", layerIDs(layers[2]))
	}
}

func TestLayersEveryTaskExactlyOnce(t *testing.T) {
	tasks := []*models.SubTask{
		task("a"),
		task("b", "a"),
		task("c", "missing"),
		task("d", "c"),
		task("e"),
	}

	layers := Layers(tasks)

	seen := make(map[string]int)
	for _, layer := range layers {
		for _, tk := range layer {
			seen[tk.ID]++
		}
	}
	if len(seen) != len(tasks) {
		t.Fatalf("expected %d distinct tasks across layers, got %d", len(tasks), len(seen))
	}
	for id, count := range seen {
		if count != 1 {
			t.Errorf("task %s appeared %d times", id, count)
		}
	}
	if len(layers) > len(tasks) {
		t.Errorf("expected at most %d layers, got %d", len(tasks), len(layers))
	}
}

func TestLayersCycleForcesFinalLayer(t *testing.T) {
	tasks := []*models.SubTask{
		task("a", "b"),
		task("b", "a"),
		task("c"),
	}

	layers := Layers(tasks)

	var total int
	for _, layer := range layers {
		total += len(layer)
	}
	if total != 3 {
		t.Fatalf("expected all 3 tasks layered despite the cycle, got %d", total)
	}

	// c has no dependencies, so it forms the first layer; the cycle is
	// swept into the forced final layer.
	last := layers[len(layers)-1]
	if len(last) != 2 {
		t.Errorf("expected forced final layer with the 2 cyclic tasks, got %v", layerIDs(last))
	}
}

func TestHasCycle(t *testing.T) {
	g := New()
	g.Build([]*models.SubTask{task("a", "b"), task("b", "a")})
	if !g.HasCycle() {
		t.Error("expected cycle to be detected")
	}

	g2 := New()
	g2.Build([]*models.SubTask{task("a"), task("b", "a")})
	if g2.HasCycle() {
		t.Error("expected no cycle in a chain")
	}

	// Unknown dependencies are not cycles.
	g3 := New()
	g3.Build([]*models.SubTask{task("a", "ghost")})
	if g3.HasCycle() {
		t.Error("expected unknown dependency to not count as a cycle")
	}
}

func TestTopologicalSort(t *testing.T) {
	g := New()
	g.Build([]*models.SubTask{
		task("c", "b"),
		task("b", "a"),
		task("a"),
	})

	order := g.TopologicalSort()
	pos := make(map[string]int)
	for i, id := range order {
		pos[id] = i
	}
	if pos["a"] > pos["b"] || pos["b"] > pos["c"] {
		t.Errorf("expected a before b before c, got %v", order)
	}
}

func TestGetDependents(t *testing.T) {
	g := New()
	g.Build([]*models.SubTask{
		task("a"),
		task("b", "a"),
		task("c", "a"),
	})

	deps := g.GetDependents("a")
	if len(deps) != 2 {
		t.Fatalf("expected 2 dependents of a, got %d", len(deps))
	}
	if g.Size() != 3 {
		t.Errorf("expected size 3, got %d", g.Size())
	}
	if g.GetTask("b") == nil {
		t.Error("expected to find task b")
	}
	if g.GetTask("ghost") != nil {
		t.Error("expected nil for unknown task")
	}
}

func layerIDs(layer []*models.SubTask) []string {
	ids := make([]string, 0, len(layer))
	for _, t := range layer {
		ids = append(ids, t.ID)
	}
	return ids
}
