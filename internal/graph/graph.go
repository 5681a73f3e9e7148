// Package graph provides a dependency graph for subtask scheduling.
package graph

import (
	"sync"

	"github.com/gamepulse/gamepulse/pkg/models"
)

// DependencyGraph represents a directed graph of subtask dependencies.
// Tasks are nodes, and edges represent "blocked by" relationships.
//
// Unknown dependency IDs and cycles are tolerated: tasks behind them are
// never ready and are swept into a forced final layer by Layers. Malformed
// plans degrade instead of failing.
type DependencyGraph struct {
	mu sync.RWMutex
	// nodes maps task ID to the task itself.
	nodes map[string]*models.SubTask
	// order preserves insertion order for deterministic iteration.
	order []string
	// edges maps task ID to IDs of tasks it depends on.
	edges map[string][]string
	// materialized tracks tasks that have reached a terminal state.
	// Failed tasks materialize too: failure does not block the next layer.
	materialized map[string]bool
	// debugLog is an optional logging function.
	debugLog func(format string, args ...interface{})
}

// New creates a new empty dependency graph.
func New() *DependencyGraph {
	return &DependencyGraph{
		nodes:        make(map[string]*models.SubTask),
		edges:        make(map[string][]string),
		materialized: make(map[string]bool),
		debugLog:     func(format string, args ...interface{}) {},
	}
}

// SetDebugLog sets the debug logging function.
func (g *DependencyGraph) SetDebugLog(fn func(format string, args ...interface{})) {
	if fn != nil {
		g.debugLog = fn
	}
}

// Build registers all tasks and their dependency edges. Dependencies naming
// unknown task IDs are kept as-is; they surface through the forced layer.
func (g *DependencyGraph) Build(tasks []*models.SubTask) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.debugLog("[graph.Build] building graph from %d tasks", len(tasks))

	for _, task := range tasks {
		if _, exists := g.nodes[task.ID]; !exists {
			g.order = append(g.order, task.ID)
		}
		g.nodes[task.ID] = task
		g.edges[task.ID] = append([]string(nil), task.DependsOn...)
	}

	for _, task := range tasks {
		for _, depID := range task.DependsOn {
			if _, exists := g.nodes[depID]; !exists {
				g.debugLog("[graph.Build] task %s depends on unknown task %s", task.ID, depID)
			}
		}
	}
}

// HasCycle returns true if the graph contains a circular dependency.
// Uses depth-first search with coloring to detect back edges.
func (g *DependencyGraph) HasCycle() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.hasCycleLocked()
}

// hasCycleLocked is the internal implementation that assumes the lock is held.
func (g *DependencyGraph) hasCycleLocked() bool {
	// Color states: 0 = white (unvisited), 1 = gray (in progress), 2 = black (done).
	colors := make(map[string]int)

	var visit func(id string) bool
	visit = func(id string) bool {
		colors[id] = 1
		for _, depID := range g.edges[id] {
			if _, exists := g.nodes[depID]; !exists {
				continue
			}
			switch colors[depID] {
			case 1:
				return true
			case 0:
				if visit(depID) {
					return true
				}
			}
		}
		colors[id] = 2
		return false
	}

	for _, id := range g.order {
		if colors[id] == 0 {
			if visit(id) {
				return true
			}
		}
	}
	return false
}

// GetReady returns tasks whose dependencies are all materialized and that
// have not materialized themselves, in insertion order.
func (g *DependencyGraph) GetReady() []*models.SubTask {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var ready []*models.SubTask
	for _, id := range g.order {
		if g.materialized[id] {
			continue
		}
		satisfied := true
		for _, depID := range g.edges[id] {
			if !g.materialized[depID] {
				satisfied = false
				break
			}
		}
		if satisfied {
			ready = append(ready, g.nodes[id])
		}
	}
	return ready
}

// MarkMaterialized records that a task reached a terminal state, successful
// or not, unblocking its dependents for layering purposes.
func (g *DependencyGraph) MarkMaterialized(taskID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.materialized[taskID] = true
}

// Remaining returns the tasks that have not materialized, in insertion order.
func (g *DependencyGraph) Remaining() []*models.SubTask {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var remaining []*models.SubTask
	for _, id := range g.order {
		if !g.materialized[id] {
			remaining = append(remaining, g.nodes[id])
		}
	}
	return remaining
}

// Layers partitions the tasks into dependency layers: each layer is the set
// of tasks whose dependencies are all materialized by earlier layers. Every
// task in a layer materializes before the next layer forms, regardless of
// how its execution turns out.
//
// If no task is ready while tasks remain (a cycle or a dependency on an
// unknown ID), all remaining tasks are forced into one final layer and a
// diagnostic is logged. Layers therefore always terminates, in at most N
// layers for N tasks, with every task in exactly one layer.
func Layers(tasks []*models.SubTask) [][]*models.SubTask {
	g := New()
	g.Build(tasks)
	return g.layers()
}

// LayersWithLog is Layers with a debug logging function attached.
func LayersWithLog(tasks []*models.SubTask, fn func(format string, args ...interface{})) [][]*models.SubTask {
	g := New()
	g.SetDebugLog(fn)
	g.Build(tasks)
	return g.layers()
}

func (g *DependencyGraph) layers() [][]*models.SubTask {
	var layers [][]*models.SubTask
	for len(g.Remaining()) > 0 {
		layer := g.GetReady()
		if len(layer) == 0 {
			g.debugLog("[graph.layers] no ready tasks but %d remain: forcing final layer (cyclic or unknown dependencies)", len(g.Remaining()))
			layer = g.Remaining()
		}
		for _, task := range layer {
			g.MarkMaterialized(task.ID)
		}
		layers = append(layers, layer)
	}
	return layers
}

// TopologicalSort returns task IDs in an order where all known dependencies
// come before the tasks that depend on them. With a cycle present the order
// is best-effort, mirroring the forced-layer behavior of Layers.
func (g *DependencyGraph) TopologicalSort() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	visited := make(map[string]bool)
	var result []string

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, depID := range g.edges[id] {
			if _, exists := g.nodes[depID]; exists {
				visit(depID)
			}
		}
		result = append(result, id)
	}

	for _, id := range g.order {
		visit(id)
	}
	return result
}

// GetTask returns the task for a given ID, or nil if not found.
func (g *DependencyGraph) GetTask(taskID string) *models.SubTask {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.nodes[taskID]
}

// Size returns the number of tasks in the graph.
func (g *DependencyGraph) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// GetDependents returns the IDs of tasks that depend on the given task.
func (g *DependencyGraph) GetDependents(taskID string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var dependents []string
	for _, id := range g.order {
		for _, depID := range g.edges[id] {
			if depID == taskID {
				dependents = append(dependents, id)
				break
			}
		}
	}
	return dependents
}
