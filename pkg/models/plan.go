package models

import "time"

// ExecutionPlan is the decomposed form of one analysis request.
type ExecutionPlan struct {
	// Request is the original request text.
	Request string `json:"request" yaml:"request"`
	// Complexity is the classified complexity of the request.
	Complexity Complexity `json:"complexity" yaml:"complexity"`
	// Strategy is the chosen execution shape.
	Strategy Strategy `json:"strategy" yaml:"strategy"`
	// SubTasks is the ordered task list, trailing synthesis task included.
	SubTasks []*SubTask `json:"subtasks" yaml:"subtasks"`
	// ExpectedDuration is the sum of subtask estimates.
	ExpectedDuration time.Duration `json:"expected_duration" yaml:"expected_duration"`
	// ParallelGroups partitions task IDs into concurrently executed groups.
	// Populated for the hybrid strategy only.
	ParallelGroups [][]string `json:"parallel_groups,omitempty" yaml:"parallel_groups,omitempty"`
	// SequentialOrder lists task IDs run one at a time after the groups.
	// Populated for the hybrid strategy only.
	SequentialOrder []string `json:"sequential_order,omitempty" yaml:"sequential_order,omitempty"`
}

// Task returns the subtask with the given ID, or nil if not present.
func (p *ExecutionPlan) Task(id string) *SubTask {
	for _, t := range p.SubTasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// TaskIDs returns the IDs of all subtasks in plan order.
func (p *ExecutionPlan) TaskIDs() []string {
	ids := make([]string, 0, len(p.SubTasks))
	for _, t := range p.SubTasks {
		ids = append(ids, t.ID)
	}
	return ids
}

// WorkerKinds returns the distinct worker kinds in first-seen plan order.
func (p *ExecutionPlan) WorkerKinds() []string {
	seen := make(map[string]bool)
	var kinds []string
	for _, t := range p.SubTasks {
		if !seen[t.WorkerKind] {
			seen[t.WorkerKind] = true
			kinds = append(kinds, t.WorkerKind)
		}
	}
	return kinds
}
