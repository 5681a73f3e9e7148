package orchestrator

import (
	"fmt"
	"time"

	"github.com/gamepulse/gamepulse/internal/classify"
	"github.com/gamepulse/gamepulse/pkg/models"
)

// Duration estimates per task shape. Informational only; the engine bounds
// execution with per-task timeouts, not estimates.
const (
	directEstimate     = 45 * time.Second
	parallelEstimate   = 30 * time.Second
	sequentialEstimate = 35 * time.Second
	baseEstimate       = 25 * time.Second
	deepEstimate       = 40 * time.Second
	synthesisEstimate  = 20 * time.Second
)

// hybridBaseWidth caps how many domains form the hybrid base layer; the rest
// become deep-analysis tasks that depend on every base task.
const hybridBaseWidth = 3

// Decomposer turns a classified request into an execution plan.
type Decomposer struct {
	// taskTimeout overrides the default per-task timeout when positive.
	taskTimeout time.Duration
	// maxRetries overrides the default retry budget when positive.
	maxRetries int
	// debugLog is an optional logging function.
	debugLog func(format string, args ...interface{})
}

// NewDecomposer creates a new Decomposer.
func NewDecomposer() *Decomposer {
	return &Decomposer{
		debugLog: func(format string, args ...interface{}) {},
	}
}

// SetDebugLog sets the debug logging function.
func (d *Decomposer) SetDebugLog(fn func(format string, args ...interface{})) {
	if fn != nil {
		d.debugLog = fn
	}
}

// SetTaskDefaults overrides the per-task timeout and retry budget applied to
// every subtask. Non-positive values keep the built-in defaults.
func (d *Decomposer) SetTaskDefaults(timeout time.Duration, maxRetries int) {
	d.taskTimeout = timeout
	d.maxRetries = maxRetries
}

// Decompose builds the subtask list for a request according to the chosen
// strategy. A trailing synthesis task (worker kind "visualization",
// depending on every prior task) is appended whenever the plan has more
// than one task or the request is above simple complexity, so every
// non-trivial plan converges on a single node.
func (d *Decomposer) Decompose(request string, c classify.Classification) []*models.SubTask {
	var subtasks []*models.SubTask

	switch c.Strategy {
	case models.StrategyDirect:
		subtasks = d.directTasks(request, c.Domains)
	case models.StrategyParallel:
		subtasks = d.parallelTasks(request, c.Domains)
	case models.StrategyHybrid:
		subtasks = d.hybridTasks(request, c.Domains)
	default:
		subtasks = d.sequentialTasks(request, c.Domains)
	}

	if len(subtasks) > 1 || c.Complexity != models.ComplexitySimple {
		synthesis := models.NewSubTask("viz",
			fmt.Sprintf("Generate a consolidated visual report for: %s", request),
			classify.DomainVisualization, models.PriorityMedium, synthesisEstimate)
		for _, t := range subtasks {
			synthesis.DependsOn = append(synthesis.DependsOn, t.ID)
		}
		subtasks = append(subtasks, synthesis)
	}

	for _, t := range subtasks {
		if d.taskTimeout > 0 {
			t.Timeout = d.taskTimeout
		}
		if d.maxRetries > 0 {
			t.MaxRetries = d.maxRetries
		}
	}

	d.debugLog("[decomposer] strategy=%s domains=%d tasks=%d", c.Strategy, len(c.Domains), len(subtasks))
	return subtasks
}

// BuildPlan decomposes the request and assembles the full execution plan.
// For hybrid plans the fan-out tasks form one parallel group and the
// trailing synthesis task runs sequentially after it.
func (d *Decomposer) BuildPlan(request string, c classify.Classification) *models.ExecutionPlan {
	subtasks := d.Decompose(request, c)

	var expected time.Duration
	for _, t := range subtasks {
		expected += t.EstimatedDuration
	}

	plan := &models.ExecutionPlan{
		Request:          request,
		Complexity:       c.Complexity,
		Strategy:         c.Strategy,
		SubTasks:         subtasks,
		ExpectedDuration: expected,
	}

	if c.Strategy == models.StrategyHybrid {
		var group []string
		for _, t := range subtasks {
			if t.WorkerKind == classify.DomainVisualization && len(t.DependsOn) == len(subtasks)-1 {
				plan.SequentialOrder = append(plan.SequentialOrder, t.ID)
				continue
			}
			group = append(group, t.ID)
		}
		plan.ParallelGroups = [][]string{group}
	}

	return plan
}

// directTasks creates the single task handed straight to the first domain.
func (d *Decomposer) directTasks(request string, domains []string) []*models.SubTask {
	if len(domains) == 0 {
		return nil
	}
	domain := domains[0]
	task := models.NewSubTask(domain,
		fmt.Sprintf("Run %s analysis: %s", domain, request),
		domain, models.PriorityHigh, directEstimate)
	return []*models.SubTask{task}
}

// parallelTasks creates one independent task per domain.
func (d *Decomposer) parallelTasks(request string, domains []string) []*models.SubTask {
	tasks := make([]*models.SubTask, 0, len(domains))
	for _, domain := range domains {
		tasks = append(tasks, models.NewSubTask(domain,
			fmt.Sprintf("Run %s analysis in parallel: %s", domain, request),
			domain, models.PriorityHigh, parallelEstimate))
	}
	return tasks
}

// sequentialTasks creates one task per domain, each depending on the one
// before it.
func (d *Decomposer) sequentialTasks(request string, domains []string) []*models.SubTask {
	tasks := make([]*models.SubTask, 0, len(domains))
	var prevID string
	for _, domain := range domains {
		task := models.NewSubTask(domain+"_seq",
			fmt.Sprintf("Run %s analysis in sequence: %s", domain, request),
			domain, models.PriorityHigh, sequentialEstimate)
		if prevID != "" {
			task.DependsOn = []string{prevID}
		}
		tasks = append(tasks, task)
		prevID = task.ID
	}
	return tasks
}

// hybridTasks creates a base layer of up to hybridBaseWidth independent
// collection tasks, then a deep layer where every remaining domain depends
// on the whole base layer.
func (d *Decomposer) hybridTasks(request string, domains []string) []*models.SubTask {
	var tasks []*models.SubTask

	base := domains
	if len(base) > hybridBaseWidth {
		base = base[:hybridBaseWidth]
	}

	var baseIDs []string
	for _, domain := range base {
		task := models.NewSubTask(domain+"_base",
			fmt.Sprintf("Collect baseline %s data: %s", domain, request),
			domain, models.PriorityHigh, baseEstimate)
		baseIDs = append(baseIDs, task.ID)
		tasks = append(tasks, task)
	}

	for _, domain := range domains[len(base):] {
		task := models.NewSubTask(domain+"_deep",
			fmt.Sprintf("Run deep %s analysis: %s", domain, request),
			domain, models.PriorityMedium, deepEstimate)
		task.DependsOn = append([]string(nil), baseIDs...)
		tasks = append(tasks, task)
	}

	return tasks
}
