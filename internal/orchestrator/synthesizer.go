package orchestrator

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/gamepulse/gamepulse/internal/classify"
	"github.com/gamepulse/gamepulse/pkg/models"
)

// workerDisplayNames maps worker kinds to report section headings.
var workerDisplayNames = map[string]string{
	classify.DomainPlayerBehavior: "Player Behavior Analysis",
	classify.DomainPerformance:    "Performance Analysis",
	classify.DomainRevenue:        "Revenue Analysis",
	classify.DomainRetention:      "Retention Analysis",
	classify.DomainVisualization:  "Data Visualization",
}

// workerInsights maps worker kinds to the canned recommendation emitted when
// results of that kind are present.
var workerInsights = map[string]string{
	classify.DomainPlayerBehavior: "Focus on player segments and tailor strategies to each cohort.",
	classify.DomainPerformance:    "Keep monitoring performance metrics to catch bottlenecks early.",
	classify.DomainRevenue:        "Tune monetization funnels to lift conversion and per-player value.",
	classify.DomainRetention:      "Prioritize new-player retention and build out lifecycle management.",
}

// crossCuttingInsight is appended when results span more than two worker
// kinds.
const crossCuttingInsight = "Stand up a consolidated dashboard to monitor these dimensions together."

// Synthesizer merges completed task outcomes into a single report. It is a
// pure function of outcomes, request text, and summary; it never calls back
// into the engine or classifier.
type Synthesizer struct{}

// NewSynthesizer creates a new Synthesizer.
func NewSynthesizer() *Synthesizer {
	return &Synthesizer{}
}

// Synthesize renders the final markdown report: request header, execution
// metrics, one section per worker kind in first-seen order, and a closing
// insights block.
func (s *Synthesizer) Synthesize(results []*models.TaskResult, request string, summary models.ExecutionSummary) string {
	byKind, kinds := groupCompleted(results)

	var b strings.Builder
	b.WriteString("# Game Analytics Report\n\n")

	b.WriteString("## Request\n")
	fmt.Fprintf(&b, "**%s**\n\n", request)

	b.WriteString("## Execution Overview\n")
	fmt.Fprintf(&b, "- **Total tasks**: %d\n", summary.TotalTasks)
	fmt.Fprintf(&b, "- **Completed**: %d\n", summary.SuccessfulTasks)
	fmt.Fprintf(&b, "- **Duration**: %.2fs\n", summary.TotalDuration.Seconds())
	fmt.Fprintf(&b, "- **Success rate**: %.1f%%\n", summary.SuccessRate)

	b.WriteString("\n## Findings\n")
	for _, kind := range kinds {
		fmt.Fprintf(&b, "\n### %s\n", displayName(kind))
		for _, result := range byKind[kind] {
			b.WriteString(formatPayload(result.Result))
		}
	}

	b.WriteString("\n## Insights and Recommendations\n")
	for _, insight := range insights(kinds) {
		fmt.Fprintf(&b, "- %s\n", insight)
	}

	return strings.TrimSpace(b.String())
}

// groupCompleted groups completed outcomes by worker kind, preserving the
// first-seen order of kinds.
func groupCompleted(results []*models.TaskResult) (map[string][]*models.TaskResult, []string) {
	byKind := make(map[string][]*models.TaskResult)
	var kinds []string
	for _, r := range results {
		if !r.Completed() {
			continue
		}
		if _, seen := byKind[r.WorkerKind]; !seen {
			kinds = append(kinds, r.WorkerKind)
		}
		byKind[r.WorkerKind] = append(byKind[r.WorkerKind], r)
	}
	return byKind, kinds
}

// displayName returns the section heading for a worker kind.
func displayName(kind string) string {
	if name, ok := workerDisplayNames[kind]; ok {
		return name
	}
	words := strings.Split(strings.ReplaceAll(kind, "_", " "), " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// formatPayload renders a structured payload key by key: nested maps as
// JSON, lists joined with commas, scalars directly. Keys are sorted so the
// report is deterministic.
func formatPayload(payload map[string]any) string {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		switch v := payload[k].(type) {
		case map[string]any:
			encoded, err := json.Marshal(v)
			if err != nil {
				fmt.Fprintf(&b, "- **%s**: %v\n", k, v)
				continue
			}
			fmt.Fprintf(&b, "- **%s**: %s\n", k, encoded)
		case []any:
			parts := make([]string, 0, len(v))
			for _, item := range v {
				parts = append(parts, fmt.Sprintf("%v", item))
			}
			fmt.Fprintf(&b, "- **%s**: %s\n", k, strings.Join(parts, ", "))
		default:
			fmt.Fprintf(&b, "- **%s**: %v\n", k, v)
		}
	}
	return b.String()
}

// insights applies the fixed rule table: one recommendation per present
// worker kind, plus a cross-cutting one when more than two kinds appear.
func insights(kinds []string) []string {
	var out []string
	for _, kind := range kinds {
		if insight, ok := workerInsights[kind]; ok {
			out = append(out, insight)
		}
	}
	if len(kinds) > 2 {
		out = append(out, crossCuttingInsight)
	}
	return out
}
