package classify

import (
	"context"
	"reflect"
	"testing"

	"github.com/gamepulse/gamepulse/pkg/models"
)

func TestClassifyChineseChurnRequest(t *testing.T) {
	c := NewKeywordClassifier()

	got, err := c.Classify(context.Background(), "分析玩家流失情况")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 玩家 hits player_behavior, 流失 hits retention, 分析 forces moderate.
	wantDomains := []string{DomainPlayerBehavior, DomainRetention}
	if !reflect.DeepEqual(got.Domains, wantDomains) {
		t.Errorf("expected domains %v, got %v", wantDomains, got.Domains)
	}
	if got.Complexity != models.ComplexityModerate {
		t.Errorf("expected moderate complexity, got %q", got.Complexity)
	}
	if got.Strategy != models.StrategyParallel {
		t.Errorf("expected parallel strategy, got %q", got.Strategy)
	}
}

func TestClassifyEnglishRequests(t *testing.T) {
	c := NewKeywordClassifier()

	tests := []struct {
		name       string
		request    string
		domains    []string
		complexity models.Complexity
		strategy   models.Strategy
	}{
		{
			name:       "simple single domain",
			request:    "quick revenue check",
			domains:    []string{DomainRevenue},
			complexity: models.ComplexitySimple,
			strategy:   models.StrategyDirect,
		},
		{
			name:       "comprehensive keyword wins over domain count",
			request:    "complete revenue overview",
			domains:    []string{DomainRevenue},
			complexity: models.ComplexityComprehensive,
			strategy:   models.StrategyHybrid,
		},
		{
			name:       "domain count fallback",
			request:    "how is our server latency and churn",
			domains:    []string{DomainPerformance, DomainRetention},
			complexity: models.ComplexityModerate,
			strategy:   models.StrategyParallel,
		},
		{
			name:       "three domains fall back to complex",
			request:    "player engagement, crash stats and monetization",
			domains:    []string{DomainPlayerBehavior, DomainPerformance, DomainRevenue},
			complexity: models.ComplexityComplex,
			strategy:   models.StrategyParallel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Classify(context.Background(), tt.request)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got.Domains, tt.domains) {
				t.Errorf("domains = %v, want %v", got.Domains, tt.domains)
			}
			if got.Complexity != tt.complexity {
				t.Errorf("complexity = %q, want %q", got.Complexity, tt.complexity)
			}
			if got.Strategy != tt.strategy {
				t.Errorf("strategy = %q, want %q", got.Strategy, tt.strategy)
			}
		})
	}
}

func TestClassifyNoKeywordsDefaultsToAllDomains(t *testing.T) {
	c := NewKeywordClassifier()

	got, err := c.Classify(context.Background(), "tell me something interesting")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got.Domains) != 4 {
		t.Fatalf("expected 4 default domains, got %v", got.Domains)
	}
	if got.Complexity != models.ComplexityComprehensive {
		t.Errorf("expected comprehensive complexity for 4 domains, got %q", got.Complexity)
	}
	if got.Strategy != models.StrategyHybrid {
		t.Errorf("expected hybrid strategy, got %q", got.Strategy)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := NewKeywordClassifier()

	first, _ := c.Classify(context.Background(), "详细分析收入和留存")
	for i := 0; i < 10; i++ {
		again, _ := c.Classify(context.Background(), "详细分析收入和留存")
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("classification changed between runs: %v vs %v", first, again)
		}
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	c := NewKeywordClassifier()

	lower, _ := c.Classify(context.Background(), "revenue report")
	upper, _ := c.Classify(context.Background(), "REVENUE REPORT")
	if !reflect.DeepEqual(lower, upper) {
		t.Errorf("expected case-insensitive matching: %v vs %v", lower, upper)
	}
}

func TestKnownDomains(t *testing.T) {
	domains := KnownDomains()
	if len(domains) != 5 {
		t.Fatalf("expected 5 known domains, got %d", len(domains))
	}
	seen := make(map[string]bool)
	for _, d := range domains {
		seen[d] = true
	}
	for _, want := range []string{DomainPlayerBehavior, DomainPerformance, DomainRevenue, DomainRetention, DomainVisualization} {
		if !seen[want] {
			t.Errorf("expected %q among known domains", want)
		}
	}
}
