package classify

import (
	"testing"

	"github.com/gamepulse/gamepulse/pkg/models"
)

func TestParseClassification(t *testing.T) {
	got, err := parseClassification(`Here is the classification:
{"complexity": "moderate", "domains": ["revenue", "retention"]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Complexity != models.ComplexityModerate {
		t.Errorf("expected moderate complexity, got %q", got.Complexity)
	}
	if len(got.Domains) != 2 {
		t.Errorf("expected 2 domains, got %v", got.Domains)
	}
	if got.Strategy != models.StrategyParallel {
		t.Errorf("expected parallel strategy, got %q", got.Strategy)
	}
}

func TestParseClassificationEmptyDomainsDefaults(t *testing.T) {
	got, err := parseClassification(`{"complexity": "comprehensive", "domains": []}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Domains) != 4 {
		t.Errorf("expected 4 default domains, got %v", got.Domains)
	}
	if got.Strategy != models.StrategyHybrid {
		t.Errorf("expected hybrid strategy, got %q", got.Strategy)
	}
}

func TestParseClassificationErrors(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"no JSON", "I could not classify this request."},
		{"invalid JSON", `{"complexity": moderate}`},
		{"unknown complexity", `{"complexity": "extreme", "domains": ["revenue"]}`},
		{"unknown domain", `{"complexity": "simple", "domains": ["astrology"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseClassification(tt.response); err == nil {
				t.Error("expected a parse error")
			}
		})
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	if _, err := NewClient(ClientConfig{}); err == nil {
		t.Error("expected an error without an API key")
	}
}
