package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/gamepulse/gamepulse/pkg/models"
)

// classifyPrompt asks Claude for a strict JSON classification. The valid
// values mirror the keyword classifier's output space.
const classifyPrompt = `Classify this game-analytics request.

Request:
%s

Return ONLY a JSON object with this exact structure (no other text):
{
  "complexity": "simple|moderate|complex|comprehensive",
  "domains": ["player_behavior", "performance", "revenue", "retention", "visualization"]
}

Guidelines:
- List only domains the request actually touches
- Use all four analysis domains (player_behavior, performance, revenue, retention) when the request is broad or unspecific
- complexity reflects how deep the analysis must go, not how long the request text is`

// claudeClassification is the JSON structure returned by Claude.
type claudeClassification struct {
	Complexity string   `json:"complexity"`
	Domains    []string `json:"domains"`
}

// ClaudeClassifier classifies requests with a Claude model. Any API or parse
// failure falls back to the keyword classifier, so classification never
// fails a session.
type ClaudeClassifier struct {
	client   *Client
	fallback *KeywordClassifier
	// debugLog is an optional logging function.
	debugLog func(format string, args ...interface{})
}

// NewClaudeClassifier creates a Claude-backed classifier with keyword
// fallback.
func NewClaudeClassifier(client *Client) *ClaudeClassifier {
	return &ClaudeClassifier{
		client:   client,
		fallback: NewKeywordClassifier(),
		debugLog: func(format string, args ...interface{}) {},
	}
}

// SetDebugLog sets the debug logging function.
func (c *ClaudeClassifier) SetDebugLog(fn func(format string, args ...interface{})) {
	if fn != nil {
		c.debugLog = fn
	}
}

// Classify asks Claude for a classification and derives the strategy from
// the result. Falls back to the keyword tables on any failure.
func (c *ClaudeClassifier) Classify(ctx context.Context, request string) (Classification, error) {
	resp, err := c.client.sdk().Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.client.Model(),
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(fmt.Sprintf(classifyPrompt, request))),
		},
	})
	if err != nil {
		c.debugLog("[classify.claude] API call failed, using keyword fallback: %v", err)
		return c.fallback.Classify(ctx, request)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(variant.Text)
		}
	}

	parsed, err := parseClassification(text.String())
	if err != nil {
		c.debugLog("[classify.claude] parse failed, using keyword fallback: %v", err)
		return c.fallback.Classify(ctx, request)
	}
	return parsed, nil
}

// parseClassification extracts and validates the JSON object in Claude's
// response.
func parseClassification(response string) (Classification, error) {
	jsonStart := strings.Index(response, "{")
	jsonEnd := strings.LastIndex(response, "}")
	if jsonStart == -1 || jsonEnd == -1 || jsonEnd <= jsonStart {
		return Classification{}, fmt.Errorf("no JSON object found in response")
	}

	var raw claudeClassification
	if err := json.Unmarshal([]byte(response[jsonStart:jsonEnd+1]), &raw); err != nil {
		return Classification{}, fmt.Errorf("unmarshal JSON: %w", err)
	}

	complexity := models.Complexity(raw.Complexity)
	if !complexity.Valid() {
		return Classification{}, fmt.Errorf("unknown complexity %q", raw.Complexity)
	}

	known := make(map[string]bool)
	for _, d := range KnownDomains() {
		known[d] = true
	}
	var domains []string
	for _, d := range raw.Domains {
		if !known[d] {
			return Classification{}, fmt.Errorf("unknown domain %q", d)
		}
		domains = append(domains, d)
	}
	if len(domains) == 0 {
		domains = append([]string(nil), defaultDomains...)
	}

	return Classification{
		Complexity: complexity,
		Domains:    domains,
		Strategy:   models.StrategyFor(complexity, len(domains)),
	}, nil
}
