// Package classify turns free-form analysis requests into a complexity,
// domain set, and execution strategy.
package classify

import (
	"context"
	"strings"

	"github.com/gamepulse/gamepulse/pkg/models"
)

// Domain tags understood by the classifier and used for worker routing.
const (
	DomainPlayerBehavior = "player_behavior"
	DomainPerformance    = "performance"
	DomainRevenue        = "revenue"
	DomainRetention      = "retention"
	DomainVisualization  = "visualization"
)

// Classification is the result of classifying one request.
type Classification struct {
	// Complexity is the classified complexity level.
	Complexity models.Complexity
	// Domains are the involved domain tags, in table order.
	Domains []string
	// Strategy is derived from complexity and domain count.
	Strategy models.Strategy
}

// Classifier maps a request string to a classification. Implementations must
// never panic; the orchestrator treats a classification error as fatal for
// the session.
type Classifier interface {
	Classify(ctx context.Context, request string) (Classification, error)
}

// domainEntry pairs a domain tag with its trigger keywords. Order matters:
// matched domains are reported in table order so classification stays
// deterministic.
type domainEntry struct {
	domain   string
	keywords []string
}

// domainKeywords is the domain trigger table. Keywords are matched as
// case-insensitive substrings. The Chinese terms come from the production
// keyword set this tool grew up with; the English terms extend it.
var domainKeywords = []domainEntry{
	{DomainPlayerBehavior, []string{"玩家", "行为", "分群", "参与度", "活跃", "留存", "player", "behavior", "engagement"}},
	{DomainPerformance, []string{"性能", "服务器", "延迟", "崩溃", "负载", "performance", "server", "latency", "crash"}},
	{DomainRevenue, []string{"收入", "营收", "付费", "变现", "收益", "revenue", "monetization", "payment"}},
	{DomainRetention, []string{"留存", "流失", "回归", "生命周期", "retention", "churn", "lifecycle"}},
	{DomainVisualization, []string{"图表", "可视化", "仪表板", "报告", "chart", "visualization", "dashboard", "report"}},
}

// complexityEntry pairs a complexity level with its trigger keywords.
type complexityEntry struct {
	complexity models.Complexity
	keywords   []string
}

// complexityKeywords is checked in priority order; the first level with a
// matching keyword wins over the domain-count fallback.
var complexityKeywords = []complexityEntry{
	{models.ComplexitySimple, []string{"单个", "简单", "快速", "基本", "single", "simple", "quick", "basic"}},
	{models.ComplexityModerate, []string{"比较", "对比", "分析", "详细", "compare", "detailed"}},
	{models.ComplexityComplex, []string{"深入", "全面", "综合", "多维度", "in-depth", "thorough"}},
	{models.ComplexityComprehensive, []string{"完整", "整体", "全方位", "系统性", "complete", "holistic", "end-to-end"}},
}

// defaultDomains is used when no domain keyword matches: the request is
// treated as a comprehensive analysis across the four analysis domains.
var defaultDomains = []string{
	DomainPlayerBehavior,
	DomainPerformance,
	DomainRevenue,
	DomainRetention,
}

// KeywordClassifier classifies requests with fixed keyword tables. It is
// pure, deterministic, and never returns an error.
type KeywordClassifier struct{}

// NewKeywordClassifier creates the default keyword-table classifier.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

// Classify matches the request against the domain and complexity tables.
func (c *KeywordClassifier) Classify(_ context.Context, request string) (Classification, error) {
	lower := strings.ToLower(request)

	domains := matchDomains(lower)
	if len(domains) == 0 {
		domains = append([]string(nil), defaultDomains...)
	}

	complexity := matchComplexity(lower, len(domains))
	strategy := models.StrategyFor(complexity, len(domains))

	return Classification{
		Complexity: complexity,
		Domains:    domains,
		Strategy:   strategy,
	}, nil
}

// matchDomains returns the domains whose keywords appear in the request,
// in table order.
func matchDomains(lower string) []string {
	var domains []string
	for _, entry := range domainKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				domains = append(domains, entry.domain)
				break
			}
		}
	}
	return domains
}

// matchComplexity checks the complexity keyword table in priority order and
// falls back to the domain-count heuristic when nothing matches.
func matchComplexity(lower string, domainCount int) models.Complexity {
	for _, entry := range complexityKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.complexity
			}
		}
	}
	return models.ComplexityForDomainCount(domainCount)
}

// KnownDomains returns every domain tag the classifier can emit.
func KnownDomains() []string {
	domains := make([]string, 0, len(domainKeywords))
	for _, entry := range domainKeywords {
		domains = append(domains, entry.domain)
	}
	return domains
}
