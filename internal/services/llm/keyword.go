// internal/services/llm/keyword.go
package llm

import (
	"context"
	"strings"

	"card-advisor/internal/common/logger"
	"card-advisor/internal/models"
	"card-advisor/pkg/registry"
)

// KeywordClient is the deterministic local extractor. It matches the query
// against the registry vocabularies and a small set of constraint and
// preference phrases. No goal match yields an empty goal list; the router
// turns that into the general plan.
type KeywordClient struct {
	logger logger.Logger
}

func NewKeywordClient(log logger.Logger) *KeywordClient {
	return &KeywordClient{
		logger: log.WithFields(map[string]interface{}{"service": "llm", "mode": "keyword"}),
	}
}

var constraintPhrases = map[string][]string{
	"no annual fee":              {"no annual fee", "no fee", "without annual fee", "free card"},
	"international":              {"international", "overseas", "abroad"},
	"no foreign transaction fee": {"foreign transaction"},
}

var (
	conservativeWords = []string{"conservative", "safe", "low risk", "cautious", "careful"}
	aggressiveWords   = []string{"aggressive", "high risk", "maximize", "premium", "best possible"}
	shortHorizonWords = []string{"short term", "short-term", "6 month", "few months", "right away"}
	longHorizonWords  = []string{"long term", "long-term", "2 year", "24 month", "years"}
)

func (c *KeywordClient) Extract(_ context.Context, text string) (*Extraction, error) {
	lower := strings.ToLower(text)

	out := &Extraction{
		Goals:         matchGoals(lower),
		RiskTolerance: matchRisk(lower),
		TimeHorizon:   matchHorizon(lower),
		Constraints:   matchConstraints(lower),
		Confidence:    ConfidenceKeyword,
	}

	c.logger.Debug("keyword extraction", map[string]interface{}{
		"goals":       out.Goals,
		"risk":        out.RiskTolerance,
		"horizon":     out.TimeHorizon,
		"constraints": out.Constraints,
	})
	return out, nil
}

// matchGoals emits one category-level goal per profile whose vocabulary
// appears in the text, in registry order.
func matchGoals(lower string) []string {
	var goals []string
	for _, p := range registry.Profiles() {
		if p.Category == models.CategoryGeneral {
			continue
		}
		for _, word := range p.Vocabulary {
			if strings.Contains(lower, word) {
				goals = append(goals, p.Category)
				break
			}
		}
	}
	return goals
}

func matchConstraints(lower string) []string {
	var out []string
	// Fixed iteration order keeps extraction deterministic.
	for _, constraint := range []string{"no annual fee", "international", "no foreign transaction fee"} {
		for _, phrase := range constraintPhrases[constraint] {
			if strings.Contains(lower, phrase) {
				out = append(out, constraint)
				break
			}
		}
	}
	return out
}

func matchRisk(lower string) string {
	if containsAny(lower, conservativeWords) {
		return string(models.RiskConservative)
	}
	if containsAny(lower, aggressiveWords) {
		return string(models.RiskAggressive)
	}
	return string(models.RiskStandard)
}

func matchHorizon(lower string) string {
	if containsAny(lower, shortHorizonWords) {
		return string(models.HorizonShort)
	}
	if containsAny(lower, longHorizonWords) {
		return string(models.HorizonLong)
	}
	return string(models.HorizonStandard)
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
