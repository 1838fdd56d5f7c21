// internal/services/llm/llm.go

// Package llm turns free-form user text into a structured extraction. Two
// implementations exist: an HTTP client for the extraction API and a
// deterministic keyword extractor used as the local fallback. Callers never
// branch on which one is active.
package llm

import (
	"context"
	"strings"

	"card-advisor/internal/models"
)

// Extraction confidence by path.
const (
	ConfidenceModel   = 0.8
	ConfidenceKeyword = 0.5
)

// Extraction is the raw output of text understanding, before locale and
// consent rules are applied downstream.
type Extraction struct {
	Goals         []string `json:"goals"`
	RiskTolerance string   `json:"riskTolerance"`
	TimeHorizon   string   `json:"timeHorizon"`
	Jurisdiction  string   `json:"jurisdiction,omitempty"`
	Constraints   []string `json:"constraints,omitempty"`
	Confidence    float64  `json:"confidence"`
}

// TextUnderstanding extracts a structured request from user text.
type TextUnderstanding interface {
	Extract(ctx context.Context, text string) (*Extraction, error)
}

// goalSynonyms maps loose model output onto the canonical goal tags the
// routing registry knows. Tags already in the registry pass through.
var goalSynonyms = map[string]string{
	"flight":         "travel",
	"flights":        "travel",
	"vacation":       "travel",
	"holiday":        "travel",
	"air miles":      "miles",
	"money":          "cashback",
	"cash back":      "cashback",
	"rebate":         "cashback",
	"college":        "student",
	"university":     "student",
	"first card":     "first",
	"company":        "business",
	"corporate card": "corporate",
}

// NormalizeGoal lowercases a goal and resolves known synonyms. Unknown
// goals pass through unchanged; the router sends them to the general
// manager.
func NormalizeGoal(goal string) string {
	g := strings.ToLower(strings.TrimSpace(goal))
	if canonical, ok := goalSynonyms[g]; ok {
		return canonical
	}
	return g
}

// NormalizeGoals normalizes and dedupes a goal list, preserving order.
func NormalizeGoals(goals []string) []string {
	seen := make(map[string]bool, len(goals))
	var out []string
	for _, g := range goals {
		n := NormalizeGoal(g)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func normalizeRisk(risk string) string {
	switch strings.ToLower(strings.TrimSpace(risk)) {
	case "conservative", "low", "safe":
		return string(models.RiskConservative)
	case "aggressive", "high":
		return string(models.RiskAggressive)
	default:
		return string(models.RiskStandard)
	}
}

func normalizeHorizon(horizon string) string {
	switch strings.ToLower(strings.TrimSpace(horizon)) {
	case "6m", "short", "short_term", "6 months":
		return string(models.HorizonShort)
	case "24m", "long", "long_term", "2 years", "24 months":
		return string(models.HorizonLong)
	default:
		return string(models.HorizonStandard)
	}
}
