// internal/stages/summarize-results/handler.go

// Package summarizeresults aggregates the manager results into the final
// recommendation set. It flattens the successful slots, dedupes by card,
// ranks, and writes the summary line. Aggregating zero candidates is a
// valid terminal state, not an error.
package summarizeresults

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"card-advisor/internal/common/logger"
	"card-advisor/internal/models"
)

const StageName = "summarize-results"

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"stage": StageName}),
	}
}

// Execute builds the final set from the manager results. Only successful
// slots contribute; failed managers were already recorded as contained
// errors by the orchestrator.
func (h *Handler) Execute(_ context.Context, plan models.FanoutPlan, results map[string]models.ManagerResult) *models.FinalRecommendationSet {
	merged := h.dedupe(results)
	h.rank(merged, plan)

	set := &models.FinalRecommendationSet{
		Recommendations: merged,
	}
	for _, result := range results {
		if result.Success {
			set.TotalAnalyzed += result.TotalFound
		}
	}

	if len(merged) == 0 {
		set.Summary = "No recommendations matched your request."
		h.logger.Info("empty recommendation set", map[string]interface{}{
			"analyzed": set.TotalAnalyzed,
		})
		return set
	}

	set.TopPick = &merged[0]
	topN := h.config.SummaryTopN
	if topN > len(merged) {
		topN = len(merged)
	}
	set.Confidence = meanScore(merged[:topN])
	set.Summary = h.summarize(merged[:topN], set.TopPick)

	h.logger.Info("results aggregated", map[string]interface{}{
		"recommendations": len(merged),
		"topPick":         set.TopPick.Card.ID,
		"confidence":      set.Confidence,
	})
	return set
}

// dedupe flattens successful slots and keeps one recommendation per card,
// carrying the maximum score seen and every manager's individual score.
func (h *Handler) dedupe(results map[string]models.ManagerResult) []models.Recommendation {
	// Stable traversal: sort slot keys so merge order never depends on
	// map iteration.
	keys := make([]string, 0, len(results))
	for k := range results {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	byCard := make(map[string]int)
	var merged []models.Recommendation

	for _, key := range keys {
		result := results[key]
		if !result.Success {
			continue
		}
		for _, candidate := range result.Candidates {
			idx, seen := byCard[candidate.Card.ID]
			if !seen {
				merged = append(merged, models.Recommendation{
					Card:          candidate.Card,
					OverallScore:  candidate.Score,
					ManagerScores: map[string]float64{candidate.Manager: candidate.Score},
					Origin:        result.Origin,
					Reasoning:     candidate.Reasoning,
					BestFor:       []string{candidate.Manager},
				})
				byCard[candidate.Card.ID] = len(merged) - 1
				continue
			}

			rec := &merged[idx]
			rec.ManagerScores[candidate.Manager] = candidate.Score
			rec.BestFor = append(rec.BestFor, candidate.Manager)
			if candidate.Score > rec.OverallScore {
				rec.OverallScore = candidate.Score
				rec.Reasoning = candidate.Reasoning
				rec.Origin = result.Origin
			}
		}
	}
	return merged
}

// rank orders by score descending, then lower annual fee, then the plan
// position of the best-scoring manager. Fallback entries rank after every
// planned manager at equal score and fee.
func (h *Handler) rank(merged []models.Recommendation, plan models.FanoutPlan) {
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].OverallScore != merged[j].OverallScore {
			return merged[i].OverallScore > merged[j].OverallScore
		}
		if merged[i].Card.AnnualFee != merged[j].Card.AnnualFee {
			return merged[i].Card.AnnualFee < merged[j].Card.AnnualFee
		}
		return bestPriority(merged[i], plan) < bestPriority(merged[j], plan)
	})
}

func bestPriority(rec models.Recommendation, plan models.FanoutPlan) int {
	best := len(plan) + 1
	for manager := range rec.ManagerScores {
		if p := plan.Priority(manager); p < best {
			best = p
		}
	}
	return best
}

func (h *Handler) summarize(top []models.Recommendation, pick *models.Recommendation) string {
	names := make([]string, len(top))
	for i, rec := range top {
		names[i] = rec.Card.Name
	}

	summary := fmt.Sprintf("Top pick: %s (score %.2f), best for %s. Also consider: %s.",
		pick.Card.Name, pick.OverallScore, strings.Join(pick.BestFor, ", "),
		strings.Join(names, "; "))

	if pick.Origin == models.OriginOnlineSearch {
		summary += " The top pick was found via online search, not the curated catalog."
	}
	return summary
}

func meanScore(recs []models.Recommendation) float64 {
	if len(recs) == 0 {
		return 0
	}
	total := 0.0
	for _, r := range recs {
		total += r.OverallScore
	}
	return total / float64(len(recs))
}
