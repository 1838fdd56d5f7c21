// internal/stages/search-online/handler.go

// Package searchonline is the fallback taken when a manager succeeds with
// zero catalog results. It queries the offers index and reports its finds
// as a separate manager slot so aggregation can tell the origins apart.
// The fallback itself never fails a session; an outage just leaves the
// slot unsuccessful.
package searchonline

import (
	"context"
	"fmt"

	"card-advisor/internal/common/errors"
	"card-advisor/internal/common/logger"
	"card-advisor/internal/models"
	"card-advisor/internal/services/search"
)

const StageName = "search-online"

// ManagerName keys the fallback's slot in the session results. At most one
// fallback runs per session no matter how many managers came up empty.
const ManagerName = "online_search"

type Handler struct {
	config *Config
	search search.OnlineSearch
	logger logger.Logger
}

func NewHandler(config *Config, svc search.OnlineSearch, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		search: svc,
		logger: log.WithFields(map[string]interface{}{"stage": StageName}),
	}
}

// Execute searches online offers for the categories whose managers came up
// empty.
func (h *Handler) Execute(ctx context.Context, request *models.StructuredRequest, categories []string) models.ManagerResult {
	result := models.ManagerResult{
		Manager: ManagerName,
		Origin:  models.OriginOnlineSearch,
	}

	if err := ctx.Err(); err != nil {
		result.ErrorDetail = errors.NewSessionCancelledError(StageName).Error()
		return result
	}

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	cards, err := h.search.Search(ctx, categories, request.Constraints)
	if err != nil {
		detail := errors.NewServiceUnavailableError("online-search", err)
		h.logger.Warn("online search unavailable", map[string]interface{}{
			"categories": categories,
			"error":      err.Error(),
		})
		result.ErrorDetail = detail.Error()
		return result
	}

	result.Success = true
	result.TotalFound = len(cards)
	if len(cards) > h.config.TopK {
		cards = cards[:h.config.TopK]
	}

	for i, card := range cards {
		score := h.config.BaseScore - float64(i)*h.config.Decay
		if score < 0 {
			score = 0
		}
		result.Candidates = append(result.Candidates, models.CandidateRecommendation{
			Card:      card,
			Score:     score,
			Reasoning: fmt.Sprintf("Found via online search for %s offers", categoriesLabel(categories)),
			Manager:   ManagerName,
		})
	}

	h.logger.Info("online fallback completed", map[string]interface{}{
		"categories": categories,
		"hits":       result.TotalFound,
	})
	return result
}

func categoriesLabel(categories []string) string {
	if len(categories) == 0 {
		return "card"
	}
	label := categories[0]
	for _, c := range categories[1:] {
		label += ", " + c
	}
	return label
}
