// internal/stages/plan-fanout/handler.go

// Package planfanout routes a structured request to manager categories.
// Routing is total: every request, including one with no goals, yields a
// non-empty plan, so this stage never fails a session.
package planfanout

import (
	"context"

	"card-advisor/internal/common/logger"
	"card-advisor/internal/models"
	"card-advisor/pkg/registry"
)

const StageName = "plan-fanout"

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

// Execute maps each goal to its owning category, dedupes while keeping
// goal order, and appends the general manager last when absent. A request
// without goals routes to the general manager alone.
func (h *Handler) Execute(_ context.Context, request *models.StructuredRequest) models.FanoutPlan {
	if len(request.Goals) == 0 {
		h.logger.Info("no goals, routing to general manager", nil)
		return models.FanoutPlan{models.CategoryGeneral}
	}

	var plan models.FanoutPlan
	seen := make(map[string]bool)
	for _, goal := range request.Goals {
		category := registry.CategoryForGoal(goal)
		if !seen[category] {
			seen[category] = true
			plan = append(plan, category)
		}
	}

	if h.config.AlwaysIncludeGeneral && !seen[models.CategoryGeneral] {
		plan = append(plan, models.CategoryGeneral)
	}

	h.logger.Info("fan-out plan built", map[string]interface{}{
		"goals": request.Goals,
		"plan":  plan,
	})
	return plan
}
