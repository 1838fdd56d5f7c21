// internal/stages/handle-error/handler.go

// Package handleerror is the terminal stage for sessions that could not
// produce recommendations. It translates the accumulated error list into a
// user-facing report and, where appropriate, a generic fallback suggestion
// from the catalog. It must never fail itself: a broken catalog just means
// no fallback cards.
package handleerror

import (
	"context"
	"fmt"

	"card-advisor/internal/catalog"
	"card-advisor/internal/common/errors"
	"card-advisor/internal/common/logger"
	"card-advisor/internal/models"
)

const StageName = "handle-error"

type Handler struct {
	config  *Config
	catalog catalog.Service
	logger  logger.Logger
}

func NewHandler(config *Config, cat catalog.Service, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		catalog: cat,
		logger:  log.WithFields(map[string]interface{}{"stage": StageName}),
	}
}

// Execute builds the error report. terminal is the error that ended the
// session; errs is everything recorded along the way, contained failures
// included.
func (h *Handler) Execute(ctx context.Context, terminal error, errs []models.SessionError) *models.ErrorReport {
	code := errors.CodeOf(terminal)

	report := &models.ErrorReport{
		Message:         userMessage(code),
		ErrorsHandled:   len(errs),
		RecoveryActions: recoveryActions(errs),
	}

	if offerFallback(code) {
		report.Fallback = h.fallbackCards(ctx)
	}

	h.logger.Info("error report built", map[string]interface{}{
		"terminalCode":  string(code),
		"errorsHandled": report.ErrorsHandled,
		"fallbackCards": len(report.Fallback),
	})
	return report
}

// offerFallback reports whether a generic suggestion is appropriate. A
// compliance rejection must not be softened with recommendations, and a
// cancelled caller is no longer listening.
func offerFallback(code errors.ErrorCode) bool {
	return code != errors.ErrCodeComplianceRejected && code != errors.ErrCodeSessionCancelled
}

func (h *Handler) fallbackCards(ctx context.Context) []models.CandidateRecommendation {
	cards := h.catalog.Search(ctx, []string{models.CategoryGeneral})
	if len(cards) > h.config.FallbackTopK {
		cards = cards[:h.config.FallbackTopK]
	}

	out := make([]models.CandidateRecommendation, 0, len(cards))
	for _, card := range cards {
		out = append(out, models.CandidateRecommendation{
			Card:      card,
			Score:     h.config.FallbackScore,
			Reasoning: "General-purpose suggestion while your request could not be completed",
			Manager:   models.CategoryGeneral,
		})
	}
	return out
}

func userMessage(code errors.ErrorCode) string {
	switch code {
	case errors.ErrCodeComplianceRejected:
		return "We are unable to provide card recommendations in your region."
	case errors.ErrCodeSessionCancelled:
		return "Your session was cancelled before recommendations were ready."
	case errors.ErrCodeInvalidInput:
		return "We could not understand your request. Please rephrase and try again."
	default:
		return "We could not complete your recommendation request. Please try again later."
	}
}

// recoveryActions lists, in order of occurrence, what the pipeline did
// about each recorded error.
func recoveryActions(errs []models.SessionError) []string {
	var actions []string
	for _, e := range errs {
		switch errors.ErrorCode(e.Code) {
		case errors.ErrCodeExtractionFailed:
			actions = append(actions, "fell back to keyword extraction")
		case errors.ErrCodeManagerFailed:
			actions = append(actions, fmt.Sprintf("excluded failed results from %s", e.Stage))
		case errors.ErrCodeServiceUnavailable:
			actions = append(actions, fmt.Sprintf("continued without %s", e.Stage))
		case errors.ErrCodeComplianceRejected:
			actions = append(actions, "stopped processing before any manager ran")
		case errors.ErrCodeSessionCancelled:
			actions = append(actions, "stopped processing on cancellation")
		default:
			actions = append(actions, fmt.Sprintf("recorded error at %s", e.Stage))
		}
	}
	return actions
}
