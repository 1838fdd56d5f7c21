// internal/stages/filter-compliance/handler.go

// Package filtercompliance gates the pipeline on jurisdiction rules and
// applies consent redaction. A rejection here is terminal: no manager runs
// for the session.
package filtercompliance

import (
	"context"

	"card-advisor/internal/common/errors"
	"card-advisor/internal/common/logger"
	"card-advisor/internal/models"
	"card-advisor/internal/services/policy"
)

const StageName = "filter-compliance"

type Handler struct {
	compliance policy.Compliance
	logger     logger.Logger
}

func NewHandler(compliance policy.Compliance, log logger.Logger) *Handler {
	return &Handler{
		compliance: compliance,
		logger:     log.WithFields(map[string]interface{}{"stage": StageName}),
	}
}

// Execute checks the jurisdiction and returns a redacted copy of the
// request. The input request is never mutated.
func (h *Handler) Execute(ctx context.Context, request *models.StructuredRequest, consent models.Consent) (*models.StructuredRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewSessionCancelledError(StageName)
	}

	if err := h.compliance.Check(request.Jurisdiction); err != nil {
		h.logger.Warn("request rejected", map[string]interface{}{
			"jurisdiction": request.Jurisdiction,
		})
		return nil, err
	}

	filtered := *request
	filtered.Consent = consent

	// Without personalization consent the preference fields are reset to
	// neutral values. Goals and constraints describe the product wanted,
	// not the person, and stay.
	if !consent.Personalization {
		filtered.RiskTolerance = models.RiskStandard
		filtered.TimeHorizon = models.HorizonStandard
		h.logger.Info("personal preferences redacted", map[string]interface{}{
			"jurisdiction": filtered.Jurisdiction,
		})
	}

	h.logger.Info("compliance check passed", map[string]interface{}{
		"jurisdiction":    filtered.Jurisdiction,
		"personalization": consent.Personalization,
		"dataSharing":     consent.DataSharing,
	})
	return &filtered, nil
}
