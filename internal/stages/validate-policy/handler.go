// internal/stages/validate-policy/handler.go

// Package validatepolicy screens manager candidates against jurisdiction
// rules before aggregation. It is a pure filter: candidate order, scores
// and result slots are preserved, and it never fails a session. Filtering
// everything out is a valid outcome that ends in an empty recommendation
// set downstream.
package validatepolicy

import (
	"context"

	"card-advisor/internal/common/logger"
	"card-advisor/internal/models"
	"card-advisor/internal/services/policy"
)

const StageName = "validate-policy"

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

// Execute returns a filtered copy of the manager results. The input map is
// not modified.
func (h *Handler) Execute(_ context.Context, request *models.StructuredRequest, results map[string]models.ManagerResult) map[string]models.ManagerResult {
	flagged := h.compliance.FlaggedIssuers(request.Jurisdiction)
	out := make(map[string]models.ManagerResult, len(results))

	removed := 0
	for key, result := range results {
		if !result.Success || len(result.Candidates) == 0 || len(flagged) == 0 {
			out[key] = result
			continue
		}

		kept := make([]models.CandidateRecommendation, 0, len(result.Candidates))
		for _, candidate := range result.Candidates {
			if issuerFlagged(candidate.Card.Issuer, flagged) {
				removed++
				continue
			}
			kept = append(kept, candidate)
		}
		result.Candidates = kept
		out[key] = result
	}

	if removed > 0 {
		h.logger.Info("candidates removed by policy", map[string]interface{}{
			"jurisdiction": request.Jurisdiction,
			"removed":      removed,
		})
	}
	return out
}

func issuerFlagged(issuer string, flagged []string) bool {
	for _, f := range flagged {
		if issuer == f {
			return true
		}
	}
	return false
}
