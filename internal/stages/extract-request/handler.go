// internal/stages/extract-request/handler.go

// Package extractrequest turns the raw query and locale into a structured
// request. Extraction failures are recoverable: the deterministic keyword
// extractor always produces a usable request, so this stage only fails when
// the session itself is cancelled.
package extractrequest

import (
	"context"
	"strings"

	"card-advisor/internal/common/errors"
	"card-advisor/internal/common/logger"
	"card-advisor/internal/common/metrics"
	"card-advisor/internal/models"
	"card-advisor/internal/services/llm"
)

const StageName = "extract-request"

type Handler struct {
	config   *Config
	primary  llm.TextUnderstanding
	fallback llm.TextUnderstanding
	logger   logger.Logger
}

// NewHandler wires the extraction services. primary may be nil when only
// the keyword extractor is configured; fallback must never be nil.
func NewHandler(config *Config, primary, fallback llm.TextUnderstanding, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		primary:  primary,
		fallback: fallback,
		logger:   log.WithFields(map[string]interface{}{"stage": StageName}),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*models.StructuredRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewSessionCancelledError(StageName)
	}

	query := strings.TrimSpace(input.Query)
	if query == "" {
		req := h.emptyRequest(input.Locale)
		metrics.ExtractionPath.WithLabelValues(PathEmpty).Inc()
		h.logger.Info("empty query, default request", map[string]interface{}{
			"jurisdiction": req.Jurisdiction,
		})
		return req, nil
	}

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	extraction, path, err := h.extract(ctx, query)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.NewSessionCancelledError(StageName)
		}
		return nil, err
	}

	req := h.toRequest(extraction, path, input.Locale)
	metrics.ExtractionPath.WithLabelValues(path).Inc()

	h.logger.Info("request extracted", map[string]interface{}{
		"path":         path,
		"goals":        req.Goals,
		"jurisdiction": req.Jurisdiction,
		"confidence":   req.Confidence,
	})
	return req, nil
}

// extract tries the model path first and degrades to the keyword extractor.
func (h *Handler) extract(ctx context.Context, query string) (*llm.Extraction, string, error) {
	if h.primary != nil {
		extraction, err := h.primary.Extract(ctx, query)
		if err == nil {
			return extraction, PathModel, nil
		}
		if ctx.Err() != nil {
			return nil, "", err
		}
		h.logger.Warn("model extraction failed, using keyword fallback", map[string]interface{}{
			"error": err.Error(),
		})
	}

	extraction, err := h.fallback.Extract(ctx, query)
	if err != nil {
		return nil, "", errors.NewExtractionFailedError(err)
	}
	return extraction, PathKeyword, nil
}

func (h *Handler) toRequest(e *llm.Extraction, path, locale string) *models.StructuredRequest {
	jurisdiction := JurisdictionFromLocale(locale)
	if jurisdiction == "" {
		jurisdiction = strings.ToUpper(e.Jurisdiction)
	}
	if jurisdiction == "" {
		jurisdiction = h.config.DefaultJurisdiction
	}

	return &models.StructuredRequest{
		Goals:          e.Goals,
		RiskTolerance:  models.RiskTolerance(e.RiskTolerance),
		TimeHorizon:    models.TimeHorizon(e.TimeHorizon),
		Jurisdiction:   jurisdiction,
		Constraints:    e.Constraints,
		ExtractionPath: path,
		Confidence:     e.Confidence,
	}
}

func (h *Handler) emptyRequest(locale string) *models.StructuredRequest {
	jurisdiction := JurisdictionFromLocale(locale)
	if jurisdiction == "" {
		jurisdiction = h.config.DefaultJurisdiction
	}
	return &models.StructuredRequest{
		RiskTolerance:  models.RiskStandard,
		TimeHorizon:    models.HorizonStandard,
		Jurisdiction:   jurisdiction,
		ExtractionPath: PathEmpty,
		Confidence:     0,
	}
}

// JurisdictionFromLocale pulls the market code out of a locale tag. It
// accepts "en-SG" and "en_SG" forms, a bare region ("SG"), and the sloppy
// concatenated form ("enSG"). Anything else yields "".
func JurisdictionFromLocale(locale string) string {
	l := strings.TrimSpace(locale)
	if l == "" {
		return ""
	}
	for _, sep := range []string{"-", "_"} {
		if parts := strings.Split(l, sep); len(parts) == 2 && len(parts[1]) == 2 {
			return strings.ToUpper(parts[1])
		}
	}
	if len(l) == 2 {
		return strings.ToUpper(l)
	}
	if len(l) == 4 && strings.ToLower(l[:2]) == l[:2] {
		return strings.ToUpper(l[2:])
	}
	return ""
}
