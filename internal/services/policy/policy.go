// internal/services/policy/policy.go

// Package policy holds the jurisdiction rules: which markets the advisor
// may serve and which issuers are flagged per market.
package policy

import (
	"strings"

	"card-advisor/internal/common/config"
	"card-advisor/internal/common/errors"
	"card-advisor/internal/common/logger"
)

// Compliance answers jurisdiction questions for the pipeline.
type Compliance interface {
	// Check returns a COMPLIANCE_REJECTED error when the jurisdiction is
	// not served. A nil error means processing may continue.
	Check(jurisdiction string) error

	// FlaggedIssuers returns the issuers that may not be recommended in
	// the given jurisdiction.
	FlaggedIssuers(jurisdiction string) []string
}

// Rules is the config-driven Compliance implementation.
type Rules struct {
	supported map[string]bool
	flagged   map[string][]string
	logger    logger.Logger
}

func NewRules(cfg config.PolicyConfig, log logger.Logger) *Rules {
	supported := make(map[string]bool, len(cfg.SupportedJurisdictions))
	for _, j := range cfg.SupportedJurisdictions {
		supported[strings.ToUpper(j)] = true
	}
	flagged := make(map[string][]string, len(cfg.FlaggedIssuers))
	for j, issuers := range cfg.FlaggedIssuers {
		flagged[strings.ToUpper(j)] = issuers
	}
	return &Rules{supported: supported, flagged: flagged, logger: log}
}

func (r *Rules) Check(jurisdiction string) error {
	j := strings.ToUpper(jurisdiction)
	if r.supported[j] {
		return nil
	}
	r.logger.Warn("jurisdiction not served", map[string]interface{}{"jurisdiction": j})
	return errors.NewComplianceRejectedError(j, "jurisdiction is not served")
}

func (r *Rules) FlaggedIssuers(jurisdiction string) []string {
	return r.flagged[strings.ToUpper(jurisdiction)]
}
