// internal/models/request.go
package models

// Goal tags a manager category can own.
const (
	CategoryTravel   = "travel"
	CategoryCashback = "cashback"
	CategoryBusiness = "business"
	CategoryStudent  = "student"
	CategoryGeneral  = "general"
)

// RiskTolerance is an ordinal preference scale.
type RiskTolerance string

const (
	RiskConservative RiskTolerance = "conservative"
	RiskStandard     RiskTolerance = "standard"
	RiskAggressive   RiskTolerance = "aggressive"
)

// Ordinal returns the rank of the tolerance level, lowest first.
func (r RiskTolerance) Ordinal() int {
	switch r {
	case RiskConservative:
		return 0
	case RiskAggressive:
		return 2
	default:
		return 1
	}
}

// MaxAnnualFee returns the fee ceiling a tolerance level accepts, or a
// negative value when unrestricted.
func (r RiskTolerance) MaxAnnualFee() float64 {
	switch r {
	case RiskConservative:
		return 50
	case RiskStandard:
		return 200
	default:
		return -1
	}
}

// TimeHorizon is the period the user plans around.
type TimeHorizon string

const (
	HorizonShort    TimeHorizon = "6m"
	HorizonStandard TimeHorizon = "12m"
	HorizonLong     TimeHorizon = "24m"
)

func (t TimeHorizon) Ordinal() int {
	switch t {
	case HorizonShort:
		return 0
	case HorizonLong:
		return 2
	default:
		return 1
	}
}

// Consent captures the user's data-processing permissions.
type Consent struct {
	Personalization bool `json:"personalization"`
	DataSharing     bool `json:"dataSharing"`
}

// StructuredRequest is the parsed form of the user's free-text query.
// It is created once per session and never mutated afterwards.
type StructuredRequest struct {
	Goals          []string      `json:"goals"`
	RiskTolerance  RiskTolerance `json:"riskTolerance"`
	TimeHorizon    TimeHorizon   `json:"timeHorizon"`
	Jurisdiction   string        `json:"jurisdiction"`
	Constraints    []string      `json:"constraints"`
	Consent        Consent       `json:"consent"`
	ExtractionPath string        `json:"extractionPath"`
	Confidence     float64       `json:"confidence"`
}

// HasGoal reports whether the request declared the given goal tag.
func (r *StructuredRequest) HasGoal(goal string) bool {
	for _, g := range r.Goals {
		if g == goal {
			return true
		}
	}
	return false
}

// HasConstraint reports whether any constraint contains the given substring.
func (r *StructuredRequest) HasConstraint(substr string) bool {
	for _, c := range r.Constraints {
		if containsFold(c, substr) {
			return true
		}
	}
	return false
}
