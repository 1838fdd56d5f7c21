// pkg/registry/schema.go
package registry

// Profile configures one card-manager variant. All variants share one
// algorithm; only the data below differs.
type Profile struct {
	Category   string   `json:"category"`
	GoalTags   []string `json:"goalTags"`
	Vocabulary []string `json:"vocabulary"`
	Weights    Weights  `json:"weights"`

	// BoostTerms adds to the goal-match term when the card's text contains
	// the key.
	BoostTerms map[string]float64 `json:"boostTerms,omitempty"`

	// ConstraintBoosts adds term boosts activated by a request constraint
	// (matched by substring).
	ConstraintBoosts map[string]map[string]float64 `json:"constraintBoosts,omitempty"`

	// ZeroFeeBoost adds to the goal-match term for cards with no annual fee.
	ZeroFeeBoost float64 `json:"zeroFeeBoost,omitempty"`

	// PreferLowCredit rewards cards with low credit requirements.
	PreferLowCredit bool `json:"preferLowCredit,omitempty"`

	// FeeValueRatio rewards cards whose annual fee is justified by a signup
	// bonus, instead of flat fee aversion.
	FeeValueRatio bool `json:"feeValueRatio,omitempty"`
}

// Weights is the scoring-term weight table. The four terms always sum the
// final score; every profile currently shares the canonical split.
type Weights struct {
	GoalMatch      float64 `json:"goalMatch"`
	RiskFit        float64 `json:"riskFit"`
	HorizonFit     float64 `json:"horizonFit"`
	ConstraintFlex float64 `json:"constraintFlex"`
}

// DefaultWeights returns the canonical 0.4/0.3/0.2/0.1 split.
func DefaultWeights() Weights {
	return Weights{GoalMatch: 0.4, RiskFit: 0.3, HorizonFit: 0.2, ConstraintFlex: 0.1}
}
