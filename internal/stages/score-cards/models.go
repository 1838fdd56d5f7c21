// internal/stages/score-cards/models.go
package scorecards

// termScores holds the four scoring terms before weighting.
type termScores struct {
	GoalMatch      float64
	RiskFit        float64
	HorizonFit     float64
	ConstraintFlex float64
}

// Reasoning bands by final score.
const (
	bandExcellent = "Excellent"
	bandGood      = "Good"
	bandModerate  = "Moderate"
	bandBasic     = "Basic"
)

func band(score float64) string {
	switch {
	case score >= 0.85:
		return bandExcellent
	case score >= 0.7:
		return bandGood
	case score >= 0.5:
		return bandModerate
	default:
		return bandBasic
	}
}
