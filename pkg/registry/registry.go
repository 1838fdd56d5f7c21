// pkg/registry/registry.go
package registry

import "card-advisor/internal/models"

// Profiles returns the manager profiles in their canonical order. The
// general profile is always last so routers can append it as the default.
func Profiles() []Profile {
	return []Profile{
		{
			Category:   models.CategoryTravel,
			GoalTags:   []string{"miles", "travel", "airline", "hotel"},
			Vocabulary: []string{"miles", "travel", "airline", "hotel", "flight", "airport"},
			Weights:    DefaultWeights(),
			BoostTerms: map[string]float64{
				"miles":   0.2,
				"airline": 0.2,
				"travel":  0.2,
			},
			ConstraintBoosts: map[string]map[string]float64{
				"international": {"no foreign transaction fee": 0.15},
			},
			FeeValueRatio: true,
		},
		{
			Category:   models.CategoryCashback,
			GoalTags:   []string{"cashback", "cash", "rewards", "money", "points"},
			Vocabulary: []string{"cashback", "cash back", "money", "rebate", "rewards", "points"},
			Weights:    DefaultWeights(),
			BoostTerms: map[string]float64{
				"cashback": 0.2,
				"%":        0.1,
			},
		},
		{
			Category:   models.CategoryBusiness,
			GoalTags:   []string{"business", "corporate", "expense", "employee"},
			Vocabulary: []string{"business", "corporate", "expense", "employee", "company"},
			Weights:    DefaultWeights(),
			BoostTerms: map[string]float64{
				"business": 0.2,
				"employee": 0.1,
			},
		},
		{
			Category:   models.CategoryStudent,
			GoalTags:   []string{"student", "building_credit", "first", "college"},
			Vocabulary: []string{"student", "college", "university", "first card", "building credit"},
			Weights:    DefaultWeights(),
			BoostTerms: map[string]float64{
				"student": 0.2,
			},
			ZeroFeeBoost:    0.2,
			PreferLowCredit: true,
		},
		{
			Category:   models.CategoryGeneral,
			GoalTags:   []string{"general"},
			Vocabulary: nil,
			Weights:    DefaultWeights(),
			BoostTerms: nil,
		},
	}
}

// ProfileFor looks up a profile by manager category.
func ProfileFor(category string) (Profile, bool) {
	for _, p := range Profiles() {
		if p.Category == category {
			return p, true
		}
	}
	return Profile{}, false
}

// CategoryForGoal maps a goal tag to its owning manager category. The
// mapping is many-to-one; unknown goals belong to the general manager.
func CategoryForGoal(goal string) string {
	for _, p := range Profiles() {
		for _, tag := range p.GoalTags {
			if tag == goal {
				return p.Category
			}
		}
	}
	return models.CategoryGeneral
}
