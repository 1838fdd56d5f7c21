// internal/models/card.go
package models

import "strings"

// CardRecord is a catalog entry. Catalog data is read-only to managers.
type CardRecord struct {
	ID             string   `json:"cardId"`
	Name           string   `json:"cardName"`
	Issuer         string   `json:"issuer"`
	Categories     []string `json:"categories"`
	AnnualFee      float64  `json:"annualFee"`
	RewardsRate    string   `json:"rewardsRate"`
	SignupBonus    string   `json:"signupBonus"`
	MinCreditScore string   `json:"creditScoreRequired"`
	Pros           []string `json:"pros"`
	Cons           []string `json:"cons"`
}

// HasCategory reports whether the card carries the given category tag.
func (c *CardRecord) HasCategory(category string) bool {
	for _, tag := range c.Categories {
		if tag == category {
			return true
		}
	}
	return false
}

// Text returns a lowercased flattening of the card's descriptive fields,
// used by keyword-based scoring heuristics.
func (c *CardRecord) Text() string {
	parts := []string{c.Name, c.Issuer, c.RewardsRate, c.SignupBonus}
	parts = append(parts, c.Categories...)
	parts = append(parts, c.Pros...)
	parts = append(parts, c.Cons...)
	return strings.ToLower(strings.Join(parts, " "))
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// CandidateRecommendation is a scored catalog card produced by one manager.
type CandidateRecommendation struct {
	Card      CardRecord `json:"card"`
	Score     float64    `json:"score"`
	Reasoning string     `json:"reasoning"`
	Manager   string     `json:"manager"`
}

// Result origins. Fallback results are tagged so the summary can note
// where they came from.
const (
	OriginCatalog      = "catalog"
	OriginOnlineSearch = "online_search"
)

// ManagerResult wraps one manager invocation. It is written once into
// session state and never mutated after.
type ManagerResult struct {
	Manager     string                    `json:"manager"`
	Origin      string                    `json:"origin"`
	Candidates  []CandidateRecommendation `json:"candidates"`
	TotalFound  int                       `json:"totalFound"`
	Success     bool                      `json:"success"`
	ErrorDetail string                    `json:"errorDetail,omitempty"`
}

// Recommendation is an aggregated, deduplicated candidate with the scores
// every manager gave it.
type Recommendation struct {
	Card          CardRecord         `json:"card"`
	OverallScore  float64            `json:"overallScore"`
	ManagerScores map[string]float64 `json:"managerScores"`
	Origin        string             `json:"origin"`
	Reasoning     string             `json:"reasoning"`
	BestFor       []string           `json:"bestFor,omitempty"`
}

// FinalRecommendationSet is the terminal, read-only output of a session.
type FinalRecommendationSet struct {
	TotalAnalyzed   int              `json:"totalAnalyzed"`
	Recommendations []Recommendation `json:"recommendations"`
	TopPick         *Recommendation  `json:"topPick,omitempty"`
	Summary         string           `json:"summary"`
	Confidence      float64          `json:"confidence"`
}

// Empty reports the valid "no matches" terminal state.
func (f *FinalRecommendationSet) Empty() bool {
	return len(f.Recommendations) == 0
}
