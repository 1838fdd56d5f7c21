// internal/stages/score-cards/handler.go

// Package scorecards is the card-manager stage. Every manager variant runs
// the same algorithm; a registry profile supplies the category, vocabulary
// and scoring knobs that make a travel manager differ from a student one.
//
// A manager failure never fails the session: Execute always returns a
// ManagerResult, with Success=false and the error detail on the contained
// failure path.
package scorecards

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"card-advisor/internal/catalog"
	"card-advisor/internal/common/errors"
	"card-advisor/internal/common/logger"
	"card-advisor/internal/models"
	"card-advisor/pkg/registry"
)

const StageName = "score-cards"

type Handler struct {
	config  *Config
	profile registry.Profile
	catalog catalog.Service
	logger  logger.Logger
}

func NewHandler(config *Config, profile registry.Profile, cat catalog.Service, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		profile: profile,
		catalog: cat,
		logger: log.WithFields(map[string]interface{}{
			"stage":   StageName,
			"manager": profile.Category,
		}),
	}
}

// Execute analyzes, scores, ranks and explains the manager's catalog slice.
func (h *Handler) Execute(ctx context.Context, request *models.StructuredRequest) (result models.ManagerResult) {
	result = models.ManagerResult{
		Manager: h.profile.Category,
		Origin:  models.OriginCatalog,
	}

	// A panicking manager must not take the session down with it.
	defer func() {
		if r := recover(); r != nil {
			err := errors.NewManagerFailedError(h.profile.Category, fmt.Errorf("panic: %v", r))
			h.logger.Error("manager panicked", map[string]interface{}{"panic": fmt.Sprintf("%v", r)})
			result = models.ManagerResult{
				Manager:     h.profile.Category,
				Origin:      models.OriginCatalog,
				Success:     false,
				ErrorDetail: err.Error(),
			}
		}
	}()

	if err := ctx.Err(); err != nil {
		result.ErrorDetail = errors.NewSessionCancelledError(StageName).Error()
		return result
	}

	cards := h.catalog.Search(ctx, []string{h.profile.Category})
	result.TotalFound = len(cards)
	result.Success = true

	if len(cards) == 0 {
		h.logger.Info("no catalog matches", nil)
		return result
	}

	candidates := make([]models.CandidateRecommendation, 0, len(cards))
	for _, card := range cards {
		score, terms := h.score(&card, request)
		candidates = append(candidates, models.CandidateRecommendation{
			Card:      card,
			Score:     score,
			Reasoning: h.explain(score, terms),
			Manager:   h.profile.Category,
		})
	}

	rank(candidates)
	if len(candidates) > h.config.TopK {
		candidates = candidates[:h.config.TopK]
	}
	result.Candidates = candidates

	h.logger.Info("cards scored", map[string]interface{}{
		"analyzed": result.TotalFound,
		"reported": len(candidates),
		"topScore": candidates[0].Score,
	})
	return result
}

// rank orders candidates by score descending, breaking ties by lower annual
// fee. The stable sort keeps catalog insertion order as the final tie-break.
func rank(candidates []models.CandidateRecommendation) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Card.AnnualFee < candidates[j].Card.AnnualFee
	})
}

func (h *Handler) score(card *models.CardRecord, request *models.StructuredRequest) (float64, termScores) {
	terms := termScores{
		GoalMatch:      h.goalMatch(card, request),
		RiskFit:        h.riskFit(card, request),
		HorizonFit:     horizonFit(card, request),
		ConstraintFlex: constraintFlexibility(card, request),
	}

	w := h.profile.Weights
	score := w.GoalMatch*terms.GoalMatch +
		w.RiskFit*terms.RiskFit +
		w.HorizonFit*terms.HorizonFit +
		w.ConstraintFlex*terms.ConstraintFlex
	return clamp(score), terms
}

// goalMatch starts from a neutral base and rewards profile-specific
// signals found in the card's descriptive text. Boost maps are walked in
// sorted key order so float accumulation stays bit-for-bit deterministic.
func (h *Handler) goalMatch(card *models.CardRecord, request *models.StructuredRequest) float64 {
	text := card.Text()
	match := 0.5

	for _, term := range sortedKeys(h.profile.BoostTerms) {
		if contains(text, term) {
			match += h.profile.BoostTerms[term]
		}
	}

	for _, constraintKey := range sortedNestedKeys(h.profile.ConstraintBoosts) {
		if !request.HasConstraint(constraintKey) {
			continue
		}
		boosts := h.profile.ConstraintBoosts[constraintKey]
		for _, needle := range sortedKeys(boosts) {
			if contains(text, needle) {
				match += boosts[needle]
			}
		}
	}

	if h.profile.ZeroFeeBoost > 0 && card.AnnualFee == 0 {
		match += h.profile.ZeroFeeBoost
	}
	if h.profile.PreferLowCredit && (card.MinCreditScore == "fair" || card.MinCreditScore == "poor") {
		match += 0.1
	}
	return clamp(match)
}

// riskFit compares the annual fee against the tolerance ceiling. Profiles
// with FeeValueRatio partially forgive an over-ceiling fee when a signup
// bonus offsets it.
func (h *Handler) riskFit(card *models.CardRecord, request *models.StructuredRequest) float64 {
	ceiling := request.RiskTolerance.MaxAnnualFee()
	if ceiling < 0 || card.AnnualFee <= ceiling {
		return 1.0
	}

	fit := ceiling / card.AnnualFee
	if h.profile.FeeValueRatio && card.SignupBonus != "" {
		fit += 0.2
	}
	return clamp(fit)
}

// horizonFit rewards quick wins on short horizons and low carrying cost on
// long ones.
func horizonFit(card *models.CardRecord, request *models.StructuredRequest) float64 {
	switch request.TimeHorizon {
	case models.HorizonShort:
		if card.SignupBonus != "" {
			return 1.0
		}
		return 0.4
	case models.HorizonLong:
		switch {
		case card.AnnualFee == 0:
			return 1.0
		case card.AnnualFee <= 100:
			return 0.7
		default:
			return 0.4
		}
	default:
		return 0.7
	}
}

// constraintFlexibility is the fraction of constraints the card satisfies.
// A constraint the scorer cannot evaluate earns half credit rather than a
// penalty. No constraints means full flexibility.
func constraintFlexibility(card *models.CardRecord, request *models.StructuredRequest) float64 {
	if len(request.Constraints) == 0 {
		return 1.0
	}

	total := 0.0
	for _, constraint := range request.Constraints {
		total += constraintCredit(card, constraint)
	}
	return clamp(total / float64(len(request.Constraints)))
}

func constraintCredit(card *models.CardRecord, constraint string) float64 {
	switch {
	case contains(constraint, "no annual fee"):
		if card.AnnualFee == 0 {
			return 1.0
		}
		return 0.0
	case contains(constraint, "foreign transaction"), contains(constraint, "international"):
		if contains(card.Text(), "no foreign transaction fee") {
			return 1.0
		}
		return 0.0
	default:
		return 0.5
	}
}

// explain names the band and the dominant weighted term.
func (h *Handler) explain(score float64, terms termScores) string {
	w := h.profile.Weights
	dominant := "goal alignment"
	best := w.GoalMatch * terms.GoalMatch

	if v := w.RiskFit * terms.RiskFit; v > best {
		best, dominant = v, "fee within risk comfort"
	}
	if v := w.HorizonFit * terms.HorizonFit; v > best {
		best, dominant = v, "fit for the planning horizon"
	}
	if v := w.ConstraintFlex * terms.ConstraintFlex; v > best {
		dominant = "constraint flexibility"
	}

	return fmt.Sprintf("%s %s match (%.2f); strongest factor: %s", band(score), h.profile.Category, score, dominant)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func contains(text, needle string) bool {
	return needle != "" && strings.Contains(strings.ToLower(text), strings.ToLower(needle))
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedNestedKeys(m map[string]map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
