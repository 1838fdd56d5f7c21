// internal/stages/score-cards/handler_test.go
package scorecards

import (
	"context"
	"strings"
	"testing"

	"card-advisor/internal/catalog"
	"card-advisor/internal/common/logger"
	"card-advisor/internal/models"
	"card-advisor/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type panicCatalog struct{}

func (panicCatalog) Search(context.Context, []string) []models.CardRecord {
	panic("catalog exploded")
}

func newManager(t *testing.T, category string, cat catalog.Service) *Handler {
	t.Helper()
	profile, ok := registry.ProfileFor(category)
	require.True(t, ok)
	return NewHandler(DefaultConfig(), profile, cat, logger.NewTestLogger(t))
}

func standardRequest(goals ...string) *models.StructuredRequest {
	return &models.StructuredRequest{
		Goals:         goals,
		RiskTolerance: models.RiskStandard,
		TimeHorizon:   models.HorizonStandard,
		Jurisdiction:  "SG",
	}
}

func TestExecuteTravelManager(t *testing.T) {
	h := newManager(t, models.CategoryTravel, catalog.NewSeeded())
	result := h.Execute(context.Background(), standardRequest("travel"))

	require.True(t, result.Success)
	assert.Equal(t, models.CategoryTravel, result.Manager)
	assert.Equal(t, models.OriginCatalog, result.Origin)
	assert.Equal(t, 2, result.TotalFound)
	require.Len(t, result.Candidates, 2)

	for i, c := range result.Candidates {
		assert.GreaterOrEqual(t, c.Score, 0.0)
		assert.LessOrEqual(t, c.Score, 1.0)
		assert.NotEmpty(t, c.Reasoning)
		assert.Equal(t, models.CategoryTravel, c.Manager)
		if i > 0 {
			assert.GreaterOrEqual(t, result.Candidates[i-1].Score, c.Score)
		}
	}
}

func TestExecuteCapsAtTopK(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TopK = 1
	profile, _ := registry.ProfileFor(models.CategoryTravel)
	h := NewHandler(cfg, profile, catalog.NewSeeded(), logger.NewTestLogger(t))

	result := h.Execute(context.Background(), standardRequest("travel"))
	assert.Equal(t, 2, result.TotalFound)
	assert.Len(t, result.Candidates, 1)
}

func TestRiskToleranceChangesScores(t *testing.T) {
	h := newManager(t, models.CategoryTravel, catalog.NewSeeded())

	conservative := standardRequest("travel")
	conservative.RiskTolerance = models.RiskConservative
	aggressive := standardRequest("travel")
	aggressive.RiskTolerance = models.RiskAggressive

	lowFit := h.Execute(context.Background(), conservative)
	highFit := h.Execute(context.Background(), aggressive)

	// Both travel cards carry a fee well above the conservative ceiling.
	assert.Less(t, lowFit.Candidates[0].Score, highFit.Candidates[0].Score)
}

func TestConstraintFlexibility(t *testing.T) {
	h := newManager(t, models.CategoryCashback, catalog.NewSeeded())

	constrained := standardRequest("cashback")
	constrained.Constraints = []string{"no annual fee"}

	result := h.Execute(context.Background(), constrained)
	require.True(t, result.Success)
	// Every seeded cashback card has no fee, so the constraint costs nothing.
	unconstrained := h.Execute(context.Background(), standardRequest("cashback"))
	assert.Equal(t, unconstrained.Candidates[0].Score, result.Candidates[0].Score)
}

func TestRankTieBreaks(t *testing.T) {
	cards := []models.CardRecord{
		{ID: "a", Name: "Plain One", Issuer: "Bank", Categories: []string{"general"}, AnnualFee: 100},
		{ID: "b", Name: "Plain Two", Issuer: "Bank", Categories: []string{"general"}, AnnualFee: 0},
		{ID: "c", Name: "Plain Three", Issuer: "Bank", Categories: []string{"general"}, AnnualFee: 0},
	}
	h := newManager(t, models.CategoryGeneral, catalog.NewStatic(cards))

	result := h.Execute(context.Background(), standardRequest())
	require.Len(t, result.Candidates, 3)

	// Identical scores: lower fee first, then catalog insertion order.
	assert.Equal(t, "b", result.Candidates[0].Card.ID)
	assert.Equal(t, "c", result.Candidates[1].Card.ID)
	assert.Equal(t, "a", result.Candidates[2].Card.ID)
}

func TestEmptyCatalogSliceSucceedsWithZeroResults(t *testing.T) {
	h := newManager(t, models.CategoryBusiness, catalog.NewStatic(nil))
	result := h.Execute(context.Background(), standardRequest("business"))

	assert.True(t, result.Success)
	assert.Zero(t, result.TotalFound)
	assert.Empty(t, result.Candidates)
	assert.Empty(t, result.ErrorDetail)
}

func TestPanicIsContained(t *testing.T) {
	h := newManager(t, models.CategoryTravel, panicCatalog{})
	result := h.Execute(context.Background(), standardRequest("travel"))

	assert.False(t, result.Success)
	assert.Contains(t, result.ErrorDetail, "MANAGER_FAILED")
	assert.Contains(t, result.ErrorDetail, "travel")
}

func TestExecuteIsIdempotent(t *testing.T) {
	h := newManager(t, models.CategoryTravel, catalog.NewSeeded())
	req := standardRequest("travel")
	req.Constraints = []string{"no annual fee", "international"}

	first := h.Execute(context.Background(), req)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, h.Execute(context.Background(), req))
	}
}

func TestExplainNamesDominantTerm(t *testing.T) {
	h := newManager(t, models.CategoryTravel, catalog.NewSeeded())
	result := h.Execute(context.Background(), standardRequest("travel"))

	reasoning := result.Candidates[0].Reasoning
	hasFactor := strings.Contains(reasoning, "strongest factor")
	assert.True(t, hasFactor, "reasoning should name the dominant factor: %s", reasoning)
}
