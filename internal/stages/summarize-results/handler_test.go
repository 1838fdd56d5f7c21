// internal/stages/summarize-results/handler_test.go
package summarizeresults

import (
	"context"
	"testing"

	"card-advisor/internal/common/logger"
	"card-advisor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHandler(t *testing.T) *Handler {
	t.Helper()
	return NewHandler(DefaultConfig(), logger.NewTestLogger(t))
}

func candidate(id, manager string, score, fee float64) models.CandidateRecommendation {
	return models.CandidateRecommendation{
		Card:      models.CardRecord{ID: id, Name: "Card " + id, AnnualFee: fee},
		Score:     score,
		Reasoning: "reason " + id,
		Manager:   manager,
	}
}

func slot(manager string, total int, candidates ...models.CandidateRecommendation) models.ManagerResult {
	return models.ManagerResult{
		Manager:    manager,
		Origin:     models.OriginCatalog,
		Candidates: candidates,
		TotalFound: total,
		Success:    true,
	}
}

func TestExecute(t *testing.T) {
	plan := models.FanoutPlan{"travel", "general"}

	t.Run("aggregates and ranks across managers", func(t *testing.T) {
		h := testHandler(t)
		results := map[string]models.ManagerResult{
			"travel":  slot("travel", 2, candidate("t1", "travel", 0.9, 190), candidate("t2", "travel", 0.7, 190)),
			"general": slot("general", 1, candidate("g1", "general", 0.8, 50)),
		}

		set := h.Execute(context.Background(), plan, results)
		require.Len(t, set.Recommendations, 3)

		assert.Equal(t, "t1", set.Recommendations[0].Card.ID)
		assert.Equal(t, "g1", set.Recommendations[1].Card.ID)
		assert.Equal(t, "t2", set.Recommendations[2].Card.ID)

		require.NotNil(t, set.TopPick)
		assert.Equal(t, "t1", set.TopPick.Card.ID)
		assert.Equal(t, 3, set.TotalAnalyzed)
		assert.InDelta(t, (0.9+0.8+0.7)/3, set.Confidence, 1e-9)
		assert.Contains(t, set.Summary, "Card t1")
	})

	t.Run("dedupes by card keeping max score", func(t *testing.T) {
		h := testHandler(t)
		results := map[string]models.ManagerResult{
			"travel":  slot("travel", 1, candidate("x", "travel", 0.6, 0)),
			"general": slot("general", 1, candidate("x", "general", 0.9, 0)),
		}

		set := h.Execute(context.Background(), plan, results)
		require.Len(t, set.Recommendations, 1)

		rec := set.Recommendations[0]
		assert.InDelta(t, 0.9, rec.OverallScore, 1e-9)
		assert.Equal(t, map[string]float64{"travel": 0.6, "general": 0.9}, rec.ManagerScores)
		assert.ElementsMatch(t, []string{"travel", "general"}, rec.BestFor)
		assert.Equal(t, "reason x", rec.Reasoning)
	})

	t.Run("tie breaks by fee then plan priority", func(t *testing.T) {
		h := testHandler(t)
		results := map[string]models.ManagerResult{
			"general": slot("general", 1, candidate("cheap", "general", 0.8, 0)),
			"travel":  slot("travel", 1, candidate("dear", "travel", 0.8, 100)),
		}

		set := h.Execute(context.Background(), plan, results)
		assert.Equal(t, "cheap", set.Recommendations[0].Card.ID)

		// Equal score and fee: plan order decides.
		results = map[string]models.ManagerResult{
			"general": slot("general", 1, candidate("g", "general", 0.8, 0)),
			"travel":  slot("travel", 1, candidate("t", "travel", 0.8, 0)),
		}
		set = h.Execute(context.Background(), plan, results)
		assert.Equal(t, "t", set.Recommendations[0].Card.ID)
	})

	t.Run("failed slots contribute nothing", func(t *testing.T) {
		h := testHandler(t)
		results := map[string]models.ManagerResult{
			"travel": {Manager: "travel", Success: false, TotalFound: 5, ErrorDetail: "boom"},
			"general": slot("general", 1, candidate("g", "general", 0.5, 0)),
		}

		set := h.Execute(context.Background(), plan, results)
		require.Len(t, set.Recommendations, 1)
		assert.Equal(t, 1, set.TotalAnalyzed)
	})

	t.Run("no candidates is a valid empty terminal", func(t *testing.T) {
		h := testHandler(t)
		results := map[string]models.ManagerResult{
			"general": slot("general", 0),
		}

		set := h.Execute(context.Background(), plan, results)
		assert.True(t, set.Empty())
		assert.Nil(t, set.TopPick)
		assert.Zero(t, set.Confidence)
		assert.Contains(t, set.Summary, "No recommendations")
	})

	t.Run("online fallback origin is called out", func(t *testing.T) {
		h := testHandler(t)
		fallback := models.ManagerResult{
			Manager:    "online_search",
			Origin:     models.OriginOnlineSearch,
			Candidates: []models.CandidateRecommendation{candidate("o", "online_search", 0.6, 0)},
			TotalFound: 1,
			Success:    true,
		}

		set := h.Execute(context.Background(), plan, map[string]models.ManagerResult{"online_search": fallback})
		require.NotNil(t, set.TopPick)
		assert.Equal(t, models.OriginOnlineSearch, set.TopPick.Origin)
		assert.Contains(t, set.Summary, "online search")
	})

	t.Run("deterministic across runs", func(t *testing.T) {
		h := testHandler(t)
		results := map[string]models.ManagerResult{
			"travel":  slot("travel", 2, candidate("t1", "travel", 0.9, 190), candidate("x", "travel", 0.7, 0)),
			"general": slot("general", 2, candidate("g1", "general", 0.7, 0), candidate("x", "general", 0.8, 0)),
		}

		first := h.Execute(context.Background(), plan, results)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, h.Execute(context.Background(), plan, results))
		}
	})
}
