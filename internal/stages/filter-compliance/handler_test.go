// internal/stages/filter-compliance/handler_test.go
package filtercompliance

import (
	"context"
	"testing"

	"card-advisor/internal/common/config"
	stderrors "card-advisor/internal/common/errors"
	"card-advisor/internal/common/logger"
	"card-advisor/internal/models"
	"card-advisor/internal/services/policy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHandler(t *testing.T) *Handler {
	t.Helper()
	rules := policy.NewRules(config.PolicyConfig{
		SupportedJurisdictions: []string{"SG", "US"},
	}, logger.NewTestLogger(t))
	return NewHandler(rules, logger.NewTestLogger(t))
}

func travelRequest() *models.StructuredRequest {
	return &models.StructuredRequest{
		Goals:         []string{"travel"},
		RiskTolerance: models.RiskAggressive,
		TimeHorizon:   models.HorizonLong,
		Jurisdiction:  "SG",
		Constraints:   []string{"no annual fee"},
	}
}

func TestExecute(t *testing.T) {
	t.Run("supported jurisdiction passes", func(t *testing.T) {
		h := testHandler(t)
		consent := models.Consent{Personalization: true, DataSharing: true}

		out, err := h.Execute(context.Background(), travelRequest(), consent)
		require.NoError(t, err)
		assert.Equal(t, models.RiskAggressive, out.RiskTolerance)
		assert.Equal(t, consent, out.Consent)
	})

	t.Run("unsupported jurisdiction is terminal", func(t *testing.T) {
		h := testHandler(t)
		req := travelRequest()
		req.Jurisdiction = "DE"

		_, err := h.Execute(context.Background(), req, models.Consent{Personalization: true})
		require.Error(t, err)
		assert.Equal(t, stderrors.ErrCodeComplianceRejected, stderrors.CodeOf(err))
	})

	t.Run("no personalization consent redacts preferences", func(t *testing.T) {
		h := testHandler(t)
		req := travelRequest()

		out, err := h.Execute(context.Background(), req, models.Consent{Personalization: false})
		require.NoError(t, err)

		assert.Equal(t, models.RiskStandard, out.RiskTolerance)
		assert.Equal(t, models.HorizonStandard, out.TimeHorizon)
		assert.Equal(t, []string{"travel"}, out.Goals)
		assert.Equal(t, []string{"no annual fee"}, out.Constraints)

		// Input request stays untouched.
		assert.Equal(t, models.RiskAggressive, req.RiskTolerance)
	})

	t.Run("cancelled session", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		h := testHandler(t)
		_, err := h.Execute(ctx, travelRequest(), models.Consent{})
		require.Error(t, err)
		assert.Equal(t, stderrors.ErrCodeSessionCancelled, stderrors.CodeOf(err))
	})
}
