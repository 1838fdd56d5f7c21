// internal/services/llm/llm_test.go
package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"card-advisor/internal/common/config"
	"card-advisor/internal/common/logger"
	"card-advisor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func httpConfig(baseURL string) config.LLMConfig {
	return config.LLMConfig{
		Mode:       "http",
		BaseURL:    baseURL,
		Model:      "gpt-4o-mini",
		TimeoutMs:  2000,
		MaxRetries: 2,
	}
}

func TestHTTPClientExtract(t *testing.T) {
	t.Run("successful extraction is normalized", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/extract", r.URL.Path)
			w.Write([]byte(`{
				"goals": ["Flights", "money", "flights"],
				"riskTolerance": "LOW",
				"timeHorizon": "long_term",
				"constraints": ["no annual fee"],
				"confidence": 0.93
			}`))
		}))
		defer server.Close()

		client := NewHTTPClient(httpConfig(server.URL), logger.NewTestLogger(t))
		out, err := client.Extract(context.Background(), "flights and money")
		require.NoError(t, err)

		assert.Equal(t, []string{"travel", "cashback"}, out.Goals)
		assert.Equal(t, string(models.RiskConservative), out.RiskTolerance)
		assert.Equal(t, string(models.HorizonLong), out.TimeHorizon)
		assert.Equal(t, []string{"no annual fee"}, out.Constraints)
		assert.Equal(t, ConfidenceModel, out.Confidence)
	})

	t.Run("retries transient server errors", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.Write([]byte(`{"goals": ["travel"], "riskTolerance": "standard", "timeHorizon": "12m"}`))
		}))
		defer server.Close()

		client := NewHTTPClient(httpConfig(server.URL), logger.NewTestLogger(t))
		out, err := client.Extract(context.Background(), "travel card")
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Equal(t, []string{"travel"}, out.Goals)
	})

	t.Run("invalid payload fails extraction", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"goals": "not-a-list"}`))
		}))
		defer server.Close()

		client := NewHTTPClient(httpConfig(server.URL), logger.NewTestLogger(t))
		_, err := client.Extract(context.Background(), "whatever")
		assert.ErrorIs(t, err, ErrExtractionFailed)
	})

	t.Run("cancelled context reports timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		client := NewHTTPClient(httpConfig(server.URL), logger.NewTestLogger(t))
		_, err := client.Extract(ctx, "whatever")
		assert.ErrorIs(t, err, ErrExtractionTimeout)
	})
}

func TestKeywordClientExtract(t *testing.T) {
	client := NewKeywordClient(logger.NewTestLogger(t))

	tests := []struct {
		name            string
		text            string
		wantGoals       []string
		wantRisk        string
		wantHorizon     string
		wantConstraints []string
	}{
		{
			name:        "travel query",
			text:        "I want a card for airline miles and hotel stays",
			wantGoals:   []string{"travel"},
			wantRisk:    string(models.RiskStandard),
			wantHorizon: string(models.HorizonStandard),
		},
		{
			name:            "cashback with constraints",
			text:            "Cashback card with no annual fee for international use",
			wantGoals:       []string{"cashback"},
			wantRisk:        string(models.RiskStandard),
			wantHorizon:     string(models.HorizonStandard),
			wantConstraints: []string{"no annual fee", "international"},
		},
		{
			name:        "risk and horizon phrases",
			text:        "something safe for the long term with cash back",
			wantGoals:   []string{"cashback"},
			wantRisk:    string(models.RiskConservative),
			wantHorizon: string(models.HorizonLong),
		},
		{
			name:        "multiple goal families in registry order",
			text:        "student card that earns miles",
			wantGoals:   []string{"travel", "student"},
			wantRisk:    string(models.RiskStandard),
			wantHorizon: string(models.HorizonStandard),
		},
		{
			name:        "no matches yields no goals",
			text:        "hello there",
			wantGoals:   nil,
			wantRisk:    string(models.RiskStandard),
			wantHorizon: string(models.HorizonStandard),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := client.Extract(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.wantGoals, out.Goals)
			assert.Equal(t, tt.wantRisk, out.RiskTolerance)
			assert.Equal(t, tt.wantHorizon, out.TimeHorizon)
			assert.Equal(t, tt.wantConstraints, out.Constraints)
			assert.Equal(t, ConfidenceKeyword, out.Confidence)
		})
	}
}

func TestNormalizeGoals(t *testing.T) {
	got := NormalizeGoals([]string{"College", " money ", "miles", "money", ""})
	assert.Equal(t, []string{"student", "cashback", "miles"}, got)
}
