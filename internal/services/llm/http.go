// internal/services/llm/http.go
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"card-advisor/internal/common/config"
	"card-advisor/internal/common/logger"
)

var (
	ErrExtractionFailed  = errors.New("EXTRACTION_FAILED")
	ErrExtractionTimeout = errors.New("EXTRACTION_TIMEOUT")
)

// HTTPClient calls the extraction API. Transient failures are retried with
// exponential backoff inside the configured timeout; a deadline hit is
// reported as a timeout so the caller can fall back.
type HTTPClient struct {
	config config.LLMConfig
	client *http.Client
	logger logger.Logger
}

func NewHTTPClient(cfg config.LLMConfig, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMs) * time.Millisecond,
		},
		logger: log.WithFields(map[string]interface{}{"service": "llm"}),
	}
}

func (c *HTTPClient) Extract(ctx context.Context, text string) (*Extraction, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.config.TimeoutMs)*time.Millisecond)
	defer cancel()

	requestBody := map[string]interface{}{
		"model": c.config.Model,
		"query": text,
	}
	body, _ := json.Marshal(requestBody)

	var payload []byte
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ErrExtractionTimeout
			}
		}

		payload, lastErr = c.doRequest(ctx, body)
		if ctx.Err() != nil ||
			errors.Is(lastErr, context.DeadlineExceeded) ||
			errors.Is(lastErr, context.Canceled) {
			return nil, ErrExtractionTimeout
		}
		if lastErr == nil {
			break
		}
		c.logger.Warn("extraction attempt failed", map[string]interface{}{
			"attempt": attempt + 1,
			"error":   lastErr.Error(),
		})
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, lastErr)
	}

	if err := validateExtraction(payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	var raw Extraction
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrExtractionFailed, err)
	}

	out := &Extraction{
		Goals:         NormalizeGoals(raw.Goals),
		RiskTolerance: normalizeRisk(raw.RiskTolerance),
		TimeHorizon:   normalizeHorizon(raw.TimeHorizon),
		Jurisdiction:  raw.Jurisdiction,
		Constraints:   raw.Constraints,
		Confidence:    ConfidenceModel,
	}

	c.logger.Info("extraction succeeded", map[string]interface{}{
		"goals":       out.Goals,
		"confidence":  out.Confidence,
		"constraints": len(out.Constraints),
	})
	return out, nil
}

func (c *HTTPClient) doRequest(ctx context.Context, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/v1/extract", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
