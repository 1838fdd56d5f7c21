// internal/services/search/search.go

// Package search looks up card offers outside the curated catalog. It backs
// the fallback path taken when a manager finds nothing locally.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"card-advisor/internal/common/config"
	"card-advisor/internal/common/logger"
	"card-advisor/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var (
	ErrSearchFailed  = errors.New("SEARCH_FAILED")
	ErrSearchTimeout = errors.New("SEARCH_TIMEOUT")
)

// OnlineSearch finds card offers matching the given manager categories.
type OnlineSearch interface {
	Search(ctx context.Context, categories []string, constraints []string) ([]models.CardRecord, error)
}

// Elastic queries the offers index.
type Elastic struct {
	client *elasticsearch.Client
	index  string
	config config.SearchConfig
	logger logger.Logger
}

func NewElastic(client *elasticsearch.Client, index string, cfg config.SearchConfig, log logger.Logger) *Elastic {
	return &Elastic{
		client: client,
		index:  index,
		config: cfg,
		logger: log.WithFields(map[string]interface{}{"service": "search"}),
	}
}

func (e *Elastic) Search(ctx context.Context, categories []string, constraints []string) ([]models.CardRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(e.config.TimeoutMs)*time.Millisecond)
	defer cancel()

	body, _ := json.Marshal(buildOfferQuery(categories, constraints))
	size := e.config.MaxResults

	req := esapi.SearchRequest{
		Index: []string{e.index},
		Body:  strings.NewReader(string(body)),
		Size:  &size,
	}

	res, err := req.Do(ctx, e.client)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrSearchTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: status %s", ErrSearchFailed, res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source models.CardRecord `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrSearchFailed, err)
	}

	cards := make([]models.CardRecord, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		cards = append(cards, hit.Source)
	}

	e.logger.Info("online search completed", map[string]interface{}{
		"categories": categories,
		"hits":       len(cards),
	})
	return cards, nil
}

// buildOfferQuery matches offers by category and boosts constraint phrases
// without requiring them.
func buildOfferQuery(categories []string, constraints []string) map[string]interface{} {
	boolQuery := map[string]interface{}{
		"filter": []interface{}{
			map[string]interface{}{
				"terms": map[string]interface{}{"categories": categories},
			},
		},
	}

	var should []interface{}
	for _, c := range constraints {
		should = append(should, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  c,
				"fields": []string{"name^2", "pros", "rewardsRate"},
				"type":   "best_fields",
			},
		})
	}
	if len(should) > 0 {
		boolQuery["should"] = should
	}

	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
	}
}
