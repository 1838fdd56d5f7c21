// internal/catalog/catalog.go
package catalog

import (
	"context"

	"card-advisor/internal/models"
)

// Service is the read-only card lookup collaborator. Search returns cards
// carrying at least one of the given category tags, in catalog insertion
// order. An empty result is valid; implementations never fail the pipeline
// (store errors degrade to an empty result).
type Service interface {
	Search(ctx context.Context, categories []string) []models.CardRecord
}

// Static serves a fixed in-memory catalog.
type Static struct {
	cards []models.CardRecord
}

// NewStatic creates a catalog over the given records. Insertion order is
// preserved and used as the final ranking tie-break.
func NewStatic(cards []models.CardRecord) *Static {
	return &Static{cards: cards}
}

// NewSeeded creates a catalog over the built-in seed data.
func NewSeeded() *Static {
	return NewStatic(SeedCards())
}

func (s *Static) Search(_ context.Context, categories []string) []models.CardRecord {
	var out []models.CardRecord
	for _, card := range s.cards {
		if matchesAny(&card, categories) {
			out = append(out, card)
		}
	}
	return out
}

func matchesAny(card *models.CardRecord, categories []string) bool {
	for _, c := range categories {
		if card.HasCategory(c) {
			return true
		}
	}
	return false
}
