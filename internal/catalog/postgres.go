// internal/catalog/postgres.go
package catalog

import (
	"context"
	"database/sql"

	"card-advisor/internal/common/logger"
	"card-advisor/internal/models"

	"github.com/lib/pq"
)

const searchQuery = `
SELECT id, name, issuer, categories, annual_fee, rewards_rate,
       signup_bonus, min_credit_score, pros, cons
FROM card_offers
WHERE categories && $1
ORDER BY position ASC`

// Store reads the catalog from PostgreSQL. Query failures are logged and
// degrade to an empty result so a broken store never fails a session.
type Store struct {
	db     *sql.DB
	logger logger.Logger
}

func NewStore(db *sql.DB, log logger.Logger) *Store {
	return &Store{db: db, logger: log}
}

func (s *Store) Search(ctx context.Context, categories []string) []models.CardRecord {
	rows, err := s.db.QueryContext(ctx, searchQuery, pq.Array(categories))
	if err != nil {
		s.logger.Error("catalog query failed", map[string]interface{}{
			"error":      err.Error(),
			"categories": categories,
		})
		return nil
	}
	defer rows.Close()

	var out []models.CardRecord
	for rows.Next() {
		var card models.CardRecord
		err := rows.Scan(
			&card.ID, &card.Name, &card.Issuer, pq.Array(&card.Categories),
			&card.AnnualFee, &card.RewardsRate, &card.SignupBonus,
			&card.MinCreditScore, pq.Array(&card.Pros), pq.Array(&card.Cons),
		)
		if err != nil {
			s.logger.Error("catalog row scan failed", map[string]interface{}{"error": err.Error()})
			return nil
		}
		out = append(out, card)
	}
	if err := rows.Err(); err != nil {
		s.logger.Error("catalog rows failed", map[string]interface{}{"error": err.Error()})
		return nil
	}
	return out
}
