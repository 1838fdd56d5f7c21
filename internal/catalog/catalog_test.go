// internal/catalog/catalog_test.go
package catalog

import (
	"context"
	"testing"

	"card-advisor/internal/common/logger"
	"card-advisor/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticSearch(t *testing.T) {
	svc := NewSeeded()

	tests := []struct {
		name       string
		categories []string
		wantIDs    []string
	}{
		{
			name:       "travel category",
			categories: []string{models.CategoryTravel},
			wantIDs:    []string{"travel_001", "travel_002"},
		},
		{
			name:       "general matches shared tags",
			categories: []string{models.CategoryGeneral},
			wantIDs:    []string{"student_001", "general_001"},
		},
		{
			name:       "multiple categories preserve insertion order",
			categories: []string{models.CategoryCashback, models.CategoryStudent},
			wantIDs:    []string{"cashback_001", "cashback_002", "student_001"},
		},
		{
			name:       "unknown category",
			categories: []string{"crypto"},
			wantIDs:    nil,
		},
		{
			name:       "no categories",
			categories: nil,
			wantIDs:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards := svc.Search(context.Background(), tt.categories)
			var ids []string
			for _, c := range cards {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestStoreSearch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db, logger.NewTestLogger(t))

	t.Run("returns scanned cards", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{
			"id", "name", "issuer", "categories", "annual_fee", "rewards_rate",
			"signup_bonus", "min_credit_score", "pros", "cons",
		}).AddRow(
			"travel_001", "KrisFlyer Card", "DBS Bank",
			pq.Array([]string{"travel"}), 192.60, "1.2 miles per S$1",
			"15,000 miles", "excellent",
			pq.Array([]string{"High miles earning"}), pq.Array([]string{"High annual fee"}),
		)
		mock.ExpectQuery("SELECT id, name, issuer").
			WithArgs(pq.Array([]string{"travel"})).
			WillReturnRows(rows)

		cards := store.Search(context.Background(), []string{"travel"})
		require.Len(t, cards, 1)
		assert.Equal(t, "travel_001", cards[0].ID)
		assert.Equal(t, []string{"travel"}, cards[0].Categories)
		assert.InDelta(t, 192.60, cards[0].AnnualFee, 0.001)
	})

	t.Run("query error degrades to empty", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, name, issuer").
			WillReturnError(assert.AnError)

		cards := store.Search(context.Background(), []string{"travel"})
		assert.Empty(t, cards)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedSearch(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	inner := NewSeeded()
	cached := NewCached(inner, client, logger.NewTestLogger(t))
	ctx := context.Background()

	first := cached.Search(ctx, []string{models.CategoryTravel})
	require.Len(t, first, 2)

	// Second lookup must come from the cache.
	assert.True(t, mr.Exists(cacheKeyPrefix+"travel"))
	second := cached.Search(ctx, []string{models.CategoryTravel})
	assert.Equal(t, first, second)

	// Key is order-insensitive.
	cached.Search(ctx, []string{models.CategoryGeneral, models.CategoryTravel})
	assert.True(t, mr.Exists(cacheKeyPrefix+"general,travel"))

	// A dead cache still serves from the inner catalog.
	mr.Close()
	degraded := cached.Search(ctx, []string{models.CategoryCashback})
	assert.Len(t, degraded, 2)
}

func TestCachedSearchReadFailure(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cached := NewCached(NewSeeded(), client, logger.NewTestLogger(t))

	// A cache read error falls through to the inner catalog; the write
	// failure afterwards is logged and swallowed.
	mock.ExpectGet(cacheKeyPrefix + "travel").SetErr(assert.AnError)
	mock.Regexp().ExpectSet(cacheKeyPrefix+"travel", `.*`, cacheTTL).SetErr(assert.AnError)

	cards := cached.Search(context.Background(), []string{models.CategoryTravel})
	assert.Len(t, cards, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
