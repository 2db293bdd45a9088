package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/tecnoclick/search-backend/internal/domain/entities"
	"github.com/tecnoclick/search-backend/internal/domain/repositories"
	"github.com/tecnoclick/search-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/tecnoclick/search-backend/pkg/errors"
)

// RelevanceAdapter implements RelevanceRepository on PostgreSQL.
type RelevanceAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewRelevanceAdapter creates a new relevance adapter
func NewRelevanceAdapter(client *postgres.Client) repositories.RelevanceRepository {
	return &RelevanceAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// IncrementSelection bumps the click counter for a (term, product) pair. The
// upsert increments in-place so concurrent selections never lose counts.
func (a *RelevanceAdapter) IncrementSelection(ctx context.Context, normalizedTerm, productKey string) error {
	query := `
		INSERT INTO term_product_relevance (id, normalized_term, product_key, times_selected, last_selected_at)
		VALUES ($1, $2, $3, 1, now())
		ON CONFLICT (normalized_term, product_key) DO UPDATE
		SET times_selected = term_product_relevance.times_selected + 1,
		    last_selected_at = now()
	`

	_, err := a.client.DB().ExecContext(ctx, query, uuid.New().String(), normalizedTerm, productKey)
	if err != nil {
		return apperrors.NewInternalError("failed to increment relevance", err)
	}

	return nil
}

// CountersForTerm fetches the click counters for a term across candidate
// product keys.
func (a *RelevanceAdapter) CountersForTerm(ctx context.Context, normalizedTerm string, productKeys []string) (map[string]int, error) {
	counters := make(map[string]int, len(productKeys))
	if len(productKeys) == 0 {
		return counters, nil
	}

	query, args, err := a.db.Select("product_key", "times_selected").
		From("term_product_relevance").
		Where(goqu.Ex{
			"normalized_term": normalizedTerm,
			"product_key":     productKeys,
		}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build relevance query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to fetch relevance counters", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, apperrors.NewInternalError("failed to scan relevance counter", err)
		}
		counters[key] = count
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read relevance counters", err)
	}

	return counters, nil
}

// TopForTerm returns the most clicked products for a term.
func (a *RelevanceAdapter) TopForTerm(ctx context.Context, normalizedTerm string, limit int) ([]*entities.TermProductRelevance, error) {
	if limit <= 0 {
		limit = 10
	}

	query, args, err := a.db.Select("id", "normalized_term", "product_key", "times_selected", "last_selected_at").
		From("term_product_relevance").
		Where(goqu.Ex{"normalized_term": normalizedTerm}).
		Order(goqu.C("times_selected").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build top relevance query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to fetch top relevance", err)
	}
	defer rows.Close()

	var results []*entities.TermProductRelevance
	for rows.Next() {
		r := &entities.TermProductRelevance{}
		var lastSelected sql.NullTime
		if err := rows.Scan(&r.ID, &r.NormalizedTerm, &r.ProductKey, &r.TimesSelected, &lastSelected); err != nil {
			return nil, apperrors.NewInternalError("failed to scan relevance row", err)
		}
		if lastSelected.Valid {
			r.LastSelectedAt = &lastSelected.Time
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read top relevance", err)
	}

	return results, nil
}
