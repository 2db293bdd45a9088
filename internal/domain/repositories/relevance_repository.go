package repositories

import (
	"context"

	"github.com/tecnoclick/search-backend/internal/domain/entities"
)

// RelevanceRepository stores per-(normalized term, product) click counters.
type RelevanceRepository interface {
	// IncrementSelection bumps the counter for the pair by one, creating the
	// row if absent. Concurrent calls on the same pair must not lose
	// increments.
	IncrementSelection(ctx context.Context, normalizedTerm, productKey string) error

	// CountersForTerm returns the counters for the given term across the
	// given product keys. Keys with no row are simply absent from the map.
	CountersForTerm(ctx context.Context, normalizedTerm string, productKeys []string) (map[string]int, error)

	// TopForTerm returns the most clicked products for a term, for analytics.
	TopForTerm(ctx context.Context, normalizedTerm string, limit int) ([]*entities.TermProductRelevance, error)
}
