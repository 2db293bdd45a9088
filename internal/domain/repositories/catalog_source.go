package repositories

import (
	"context"

	"github.com/tecnoclick/search-backend/internal/domain/entities"
)

// CatalogSource is one product table the search engine can retrieve from.
// The primary (synced) catalog and the manually maintained one expose the
// same capabilities; callers iterate over a configured list of sources
// instead of addressing either directly.
type CatalogSource interface {
	// Name identifies the source ("cva", "manual") and is stamped onto
	// returned products.
	Name() string

	// SearchAllTokens returns up to limit products where every token appears
	// as a case-insensitive substring of at least one of description, group,
	// subgroup or brand. Sources without a subgroup column match on the
	// remaining fields.
	SearchAllTokens(ctx context.Context, tokens []string, limit int) ([]*entities.Product, error)

	// DistinctGroups, DistinctSubgroups and DistinctBrands list the non-empty
	// distinct values of the respective column, for vocabulary computation.
	DistinctGroups(ctx context.Context) ([]string, error)
	DistinctSubgroups(ctx context.Context) ([]string, error)
	DistinctBrands(ctx context.Context) ([]string, error)

	// HasProducts reports whether the source has any visible products at all.
	HasProducts(ctx context.Context) (bool, error)
}
