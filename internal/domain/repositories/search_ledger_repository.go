package repositories

import (
	"context"

	"github.com/tecnoclick/search-backend/internal/domain/entities"
)

// SearchLedgerRepository persists search events, the products shown for them
// and the clicks reported afterwards.
type SearchLedgerRepository interface {
	// RecordSearch persists the search row and one shown-product row per key,
	// positions 1..N in slice order, in a single transaction. The search row
	// is written before the shown rows; feedback calls rely on it existing
	// by the time the caller sees the result.
	RecordSearch(ctx context.Context, search *entities.SearchQuery, shownKeys []string) error

	// GetSearch returns the search with the given id, or a not found error.
	GetSearch(ctx context.Context, id string) (*entities.SearchQuery, error)

	// RecordSelection appends a click event. No uniqueness is enforced;
	// repeated clicks accumulate.
	RecordSelection(ctx context.Context, selection *entities.Selection) error
}
