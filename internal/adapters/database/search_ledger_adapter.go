package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tecnoclick/search-backend/internal/domain/entities"
	"github.com/tecnoclick/search-backend/internal/domain/repositories"
	"github.com/tecnoclick/search-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/tecnoclick/search-backend/pkg/errors"
)

// SearchLedgerAdapter implements SearchLedgerRepository on PostgreSQL.
type SearchLedgerAdapter struct {
	client *postgres.Client
}

// NewSearchLedgerAdapter creates a new search ledger adapter
func NewSearchLedgerAdapter(client *postgres.Client) repositories.SearchLedgerRepository {
	return &SearchLedgerAdapter{client: client}
}

// RecordSearch writes the search row and its shown-product rows in one
// transaction. Rolling back on any failure keeps partial ledgers from ever
// being observable.
func (a *SearchLedgerAdapter) RecordSearch(ctx context.Context, search *entities.SearchQuery, shownKeys []string) error {
	if search.ID == "" {
		search.ID = uuid.New().String()
	}
	if search.CreatedAt.IsZero() {
		search.CreatedAt = time.Now().UTC()
	}

	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return apperrors.NewInternalError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO searches (id, original_text, normalized_text, session_id, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		search.ID,
		search.OriginalText,
		search.NormalizedText,
		nullString(search.SessionID),
		nullString(search.UserID),
		search.CreatedAt,
	)
	if err != nil {
		return apperrors.NewInternalError("failed to create search", err)
	}

	for i, key := range shownKeys {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO shown_products (id, search_id, product_key, position, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`,
			uuid.New().String(),
			search.ID,
			key,
			i+1,
			search.CreatedAt,
		)
		if err != nil {
			return apperrors.NewInternalError("failed to record shown product", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit search record", err)
	}

	return nil
}

// GetSearch retrieves a search by ID
func (a *SearchLedgerAdapter) GetSearch(ctx context.Context, id string) (*entities.SearchQuery, error) {
	query := `
		SELECT id, original_text, normalized_text, session_id, user_id, created_at
		FROM searches
		WHERE id = $1
	`

	search := &entities.SearchQuery{}
	var sessionID, userID sql.NullString

	err := a.client.DB().QueryRowContext(ctx, query, id).Scan(
		&search.ID,
		&search.OriginalText,
		&search.NormalizedText,
		&sessionID,
		&userID,
		&search.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("search with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get search", err)
	}

	search.SessionID = sessionID.String
	search.UserID = userID.String

	return search, nil
}

// RecordSelection appends a click event row.
func (a *SearchLedgerAdapter) RecordSelection(ctx context.Context, selection *entities.Selection) error {
	if selection.ID == "" {
		selection.ID = uuid.New().String()
	}
	if selection.CreatedAt.IsZero() {
		selection.CreatedAt = time.Now().UTC()
	}

	_, err := a.client.DB().ExecContext(ctx, `
		INSERT INTO selections (id, search_id, product_key, created_at)
		VALUES ($1, $2, $3, $4)
	`,
		selection.ID,
		selection.SearchID,
		selection.ProductKey,
		selection.CreatedAt,
	)
	if err != nil {
		return apperrors.NewInternalError("failed to record selection", err)
	}

	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
