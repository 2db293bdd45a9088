package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/tecnoclick/search-backend/internal/domain/entities"
	"github.com/tecnoclick/search-backend/internal/domain/repositories"
	"github.com/tecnoclick/search-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/tecnoclick/search-backend/pkg/errors"
)

// CorrectionAdapter implements CorrectionRepository on PostgreSQL.
type CorrectionAdapter struct {
	client *postgres.Client
}

// NewCorrectionAdapter creates a new correction adapter
func NewCorrectionAdapter(client *postgres.Client) repositories.CorrectionRepository {
	return &CorrectionAdapter{client: client}
}

// FindTrusted returns the correction for originalTerm once it has reached the
// confirmation threshold.
func (a *CorrectionAdapter) FindTrusted(ctx context.Context, originalTerm string, minConfirmations int) (*entities.LearnedCorrection, error) {
	query := `
		SELECT id, original_term, corrected_term, confirmations, last_confirmed_at, created_at
		FROM learned_corrections
		WHERE original_term = $1 AND confirmations >= $2
	`

	correction := &entities.LearnedCorrection{}
	var lastConfirmed sql.NullTime

	err := a.client.DB().QueryRowContext(ctx, query, originalTerm, minConfirmations).Scan(
		&correction.ID,
		&correction.OriginalTerm,
		&correction.CorrectedTerm,
		&correction.Confirmations,
		&lastConfirmed,
		&correction.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no trusted correction for term %q", originalTerm))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to look up correction", err)
	}

	if lastConfirmed.Valid {
		correction.LastConfirmedAt = &lastConfirmed.Time
	}

	return correction, nil
}

// ProposeOrConfirm inserts the mapping with one confirmation, or increments
// the confirmation count when the stored corrected term matches. The
// conditional ON CONFLICT update keeps the first-write-wins invariant and the
// per-term atomicity in a single statement: a conflicting row with a
// different corrected term is left untouched.
func (a *CorrectionAdapter) ProposeOrConfirm(ctx context.Context, originalTerm, correctedTerm string) error {
	query := `
		INSERT INTO learned_corrections (id, original_term, corrected_term, confirmations, last_confirmed_at, created_at)
		VALUES ($1, $2, $3, 1, now(), now())
		ON CONFLICT (original_term) DO UPDATE
		SET confirmations = learned_corrections.confirmations + 1,
		    last_confirmed_at = now()
		WHERE learned_corrections.corrected_term = EXCLUDED.corrected_term
	`

	_, err := a.client.DB().ExecContext(ctx, query, uuid.New().String(), originalTerm, correctedTerm)
	if err != nil {
		return apperrors.NewInternalError("failed to propose or confirm correction", err)
	}

	return nil
}
