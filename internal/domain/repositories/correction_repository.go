package repositories

import (
	"context"

	"github.com/tecnoclick/search-backend/internal/domain/entities"
)

// CorrectionRepository stores learned spelling corrections.
type CorrectionRepository interface {
	// FindTrusted returns the correction for originalTerm if it has at least
	// minConfirmations confirmations, or a not found error.
	FindTrusted(ctx context.Context, originalTerm string, minConfirmations int) (*entities.LearnedCorrection, error)

	// ProposeOrConfirm records that a search which rewrote originalTerm to
	// correctedTerm led to a click. If no mapping exists one is created with
	// a single confirmation; if one exists with the same corrected term its
	// confirmation count is incremented; a mapping with a different corrected
	// term is left untouched. Must be atomic per originalTerm.
	ProposeOrConfirm(ctx context.Context, originalTerm, correctedTerm string) error
}
