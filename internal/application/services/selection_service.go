package services

import (
	"context"

	"github.com/tecnoclick/search-backend/internal/domain/entities"
	"github.com/tecnoclick/search-backend/internal/domain/repositories"
	"github.com/tecnoclick/search-backend/internal/infrastructure/observability"
	apperrors "github.com/tecnoclick/search-backend/pkg/errors"
	"github.com/tecnoclick/search-backend/pkg/textutil"
)

// SelectionService is the feedback half of the search loop: it records click
// events and feeds them back into the relevance index and the correction
// dictionary. Clicks are events, not states, so repeated calls accumulate.
type SelectionService struct {
	ledger      repositories.SearchLedgerRepository
	relevance   repositories.RelevanceRepository
	corrections repositories.CorrectionRepository
	metrics     *observability.Metrics
}

// NewSelectionService creates a new selection service. metrics may be nil.
func NewSelectionService(
	ledger repositories.SearchLedgerRepository,
	relevance repositories.RelevanceRepository,
	corrections repositories.CorrectionRepository,
	metrics *observability.Metrics,
) *SelectionService {
	return &SelectionService{
		ledger:      ledger,
		relevance:   relevance,
		corrections: corrections,
		metrics:     metrics,
	}
}

// RegisterSelection records that the user clicked productKey in the results
// of searchID. It returns (false, nil) when the search id is unknown, writing
// nothing. On success it has, in order: appended the selection row, bumped
// the relevance counter for the folded rewritten phrase (skipped when that
// phrase is empty), and confirmed or proposed corrections for every token
// the rewrite changed.
func (s *SelectionService) RegisterSelection(ctx context.Context, searchID, productKey string) (bool, error) {
	ctx, span := observability.StartSpan(ctx, "SelectionService.RegisterSelection")
	defer span.End()

	search, err := s.ledger.GetSearch(ctx, searchID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	if err := s.ledger.RecordSelection(ctx, &entities.Selection{
		SearchID:   search.ID,
		ProductKey: productKey,
	}); err != nil {
		return false, err
	}

	term := textutil.Fold(search.NormalizedText)
	if term != "" {
		if err := s.relevance.IncrementSelection(ctx, term, productKey); err != nil {
			return false, err
		}
	}

	if err := s.learnCorrections(ctx, search); err != nil {
		return false, err
	}

	if s.metrics != nil {
		s.metrics.SelectionCount.Add(ctx, 1)
	}

	return true, nil
}

// TopSelections returns the most clicked products for a search phrase, most
// clicked first. The phrase is folded the same way search relevance keys are.
func (s *SelectionService) TopSelections(ctx context.Context, phrase string, limit int) ([]*entities.TermProductRelevance, error) {
	term := textutil.Fold(phrase)
	if term == "" {
		return []*entities.TermProductRelevance{}, nil
	}
	return s.relevance.TopForTerm(ctx, term, limit)
}

// learnCorrections zips the folded original tokens against the folded
// rewritten tokens, up to the shorter length, and proposes or confirms a
// correction for every pair the rewrite changed.
func (s *SelectionService) learnCorrections(ctx context.Context, search *entities.SearchQuery) error {
	originalTokens := textutil.Tokenize(search.OriginalText)
	rewrittenTokens := textutil.Tokenize(search.NormalizedText)

	n := len(originalTokens)
	if len(rewrittenTokens) < n {
		n = len(rewrittenTokens)
	}

	for i := 0; i < n; i++ {
		original, rewritten := originalTokens[i], rewrittenTokens[i]
		if original == rewritten || original == "" || rewritten == "" {
			continue
		}
		if err := s.corrections.ProposeOrConfirm(ctx, original, rewritten); err != nil {
			return err
		}
	}

	return nil
}
