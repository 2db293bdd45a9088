package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/tecnoclick/search-backend/internal/domain/entities"
	"github.com/tecnoclick/search-backend/internal/domain/repositories"
	"github.com/tecnoclick/search-backend/internal/infrastructure/observability"
	apperrors "github.com/tecnoclick/search-backend/pkg/errors"
	"github.com/tecnoclick/search-backend/pkg/textutil"
)

// SearchService runs the search pipeline: normalize the query, rewrite it
// through learned corrections and fuzzy vocabulary matching, retrieve
// candidates from every catalog source, rank them by historical click
// relevance, and record the search with its shown products.
type SearchService struct {
	ledger    repositories.SearchLedgerRepository
	relevance repositories.RelevanceRepository
	rewriter  *RewriteService
	sources   []repositories.CatalogSource
	limit     int
	metrics   *observability.Metrics
}

// NewSearchService creates a new search service. metrics may be nil.
func NewSearchService(
	ledger repositories.SearchLedgerRepository,
	relevance repositories.RelevanceRepository,
	rewriter *RewriteService,
	sources []repositories.CatalogSource,
	resultLimit int,
	metrics *observability.Metrics,
) *SearchService {
	return &SearchService{
		ledger:    ledger,
		relevance: relevance,
		rewriter:  rewriter,
		sources:   sources,
		limit:     resultLimit,
		metrics:   metrics,
	}
}

// Search executes one search. A query that normalizes to the empty string is
// a valid no-op: it returns the sentinel result without touching the ledger.
// The search row and its shown products are durably recorded before the
// result is returned, so feedback calls can rely on the search id resolving.
func (s *SearchService) Search(ctx context.Context, query, sessionID, userID string) (*entities.SearchResult, error) {
	ctx, span := observability.StartSpan(ctx, "SearchService.Search")
	defer span.End()
	start := time.Now()

	original := textutil.Normalize(query)
	if original == "" {
		return &entities.SearchResult{
			SearchID:     "",
			OriginalText: query,
			Products:     []*entities.Product{},
		}, nil
	}

	rewritten, err := s.rewriter.Rewrite(ctx, textutil.Tokenize(original))
	if err != nil {
		return nil, err
	}
	normalizedText := strings.Join(rewritten, " ")
	correctionApplied := textutil.Fold(original) != textutil.Fold(normalizedText)

	products, err := s.retrieve(ctx, normalizedText)
	if err != nil {
		return nil, err
	}

	shownKeys := make([]string, len(products))
	for i, p := range products {
		shownKeys[i] = p.Key
	}

	search := &entities.SearchQuery{
		OriginalText:   original,
		NormalizedText: normalizedText,
		SessionID:      sessionID,
		UserID:         userID,
	}
	if err := s.ledger.RecordSearch(ctx, search, shownKeys); err != nil {
		return nil, err
	}

	s.recordMetrics(ctx, correctionApplied, len(products), time.Since(start))

	return &entities.SearchResult{
		SearchID:          search.ID,
		OriginalText:      original,
		NormalizedText:    normalizedText,
		CorrectionApplied: correctionApplied,
		Products:          products,
	}, nil
}

// EnsureCatalogAvailable fails with an unavailable error when no catalog
// source is reachable and populated. Searching an empty catalog is pointless
// and the caller should signal the condition distinctly from "no results".
func (s *SearchService) EnsureCatalogAvailable(ctx context.Context) error {
	for _, src := range s.sources {
		ok, err := src.HasProducts(ctx)
		if err != nil {
			return apperrors.NewUnavailableError(fmt.Sprintf("catalog source %s unreachable: %v", src.Name(), err))
		}
		if ok {
			return nil
		}
	}
	return apperrors.NewUnavailableError("no catalog source has products")
}

// retrieve queries every catalog source with the rewritten tokens, merges and
// dedups the candidates by product key, and ranks them by the click counter
// learned for the whole folded phrase. Products without a counter keep their
// source order after the ranked ones.
func (s *SearchService) retrieve(ctx context.Context, normalizedText string) ([]*entities.Product, error) {
	term := textutil.Fold(normalizedText)
	if term == "" {
		return []*entities.Product{}, nil
	}
	tokens := strings.Fields(term)

	var candidates []*entities.Product
	seen := make(map[string]struct{})
	for _, src := range s.sources {
		found, err := src.SearchAllTokens(ctx, tokens, s.limit)
		if err != nil {
			return nil, err
		}
		for _, p := range found {
			if _, ok := seen[p.Key]; ok {
				continue
			}
			seen[p.Key] = struct{}{}
			candidates = append(candidates, p)
		}
	}

	if len(candidates) == 0 {
		return []*entities.Product{}, nil
	}

	keys := make([]string, len(candidates))
	for i, p := range candidates {
		keys[i] = p.Key
	}

	counters, err := s.relevance.CountersForTerm(ctx, term, keys)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return counters[candidates[i].Key] > counters[candidates[j].Key]
	})

	if len(candidates) > s.limit {
		candidates = candidates[:s.limit]
	}

	return candidates, nil
}

func (s *SearchService) recordMetrics(ctx context.Context, correctionApplied bool, resultCount int, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}

	s.metrics.SearchCount.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("correction_applied", correctionApplied),
	))
	s.metrics.SearchDuration.Record(ctx, float64(elapsed.Milliseconds()))
	if correctionApplied {
		s.metrics.CorrectionsApplied.Add(ctx, 1)
	}
	if resultCount == 0 {
		s.metrics.ZeroResultCount.Add(ctx, 1)
	}
}
