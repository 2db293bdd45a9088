package services

import (
	"context"

	"github.com/tecnoclick/search-backend/internal/domain/repositories"
	apperrors "github.com/tecnoclick/search-backend/pkg/errors"
	"github.com/tecnoclick/search-backend/pkg/textutil"
)

// RewriteService rewrites folded query tokens using the learned-correction
// dictionary first and fuzzy similarity against the known vocabulary as a
// fallback. Given a fixed dictionary and vocabulary snapshot the rewrite is
// fully deterministic.
type RewriteService struct {
	corrections   repositories.CorrectionRepository
	vocabulary    *VocabularyService
	threshold     int
	minSimilarity float64
}

// NewRewriteService creates a new rewrite service
func NewRewriteService(corrections repositories.CorrectionRepository, vocabulary *VocabularyService, confirmationThreshold int, minSimilarityPercent float64) *RewriteService {
	return &RewriteService{
		corrections:   corrections,
		vocabulary:    vocabulary,
		threshold:     confirmationThreshold,
		minSimilarity: minSimilarityPercent,
	}
}

// Rewrite maps each folded token to its best correction, keeping tokens that
// have none. Tokens shorter than two bytes are never rewritten.
func (s *RewriteService) Rewrite(ctx context.Context, tokens []string) ([]string, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	// the vocabulary is fetched at most once per rewrite call
	var known []string
	loaded := false

	rewritten := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if token == "" {
			continue
		}

		best, err := s.bestCorrection(ctx, token, func() ([]string, error) {
			if !loaded {
				terms, err := s.vocabulary.KnownTerms(ctx)
				if err != nil {
					return nil, err
				}
				known = terms
				loaded = true
			}
			return known, nil
		})
		if err != nil {
			return nil, err
		}

		if best != "" {
			rewritten = append(rewritten, best)
		} else {
			rewritten = append(rewritten, token)
		}
	}

	return rewritten, nil
}

// bestCorrection returns the replacement for a token, or "" to keep it. A
// trusted learned correction wins outright; otherwise the highest-scoring
// known term at or above the similarity floor is chosen, with ties broken in
// favor of the term seen first.
func (s *RewriteService) bestCorrection(ctx context.Context, token string, knownTerms func() ([]string, error)) (string, error) {
	if len(token) < 2 {
		return "", nil
	}

	correction, err := s.corrections.FindTrusted(ctx, token, s.threshold)
	if err == nil {
		return correction.CorrectedTerm, nil
	}
	if !apperrors.IsNotFound(err) {
		return "", err
	}

	terms, err := knownTerms()
	if err != nil {
		return "", err
	}

	best := ""
	bestPercent := 0.0
	for _, term := range terms {
		if term == "" {
			continue
		}
		percent := textutil.SimilarityPercent(token, term)
		if percent >= s.minSimilarity && percent > bestPercent {
			bestPercent = percent
			best = term
		}
	}

	return best, nil
}
