package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tecnoclick/search-backend/internal/domain/providers"
	"github.com/tecnoclick/search-backend/internal/domain/repositories"
	"github.com/tecnoclick/search-backend/internal/infrastructure/observability"
	"github.com/tecnoclick/search-backend/pkg/textutil"
)

const vocabularyCacheKey = "search:known_terms"

// VocabularyService maintains the known-terms vocabulary: the folded,
// deduplicated group, subgroup and brand names across all catalog sources.
// Terms keep their first-seen order because fuzzy matching breaks ties in
// favor of earlier terms.
//
// The in-process snapshot is replaced wholesale under the lock, never mutated,
// so readers always see a complete vocabulary. When a refresh fails but a
// stale snapshot exists, the stale one is served rather than failing the
// search.
type VocabularyService struct {
	sources []repositories.CatalogSource
	cache   providers.CacheProvider
	ttl     time.Duration
	metrics *observability.Metrics

	mu        sync.RWMutex
	snapshot  []string
	expiresAt time.Time
}

// NewVocabularyService creates a vocabulary service over the given catalog
// sources. cache and metrics may be nil.
func NewVocabularyService(sources []repositories.CatalogSource, cache providers.CacheProvider, ttlSeconds int, metrics *observability.Metrics) *VocabularyService {
	return &VocabularyService{
		sources: sources,
		cache:   cache,
		ttl:     time.Duration(ttlSeconds) * time.Second,
		metrics: metrics,
	}
}

// KnownTerms returns the current vocabulary, recomputing it when the TTL has
// passed. Callers must not mutate the returned slice.
func (s *VocabularyService) KnownTerms(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	if s.snapshot != nil && time.Now().Before(s.expiresAt) {
		terms := s.snapshot
		s.mu.RUnlock()
		s.countCacheHit(ctx)
		return terms, nil
	}
	stale := s.snapshot
	s.mu.RUnlock()

	s.countCacheMiss(ctx)

	terms, err := s.load(ctx)
	if err != nil {
		if stale != nil {
			log.Warn().Err(err).Msg("vocabulary refresh failed, serving stale snapshot")
			return stale, nil
		}
		return nil, err
	}

	s.mu.Lock()
	s.snapshot = terms
	s.expiresAt = time.Now().Add(s.ttl)
	s.mu.Unlock()

	return terms, nil
}

// Invalidate drops the snapshot and the shared cache entry. The catalog sync
// triggers this whenever group or brand membership changes.
func (s *VocabularyService) Invalidate(ctx context.Context) {
	s.mu.Lock()
	s.snapshot = nil
	s.expiresAt = time.Time{}
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.Delete(ctx, vocabularyCacheKey); err != nil {
			log.Warn().Err(err).Msg("failed to drop vocabulary cache entry")
		}
	}
}

func (s *VocabularyService) load(ctx context.Context) ([]string, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, vocabularyCacheKey); err == nil {
			var terms []string
			if err := json.Unmarshal(data, &terms); err == nil {
				return terms, nil
			}
			log.Warn().Err(err).Msg("discarding malformed vocabulary cache entry")
		}
	}

	terms, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(terms); err == nil {
			if err := s.cache.Set(ctx, vocabularyCacheKey, data, int(s.ttl.Seconds())); err != nil {
				log.Warn().Err(err).Msg("failed to store vocabulary in cache")
			}
		}
	}

	return terms, nil
}

// compute gathers group names from every source, then subgroups, then brands,
// folding each value and keeping the first occurrence of duplicates.
func (s *VocabularyService) compute(ctx context.Context) ([]string, error) {
	var terms []string
	seen := make(map[string]struct{})

	add := func(values []string) {
		for _, v := range values {
			folded := textutil.Fold(v)
			if folded == "" {
				continue
			}
			if _, ok := seen[folded]; ok {
				continue
			}
			seen[folded] = struct{}{}
			terms = append(terms, folded)
		}
	}

	fields := []func(repositories.CatalogSource) ([]string, error){
		func(src repositories.CatalogSource) ([]string, error) { return src.DistinctGroups(ctx) },
		func(src repositories.CatalogSource) ([]string, error) { return src.DistinctSubgroups(ctx) },
		func(src repositories.CatalogSource) ([]string, error) { return src.DistinctBrands(ctx) },
	}

	for _, field := range fields {
		for _, src := range s.sources {
			values, err := field(src)
			if err != nil {
				return nil, err
			}
			add(values)
		}
	}

	return terms, nil
}

func (s *VocabularyService) countCacheHit(ctx context.Context) {
	if s.metrics != nil {
		s.metrics.VocabCacheHits.Add(ctx, 1)
	}
}

func (s *VocabularyService) countCacheMiss(ctx context.Context) {
	if s.metrics != nil {
		s.metrics.VocabCacheMisses.Add(ctx, 1)
	}
}
