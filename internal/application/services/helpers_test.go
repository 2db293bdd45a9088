package services_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tecnoclick/search-backend/internal/domain/entities"
	apperrors "github.com/tecnoclick/search-backend/pkg/errors"
)

// memLedger is an in-memory SearchLedgerRepository.
type memLedger struct {
	mu         sync.Mutex
	searches   map[string]*entities.SearchQuery
	shown      map[string][]*entities.ShownProduct
	selections []*entities.Selection
}

func newMemLedger() *memLedger {
	return &memLedger{
		searches: make(map[string]*entities.SearchQuery),
		shown:    make(map[string][]*entities.ShownProduct),
	}
}

func (m *memLedger) RecordSearch(ctx context.Context, search *entities.SearchQuery, shownKeys []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if search.ID == "" {
		search.ID = uuid.New().String()
	}
	if search.CreatedAt.IsZero() {
		search.CreatedAt = time.Now().UTC()
	}
	m.searches[search.ID] = search

	for i, key := range shownKeys {
		m.shown[search.ID] = append(m.shown[search.ID], &entities.ShownProduct{
			ID:         uuid.New().String(),
			SearchID:   search.ID,
			ProductKey: key,
			Position:   i + 1,
			CreatedAt:  search.CreatedAt,
		})
	}
	return nil
}

func (m *memLedger) GetSearch(ctx context.Context, id string) (*entities.SearchQuery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	search, ok := m.searches[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("search with id %s not found", id))
	}
	return search, nil
}

func (m *memLedger) RecordSelection(ctx context.Context, selection *entities.Selection) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if selection.ID == "" {
		selection.ID = uuid.New().String()
	}
	m.selections = append(m.selections, selection)
	return nil
}

// memCorrections is an in-memory CorrectionRepository with the same
// first-write-wins conditional-upsert semantics as the SQL adapter.
type memCorrections struct {
	mu      sync.Mutex
	entries map[string]*entities.LearnedCorrection
}

func newMemCorrections() *memCorrections {
	return &memCorrections{entries: make(map[string]*entities.LearnedCorrection)}
}

func (m *memCorrections) FindTrusted(ctx context.Context, originalTerm string, minConfirmations int) (*entities.LearnedCorrection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.entries[originalTerm]
	if !ok || c.Confirmations < minConfirmations {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no trusted correction for term %q", originalTerm))
	}
	return c, nil
}

func (m *memCorrections) ProposeOrConfirm(ctx context.Context, originalTerm, correctedTerm string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := m.entries[originalTerm]; ok {
		if existing.CorrectedTerm != correctedTerm {
			return nil
		}
		existing.Confirmations++
		existing.LastConfirmedAt = &now
		return nil
	}

	m.entries[originalTerm] = &entities.LearnedCorrection{
		ID:              uuid.New().String(),
		OriginalTerm:    originalTerm,
		CorrectedTerm:   correctedTerm,
		Confirmations:   1,
		LastConfirmedAt: &now,
		CreatedAt:       now,
	}
	return nil
}

// memRelevance is an in-memory RelevanceRepository.
type memRelevance struct {
	mu       sync.Mutex
	counters map[string]map[string]int // term -> product key -> count
}

func newMemRelevance() *memRelevance {
	return &memRelevance{counters: make(map[string]map[string]int)}
}

func (m *memRelevance) IncrementSelection(ctx context.Context, normalizedTerm, productKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.counters[normalizedTerm] == nil {
		m.counters[normalizedTerm] = make(map[string]int)
	}
	m.counters[normalizedTerm][productKey]++
	return nil
}

func (m *memRelevance) CountersForTerm(ctx context.Context, normalizedTerm string, productKeys []string) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make(map[string]int)
	for _, key := range productKeys {
		if count, ok := m.counters[normalizedTerm][key]; ok {
			result[key] = count
		}
	}
	return result, nil
}

func (m *memRelevance) TopForTerm(ctx context.Context, normalizedTerm string, limit int) ([]*entities.TermProductRelevance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []*entities.TermProductRelevance
	for key, count := range m.counters[normalizedTerm] {
		result = append(result, &entities.TermProductRelevance{
			NormalizedTerm: normalizedTerm,
			ProductKey:     key,
			TimesSelected:  count,
		})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TimesSelected > result[j].TimesSelected
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *memRelevance) count(term, key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[term][key]
}

// fakeCatalog is an in-memory CatalogSource matching on folded substrings
// the way the SQL adapters do.
type fakeCatalog struct {
	name      string
	products  []*entities.Product
	groups    []string
	subgroups []string
	brands    []string
	populated bool
	err       error

	mu          sync.Mutex
	lastTokens  []string
	searchCalls int
}

func (f *fakeCatalog) Name() string { return f.name }

func (f *fakeCatalog) SearchAllTokens(ctx context.Context, tokens []string, limit int) ([]*entities.Product, error) {
	f.mu.Lock()
	f.lastTokens = append([]string(nil), tokens...)
	f.searchCalls++
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}

	var matched []*entities.Product
	for _, p := range f.products {
		if len(matched) == limit {
			break
		}
		haystacks := []string{
			strings.ToLower(p.Description),
			strings.ToLower(p.Group),
			strings.ToLower(p.Subgroup),
			strings.ToLower(p.Brand),
		}
		all := true
		for _, token := range tokens {
			any := false
			for _, h := range haystacks {
				if strings.Contains(h, token) {
					any = true
					break
				}
			}
			if !any {
				all = false
				break
			}
		}
		if all {
			stamped := *p
			stamped.Source = f.name
			matched = append(matched, &stamped)
		}
	}
	return matched, nil
}

func (f *fakeCatalog) DistinctGroups(ctx context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.groups, nil
}

func (f *fakeCatalog) DistinctSubgroups(ctx context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.subgroups, nil
}

func (f *fakeCatalog) DistinctBrands(ctx context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.brands, nil
}

func (f *fakeCatalog) HasProducts(ctx context.Context) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.populated, nil
}

// memCache is an in-memory CacheProvider.
type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string][]byte)}
}

func (m *memCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	if !ok {
		return nil, fmt.Errorf("key not found: %s", key)
	}
	return v, nil
}

func (m *memCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *memCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *memCache) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[key]
	return ok, nil
}

func product(key, description, group, brand string) *entities.Product {
	return &entities.Product{
		Key:         key,
		Description: description,
		Group:       group,
		Brand:       brand,
	}
}
