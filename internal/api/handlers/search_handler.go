package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/tecnoclick/search-backend/internal/domain/entities"
	"github.com/tecnoclick/search-backend/internal/infrastructure/observability"
	apperrors "github.com/tecnoclick/search-backend/pkg/errors"
)

// SearchExecutor defines the search operations used by the handler.
type SearchExecutor interface {
	Search(ctx context.Context, query, sessionID, userID string) (*entities.SearchResult, error)
	EnsureCatalogAvailable(ctx context.Context) error
}

// SelectionRegistrar defines the feedback operations used by the handler.
type SelectionRegistrar interface {
	RegisterSelection(ctx context.Context, searchID, productKey string) (bool, error)
	TopSelections(ctx context.Context, phrase string, limit int) ([]*entities.TermProductRelevance, error)
}

// SearchHandler exposes the search and selection-feedback endpoints.
type SearchHandler struct {
	search     SearchExecutor
	selections SelectionRegistrar
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(search SearchExecutor, selections SelectionRegistrar) *SearchHandler {
	return &SearchHandler{
		search:     search,
		selections: selections,
	}
}

// Search handles GET /api/v1/search?q=...&session_id=...
// The optional user id comes from the X-User-ID header set by the auth layer.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerFromContext(ctx)

	if err := h.search.EnsureCatalogAvailable(ctx); err != nil {
		logger.Warn().Err(err).Msg("catalog unavailable")
		respondWithErrorCode(w, http.StatusServiceUnavailable,
			"the product catalog is not available right now", "CATALOG_UNAVAILABLE")
		return
	}

	query := r.URL.Query().Get("q")
	sessionID := r.URL.Query().Get("session_id")
	userID := r.Header.Get("X-User-ID")

	result, err := h.search.Search(ctx, query, sessionID, userID)
	if err != nil {
		logger.Error().Err(err).Str("query", query).Msg("search failed")
		respondWithError(w, statusFromError(err), "search failed")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    result,
	})
}

type selectionRequest struct {
	SearchID   string `json:"search_id"`
	ProductKey string `json:"product_key"`
}

// RegisterSelection handles POST /api/v1/search/selections
func (h *SearchHandler) RegisterSelection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerFromContext(ctx)

	var payload selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	payload.ProductKey = strings.TrimSpace(payload.ProductKey)
	if payload.ProductKey == "" {
		respondWithError(w, http.StatusUnprocessableEntity, "product_key is required")
		return
	}
	if payload.SearchID == "" {
		respondWithError(w, http.StatusUnprocessableEntity, "search_id is required")
		return
	}

	ok, err := h.selections.RegisterSelection(ctx, payload.SearchID, payload.ProductKey)
	if err != nil {
		logger.Error().Err(err).Str("search_id", payload.SearchID).Msg("failed to register selection")
		respondWithError(w, statusFromError(err), "failed to register selection")
		return
	}
	if !ok {
		respondWithError(w, http.StatusNotFound, "search not found")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

// TopSelections handles GET /api/v1/search/relevance?term=...&limit=...
// It reports which products a search phrase has historically led to.
func (h *SearchHandler) TopSelections(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerFromContext(ctx)

	term := strings.TrimSpace(r.URL.Query().Get("term"))
	if term == "" {
		respondWithError(w, http.StatusUnprocessableEntity, "term is required")
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondWithError(w, http.StatusUnprocessableEntity, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	top, err := h.selections.TopSelections(ctx, term, limit)
	if err != nil {
		logger.Error().Err(err).Str("term", term).Msg("failed to fetch top selections")
		respondWithError(w, statusFromError(err), "failed to fetch top selections")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    top,
	})
}

// statusFromError maps application error types onto HTTP status codes.
func statusFromError(err error) int {
	switch {
	case apperrors.IsNotFound(err):
		return http.StatusNotFound
	case apperrors.IsUnavailable(err):
		return http.StatusServiceUnavailable
	case apperrors.IsType(err, apperrors.ErrorTypeValidation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
