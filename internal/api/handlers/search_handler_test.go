package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tecnoclick/search-backend/internal/domain/entities"
	apperrors "github.com/tecnoclick/search-backend/pkg/errors"
)

type stubSearch struct {
	catalogErr error
	searchErr  error
	result     *entities.SearchResult

	gotQuery     string
	gotSessionID string
	gotUserID    string
}

func (s *stubSearch) Search(ctx context.Context, query, sessionID, userID string) (*entities.SearchResult, error) {
	s.gotQuery = query
	s.gotSessionID = sessionID
	s.gotUserID = userID
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.result, nil
}

func (s *stubSearch) EnsureCatalogAvailable(ctx context.Context) error {
	return s.catalogErr
}

type stubSelections struct {
	found bool
	err   error
	top   []*entities.TermProductRelevance

	gotSearchID   string
	gotProductKey string
	gotTerm       string
	gotLimit      int
	calls         int
}

func (s *stubSelections) RegisterSelection(ctx context.Context, searchID, productKey string) (bool, error) {
	s.calls++
	s.gotSearchID = searchID
	s.gotProductKey = productKey
	return s.found, s.err
}

func (s *stubSelections) TopSelections(ctx context.Context, phrase string, limit int) ([]*entities.TermProductRelevance, error) {
	s.gotTerm = phrase
	s.gotLimit = limit
	return s.top, s.err
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSearchHandler_Search(t *testing.T) {
	search := &stubSearch{
		result: &entities.SearchResult{
			SearchID:          "s-1",
			OriginalText:      "teklado",
			NormalizedText:    "teclado",
			CorrectionApplied: true,
			Products: []*entities.Product{
				{Key: "P1", Description: "Teclado mecanico", Source: "cva"},
			},
		},
	}
	handler := NewSearchHandler(search, &stubSelections{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=teklado&session_id=sess-9", nil)
	req.Header.Set("X-User-ID", "user-3")
	rec := httptest.NewRecorder()

	handler.Search(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "teklado", search.gotQuery)
	assert.Equal(t, "sess-9", search.gotSessionID)
	assert.Equal(t, "user-3", search.gotUserID)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])

	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "s-1", data["search_id"])
	assert.Equal(t, true, data["correction_applied"])
}

func TestSearchHandler_Search_CatalogUnavailable(t *testing.T) {
	search := &stubSearch{catalogErr: apperrors.NewUnavailableError("no catalog source has products")}
	handler := NewSearchHandler(search, &stubSelections{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=monitor", nil)
	rec := httptest.NewRecorder()

	handler.Search(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "CATALOG_UNAVAILABLE", body["code"])
	// The pipeline must not run against an unavailable catalog.
	assert.Empty(t, search.gotQuery)
}

func TestSearchHandler_Search_ServiceError(t *testing.T) {
	search := &stubSearch{searchErr: apperrors.NewInternalError("persistence failure", nil)}
	handler := NewSearchHandler(search, &stubSelections{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=monitor", nil)
	rec := httptest.NewRecorder()

	handler.Search(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSearchHandler_RegisterSelection(t *testing.T) {
	selections := &stubSelections{found: true}
	handler := NewSearchHandler(&stubSearch{}, selections)

	payload := bytes.NewBufferString(`{"search_id":"s-1","product_key":"P1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/search/selections", payload)
	rec := httptest.NewRecorder()

	handler.RegisterSelection(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "s-1", selections.gotSearchID)
	assert.Equal(t, "P1", selections.gotProductKey)
}

func TestSearchHandler_RegisterSelection_UnknownSearch(t *testing.T) {
	selections := &stubSelections{found: false}
	handler := NewSearchHandler(&stubSearch{}, selections)

	payload := bytes.NewBufferString(`{"search_id":"missing","product_key":"P1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/search/selections", payload)
	rec := httptest.NewRecorder()

	handler.RegisterSelection(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchHandler_TopSelections(t *testing.T) {
	selections := &stubSelections{
		top: []*entities.TermProductRelevance{
			{NormalizedTerm: "teclado mecanico", ProductKey: "P1", TimesSelected: 7},
		},
	}
	handler := NewSearchHandler(&stubSearch{}, selections)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search/relevance?term=Teclado+Mecanico&limit=5", nil)
	rec := httptest.NewRecorder()

	handler.TopSelections(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Teclado Mecanico", selections.gotTerm)
	assert.Equal(t, 5, selections.gotLimit)
}

func TestSearchHandler_TopSelections_Validation(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"missing term", "/api/v1/search/relevance"},
		{"blank term", "/api/v1/search/relevance?term=++"},
		{"bad limit", "/api/v1/search/relevance?term=teclado&limit=abc"},
		{"zero limit", "/api/v1/search/relevance?term=teclado&limit=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewSearchHandler(&stubSearch{}, &stubSelections{})

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			rec := httptest.NewRecorder()

			handler.TopSelections(rec, req)

			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		})
	}
}

func TestSearchHandler_RegisterSelection_Validation(t *testing.T) {
	tests := []struct {
		name       string
		payload    string
		wantStatus int
	}{
		{"malformed json", `{`, http.StatusBadRequest},
		{"missing product key", `{"search_id":"s-1"}`, http.StatusUnprocessableEntity},
		{"blank product key", `{"search_id":"s-1","product_key":"   "}`, http.StatusUnprocessableEntity},
		{"missing search id", `{"product_key":"P1"}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selections := &stubSelections{found: true}
			handler := NewSearchHandler(&stubSearch{}, selections)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/search/selections", bytes.NewBufferString(tt.payload))
			rec := httptest.NewRecorder()

			handler.RegisterSelection(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Zero(t, selections.calls)
		})
	}
}
