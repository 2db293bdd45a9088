package routes

import (
	"net/http"

	"github.com/tecnoclick/search-backend/internal/api/handlers"
	"github.com/tecnoclick/search-backend/internal/api/middleware"
	"github.com/tecnoclick/search-backend/internal/infrastructure/observability"
)

// Router wires the HTTP endpoints to their handlers.
type Router struct {
	mux *http.ServeMux

	searchHandler *handlers.SearchHandler
	healthHandler *handlers.HealthHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	searchHandler *handlers.SearchHandler,
	healthHandler *handlers.HealthHandler,
	metrics *observability.Metrics,
) *Router {
	r := &Router{
		mux:           http.NewServeMux(),
		searchHandler: searchHandler,
		healthHandler: healthHandler,
		metrics:       metrics,
	}
	r.registerRoutes()
	return r
}

func (r *Router) registerRoutes() {
	r.mux.HandleFunc("GET /api/v1/search", r.searchHandler.Search)
	r.mux.HandleFunc("POST /api/v1/search/selections", r.searchHandler.RegisterSelection)
	r.mux.HandleFunc("GET /api/v1/search/relevance", r.searchHandler.TopSelections)
	r.mux.HandleFunc("GET /health", r.healthHandler.Health)
}

// Handler returns the router's handler chain with middleware applied.
func (r *Router) Handler() http.Handler {
	var handler http.Handler = r.mux
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.CORSMiddleware(handler)
	return handler
}
