// Package server exposes the dashboard's aggregations over a JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/TomJordanJGP/job-performance-dashboard/internal/pipeline"
	"github.com/TomJordanJGP/job-performance-dashboard/internal/source"
)

// DatasetProvider supplies joined record sets to the handlers.
type DatasetProvider interface {
	Dataset(ctx context.Context) (*pipeline.Dataset, error)
	Refresh(ctx context.Context) (*pipeline.Dataset, error)
}

// Server wires the HTTP API around a dataset provider.
type Server struct {
	data   DatasetProvider
	router chi.Router
}

// Options configures the router.
type Options struct {
	AllowedOrigins []string
}

// New builds the API server.
func New(data DatasetProvider, opts Options) *Server {
	s := &Server{data: data}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/summary", s.handleSummary)
		r.Get("/aggregate", s.handleAggregate)
		r.Get("/compare", s.handleCompare)
		r.Get("/vacancies", s.handleVacancies)
		r.Get("/facets", s.handleFacets)
		r.Get("/quartiles", s.handleQuartiles)
		r.Get("/export", s.handleExport)
		r.Post("/refresh", s.handleRefresh)
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("server: write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDataError maps pipeline failures to status codes: a total source
// failure with nothing cached is 503, anything else 500.
func writeDataError(w http.ResponseWriter, err error) {
	zap.L().Error("server: dataset unavailable", zap.Error(err))
	if source.IsFetch(err) {
		writeError(w, http.StatusServiceUnavailable, "data sources unavailable")
		return
	}
	writeError(w, http.StatusInternalServerError, "internal error")
}
