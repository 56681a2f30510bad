package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/pbl-lab/pblview/pkg/usecase"
	"github.com/pbl-lab/pblview/pkg/utils/apperr"
)

// Server serves the report API over HTTP
type Server struct {
	*http.Server
	router chi.Router
}

// NewServer creates the HTTP server and wires the report routes.
func NewServer(ctx context.Context, addr string, report usecase.ReportGenerator) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	h := &reportHandler{report: report}

	router.Get("/health", handleHealth)

	router.Route("/api", func(r chi.Router) {
		r.Get("/quarters", h.handleQuarters)
		r.Get("/issues", h.handleIssues)
		r.Route("/report", func(r chi.Router) {
			r.Get("/burndown", h.handleBurnDown)
			r.Get("/burnup", h.handleBurnUp)
		})
		r.Get("/export", h.handleExport)
	})

	return &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		router: router,
	}
}

// Router exposes the chi router for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(r.Context(), w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "pblview",
	})
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		ctxlog.From(ctx).Error("Failed to encode response", "error", err)
	}
}

func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	apperr.Handle(ctx, err)
	respondJSON(ctx, w, apperr.HTTPStatus(err), map[string]string{
		"error": err.Error(),
	})
}
