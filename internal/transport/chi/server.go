package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/logger"
	healthuc "github.com/jeffMauritius/ai-project-v1-sub000/internal/usecase/health"
	searchuc "github.com/jeffMauritius/ai-project-v1-sub000/internal/usecase/search"
)

// maxBodyBytes bounds the search request body.
const maxBodyBytes = 16 << 10

// Searcher runs one free-text search.
type Searcher interface {
	Search(ctx context.Context, query string, offset, limit *int) (searchuc.Response, error)
}

// HealthChecker aggregates component checks.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server exposes the search pipeline over HTTP.
type Server struct {
	search        Searcher
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search Searcher, health HealthChecker, log *zap.Logger) *Server {
	s := &Server{search: search, health: health, logger: log}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrUnauthenticated, http.StatusUnauthorized, "Unauthorized"),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, "Query is required"),
		sentinelHandler(domain.ErrInvalidPagination, http.StatusBadRequest, "Invalid pagination"),
	}
	return s
}

// Routes registers every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.Post("/api/search", s.PostSearch)
	r.Get("/api/search", s.GetSearch)
	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

// PostSearch handles POST /api/search.
func (s *Server) PostSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	s.serveSearch(w, r, req.Query, req.Offset, req.Limit)
}

// GetSearch handles GET /api/search?q=&offset=&limit=.
func (s *Server) GetSearch(w http.ResponseWriter, r *http.Request) {
	var params SearchParams
	q := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, false, "q", q, &params.Q); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid format for parameter q", err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "offset", q, &params.Offset); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid format for parameter offset", err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &params.Limit); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid format for parameter limit", err.Error())
		return
	}

	var query string
	if params.Q != nil {
		query = *params.Q
	}
	s.serveSearch(w, r, query, params.Offset, params.Limit)
}

func (s *Server) serveSearch(w http.ResponseWriter, r *http.Request, query string, offset, limit *int) {
	resp, err := s.search.Search(r.Context(), query, offset, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]SearchResultItem, len(resp.Results))
	for i, res := range resp.Results {
		items[i] = resultToDTO(res)
	}

	logger.FromContext(r.Context(), s.logger).Debug("search served",
		zap.String("source", string(resp.Source)),
		zap.Int("total", resp.Total),
	)

	writeJSON(w, http.StatusOK, SearchResponse{
		Results:  items,
		Criteria: resp.Criteria,
		Total:    resp.Total,
		HasMore:  resp.HasMore,
		Offset:   resp.Offset,
		Limit:    resp.Limit,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{Status: string(report.Status), Checks: checks})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, ErrorResponse{Error: message, Details: details})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, message string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, message, err.Error())
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context(), s.logger)
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "Internal server error", err.Error())
}
