package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sieve/internal/db"
	"github.com/kailas-cloud/sieve/internal/domain"
	"github.com/kailas-cloud/sieve/internal/domain/search/filter"
	domview "github.com/kailas-cloud/sieve/internal/domain/view"
	logpkg "github.com/kailas-cloud/sieve/internal/logger"
	healthuc "github.com/kailas-cloud/sieve/internal/usecase/health"
	searchuc "github.com/kailas-cloud/sieve/internal/usecase/search"
	"github.com/kailas-cloud/sieve/internal/version"
)

// LimitParam is the reserved request parameter carrying the page size.
// It never reaches the filter builders.
const LimitParam = "limit"

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// ViewLister exposes the served views.
type ViewLister interface {
	All() []domview.View
	Get(name string) (domview.View, error)
}

// Server serves the view search API.
type Server struct {
	search        *searchuc.Service
	health        *healthuc.Service
	views         ViewLister
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	health *healthuc.Service,
	views ViewLister,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search: search,
		health: health,
		views:  views,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		parseErrorHandler,
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeViewNotFound),
		sentinelHandler(db.ErrInvalidQuery, http.StatusBadRequest, CodeInvalidQuery),
		sentinelHandler(domain.ErrConfiguration, http.StatusInternalServerError, CodeMisconfigured),
		sentinelHandler(db.ErrIndexNotFound, http.StatusServiceUnavailable, CodeIndexUnavailable),
	}
	return s
}

// Routes mounts the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/api/v1/views", func(r chi.Router) {
		r.Get("/", s.ListViews)
		r.Get("/{view}", s.GetView)
		r.Get("/{view}/search", s.Search)
		r.Get("/{view}/query", s.Explain)
	})
}

// ListViews handles GET /api/v1/views.
func (s *Server) ListViews(w http.ResponseWriter, _ *http.Request) {
	all := s.views.All()
	items := make([]ViewResponse, len(all))
	for i, v := range all {
		items[i] = viewToResponse(v)
	}
	writeJSON(w, http.StatusOK, ViewListResponse{Items: items})
}

// GetView handles GET /api/v1/views/{view}.
func (s *Server) GetView(w http.ResponseWriter, r *http.Request) {
	v, err := s.views.Get(chi.URLParam(r, "view"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewToResponse(v))
}

// Search handles GET /api/v1/views/{view}/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	view := chi.URLParam(r, "view")
	params, limit, err := requestParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	ctx := logpkg.With(r.Context(), zap.String("view", view))
	page, err := s.search.Search(ctx, view, params, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		View:  view,
		Query: page.Query.String(),
		Total: page.Total,
		Limit: page.Limit,
		Items: resultsToItems(page.Results),
	})
}

// Explain handles GET /api/v1/views/{view}/query: the query a search would
// run, without running it.
func (s *Server) Explain(w http.ResponseWriter, r *http.Request) {
	view := chi.URLParam(r, "view")
	params, _, err := requestParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	ctx := logpkg.With(r.Context(), zap.String("view", view))
	expr, err := s.search.Explain(ctx, view, params)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, QueryResponse{
		View:       view,
		Query:      expr.String(),
		Expression: expressionToResponse(expr),
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

	writeJSON(w, httpStatus, HealthResponse{
		Status:         string(report.Status),
		Version:        version.Version,
		Checks:         checks,
		Views:          report.Views,
		MissingIndexes: report.MissingIndexes,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// requestParams splits the query string into filter parameters and the page size.
func requestParams(r *http.Request) (filter.Params, int, error) {
	params := filter.ParamsFromValues(r.URL.Query())
	raw, ok := params[LimitParam]
	if !ok {
		return params, 0, nil
	}
	delete(params, LimitParam)
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return nil, 0, errors.New("limit must be a non-negative integer")
	}
	return params, limit, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrParse,
		domain.ErrConfiguration,
		db.ErrInvalidQuery,
		db.ErrIndexNotFound,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// parseErrorHandler reports which parameter failed to parse.
func parseErrorHandler(w http.ResponseWriter, err error, _ string) bool {
	var pe *domain.ParseError
	if !errors.As(err, &pe) {
		return false
	}
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Code:    CodeParseError,
		Message: pe.Error(),
		Param:   pe.Param,
	})
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.logger.With(zap.String("path", r.URL.Path))
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
