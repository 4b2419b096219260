package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yuan1108code/Fukui-LLM-Tourism/internal/domain"
	"github.com/yuan1108code/Fukui-LLM-Tourism/internal/metrics"
	healthuc "github.com/yuan1108code/Fukui-LLM-Tourism/internal/usecase/health"
	usageuc "github.com/yuan1108code/Fukui-LLM-Tourism/internal/usecase/usage"
)

const defaultLocationsLimit = 100

// Answerer runs one full chat turn.
type Answerer interface {
	Answer(ctx context.Context, query domain.Query) (domain.Answer, error)
	Search(ctx context.Context, query domain.Query, limit int) ([]domain.SourceInfo, error)
}

// LocationLister pages through the corpus for the map-pin endpoint.
type LocationLister interface {
	List(ctx context.Context, offset, limit int) ([]domain.Document, int, error)
}

// Server is the HTTP API server.
type Server struct {
	answers   Answerer
	locations LocationLister
	health    *healthuc.Service
	usage     *usageuc.Service
	logger    *zap.Logger
}

// Options holds middleware settings.
type Options struct {
	APIKeys        []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewServer creates an HTTP API server.
func NewServer(
	answers Answerer,
	locations LocationLister,
	health *healthuc.Service,
	usage *usageuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{
		answers:   answers,
		locations: locations,
		health:    health,
		usage:     usage,
		logger:    logger,
	}
}

// Router builds the chi router with the full middleware chain.
func (s *Server) Router(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(jsonRecoverer(s.logger))
	r.Use(wideEventMiddleware(s.logger))
	r.Use(metrics.Middleware())
	r.Use(BearerAuthMiddleware(opts.APIKeys))
	r.Use(RateLimitMiddleware(opts.RateLimitRPS, opts.RateLimitBurst))

	r.Post("/chat", s.Chat)
	r.Get("/search", s.Search)
	r.Get("/locations", s.Locations)
	r.Get("/usage", s.Usage)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	return r
}

// chatRequest is the caller-facing chat payload.
type chatRequest struct {
	Message      string        `json:"message"`
	UserLocation *locationBody `json:"user_location,omitempty"`
	Timestamp    string        `json:"timestamp,omitempty"`
}

type locationBody struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy,omitempty"`
}

// Chat handles POST /chat.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, domain.CodeBadRequest, "invalid request body: "+err.Error())
		return
	}

	query := domain.Query{
		Text:      strings.TrimSpace(req.Message),
		Timestamp: req.Timestamp,
	}
	if req.UserLocation != nil {
		query.UserLocation = &domain.UserLocation{
			Lat:       req.UserLocation.Latitude,
			Lng:       req.UserLocation.Longitude,
			AccuracyM: req.UserLocation.Accuracy,
		}
	}

	ans, err := s.answers.Answer(r.Context(), query)
	if err != nil {
		s.writeDomainError(w, err, ans)
		return
	}

	writeJSON(w, http.StatusOK, ans)
}

// searchResponse wraps the raw semantic search results.
type searchResponse struct {
	Results []domain.SourceInfo `json:"results"`
	Total   int                 `json:"total"`
}

// Search handles GET /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	queryText := strings.TrimSpace(r.URL.Query().Get("query"))
	if queryText == "" {
		writeError(w, http.StatusBadRequest, domain.CodeBadRequest, "query parameter is required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, domain.CodeBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	sources, err := s.answers.Search(r.Context(), domain.Query{Text: queryText}, limit)
	if err != nil {
		s.writeDomainError(w, err, domain.Answer{})
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{Results: sources, Total: len(sources)})
}

// locationItem is one map pin.
type locationItem struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Category     string  `json:"category"`
	Municipality string  `json:"municipality,omitempty"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	Rating       float64 `json:"rating,omitempty"`
}

type locationsResponse struct {
	Locations []locationItem `json:"locations"`
	Total     int            `json:"total"`
}

// Locations handles GET /locations. Documents without coordinates are
// skipped; they cannot be pinned on a map.
func (s *Server) Locations(w http.ResponseWriter, r *http.Request) {
	limit := defaultLocationsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, domain.CodeBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	search := strings.TrimSpace(r.URL.Query().Get("search"))

	docs, _, err := s.locations.List(r.Context(), 0, defaultLocationsLimit*10)
	if err != nil {
		s.writeDomainError(w, err, domain.Answer{})
		return
	}

	items := make([]locationItem, 0, limit)
	for _, doc := range docs {
		if doc.Coordinates == nil {
			continue
		}
		if search != "" && !strings.Contains(doc.Title, search) {
			continue
		}
		items = append(items, locationItem{
			ID:           doc.ID,
			Title:        doc.Title,
			Category:     string(doc.Category),
			Municipality: doc.Municipality,
			Lat:          doc.Coordinates.Lat,
			Lng:          doc.Coordinates.Lng,
			Rating:       doc.Rating,
		})
		if len(items) == limit {
			break
		}
	}

	writeJSON(w, http.StatusOK, locationsResponse{Locations: items, Total: len(items)})
}

// Usage handles GET /usage. Reports embedding token spend for the current
// day or month, depending on the period parameter.
func (s *Server) Usage(w http.ResponseWriter, r *http.Request) {
	period := usageuc.Period(r.URL.Query().Get("period"))
	report := s.usage.GetReport(r.Context(), period)
	writeJSON(w, http.StatusOK, report)
}

// healthResponse is the health endpoint payload.
type healthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	Documents int               `json:"documents"`
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

	writeJSON(w, httpStatus, healthResponse{
		Status:    string(report.Status),
		Checks:    checks,
		Documents: report.Documents,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// errorResponse is the error payload for non-chat endpoints and transport
// failures. Chat failures return the orchestrator's Answer body instead.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// writeDomainError maps sentinel errors to HTTP statuses. When the
// orchestrator produced a renderable Answer it becomes the body, keeping the
// UI contract stable across failure modes.
func (s *Server) writeDomainError(w http.ResponseWriter, err error, ans domain.Answer) {
	status := http.StatusInternalServerError
	code := domain.CodeInternalError

	switch {
	case errors.Is(err, domain.ErrEmbeddingQuotaExceeded):
		status, code = http.StatusTooManyRequests, domain.CodeRateLimited
	case errors.Is(err, domain.ErrInvalidQuery):
		status, code = http.StatusBadRequest, domain.CodeBadRequest
	case errors.Is(err, domain.ErrDocumentNotFound):
		status, code = http.StatusNotFound, domain.CodeNotFound
	case errors.Is(err, domain.ErrRetrievalUnavailable):
		status, code = http.StatusServiceUnavailable, domain.CodeRetrievalUnavailable
	case errors.Is(err, domain.ErrCompletionFailure):
		status, code = http.StatusBadGateway, domain.CodeCompletionFailed
	case errors.Is(err, domain.ErrRateLimited):
		status, code = http.StatusTooManyRequests, domain.CodeRateLimited
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("internal error", zap.Error(err))
	} else {
		s.logger.Warn("domain error", zap.Error(err))
	}

	if ans.ErrCode != "" {
		writeJSON(w, status, ans)
		return
	}
	writeError(w, status, code, safeDomainMessage(err))
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmbeddingQuotaExceeded,
		domain.ErrInvalidQuery,
		domain.ErrDocumentNotFound,
		domain.ErrRetrievalUnavailable,
		domain.ErrCompletionFailure,
		domain.ErrRateLimited,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}
