package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	appanalysis "github.com/growtheory/reportcard/internal/application/analysis"
	domai "github.com/growtheory/reportcard/internal/domain/ai"
	"github.com/growtheory/reportcard/internal/domain/company"
	"github.com/growtheory/reportcard/internal/middleware"
)

type Router struct {
	svc *appanalysis.Service
}

// Options carries the cross-cutting knobs the router wires in front of the
// handlers. Zero values disable the corresponding middleware.
type Options struct {
	Log          zerolog.Logger
	Health       map[string]middleware.HealthChecker
	APIKeys      []string
	RateCapacity int
	RateRefill   int
}

// NewRouter builds the HTTP surface. The frontend is served from a static
// host on another origin, so CORS is wide open.
func NewRouter(svc *appanalysis.Service, opts Options) http.Handler {
	r := &Router{svc: svc}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))
	mux.Use(middleware.LoggingMiddleware(opts.Log))
	mux.Use(middleware.MetricsMiddleware)
	if opts.RateCapacity > 0 && opts.RateRefill > 0 {
		mux.Use(middleware.RateLimitMiddleware(opts.RateCapacity, opts.RateRefill))
	}
	if len(opts.APIKeys) > 0 {
		mux.Use(middleware.APIKeyAuth(opts.APIKeys))
	}

	mux.Get("/health", middleware.HealthHandler(opts.Health))
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Post("/analyze", r.wrap(r.handleAnalyze))
	mux.Get("/dashboard", r.wrap(r.handleDashboard))
	mux.Get("/report", r.wrap(r.handleReport))
	mux.Get("/faults", r.wrap(r.handleFaults))

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// badRequest marks client errors the wrapper should answer with 400.
type badRequest struct{ msg string }

func (b badRequest) Error() string { return b.msg }

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			var br badRequest
			switch {
			case errors.As(err, &br) || errors.Is(err, company.ErrEmptyInput):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, company.ErrNotFound) || errors.Is(err, sql.ErrNoRows):
				writeError(w, http.StatusNotFound, err.Error())
			case errors.Is(err, domai.ErrQuotaExceeded):
				writeError(w, http.StatusTooManyRequests, "analysis quota exceeded, please try again later")
			default:
				writeError(w, http.StatusInternalServerError, err.Error())
			}
		}
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

// POST /analyze
// Body: {"company": "<name or ticker>"}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Company string `json:"company"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest{msg: "invalid JSON body"}
	}

	input := middleware.SanitizeString(body.Company)
	if err := middleware.ValidateCompanyInput(input); err != nil {
		return badRequest{msg: err.Error()}
	}

	middleware.IncrementAnalyses()
	result, err := r.svc.Analyze(req.Context(), input)
	if err != nil {
		middleware.IncrementAnalysisFailures()
		return err
	}
	if result.Cached {
		middleware.IncrementCacheHits()
	} else {
		middleware.IncrementCacheMisses()
	}

	return writeJSON(w, result)
}

// GET /dashboard
func (r *Router) handleDashboard(w http.ResponseWriter, req *http.Request) error {
	list, err := r.svc.Dashboard(req.Context())
	if err != nil {
		return err
	}
	if list == nil {
		list = []*company.Summary{}
	}
	return writeJSON(w, map[string]any{"companies": list})
}

// GET /report?ticker=<cache key>
func (r *Router) handleReport(w http.ResponseWriter, req *http.Request) error {
	ticker := req.URL.Query().Get("ticker")
	if ticker == "" {
		return badRequest{msg: "ticker query parameter is required"}
	}

	rep, err := r.svc.Report(req.Context(), ticker)
	if err != nil {
		return err
	}
	return writeJSON(w, rep)
}

// GET /faults?limit=20
func (r *Router) handleFaults(w http.ResponseWriter, req *http.Request) error {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.svc.Failures(req.Context(), middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	return writeJSON(w, map[string]any{"faults": list})
}
