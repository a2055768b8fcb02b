// Package api serves the analysis entry points as a JSON HTTP API.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/huangsam/insight/core"
	"github.com/huangsam/insight/internal/contract"
	"github.com/huangsam/insight/internal/service"
	"github.com/huangsam/insight/schema"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Options configures the router.
type Options struct {
	AllowedOrigins []string      // CORS origins; empty allows any origin
	RequestTimeout time.Duration // 0 disables the per-request timeout
}

// Router holds the handlers of the API.
type Router struct {
	svc *service.Services
}

// NewRouter builds the HTTP handler for the API.
func NewRouter(svc *service.Services, opts Options) http.Handler {
	r := &Router{svc: svc}
	mux := chi.NewRouter()

	mux.Use(middleware.RequestID)
	mux.Use(middleware.Recoverer)
	if opts.RequestTimeout > 0 {
		mux.Use(middleware.Timeout(opts.RequestTimeout))
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	mux.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		_ = writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.Route("/api/v1", func(rt chi.Router) {
		rt.Get("/types", r.wrap(r.handleTypes))
		rt.Post("/analyze", r.wrap(r.handleAnalyze))
		rt.Post("/reports/{type}", r.wrap(r.handleReport))
		rt.Post("/query", r.wrap(r.handleQuery))
		rt.Get("/risk/{id}", r.wrap(r.handleRiskScore))
		rt.Get("/risk/{id}/trend", r.wrap(r.handleRiskTrend))
		rt.Get("/risk/{id}/recommendations", r.wrap(r.handleRiskRecommendations))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// badRequestError marks a malformed request.
type badRequestError struct {
	msg string
}

func (e *badRequestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &badRequestError{msg: fmt.Sprintf(format, args...)}
}

// errorBody is the JSON body of every failed request.
type errorBody struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			status := statusFor(err)
			if status >= http.StatusInternalServerError {
				contract.LogWarn(fmt.Sprintf("%s %s failed", req.Method, req.URL.Path), err)
			}
			_ = writeJSON(w, status, errorBody{Error: err.Error(), Status: status})
		}
	}
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	var bad *badRequestError
	switch {
	case errors.As(err, &bad),
		errors.Is(err, schema.ErrUnsupportedAnalysisType),
		errors.Is(err, schema.ErrUnsupportedReportType),
		errors.Is(err, schema.ErrInvalidIdentifier):
		return http.StatusBadRequest
	case errors.Is(err, schema.ErrEmployeeNotFound):
		return http.StatusNotFound
	case errors.Is(err, schema.ErrDataFetch):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// decodeBody decodes an optional JSON body into v. An empty body leaves v untouched.
func decodeBody(req *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, req.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return badRequest("invalid request body: %v", err)
	}
	return nil
}

// GET /api/v1/types
func (r *Router) handleTypes(w http.ResponseWriter, _ *http.Request) error {
	reports := map[schema.ReportType][]string{}
	for _, rt := range []schema.ReportType{
		schema.WorkforceReport, schema.PerformanceReport, schema.RetentionReport,
		schema.RecruitmentReport, schema.CompensationReport, schema.LearningReport,
	} {
		titles, err := core.SectionTitles(rt)
		if err != nil {
			return err
		}
		reports[rt] = titles
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"analysis_types": core.SupportedTypes(),
		"report_types":   reports,
	})
}

// POST /api/v1/analyze
// Body: an analysis request, e.g. {"type": "trend", "data_source": "turnover", "parameters": {"valueField": "rate"}}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body schema.AnalysisRequest
	if err := decodeBody(req, &body); err != nil {
		return err
	}
	if body.Type == "" {
		return badRequest("type is required")
	}
	if body.Parameters == nil {
		body.Parameters = schema.Params{}
	}
	if periods := body.Parameters.GetInt("periods", 0); periods > schema.MaxForecastPeriods {
		return badRequest("periods must be at most %d, got %d", schema.MaxForecastPeriods, periods)
	}

	result, err := r.svc.Analyze(req.Context(), body)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, result)
}

// POST /api/v1/reports/{type}
// Body: optional parameters forwarded to every section, e.g. {"department": "sales"}
func (r *Router) handleReport(w http.ResponseWriter, req *http.Request) error {
	params := schema.Params{}
	if err := decodeBody(req, &params); err != nil {
		return err
	}

	report, err := r.svc.GenerateReport(req.Context(), schema.ReportType(chi.URLParam(req, "type")), params)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, report)
}

// POST /api/v1/query
// Body: {"query": "销售部过去6个月的离职率趋势"}
func (r *Router) handleQuery(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Query string `json:"query"`
	}
	if err := decodeBody(req, &body); err != nil {
		return err
	}
	if strings.TrimSpace(body.Query) == "" {
		return badRequest("query is required")
	}
	return writeJSON(w, http.StatusOK, r.svc.ProcessQuery(req.Context(), body.Query))
}

// riskResponse adds the plain risk label to an assessment.
type riskResponse struct {
	schema.RiskAssessment
	Label string `json:"label"`
}

// GET /api/v1/risk/{id}
func (r *Router) handleRiskScore(w http.ResponseWriter, req *http.Request) error {
	a := r.svc.CalculateRiskScore(req.Context(), chi.URLParam(req, "id"))
	return writeJSON(w, http.StatusOK, riskResponse{RiskAssessment: a, Label: contract.GetPlainLabel(float64(a.Score))})
}

// GET /api/v1/risk/{id}/trend?months=
func (r *Router) handleRiskTrend(w http.ResponseWriter, req *http.Request) error {
	months := 0
	if raw := req.URL.Query().Get("months"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return badRequest("months must be a positive integer, got %q", raw)
		}
		if n > schema.MaxForecastPeriods {
			return badRequest("months must be at most %d, got %d", schema.MaxForecastPeriods, n)
		}
		months = n
	}

	prediction, err := r.svc.PredictRiskTrend(req.Context(), chi.URLParam(req, "id"), months)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, prediction)
}

// GET /api/v1/risk/{id}/recommendations
func (r *Router) handleRiskRecommendations(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, http.StatusOK, r.svc.GenerateRetentionRecommendations(req.Context(), chi.URLParam(req, "id")))
}
