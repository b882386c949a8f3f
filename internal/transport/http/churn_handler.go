package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"churnlens/internal/analytics"
	apierrors "churnlens/internal/errors"
	"churnlens/internal/middleware"
	"churnlens/internal/services"
)

// Filter query parameters
const (
	paramGeography = "geography"
	paramAgeGroup  = "age_group"
	paramGender    = "gender"
	paramActivity  = "activity"
	paramThreshold = "threshold"
)

// ChurnHandler serves the read-only churn dashboard API
type ChurnHandler struct {
	service      ChurnServiceInterface
	validator    *middleware.Validator
	query        *middleware.QueryParamValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewChurnHandler creates a new churn handler with RFC 7807 error handling
func NewChurnHandler(service ChurnServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ChurnHandler {
	return &ChurnHandler{
		service:      service,
		validator:    middleware.NewValidator(logger),
		query:        middleware.NewQueryParamValidator(logger, errorHandler),
		logger:       logger.With(slog.String("component", "churn_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the churn routes, mounted under /api/churn
func (h *ChurnHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/overview", h.GetOverview)
	r.Get("/segments", h.ListDimensions)
	r.Get("/segments/{dimension}", h.GetSegments)
	r.Get("/high-value", h.GetHighValue)
	r.Get("/balance", h.GetBalance)
	r.Get("/insights", h.GetInsights)
	r.Get("/describe", h.GetDescribe)
	return r
}

// parseFilter reads and validates the dashboard filter from the query string.
// It writes a 400 response and returns false on invalid values.
func (h *ChurnHandler) parseFilter(w http.ResponseWriter, r *http.Request) (analytics.Filter, bool) {
	q := r.URL.Query()
	f := analytics.Filter{
		Geography: q.Get(paramGeography),
		AgeGroup:  q.Get(paramAgeGroup),
		Gender:    q.Get(paramGender),
		Activity:  q.Get(paramActivity),
	}
	if err := h.validator.ValidateStruct(f); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return analytics.Filter{}, false
	}
	return f, true
}

// handleServiceError maps service sentinels onto API errors
func (h *ChurnHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrDatasetNotLoaded):
		err = apierrors.ErrDatasetNotLoaded
	case errors.Is(err, services.ErrUnknownDimension):
		err = apierrors.UnknownDimensionError(chi.URLParam(r, "dimension"), h.service.DimensionNames())
	case errors.Is(err, services.ErrInvalidInput):
		err = apierrors.InvalidParameterError(err.Error())
	}
	h.errorHandler.HandleError(w, r, err)
}

func respond(w http.ResponseWriter, r *http.Request, data interface{}, filter *analytics.Filter) {
	body := map[string]interface{}{
		"status": "success",
		"data":   data,
	}
	if filter != nil && !filter.IsZero() {
		body["filter"] = filter
	}
	render.JSON(w, r, body)
}

// GetOverview handles GET /api/churn/overview
func (h *ChurnHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	f, ok := h.parseFilter(w, r)
	if !ok {
		return
	}
	ov, err := h.service.Overview(r.Context(), f)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respond(w, r, ov, &f)
}

// ListDimensions handles GET /api/churn/segments
func (h *ChurnHandler) ListDimensions(w http.ResponseWriter, r *http.Request) {
	respond(w, r, h.service.Dimensions(), nil)
}

// GetSegments handles GET /api/churn/segments/{dimension}
func (h *ChurnHandler) GetSegments(w http.ResponseWriter, r *http.Request) {
	dimension := chi.URLParam(r, "dimension")
	f, ok := h.parseFilter(w, r)
	if !ok {
		return
	}

	breakdown, err := h.service.Segments(r.Context(), dimension, f)
	if err != nil {
		h.logger.WarnContext(r.Context(), "segments request failed",
			slog.String("dimension", dimension),
			slog.String("error", err.Error()))
		h.handleServiceError(w, r, err)
		return
	}
	respond(w, r, breakdown, &f)
}

// GetHighValue handles GET /api/churn/high-value
func (h *ChurnHandler) GetHighValue(w http.ResponseWriter, r *http.Request) {
	threshold, ok := h.query.ValidateFloat(w, r, paramThreshold, 0, 0)
	if !ok {
		return
	}
	f, ok := h.parseFilter(w, r)
	if !ok {
		return
	}
	hv, err := h.service.HighValue(r.Context(), threshold, f)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respond(w, r, hv, &f)
}

// GetBalance handles GET /api/churn/balance
func (h *ChurnHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	f, ok := h.parseFilter(w, r)
	if !ok {
		return
	}
	bal, err := h.service.BalanceByStatus(r.Context(), f)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respond(w, r, bal, &f)
}

// GetInsights handles GET /api/churn/insights
func (h *ChurnHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	ins, err := h.service.Insights(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respond(w, r, ins, nil)
}

// GetDescribe handles GET /api/churn/describe
func (h *ChurnHandler) GetDescribe(w http.ResponseWriter, r *http.Request) {
	desc, err := h.service.Describe(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respond(w, r, desc, nil)
}

// GetDataset handles GET /api/dataset
func (h *ChurnHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.DatasetInfo(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respond(w, r, info, nil)
}
