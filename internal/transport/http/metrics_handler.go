package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "sellerpulse/internal/errors"
	"sellerpulse/internal/middleware"
	"sellerpulse/internal/services"
)

// MetricsHandler handles POST /api/metrics
type MetricsHandler struct {
	service      MetricsServiceInterface
	validator    *middleware.Validator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(service MetricsServiceInterface, validator *middleware.Validator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *MetricsHandler {
	if validator == nil {
		validator = middleware.NewValidator()
	}
	return &MetricsHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("component", "metrics_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the metrics routes. The body must be JSON.
func (h *MetricsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.ContentTypeValidator(h.errorHandler, "application/json"))
	r.Post("/", h.Compute)
	return r
}

// Compute decodes, validates and rolls up the collaborator data
func (h *MetricsHandler) Compute(w http.ResponseWriter, r *http.Request) {
	var req services.MetricsRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	metrics, err := h.service.Compute(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, metrics)
}
