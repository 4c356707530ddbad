package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"sellerpulse/internal/config"
	apierrors "sellerpulse/internal/errors"
)

// AnalyticsHandler handles the order and product analytics endpoints
type AnalyticsHandler struct {
	service      AnalyticsServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(service AnalyticsServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalyticsHandler {
	return &AnalyticsHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "analytics_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the analytics routes
func (h *AnalyticsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/orders", h.AnalyzeOrders)
	r.Post("/products", h.ClassifyProducts)
	return r
}

// AnalyzeOrders handles POST /api/analytics/orders
func (h *AnalyticsHandler) AnalyzeOrders(w http.ResponseWriter, r *http.Request) {
	in, closeFn, err := uploadInput(r, config.UploadOrders)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer closeFn()

	analysis, err := h.service.AnalyzeOrders(r.Context(), in)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, analysis)
}

// ClassifyProducts handles POST /api/analytics/products
func (h *AnalyticsHandler) ClassifyProducts(w http.ResponseWriter, r *http.Request) {
	in, closeFn, err := uploadInput(r, config.UploadPerformance)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer closeFn()

	analysis, err := h.service.ClassifyProducts(r.Context(), in)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, analysis)
}
