package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"sellerpulse/internal/config"
	apierrors "sellerpulse/internal/errors"
	"sellerpulse/internal/exporter"
	"sellerpulse/internal/services"
)

// Ledger download formats
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReconcileHandler handles POST /api/reconcile
type ReconcileHandler struct {
	service      ReconciliationServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewReconcileHandler creates a new reconcile handler
func NewReconcileHandler(service ReconciliationServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ReconcileHandler {
	return &ReconcileHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "reconcile_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the reconcile routes
func (h *ReconcileHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Reconcile)
	return r
}

// Reconcile joins the uploaded orders, payouts and cost catalog
func (h *ReconcileHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	switch format {
	case "", FormatJSON, FormatCSV, FormatXLSX:
	default:
		h.errorHandler.HandleError(w, r, apierrors.NewValidationErrors([]apierrors.ValidationError{
			{Field: "format", Message: "format must be one of: json, csv, xlsx"},
		}))
		return
	}

	var req services.ReconcileRequest
	for _, u := range []struct {
		field string
		dst   *services.Input
	}{
		{config.UploadOrders, &req.Orders},
		{config.UploadPayouts, &req.Payouts},
		{config.UploadCosts, &req.Costs},
	} {
		in, closeFn, err := uploadInput(r, u.field)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		defer closeFn()
		*u.dst = in
	}

	report, err := h.service.Reconcile(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "ledger served",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("run_id", report.RunID),
		slog.String("format", format),
		slog.Int("orders", len(report.Orders)),
		slog.Int("missing_skus", len(report.MissingSkus)))

	switch format {
	case FormatCSV:
		setAttachment(w, "text/csv; charset=utf-8", fmt.Sprintf("ledger-%s.csv", report.RunID))
		err = exporter.EncodeCSV(w, exporter.WriteOptions{
			Headers:   exporter.LedgerHeaders,
			Records:   exporter.LedgerRecords(report.Orders),
			BOMPrefix: true,
		})
	case FormatXLSX:
		setAttachment(w, xlsxContentType, fmt.Sprintf("ledger-%s.xlsx", report.RunID))
		err = exporter.WriteLedgerWorkbook(w, report.ReconcileResult, report.Summary)
	default:
		render.JSON(w, r, report)
		return
	}
	if err != nil {
		// Headers are already sent; all that is left is to log it
		h.logger.ErrorContext(r.Context(), "failed to stream ledger",
			slog.String("run_id", report.RunID),
			slog.String("error", err.Error()))
	}
}

func setAttachment(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
}
