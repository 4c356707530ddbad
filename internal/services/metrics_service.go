package services

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"sellerpulse/internal/dataprocessing"
	"sellerpulse/internal/infrastructure"
	"sellerpulse/pkg/contracts/domain"
)

// MetricsRequest is the collaborator data the dashboard roll-up runs over
type MetricsRequest struct {
	Products []domain.Product          `json:"products" validate:"dive"`
	Expenses []domain.Expense          `json:"expenses"`
	Orders   []domain.MarketplaceOrder `json:"orders" validate:"dive"`
	Invoices []domain.Invoice          `json:"invoices" validate:"dive"`
}

// MetricsService computes the dashboard profit summary
type MetricsService struct {
	tracer trace.Tracer
	logger *slog.Logger
}

// NewMetricsService creates a metrics service. A nil tracer uses the global one.
func NewMetricsService(tracer trace.Tracer, logger *slog.Logger) *MetricsService {
	if tracer == nil {
		tracer = otel.Tracer(infrastructure.ServiceName)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MetricsService{
		tracer: tracer,
		logger: infrastructure.WithComponent(logger, "metrics_service"),
	}
}

// Compute derives revenue, COGS, expenses, true profit and the monthly trend.
// The request is expected to be validated already.
func (s *MetricsService) Compute(ctx context.Context, req MetricsRequest) (*domain.Metrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	_, span := s.tracer.Start(ctx, "metrics.compute", trace.WithAttributes(
		attribute.Int("products", len(req.Products)),
		attribute.Int("orders", len(req.Orders)),
		attribute.Int("invoices", len(req.Invoices)),
		attribute.Int("expenses", len(req.Expenses)),
	))
	defer span.End()

	m := dataprocessing.ComputeMetrics(req.Products, req.Expenses, req.Orders, req.Invoices)

	if len(m.MissingSkus) > 0 {
		s.logger.WarnContext(ctx, "orders reference unknown SKUs",
			slog.Int("count", len(m.MissingSkus)),
			slog.Any("skus", m.MissingSkus))
	}
	s.logger.DebugContext(ctx, "metrics computed",
		slog.String("revenue", m.Revenue.StringFixed(2)),
		slog.String("true_profit", m.TrueProfit.StringFixed(2)),
		slog.Int("months", len(m.Trend)))

	return m, nil
}
