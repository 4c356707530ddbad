package services

import (
	"context"
	"log/slog"

	"sellerpulse/internal/dataprocessing"
	"sellerpulse/internal/infrastructure"
	"sellerpulse/pkg/contracts/domain"
)

// OrderAnalysis is the distribution and timing report of one order export
type OrderAnalysis struct {
	*domain.OrderInsights
	Document DocumentReport `json:"document"`
}

// ProductAnalysis is the quadrant classification of a performance export
type ProductAnalysis struct {
	*domain.QuadrantReport
	Document DocumentReport `json:"document"`
}

// AnalyticsService runs the read-only folds over single exports
type AnalyticsService struct {
	ingest *ingestor
	logger *slog.Logger
}

// NewAnalyticsService creates an analytics service
func NewAnalyticsService(opts Options, logger *slog.Logger) *AnalyticsService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = infrastructure.WithComponent(logger, "analytics_service")
	return &AnalyticsService{
		ingest: newIngestor(opts, logger),
		logger: logger,
	}
}

// AnalyzeOrders computes city, payment method and weekday distributions and
// fulfilment times for an order export
func (s *AnalyticsService) AnalyzeOrders(ctx context.Context, in Input) (*OrderAnalysis, error) {
	orders, doc, err := ingestDocument(ctx, s.ingest, domain.DocumentOrders, in,
		dataprocessing.ParseOrdersWorkbook,
		func(o *dataprocessing.OrderSheet) dataprocessing.ParseStats { return o.Stats })
	if err != nil {
		return nil, err
	}

	insights := dataprocessing.AnalyzeOrders(orders.Lines, s.ingest.opts.Analysis)

	s.logger.InfoContext(ctx, "orders analyzed",
		slog.String("source", doc.Source),
		slog.Int("orders", insights.Orders),
		slog.Int("lines", insights.Lines),
		slog.Int("peak_hour", insights.ProcessTimes.PeakHour))

	return &OrderAnalysis{OrderInsights: insights, Document: *doc}, nil
}

// ClassifyProducts splits a product performance export into quadrants
func (s *AnalyticsService) ClassifyProducts(ctx context.Context, in Input) (*ProductAnalysis, error) {
	perf, doc, err := ingestDocument(ctx, s.ingest, domain.DocumentProductPerformance, in,
		dataprocessing.ParseProductPerformanceWorkbook,
		func(p *dataprocessing.PerformanceSheet) dataprocessing.ParseStats { return p.Stats })
	if err != nil {
		return nil, err
	}

	report := dataprocessing.ClassifyQuadrants(perf.Rows)

	s.logger.InfoContext(ctx, "products classified",
		slog.String("source", doc.Source),
		slog.Int("products", len(report.Products)),
		slog.Float64("mean_traffic", report.MeanTraffic),
		slog.Float64("mean_conversion_rate", report.MeanConversionRate))

	return &ProductAnalysis{QuadrantReport: report, Document: *doc}, nil
}
