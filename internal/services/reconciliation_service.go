package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"sellerpulse/internal/dataprocessing"
	"sellerpulse/internal/infrastructure"
	"sellerpulse/pkg/contracts/domain"
)

// ReconcileRequest names the three spreadsheets of a reconciliation run
type ReconcileRequest struct {
	Orders  Input
	Payouts Input
	Costs   Input
}

// ReconcileReport is the outcome of one run: the ledger with its
// diagnostics, the totals, and how each document was read.
type ReconcileReport struct {
	RunID string `json:"run_id"`
	*domain.ReconcileResult
	Summary   *domain.LedgerSummary `json:"summary"`
	Documents []DocumentReport      `json:"documents"`
}

// ReconciliationService joins order exports, payout reports and a cost
// catalog into a per-order profit ledger
type ReconciliationService struct {
	ingest *ingestor
	logger *slog.Logger
}

// NewReconciliationService creates a reconciliation service
func NewReconciliationService(opts Options, logger *slog.Logger) *ReconciliationService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = infrastructure.WithComponent(logger, "reconciliation_service")
	return &ReconciliationService{
		ingest: newIngestor(opts, logger),
		logger: logger,
	}
}

// Reconcile decodes the three documents concurrently and, once all of them
// parsed, builds the ledger. The first failing document cancels the others.
func (s *ReconciliationService) Reconcile(ctx context.Context, req ReconcileRequest) (report *ReconcileReport, err error) {
	runID := uuid.NewString()
	start := time.Now()

	ctx, span := s.ingest.tracer.Start(ctx, "reconcile",
		trace.WithAttributes(attribute.String("run_id", runID)))
	defer span.End()

	logger := s.logger.With(slog.String("run_id", runID))
	logger.InfoContext(ctx, "reconciliation started",
		slog.String("orders", req.Orders.Name),
		slog.String("payouts", req.Payouts.Name),
		slog.String("costs", req.Costs.Name))

	defer func() {
		outcome := infrastructure.ReconcileOutcome{Duration: time.Since(start), Err: err}
		if report != nil {
			outcome.Orders = len(report.Orders)
			outcome.MissingSkus = len(report.MissingSkus)
			outcome.OrphanPayouts = len(report.OrphanPayouts)
			outcome.UnsettledOrders = len(report.UnsettledOrders)
		}
		infrastructure.RecordReconcileMetrics(ctx, s.ingest.opts.Metrics, outcome)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logger.WarnContext(ctx, "reconciliation failed", slog.String("error", err.Error()))
		}
	}()

	var (
		orders                         *dataprocessing.OrderSheet
		payouts                        *dataprocessing.PayoutSheet
		costs                          *dataprocessing.CostSheet
		ordersDoc, payoutsDoc, costDoc *DocumentReport
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, ordersDoc, err = ingestDocument(gctx, s.ingest, domain.DocumentOrders, req.Orders,
			dataprocessing.ParseOrdersWorkbook,
			func(o *dataprocessing.OrderSheet) dataprocessing.ParseStats { return o.Stats })
		return err
	})
	g.Go(func() error {
		var err error
		payouts, payoutsDoc, err = ingestDocument(gctx, s.ingest, domain.DocumentPayouts, req.Payouts,
			dataprocessing.ParsePayoutsWorkbook,
			func(p *dataprocessing.PayoutSheet) dataprocessing.ParseStats { return p.Stats })
		return err
	})
	g.Go(func() error {
		var err error
		costs, costDoc, err = ingestDocument(gctx, s.ingest, domain.DocumentCostCatalog, req.Costs,
			dataprocessing.ParseCostCatalogWorkbook,
			func(c *dataprocessing.CostSheet) dataprocessing.ParseStats { return c.Stats })
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := dataprocessing.Reconcile(orders.Lines, payouts.Records, costs.Catalog)
	summary := dataprocessing.SummarizeLedger(result.Orders, s.ingest.opts.Analysis)

	span.SetAttributes(
		attribute.Int("orders", len(result.Orders)),
		attribute.Int("missing_skus", len(result.MissingSkus)),
		attribute.Int("orphan_payouts", len(result.OrphanPayouts)),
	)

	logger.InfoContext(ctx, "reconciliation completed",
		slog.Int("order_lines", len(orders.Lines)),
		slog.Int("payout_records", len(payouts.Records)),
		slog.Int("catalog_skus", len(costs.Catalog)),
		slog.Int("ledger_entries", len(result.Orders)),
		slog.Int("missing_skus", len(result.MissingSkus)),
		slog.Int("orphan_payouts", len(result.OrphanPayouts)),
		slog.Int("unsettled_orders", len(result.UnsettledOrders)),
		slog.String("total_profit", summary.TotalProfit.StringFixed(2)),
		slog.Duration("duration", time.Since(start)))

	return &ReconcileReport{
		RunID:           runID,
		ReconcileResult: result,
		Summary:         summary,
		Documents:       []DocumentReport{*ordersDoc, *payoutsDoc, *costDoc},
	}, nil
}
