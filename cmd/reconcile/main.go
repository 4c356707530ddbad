package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"sellerpulse/internal/config"
	"sellerpulse/internal/dataprocessing"
	"sellerpulse/internal/exporter"
	"sellerpulse/internal/files"
	"sellerpulse/internal/infrastructure"
	"sellerpulse/internal/services"
	"sellerpulse/internal/sources"
	"sellerpulse/internal/validation"
	"sellerpulse/pkg/contracts/domain"
)

const (
	workbookFileName  = "ledger.xlsx"
	insightsFileName  = "order_insights.json"
	quadrantsFileName = "product_quadrants.json"
)

// options are the parsed command line flags. Inputs are file paths or
// gsheet://<spreadsheet-id>[/<range>] references.
type options struct {
	orders      string
	payouts     string
	costs       string
	performance string
	inDir       string
	outDir      string
	xlsx        bool
	insights    bool
}

func main() {
	var opts options
	flag.StringVar(&opts.orders, "orders", "", "order export (.xlsx, .csv or gsheet:// reference)")
	flag.StringVar(&opts.payouts, "payouts", "", "payout/income report (.xlsx, .csv or gsheet:// reference)")
	flag.StringVar(&opts.costs, "costs", "", "cost catalog (.xlsx, .csv or gsheet:// reference)")
	flag.StringVar(&opts.performance, "performance", "", "optional product performance export to classify")
	flag.StringVar(&opts.inDir, "dir", "", "directory to pick unset inputs from by file name")
	flag.StringVar(&opts.outDir, "out", "reports", "output directory")
	flag.BoolVar(&opts.xlsx, "xlsx", false, "also write the ledger as an Excel workbook")
	flag.BoolVar(&opts.insights, "insights", false, "also write order insights computed from -orders")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts, logger); err != nil {
		logger.Error("Reconciliation failed", slog.String("error", err.Error()))
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (o options) reconciles() bool {
	return o.payouts != "" || o.costs != ""
}

func (o options) validate() error {
	if !o.reconciles() && !o.insights && o.performance == "" {
		return errors.New("nothing to do: pass -orders, -payouts and -costs")
	}

	var missing []string
	if o.orders == "" && (o.reconciles() || o.insights) {
		missing = append(missing, "-orders")
	}
	if o.reconciles() {
		if o.payouts == "" {
			missing = append(missing, "-payouts")
		}
		if o.costs == "" {
			missing = append(missing, "-costs")
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required flags: %v", missing)
	}
	return nil
}

// discover fills inputs that were not given explicitly with the newest
// matching file in inDir
func (o *options) discover(logger *slog.Logger) error {
	found, err := files.NewDiscovery("").DiscoverInputs(o.inDir)
	if err != nil {
		return err
	}
	for kind, dst := range map[domain.DocumentKind]*string{
		domain.DocumentOrders:      &o.orders,
		domain.DocumentPayouts:     &o.payouts,
		domain.DocumentCostCatalog: &o.costs,
	} {
		if f, ok := found[kind]; ok && *dst == "" {
			*dst = f.Path
			logger.Info("Input discovered",
				slog.String("document", string(kind)),
				slog.String("file", f.Name))
		}
	}
	return nil
}

// run reconciles the three inputs into outDir and writes the optional
// analytics next to the ledger.
func run(ctx context.Context, cfg *config.Config, opts options, logger *slog.Logger) error {
	validator := validation.NewFileValidator(logger)

	if opts.inDir != "" {
		if err := validator.ValidateInputDirectory(opts.inDir); err != nil {
			return err
		}
		if err := opts.discover(logger); err != nil {
			return err
		}
	}
	if err := opts.validate(); err != nil {
		return err
	}
	for _, ref := range []string{opts.orders, opts.payouts, opts.costs, opts.performance} {
		if ref == "" {
			continue
		}
		if err := validator.ValidateRef(ref); err != nil {
			return err
		}
	}
	if err := validator.ValidateOutputDirectory(opts.outDir); err != nil {
		return err
	}

	decode := dataprocessing.DecodeOptions{FallbackCharset: cfg.Ingest.FallbackCharset}
	svcOpts := services.Options{
		Loader:   sources.NewLoader(cfg.Sources, decode, logger),
		Decode:   decode,
		Analysis: dataprocessing.AnalysisOptions{TopN: cfg.Ingest.TopN},
	}

	if opts.reconciles() {
		if err := reconcile(ctx, svcOpts, opts, logger); err != nil {
			return err
		}
	}

	analytics := services.NewAnalyticsService(svcOpts, logger)
	if opts.insights {
		analysis, err := analytics.AnalyzeOrders(ctx, services.RefInput(opts.orders))
		if err != nil {
			return err
		}
		if err := writeJSON(filepath.Join(opts.outDir, insightsFileName), analysis); err != nil {
			return err
		}
		logger.Info("Order insights written",
			slog.Int("orders", analysis.Orders),
			slog.Int("peak_hour", analysis.ProcessTimes.PeakHour))
	}
	if opts.performance != "" {
		report, err := analytics.ClassifyProducts(ctx, services.RefInput(opts.performance))
		if err != nil {
			return err
		}
		if err := writeJSON(filepath.Join(opts.outDir, quadrantsFileName), report); err != nil {
			return err
		}
		logger.Info("Product quadrants written", slog.Int("products", len(report.Products)))
	}
	return nil
}

func reconcile(ctx context.Context, svcOpts services.Options, opts options, logger *slog.Logger) error {
	report, err := services.NewReconciliationService(svcOpts, logger).Reconcile(ctx, services.ReconcileRequest{
		Orders:  services.RefInput(opts.orders),
		Payouts: services.RefInput(opts.payouts),
		Costs:   services.RefInput(opts.costs),
	})
	if err != nil {
		return err
	}

	written, err := exporter.NewLedgerExporter(opts.outDir, logger).Export(report.ReconcileResult, report.Summary)
	if err != nil {
		return err
	}

	if opts.xlsx {
		if err := writeWorkbook(filepath.Join(opts.outDir, workbookFileName), report); err != nil {
			return err
		}
	}

	if len(report.MissingSkus) > 0 {
		logger.Warn("Some SKUs have no cost; their profit is overstated",
			slog.Any("skus", report.MissingSkus),
			slog.String("file", written.MissingSkus))
	}
	logger.Info("Reconciliation complete",
		slog.String("run_id", report.RunID),
		slog.Int("orders", report.Summary.Orders),
		slog.String("total_profit", report.Summary.TotalProfit.StringFixed(2)),
		slog.String("margin_percent", report.Summary.MarginPercent.StringFixed(2)),
		slog.String("ledger", written.Ledger))
	return nil
}

func writeWorkbook(path string, report *services.ReconcileReport) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create workbook: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return exporter.WriteLedgerWorkbook(f, report.ReconcileResult, report.Summary)
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
