package exporter

import (
	"fmt"
	"log/slog"
	"strconv"

	apperrors "sellerpulse/internal/errors"
	"sellerpulse/pkg/contracts/domain"
)

const (
	LedgerFileName      = "ledger.csv"
	MissingSkusFileName = "missing_skus.csv"
	SummaryFileName     = "summary.csv"
)

// LedgerHeaders are the column titles of the ledger export
var LedgerHeaders = []string{
	"order_id", "created_at", "product_name", "variant", "item_count", "quantity",
	"payout", "transaction_value", "total_cost", "profit", "multi_item",
}

// LedgerExporter writes reconciliation results as CSV files
type LedgerExporter struct {
	csvWriter *CSVWriter
	logger    *slog.Logger
}

// NewLedgerExporter creates an exporter writing into outputDir
func NewLedgerExporter(outputDir string, logger *slog.Logger) *LedgerExporter {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "ledger_exporter"))
	return &LedgerExporter{
		csvWriter: NewCSVWriter(outputDir, logger),
		logger:    logger,
	}
}

// ExportedFiles lists what Export wrote
type ExportedFiles struct {
	Ledger      string `json:"ledger"`
	MissingSkus string `json:"missing_skus"`
	Summary     string `json:"summary,omitempty"`
}

// Export writes the ledger, the missing-SKU list and, when summary is not
// nil, the totals. The missing-SKU file is always written, possibly with
// only its header, so a stale list from an earlier run never survives.
func (e *LedgerExporter) Export(result *domain.ReconcileResult, summary *domain.LedgerSummary) (*ExportedFiles, error) {
	if result == nil {
		return nil, fmt.Errorf("nothing to export")
	}

	files := &ExportedFiles{}
	var err error

	files.Ledger, err = e.csvWriter.WriteCSV(LedgerFileName, WriteOptions{
		Headers:   LedgerHeaders,
		Records:   LedgerRecords(result.Orders),
		BOMPrefix: true,
	})
	if err != nil {
		return nil, apperrors.NewStorageError("failed to write ledger", err).WithContext("file", LedgerFileName)
	}

	files.MissingSkus, err = e.csvWriter.WriteCSV(MissingSkusFileName, WriteOptions{
		Headers:   []string{"sku"},
		Records:   MissingSkuRecords(result.MissingSkus),
		BOMPrefix: true,
	})
	if err != nil {
		return nil, apperrors.NewStorageError("failed to write missing skus", err).WithContext("file", MissingSkusFileName)
	}

	if summary != nil {
		files.Summary, err = e.csvWriter.WriteCSV(SummaryFileName, WriteOptions{
			Headers:   []string{"metric", "value"},
			Records:   SummaryRecords(summary),
			BOMPrefix: true,
		})
		if err != nil {
			return nil, apperrors.NewStorageError("failed to write summary", err).WithContext("file", SummaryFileName)
		}
	}

	e.logger.Info("ledger exported",
		slog.String("ledger", files.Ledger),
		slog.Int("orders", len(result.Orders)),
		slog.Int("missing_skus", len(result.MissingSkus)))

	return files, nil
}

// LedgerRecords converts ledger entries to CSV rows in LedgerHeaders order
func LedgerRecords(orders []domain.ReconciledOrder) [][]string {
	records := make([][]string, 0, len(orders))
	for _, o := range orders {
		records = append(records, []string{
			o.OrderID,
			formatTime(o.CreatedAt),
			o.ProductName,
			o.Variant,
			strconv.Itoa(o.ItemCount),
			formatInt(o.Quantity),
			formatMoney(o.Payout),
			formatMoney(o.TransactionValue),
			formatMoney(o.TotalCost),
			formatMoney(o.Profit),
			formatBool(o.MultiItem),
		})
	}
	return records
}

// MissingSkuRecords converts the missing SKU list to one-column rows
func MissingSkuRecords(skus []string) [][]string {
	records := make([][]string, 0, len(skus))
	for _, sku := range skus {
		records = append(records, []string{sku})
	}
	return records
}

// SummaryRecords flattens ledger totals into metric/value rows
func SummaryRecords(s *domain.LedgerSummary) [][]string {
	records := [][]string{
		{"orders", strconv.Itoa(s.Orders)},
		{"multi_item_orders", strconv.Itoa(s.MultiItemOrders)},
		{"total_payout", formatMoney(s.TotalPayout)},
		{"total_revenue", formatMoney(s.TotalRevenue)},
		{"total_cost", formatMoney(s.TotalCost)},
		{"total_profit", formatMoney(s.TotalProfit)},
		{"margin_percent", formatMoney(s.MarginPercent)},
	}
	for i, p := range s.TopProducts {
		records = append(records, []string{fmt.Sprintf("top_%d", i+1), fmt.Sprintf("%s (%s)", p.ProductName, formatMoney(p.Profit))})
	}
	return records
}
