package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	apperrors "sellerpulse/internal/errors"
	"sellerpulse/pkg/contracts/domain"
)

const (
	LedgerSheet      = "Ledger"
	MissingSkusSheet = "Missing SKUs"
	SummarySheet     = "Summary"
)

// moneyFormat is the built-in "#,##0.00" number format
const moneyFormat = 4

// WriteLedgerWorkbook renders the ledger, missing SKUs and summary as an
// .xlsx workbook. Money cells are written as numbers, not text.
func WriteLedgerWorkbook(w io.Writer, result *domain.ReconcileResult, summary *domain.LedgerSummary) error {
	if result == nil {
		return fmt.Errorf("nothing to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", LedgerSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: moneyFormat})
	if err != nil {
		return fmt.Errorf("failed to create money style: %w", err)
	}

	if err := writeRow(f, LedgerSheet, 1, toCells(LedgerHeaders)); err != nil {
		return err
	}
	for i, o := range result.Orders {
		row := []interface{}{
			o.OrderID,
			formatTime(o.CreatedAt),
			o.ProductName,
			o.Variant,
			o.ItemCount,
			o.Quantity,
			o.Payout.InexactFloat64(),
			o.TransactionValue.InexactFloat64(),
			o.TotalCost.InexactFloat64(),
			o.Profit.InexactFloat64(),
			o.MultiItem,
		}
		if err := writeRow(f, LedgerSheet, i+2, row); err != nil {
			return err
		}
	}
	if err := styleRange(f, LedgerSheet, headerStyle, 1, 1, len(LedgerHeaders), 1); err != nil {
		return err
	}
	if len(result.Orders) > 0 {
		// payout..profit
		if err := styleRange(f, LedgerSheet, moneyStyle, 7, 2, 10, len(result.Orders)+1); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(MissingSkusSheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", MissingSkusSheet, err)
	}
	if err := writeRow(f, MissingSkusSheet, 1, []interface{}{"sku"}); err != nil {
		return err
	}
	for i, sku := range result.MissingSkus {
		if err := writeRow(f, MissingSkusSheet, i+2, []interface{}{sku}); err != nil {
			return err
		}
	}
	if err := styleRange(f, MissingSkusSheet, headerStyle, 1, 1, 1, 1); err != nil {
		return err
	}

	if summary != nil {
		if _, err := f.NewSheet(SummarySheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", SummarySheet, err)
		}
		rows := [][]interface{}{
			{"metric", "value"},
			{"orders", summary.Orders},
			{"multi_item_orders", summary.MultiItemOrders},
			{"total_payout", summary.TotalPayout.InexactFloat64()},
			{"total_revenue", summary.TotalRevenue.InexactFloat64()},
			{"total_cost", summary.TotalCost.InexactFloat64()},
			{"total_profit", summary.TotalProfit.InexactFloat64()},
			{"margin_percent", summary.MarginPercent.InexactFloat64()},
		}
		for i, row := range rows {
			if err := writeRow(f, SummarySheet, i+1, row); err != nil {
				return err
			}
		}
		if err := styleRange(f, SummarySheet, headerStyle, 1, 1, 2, 1); err != nil {
			return err
		}
		if err := styleRange(f, SummarySheet, moneyStyle, 2, 4, 2, 8); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(LedgerSheet, "A", "A", 22); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetColWidth(LedgerSheet, "C", "C", 40); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return apperrors.NewStorageError("failed to write workbook", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func styleRange(f *excelize.File, sheet string, style, fromCol, fromRow, toCol, toRow int) error {
	from, err := excelize.CoordinatesToCellName(fromCol, fromRow)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(toCol, toRow)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, from, to, style)
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
