package dataprocessing

import (
	"math"

	"github.com/shopspring/decimal"

	"sellerpulse/pkg/contracts/domain"
)

// ParseStats counts what a parser did with the rows below the header.
type ParseStats struct {
	Sheet             string `json:"sheet,omitempty"`
	HeaderRow         int    `json:"header_row"`
	RowsRead          int    `json:"rows_read"`
	RowsSkipped       int    `json:"rows_skipped"`
	CoercionFallbacks int    `json:"coercion_fallbacks"`
}

// OrderSheet is the result of parsing an order export.
type OrderSheet struct {
	Lines []domain.OrderLine
	Stats ParseStats
}

// PayoutSheet is the result of parsing an income/settlement report.
type PayoutSheet struct {
	Records []domain.PayoutRecord
	Stats   ParseStats
}

// CostSheet is the result of parsing a cost catalog.
type CostSheet struct {
	Catalog domain.CostCatalog
	Stats   ParseStats
}

// PerformanceSheet is the result of parsing a product performance export.
type PerformanceSheet struct {
	Rows  []domain.ProductPerformanceRow
	Stats ParseStats
}

// ParseOrders reads every order line below the header. Lines are kept as
// they are; several lines may share one order ID.
func ParseOrders(rows domain.RawSheet) (*OrderSheet, error) {
	binding, err := ResolveColumns(rows, OrderSchema)
	if err != nil {
		return nil, err
	}
	return parseOrders(rows, binding), nil
}

// ParsePayouts reads every settled payout row below the header.
func ParsePayouts(rows domain.RawSheet) (*PayoutSheet, error) {
	binding, err := ResolveColumns(rows, PayoutSchema)
	if err != nil {
		return nil, err
	}
	return parsePayouts(rows, binding), nil
}

// ParseCostCatalog reads a SKU to unit cost table. A SKU listed twice keeps
// its last cost.
func ParseCostCatalog(rows domain.RawSheet) (*CostSheet, error) {
	binding, err := ResolveColumns(rows, CostCatalogSchema)
	if err != nil {
		return nil, err
	}
	return parseCostCatalog(rows, binding), nil
}

// ParseProductPerformance reads traffic and conversion per product.
func ParseProductPerformance(rows domain.RawSheet) (*PerformanceSheet, error) {
	binding, err := ResolveColumns(rows, ProductPerformanceSchema)
	if err != nil {
		return nil, err
	}
	return parsePerformance(rows, binding), nil
}

// ParseOrdersWorkbook parses the first sheet of wb that looks like an order export.
func ParseOrdersWorkbook(wb *domain.Workbook) (*OrderSheet, error) {
	sheet, binding, err := SelectSheet(wb, OrderSchema)
	if err != nil {
		return nil, err
	}
	result := parseOrders(sheet.Rows, binding)
	result.Stats.Sheet = sheet.Name
	return result, nil
}

// ParsePayoutsWorkbook parses the first sheet of wb that looks like a payout report.
func ParsePayoutsWorkbook(wb *domain.Workbook) (*PayoutSheet, error) {
	sheet, binding, err := SelectSheet(wb, PayoutSchema)
	if err != nil {
		return nil, err
	}
	result := parsePayouts(sheet.Rows, binding)
	result.Stats.Sheet = sheet.Name
	return result, nil
}

// ParseCostCatalogWorkbook parses the first sheet of wb that carries SKU costs.
func ParseCostCatalogWorkbook(wb *domain.Workbook) (*CostSheet, error) {
	sheet, binding, err := SelectSheet(wb, CostCatalogSchema)
	if err != nil {
		return nil, err
	}
	result := parseCostCatalog(sheet.Rows, binding)
	result.Stats.Sheet = sheet.Name
	return result, nil
}

// ParseProductPerformanceWorkbook parses the first product performance sheet of wb.
func ParseProductPerformanceWorkbook(wb *domain.Workbook) (*PerformanceSheet, error) {
	sheet, binding, err := SelectSheet(wb, ProductPerformanceSchema)
	if err != nil {
		return nil, err
	}
	result := parsePerformance(sheet.Rows, binding)
	result.Stats.Sheet = sheet.Name
	return result, nil
}

func parseOrders(rows domain.RawSheet, b *ColumnBinding) *OrderSheet {
	out := &OrderSheet{Stats: ParseStats{HeaderRow: b.HeaderRow}}
	for _, row := range rows[b.HeaderRow+1:] {
		out.Stats.RowsRead++
		orderID := b.Text(row, FieldOrderID)
		if orderID == "" {
			out.Stats.RowsSkipped++
			continue
		}

		line := domain.OrderLine{
			OrderID:       orderID,
			SKU:           b.Text(row, FieldSKU),
			Quantity:      1,
			ProductName:   b.Text(row, FieldProductName),
			Variant:       b.Text(row, FieldVariant),
			City:          b.Text(row, FieldCity),
			PaymentMethod: b.Text(row, FieldPaymentMethod),
			Status:        b.Text(row, FieldStatus),
		}
		if b.Columns.Has(FieldQuantity) {
			if cell := b.Cell(row, FieldQuantity); CellText(cell) != "" {
				qty, ok := parseLocaleNumber(cell)
				if n := int64(math.Round(qty)); ok && n > 0 {
					line.Quantity = n
				} else {
					out.Stats.CoercionFallbacks++
				}
			}
		}
		line.CreatedAt, _ = ParseTimestamp(b.Cell(row, FieldCreatedAt))
		line.ShippedAt, _ = ParseTimestamp(b.Cell(row, FieldShippedAt))
		line.CompletedAt, _ = ParseTimestamp(b.Cell(row, FieldCompletedAt))

		out.Lines = append(out.Lines, line)
	}
	return out
}

func parsePayouts(rows domain.RawSheet, b *ColumnBinding) *PayoutSheet {
	out := &PayoutSheet{Stats: ParseStats{HeaderRow: b.HeaderRow}}
	for _, row := range rows[b.HeaderRow+1:] {
		out.Stats.RowsRead++
		orderID := b.Text(row, FieldOrderID)
		if orderID == "" {
			out.Stats.RowsSkipped++
			continue
		}

		payout, ok := parseLocaleDecimal(b.Cell(row, FieldPayout))
		if !ok {
			out.Stats.CoercionFallbacks++
		}
		record := domain.PayoutRecord{OrderID: orderID, Payout: payout, Revenue: decimal.Zero}
		if cell := b.Cell(row, FieldRevenue); CellText(cell) != "" {
			revenue, ok := parseLocaleDecimal(cell)
			if !ok {
				out.Stats.CoercionFallbacks++
			}
			record.Revenue = revenue
			record.HasRevenue = true
		}
		record.ReleasedAt, _ = ParseTimestamp(b.Cell(row, FieldReleasedAt))

		out.Records = append(out.Records, record)
	}
	return out
}

func parseCostCatalog(rows domain.RawSheet, b *ColumnBinding) *CostSheet {
	out := &CostSheet{Catalog: make(domain.CostCatalog), Stats: ParseStats{HeaderRow: b.HeaderRow}}
	for _, row := range rows[b.HeaderRow+1:] {
		out.Stats.RowsRead++
		sku := b.Text(row, FieldSKU)
		if sku == "" {
			out.Stats.RowsSkipped++
			continue
		}
		cost, ok := parseLocaleDecimal(b.Cell(row, FieldCost))
		if !ok {
			out.Stats.CoercionFallbacks++
		}
		out.Catalog[sku] = cost
	}
	return out
}

func parsePerformance(rows domain.RawSheet, b *ColumnBinding) *PerformanceSheet {
	out := &PerformanceSheet{Stats: ParseStats{HeaderRow: b.HeaderRow}}
	for _, row := range rows[b.HeaderRow+1:] {
		out.Stats.RowsRead++
		name := b.Text(row, FieldProductName)
		if name == "" {
			out.Stats.RowsSkipped++
			continue
		}

		traffic, ok := parseLocaleNumber(b.Cell(row, FieldTraffic))
		if !ok {
			out.Stats.CoercionFallbacks++
		}
		conversion, ok := parsePercent(b.Cell(row, FieldConversion))
		if !ok {
			out.Stats.CoercionFallbacks++
		}
		sales, ok := parseLocaleNumber(b.Cell(row, FieldSales))
		if !ok {
			out.Stats.CoercionFallbacks++
		}

		out.Rows = append(out.Rows, domain.ProductPerformanceRow{
			ProductName:    name,
			ProductID:      b.Text(row, FieldProductID),
			Traffic:        traffic,
			ConversionRate: conversion,
			Sales:          sales,
		})
	}
	return out
}
