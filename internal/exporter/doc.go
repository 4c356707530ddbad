// Package exporter writes reconciliation results for people who live in
// spreadsheets.
//
// CSVWriter is the low-level writer, with an optional UTF-8 BOM so Excel
// opens Indonesian product names correctly. LedgerExporter turns a
// ReconcileResult into the ledger and missing-SKU CSV files, and
// WriteLedgerWorkbook renders the same data as a single .xlsx workbook.
//
// Example usage:
//
//	ledger := exporter.NewLedgerExporter("out", logger)
//	files, err := ledger.Export(result, summary)
package exporter
