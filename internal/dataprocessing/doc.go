// Package dataprocessing turns marketplace spreadsheet exports into a
// per-order profit ledger and dashboard figures.
//
// # Pipeline
//
//	Upload → DecodeWorkbook → SelectSheet/ResolveColumns → Parse* → Reconcile → SummarizeLedger
//
// Header rows are located by anchor keywords and every field is bound to a
// column once, through the declarative tables in aliases.go. Rows are then
// read through the binding. Amounts use the Indonesian convention: dots
// group thousands and a comma marks decimals ("Rp 1.234.567,89").
//
// Basic usage:
//
//	orders, err := dataprocessing.ParseOrdersWorkbook(ordersWB)
//	payouts, err := dataprocessing.ParsePayoutsWorkbook(payoutsWB)
//	costs, err := dataprocessing.ParseCostCatalogWorkbook(costsWB)
//	result := dataprocessing.Reconcile(orders.Lines, payouts.Records, costs.Catalog)
//
// # Error Handling
//
// A sheet whose header cannot be found or lacks a required column fails
// with a *FormatError, which matches ErrFormatNotRecognized under errors.Is.
// Rows with a blank key are skipped and cells that cannot be read as
// numbers become zero; both are counted in ParseStats rather than failing.
//
// Everything except DecodeFile is pure: no I/O, no shared state.
package dataprocessing
