// Package sources resolves a spreadsheet reference into a decoded workbook.
//
// Two reference forms are understood:
//
//	orders.xlsx                         a local .xlsx/.csv file
//	gsheet://<spreadsheet-id>[/<range>] a Google Sheets document
//
// Google Sheets values are fetched with FORMATTED_VALUE rendering, so every
// cell arrives as the text a seller sees and goes through the same locale
// parsing as a CSV export. Without a range every sheet of the document is
// fetched and the parsers pick the first one whose headers match.
package sources
