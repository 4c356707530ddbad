// Package http implements the HTTP handlers of the SellerPulse API. Handlers
// stay thin: they parse multipart uploads or JSON bodies, call a service and
// render the result. Every failure goes through the shared ErrorHandler and
// reaches the client as RFC 7807 problem details.
//
// # Endpoints
//
//	POST /api/reconcile           multipart orders, payouts, costs
//	POST /api/analytics/orders    multipart orders
//	POST /api/analytics/products  multipart performance
//	POST /api/metrics             JSON collaborator data
//	GET  /api/health, /api/health/live, /api/health/ready, /api/version
//
// Each upload field may be replaced by a "<field>_ref" form value holding a
// gsheet:// reference, in which case the sheet is fetched from Google Sheets.
//
// /api/reconcile renders JSON by default; ?format=csv streams the ledger as
// CSV and ?format=xlsx as a workbook.
package http
