// Package shared holds helpers used by more than one package.
//
// testutil carries the log capture handler and the marketplace export
// fixtures (Shopee order and income sheets, HPP catalogs) that service and
// transport tests upload.
package shared
