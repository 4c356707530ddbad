package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawSheet is a decoded spreadsheet grid: rows of untyped cells.
// Cells are string, float64, int, int64 or nil depending on the decoder.
type RawSheet [][]any

// NamedSheet is one sheet of a decoded workbook.
type NamedSheet struct {
	Name string   `json:"name"`
	Rows RawSheet `json:"-"`
}

// Workbook is the ordered list of sheets decoded from one uploaded file.
// CSV uploads decode into a single-sheet workbook.
type Workbook struct {
	Source string       `json:"source"`
	Format string       `json:"format"`
	Digest string       `json:"digest,omitempty"`
	Size   int64        `json:"size,omitempty"`
	Sheets []NamedSheet `json:"sheets"`
}

// Workbook formats
const (
	FormatXLSX        = "xlsx"
	FormatCSV         = "csv"
	FormatGoogleSheet = "gsheet"
)

// DocumentKind identifies the marketplace export a sheet is parsed as.
type DocumentKind string

const (
	DocumentOrders             DocumentKind = "orders"
	DocumentPayouts            DocumentKind = "payouts"
	DocumentCostCatalog        DocumentKind = "cost_catalog"
	DocumentProductPerformance DocumentKind = "product_performance"
)

// OrderLine is one line-item of a marketplace order. An order with several
// items produces several lines sharing the same OrderID.
type OrderLine struct {
	OrderID       string    `json:"order_id"`
	SKU           string    `json:"sku"`
	Quantity      int64     `json:"quantity"`
	ProductName   string    `json:"product_name"`
	Variant       string    `json:"variant,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	ShippedAt     time.Time `json:"shipped_at,omitempty"`
	CompletedAt   time.Time `json:"completed_at,omitempty"`
	City          string    `json:"city,omitempty"`
	PaymentMethod string    `json:"payment_method,omitempty"`
	Status        string    `json:"status,omitempty"`
}

// PayoutRecord is one settled-funds row from a marketplace income report.
type PayoutRecord struct {
	OrderID    string          `json:"order_id"`
	Payout     decimal.Decimal `json:"payout"`
	Revenue    decimal.Decimal `json:"revenue"`
	HasRevenue bool            `json:"-"`
	ReleasedAt time.Time       `json:"released_at,omitempty"`
}

// CostCatalog maps a SKU to its unit cost (HPP). It is built once per
// reconciliation run and only read afterwards.
type CostCatalog map[string]decimal.Decimal

// Lookup returns the unit cost of sku and whether the catalog knows it.
func (c CostCatalog) Lookup(sku string) (decimal.Decimal, bool) {
	cost, ok := c[sku]
	return cost, ok
}

// ReconciledOrder is one ledger entry: an order joined with its payout and
// the quantity-weighted cost of every line it contains.
type ReconciledOrder struct {
	OrderID          string          `json:"order_id"`
	ProductName      string          `json:"product_name"`
	Variant          string          `json:"variant,omitempty"`
	ItemCount        int             `json:"item_count"`
	Quantity         int64           `json:"quantity"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	Payout           decimal.Decimal `json:"payout"`
	TransactionValue decimal.Decimal `json:"transaction_value"`
	Profit           decimal.Decimal `json:"profit"`
	CreatedAt        time.Time       `json:"created_at"`
	MultiItem        bool            `json:"multi_item"`
}

// ReconcileResult is the output of joining orders, payouts and costs.
//
// MissingSkus lists SKUs that were priced at zero because the catalog does
// not know them; profits that include them are optimistic. OrphanPayouts and
// UnsettledOrders are diagnostics only: those records never reach Orders.
type ReconcileResult struct {
	Orders          []ReconciledOrder `json:"orders"`
	MissingSkus     []string          `json:"missing_skus"`
	OrphanPayouts   []string          `json:"orphan_payouts,omitempty"`
	UnsettledOrders []string          `json:"unsettled_orders,omitempty"`
}

// ProductPerformanceRow is one row of a product performance export.
type ProductPerformanceRow struct {
	ProductName    string  `json:"product_name"`
	ProductID      string  `json:"product_id,omitempty"`
	Traffic        float64 `json:"traffic"`
	ConversionRate float64 `json:"conversion_rate"`
	Sales          float64 `json:"sales,omitempty"`
}
