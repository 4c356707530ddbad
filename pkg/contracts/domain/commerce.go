package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the payment state of an invoice.
type InvoiceStatus string

const (
	InvoicePaid   InvoiceStatus = "PAID"
	InvoiceUnpaid InvoiceStatus = "UNPAID"
)

// Product is a catalog entry owned by the inventory collaborator. A product
// may have any number of variants, each with its own SKU, cost and stock.
type Product struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	SKU      string          `json:"sku"`
	Cost     decimal.Decimal `json:"cost"`
	Price    decimal.Decimal `json:"price"`
	Stock    int64           `json:"stock" validate:"min=0"`
	Variants []Variant       `json:"variants,omitempty" validate:"dive"`
}

// Variant is a sellable variation of a Product.
type Variant struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	SKU   string          `json:"sku"`
	Cost  decimal.Decimal `json:"cost"`
	Price decimal.Decimal `json:"price"`
	Stock int64           `json:"stock" validate:"min=0"`
}

// Expense is an operating expense entry.
type Expense struct {
	Amount   decimal.Decimal `json:"amount"`
	Date     time.Time       `json:"date"`
	Category string          `json:"category"`
}

// InvoiceItem is one line of a direct-sale invoice.
type InvoiceItem struct {
	SKU   string          `json:"sku"`
	Qty   int64           `json:"qty" validate:"min=0"`
	Price decimal.Decimal `json:"price"`
}

// Invoice is a direct-sale invoice. Only PAID invoices count as revenue.
type Invoice struct {
	ID     string          `json:"id"`
	Status InvoiceStatus   `json:"status" validate:"required,oneof=PAID UNPAID"`
	Total  decimal.Decimal `json:"total"`
	Date   time.Time       `json:"date"`
	Items  []InvoiceItem   `json:"items,omitempty" validate:"dive"`
}

// MarketplaceOrder is a settled marketplace sale as stored by the order
// collaborator. A zero Quantity counts as one unit.
type MarketplaceOrder struct {
	OrderID  string          `json:"order_id"`
	SKU      string          `json:"sku"`
	Quantity int64           `json:"quantity" validate:"min=0"`
	Payout   decimal.Decimal `json:"payout"`
	Date     time.Time       `json:"date"`
}

// Units returns the number of units the order sold.
func (o MarketplaceOrder) Units() int64 {
	if o.Quantity <= 0 {
		return 1
	}
	return o.Quantity
}

// Metrics is the dashboard profit summary. It is derived on every call and
// never persisted.
type Metrics struct {
	Revenue         decimal.Decimal `json:"revenue"`
	CostOfGoodsSold decimal.Decimal `json:"cost_of_goods_sold"`
	TotalExpenses   decimal.Decimal `json:"total_expenses"`
	TrueProfit      decimal.Decimal `json:"true_profit"`
	MissingSkus     []string        `json:"missing_skus"`
	Trend           []MonthlyBucket `json:"trend,omitempty"`
}

// MonthlyBucket is one month of the revenue/cost/expense roll-up.
type MonthlyBucket struct {
	Month           string          `json:"month"`
	Revenue         decimal.Decimal `json:"revenue"`
	CostOfGoodsSold decimal.Decimal `json:"cost_of_goods_sold"`
	TotalExpenses   decimal.Decimal `json:"total_expenses"`
	TrueProfit      decimal.Decimal `json:"true_profit"`
}
