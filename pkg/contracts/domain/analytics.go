package domain

import (
	"github.com/shopspring/decimal"
)

// Quadrant is a BCG-style traffic × conversion segment.
type Quadrant string

const (
	QuadrantStar     Quadrant = "STAR"
	QuadrantCashCow  Quadrant = "CASH_COW"
	QuadrantQuestion Quadrant = "QUESTION"
	QuadrantDog      Quadrant = "DOG"
)

// QuadrantProduct is a performance row with its segment.
type QuadrantProduct struct {
	ProductPerformanceRow
	Quadrant Quadrant `json:"quadrant"`
}

// QuadrantReport holds the classification and the averages it is relative to.
type QuadrantReport struct {
	MeanTraffic        float64           `json:"mean_traffic"`
	MeanConversionRate float64           `json:"mean_conversion_rate"`
	Products           []QuadrantProduct `json:"products"`
	Counts             map[Quadrant]int  `json:"counts"`
}

// CountEntry is one bucket of a distribution.
type CountEntry struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ProcessTimes summarizes fulfilment durations and checkout timing.
type ProcessTimes struct {
	AvgShipHours     float64 `json:"avg_ship_hours"`
	ShippedSamples   int     `json:"shipped_samples"`
	AvgCompleteHours float64 `json:"avg_complete_hours"`
	CompletedSamples int     `json:"completed_samples"`
	PeakHour         int     `json:"peak_hour"`
	PeakHourCount    int     `json:"peak_hour_count"`
}

// OrderInsights bundles the distribution and timing folds over an order export.
type OrderInsights struct {
	Orders         int          `json:"orders"`
	Lines          int          `json:"lines"`
	Cities         []CountEntry `json:"cities"`
	PaymentMethods []CountEntry `json:"payment_methods"`
	Weekdays       []CountEntry `json:"weekdays"`
	ProcessTimes   ProcessTimes `json:"process_times"`
}

// ProductProfit is a per-product profit total across the ledger.
type ProductProfit struct {
	ProductName string          `json:"product_name"`
	Orders      int             `json:"orders"`
	Profit      decimal.Decimal `json:"profit"`
}

// LedgerSummary totals a reconciled ledger.
type LedgerSummary struct {
	Orders          int             `json:"orders"`
	MultiItemOrders int             `json:"multi_item_orders"`
	TotalPayout     decimal.Decimal `json:"total_payout"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	TotalProfit     decimal.Decimal `json:"total_profit"`
	MarginPercent   decimal.Decimal `json:"margin_percent"`
	TopProducts     []ProductProfit `json:"top_products"`
}
