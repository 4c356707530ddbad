package dataprocessing

import (
	"sort"

	"github.com/shopspring/decimal"

	"sellerpulse/pkg/contracts/domain"
)

const monthLayout = "2006-01"

// CostIndex resolves a product or variant SKU to its unit cost. The first
// product or variant registering a SKU owns it.
type CostIndex map[string]decimal.Decimal

// NewCostIndex indexes every product SKU and every variant SKU.
func NewCostIndex(products []domain.Product) CostIndex {
	idx := make(CostIndex)
	register := func(sku string, cost decimal.Decimal) {
		if sku == "" {
			return
		}
		if _, taken := idx[sku]; !taken {
			idx[sku] = cost
		}
	}
	for _, p := range products {
		register(p.SKU, p.Cost)
		for _, v := range p.Variants {
			register(v.SKU, v.Cost)
		}
	}
	return idx
}

// rollUp accumulates revenue, cost of goods and expenses.
type rollUp struct {
	revenue  decimal.Decimal
	cogs     decimal.Decimal
	expenses decimal.Decimal
}

func newRollUp() *rollUp {
	return &rollUp{revenue: decimal.Zero, cogs: decimal.Zero, expenses: decimal.Zero}
}

func (r *rollUp) profit() decimal.Decimal {
	return r.revenue.Sub(r.cogs).Sub(r.expenses)
}

// pricer adds the cost of sold units to a roll-up and remembers SKUs it
// could not price.
type pricer struct {
	costs   CostIndex
	missing *orderedSet
}

func (p *pricer) cost(sku string, units int64) decimal.Decimal {
	unit, ok := p.costs[sku]
	if !ok {
		if sku != "" {
			p.missing.add(sku)
		}
		return decimal.Zero
	}
	return unit.Mul(decimal.NewFromInt(units))
}

// RollUp folds marketplace orders, paid invoices and expenses into totals.
// Revenue is payouts plus paid invoice totals; cost of goods prices each
// unit sold at its product or variant cost.
func RollUp(costs CostIndex, expenses []domain.Expense, orders []domain.MarketplaceOrder, invoices []domain.Invoice) *domain.Metrics {
	p := &pricer{costs: costs, missing: newOrderedSet()}
	total := newRollUp()

	for _, o := range orders {
		total.revenue = total.revenue.Add(o.Payout)
		total.cogs = total.cogs.Add(p.cost(o.SKU, o.Units()))
	}
	for _, inv := range invoices {
		if inv.Status != domain.InvoicePaid {
			continue
		}
		total.revenue = total.revenue.Add(inv.Total)
		for _, item := range inv.Items {
			total.cogs = total.cogs.Add(p.cost(item.SKU, item.Qty))
		}
	}
	for _, e := range expenses {
		total.expenses = total.expenses.Add(e.Amount)
	}

	return &domain.Metrics{
		Revenue:         total.revenue,
		CostOfGoodsSold: total.cogs,
		TotalExpenses:   total.expenses,
		TrueProfit:      total.profit(),
		MissingSkus:     p.missing.items(),
	}
}

// MonthlyTrend is RollUp bucketed by calendar month, oldest first. Entries
// without a date are left out of the trend.
func MonthlyTrend(costs CostIndex, expenses []domain.Expense, orders []domain.MarketplaceOrder, invoices []domain.Invoice) []domain.MonthlyBucket {
	p := &pricer{costs: costs, missing: newOrderedSet()}
	months := make(map[string]*rollUp)
	bucket := func(month string) *rollUp {
		b, ok := months[month]
		if !ok {
			b = newRollUp()
			months[month] = b
		}
		return b
	}

	for _, o := range orders {
		if o.Date.IsZero() {
			continue
		}
		b := bucket(o.Date.Format(monthLayout))
		b.revenue = b.revenue.Add(o.Payout)
		b.cogs = b.cogs.Add(p.cost(o.SKU, o.Units()))
	}
	for _, inv := range invoices {
		if inv.Status != domain.InvoicePaid || inv.Date.IsZero() {
			continue
		}
		b := bucket(inv.Date.Format(monthLayout))
		b.revenue = b.revenue.Add(inv.Total)
		for _, item := range inv.Items {
			b.cogs = b.cogs.Add(p.cost(item.SKU, item.Qty))
		}
	}
	for _, e := range expenses {
		if e.Date.IsZero() {
			continue
		}
		b := bucket(e.Date.Format(monthLayout))
		b.expenses = b.expenses.Add(e.Amount)
	}

	keys := make([]string, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	trend := make([]domain.MonthlyBucket, 0, len(keys))
	for _, k := range keys {
		b := months[k]
		trend = append(trend, domain.MonthlyBucket{
			Month:           k,
			Revenue:         b.revenue,
			CostOfGoodsSold: b.cogs,
			TotalExpenses:   b.expenses,
			TrueProfit:      b.profit(),
		})
	}
	return trend
}

// ComputeMetrics derives the dashboard profit summary from the current
// collaborator data. Nothing is cached; every call recomputes.
func ComputeMetrics(products []domain.Product, expenses []domain.Expense, orders []domain.MarketplaceOrder, invoices []domain.Invoice) *domain.Metrics {
	costs := NewCostIndex(products)
	m := RollUp(costs, expenses, orders, invoices)
	m.Trend = MonthlyTrend(costs, expenses, orders, invoices)
	return m
}
