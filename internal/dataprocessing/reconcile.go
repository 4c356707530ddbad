package dataprocessing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"sellerpulse/pkg/contracts/domain"
)

// orderGroup is every line of one order plus its quantity-weighted cost.
type orderGroup struct {
	lines     []domain.OrderLine
	quantity  int64
	totalCost decimal.Decimal
}

// Reconcile joins payout records to order lines by order ID and prices
// each order against catalog. One ledger entry is produced per payout
// record whose order is known, in payout order. Payouts without an order
// and orders without a payout are only reported as diagnostics.
//
// SKUs missing from the catalog are priced at zero and listed in
// MissingSkus. None of the inputs are modified.
func Reconcile(lines []domain.OrderLine, payouts []domain.PayoutRecord, catalog domain.CostCatalog) *domain.ReconcileResult {
	groups := make(map[string]*orderGroup)
	var groupOrder []string
	missing := newOrderedSet()

	for _, line := range lines {
		g, ok := groups[line.OrderID]
		if !ok {
			g = &orderGroup{totalCost: decimal.Zero}
			groups[line.OrderID] = g
			groupOrder = append(groupOrder, line.OrderID)
		}
		g.lines = append(g.lines, line)
		g.quantity += line.Quantity

		unitCost, known := catalog.Lookup(line.SKU)
		if !known && line.SKU != "" {
			missing.add(line.SKU)
		}
		g.totalCost = g.totalCost.Add(unitCost.Mul(decimal.NewFromInt(line.Quantity)))
	}

	result := &domain.ReconcileResult{
		Orders:      make([]domain.ReconciledOrder, 0, len(payouts)),
		MissingSkus: missing.items(),
	}
	settled := make(map[string]bool, len(payouts))
	orphans := newOrderedSet()

	for _, p := range payouts {
		g, ok := groups[p.OrderID]
		if !ok {
			orphans.add(p.OrderID)
			continue
		}
		settled[p.OrderID] = true

		first := g.lines[0]
		name := first.ProductName
		if extra := len(g.lines) - 1; extra > 0 {
			name = fmt.Sprintf("%s (+%d item)", name, extra)
		}
		transaction := decimal.Zero
		if p.HasRevenue {
			transaction = p.Revenue
		}

		result.Orders = append(result.Orders, domain.ReconciledOrder{
			OrderID:          p.OrderID,
			ProductName:      name,
			Variant:          first.Variant,
			ItemCount:        len(g.lines),
			Quantity:         g.quantity,
			TotalCost:        g.totalCost,
			Payout:           p.Payout,
			TransactionValue: transaction,
			Profit:           p.Payout.Sub(g.totalCost),
			CreatedAt:        first.CreatedAt,
			MultiItem:        len(g.lines) > 1,
		})
	}

	result.OrphanPayouts = orphans.items()
	for _, id := range groupOrder {
		if !settled[id] {
			result.UnsettledOrders = append(result.UnsettledOrders, id)
		}
	}
	return result
}

// orderedSet keeps distinct strings in first-seen order.
type orderedSet struct {
	seen  map[string]struct{}
	order []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (s *orderedSet) add(v string) {
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.order = append(s.order, v)
}

func (s *orderedSet) items() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
