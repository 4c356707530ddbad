package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sellerpulse/pkg/contracts/domain"
)

func sampleCatalog() []domain.Product {
	return []domain.Product{
		{
			ID: "p-1", Name: "Kaos", SKU: "A", Cost: dec("100"),
			Variants: []domain.Variant{{ID: "v-1", Name: "Kaos M", SKU: "A-1", Cost: dec("50")}},
		},
	}
}

func TestComputeMetrics_ProductAndVariantCosts(t *testing.T) {
	jan := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	orders := []domain.MarketplaceOrder{
		{OrderID: "o-1", SKU: "A", Payout: dec("300"), Date: jan},
		{OrderID: "o-2", SKU: "A-1", Payout: dec("200"), Date: jan},
	}

	m := ComputeMetrics(sampleCatalog(), nil, orders, nil)

	assertDecimal(t, "150", m.CostOfGoodsSold)
	assertDecimal(t, "500", m.Revenue)
	assertDecimal(t, "0", m.TotalExpenses)
	assertDecimal(t, "350", m.TrueProfit)
	assert.Empty(t, m.MissingSkus)
}

func TestComputeMetrics_InvoicesExpensesAndMissingSkus(t *testing.T) {
	jan := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC)

	orders := []domain.MarketplaceOrder{
		{OrderID: "o-1", SKU: "A", Quantity: 2, Payout: dec("300"), Date: jan},
		{OrderID: "o-2", SKU: "ZZ", Payout: dec("80"), Date: feb},
	}
	invoices := []domain.Invoice{
		{ID: "inv-1", Status: domain.InvoicePaid, Total: dec("1000"), Date: feb, Items: []domain.InvoiceItem{{SKU: "A-1", Qty: 4, Price: dec("250")}}},
		{ID: "inv-2", Status: domain.InvoiceUnpaid, Total: dec("500"), Date: feb, Items: []domain.InvoiceItem{{SKU: "A", Qty: 1}}},
	}
	expenses := []domain.Expense{
		{Amount: dec("120"), Date: jan, Category: "ads"},
		{Amount: dec("30"), Category: "misc"},
	}

	m := ComputeMetrics(sampleCatalog(), expenses, orders, invoices)

	assertDecimal(t, "1380", m.Revenue)
	assertDecimal(t, "400", m.CostOfGoodsSold)
	assertDecimal(t, "150", m.TotalExpenses)
	assertDecimal(t, "830", m.TrueProfit)
	assert.Equal(t, []string{"ZZ"}, m.MissingSkus)

	require.Len(t, m.Trend, 2)
	assert.Equal(t, "2024-01", m.Trend[0].Month)
	assertDecimal(t, "300", m.Trend[0].Revenue)
	assertDecimal(t, "200", m.Trend[0].CostOfGoodsSold)
	assertDecimal(t, "120", m.Trend[0].TotalExpenses)
	assertDecimal(t, "-20", m.Trend[0].TrueProfit)

	assert.Equal(t, "2024-02", m.Trend[1].Month)
	assertDecimal(t, "1080", m.Trend[1].Revenue)
	assertDecimal(t, "200", m.Trend[1].CostOfGoodsSold)
	assertDecimal(t, "880", m.Trend[1].TrueProfit)
}

func TestComputeMetrics_IsRecomputedEachCall(t *testing.T) {
	products := sampleCatalog()
	orders := []domain.MarketplaceOrder{{OrderID: "o-1", SKU: "A", Payout: dec("300")}}

	first := ComputeMetrics(products, nil, orders, nil)
	products[0].Cost = dec("10")
	second := ComputeMetrics(products, nil, orders, nil)

	assertDecimal(t, "100", first.CostOfGoodsSold)
	assertDecimal(t, "10", second.CostOfGoodsSold)
	assert.Empty(t, second.Trend, "undated orders stay out of the trend")
}

func TestNewCostIndex_FirstRegistrationWins(t *testing.T) {
	products := []domain.Product{
		{SKU: "A", Cost: dec("100"), Variants: []domain.Variant{{SKU: "A", Cost: dec("1")}, {SKU: "", Cost: dec("2")}}},
		{SKU: "B", Cost: dec("7")},
	}

	idx := NewCostIndex(products)
	require.Len(t, idx, 2)
	assertDecimal(t, "100", idx["A"])
	assertDecimal(t, "7", idx["B"])
}
