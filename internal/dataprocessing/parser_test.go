package dataprocessing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sellerpulse/pkg/contracts/domain"
)

func shopeeOrderRows() domain.RawSheet {
	return domain.RawSheet{
		{"No. Pesanan", "Status Pesanan", "Waktu Pesanan Dibuat", "SKU Induk", "Nama Produk", "Nomor Referensi SKU", "Nama Variasi", "Harga Awal", "Jumlah", "Total Pembayaran", "Metode Pembayaran", "Kota/Kabupaten"},
		{"240105AAA", "Selesai", "2024-01-05 13:45", "KP", "Kaos Polos", "KP-M", "Hitam,M", "Rp 75.000", "2", "Rp 150.000", "COD", "KOTA BANDUNG"},
		{"240105AAA", "Selesai", "2024-01-05 13:45", "KP", "Kaos Polos", "KP-L", "Hitam,L", "Rp 75.000", "1", "Rp 75.000", "COD", "KOTA BANDUNG"},
		{"", "", "", "", "", "", "", "", "", "", "", ""},
		{"240106BBB", "Dikirim", "2024-01-06 09:10", "TP", "Topi", "TP-1", "", "Rp 40.000", "dua", "Rp 40.000", "ShopeePay", "KAB. BOGOR"},
	}
}

func TestParseOrders(t *testing.T) {
	sheet, err := ParseOrders(shopeeOrderRows())
	require.NoError(t, err)

	require.Len(t, sheet.Lines, 3, "every line is kept, including repeated order IDs")
	assert.Equal(t, ParseStats{HeaderRow: 0, RowsRead: 4, RowsSkipped: 1, CoercionFallbacks: 1}, sheet.Stats)

	first := sheet.Lines[0]
	assert.Equal(t, "240105AAA", first.OrderID)
	assert.Equal(t, "KP-M", first.SKU, "line SKU, not the parent SKU")
	assert.Equal(t, int64(2), first.Quantity)
	assert.Equal(t, "Kaos Polos", first.ProductName)
	assert.Equal(t, "Hitam,M", first.Variant)
	assert.Equal(t, "Selesai", first.Status)
	assert.Equal(t, "COD", first.PaymentMethod)
	assert.Equal(t, "KOTA BANDUNG", first.City)
	assert.Equal(t, time.Date(2024, 1, 5, 13, 45, 0, 0, time.UTC), first.CreatedAt)
	assert.True(t, first.ShippedAt.IsZero())

	assert.Equal(t, int64(1), sheet.Lines[2].Quantity, "unreadable quantity falls back to one")
}

func TestParseOrders_NoEmptyOrderIDs(t *testing.T) {
	sheet, err := ParseOrders(shopeeOrderRows())
	require.NoError(t, err)
	for _, line := range sheet.Lines {
		assert.NotEmpty(t, line.OrderID)
	}
}

func TestParseOrders_Idempotent(t *testing.T) {
	rows := shopeeOrderRows()
	first, err := ParseOrders(rows)
	require.NoError(t, err)
	second, err := ParseOrders(rows)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParseOrders_QuantityDefaultsToOne(t *testing.T) {
	rows := domain.RawSheet{
		{"Order ID", "Seller SKU", "Product Name"},
		{"576894123456789012", "TS-01", "Tumbler"},
	}

	sheet, err := ParseOrders(rows)
	require.NoError(t, err)
	require.Len(t, sheet.Lines, 1)
	assert.Equal(t, int64(1), sheet.Lines[0].Quantity)
	assert.Equal(t, "576894123456789012", sheet.Lines[0].OrderID)
}

func TestParseOrders_NonPositiveQuantity(t *testing.T) {
	rows := domain.RawSheet{
		{"No. Pesanan", "SKU", "Jumlah"},
		{"A", "X", "0"},
		{"B", "X", "-2"},
		{"C", "X", "3"},
	}

	sheet, err := ParseOrders(rows)
	require.NoError(t, err)
	require.Len(t, sheet.Lines, 3)

	assert.Equal(t, int64(1), sheet.Lines[0].Quantity)
	assert.Equal(t, int64(1), sheet.Lines[1].Quantity)
	assert.Equal(t, int64(3), sheet.Lines[2].Quantity)
	assert.Equal(t, 2, sheet.Stats.CoercionFallbacks)
}

func TestReconcile_NonPositiveQuantityNeverRaisesProfit(t *testing.T) {
	orders, err := ParseOrders(domain.RawSheet{
		{"No. Pesanan", "SKU", "Jumlah"},
		{"B", "X", "-2"},
	})
	require.NoError(t, err)

	payouts := []domain.PayoutRecord{{OrderID: "B", Payout: decimal.NewFromInt(100)}}
	result := Reconcile(orders.Lines, payouts, domain.CostCatalog{"X": decimal.NewFromInt(30)})

	require.Len(t, result.Orders, 1)
	assert.Equal(t, "30", result.Orders[0].TotalCost.String())
	assert.Equal(t, "70", result.Orders[0].Profit.String())
}

func TestParseOrders_FormatNotRecognized(t *testing.T) {
	_, err := ParseOrders(domain.RawSheet{{"Tanggal", "Total"}})
	assert.ErrorIs(t, err, ErrFormatNotRecognized)
}

func TestParsePayouts(t *testing.T) {
	rows := domain.RawSheet{
		{"Laporan Penghasilan Saya"},
		{"No. Pesanan", "Harga Asli Produk", "Total Penghasilan", "Tanggal Dana Dilepaskan"},
		{"240105AAA", "Rp 225.000", "Rp 180.000,50", "2024-01-10"},
		{"240106BBB", "", "35000", ""},
		{"", "Rp 1", "Rp 1", ""},
		{"240107CCC", "Rp 10.000", "tidak ada", ""},
	}

	sheet, err := ParsePayouts(rows)
	require.NoError(t, err)
	require.Len(t, sheet.Records, 3)
	assert.Equal(t, 1, sheet.Stats.HeaderRow)
	assert.Equal(t, 1, sheet.Stats.RowsSkipped)
	assert.Equal(t, 1, sheet.Stats.CoercionFallbacks)

	a := sheet.Records[0]
	assertDecimal(t, "180000.5", a.Payout)
	assertDecimal(t, "225000", a.Revenue)
	assert.True(t, a.HasRevenue)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), a.ReleasedAt)

	b := sheet.Records[1]
	assertDecimal(t, "35000", b.Payout)
	assert.False(t, b.HasRevenue)
	assertDecimal(t, "0", b.Revenue)

	assertDecimal(t, "0", sheet.Records[2].Payout)
}

func TestParseCostCatalog(t *testing.T) {
	rows := domain.RawSheet{
		{"SKU", "Nama", "HPP"},
		{"KP-M", "Kaos M", "Rp 40.000"},
		{"", "tanpa sku", "Rp 1"},
		{"KP-L", "Kaos L", 42000.0},
		{"KP-M", "Kaos M (baru)", "Rp 41.500"},
	}

	sheet, err := ParseCostCatalog(rows)
	require.NoError(t, err)

	require.Len(t, sheet.Catalog, 2)
	assertDecimal(t, "41500", sheet.Catalog["KP-M"])
	assertDecimal(t, "42000", sheet.Catalog["KP-L"])
	assert.Equal(t, 1, sheet.Stats.RowsSkipped)
}

func TestParseProductPerformance(t *testing.T) {
	rows := domain.RawSheet{
		{"Kode Produk", "Produk", "Pengunjung Produk", "Halaman Produk Dilihat", "Tingkat Konversi", "Penjualan (IDR)"},
		{"1001", "Kaos Polos", "800", "1.250", "3,5%", "Rp 2.500.000"},
		{"1002", "Topi", "100", 300.0, 0.012, 120000.0},
		{"1003", "", "0", "0", "0%", "0"},
	}

	sheet, err := ParseProductPerformance(rows)
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, 1, sheet.Stats.RowsSkipped)

	kaos := sheet.Rows[0]
	assert.Equal(t, "Kaos Polos", kaos.ProductName)
	assert.Equal(t, "1001", kaos.ProductID)
	assert.InDelta(t, 1250, kaos.Traffic, 1e-9)
	assert.InDelta(t, 3.5, kaos.ConversionRate, 1e-9)
	assert.InDelta(t, 2500000, kaos.Sales, 1e-9)

	topi := sheet.Rows[1]
	assert.InDelta(t, 300, topi.Traffic, 1e-9)
	assert.InDelta(t, 1.2, topi.ConversionRate, 1e-9)
}

func TestParseWorkbook_RecordsSheetName(t *testing.T) {
	wb := &domain.Workbook{Sheets: []domain.NamedSheet{
		{Name: "Ringkasan", Rows: domain.RawSheet{{"Total", "100"}}},
		{Name: "Income", Rows: domain.RawSheet{
			{"Order/adjustment ID", "Total settlement amount"},
			{"576894123456789012", "Rp 50.000"},
		}},
	}}

	sheet, err := ParsePayoutsWorkbook(wb)
	require.NoError(t, err)
	assert.Equal(t, "Income", sheet.Stats.Sheet)
	require.Len(t, sheet.Records, 1)
	assertDecimal(t, "50000", sheet.Records[0].Payout)
}
