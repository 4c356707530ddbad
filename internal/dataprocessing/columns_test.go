package dataprocessing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sellerpulse/pkg/contracts/domain"
)

func TestResolveColumns_FindsHeaderBelowTitleRows(t *testing.T) {
	rows := domain.RawSheet{
		{"Laporan Penghasilan"},
		{"Periode", "2024-01-01 - 2024-01-31"},
		{"No. Pesanan", "Harga Asli Produk", "Total Penghasilan"},
		{"240101AAA", "Rp 200.000", "Rp 180.000"},
	}

	binding, err := ResolveColumns(rows, PayoutSchema)
	require.NoError(t, err)

	assert.Equal(t, 2, binding.HeaderRow)
	assert.Equal(t, 0, binding.Columns[FieldOrderID])
	assert.Equal(t, 1, binding.Columns[FieldRevenue])
	assert.Equal(t, 2, binding.Columns[FieldPayout])
	assert.Equal(t, -1, binding.Columns[FieldReleasedAt], "absent optional fields are -1")
	assert.False(t, binding.Columns.Has(FieldReleasedAt))
}

func TestResolveColumns_AnchorAbsent(t *testing.T) {
	rows := domain.RawSheet{
		{"Tanggal", "Keterangan", "Jumlah"},
		{"2024-01-01", "Sewa", "1.000.000"},
	}

	binding, err := ResolveColumns(rows, OrderSchema)
	require.Error(t, err)
	assert.Nil(t, binding)
	assert.True(t, errors.Is(err, ErrFormatNotRecognized))

	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, domain.DocumentOrders, fe.Document)
	assert.Empty(t, fe.MissingFields)
	assert.Contains(t, err.Error(), "nopesanan")
}

func TestResolveColumns_MissingRequiredField(t *testing.T) {
	rows := domain.RawSheet{
		{"No. Pesanan", "Nama Produk", "Jumlah"},
	}

	_, err := ResolveColumns(rows, OrderSchema)
	require.Error(t, err)

	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, []string{FieldSKU}, fe.MissingFields)
	assert.Contains(t, err.Error(), "missing required columns sku")
}

func TestResolveColumns_ExcludedHeadersDoNotBind(t *testing.T) {
	rows := domain.RawSheet{
		{"Kode Produk", "Produk", "Halaman Produk Dilihat", "Tingkat Konversi", "Penjualan (IDR)"},
	}

	binding, err := ResolveColumns(rows, ProductPerformanceSchema)
	require.NoError(t, err)

	assert.Equal(t, 0, binding.Columns[FieldProductID])
	assert.Equal(t, 1, binding.Columns[FieldProductName])
	assert.Equal(t, 2, binding.Columns[FieldTraffic])
	assert.Equal(t, 3, binding.Columns[FieldConversion])
	assert.Equal(t, 4, binding.Columns[FieldSales])
}

func TestResolveColumns_FirstMatchingColumnWins(t *testing.T) {
	rows := domain.RawSheet{
		{"SKU", "HPP", "SKU Lama", "Modal"},
	}

	binding, err := ResolveColumns(rows, CostCatalogSchema)
	require.NoError(t, err)
	assert.Equal(t, 0, binding.Columns[FieldSKU])
	assert.Equal(t, 1, binding.Columns[FieldCost])
}

func TestResolveColumns_OrderSKUHeaders(t *testing.T) {
	tests := []struct {
		name   string
		header []any
		want   int
	}{
		{"plain sku", []any{"No. Pesanan", "SKU", "Jumlah"}, 1},
		{"tokopedia", []any{"Nomor Pesanan", "Nama Produk", "Nomor SKU", "Jumlah Produk"}, 2},
		{"parent sku left of plain sku", []any{"No. Pesanan", "SKU Induk", "SKU", "Jumlah"}, 2},
		{"shopee line sku", []any{"No. Pesanan", "SKU Induk", "Nama Produk", "Nomor Referensi SKU"}, 3},
		{"tiktok platform sku id", []any{"Order ID", "SKU ID", "Seller SKU", "Quantity"}, 2},
		{"lazada", []any{"Order Number", "Lazada SKU", "Seller SKU"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			binding, err := ResolveColumns(domain.RawSheet{tt.header}, OrderSchema)
			require.NoError(t, err)
			assert.Equal(t, tt.want, binding.Columns[FieldSKU])
		})
	}
}

func TestResolveColumns_ParentSKUAloneIsMissing(t *testing.T) {
	_, err := ResolveColumns(domain.RawSheet{{"No. Pesanan", "SKU Induk", "Jumlah"}}, OrderSchema)

	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, []string{FieldSKU}, fe.MissingFields)
}

func TestColumnBinding_ShortRow(t *testing.T) {
	binding := &ColumnBinding{Columns: ColumnIndex{FieldOrderID: 0, FieldCity: 5, FieldVariant: -1}}
	row := []any{" A1 ", "x"}

	assert.Equal(t, "A1", binding.Text(row, FieldOrderID))
	assert.Nil(t, binding.Cell(row, FieldCity))
	assert.Nil(t, binding.Cell(row, FieldVariant))
	assert.Nil(t, binding.Cell(row, "unknown"))
}

func TestSelectSheet(t *testing.T) {
	orders := domain.RawSheet{
		{"No. Pesanan", "Nomor Referensi SKU", "Jumlah"},
		{"A", "SKU-1", 1.0},
	}

	t.Run("skips sheets that do not match", func(t *testing.T) {
		wb := &domain.Workbook{Sheets: []domain.NamedSheet{
			{Name: "Catatan", Rows: domain.RawSheet{{"Dibuat oleh sistem"}}},
			{Name: "orders", Rows: orders},
		}}

		sheet, binding, err := SelectSheet(wb, OrderSchema)
		require.NoError(t, err)
		assert.Equal(t, "orders", sheet.Name)
		assert.Equal(t, 0, binding.HeaderRow)
	})

	t.Run("reports the first sheet when nothing matches", func(t *testing.T) {
		wb := &domain.Workbook{Sheets: []domain.NamedSheet{
			{Name: "Catatan", Rows: domain.RawSheet{{"Dibuat oleh sistem"}}},
			{Name: "Lain", Rows: domain.RawSheet{{"x"}}},
		}}

		_, _, err := SelectSheet(wb, OrderSchema)
		var fe *FormatError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, "Catatan", fe.Sheet)
	})

	t.Run("empty workbook", func(t *testing.T) {
		_, _, err := SelectSheet(&domain.Workbook{}, OrderSchema)
		assert.ErrorIs(t, err, ErrFormatNotRecognized)
	})
}
