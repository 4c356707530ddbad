package dataprocessing

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"sellerpulse/pkg/contracts/domain"
)

func buildWorkbook(t *testing.T, sheets map[string][][]any, order ...string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName(f.GetSheetName(0), name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			values := row
			require.NoError(t, f.SetSheetRow(name, cell, &values))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestDecodeWorkbook_Excel(t *testing.T) {
	data := buildWorkbook(t, map[string][][]any{
		"Catatan": {{"Laporan dibuat otomatis"}},
		"orders": {
			{"Order ID", "Seller SKU", "Quantity", "Product Name"},
			{int64(576894123456789012), "TS-01", 3, "Tumbler"},
			{"576894000000000001", "TS-02", 1.5, "Botol"},
		},
	}, "Catatan", "orders")

	wb, err := DecodeWorkbook(bytes.NewReader(data), "orders.xlsx", DecodeOptions{})
	require.NoError(t, err)

	require.Len(t, wb.Sheets, 2)
	assert.Equal(t, "orders.xlsx", wb.Source)
	assert.Equal(t, Fingerprint(data), wb.Digest)
	assert.Len(t, wb.Digest, 64)
	assert.Equal(t, domain.FormatXLSX, wb.Format)
	assert.Equal(t, int64(len(data)), wb.Size)

	rows := wb.Sheets[1].Rows
	assert.Equal(t, "576894123456789012", rows[1][0], "long numeric IDs stay exact text")
	assert.Equal(t, float64(3), rows[1][2])
	assert.Equal(t, 1.5, rows[2][2])
	assert.Equal(t, "Tumbler", rows[1][3])

	sheet, err := ParseOrdersWorkbook(wb)
	require.NoError(t, err)
	assert.Equal(t, "orders", sheet.Stats.Sheet)
	require.Len(t, sheet.Lines, 2)
	assert.Equal(t, int64(3), sheet.Lines[0].Quantity)
}

func TestDecodeWorkbook_CSV(t *testing.T) {
	t.Run("semicolon delimited with bom", func(t *testing.T) {
		data := "\xEF\xBB\xBFNo. Pesanan;Total Penghasilan\n240105AAA;\"1.000,5\"\n"

		wb, err := DecodeWorkbook(strings.NewReader(data), "income.csv", DecodeOptions{})
		require.NoError(t, err)
		require.Len(t, wb.Sheets, 1)
		assert.Equal(t, domain.FormatCSV, wb.Format)

		sheet, err := ParsePayoutsWorkbook(wb)
		require.NoError(t, err)
		require.Len(t, sheet.Records, 1)
		assert.Equal(t, "240105AAA", sheet.Records[0].OrderID)
		assertDecimal(t, "1000.5", sheet.Records[0].Payout)
	})

	t.Run("windows-1252 fallback", func(t *testing.T) {
		data := []byte("SKU,Nama,HPP\nC-1,Caf\xe9 Latte,12000\n")

		wb, err := DecodeWorkbook(bytes.NewReader(data), "hpp.csv", DecodeOptions{})
		require.NoError(t, err)
		assert.Equal(t, "Café Latte", wb.Sheets[0].Rows[1][1])
	})

	t.Run("ragged rows", func(t *testing.T) {
		data := "SKU,HPP\nA,100\nB\n"

		wb, err := DecodeWorkbook(strings.NewReader(data), "hpp.csv", DecodeOptions{})
		require.NoError(t, err)

		sheet, err := ParseCostCatalogWorkbook(wb)
		require.NoError(t, err)
		assertDecimal(t, "100", sheet.Catalog["A"])
		assertDecimal(t, "0", sheet.Catalog["B"])
	})
}

func TestDecodeWorkbook_Empty(t *testing.T) {
	_, err := DecodeWorkbook(bytes.NewReader(nil), "orders.xlsx", DecodeOptions{})
	assert.ErrorIs(t, err, ErrEmptyUpload)
}

func TestDecodeWorkbook_SniffsZipWithoutExtension(t *testing.T) {
	data := buildWorkbook(t, map[string][][]any{
		"Sheet1": {{"SKU", "HPP"}, {"A", 10}},
	}, "Sheet1")

	wb, err := DecodeWorkbook(bytes.NewReader(data), "upload", DecodeOptions{})
	require.NoError(t, err)
	assert.Equal(t, float64(10), wb.Sheets[0].Rows[1][1])
}

func TestDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hpp.csv")
	require.NoError(t, os.WriteFile(path, []byte("SKU,HPP\nA,100\n"), 0o644))

	wb, err := DecodeFile(path, DecodeOptions{})
	require.NoError(t, err)
	assert.Equal(t, "hpp.csv", wb.Source)

	_, err = DecodeFile(filepath.Join(t.TempDir(), "missing.csv"), DecodeOptions{})
	assert.Error(t, err)
}

func TestSniffDelimiter(t *testing.T) {
	assert.Equal(t, ',', sniffDelimiter([]byte("a,b,c\n1;2")))
	assert.Equal(t, ';', sniffDelimiter([]byte("a;b;c\n")))
	assert.Equal(t, '\t', sniffDelimiter([]byte("a\tb\tc")))
}
