package testutil

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet of a fixture workbook.
type Sheet struct {
	Name string
	Rows [][]any
}

// WorkbookBytes renders sheets into an in-memory .xlsx file.
func WorkbookBytes(t *testing.T, sheets ...Sheet) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.Name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			t.Fatalf("new sheet: %v", err)
		}
		for r, row := range s.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			values := row
			if err := f.SetSheetRow(s.Name, cell, &values); err != nil {
				t.Fatalf("write row %d: %v", r+1, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

// ShopeeOrders is a two-order Shopee export. Order 240105AAA has two lines.
func ShopeeOrders() Sheet {
	return Sheet{Name: "orders", Rows: [][]any{
		{"No. Pesanan", "Status Pesanan", "Waktu Pesanan Dibuat", "Waktu Pengiriman Diatur", "Nama Produk", "Nomor Referensi SKU", "Nama Variasi", "Jumlah", "Metode Pembayaran", "Kota/Kabupaten"},
		{"240105AAA", "Selesai", "2024-01-05 13:45", "2024-01-06 13:45", "Kaos Polos", "KP-M", "Hitam,M", 2, "COD", "KOTA BANDUNG"},
		{"240105AAA", "Selesai", "2024-01-05 13:45", "2024-01-06 13:45", "Topi", "TP-1", "", 1, "COD", "KOTA BANDUNG"},
		{"240106BBB", "Selesai", "2024-01-06 09:10", "", "Kaos Polos", "KP-L", "Hitam,L", 1, "ShopeePay", "KAB. BOGOR"},
	}}
}

// ShopeeIncome settles both fixture orders plus one order that is not in
// ShopeeOrders.
func ShopeeIncome() Sheet {
	return Sheet{Name: "Income", Rows: [][]any{
		{"Laporan Penghasilan"},
		{"No. Pesanan", "Harga Asli Produk", "Total Penghasilan"},
		{"240105AAA", "Rp 200.000", "Rp 180.000"},
		{"240106BBB", "Rp 75.000", "Rp 68.000"},
		{"240107ZZZ", "Rp 10.000", "Rp 9.000"},
	}}
}

// CostCatalog prices KP-M and KP-L but not TP-1.
func CostCatalog() Sheet {
	return Sheet{Name: "HPP", Rows: [][]any{
		{"SKU", "Nama", "HPP"},
		{"KP-M", "Kaos M", "Rp 40.000"},
		{"KP-L", "Kaos L", 42000},
	}}
}

// ProductPerformance is a four-product Shopee performance export, one per quadrant.
func ProductPerformance() Sheet {
	return Sheet{Name: "Performa", Rows: [][]any{
		{"Kode Produk", "Produk", "Halaman Produk Dilihat", "Tingkat Konversi"},
		{"1", "Dog", 10, "1%"},
		{"2", "Star", 40, "5%"},
		{"3", "Question", 30, "1%"},
		{"4", "Cash Cow", 20, "5%"},
	}}
}

// Upload is one file part of a multipart request.
type Upload struct {
	Field    string
	Filename string
	Data     []byte
}

// MultipartRequest builds a POST request carrying uploads as multipart form files.
func MultipartRequest(t *testing.T, target string, uploads ...Upload) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for _, u := range uploads {
		part, err := w.CreateFormFile(u.Field, u.Filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := io.Copy(part, bytes.NewReader(u.Data)); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}
