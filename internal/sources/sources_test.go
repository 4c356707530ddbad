package sources

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"sellerpulse/internal/config"
	"sellerpulse/internal/dataprocessing"
	"sellerpulse/internal/shared/testutil"
	"sellerpulse/pkg/contracts/domain"
)

func TestParseRef(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Ref
		wantErr bool
	}{
		{name: "local file", in: "exports/orders.xlsx", want: Ref{Kind: RefFile, Path: "exports/orders.xlsx"}},
		{name: "sheet without range", in: "gsheet://abc123", want: Ref{Kind: RefGoogleSheet, SpreadsheetID: "abc123"}},
		{name: "sheet with escaped range", in: "gsheet://abc123/Income%20Mei!A1:F", want: Ref{Kind: RefGoogleSheet, SpreadsheetID: "abc123", Range: "Income Mei!A1:F"}},
		{name: "scheme is case-insensitive", in: "GSHEET://abc/HPP", want: Ref{Kind: RefGoogleSheet, SpreadsheetID: "abc", Range: "HPP"}},
		{name: "empty", in: "  ", wantErr: true},
		{name: "missing id", in: "gsheet:///A1:B2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRef(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRef)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRef_String(t *testing.T) {
	assert.Equal(t, "a.csv", Ref{Kind: RefFile, Path: "a.csv"}.String())
	assert.Equal(t, "gsheet://id", Ref{Kind: RefGoogleSheet, SpreadsheetID: "id"}.String())
	assert.Equal(t, "gsheet://id/HPP!A:C", Ref{Kind: RefGoogleSheet, SpreadsheetID: "id", Range: "HPP!A:C"}.String())
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Income", sheetName("Income!A1:F20"))
	assert.Equal(t, "Ringkasan 'Mei'", sheetName("'Ringkasan ''Mei'''!A1:B2"))
	assert.Equal(t, "HPP", sheetName("HPP"))
	assert.Equal(t, "'Order'", quoteSheetTitle("Order"))
}

func TestLoader_LocalFile(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	path := filepath.Join(t.TempDir(), "hpp.xlsx")
	require.NoError(t, os.WriteFile(path, testutil.WorkbookBytes(t, testutil.CostCatalog()), 0o600))

	loader := NewLoader(config.SourcesConfig{}, dataprocessing.DecodeOptions{}, logger)
	wb, err := loader.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, domain.FormatXLSX, wb.Format)
	assert.Equal(t, "hpp.xlsx", wb.Source)

	_, err = loader.Load(context.Background(), filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}

func TestLoader_GoogleSheetWithoutCredentials(t *testing.T) {
	loader := NewLoader(config.SourcesConfig{}, dataprocessing.DecodeOptions{}, nil)
	_, err := loader.Load(context.Background(), "gsheet://abc/Income")
	assert.ErrorIs(t, err, ErrNoCredentials)
}

// fakeSheetsAPI serves the two Sheets endpoints the loader calls
func fakeSheetsAPI(t *testing.T, listCalls *int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v4/spreadsheets/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/values:batchGet"):
			ranges := r.URL.Query()["ranges"]
			out := map[string]interface{}{"spreadsheetId": "doc1"}
			var valueRanges []map[string]interface{}
			for _, rng := range ranges {
				vr := map[string]interface{}{"range": rng + "!A1:C3", "majorDimension": "ROWS"}
				if strings.Contains(rng, "Pesanan") {
					vr["values"] = [][]interface{}{
						{"No. Pesanan", "Nomor Referensi SKU", "Jumlah"},
						{"240105AAA", "KP-M", "2"},
					}
				} else {
					vr["values"] = [][]interface{}{{"Catatan"}, {"bukan data"}}
				}
				valueRanges = append(valueRanges, vr)
			}
			out["valueRanges"] = valueRanges
			require.NoError(t, json.NewEncoder(w).Encode(out))
		default:
			atomic.AddInt32(listCalls, 1)
			require.NoError(t, json.NewEncoder(w).Encode(map[string]interface{}{
				"sheets": []map[string]interface{}{
					{"properties": map[string]interface{}{"title": "Catatan"}},
					{"properties": map[string]interface{}{"title": "Pesanan"}},
				},
			}))
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLoader_GoogleSheet(t *testing.T) {
	var listCalls int32
	srv := fakeSheetsAPI(t, &listCalls)
	logger, _ := testutil.NewTestLogger(t)

	loader := NewLoader(config.SourcesConfig{}, dataprocessing.DecodeOptions{}, logger,
		WithClientOptions(option.WithEndpoint(srv.URL+"/"), option.WithoutAuthentication()))

	t.Run("every sheet when no range is given", func(t *testing.T) {
		wb, err := loader.Load(context.Background(), "gsheet://doc1")
		require.NoError(t, err)

		assert.Equal(t, domain.FormatGoogleSheet, wb.Format)
		assert.Equal(t, "gsheet://doc1", wb.Source)
		assert.Len(t, wb.Digest, 64)
		require.Len(t, wb.Sheets, 2)
		assert.Equal(t, "Catatan", wb.Sheets[0].Name)
		assert.Equal(t, "Pesanan", wb.Sheets[1].Name)
		assert.Equal(t, int32(1), atomic.LoadInt32(&listCalls))

		orders, err := dataprocessing.ParseOrdersWorkbook(wb)
		require.NoError(t, err)
		assert.Equal(t, "Pesanan", orders.Stats.Sheet)
		require.Len(t, orders.Lines, 1)
		assert.Equal(t, int64(2), orders.Lines[0].Quantity)
	})

	t.Run("explicit range skips the listing", func(t *testing.T) {
		wb, err := loader.Load(context.Background(), "gsheet://doc1/Pesanan")
		require.NoError(t, err)
		require.Len(t, wb.Sheets, 1)
		assert.Equal(t, "Pesanan", wb.Sheets[0].Name)
		assert.Equal(t, int32(1), atomic.LoadInt32(&listCalls))
	})
}
