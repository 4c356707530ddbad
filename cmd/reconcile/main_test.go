package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"sellerpulse/internal/config"
	"sellerpulse/internal/shared/testutil"
)

func writeFixture(t *testing.T, dir, name string, sheet testutil.Sheet) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, testutil.WorkbookBytes(t, sheet), 0644))
	return path
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    options
		wantErr string
	}{
		{name: "nothing to do", opts: options{}, wantErr: "nothing to do"},
		{name: "reconcile without costs", opts: options{orders: "o", payouts: "p"}, wantErr: "[-costs]"},
		{name: "reconcile without orders", opts: options{payouts: "p", costs: "c"}, wantErr: "[-orders]"},
		{name: "insights without orders", opts: options{insights: true}, wantErr: "[-orders]"},
		{name: "full reconcile", opts: options{orders: "o", payouts: "p", costs: "c"}},
		{name: "performance only", opts: options{performance: "perf.xlsx"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRun_Reconcile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	opts := options{
		orders:   writeFixture(t, dir, "orders.xlsx", testutil.ShopeeOrders()),
		payouts:  writeFixture(t, dir, "income.xlsx", testutil.ShopeeIncome()),
		costs:    writeFixture(t, dir, "hpp.xlsx", testutil.CostCatalog()),
		outDir:   out,
		xlsx:     true,
		insights: true,
	}

	logger, capture := testutil.NewTestLogger(t)
	require.NoError(t, run(context.Background(), config.Default(), opts, logger))

	f, err := os.Open(filepath.Join(out, "ledger.csv"))
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "order_id", strings.TrimPrefix(records[0][0], "\ufeff"))

	missing, err := os.ReadFile(filepath.Join(out, "missing_skus.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(missing), "TP-1")

	wb, err := excelize.OpenFile(filepath.Join(out, workbookFileName))
	require.NoError(t, err)
	defer wb.Close()
	assert.Contains(t, wb.GetSheetList(), "Ledger")

	data, err := os.ReadFile(filepath.Join(out, insightsFileName))
	require.NoError(t, err)
	var insights map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &insights))
	assert.Equal(t, float64(2), insights["orders"])

	_, ok := capture.Find("Reconciliation complete")
	assert.True(t, ok)
	_, ok = capture.Find("Some SKUs have no cost")
	assert.True(t, ok)
}

func TestRun_Performance(t *testing.T) {
	dir := t.TempDir()
	opts := options{
		performance: writeFixture(t, dir, "performa.xlsx", testutil.ProductPerformance()),
		outDir:      dir,
	}

	logger, _ := testutil.NewTestLogger(t)
	require.NoError(t, run(context.Background(), config.Default(), opts, logger))

	_, err := os.Stat(filepath.Join(dir, quadrantsFileName))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "ledger.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestRun_UnrecognizedPayouts(t *testing.T) {
	dir := t.TempDir()
	opts := options{
		orders:  writeFixture(t, dir, "orders.xlsx", testutil.ShopeeOrders()),
		payouts: writeFixture(t, dir, "income.xlsx", testutil.CostCatalog()),
		costs:   writeFixture(t, dir, "hpp.xlsx", testutil.CostCatalog()),
		outDir:  dir,
	}

	logger, _ := testutil.NewTestLogger(t)
	err := run(context.Background(), config.Default(), opts, logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FORMAT")
}

func TestRun_DiscoverInputs(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "Order.all.20240101.xlsx", testutil.ShopeeOrders())
	writeFixture(t, dir, "Income.sudah dilepas.xlsx", testutil.ShopeeIncome())
	writeFixture(t, dir, "HPP.xlsx", testutil.CostCatalog())
	out := filepath.Join(dir, "out")

	logger, capture := testutil.NewTestLogger(t)
	require.NoError(t, run(context.Background(), config.Default(), options{inDir: dir, outDir: out}, logger))

	_, err := os.Stat(filepath.Join(out, "ledger.csv"))
	assert.NoError(t, err)
	assert.Len(t, capture.FindAll("Input discovered"), 3)
}

func TestRun_InvalidInputs(t *testing.T) {
	dir := t.TempDir()
	logger, _ := testutil.NewTestLogger(t)

	err := run(context.Background(), config.Default(), options{
		orders:  filepath.Join(dir, "missing.xlsx"),
		payouts: "gsheet://abc",
		costs:   "gsheet://def",
		outDir:  dir,
	}, logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")

	err = run(context.Background(), config.Default(), options{inDir: filepath.Join(dir, "nope"), outDir: dir}, logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}
