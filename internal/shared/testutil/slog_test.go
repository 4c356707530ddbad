package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureHandler_KeepsDerivedAttrs(t *testing.T) {
	logger, h := NewTestLogger(nil)

	logger.With(slog.String("component", "reconcile")).Info("ledger built", slog.Int("orders", 2))
	logger.WithGroup("upload").Warn("sheet skipped", slog.String("sheet", "Catatan"))

	records := h.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "reconcile", records[0].Attrs["component"])
	assert.Equal(t, int64(2), records[0].Attrs["orders"])
	assert.Equal(t, "Catatan", records[1].Attrs["upload.sheet"])

	rec, ok := h.Find("ledger")
	require.True(t, ok)
	assert.Equal(t, slog.LevelInfo, rec.Level)
	assert.Equal(t, 1, h.CountLevel(slog.LevelWarn))
}

func TestWorkbookBytes(t *testing.T) {
	data := WorkbookBytes(t, ShopeeOrders(), CostCatalog())
	assert.True(t, len(data) > 4)
	assert.Equal(t, "PK\x03\x04", string(data[:4]))
}
