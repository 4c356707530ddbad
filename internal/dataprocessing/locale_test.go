package dataprocessing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestNormalizeHeaderText(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"shopee order header", "No. Pesanan", "nopesanan"},
		{"english with space", "Order ID", "orderid"},
		{"slashes and case", "Kota/Kabupaten", "kotakabupaten"},
		{"underscores", "total_penghasilan", "totalpenghasilan"},
		{"nil", nil, ""},
		{"empty", "   ", ""},
		{"numeric cell", float64(2024), "2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeHeaderText(tt.in))
		})
	}
}

func TestParseLocaleNumber(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"rupiah with thousands and decimals", "Rp 1.234.567,89", 1234567.89},
		{"idr prefix", "IDR 25.000", 25000},
		{"lower case rp without space", "rp15.500", 15500},
		{"negative decimal comma", "-12,5", -12.5},
		{"empty string", "", 0},
		{"nil", nil, 0},
		{"int passes through", 1500, 1500},
		{"float passes through", 1234.5, 1234.5},
		{"garbage", "abc", 0},
		{"trailing text", "2 pcs", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseLocaleNumber(tt.in), 1e-9)
		})
	}
}

func TestParseLocaleNumber_ReportsFallbacks(t *testing.T) {
	_, ok := parseLocaleNumber("")
	assert.True(t, ok, "blank is a plain zero")

	_, ok = parseLocaleNumber("n/a")
	assert.False(t, ok)

	_, ok = parseLocaleNumber("Rp 10.000")
	assert.True(t, ok)
}

func TestParseLocaleDecimal(t *testing.T) {
	assertDecimal(t, "180000.50", ParseLocaleDecimal("Rp 180.000,50"))
	assertDecimal(t, "1234.5", ParseLocaleDecimal(1234.5))
	assertDecimal(t, "0", ParseLocaleDecimal("-"))
	assertDecimal(t, "-7500", ParseLocaleDecimal("-7.500"))
}

func TestParsePercent(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"decimal comma with percent sign", "12,5%", 12.5},
		{"fraction is scaled", 0.125, 12.5},
		{"one is one hundred percent", 1.0, 100},
		{"whole number unchanged", 45.0, 45},
		{"dot decimal string", "3.25 %", 3.25},
		{"empty", "", 0},
		{"garbage", "n/a", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParsePercent(tt.in), 1e-9)
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Run("iso wall clock", func(t *testing.T) {
		got, ok := ParseTimestamp("2024-01-05 13:45")
		require.True(t, ok)
		assert.Equal(t, time.Date(2024, 1, 5, 13, 45, 0, 0, time.UTC), got)
	})

	t.Run("day first", func(t *testing.T) {
		got, ok := ParseTimestamp("05/01/2024 08:00")
		require.True(t, ok)
		assert.Equal(t, time.January, got.Month())
		assert.Equal(t, 5, got.Day())
	})

	t.Run("excel serial", func(t *testing.T) {
		got, ok := ParseTimestamp(45000.0)
		require.True(t, ok)
		assert.Equal(t, 2023, got.Year())
		assert.Equal(t, time.March, got.Month())
		assert.Equal(t, 15, got.Day())
	})

	t.Run("unparseable", func(t *testing.T) {
		_, ok := ParseTimestamp("kemarin")
		assert.False(t, ok)
	})

	t.Run("blank", func(t *testing.T) {
		_, ok := ParseTimestamp(nil)
		assert.False(t, ok)
	})
}
