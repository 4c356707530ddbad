package exporter

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// formatMoney renders rupiah amounts with two decimals, dot separated, so
// any spreadsheet locale re-imports them as numbers.
func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

func formatBool(b bool) string {
	return strconv.FormatBool(b)
}

// formatTime leaves unknown timestamps blank
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
