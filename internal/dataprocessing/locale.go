package dataprocessing

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var (
	currencyMarkers = regexp.MustCompile(`(?i)rp|idr|\s`)
	numericPrefix   = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`)
)

// timestampLayouts are the creation/shipping time formats seen in Shopee,
// TikTok Shop and Lazada exports. Order matters: longer layouts first.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02-01-2006 15:04:05",
	"02-01-2006 15:04",
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"02-01-2006",
}

// CellText renders a decoded cell as trimmed text.
func CellText(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(c)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(c), 'f', -1, 32)
	case int:
		return strconv.Itoa(c)
	case int64:
		return strconv.FormatInt(c, 10)
	case bool:
		return strconv.FormatBool(c)
	default:
		return strings.TrimSpace(fmt.Sprint(c))
	}
}

// NormalizeHeaderText lower-cases v and keeps only [a-z0-9], so that
// "No. Pesanan", "NO PESANAN" and "no_pesanan" compare equal.
func NormalizeHeaderText(v any) string {
	s := strings.ToLower(CellText(v))
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// ParseLocaleNumber converts an Indonesian-formatted amount such as
// "Rp 1.234.567,89" to 1234567.89. Numeric cells pass through unchanged.
// Anything unparseable yields 0.
func ParseLocaleNumber(v any) float64 {
	n, _ := parseLocaleNumber(v)
	return n
}

// ParseLocaleDecimal is ParseLocaleNumber with an exact decimal result.
func ParseLocaleDecimal(v any) decimal.Decimal {
	d, _ := parseLocaleDecimal(v)
	return d
}

// ParsePercent returns v on a 0-100 scale. Numeric fractions (0.125) are
// scaled by 100; strings like "12,5%" are parsed as already scaled.
func ParsePercent(v any) float64 {
	n, _ := parsePercent(v)
	return n
}

// ParseTimestamp reads a marketplace timestamp cell. Float cells are Excel
// serial dates. Wall-clock values are interpreted in UTC.
func ParseTimestamp(v any) (time.Time, bool) {
	switch c := v.(type) {
	case time.Time:
		return c, !c.IsZero()
	case float64:
		if c <= 0 || math.IsNaN(c) || math.IsInf(c, 0) {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(c, false)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	case int, int64:
		return ParseTimestamp(asFloat(c))
	}

	s := CellText(v)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseLocaleNumber reports ok=false only for non-blank input that could
// not be read as a number; blank cells are a plain zero.
func parseLocaleNumber(v any) (float64, bool) {
	if f, isNum := numericCell(v); isNum {
		return f, true
	}
	s, blank := normalizeAmount(CellText(v))
	if blank {
		return 0, true
	}
	prefix := numericPrefix.FindString(s)
	if prefix == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(prefix, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parseLocaleDecimal(v any) (decimal.Decimal, bool) {
	if f, isNum := numericCell(v); isNum {
		return decimal.NewFromFloat(f), true
	}
	s, blank := normalizeAmount(CellText(v))
	if blank {
		return decimal.Zero, true
	}
	prefix := numericPrefix.FindString(s)
	if prefix == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(prefix)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func parsePercent(v any) (float64, bool) {
	if f, isNum := numericCell(v); isNum {
		if math.Abs(f) <= 1 {
			return f * 100, true
		}
		return f, true
	}
	s := strings.TrimSpace(CellText(v))
	if s == "" {
		return 0, true
	}
	s = strings.ReplaceAll(s, "%", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.Replace(s, ",", ".", 1)
	prefix := numericPrefix.FindString(s)
	if prefix == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(prefix, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// normalizeAmount strips currency markers and whitespace, drops thousands
// separators and turns the first decimal comma into a dot.
func normalizeAmount(s string) (string, bool) {
	s = currencyMarkers.ReplaceAllString(s, "")
	if s == "" {
		return "", true
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)
	return s, false
}

func numericCell(v any) (float64, bool) {
	switch c := v.(type) {
	case float64:
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return 0, true
		}
		return c, true
	case float32:
		return float64(c), true
	case int, int64, int32:
		return asFloat(c), true
	}
	return 0, false
}

func asFloat(v any) float64 {
	switch c := v.(type) {
	case int:
		return float64(c)
	case int32:
		return float64(c)
	case int64:
		return float64(c)
	case float64:
		return c
	}
	return 0
}
