package dataprocessing

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"sellerpulse/pkg/contracts/domain"
)

var cityPrefix = regexp.MustCompile(`(?i)^(?:kota|kabupaten|kab)(?:\.\s*|\s+)`)

// ClassifyQuadrants segments products against the mean traffic and mean
// conversion rate of the whole set. A product exactly on a mean counts as
// high on that axis.
func ClassifyQuadrants(rows []domain.ProductPerformanceRow) *domain.QuadrantReport {
	report := &domain.QuadrantReport{
		Products: make([]domain.QuadrantProduct, 0, len(rows)),
		Counts:   make(map[domain.Quadrant]int, 4),
	}
	if len(rows) == 0 {
		return report
	}

	var trafficSum, conversionSum float64
	for _, r := range rows {
		trafficSum += r.Traffic
		conversionSum += r.ConversionRate
	}
	report.MeanTraffic = trafficSum / float64(len(rows))
	report.MeanConversionRate = conversionSum / float64(len(rows))

	for _, r := range rows {
		q := quadrantOf(r, report.MeanTraffic, report.MeanConversionRate)
		report.Products = append(report.Products, domain.QuadrantProduct{ProductPerformanceRow: r, Quadrant: q})
		report.Counts[q]++
	}
	return report
}

func quadrantOf(r domain.ProductPerformanceRow, meanTraffic, meanConversion float64) domain.Quadrant {
	highTraffic := r.Traffic >= meanTraffic
	highConversion := r.ConversionRate >= meanConversion
	switch {
	case highTraffic && highConversion:
		return domain.QuadrantStar
	case !highTraffic && highConversion:
		return domain.QuadrantCashCow
	case highTraffic && !highConversion:
		return domain.QuadrantQuestion
	default:
		return domain.QuadrantDog
	}
}

// distinctOrders returns the first line of every order, in order of appearance.
func distinctOrders(lines []domain.OrderLine) []domain.OrderLine {
	seen := make(map[string]struct{}, len(lines))
	out := make([]domain.OrderLine, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.OrderID]; ok {
			continue
		}
		seen[l.OrderID] = struct{}{}
		out = append(out, l)
	}
	return out
}

// counter tallies labels and ranks them by count, ties kept in order of
// first appearance.
type counter struct {
	index   map[string]int
	entries []domain.CountEntry
}

func newCounter() *counter {
	return &counter{index: make(map[string]int)}
}

func (c *counter) add(label string) {
	if i, ok := c.index[label]; ok {
		c.entries[i].Count++
		return
	}
	c.index[label] = len(c.entries)
	c.entries = append(c.entries, domain.CountEntry{Label: label, Count: 1})
}

func (c *counter) ranked(limit int) []domain.CountEntry {
	out := make([]domain.CountEntry, len(c.entries))
	copy(out, c.entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// NormalizeCity strips the administrative prefix from a regency/city name
// and title-cases the rest: "KAB. BANDUNG BARAT" becomes "Bandung Barat".
func NormalizeCity(city string) string {
	city = strings.Join(strings.Fields(city), " ")
	city = cityPrefix.ReplaceAllString(city, "")
	if city == "" {
		return ""
	}
	return cases.Title(language.Indonesian).String(strings.ToLower(city))
}

// CityDistribution counts orders per buyer city, highest first.
func CityDistribution(lines []domain.OrderLine, opts AnalysisOptions) []domain.CountEntry {
	c := newCounter()
	for _, l := range distinctOrders(lines) {
		if city := NormalizeCity(l.City); city != "" {
			c.add(city)
		}
	}
	return c.ranked(opts.topN())
}

// PaymentMethodDistribution counts orders per payment method, highest first.
func PaymentMethodDistribution(lines []domain.OrderLine, opts AnalysisOptions) []domain.CountEntry {
	c := newCounter()
	for _, l := range distinctOrders(lines) {
		if method := strings.TrimSpace(l.PaymentMethod); method != "" {
			c.add(method)
		}
	}
	return c.ranked(opts.topN())
}

// WeekdayDistribution counts orders per creation weekday, highest first.
func WeekdayDistribution(lines []domain.OrderLine, opts AnalysisOptions) []domain.CountEntry {
	c := newCounter()
	for _, l := range distinctOrders(lines) {
		if !l.CreatedAt.IsZero() {
			c.add(l.CreatedAt.Weekday().String())
		}
	}
	return c.ranked(opts.topN())
}

// ComputeProcessTimes averages creation-to-shipping and creation-to-completion
// durations and finds the busiest checkout hour. Orders whose timestamps are
// missing or run backwards do not contribute to an average.
func ComputeProcessTimes(lines []domain.OrderLine) domain.ProcessTimes {
	pt := domain.ProcessTimes{PeakHour: NoPeakHour}
	var shipTotal, completeTotal time.Duration

	hours := make(map[int]int)
	var hourOrder []int

	for _, l := range distinctOrders(lines) {
		if l.CreatedAt.IsZero() {
			continue
		}
		h := l.CreatedAt.Hour()
		if _, ok := hours[h]; !ok {
			hourOrder = append(hourOrder, h)
		}
		hours[h]++

		if !l.ShippedAt.IsZero() && !l.ShippedAt.Before(l.CreatedAt) {
			shipTotal += l.ShippedAt.Sub(l.CreatedAt)
			pt.ShippedSamples++
		}
		if !l.CompletedAt.IsZero() && !l.CompletedAt.Before(l.CreatedAt) {
			completeTotal += l.CompletedAt.Sub(l.CreatedAt)
			pt.CompletedSamples++
		}
	}

	if pt.ShippedSamples > 0 {
		pt.AvgShipHours = shipTotal.Hours() / float64(pt.ShippedSamples)
	}
	if pt.CompletedSamples > 0 {
		pt.AvgCompleteHours = completeTotal.Hours() / float64(pt.CompletedSamples)
	}
	for _, h := range hourOrder {
		if hours[h] > pt.PeakHourCount {
			pt.PeakHour = h
			pt.PeakHourCount = hours[h]
		}
	}
	return pt
}

// AnalyzeOrders runs every order-export fold in one pass over lines.
func AnalyzeOrders(lines []domain.OrderLine, opts AnalysisOptions) *domain.OrderInsights {
	return &domain.OrderInsights{
		Orders:         len(distinctOrders(lines)),
		Lines:          len(lines),
		Cities:         CityDistribution(lines, opts),
		PaymentMethods: PaymentMethodDistribution(lines, opts),
		Weekdays:       WeekdayDistribution(lines, opts),
		ProcessTimes:   ComputeProcessTimes(lines),
	}
}

// SummarizeLedger totals a reconciled ledger and ranks products by profit.
// Margin is profit over transaction value, or over payout when the payout
// report carried no revenue column.
func SummarizeLedger(orders []domain.ReconciledOrder, opts AnalysisOptions) *domain.LedgerSummary {
	s := &domain.LedgerSummary{
		Orders:        len(orders),
		TotalPayout:   decimal.Zero,
		TotalRevenue:  decimal.Zero,
		TotalCost:     decimal.Zero,
		TotalProfit:   decimal.Zero,
		MarginPercent: decimal.Zero,
		TopProducts:   []domain.ProductProfit{},
	}

	index := make(map[string]int)
	var products []domain.ProductProfit
	for _, o := range orders {
		if o.MultiItem {
			s.MultiItemOrders++
		}
		s.TotalPayout = s.TotalPayout.Add(o.Payout)
		s.TotalRevenue = s.TotalRevenue.Add(o.TransactionValue)
		s.TotalCost = s.TotalCost.Add(o.TotalCost)
		s.TotalProfit = s.TotalProfit.Add(o.Profit)

		i, ok := index[o.ProductName]
		if !ok {
			i = len(products)
			index[o.ProductName] = i
			products = append(products, domain.ProductProfit{ProductName: o.ProductName, Profit: decimal.Zero})
		}
		products[i].Orders++
		products[i].Profit = products[i].Profit.Add(o.Profit)
	}

	base := s.TotalRevenue
	if base.IsZero() {
		base = s.TotalPayout
	}
	if !base.IsZero() {
		s.MarginPercent = s.TotalProfit.Div(base).Mul(decimal.NewFromInt(100)).Round(2)
	}

	sort.SliceStable(products, func(i, j int) bool { return products[i].Profit.GreaterThan(products[j].Profit) })
	if n := opts.topN(); len(products) > n {
		products = products[:n]
	}
	if products != nil {
		s.TopProducts = products
	}
	return s
}
