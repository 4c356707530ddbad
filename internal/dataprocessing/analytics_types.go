package dataprocessing

// DefaultTopN is how many buckets the city, payment and product rankings keep.
const DefaultTopN = 5

// AnalysisOptions configures the ranking folds.
type AnalysisOptions struct {
	// TopN truncates city, payment method and top product rankings.
	// Zero or less means DefaultTopN.
	TopN int
}

func (o AnalysisOptions) topN() int {
	if o.TopN <= 0 {
		return DefaultTopN
	}
	return o.TopN
}

// NoPeakHour is reported when no order has a creation time.
const NoPeakHour = -1
