package report

const (
	secondsPerMinute = 60.0

	// medianQuantile selects the median with stat.Quantile.
	medianQuantile = 0.5

	// minSpreadIntervals is the fewest RR intervals that have a spread.
	minSpreadIntervals = 2

	jsonIndent = "  "
)
