package dataset

import (
	"sort"
	"time"
)

// FilterByDateRange returns the rows with Date in [start, end). The half-open
// interval is what keeps a window's training rows from bleeding into its test
// rows: a training range ending at a test start date excludes that date.
func FilterByDateRange(rows []Row, start, end time.Time) []Row {
	if len(rows) == 0 {
		return rows
	}

	var filtered []Row
	for _, row := range rows {
		if !row.Date.Before(start) && row.Date.Before(end) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// SortByDate sorts rows by date ascending without modifying the input
func SortByDate(rows []Row) []Row {
	if len(rows) <= 1 {
		return rows
	}

	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

// Returns extracts the forward returns of rows the model flagged positive.
// predictions must be aligned with rows.
func Returns(rows []Row, predictions []int) []float64 {
	var returns []float64
	for i, row := range rows {
		if i < len(predictions) && predictions[i] == 1 {
			returns = append(returns, row.ForwardReturn)
		}
	}
	return returns
}
