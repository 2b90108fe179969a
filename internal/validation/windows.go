package validation

import (
	"time"

	"circuit-validator/pkg/config"
)

// Window is one (train, test) partition of the date range. Training data ends
// exactly where testing begins: TrainEnd == TestStart, with ranges treated as
// half-open, so no date is visible to both sides.
type Window struct {
	TrainStart time.Time
	TrainEnd   time.Time
	TestStart  time.Time
	TestEnd    time.Time
}

// Period labels the window by its test start, e.g. "2023-04"
func (w Window) Period() string {
	return w.TestStart.Format("2006-01")
}

// GenerateWindows partitions the configured date range into walk-forward
// windows. Test windows start at monthly or quarterly boundaries stepping
// from StartDate; each training window reaches back TrainingWindowDays from
// the test start. Windows whose test range would overrun EndDate are
// discarded, as are windows whose training range would reach back before the
// configured earliest available date. Output is strictly increasing in
// TestStart, which the aggregate statistics depend on.
func GenerateWindows(cfg config.ValidationConfig) ([]Window, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stepMonths := cfg.Frequency.Months()
	var windows []Window

	for boundary := cfg.StartDate; boundary.Before(cfg.EndDate); boundary = boundary.AddDate(0, stepMonths, 0) {
		w := Window{
			TrainStart: boundary.AddDate(0, 0, -cfg.TrainingWindowDays),
			TrainEnd:   boundary,
			TestStart:  boundary,
			TestEnd:    boundary.AddDate(0, 0, cfg.TestWindowDays),
		}

		if w.TestEnd.After(cfg.EndDate) {
			continue
		}
		if !cfg.EarliestDate.IsZero() && w.TrainStart.Before(cfg.EarliestDate) {
			continue
		}

		windows = append(windows, w)
	}

	return windows, nil
}
