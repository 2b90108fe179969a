package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"circuit-validator/internal/errors"
	"circuit-validator/pkg/config"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TestGenerateWindows_ChronologicalOrder tests that windows come back
// strictly increasing in test start
func TestGenerateWindows_ChronologicalOrder(t *testing.T) {
	cfg := config.NewValidationConfig(date(2021, 1, 1), date(2023, 12, 31), config.FrequencyMonthly)

	windows, err := GenerateWindows(cfg)
	require.NoError(t, err)
	require.NotEmpty(t, windows)

	for i := 1; i < len(windows); i++ {
		assert.True(t, windows[i].TestStart.After(windows[i-1].TestStart),
			"window %d test start must strictly follow window %d", i, i-1)
	}
}

// TestGenerateWindows_NoTrainTestOverlap tests the boundary invariant on
// every generated window
func TestGenerateWindows_NoTrainTestOverlap(t *testing.T) {
	cfg := config.NewValidationConfig(date(2022, 1, 1), date(2023, 12, 31), config.FrequencyMonthly)

	windows, err := GenerateWindows(cfg)
	require.NoError(t, err)

	for _, w := range windows {
		assert.True(t, w.TrainStart.Before(w.TrainEnd))
		assert.True(t, w.TrainEnd.Equal(w.TestStart), "training must end exactly where testing begins")
		assert.True(t, w.TestStart.Before(w.TestEnd))
	}
}

// TestGenerateWindows_QuarterlyScenario tests the quarterly generation over a
// single year: at least 3 windows, each test range exactly 90 days, none
// overrunning the end date
func TestGenerateWindows_QuarterlyScenario(t *testing.T) {
	cfg := config.NewValidationConfig(date(2023, 1, 1), date(2023, 12, 31), config.FrequencyQuarterly)
	cfg.TrainingWindowDays = 365
	cfg.TestWindowDays = 90

	windows, err := GenerateWindows(cfg)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(windows), 3)

	for i, w := range windows {
		assert.Equal(t, 90.0, w.TestEnd.Sub(w.TestStart).Hours()/24, "window %d test width", i)
		assert.False(t, w.TestEnd.After(cfg.EndDate), "window %d overruns the end date", i)
		if i > 0 {
			assert.False(t, w.TestStart.Before(windows[i-1].TestEnd), "window %d overlaps its predecessor", i)
		}
	}
}

// TestGenerateWindows_DiscardsInsufficientHistory tests the earliest-date
// guard: windows whose training range reaches back before the available data
// are dropped
func TestGenerateWindows_DiscardsInsufficientHistory(t *testing.T) {
	cfg := config.NewValidationConfig(date(2023, 1, 1), date(2023, 12, 31), config.FrequencyMonthly)
	cfg.TrainingWindowDays = 180
	cfg.TestWindowDays = 30
	cfg.EarliestDate = date(2022, 10, 1)

	windows, err := GenerateWindows(cfg)
	require.NoError(t, err)
	require.NotEmpty(t, windows)

	for _, w := range windows {
		assert.False(t, w.TrainStart.Before(cfg.EarliestDate))
	}
	// The January boundary needs history back to July 2022, so it must have
	// been discarded
	assert.True(t, windows[0].TestStart.After(date(2023, 1, 1)))
}

// TestGenerateWindows_TooShortRange tests the degenerate case: no windows,
// no error
func TestGenerateWindows_TooShortRange(t *testing.T) {
	cfg := config.NewValidationConfig(date(2023, 1, 1), date(2023, 2, 1), config.FrequencyMonthly)
	cfg.TestWindowDays = 90

	windows, err := GenerateWindows(cfg)
	require.NoError(t, err)
	assert.Empty(t, windows)
}

// TestGenerateWindows_ConfigErrors tests that invalid configurations fail
// synchronously with a configuration error
func TestGenerateWindows_ConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.ValidationConfig)
	}{
		{"start after end", func(c *config.ValidationConfig) {
			c.StartDate = date(2024, 1, 1)
			c.EndDate = date(2023, 1, 1)
		}},
		{"start equals end", func(c *config.ValidationConfig) {
			c.StartDate = date(2023, 1, 1)
			c.EndDate = date(2023, 1, 1)
		}},
		{"unknown frequency", func(c *config.ValidationConfig) {
			c.Frequency = "weekly"
		}},
		{"zero training window", func(c *config.ValidationConfig) {
			c.TrainingWindowDays = 0
		}},
		{"negative test window", func(c *config.ValidationConfig) {
			c.TestWindowDays = -5
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewValidationConfig(date(2023, 1, 1), date(2023, 12, 31), config.FrequencyMonthly)
			tt.mutate(&cfg)

			_, err := GenerateWindows(cfg)
			require.Error(t, err)

			var verr *errors.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.True(t, verr.IsFatal())
		})
	}
}
