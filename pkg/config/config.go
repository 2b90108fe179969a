package config

import (
	"fmt"
	"time"

	"circuit-validator/internal/errors"
)

// Default values shared by the CLIs and the library constructors
const (
	DefaultRiskFreeRate         = 0.07 // annual, Indian market convention
	DefaultTradingDaysPerYear   = 252
	DefaultTrainingWindowDays   = 365
	DefaultTestWindowDays       = 90
	DefaultMinTrainSamples      = 50
	DefaultMinTestSamples       = 10
	DefaultConsistencyThreshold = 0.5
)

// Frequency controls the step size between successive test windows
type Frequency string

const (
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
)

// Months returns the number of calendar months per step
func (f Frequency) Months() int {
	switch f {
	case FrequencyMonthly:
		return 1
	case FrequencyQuarterly:
		return 3
	default:
		return 0
	}
}

// ValidationConfig holds the configuration for one walk-forward run.
// StartDate and EndDate delimit the span the test windows may cover; training
// history is allowed to reach back before StartDate unless EarliestDate is
// set (the date before which the data collaborator simply has no rows).
type ValidationConfig struct {
	StartDate            time.Time
	EndDate              time.Time
	EarliestDate         time.Time
	Frequency            Frequency
	TrainingWindowDays   int
	TestWindowDays       int
	MinTrainSamples      int
	MinTestSamples       int
	ConsistencyThreshold float64
	RiskFreeRate         float64
}

// NewValidationConfig returns a config with the package defaults applied
func NewValidationConfig(start, end time.Time, frequency Frequency) ValidationConfig {
	return ValidationConfig{
		StartDate:            start,
		EndDate:              end,
		Frequency:            frequency,
		TrainingWindowDays:   DefaultTrainingWindowDays,
		TestWindowDays:       DefaultTestWindowDays,
		MinTrainSamples:      DefaultMinTrainSamples,
		MinTestSamples:       DefaultMinTestSamples,
		ConsistencyThreshold: DefaultConsistencyThreshold,
		RiskFreeRate:         DefaultRiskFreeRate,
	}
}

// Validate checks the configuration and returns a fatal configuration error
// for anything that would make the run meaningless
func (c ValidationConfig) Validate() error {
	if c.StartDate.IsZero() || c.EndDate.IsZero() {
		return errors.NewConfigError("validation", "Validate", "start and end dates are required")
	}
	if !c.StartDate.Before(c.EndDate) {
		return errors.NewConfigError("validation", "Validate",
			fmt.Sprintf("start date %s must precede end date %s",
				c.StartDate.Format("2006-01-02"), c.EndDate.Format("2006-01-02")))
	}
	if c.Frequency.Months() == 0 {
		return errors.NewConfigError("validation", "Validate",
			fmt.Sprintf("unknown frequency %q (use monthly or quarterly)", c.Frequency))
	}
	if c.TrainingWindowDays <= 0 {
		return errors.NewConfigError("validation", "Validate", "training window must be positive")
	}
	if c.TestWindowDays <= 0 {
		return errors.NewConfigError("validation", "Validate", "test window must be positive")
	}
	if c.ConsistencyThreshold < 0 || c.ConsistencyThreshold > 1 {
		return errors.NewConfigError("validation", "Validate", "consistency threshold must be within [0,1]")
	}
	return nil
}

// ComparisonConfig holds the configuration for a multi-strategy comparison
type ComparisonConfig struct {
	Validation ValidationConfig

	// Composite score weights; must sum to 1
	F1Weight       float64
	SharpeWeight   float64
	DrawdownWeight float64

	// Workers bounds the number of strategies evaluated in parallel.
	// Zero means one worker per CPU.
	Workers int
}

// NewComparisonConfig returns a comparison config with default score weights
func NewComparisonConfig(validation ValidationConfig) ComparisonConfig {
	return ComparisonConfig{
		Validation:     validation,
		F1Weight:       0.5,
		SharpeWeight:   0.3,
		DrawdownWeight: 0.2,
	}
}

// Validate checks the comparison configuration
func (c ComparisonConfig) Validate() error {
	if err := c.Validation.Validate(); err != nil {
		return err
	}
	if c.F1Weight < 0 || c.SharpeWeight < 0 || c.DrawdownWeight < 0 {
		return errors.NewConfigError("comparison", "Validate", "score weights must be non-negative")
	}
	sum := c.F1Weight + c.SharpeWeight + c.DrawdownWeight
	if sum < 0.999 || sum > 1.001 {
		return errors.NewConfigError("comparison", "Validate",
			fmt.Sprintf("score weights must sum to 1, got %.3f", sum))
	}
	if c.Workers < 0 {
		return errors.NewConfigError("comparison", "Validate", "worker count cannot be negative")
	}
	return nil
}

// ReportConfig holds configuration for report generation
type ReportConfig struct {
	EnableConsole   bool
	HTMLEnabled     bool
	ExcelEnabled    bool
	OutputDirectory string
	Title           string
}

// DefaultReportConfig returns the report configuration used by the CLIs
func DefaultReportConfig() ReportConfig {
	return ReportConfig{
		EnableConsole:   true,
		HTMLEnabled:     true,
		ExcelEnabled:    false,
		OutputDirectory: "results",
		Title:           "Upper-Circuit Walk-Forward Validation",
	}
}
