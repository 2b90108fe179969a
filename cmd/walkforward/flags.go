package main

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"circuit-validator/internal/strategy"
	"circuit-validator/pkg/config"
)

// WalkForwardFlags holds all command line flags for the walkforward command
type WalkForwardFlags struct {
	// Data
	DataFile *string
	EnvFile  *string

	// Date range and windowing
	StartDate *string
	EndDate   *string
	Frequency *string
	TrainDays *int
	TestDays  *int
	MinTrain  *int
	MinTest   *int

	// Strategy
	ModelType *string
	Features  *string
	Threshold *float64

	// Output
	OutputDir   *string
	HTML        *bool
	Excel       *bool
	MetricsAddr *string

	ShowVersion *bool
}

// NewWalkForwardFlags registers all flags
func NewWalkForwardFlags() *WalkForwardFlags {
	return &WalkForwardFlags{
		DataFile: flag.String("data", "", "Feature CSV file (date,label,forward_return,features...)"),
		EnvFile:  flag.String("env", ".env", "Environment file to load"),

		StartDate: flag.String("start", "", "First test boundary (YYYY-MM-DD)"),
		EndDate:   flag.String("end", "", "Last date test windows may cover (YYYY-MM-DD)"),
		Frequency: flag.String("frequency", string(config.FrequencyMonthly), "Step between test windows: monthly or quarterly"),
		TrainDays: flag.Int("train-days", config.DefaultTrainingWindowDays, "Training window length in days"),
		TestDays:  flag.Int("test-days", config.DefaultTestWindowDays, "Test window length in days"),
		MinTrain:  flag.Int("min-train", config.DefaultMinTrainSamples, "Minimum training samples per window"),
		MinTest:   flag.Int("min-test", config.DefaultMinTestSamples, "Minimum test samples per window"),

		ModelType: flag.String("model", string(strategy.ModelTypeGradientBoosting), "Model type: gradient_boosting or logistic_regression"),
		Features:  flag.String("features", "", "Comma-separated feature column names"),
		Threshold: flag.Float64("threshold", config.DefaultConsistencyThreshold, "F1 threshold for the consistency rate"),

		OutputDir:   flag.String("output", "results", "Output directory for report artifacts"),
		HTML:        flag.Bool("html", true, "Write the HTML report"),
		Excel:       flag.Bool("excel", false, "Write the Excel report"),
		MetricsAddr: flag.String("metrics-addr", "", "Optional address to expose Prometheus metrics on (e.g. :9100)"),

		ShowVersion: flag.Bool("version", false, "Print version and exit"),
	}
}

// Validate checks flag combinations before any work starts
func ValidateWalkForwardFlags(flags *WalkForwardFlags) error {
	if *flags.ShowVersion {
		return nil
	}
	if *flags.DataFile == "" {
		return fmt.Errorf("-data is required")
	}
	if *flags.StartDate == "" || *flags.EndDate == "" {
		return fmt.Errorf("-start and -end are required")
	}
	if *flags.Features == "" {
		return fmt.Errorf("-features is required")
	}
	return nil
}

// BuildConfig converts flags into a validation config
func (f *WalkForwardFlags) BuildConfig() (config.ValidationConfig, error) {
	start, err := time.Parse("2006-01-02", *f.StartDate)
	if err != nil {
		return config.ValidationConfig{}, fmt.Errorf("invalid -start: %w", err)
	}
	end, err := time.Parse("2006-01-02", *f.EndDate)
	if err != nil {
		return config.ValidationConfig{}, fmt.Errorf("invalid -end: %w", err)
	}

	cfg := config.NewValidationConfig(start, end, config.Frequency(*f.Frequency))
	cfg.TrainingWindowDays = *f.TrainDays
	cfg.TestWindowDays = *f.TestDays
	cfg.MinTrainSamples = *f.MinTrain
	cfg.MinTestSamples = *f.MinTest
	cfg.ConsistencyThreshold = *f.Threshold
	return cfg, cfg.Validate()
}

// BuildStrategy converts flags into the single strategy under validation
func (f *WalkForwardFlags) BuildStrategy() strategy.Strategy {
	var features []string
	for _, name := range strings.Split(*f.Features, ",") {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			features = append(features, trimmed)
		}
	}

	return strategy.Strategy{
		Name:      "walkforward",
		ModelType: strategy.ModelType(*f.ModelType),
		Features:  features,
	}
}
