package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"circuit-validator/internal/strategy"
	"circuit-validator/pkg/config"
)

// CompareFlags holds all command line flags for the compare command
type CompareFlags struct {
	// Data
	DataFile       *string
	StrategiesFile *string
	FeatureSets    *string
	EnvFile        *string

	// Date range and windowing
	StartDate *string
	EndDate   *string
	Frequency *string
	TrainDays *int
	TestDays  *int

	// Execution
	Workers *int

	// Output
	OutputDir *string
	HTML      *bool
	Excel     *bool

	ShowVersion *bool
}

// NewCompareFlags registers all flags
func NewCompareFlags() *CompareFlags {
	return &CompareFlags{
		DataFile:       flag.String("data", "", "Feature CSV file (date,label,forward_return,features...)"),
		StrategiesFile: flag.String("strategies", "", "JSON file with the strategy definitions to compare"),
		FeatureSets:    flag.String("feature-sets", "", "Optional JSON file of named feature groups to compare instead of full strategies"),
		EnvFile:        flag.String("env", ".env", "Environment file to load"),

		StartDate: flag.String("start", "", "First test boundary (YYYY-MM-DD)"),
		EndDate:   flag.String("end", "", "Last date test windows may cover (YYYY-MM-DD)"),
		Frequency: flag.String("frequency", string(config.FrequencyMonthly), "Step between test windows: monthly or quarterly"),
		TrainDays: flag.Int("train-days", config.DefaultTrainingWindowDays, "Training window length in days"),
		TestDays:  flag.Int("test-days", config.DefaultTestWindowDays, "Test window length in days"),

		Workers: flag.Int("workers", 0, "Strategies evaluated in parallel (0 = one per CPU)"),

		OutputDir: flag.String("output", "results", "Output directory for report artifacts"),
		HTML:      flag.Bool("html", true, "Write the HTML report"),
		Excel:     flag.Bool("excel", false, "Write the Excel report"),

		ShowVersion: flag.Bool("version", false, "Print version and exit"),
	}
}

// ValidateCompareFlags checks flag combinations before any work starts
func ValidateCompareFlags(flags *CompareFlags) error {
	if *flags.ShowVersion {
		return nil
	}
	if *flags.DataFile == "" {
		return fmt.Errorf("-data is required")
	}
	if *flags.StrategiesFile == "" && *flags.FeatureSets == "" {
		return fmt.Errorf("one of -strategies or -feature-sets is required")
	}
	if *flags.StartDate == "" || *flags.EndDate == "" {
		return fmt.Errorf("-start and -end are required")
	}
	return nil
}

// BuildConfig converts flags into a comparison config
func (f *CompareFlags) BuildConfig() (config.ComparisonConfig, error) {
	start, err := time.Parse("2006-01-02", *f.StartDate)
	if err != nil {
		return config.ComparisonConfig{}, fmt.Errorf("invalid -start: %w", err)
	}
	end, err := time.Parse("2006-01-02", *f.EndDate)
	if err != nil {
		return config.ComparisonConfig{}, fmt.Errorf("invalid -end: %w", err)
	}

	vcfg := config.NewValidationConfig(start, end, config.Frequency(*f.Frequency))
	vcfg.TrainingWindowDays = *f.TrainDays
	vcfg.TestWindowDays = *f.TestDays

	cfg := config.NewComparisonConfig(vcfg)
	cfg.Workers = *f.Workers
	return cfg, cfg.Validate()
}

// LoadStrategies reads the strategy definitions file
func (f *CompareFlags) LoadStrategies() ([]strategy.Strategy, error) {
	raw, err := os.ReadFile(*f.StrategiesFile)
	if err != nil {
		return nil, fmt.Errorf("reading strategies file: %w", err)
	}

	var strategies []strategy.Strategy
	if err := json.Unmarshal(raw, &strategies); err != nil {
		return nil, fmt.Errorf("parsing strategies file: %w", err)
	}
	return strategies, nil
}

// LoadFeatureSets reads the named feature-group file
func (f *CompareFlags) LoadFeatureSets() (map[string][]string, error) {
	raw, err := os.ReadFile(*f.FeatureSets)
	if err != nil {
		return nil, fmt.Errorf("reading feature sets file: %w", err)
	}

	var sets map[string][]string
	if err := json.Unmarshal(raw, &sets); err != nil {
		return nil, fmt.Errorf("parsing feature sets file: %w", err)
	}
	return sets, nil
}
