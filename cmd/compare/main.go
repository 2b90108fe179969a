package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"circuit-validator/internal/comparator"
	"circuit-validator/internal/report"
	"circuit-validator/internal/strategy"
	"circuit-validator/pkg/config"
	"circuit-validator/pkg/dataset"
)

const (
	AppName    = "Upper-Circuit Strategy Comparison"
	AppVersion = "1.0.0"
)

func main() {
	flags := NewCompareFlags()
	flag.Parse()

	if *flags.ShowVersion {
		fmt.Printf("%s v%s\n", AppName, AppVersion)
		return
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := godotenv.Load(*flags.EnvFile); err != nil {
		logger.Debug().Str("file", *flags.EnvFile).Msg("no env file loaded, relying on environment")
	}

	if err := ValidateCompareFlags(flags); err != nil {
		logger.Fatal().Err(err).Msg("flag validation failed")
	}

	cfg, err := flags.BuildConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("configuration error")
	}

	provider := dataset.NewCachedProvider(dataset.NewCSVProvider(*flags.DataFile, logger))
	comp := comparator.NewComparator(provider, cfg, logger)

	if *flags.FeatureSets != "" {
		runFeatureSets(comp, flags, logger)
		return
	}

	strategies, err := flags.LoadStrategies()
	if err != nil {
		logger.Fatal().Err(err).Msg("loading strategies failed")
	}

	comparison, err := comp.Compare(context.Background(), strategies)
	if err != nil {
		logger.Fatal().Err(err).Msg("comparison failed")
	}

	reportCfg := config.DefaultReportConfig()
	reportCfg.OutputDirectory = *flags.OutputDir
	reportCfg.HTMLEnabled = *flags.HTML
	reportCfg.ExcelEnabled = *flags.Excel
	reportCfg.Title = AppName

	generator := report.NewGenerator(reportCfg, logger)
	data := report.FromComparison(AppName, cfg.Validation, comparison)

	written, err := generator.Write(data)
	if err != nil {
		logger.Fatal().Err(err).Msg("report generation failed")
	}
	for _, path := range written {
		logger.Info().Str("path", path).Msg("artifact written")
	}
}

// runFeatureSets answers "does this feature group help" without the full
// strategy machinery
func runFeatureSets(comp *comparator.Comparator, flags *CompareFlags, logger zerolog.Logger) {
	sets, err := flags.LoadFeatureSets()
	if err != nil {
		logger.Fatal().Err(err).Msg("loading feature sets failed")
	}

	results, err := comp.CompareFeatureSets(context.Background(), sets, strategy.ModelTypeGradientBoosting)
	if err != nil {
		logger.Fatal().Err(err).Msg("feature set comparison failed")
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Feature Set Comparison")
	t.AppendHeader(table.Row{"Feature Set", "F1", "Precision", "Recall", "Windows"})
	for _, row := range results {
		t.AppendRow(table.Row{
			row.Name,
			fmt.Sprintf("%.3f", row.F1),
			fmt.Sprintf("%.3f", row.Precision),
			fmt.Sprintf("%.3f", row.Recall),
			row.Windows,
		})
	}
	t.Render()
}
