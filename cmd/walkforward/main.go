package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"circuit-validator/internal/model"
	"circuit-validator/internal/monitoring"
	"circuit-validator/internal/report"
	"circuit-validator/internal/validation"
	"circuit-validator/pkg/config"
	"circuit-validator/pkg/dataset"
)

const (
	AppName    = "Upper-Circuit Walk-Forward"
	AppVersion = "1.0.0"
)

func main() {
	flags := NewWalkForwardFlags()
	flag.Parse()

	if *flags.ShowVersion {
		fmt.Printf("%s v%s\n", AppName, AppVersion)
		return
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := godotenv.Load(*flags.EnvFile); err != nil {
		logger.Debug().Str("file", *flags.EnvFile).Msg("no env file loaded, relying on environment")
	}

	if err := ValidateWalkForwardFlags(flags); err != nil {
		logger.Fatal().Err(err).Msg("flag validation failed")
	}

	cfg, err := flags.BuildConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("configuration error")
	}

	strat := flags.BuildStrategy()
	if err := strat.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("strategy configuration error")
	}

	trainer, err := model.ForModelType(strat.ModelType)
	if err != nil {
		logger.Fatal().Err(err).Msg("unknown model type")
	}

	health := monitoring.NewHealthChecker()
	if *flags.MetricsAddr != "" {
		go func() {
			http.Handle("/metrics", monitoring.NewMetricsHandler())
			http.Handle("/health", health)
			if err := http.ListenAndServe(*flags.MetricsAddr, nil); err != nil {
				logger.Warn().Err(err).Msg("metrics endpoint stopped")
			}
		}()
	}

	provider := dataset.NewCachedProvider(dataset.NewCSVProvider(*flags.DataFile, logger))
	validator := validation.NewValidator(provider, trainer, cfg, logger)

	health.RunStarted()
	results, err := validator.Run(context.Background(), strat)
	health.RunFinished(err == nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("walk-forward run failed")
	}

	if len(results.Iterations) == 0 {
		logger.Error().Msg("no valid windows produced — check date range and window sizes")
	}

	reportCfg := config.DefaultReportConfig()
	reportCfg.OutputDirectory = *flags.OutputDir
	reportCfg.HTMLEnabled = *flags.HTML
	reportCfg.ExcelEnabled = *flags.Excel

	generator := report.NewGenerator(reportCfg, logger)
	data := report.FromResults(fmt.Sprintf("%s: %s", AppName, strat.ModelType), cfg, results)

	written, err := generator.Write(data)
	if err != nil {
		logger.Fatal().Err(err).Msg("report generation failed")
	}
	for _, path := range written {
		logger.Info().Str("path", path).Msg("artifact written")
	}
}
