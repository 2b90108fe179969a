package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"circuit-validator/internal/comparator"
	"circuit-validator/internal/risk"
	"circuit-validator/internal/validation"
	"circuit-validator/pkg/config"
)

// Data is everything a report consumes. Every field may be empty: the
// generated artifact always renders, falling back to placeholder sections.
type Data struct {
	Title        string
	Start        time.Time
	End          time.Time
	GeneratedAt  time.Time
	Iterations   []validation.Iteration
	Consistency  float64
	Risk         *risk.Metrics
	Performances []comparator.Performance
}

// Generator renders validation and comparison results into the configured
// artifacts
type Generator struct {
	cfg    config.ReportConfig
	logger zerolog.Logger
}

// NewGenerator creates a report generator
func NewGenerator(cfg config.ReportConfig, logger zerolog.Logger) *Generator {
	return &Generator{
		cfg:    cfg,
		logger: logger.With().Str("component", "report").Logger(),
	}
}

// FromResults builds report data from a single-strategy run
func FromResults(title string, cfg config.ValidationConfig, results *validation.Results) Data {
	data := Data{
		Title:       title,
		Start:       cfg.StartDate,
		End:         cfg.EndDate,
		GeneratedAt: time.Now(),
	}
	if results != nil {
		data.Iterations = results.Iterations
		data.Consistency = results.ConsistencyRate
		riskCopy := results.Risk
		data.Risk = &riskCopy
	}
	return data
}

// FromComparison builds report data from a multi-strategy comparison, using
// the top-ranked strategy's iterations for the chart and risk sections
func FromComparison(title string, cfg config.ValidationConfig, comparison *comparator.Comparison) Data {
	data := Data{
		Title:       title,
		Start:       cfg.StartDate,
		End:         cfg.EndDate,
		GeneratedAt: comparison.GeneratedAt,
	}
	data.Performances = comparison.Performances
	if len(comparison.Performances) > 0 && comparison.Performances[0].Results != nil {
		best := comparison.Performances[0]
		data.Iterations = best.Results.Iterations
		data.Consistency = best.Results.ConsistencyRate
		riskCopy := best.Risk
		data.Risk = &riskCopy
	}
	return data
}

// Write emits every enabled artifact into the output directory and returns
// the paths written
func (g *Generator) Write(data Data) ([]string, error) {
	var written []string

	if g.cfg.EnableConsole {
		g.PrintSummary(data)
	}

	if g.cfg.HTMLEnabled {
		path := filepath.Join(g.cfg.OutputDirectory, "report.html")
		if err := g.WriteHTML(path, data); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if g.cfg.ExcelEnabled {
		path := filepath.Join(g.cfg.OutputDirectory, "report.xlsx")
		if err := g.WriteExcel(path, data); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	return written, nil
}

// ensureDirectoryExists creates the parent directory of path when needed
func ensureDirectoryExists(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
