package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// CSVProvider implements Provider for feature CSV files
type CSVProvider struct {
	path   string
	format ColumnMapping
	logger zerolog.Logger
}

// NewCSVProvider creates a CSV provider with the default column format
func NewCSVProvider(path string, logger zerolog.Logger) *CSVProvider {
	return NewCSVProviderWithFormat(path, DefaultCSVFormat, logger)
}

// NewCSVProviderWithFormat creates a CSV provider with a custom column format
func NewCSVProviderWithFormat(path string, format ColumnMapping, logger zerolog.Logger) *CSVProvider {
	return &CSVProvider{
		path:   path,
		format: format,
		logger: logger.With().Str("component", "csv_provider").Logger(),
	}
}

// GetName returns the name of the data provider
func (p *CSVProvider) GetName() string {
	return "CSV Provider"
}

// LoadTrainingData loads rows with Date in [start, end)
func (p *CSVProvider) LoadTrainingData(start, end time.Time, features []string) ([]Row, error) {
	return p.loadRange(start, end, features)
}

// LoadTestData loads rows with Date in [start, end)
func (p *CSVProvider) LoadTestData(start, end time.Time, features []string) ([]Row, error) {
	return p.loadRange(start, end, features)
}

func (p *CSVProvider) loadRange(start, end time.Time, features []string) ([]Row, error) {
	rows, err := p.loadAll(features)
	if err != nil {
		return nil, err
	}
	return FilterByDateRange(rows, start, end), nil
}

// loadAll reads and parses the whole file. Malformed lines are skipped with a
// warning rather than failing the load, matching how the upstream collection
// scripts leave the occasional bad row behind.
func (p *CSVProvider) loadAll(features []string) ([]Row, error) {
	file, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("opening feature file %s: %w", p.path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header of %s: %w", p.path, err)
	}

	featureCols, err := p.resolveFeatureColumns(header, features)
	if err != nil {
		return nil, err
	}

	var rows []Row
	lineNum := 1
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("reading CSV at line %d: %w", lineNum, err)
		}
		lineNum++

		if len(record) < p.format.MinColumns {
			p.logger.Warn().Int("line", lineNum).Int("columns", len(record)).
				Msg("insufficient columns, skipping row")
			continue
		}

		date, err := time.Parse(p.format.DateFormat, record[p.format.DateCol])
		if err != nil {
			p.logger.Warn().Int("line", lineNum).Str("value", record[p.format.DateCol]).
				Msg("invalid date, skipping row")
			continue
		}

		label, err := strconv.Atoi(record[p.format.LabelCol])
		if err != nil || (label != 0 && label != 1) {
			p.logger.Warn().Int("line", lineNum).Str("value", record[p.format.LabelCol]).
				Msg("label is not binary, skipping row")
			continue
		}

		fwd, err := strconv.ParseFloat(record[p.format.ForwardReturnCol], 64)
		if err != nil {
			p.logger.Warn().Int("line", lineNum).Str("value", record[p.format.ForwardReturnCol]).
				Msg("invalid forward return, skipping row")
			continue
		}

		featureValues := make(map[string]float64, len(featureCols))
		ok := true
		for name, col := range featureCols {
			if col >= len(record) {
				ok = false
				break
			}
			v, err := strconv.ParseFloat(record[col], 64)
			if err != nil {
				ok = false
				break
			}
			featureValues[name] = v
		}
		if !ok {
			p.logger.Warn().Int("line", lineNum).Msg("unparseable feature value, skipping row")
			continue
		}

		rows = append(rows, Row{
			Date:          date,
			Features:      featureValues,
			Label:         label,
			ForwardReturn: fwd,
		})
	}

	if err := ValidateRows(rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (p *CSVProvider) resolveFeatureColumns(header, features []string) (map[string]int, error) {
	byName := make(map[string]int, len(header))
	for i, name := range header {
		byName[name] = i
	}

	cols := make(map[string]int, len(features))
	for _, f := range features {
		col, ok := byName[f]
		if !ok {
			return nil, fmt.Errorf("feature column %q not present in %s", f, p.path)
		}
		cols[f] = col
	}
	return cols, nil
}

// ValidateRows validates the integrity of loaded rows
func ValidateRows(rows []Row) error {
	for i, row := range rows {
		if row.Label != 0 && row.Label != 1 {
			return fmt.Errorf("invalid label at index %d: must be 0 or 1", i)
		}
		if i > 0 && row.Date.Before(rows[i-1].Date) {
			return fmt.Errorf("invalid date sequence at index %d: rows must be in chronological order", i)
		}
	}
	return nil
}
