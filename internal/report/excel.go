package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// excelStyles holds the workbook styles shared across sheets
type excelStyles struct {
	header  int
	percent int
	base    int
}

// WriteExcel writes the report as a styled workbook with one sheet per
// section. Empty sections still produce their sheet with just the header row.
func (g *Generator) WriteExcel(path string, data Data) error {
	if err := ensureDirectoryExists(path); err != nil {
		return err
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const iterationsSheet = "Iterations"
	const riskSheet = "Risk Metrics"
	const rankingSheet = "Ranking"

	fx.SetSheetName(fx.GetSheetName(0), iterationsSheet)
	fx.NewSheet(riskSheet)
	fx.NewSheet(rankingSheet)

	styles, err := createExcelStyles(fx)
	if err != nil {
		return err
	}

	if err := writeIterationsSheet(fx, iterationsSheet, data, styles); err != nil {
		return err
	}
	if err := writeRiskSheet(fx, riskSheet, data, styles); err != nil {
		return err
	}
	if err := writeRankingSheet(fx, rankingSheet, data, styles); err != nil {
		return err
	}

	if err := fx.SaveAs(path); err != nil {
		return err
	}
	g.logger.Info().Str("path", path).Msg("Excel report written")
	return nil
}

func createExcelStyles(fx *excelize.File) (excelStyles, error) {
	var styles excelStyles
	var err error

	styles.header, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   11,
			Color:  "FFFFFF",
			Family: "Calibri",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"334E68"},
			Pattern: 1,
		},
	})
	if err != nil {
		return styles, err
	}

	styles.percent, err = fx.NewStyle(&excelize.Style{
		NumFmt: 10, // 0.00%
	})
	if err != nil {
		return styles, err
	}

	styles.base, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11, Family: "Calibri"},
	})
	return styles, err
}

func writeIterationsSheet(fx *excelize.File, sheet string, data Data, styles excelStyles) error {
	headers := []interface{}{"Period", "Train Start", "Train End", "Test Start", "Test End", "F1", "Precision", "Recall", "Samples", "Training (s)"}
	if err := writeHeaderRow(fx, sheet, headers, styles); err != nil {
		return err
	}

	for i, it := range data.Iterations {
		row := i + 2
		values := []interface{}{
			it.Period,
			it.TrainStart.Format("2006-01-02"),
			it.TrainEnd.Format("2006-01-02"),
			it.TestStart.Format("2006-01-02"),
			it.TestEnd.Format("2006-01-02"),
			it.F1,
			it.Precision,
			it.Recall,
			it.NSamples,
			it.TrainingTime.Seconds(),
		}
		if err := writeRow(fx, sheet, row, values); err != nil {
			return err
		}
	}
	return nil
}

func writeRiskSheet(fx *excelize.File, sheet string, data Data, styles excelStyles) error {
	headers := []interface{}{"Metric", "Value"}
	if err := writeHeaderRow(fx, sheet, headers, styles); err != nil {
		return err
	}
	if data.Risk == nil {
		return nil
	}

	m := data.Risk
	rows := [][]interface{}{
		{"Sharpe Ratio", m.SharpeRatio},
		{"Sortino Ratio", m.SortinoRatio},
		{"Max Drawdown", m.MaxDrawdown},
		{"Calmar Ratio", m.CalmarRatio},
		{"Volatility", m.Volatility},
		{"Total Return", m.TotalReturn},
		{"Annualized Return", m.AnnualizedReturn},
		{"Win Rate", m.WinRate},
		{"Profit Factor", m.ProfitFactor},
		{"Avg Win", m.AvgWin},
		{"Avg Loss", m.AvgLoss},
		{"Max Consecutive Losses", m.MaxConsecutiveLosses},
	}
	for i, values := range rows {
		if err := writeRow(fx, sheet, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func writeRankingSheet(fx *excelize.File, sheet string, data Data, styles excelStyles) error {
	headers := []interface{}{"Rank", "Strategy", "Model", "Composite", "F1", "Sharpe", "Max Drawdown", "Training (s)"}
	if err := writeHeaderRow(fx, sheet, headers, styles); err != nil {
		return err
	}

	for i, perf := range data.Performances {
		row := i + 2
		values := []interface{}{
			perf.Rank,
			perf.Strategy.Name,
			string(perf.Strategy.ModelType),
			perf.CompositeScore,
			perf.F1,
			perf.Sharpe,
			perf.MaxDrawdown,
			perf.TrainingTime.Seconds(),
		}
		if err := writeRow(fx, sheet, row, values); err != nil {
			return err
		}
	}
	return nil
}

func writeHeaderRow(fx *excelize.File, sheet string, headers []interface{}, styles excelStyles) error {
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := fx.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		if err := fx.SetCellStyle(sheet, cell, cell, styles.header); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(fx *excelize.File, sheet string, row int, values []interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := fx.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("writing %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}
