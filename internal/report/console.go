package report

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// PrintSummary writes the iteration table, risk summary and ranking (when
// present) to stdout
func (g *Generator) PrintSummary(data Data) {
	fmt.Printf("\n%s\n", data.Title)
	fmt.Printf("Evaluation window: %s -> %s\n", dateLabel(data.Start), dateLabel(data.End))

	g.printIterations(data)
	g.printRisk(data)
	g.PrintRanking(data)
}

func (g *Generator) printIterations(data Data) {
	if len(data.Iterations) == 0 {
		fmt.Println("\nNo walk-forward iterations were scored.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Walk-Forward Iterations")
	t.AppendHeader(table.Row{"Period", "F1", "Precision", "Recall", "Samples", "Training"})
	for _, it := range data.Iterations {
		t.AppendRow(table.Row{
			it.Period,
			fmt.Sprintf("%.3f", it.F1),
			fmt.Sprintf("%.3f", it.Precision),
			fmt.Sprintf("%.3f", it.Recall),
			it.NSamples,
			it.TrainingTime.Round(time.Millisecond),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
	})
	t.Render()

	fmt.Printf("Consistency rate: %.1f%%\n", data.Consistency*100)
}

func (g *Generator) printRisk(data Data) {
	if data.Risk == nil {
		return
	}
	m := data.Risk

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Risk Metrics")
	t.AppendRows([]table.Row{
		{"Sharpe Ratio", fmt.Sprintf("%.2f", m.SharpeRatio)},
		{"Sortino Ratio", fmt.Sprintf("%.2f", m.SortinoRatio)},
		{"Max Drawdown", fmt.Sprintf("%.2f%%", m.MaxDrawdown*100)},
		{"Volatility", fmt.Sprintf("%.2f%%", m.Volatility*100)},
		{"Total Return", fmt.Sprintf("%.2f%%", m.TotalReturn*100)},
		{"Win Rate", fmt.Sprintf("%.1f%%", m.WinRate*100)},
		{"Profit Factor", fmt.Sprintf("%.2f", m.ProfitFactor)},
		{"Max Consecutive Losses", m.MaxConsecutiveLosses},
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 24, Align: text.AlignLeft},
	})
	t.Render()
}

// PrintRanking writes the strategy ranking table to stdout
func (g *Generator) PrintRanking(data Data) {
	if len(data.Performances) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Strategy Ranking")
	t.AppendHeader(table.Row{"Rank", "Strategy", "Model", "Composite", "F1", "Sharpe", "Max DD"})
	for _, perf := range data.Performances {
		t.AppendRow(table.Row{
			perf.Rank,
			perf.Strategy.Name,
			string(perf.Strategy.ModelType),
			fmt.Sprintf("%.3f", perf.CompositeScore),
			fmt.Sprintf("%.3f", perf.F1),
			fmt.Sprintf("%.2f", perf.Sharpe),
			fmt.Sprintf("%.2f%%", perf.MaxDrawdown*100),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignLeft},
	})
	t.Render()
}
