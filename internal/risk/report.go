package risk

import (
	"fmt"
	"strings"
	"time"
)

// Report formats a metrics set plus its evaluation window into a text block
func (c *Calculator) Report(m Metrics, start, end time.Time) string {
	var b strings.Builder

	b.WriteString(strings.Repeat("=", 50) + "\n")
	b.WriteString("RISK METRICS\n")
	fmt.Fprintf(&b, "Period: %s → %s\n", start.Format("2006-01-02"), end.Format("2006-01-02"))
	b.WriteString(strings.Repeat("=", 50) + "\n")

	fmt.Fprintf(&b, "Sharpe Ratio:            %.2f\n", m.SharpeRatio)
	fmt.Fprintf(&b, "Sortino Ratio:           %.2f\n", m.SortinoRatio)
	fmt.Fprintf(&b, "Max Drawdown:            %.2f%%\n", m.MaxDrawdown*100)
	fmt.Fprintf(&b, "Calmar Ratio:            %.2f\n", m.CalmarRatio)
	fmt.Fprintf(&b, "Volatility:              %.2f%%\n", m.Volatility*100)
	fmt.Fprintf(&b, "Total Return:            %.2f%%\n", m.TotalReturn*100)
	fmt.Fprintf(&b, "Annualized Return:       %.2f%%\n", m.AnnualizedReturn*100)
	fmt.Fprintf(&b, "Win Rate:                %.1f%%\n", m.WinRate*100)
	fmt.Fprintf(&b, "Profit Factor:           %.2f\n", m.ProfitFactor)
	fmt.Fprintf(&b, "Avg Win:                 %.4f\n", m.AvgWin)
	fmt.Fprintf(&b, "Avg Loss:                %.4f\n", m.AvgLoss)
	fmt.Fprintf(&b, "Max Consecutive Losses:  %d\n", m.MaxConsecutiveLosses)

	return b.String()
}
