package report

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"os"
	"time"
)

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 2rem auto; max-width: 960px; color: #1f2933; }
h1 { border-bottom: 2px solid #334e68; padding-bottom: .3rem; }
h2 { color: #334e68; margin-top: 2rem; }
table { border-collapse: collapse; width: 100%; margin: 1rem 0; }
th, td { border: 1px solid #cbd2d9; padding: .45rem .7rem; text-align: right; }
th { background: #334e68; color: #fff; }
td:first-child, th:first-child { text-align: left; }
.placeholder { color: #7b8794; font-style: italic; padding: 1rem 0; }
.meta { color: #7b8794; font-size: .85rem; }
img.chart { max-width: 100%; border: 1px solid #cbd2d9; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="meta">Evaluation window: {{.StartLabel}} &rarr; {{.EndLabel}} &middot; Generated: {{.Generated}}</p>

<h2>F1 per walk-forward period</h2>
{{if .ChartB64}}<img class="chart" src="data:image/png;base64,{{.ChartB64}}" alt="F1 per period">
{{else}}<p class="placeholder">No chart: fewer than two scored windows.</p>{{end}}

<h2>Walk-forward iterations</h2>
{{if .Iterations}}
<table>
<tr><th>Period</th><th>F1</th><th>Precision</th><th>Recall</th><th>Samples</th><th>Training</th></tr>
{{range .Iterations}}
<tr><td>{{.Period}}</td><td>{{printf "%.3f" .F1}}</td><td>{{printf "%.3f" .Precision}}</td><td>{{printf "%.3f" .Recall}}</td><td>{{.NSamples}}</td><td>{{.Training}}</td></tr>
{{end}}
</table>
<p class="meta">Consistency rate: {{printf "%.1f" .ConsistencyPct}}%</p>
{{else}}<p class="placeholder">No iterations were scored for this run.</p>{{end}}

<h2>Risk metrics</h2>
{{if .RiskRows}}
<table>
<tr><th>Metric</th><th>Value</th></tr>
{{range .RiskRows}}<tr><td>{{.Label}}</td><td>{{.Value}}</td></tr>{{end}}
</table>
{{else}}<p class="placeholder">No risk metrics available.</p>{{end}}

{{if .Rankings}}
<h2>Strategy ranking</h2>
<table>
<tr><th>Rank</th><th>Strategy</th><th>Model</th><th>Composite</th><th>F1</th><th>Sharpe</th><th>Max DD</th><th>Training</th></tr>
{{range .Rankings}}
<tr><td>{{.Rank}}</td><td>{{.Name}}</td><td>{{.Model}}</td><td>{{printf "%.3f" .Composite}}</td><td>{{printf "%.3f" .F1}}</td><td>{{printf "%.2f" .Sharpe}}</td><td>{{printf "%.2f" .MaxDDPct}}%</td><td>{{.Training}}</td></tr>
{{end}}
</table>
{{end}}
</body>
</html>
`

type htmlIteration struct {
	Period    string
	F1        float64
	Precision float64
	Recall    float64
	NSamples  int
	Training  string
}

type htmlRiskRow struct {
	Label string
	Value string
}

type htmlRanking struct {
	Rank      int
	Name      string
	Model     string
	Composite float64
	F1        float64
	Sharpe    float64
	MaxDDPct  float64
	Training  string
}

type htmlData struct {
	Title          string
	StartLabel     string
	EndLabel       string
	Generated      string
	ChartB64       string
	Iterations     []htmlIteration
	ConsistencyPct float64
	RiskRows       []htmlRiskRow
	Rankings       []htmlRanking
}

var reportTemplate = template.Must(template.New("report").Parse(htmlTemplate))

// GenerateHTML renders the report document. Empty inputs still produce a
// complete document with placeholder sections.
func (g *Generator) GenerateHTML(data Data) ([]byte, error) {
	page := htmlData{
		Title:          data.Title,
		StartLabel:     dateLabel(data.Start),
		EndLabel:       dateLabel(data.End),
		Generated:      data.GeneratedAt.Format("2006-01-02 15:04:05"),
		ConsistencyPct: data.Consistency * 100,
	}
	if page.Title == "" {
		page.Title = g.cfg.Title
	}

	if chart, err := renderF1Chart(data.Iterations); err == nil {
		page.ChartB64 = base64.StdEncoding.EncodeToString(chart)
	} else if len(data.Iterations) >= 2 {
		g.logger.Warn().Err(err).Msg("chart rendering failed, report continues without it")
	}

	for _, it := range data.Iterations {
		page.Iterations = append(page.Iterations, htmlIteration{
			Period:    it.Period,
			F1:        it.F1,
			Precision: it.Precision,
			Recall:    it.Recall,
			NSamples:  it.NSamples,
			Training:  it.TrainingTime.Round(time.Millisecond).String(),
		})
	}

	if data.Risk != nil {
		m := data.Risk
		page.RiskRows = []htmlRiskRow{
			{"Sharpe Ratio", fmt.Sprintf("%.2f", m.SharpeRatio)},
			{"Sortino Ratio", fmt.Sprintf("%.2f", m.SortinoRatio)},
			{"Max Drawdown", fmt.Sprintf("%.2f%%", m.MaxDrawdown*100)},
			{"Calmar Ratio", fmt.Sprintf("%.2f", m.CalmarRatio)},
			{"Volatility", fmt.Sprintf("%.2f%%", m.Volatility*100)},
			{"Total Return", fmt.Sprintf("%.2f%%", m.TotalReturn*100)},
			{"Annualized Return", fmt.Sprintf("%.2f%%", m.AnnualizedReturn*100)},
			{"Win Rate", fmt.Sprintf("%.1f%%", m.WinRate*100)},
			{"Profit Factor", fmt.Sprintf("%.2f", m.ProfitFactor)},
			{"Avg Win", fmt.Sprintf("%.4f", m.AvgWin)},
			{"Avg Loss", fmt.Sprintf("%.4f", m.AvgLoss)},
			{"Max Consecutive Losses", fmt.Sprintf("%d", m.MaxConsecutiveLosses)},
		}
	}

	for _, perf := range data.Performances {
		page.Rankings = append(page.Rankings, htmlRanking{
			Rank:      perf.Rank,
			Name:      perf.Strategy.Name,
			Model:     string(perf.Strategy.ModelType),
			Composite: perf.CompositeScore,
			F1:        perf.F1,
			Sharpe:    perf.Sharpe,
			MaxDDPct:  perf.MaxDrawdown * 100,
			Training:  perf.TrainingTime.Round(time.Millisecond).String(),
		})
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, page); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteHTML renders the report and writes it to path
func (g *Generator) WriteHTML(path string, data Data) error {
	doc, err := g.GenerateHTML(data)
	if err != nil {
		return err
	}
	if err := ensureDirectoryExists(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, doc, 0644); err != nil {
		return err
	}
	g.logger.Info().Str("path", path).Msg("HTML report written")
	return nil
}

func dateLabel(t time.Time) string {
	if t.IsZero() {
		return "n/a"
	}
	return t.Format("2006-01-02")
}
