package report

import (
	"errors"

	charts "github.com/vicanso/go-charts/v2"

	"circuit-validator/internal/validation"
)

// renderF1Chart draws F1 per walk-forward period as a PNG line chart with a
// chronological x-axis
func renderF1Chart(iterations []validation.Iteration) ([]byte, error) {
	if len(iterations) < 2 {
		return nil, errors.New("not enough iterations to chart")
	}

	values := make([]float64, len(iterations))
	labels := make([]string, len(iterations))
	for i, it := range iterations {
		values[i] = it.F1
		labels[i] = it.Period
	}

	yMin := 0.0
	yMax := 1.0

	painter, err := charts.LineRender([][]float64{values},
		charts.TitleTextOptionFunc("F1 score per walk-forward period"),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: labels, BoundaryGap: charts.FalseFlag()}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax, DivideCount: 5}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(900),
		charts.HeightOptionFunc(320),
	)
	if err != nil {
		return nil, err
	}
	return painter.Bytes()
}
