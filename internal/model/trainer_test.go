package model

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"circuit-validator/internal/strategy"
	"circuit-validator/pkg/dataset"
)

// separableRows builds rows where label = 1 iff x1 > threshold, with a second
// irrelevant feature
func separableRows(n int, threshold float64) []dataset.Row {
	rng := rand.New(rand.NewSource(11))
	rows := make([]dataset.Row, n)
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range rows {
		x1 := rng.Float64()
		label := 0
		if x1 > threshold {
			label = 1
		}
		rows[i] = dataset.Row{
			Date:     base.AddDate(0, 0, i),
			Features: map[string]float64{"x1": x1, "x2": rng.Float64()},
			Label:    label,
		}
	}
	return rows
}

func accuracy(preds []int, rows []dataset.Row) float64 {
	correct := 0
	for i, p := range preds {
		if p == rows[i].Label {
			correct++
		}
	}
	return float64(correct) / float64(len(rows))
}

func TestForModelType(t *testing.T) {
	tr, err := ForModelType(strategy.ModelTypeGradientBoosting)
	require.NoError(t, err)
	assert.IsType(t, &BoostedStumpsTrainer{}, tr)

	tr, err = ForModelType(strategy.ModelTypeLogisticRegression)
	require.NoError(t, err)
	assert.IsType(t, &LogisticTrainer{}, tr)

	_, err = ForModelType("random_forest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "random_forest")
}

func TestBoostedStumps_LearnsSeparableData(t *testing.T) {
	rows := separableRows(400, 0.55)
	train, test := rows[:300], rows[300:]

	m, err := (&BoostedStumpsTrainer{}).Train(context.Background(), train, []string{"x1", "x2"}, nil)
	require.NoError(t, err)

	preds := m.Predict(test)
	require.Len(t, preds, len(test))
	assert.Greater(t, accuracy(preds, test), 0.9)
}

func TestLogistic_LearnsSeparableData(t *testing.T) {
	rows := separableRows(400, 0.5)
	train, test := rows[:300], rows[300:]

	m, err := (&LogisticTrainer{}).Train(context.Background(), train, []string{"x1", "x2"}, nil)
	require.NoError(t, err)

	preds := m.Predict(test)
	require.Len(t, preds, len(test))
	assert.Greater(t, accuracy(preds, test), 0.85)
}

func TestTrainers_BinaryOutput(t *testing.T) {
	rows := separableRows(120, 0.5)

	for _, mt := range strategy.KnownModelTypes {
		tr, err := ForModelType(mt)
		require.NoError(t, err)

		m, err := tr.Train(context.Background(), rows, []string{"x1"}, nil)
		require.NoError(t, err)

		for _, p := range m.Predict(rows) {
			assert.Contains(t, []int{0, 1}, p)
		}
	}
}

func TestTrainers_HyperparameterOverrides(t *testing.T) {
	rows := separableRows(200, 0.5)

	// A single boosting round with a tiny learning rate barely moves off the
	// base rate; the defaults should do strictly better
	weak, err := (&BoostedStumpsTrainer{}).Train(context.Background(), rows,
		[]string{"x1"}, map[string]float64{"n_rounds": 1, "learning_rate": 0.001})
	require.NoError(t, err)
	strong, err := (&BoostedStumpsTrainer{}).Train(context.Background(), rows, []string{"x1"}, nil)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, accuracy(strong.Predict(rows), rows), accuracy(weak.Predict(rows), rows))
}

func TestTrainers_CancelledContext(t *testing.T) {
	rows := separableRows(200, 0.5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&LogisticTrainer{}).Train(ctx, rows, []string{"x1"}, nil)
	require.Error(t, err)

	_, err = (&BoostedStumpsTrainer{}).Train(ctx, rows, []string{"x1"}, nil)
	require.Error(t, err)
}

func TestTrainers_RejectEmptyTrainingSet(t *testing.T) {
	for _, mt := range strategy.KnownModelTypes {
		tr, err := ForModelType(mt)
		require.NoError(t, err)

		_, err = tr.Train(context.Background(), nil, []string{"x1"}, nil)
		assert.Error(t, err, "model type %s", mt)
	}
}

func TestFeatureMatrix_MissingFeatureReadsZero(t *testing.T) {
	rows := []dataset.Row{
		{Features: map[string]float64{"x1": 2.5}},
	}
	m := featureMatrix(rows, []string{"x1", "absent"})
	require.Len(t, m, 1)
	assert.Equal(t, []float64{2.5, 0}, m[0])
}
