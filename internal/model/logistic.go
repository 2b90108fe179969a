package model

import (
	"context"
	"fmt"
	"math"

	"circuit-validator/pkg/dataset"
)

// LogisticTrainer trains an L2-regularized logistic regression by batch
// gradient descent. Feature standardization statistics are fitted on the
// training rows only and frozen into the returned model.
type LogisticTrainer struct{}

type logisticModel struct {
	features  []string
	weights   []float64
	bias      float64
	means     []float64
	stds      []float64
	threshold float64
}

// Train fits the classifier. Hyperparameters: learning_rate (0.1), epochs
// (200), l2 (0.001), threshold (0.5).
func (t *LogisticTrainer) Train(ctx context.Context, rows []dataset.Row, features []string, hyper map[string]float64) (Model, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no training rows")
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("no features")
	}

	lr := hyperOr(hyper, "learning_rate", 0.1)
	epochs := int(hyperOr(hyper, "epochs", 200))
	l2 := hyperOr(hyper, "l2", 0.001)

	x := featureMatrix(rows, features)
	y := labels(rows)

	means, stds := standardizationStats(x)
	standardize(x, means, stds)

	weights := make([]float64, len(features))
	bias := 0.0
	n := float64(len(rows))

	for epoch := 0; epoch < epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		gradW := make([]float64, len(features))
		gradB := 0.0
		for i, vec := range x {
			p := sigmoid(dot(weights, vec) + bias)
			residual := p - y[i]
			for j, v := range vec {
				gradW[j] += residual * v
			}
			gradB += residual
		}

		for j := range weights {
			weights[j] -= lr * (gradW[j]/n + l2*weights[j])
		}
		bias -= lr * gradB / n
	}

	return &logisticModel{
		features:  features,
		weights:   weights,
		bias:      bias,
		means:     means,
		stds:      stds,
		threshold: hyperOr(hyper, "threshold", 0.5),
	}, nil
}

// Predict returns one binary prediction per row
func (m *logisticModel) Predict(rows []dataset.Row) []int {
	x := featureMatrix(rows, m.features)
	standardize(x, m.means, m.stds)

	preds := make([]int, len(rows))
	for i, vec := range x {
		if sigmoid(dot(m.weights, vec)+m.bias) >= m.threshold {
			preds[i] = 1
		}
	}
	return preds
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func standardizationStats(x [][]float64) (means, stds []float64) {
	if len(x) == 0 {
		return nil, nil
	}

	cols := len(x[0])
	means = make([]float64, cols)
	stds = make([]float64, cols)
	n := float64(len(x))

	for _, vec := range x {
		for j, v := range vec {
			means[j] += v
		}
	}
	for j := range means {
		means[j] /= n
	}

	for _, vec := range x {
		for j, v := range vec {
			diff := v - means[j]
			stds[j] += diff * diff
		}
	}
	for j := range stds {
		stds[j] = math.Sqrt(stds[j] / n)
		if stds[j] < 1e-10 {
			stds[j] = 1 // constant column, leave values centered
		}
	}
	return means, stds
}

func standardize(x [][]float64, means, stds []float64) {
	for _, vec := range x {
		for j := range vec {
			vec[j] = (vec[j] - means[j]) / stds[j]
		}
	}
}
