package model

import (
	"context"
	"fmt"

	"circuit-validator/internal/strategy"
	"circuit-validator/pkg/dataset"
)

// Model is a trained classifier handle
type Model interface {
	// Predict returns one binary prediction per row
	Predict(rows []dataset.Row) []int
}

// Trainer trains a fresh model from training rows. Implementations must be
// stateless across Train calls: walk-forward depends on every window getting
// a model that has seen nothing but that window's training rows.
type Trainer interface {
	Train(ctx context.Context, rows []dataset.Row, features []string, hyper map[string]float64) (Model, error)
}

// ForModelType resolves a strategy's model-type tag to a concrete trainer
func ForModelType(t strategy.ModelType) (Trainer, error) {
	switch t {
	case strategy.ModelTypeLogisticRegression:
		return &LogisticTrainer{}, nil
	case strategy.ModelTypeGradientBoosting:
		return &BoostedStumpsTrainer{}, nil
	default:
		return nil, fmt.Errorf("no trainer registered for model type %q", t)
	}
}

// featureMatrix flattens rows into a dense matrix in feature order. Missing
// features read as 0.
func featureMatrix(rows []dataset.Row, features []string) [][]float64 {
	matrix := make([][]float64, len(rows))
	for i, row := range rows {
		vec := make([]float64, len(features))
		for j, name := range features {
			vec[j] = row.Features[name]
		}
		matrix[i] = vec
	}
	return matrix
}

func labels(rows []dataset.Row) []float64 {
	y := make([]float64, len(rows))
	for i, row := range rows {
		y[i] = float64(row.Label)
	}
	return y
}

func hyperOr(hyper map[string]float64, name string, fallback float64) float64 {
	if v, ok := hyper[name]; ok {
		return v
	}
	return fallback
}
