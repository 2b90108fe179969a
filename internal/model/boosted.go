package model

import (
	"context"
	"fmt"
	"math"
	"sort"

	"circuit-validator/pkg/dataset"
)

// BoostedStumpsTrainer trains a gradient-boosted ensemble of depth-1 trees
// (stumps) under logistic loss. It is the in-repo stand-in for the heavier
// gradient-boosting libraries the surrounding pipeline uses for production
// training; the walk-forward contract is identical.
type BoostedStumpsTrainer struct{}

type stump struct {
	feature    int
	split      float64
	leftScore  float64
	rightScore float64
}

type boostedModel struct {
	features  []string
	baseScore float64
	stumps    []stump
	shrinkage float64
	threshold float64
}

// Train fits the ensemble. Hyperparameters: n_rounds (50), learning_rate
// (0.1), min_leaf (5), threshold (0.5).
func (t *BoostedStumpsTrainer) Train(ctx context.Context, rows []dataset.Row, features []string, hyper map[string]float64) (Model, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no training rows")
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("no features")
	}

	rounds := int(hyperOr(hyper, "n_rounds", 50))
	shrinkage := hyperOr(hyper, "learning_rate", 0.1)
	minLeaf := int(hyperOr(hyper, "min_leaf", 5))

	x := featureMatrix(rows, features)
	y := labels(rows)
	n := len(rows)

	// Base score: log-odds of the positive rate, clamped away from the
	// degenerate single-class case
	positives := 0.0
	for _, label := range y {
		positives += label
	}
	p0 := clamp(positives/float64(n), 1e-4, 1-1e-4)
	base := math.Log(p0 / (1 - p0))

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = base
	}

	m := &boostedModel{
		features:  features,
		baseScore: base,
		shrinkage: shrinkage,
		threshold: hyperOr(hyper, "threshold", 0.5),
	}

	grad := make([]float64, n)
	hess := make([]float64, n)

	for round := 0; round < rounds; round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for i := range scores {
			p := sigmoid(scores[i])
			grad[i] = y[i] - p
			hess[i] = p * (1 - p)
		}

		best, ok := bestStump(x, grad, hess, minLeaf)
		if !ok {
			break
		}

		m.stumps = append(m.stumps, best)
		for i, vec := range x {
			scores[i] += shrinkage * stumpScore(best, vec)
		}
	}

	return m, nil
}

// bestStump finds the feature/threshold split maximizing gain, with Newton
// leaf values from the aggregated gradients
func bestStump(x [][]float64, grad, hess []float64, minLeaf int) (stump, bool) {
	n := len(x)
	if n == 0 {
		return stump{}, false
	}

	totalGrad := 0.0
	totalHess := 0.0
	for i := range grad {
		totalGrad += grad[i]
		totalHess += hess[i]
	}

	best := stump{}
	bestGain := math.Inf(-1)
	found := false

	order := make([]int, n)
	for feature := 0; feature < len(x[0]); feature++ {
		for i := range order {
			order[i] = i
		}
		sort.Slice(order, func(a, b int) bool {
			return x[order[a]][feature] < x[order[b]][feature]
		})

		leftGrad := 0.0
		leftHess := 0.0
		for pos := 0; pos < n-1; pos++ {
			i := order[pos]
			leftGrad += grad[i]
			leftHess += hess[i]

			// Only split between distinct feature values
			if x[order[pos]][feature] == x[order[pos+1]][feature] {
				continue
			}
			if pos+1 < minLeaf || n-pos-1 < minLeaf {
				continue
			}

			rightGrad := totalGrad - leftGrad
			rightHess := totalHess - leftHess
			gain := gainScore(leftGrad, leftHess) + gainScore(rightGrad, rightHess) - gainScore(totalGrad, totalHess)
			if gain > bestGain {
				bestGain = gain
				best = stump{
					feature:    feature,
					split:      (x[order[pos]][feature] + x[order[pos+1]][feature]) / 2,
					leftScore:  newtonLeaf(leftGrad, leftHess),
					rightScore: newtonLeaf(rightGrad, rightHess),
				}
				found = true
			}
		}
	}

	return best, found && bestGain > 1e-12
}

func gainScore(grad, hess float64) float64 {
	const lambda = 1.0
	return grad * grad / (hess + lambda)
}

func newtonLeaf(grad, hess float64) float64 {
	const lambda = 1.0
	return grad / (hess + lambda)
}

func stumpScore(s stump, vec []float64) float64 {
	if vec[s.feature] < s.split {
		return s.leftScore
	}
	return s.rightScore
}

// Predict returns one binary prediction per row
func (m *boostedModel) Predict(rows []dataset.Row) []int {
	x := featureMatrix(rows, m.features)

	preds := make([]int, len(rows))
	for i, vec := range x {
		score := m.baseScore
		for _, s := range m.stumps {
			score += m.shrinkage * stumpScore(s, vec)
		}
		if sigmoid(score) >= m.threshold {
			preds[i] = 1
		}
	}
	return preds
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
