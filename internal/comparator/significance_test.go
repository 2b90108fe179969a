package comparator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"circuit-validator/internal/errors"
)

func TestSignificance_IdenticalPredictions(t *testing.T) {
	preds := []int{1, 0, 1, 1, 0, 0}
	actuals := []int{1, 0, 0, 1, 1, 0}

	p, err := Significance(preds, preds, actuals)
	require.NoError(t, err)
	assert.Equal(t, 1.0, p, "no discordant pairs means no evidence of a difference")
}

func TestSignificance_Symmetric(t *testing.T) {
	preds1 := []int{1, 1, 0, 0, 1, 0, 1, 0}
	preds2 := []int{1, 0, 1, 0, 0, 1, 1, 1}
	actuals := []int{1, 1, 1, 0, 1, 0, 0, 1}

	p12, err := Significance(preds1, preds2, actuals)
	require.NoError(t, err)
	p21, err := Significance(preds2, preds1, actuals)
	require.NoError(t, err)

	assert.InDelta(t, p12, p21, 1e-12)
}

func TestSignificance_RangeAndMonotonicity(t *testing.T) {
	actuals := make([]int, 100)
	allRight := make([]int, 100)
	allWrong := make([]int, 100)
	for i := range actuals {
		actuals[i] = i % 2
		allRight[i] = actuals[i]
		allWrong[i] = 1 - actuals[i]
	}

	// One strategy perfect, the other always wrong: 100 discordant pairs all
	// favoring the same side, so the p-value should be tiny
	p, err := Significance(allRight, allWrong, actuals)
	require.NoError(t, err)
	assert.Greater(t, p, 0.0)
	assert.Less(t, p, 1e-6)

	// Balanced discordance carries no directional evidence
	halfRight := make([]int, 100)
	for i := range halfRight {
		if i < 50 {
			halfRight[i] = actuals[i]
		} else {
			halfRight[i] = 1 - actuals[i]
		}
	}
	otherHalf := make([]int, 100)
	for i := range otherHalf {
		if i >= 50 {
			otherHalf[i] = actuals[i]
		} else {
			otherHalf[i] = 1 - actuals[i]
		}
	}
	pBalanced, err := Significance(halfRight, otherHalf, actuals)
	require.NoError(t, err)
	assert.Greater(t, pBalanced, 0.9)
	assert.LessOrEqual(t, pBalanced, 1.0)
}

func TestSignificance_LengthMismatch(t *testing.T) {
	_, err := Significance([]int{1, 0}, []int{1, 0, 1}, []int{1, 0, 1})
	require.Error(t, err)

	var verr *errors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, errors.ErrorCategoryConfiguration, verr.Category)
}

func TestChiSquarePValue(t *testing.T) {
	assert.Equal(t, 1.0, chiSquarePValue(0))
	// Standard critical value: chi-square(1) of 3.841 sits at p = 0.05
	assert.InDelta(t, 0.05, chiSquarePValue(3.841), 0.001)
	assert.InDelta(t, 0.01, chiSquarePValue(6.635), 0.001)
}
