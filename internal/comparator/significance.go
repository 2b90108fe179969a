package comparator

import (
	"math"

	"circuit-validator/internal/errors"
)

// Significance runs McNemar's test on two strategies' prediction sets against
// the same ground truth. It returns a p-value in [0,1]; lower means stronger
// evidence that the strategies genuinely differ in correctness. The test is
// symmetric in its first two arguments.
//
// The statistic only looks at discordant pairs (rows exactly one strategy got
// right). With no discordant pairs there is no evidence of any difference and
// the p-value is 1.
func Significance(preds1, preds2, actuals []int) (float64, error) {
	if len(preds1) != len(actuals) || len(preds2) != len(actuals) {
		return 0, errors.NewConfigError("comparator", "Significance",
			"prediction sets and ground truth must have equal length")
	}

	// b: strategy 1 correct where strategy 2 wrong; c: the reverse
	var b, c float64
	for i, actual := range actuals {
		ok1 := preds1[i] == actual
		ok2 := preds2[i] == actual
		switch {
		case ok1 && !ok2:
			b++
		case !ok1 && ok2:
			c++
		}
	}

	if b+c == 0 {
		return 1, nil
	}

	// Continuity-corrected chi-square with one degree of freedom
	diff := math.Abs(b-c) - 1
	if diff < 0 {
		diff = 0
	}
	chi := diff * diff / (b + c)

	return chiSquarePValue(chi), nil
}

// chiSquarePValue is the survival function of chi-square with one degree of
// freedom: P(X >= x) = erfc(sqrt(x/2))
func chiSquarePValue(x float64) float64 {
	if x <= 0 {
		return 1
	}
	return math.Erfc(math.Sqrt(x / 2))
}
