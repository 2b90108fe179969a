package validation

// ClassificationScores holds binary classification quality measures for one
// test window
type ClassificationScores struct {
	F1        float64
	Precision float64
	Recall    float64
}

// Score computes precision, recall and F1 of binary predictions against
// ground truth. Degenerate denominators (no predicted positives, no actual
// positives) yield 0, not NaN.
func Score(predictions, actuals []int) ClassificationScores {
	var tp, fp, fn int
	n := len(predictions)
	if len(actuals) < n {
		n = len(actuals)
	}

	for i := 0; i < n; i++ {
		switch {
		case predictions[i] == 1 && actuals[i] == 1:
			tp++
		case predictions[i] == 1 && actuals[i] == 0:
			fp++
		case predictions[i] == 0 && actuals[i] == 1:
			fn++
		}
	}

	var s ClassificationScores
	if tp+fp > 0 {
		s.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		s.Recall = float64(tp) / float64(tp+fn)
	}
	if s.Precision+s.Recall > 0 {
		s.F1 = 2 * s.Precision * s.Recall / (s.Precision + s.Recall)
	}
	return s
}
