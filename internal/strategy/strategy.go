package strategy

import (
	"fmt"

	"circuit-validator/internal/errors"
)

// ModelType selects the classifier family trained for a strategy. It is a
// tag, not a class hierarchy: the model package maps each tag to a concrete
// trainer.
type ModelType string

const (
	ModelTypeGradientBoosting   ModelType = "gradient_boosting"
	ModelTypeLogisticRegression ModelType = "logistic_regression"
)

// KnownModelTypes lists every model type a Strategy may reference
var KnownModelTypes = []ModelType{
	ModelTypeGradientBoosting,
	ModelTypeLogisticRegression,
}

// Strategy is a named configuration under comparison: the classifier family
// to train, the feature columns it sees, and its hyperparameters.
type Strategy struct {
	Name            string             `json:"name"`
	ModelType       ModelType          `json:"model_type"`
	Features        []string           `json:"features"`
	Hyperparameters map[string]float64 `json:"hyperparameters,omitempty"`
}

// Validate rejects configurations that would make a run meaningless. Called
// synchronously before any window work starts.
func (s Strategy) Validate() error {
	if s.Name == "" {
		return errors.NewConfigError("strategy", "Validate", "strategy name is required")
	}
	if len(s.Features) == 0 {
		return errors.NewConfigError("strategy", "Validate",
			fmt.Sprintf("strategy %q has an empty feature list", s.Name))
	}
	for _, f := range s.Features {
		if f == "" {
			return errors.NewConfigError("strategy", "Validate",
				fmt.Sprintf("strategy %q has an empty feature name", s.Name))
		}
	}
	for _, known := range KnownModelTypes {
		if s.ModelType == known {
			return nil
		}
	}
	return errors.NewConfigError("strategy", "Validate",
		fmt.Sprintf("strategy %q references unknown model type %q", s.Name, s.ModelType))
}

// Hyperparameter returns a hyperparameter value or the given default
func (s Strategy) Hyperparameter(name string, fallback float64) float64 {
	if v, ok := s.Hyperparameters[name]; ok {
		return v
	}
	return fallback
}
