package validation

import (
	"context"
	stderrors "errors"
	"math"
	"time"

	"github.com/rs/zerolog"

	"circuit-validator/internal/errors"
	"circuit-validator/internal/model"
	"circuit-validator/internal/monitoring"
	"circuit-validator/internal/risk"
	"circuit-validator/internal/strategy"
	"circuit-validator/pkg/config"
	"circuit-validator/pkg/dataset"
)

// Iteration is the result of one train/test cycle. Immutable after creation.
type Iteration struct {
	Period       string
	TrainStart   time.Time
	TrainEnd     time.Time
	TestStart    time.Time
	TestEnd      time.Time
	F1           float64
	Precision    float64
	Recall       float64
	NSamples     int
	TrainingTime time.Duration
}

// Results aggregates all iterations of one walk-forward run. An empty run
// (no usable windows) carries all-zero aggregates rather than NaN: the
// degenerate case is a defined value, not an error.
type Results struct {
	Iterations      []Iteration
	AvgF1           float64
	StdF1           float64
	MinF1           float64
	MaxF1           float64
	ConsistencyRate float64

	// One realized return per scored window: the mean forward return of the
	// rows the model flagged as upper-circuit candidates, in chronological
	// order. Feeds the risk calculator downstream.
	WindowReturns []float64

	// Flattened test-window predictions and ground truth across all scored
	// windows, chronological. Feeds significance testing downstream.
	Predictions []int
	Actuals     []int

	// Risk metrics computed over WindowReturns
	Risk risk.Metrics
}

// Validator runs walk-forward validation for one strategy at a time. It holds
// no state across Run calls; everything a run needs arrives through the
// constructor collaborators and the per-call strategy.
type Validator struct {
	provider dataset.Provider
	trainer  model.Trainer
	cfg      config.ValidationConfig
	risk     *risk.Calculator
	logger   zerolog.Logger
}

// NewValidator creates a validator with an injected data provider and trainer
func NewValidator(provider dataset.Provider, trainer model.Trainer, cfg config.ValidationConfig, logger zerolog.Logger) *Validator {
	return &Validator{
		provider: provider,
		trainer:  trainer,
		cfg:      cfg,
		risk:     risk.NewCalculator(cfg.RiskFreeRate),
		logger:   logger.With().Str("component", "walk_forward").Logger(),
	}
}

// Run performs a full walk-forward run for one strategy: generate windows,
// train and score each one, aggregate. Window-local failures (insufficient
// data, trainer errors) are logged and skipped; only configuration errors
// abort the run.
func (v *Validator) Run(ctx context.Context, strat strategy.Strategy) (*Results, error) {
	windows, err := GenerateWindows(v.cfg)
	if err != nil {
		return nil, err
	}
	return v.RunWindows(ctx, strat, windows)
}

// RunWindows performs a walk-forward run over a pre-generated window list.
// The comparator uses this to hold every strategy to the identical windows.
func (v *Validator) RunWindows(ctx context.Context, strat strategy.Strategy, windows []Window) (*Results, error) {
	if err := strat.Validate(); err != nil {
		return nil, err
	}

	logger := v.logger.With().Str("strategy", strat.Name).Logger()
	logger.Info().
		Int("windows", len(windows)).
		Str("frequency", string(v.cfg.Frequency)).
		Msg("starting walk-forward run")

	results := &Results{}
	for _, w := range windows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		iter, windowReturn, preds, actuals, err := v.runWindow(ctx, strat, w)
		if err != nil {
			var verr *errors.ValidationError
			if stderrors.As(err, &verr) && verr.IsSkippable() {
				logger.Warn().
					Str("period", w.Period()).
					Str("category", string(verr.Category)).
					Err(err).
					Msg("skipping window")
				monitoring.RecordWindowSkipped(strat.Name, string(verr.Category))
				continue
			}
			monitoring.RecordRun(strat.Name, 0, false)
			return nil, err
		}

		results.Iterations = append(results.Iterations, iter)
		results.WindowReturns = append(results.WindowReturns, windowReturn)
		results.Predictions = append(results.Predictions, preds...)
		results.Actuals = append(results.Actuals, actuals...)
		monitoring.RecordWindowTrained(strat.Name, iter.TrainingTime)

		logger.Debug().
			Str("period", iter.Period).
			Float64("f1", iter.F1).
			Int("samples", iter.NSamples).
			Dur("training_time", iter.TrainingTime).
			Msg("window scored")
	}

	aggregate(results, v.cfg.ConsistencyThreshold)
	results.Risk = v.risk.AllMetrics(results.WindowReturns)
	monitoring.RecordRun(strat.Name, results.AvgF1, true)

	logger.Info().
		Int("scored", len(results.Iterations)).
		Int("skipped", len(windows)-len(results.Iterations)).
		Float64("avg_f1", results.AvgF1).
		Float64("consistency", results.ConsistencyRate).
		Msg("walk-forward run complete")

	return results, nil
}

// runWindow trains a fresh model on the window's training rows and scores it
// on the test rows. The training load is bounded by [TrainStart, TestStart):
// the model sees nothing dated at or after the test start.
func (v *Validator) runWindow(ctx context.Context, strat strategy.Strategy, w Window) (Iteration, float64, []int, []int, error) {
	trainRows, err := v.provider.LoadTrainingData(w.TrainStart, w.TestStart, strat.Features)
	if err != nil {
		return Iteration{}, 0, nil, nil, errors.WrapError(err, errors.ErrorCategoryDataInsufficiency, "walk_forward", "LoadTrainingData")
	}
	if len(trainRows) < v.cfg.MinTrainSamples {
		return Iteration{}, 0, nil, nil, errors.NewDataInsufficiencyError("walk_forward", "runWindow",
			"training window has fewer samples than the configured minimum")
	}

	testRows, err := v.provider.LoadTestData(w.TestStart, w.TestEnd, strat.Features)
	if err != nil {
		return Iteration{}, 0, nil, nil, errors.WrapError(err, errors.ErrorCategoryDataInsufficiency, "walk_forward", "LoadTestData")
	}
	if len(testRows) < v.cfg.MinTestSamples {
		return Iteration{}, 0, nil, nil, errors.NewDataInsufficiencyError("walk_forward", "runWindow",
			"test window has fewer samples than the configured minimum")
	}

	trainStart := time.Now()
	trained, err := v.trainer.Train(ctx, trainRows, strat.Features, strat.Hyperparameters)
	trainingTime := time.Since(trainStart)
	if err != nil {
		if ctx.Err() != nil {
			return Iteration{}, 0, nil, nil, err
		}
		return Iteration{}, 0, nil, nil, errors.NewTrainingError(err, "walk_forward", "Train")
	}

	predictions := trained.Predict(testRows)
	actuals := make([]int, len(testRows))
	for i, row := range testRows {
		actuals[i] = row.Label
	}

	scores := Score(predictions, actuals)

	iter := Iteration{
		Period:       w.Period(),
		TrainStart:   w.TrainStart,
		TrainEnd:     w.TrainEnd,
		TestStart:    w.TestStart,
		TestEnd:      w.TestEnd,
		F1:           scores.F1,
		Precision:    scores.Precision,
		Recall:       scores.Recall,
		NSamples:     len(testRows),
		TrainingTime: trainingTime,
	}

	returns := dataset.Returns(testRows, predictions)
	windowReturn := 0.0
	if len(returns) > 0 {
		sum := 0.0
		for _, r := range returns {
			sum += r
		}
		windowReturn = sum / float64(len(returns))
	}

	return iter, windowReturn, predictions, actuals, nil
}

// AnalyzeConsistency returns the fraction of iterations whose F1 meets or
// exceeds the threshold, or 0 for an empty list
func AnalyzeConsistency(iterations []Iteration, threshold float64) float64 {
	if len(iterations) == 0 {
		return 0
	}

	met := 0
	for _, it := range iterations {
		if it.F1 >= threshold {
			met++
		}
	}
	return float64(met) / float64(len(iterations))
}

// TotalTrainingTime sums the training wall-clock time across iterations
func (r *Results) TotalTrainingTime() time.Duration {
	var total time.Duration
	for _, it := range r.Iterations {
		total += it.TrainingTime
	}
	return total
}

func aggregate(r *Results, consistencyThreshold float64) {
	if len(r.Iterations) == 0 {
		return
	}

	minF1 := r.Iterations[0].F1
	maxF1 := r.Iterations[0].F1
	sum := 0.0
	for _, it := range r.Iterations {
		sum += it.F1
		if it.F1 < minF1 {
			minF1 = it.F1
		}
		if it.F1 > maxF1 {
			maxF1 = it.F1
		}
	}

	r.AvgF1 = sum / float64(len(r.Iterations))
	r.MinF1 = minF1
	r.MaxF1 = maxF1

	variance := 0.0
	for _, it := range r.Iterations {
		diff := it.F1 - r.AvgF1
		variance += diff * diff
	}
	r.StdF1 = math.Sqrt(variance / float64(len(r.Iterations)))

	r.ConsistencyRate = AnalyzeConsistency(r.Iterations, consistencyThreshold)
}
