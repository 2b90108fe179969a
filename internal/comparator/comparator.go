package comparator

import (
	"context"
	stderrors "errors"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"circuit-validator/internal/model"
	"circuit-validator/internal/risk"
	"circuit-validator/internal/strategy"
	"circuit-validator/internal/validation"
	"circuit-validator/pkg/config"
	"circuit-validator/pkg/dataset"
)

// ErrNoValidWindows is returned when every strategy in a comparison produced
// zero usable iterations. Surfacing it beats emitting a report full of
// misleading zeros.
var ErrNoValidWindows = stderrors.New("no valid windows produced — check date range and window sizes")

// Performance is one strategy's result after running the full harness. Rank
// is assigned exactly once, by Rank, after all strategies have been scored.
type Performance struct {
	Strategy       strategy.Strategy
	F1             float64
	Sharpe         float64
	MaxDrawdown    float64
	TrainingTime   time.Duration
	CompositeScore float64
	Rank           int

	Results *validation.Results
	Risk    risk.Metrics
}

// Comparison is the result of running N strategies through identical windows
type Comparison struct {
	// Performances in rank order after ranking
	Performances []Performance
	// ByName indexes the same performances by strategy name
	ByName map[string]*Performance
	// Windows every strategy was evaluated over
	Windows     []validation.Window
	GeneratedAt time.Time
}

// FeatureSetResult is one row of a feature-set comparison
type FeatureSetResult struct {
	Name      string
	Features  []string
	F1        float64
	Precision float64
	Recall    float64
	Windows   int
}

// Comparator runs multiple strategies through the same walk-forward harness
// and ranks them
type Comparator struct {
	provider dataset.Provider
	cfg      config.ComparisonConfig
	logger   zerolog.Logger
}

// NewComparator creates a comparator with an injected data provider
func NewComparator(provider dataset.Provider, cfg config.ComparisonConfig, logger zerolog.Logger) *Comparator {
	return &Comparator{
		provider: provider,
		cfg:      cfg,
		logger:   logger.With().Str("component", "comparator").Logger(),
	}
}

// Compare evaluates every strategy over the identical window list and ranks
// the results. Strategy-local failures are contained; configuration errors
// abort immediately. An empty strategy list yields an empty comparison.
func (c *Comparator) Compare(ctx context.Context, strategies []strategy.Strategy) (*Comparison, error) {
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}
	for _, s := range strategies {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}

	comparison := &Comparison{
		ByName:      make(map[string]*Performance),
		GeneratedAt: time.Now(),
	}
	if len(strategies) == 0 {
		return comparison, nil
	}

	// One window list shared by every strategy keeps the comparison fair
	windows, err := validation.GenerateWindows(c.cfg.Validation)
	if err != nil {
		return nil, err
	}
	comparison.Windows = windows

	c.logger.Info().
		Int("strategies", len(strategies)).
		Int("windows", len(windows)).
		Msg("starting strategy comparison")

	runs, err := c.runAll(ctx, strategies, windows)
	if err != nil {
		return nil, err
	}

	usable := 0
	for i, results := range runs {
		perf := c.scoreStrategy(strategies[i], results)
		comparison.Performances = append(comparison.Performances, perf)
		if results != nil && len(results.Iterations) > 0 {
			usable++
		}
	}
	if usable == 0 {
		return nil, ErrNoValidWindows
	}

	Rank(comparison.Performances)
	for i := range comparison.Performances {
		comparison.ByName[comparison.Performances[i].Strategy.Name] = &comparison.Performances[i]
	}

	c.logger.Info().
		Str("best", comparison.Performances[0].Strategy.Name).
		Float64("score", comparison.Performances[0].CompositeScore).
		Msg("comparison complete")

	return comparison, nil
}

// scoreStrategy folds one strategy's walk-forward results into a Performance
func (c *Comparator) scoreStrategy(strat strategy.Strategy, results *validation.Results) Performance {
	perf := Performance{Strategy: strat, Results: results}
	if results == nil {
		return perf
	}

	perf.F1 = results.AvgF1
	perf.Risk = results.Risk
	perf.Sharpe = results.Risk.SharpeRatio
	perf.MaxDrawdown = results.Risk.MaxDrawdown
	perf.TrainingTime = results.TotalTrainingTime()
	perf.CompositeScore = c.compositeScore(perf.F1, perf.Sharpe, perf.MaxDrawdown)
	return perf
}

// CompositeScore blends F1, Sharpe and max drawdown into a single [0,1]
// ranking score with the default weights. The blend is monotone in each
// input: better F1, better Sharpe, or a shallower drawdown never lowers it.
func CompositeScore(f1, sharpe, maxDrawdown float64) float64 {
	cfg := config.NewComparisonConfig(config.ValidationConfig{})
	return weightedScore(f1, sharpe, maxDrawdown, cfg.F1Weight, cfg.SharpeWeight, cfg.DrawdownWeight)
}

func (c *Comparator) compositeScore(f1, sharpe, maxDrawdown float64) float64 {
	return weightedScore(f1, sharpe, maxDrawdown, c.cfg.F1Weight, c.cfg.SharpeWeight, c.cfg.DrawdownWeight)
}

func weightedScore(f1, sharpe, maxDrawdown, wF1, wSharpe, wDD float64) float64 {
	// Sharpe is unbounded; squash it into (0,1) keeping monotonicity
	sharpeScore := (sharpe/(1+math.Abs(sharpe)) + 1) / 2

	// Drawdown is in [-1, 0]; shallower is better
	ddScore := 1 + maxDrawdown
	if ddScore < 0 {
		ddScore = 0
	}
	if ddScore > 1 {
		ddScore = 1
	}

	f1Score := f1
	if f1Score < 0 {
		f1Score = 0
	}
	if f1Score > 1 {
		f1Score = 1
	}

	return wF1*f1Score + wSharpe*sharpeScore + wDD*ddScore
}

// Rank sorts performances by composite score descending and assigns 1-based
// ranks. Ties break by Sharpe descending, then name ascending, so repeated
// runs over identical input always produce identical ranks.
func Rank(performances []Performance) {
	sort.SliceStable(performances, func(i, j int) bool {
		a, b := performances[i], performances[j]
		if a.CompositeScore != b.CompositeScore {
			return a.CompositeScore > b.CompositeScore
		}
		if a.Sharpe != b.Sharpe {
			return a.Sharpe > b.Sharpe
		}
		return a.Strategy.Name < b.Strategy.Name
	})
	for i := range performances {
		performances[i].Rank = i + 1
	}
}

// CompareFeatureSets runs one walk-forward per named feature group with a
// fixed model type, answering "does adding these features help" without the
// full strategy machinery. Results come back sorted by F1 descending.
func (c *Comparator) CompareFeatureSets(ctx context.Context, featureSets map[string][]string, modelType strategy.ModelType) ([]FeatureSetResult, error) {
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(featureSets))
	for name := range featureSets {
		names = append(names, name)
	}
	sort.Strings(names)

	strategies := make([]strategy.Strategy, 0, len(names))
	for _, name := range names {
		strategies = append(strategies, strategy.Strategy{
			Name:      name,
			ModelType: modelType,
			Features:  featureSets[name],
		})
	}
	for _, s := range strategies {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}

	windows, err := validation.GenerateWindows(c.cfg.Validation)
	if err != nil {
		return nil, err
	}

	runs, err := c.runAll(ctx, strategies, windows)
	if err != nil {
		return nil, err
	}

	results := make([]FeatureSetResult, 0, len(strategies))
	for i, run := range runs {
		row := FeatureSetResult{
			Name:     strategies[i].Name,
			Features: strategies[i].Features,
		}
		if run != nil {
			row.F1 = run.AvgF1
			row.Windows = len(run.Iterations)
			row.Precision = meanOf(run.Iterations, func(it validation.Iteration) float64 { return it.Precision })
			row.Recall = meanOf(run.Iterations, func(it validation.Iteration) float64 { return it.Recall })
		}
		results = append(results, row)
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].F1 > results[j].F1 })
	return results, nil
}

// runAll evaluates strategies over shared windows, in parallel when the
// config allows, and returns results aligned with the input order
func (c *Comparator) runAll(ctx context.Context, strategies []strategy.Strategy, windows []validation.Window) ([]*validation.Results, error) {
	pool := newStrategyPool(c.cfg.Workers, c)
	return pool.run(ctx, strategies, windows)
}

// runOne evaluates a single strategy over the shared windows
func (c *Comparator) runOne(ctx context.Context, strat strategy.Strategy, windows []validation.Window) (*validation.Results, error) {
	trainer, err := model.ForModelType(strat.ModelType)
	if err != nil {
		return nil, err
	}

	validator := validation.NewValidator(c.provider, trainer, c.cfg.Validation, c.logger)
	return validator.RunWindows(ctx, strat, windows)
}

func meanOf(iterations []validation.Iteration, value func(validation.Iteration) float64) float64 {
	if len(iterations) == 0 {
		return 0
	}
	sum := 0.0
	for _, it := range iterations {
		sum += value(it)
	}
	return sum / float64(len(iterations))
}
