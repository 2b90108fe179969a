package comparator

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"circuit-validator/internal/strategy"
	"circuit-validator/pkg/config"
	"circuit-validator/pkg/dataset"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// memoryProvider serves synthetic rows from a slice with half-open range
// filtering
type memoryProvider struct {
	rows []dataset.Row
}

func (p *memoryProvider) load(start, end time.Time) []dataset.Row {
	var out []dataset.Row
	for _, r := range p.rows {
		if !r.Date.Before(start) && r.Date.Before(end) {
			out = append(out, r)
		}
	}
	return out
}

func (p *memoryProvider) LoadTrainingData(start, end time.Time, _ []string) ([]dataset.Row, error) {
	return p.load(start, end), nil
}

func (p *memoryProvider) LoadTestData(start, end time.Time, _ []string) ([]dataset.Row, error) {
	return p.load(start, end), nil
}

func (p *memoryProvider) GetName() string { return "memory" }

// learnableRows generates daily rows where the label is a deterministic
// function of one feature, so real trainers can actually learn it
func learnableRows(start, end time.Time) []dataset.Row {
	rng := rand.New(rand.NewSource(7))
	var rows []dataset.Row
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		signal := rng.Float64()
		noise := rng.Float64()
		label := 0
		ret := -0.01
		if signal > 0.6 {
			label = 1
			ret = 0.03
		}
		rows = append(rows, dataset.Row{
			Date:          d,
			Features:      map[string]float64{"volume_ratio": signal, "noise": noise},
			Label:         label,
			ForwardReturn: ret,
		})
	}
	return rows
}

func comparisonConfig() config.ComparisonConfig {
	vcfg := config.NewValidationConfig(date(2023, 1, 1), date(2023, 12, 31), config.FrequencyQuarterly)
	vcfg.TrainingWindowDays = 180
	vcfg.TestWindowDays = 90
	vcfg.MinTrainSamples = 30
	vcfg.MinTestSamples = 10
	return config.NewComparisonConfig(vcfg)
}

func testStrategies() []strategy.Strategy {
	return []strategy.Strategy{
		{Name: "boosted", ModelType: strategy.ModelTypeGradientBoosting, Features: []string{"volume_ratio"}},
		{Name: "logistic", ModelType: strategy.ModelTypeLogisticRegression, Features: []string{"volume_ratio"}},
		{Name: "noise-only", ModelType: strategy.ModelTypeLogisticRegression, Features: []string{"noise"}},
	}
}

func TestCompare_RanksAllStrategies(t *testing.T) {
	provider := &memoryProvider{rows: learnableRows(date(2022, 1, 1), date(2024, 1, 1))}
	c := NewComparator(provider, comparisonConfig(), zerolog.Nop())

	comparison, err := c.Compare(context.Background(), testStrategies())
	require.NoError(t, err)
	require.Len(t, comparison.Performances, 3)

	for i, perf := range comparison.Performances {
		assert.Equal(t, i+1, perf.Rank)
		if i > 0 {
			assert.GreaterOrEqual(t, comparison.Performances[i-1].CompositeScore, perf.CompositeScore)
		}
	}

	// Every strategy is retrievable by name and points into the ranked slice
	for name := range map[string]bool{"boosted": true, "logistic": true, "noise-only": true} {
		perf, ok := comparison.ByName[name]
		require.True(t, ok, "missing %s", name)
		assert.Equal(t, name, perf.Strategy.Name)
	}

	// A strategy with the real signal should beat the noise-only one
	assert.Greater(t, comparison.ByName["boosted"].F1, comparison.ByName["noise-only"].F1)
}

func TestCompare_IdenticalWindowsForEveryStrategy(t *testing.T) {
	provider := &memoryProvider{rows: learnableRows(date(2022, 1, 1), date(2024, 1, 1))}
	c := NewComparator(provider, comparisonConfig(), zerolog.Nop())

	comparison, err := c.Compare(context.Background(), testStrategies())
	require.NoError(t, err)
	require.NotEmpty(t, comparison.Windows)

	for _, perf := range comparison.Performances {
		require.NotNil(t, perf.Results)
		for _, iter := range perf.Results.Iterations {
			found := false
			for _, w := range comparison.Windows {
				if w.TestStart.Equal(iter.TestStart) && w.TestEnd.Equal(iter.TestEnd) {
					found = true
					break
				}
			}
			assert.True(t, found, "strategy %s scored a window outside the shared list", perf.Strategy.Name)
		}
	}
}

func TestCompare_EmptyStrategyList(t *testing.T) {
	provider := &memoryProvider{rows: learnableRows(date(2022, 1, 1), date(2024, 1, 1))}
	c := NewComparator(provider, comparisonConfig(), zerolog.Nop())

	comparison, err := c.Compare(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, comparison.Performances)
	assert.Empty(t, comparison.ByName)
}

func TestCompare_NoValidWindows(t *testing.T) {
	// No data at all: every window gets skipped for every strategy
	c := NewComparator(&memoryProvider{}, comparisonConfig(), zerolog.Nop())

	_, err := c.Compare(context.Background(), testStrategies())
	require.ErrorIs(t, err, ErrNoValidWindows)
}

func TestCompare_InvalidStrategyAborts(t *testing.T) {
	provider := &memoryProvider{rows: learnableRows(date(2022, 1, 1), date(2024, 1, 1))}
	c := NewComparator(provider, comparisonConfig(), zerolog.Nop())

	bad := []strategy.Strategy{{Name: "bad", ModelType: "random_forest", Features: []string{"x"}}}
	_, err := c.Compare(context.Background(), bad)
	require.Error(t, err)
}

func TestCompositeScore_Monotonicity(t *testing.T) {
	base := CompositeScore(0.5, 1.0, -0.2)

	assert.Greater(t, CompositeScore(0.6, 1.0, -0.2), base, "higher F1 must raise the score")
	assert.Greater(t, CompositeScore(0.5, 1.5, -0.2), base, "higher Sharpe must raise the score")
	assert.Greater(t, CompositeScore(0.5, 1.0, -0.1), base, "shallower drawdown must raise the score")
	assert.Less(t, CompositeScore(0.5, -1.0, -0.2), base, "negative Sharpe must lower the score")
}

func TestCompositeScore_Bounds(t *testing.T) {
	assert.GreaterOrEqual(t, CompositeScore(0, -100, -1), 0.0)
	assert.LessOrEqual(t, CompositeScore(1, 100, 0), 1.0)
	// Extreme inputs are clamped, not propagated
	assert.GreaterOrEqual(t, CompositeScore(-5, 0, -10), 0.0)
	assert.LessOrEqual(t, CompositeScore(5, 0, 10), 1.0)
}

func TestRank_Deterministic(t *testing.T) {
	build := func() []Performance {
		return []Performance{
			{Strategy: strategy.Strategy{Name: "c"}, CompositeScore: 0.7, Sharpe: 1.0},
			{Strategy: strategy.Strategy{Name: "a"}, CompositeScore: 0.7, Sharpe: 1.0},
			{Strategy: strategy.Strategy{Name: "b"}, CompositeScore: 0.9, Sharpe: 0.5},
			{Strategy: strategy.Strategy{Name: "d"}, CompositeScore: 0.7, Sharpe: 2.0},
		}
	}

	want := []string{"b", "d", "a", "c"}

	// Shuffle the input repeatedly; the ranked order must never change
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 10; trial++ {
		perfs := build()
		rng.Shuffle(len(perfs), func(i, j int) { perfs[i], perfs[j] = perfs[j], perfs[i] })

		Rank(perfs)
		for i, name := range want {
			assert.Equal(t, name, perfs[i].Strategy.Name, "trial %d position %d", trial, i)
			assert.Equal(t, i+1, perfs[i].Rank)
		}
	}
}

func TestCompareFeatureSets(t *testing.T) {
	provider := &memoryProvider{rows: learnableRows(date(2022, 1, 1), date(2024, 1, 1))}
	c := NewComparator(provider, comparisonConfig(), zerolog.Nop())

	sets := map[string][]string{
		"signal":      {"volume_ratio"},
		"noise":       {"noise"},
		"signal+more": {"volume_ratio", "noise"},
	}

	results, err := c.CompareFeatureSets(context.Background(), sets, strategy.ModelTypeGradientBoosting)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Sorted by F1 descending
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].F1, results[i].F1)
	}

	byName := map[string]FeatureSetResult{}
	for _, r := range results {
		byName[r.Name] = r
	}
	// The label is a threshold on volume_ratio; the boosted stumps should
	// separate it far better than pure noise
	assert.Greater(t, byName["signal"].F1, byName["noise"].F1)
	assert.Greater(t, byName["signal"].F1, 0.7)
}

func TestCompare_ParallelMatchesSerial(t *testing.T) {
	provider := &memoryProvider{rows: learnableRows(date(2022, 1, 1), date(2024, 1, 1))}

	serialCfg := comparisonConfig()
	serialCfg.Workers = 1
	parallelCfg := comparisonConfig()
	parallelCfg.Workers = 4

	serial, err := NewComparator(provider, serialCfg, zerolog.Nop()).Compare(context.Background(), testStrategies())
	require.NoError(t, err)
	parallel, err := NewComparator(provider, parallelCfg, zerolog.Nop()).Compare(context.Background(), testStrategies())
	require.NoError(t, err)

	require.Len(t, parallel.Performances, len(serial.Performances))
	for i := range serial.Performances {
		assert.Equal(t, serial.Performances[i].Strategy.Name, parallel.Performances[i].Strategy.Name)
		assert.InDelta(t, serial.Performances[i].F1, parallel.Performances[i].F1, 1e-9)
		assert.InDelta(t, serial.Performances[i].CompositeScore, parallel.Performances[i].CompositeScore, 1e-9)
	}
}
