package risk

import (
	"math"

	"circuit-validator/pkg/config"
)

// ProfitFactorCap stands in for an infinite profit factor when a series has
// gross profit and no losses. A finite sentinel keeps downstream aggregation
// and ranking arithmetic well-behaved.
const ProfitFactorCap = 1000.0

// Metrics is one evaluation of a chronologically-ordered return series
type Metrics struct {
	SharpeRatio          float64
	SortinoRatio         float64
	MaxDrawdown          float64 // expressed as a negative fraction, 0 at best
	CalmarRatio          float64
	Volatility           float64 // annualized
	TotalReturn          float64
	AnnualizedReturn     float64
	WinRate              float64
	ProfitFactor         float64
	AvgWin               float64
	AvgLoss              float64
	MaxConsecutiveLosses int
}

// Calculator computes risk and performance metrics from per-period fractional
// returns (0.02 means +2%). It is stateless and safe for concurrent use.
// Returns are treated as daily, so annualization scales by sqrt(252).
type Calculator struct {
	riskFreeRate   float64 // annual
	periodsPerYear float64
}

// NewCalculator creates a calculator with the given annual risk-free rate
func NewCalculator(riskFreeRate float64) *Calculator {
	return &Calculator{
		riskFreeRate:   riskFreeRate,
		periodsPerYear: config.DefaultTradingDaysPerYear,
	}
}

// SharpeRatio computes the annualized Sharpe ratio of a return series.
// A zero-variance excess series yields exactly 0 rather than NaN so the value
// can flow into aggregate statistics.
func (c *Calculator) SharpeRatio(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	excess := c.excessReturns(returns)
	std := stdDev(excess)
	if std < 1e-10 {
		return 0
	}

	return mean(excess) / std * math.Sqrt(c.periodsPerYear)
}

// SortinoRatio is like Sharpe but its denominator is the downside deviation:
// the standard deviation of negative excess returns only. A zero-variance
// excess series yields 0, matching Sharpe, and so does a series with no
// negative excess returns (undefined downside risk claims no reward).
func (c *Calculator) SortinoRatio(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	excess := c.excessReturns(returns)
	if stdDev(excess) < 1e-10 {
		return 0
	}

	downsideVariance := 0.0
	downsideCount := 0
	for _, r := range excess {
		if r < 0 {
			downsideVariance += r * r
			downsideCount++
		}
	}
	if downsideCount == 0 || downsideVariance < 1e-20 {
		return 0
	}

	downsideStd := math.Sqrt(downsideVariance / float64(downsideCount))
	return mean(excess) / downsideStd * math.Sqrt(c.periodsPerYear)
}

// MaxDrawdown computes the largest peak-to-trough decline of a cumulative
// value series (for example a running product of 1+return). The result is
// non-positive, and exactly 0 for a series that never falls below a prior
// peak.
func (c *Calculator) MaxDrawdown(cumulative []float64) float64 {
	if len(cumulative) == 0 {
		return 0
	}

	peak := cumulative[0]
	maxDD := 0.0
	for _, v := range cumulative {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			dd := (v - peak) / peak
			if dd < maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// AllMetrics computes the full metric set for a return series. An empty
// series yields a zero-valued Metrics, never an error: a strategy with no
// realized returns simply scores at the identity values.
func (c *Calculator) AllMetrics(returns []float64) Metrics {
	if len(returns) == 0 {
		return Metrics{}
	}

	m := Metrics{
		SharpeRatio:  c.SharpeRatio(returns),
		SortinoRatio: c.SortinoRatio(returns),
		Volatility:   stdDev(returns) * math.Sqrt(c.periodsPerYear),
	}

	// Cumulative value curve and drawdown
	cumulative := make([]float64, len(returns))
	value := 1.0
	for i, r := range returns {
		value *= 1 + r
		cumulative[i] = value
	}
	m.MaxDrawdown = c.MaxDrawdown(cumulative)
	m.TotalReturn = value - 1

	if base := 1 + m.TotalReturn; base > 0 {
		m.AnnualizedReturn = math.Pow(base, c.periodsPerYear/float64(len(returns))) - 1
	} else {
		m.AnnualizedReturn = -1
	}

	if m.MaxDrawdown < 0 {
		m.CalmarRatio = m.AnnualizedReturn / math.Abs(m.MaxDrawdown)
	}

	// Win/loss statistics and loss streaks in a single scan
	var (
		wins, losses        int
		grossWin, grossLoss float64
		streak, worstStreak int
	)
	for _, r := range returns {
		switch {
		case r > 0:
			wins++
			grossWin += r
			streak = 0
		case r < 0:
			losses++
			grossLoss += -r
			streak++
			if streak > worstStreak {
				worstStreak = streak
			}
		default:
			streak = 0
		}
	}

	m.WinRate = float64(wins) / float64(len(returns))
	m.MaxConsecutiveLosses = worstStreak

	if wins > 0 {
		m.AvgWin = grossWin / float64(wins)
	}
	if losses > 0 {
		m.AvgLoss = -grossLoss / float64(losses)
	}

	switch {
	case grossLoss > 0:
		m.ProfitFactor = grossWin / grossLoss
		if m.ProfitFactor > ProfitFactorCap {
			m.ProfitFactor = ProfitFactorCap
		}
	case grossWin > 0:
		m.ProfitFactor = ProfitFactorCap
	default:
		m.ProfitFactor = 0
	}

	return m
}

// excessReturns converts the annual risk-free rate to its per-period
// equivalent and subtracts it from each return
func (c *Calculator) excessReturns(returns []float64) []float64 {
	perPeriodRF := c.riskFreeRate / c.periodsPerYear
	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r - perPeriodRF
	}
	return excess
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	avg := mean(values)
	variance := 0.0
	for _, v := range values {
		diff := v - avg
		variance += diff * diff
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}
