package backtest

import "math"

// Ratio is a metric value that can be finite or unbounded. Degenerate
// cases like a profit factor with zero gross loss are represented with
// the Unbounded flag instead of a floating-point infinity, so results
// compare and serialize predictably.
type Ratio struct {
	Value     float64 `json:"value"`
	Unbounded bool    `json:"unbounded,omitempty"`
}

// Finite wraps a plain metric value.
func Finite(v float64) Ratio {
	return Ratio{Value: v}
}

// UnboundedRatio marks a metric with no finite value (e.g. profits and
// no losses).
func UnboundedRatio() Ratio {
	return Ratio{Unbounded: true}
}

// Or returns the value, or the given cap when the ratio is unbounded.
func (r Ratio) Or(cap float64) float64 {
	if r.Unbounded {
		return cap
	}
	return r.Value
}

// Metrics holds the risk/return statistics of one simulation run.
type Metrics struct {
	WinRate        float64 `json:"win_rate"`
	TotalPnL       float64 `json:"total_pnl"`
	ProfitFactor   Ratio   `json:"profit_factor"`
	MaxDrawdown    float64 `json:"max_drawdown"`
	MaxDrawdownPct float64 `json:"max_drawdown_pct"`
	Sharpe         float64 `json:"sharpe_ratio"`
	Sortino        Ratio   `json:"sortino_ratio"`
	Expectancy     float64 `json:"expectancy"`
	RecoveryFactor Ratio   `json:"recovery_factor"`
	TotalTrades    int     `json:"total_trades"`
	WinningTrades  int     `json:"winning_trades"`
	LosingTrades   int     `json:"losing_trades"`
	AvgWin         float64 `json:"avg_win"`
	AvgLoss        float64 `json:"avg_loss"`
}

// Evaluate computes all metrics from a trade log and equity curve. It
// is a pure function: identical inputs yield identical outputs, and
// empty inputs degrade to zero values instead of failing. barsPerYear
// annualizes Sharpe and Sortino and must match the series' timeframe.
func Evaluate(trades []Trade, equity []float64, barsPerYear float64) Metrics {
	m := Metrics{TotalTrades: len(trades)}

	var grossProfit, grossLoss float64
	for _, t := range trades {
		m.TotalPnL += t.PnL
		if t.PnL > 0 {
			m.WinningTrades++
			grossProfit += t.PnL
		} else if t.PnL < 0 {
			m.LosingTrades++
			grossLoss += -t.PnL
		}
	}
	m.TotalPnL = round2(m.TotalPnL)

	if len(trades) > 0 {
		wins := 0
		for _, t := range trades {
			if t.Win {
				wins++
			}
		}
		m.WinRate = round2(float64(wins) / float64(len(trades)) * 100)
		m.Expectancy = round2(m.TotalPnL / float64(len(trades)))
	}

	m.ProfitFactor = ratioOf(grossProfit, grossLoss)
	if m.WinningTrades > 0 {
		m.AvgWin = round2(grossProfit / float64(m.WinningTrades))
	}
	if m.LosingTrades > 0 {
		m.AvgLoss = round2(-grossLoss / float64(m.LosingTrades))
	}

	m.MaxDrawdown, m.MaxDrawdownPct = maxDrawdown(equity)

	returns := barReturns(equity)
	m.Sharpe = sharpe(returns, barsPerYear)
	m.Sortino = sortino(returns, barsPerYear)

	m.RecoveryFactor = ratioOf(m.TotalPnL, m.MaxDrawdown)

	return m
}

// ratioOf divides numerator by denominator with the documented
// degenerate handling: 0 when both are zero, unbounded when only the
// denominator is.
func ratioOf(num, den float64) Ratio {
	if den == 0 {
		if num == 0 {
			return Finite(0)
		}
		return UnboundedRatio()
	}
	return Finite(round2(num / den))
}

// maxDrawdown returns the largest peak-to-trough drop of the equity
// curve, absolute and as a percentage of the peak.
func maxDrawdown(equity []float64) (float64, float64) {
	if len(equity) == 0 {
		return 0, 0
	}

	peak := equity[0]
	var maxDD, maxDDPct float64
	for _, e := range equity {
		if e > peak {
			peak = e
		}
		dd := peak - e
		if dd > maxDD {
			maxDD = dd
			if peak > 0 {
				maxDDPct = dd / peak * 100
			}
		}
	}
	return round2(maxDD), round2(maxDDPct)
}

// barReturns converts the equity curve into per-bar relative returns.
func barReturns(equity []float64) []float64 {
	var returns []float64
	for i := 1; i < len(equity); i++ {
		if equity[i-1] > 0 {
			returns = append(returns, (equity[i]-equity[i-1])/equity[i-1])
		}
	}
	return returns
}

func sharpe(returns []float64, barsPerYear float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	mean, std := meanStd(returns)
	if std == 0 {
		return 0
	}
	return round2(mean / std * math.Sqrt(barsPerYear))
}

// sortino penalizes downside volatility only. With positive mean
// return and no down bars at all the ratio is unbounded.
func sortino(returns []float64, barsPerYear float64) Ratio {
	if len(returns) < 2 {
		return Finite(0)
	}

	mean, _ := meanStd(returns)

	var downside []float64
	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}
	if len(downside) == 0 {
		if mean > 0 {
			return UnboundedRatio()
		}
		return Finite(0)
	}

	var sumSq float64
	for _, r := range downside {
		sumSq += r * r
	}
	downsideStd := math.Sqrt(sumSq / float64(len(downside)))
	if downsideStd == 0 {
		return Finite(0)
	}
	return Finite(round2(mean / downsideStd * math.Sqrt(barsPerYear)))
}

func meanStd(xs []float64) (float64, float64) {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))

	var variance float64
	for _, x := range xs {
		variance += (x - mean) * (x - mean)
	}
	return mean, math.Sqrt(variance / float64(len(xs)))
}
