package strategy

import (
	"fmt"
	"strings"

	"github.com/stratlab/stratlab/internal/core"
	"github.com/stratlab/stratlab/internal/indicator"
)

// minWindow is the smallest candle window the synthesizer analyzes.
const minWindow = 20

// srLookback caps the support/resistance detection window.
const srLookback = 50

// Synthesizer combines indicator and pattern analysis into one signal
// per evaluation point.
type Synthesizer struct {
	params Parameters
}

// NewSynthesizer validates the parameters and returns a synthesizer.
func NewSynthesizer(params Parameters) (*Synthesizer, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Synthesizer{params: params}, nil
}

// Params returns the parameter set the synthesizer was built with.
func (s *Synthesizer) Params() Parameters {
	return s.params
}

type vote struct {
	direction core.Direction
	weight    float64
}

// Evaluate analyzes the candle window and produces a signal. Seven
// sub-signals vote BUY or SELL; the direction is decided by the raw
// vote count while the confidence sums the winning side's weights.
// A window below 20 bars yields a neutral signal, never an error.
func (s *Synthesizer) Evaluate(candles []core.Candle) core.Signal {
	if len(candles) < minWindow {
		return core.Signal{
			Direction:  core.DirectionNeutral,
			Confidence: 0,
			Reason:     "insufficient data",
		}
	}

	prices := make([]float64, len(candles))
	for i, c := range candles {
		prices[i] = c.Close
	}
	currentPrice := prices[len(prices)-1]

	analysis := map[string]float64{"current_price": currentPrice}
	var votes []vote

	// 1. MA crossover plus price position, weight 25
	smaShort, errShort := indicator.SMA(prices, s.params.MAShort)
	smaLong, errLong := indicator.SMA(prices, s.params.MALong)
	if errLong != nil {
		// not enough history for the long leg, reuse the short one
		smaLong = smaShort
		errLong = errShort
	}
	if errShort == nil && errLong == nil {
		analysis["sma_short"] = smaShort
		analysis["sma_long"] = smaLong
		if smaShort > smaLong && currentPrice > smaShort {
			votes = append(votes, vote{core.DirectionBuy, 25})
		} else if smaShort < smaLong && currentPrice < smaShort {
			votes = append(votes, vote{core.DirectionSell, 25})
		}
	}

	// 2. RSI oversold/overbought, weight 20
	rsi, errRSI := indicator.RSI(prices, s.params.RSIPeriod)
	if errRSI == nil {
		analysis["rsi"] = rsi
		if rsi < 30 {
			votes = append(votes, vote{core.DirectionBuy, 20})
		} else if rsi > 70 {
			votes = append(votes, vote{core.DirectionSell, 20})
		}
	}

	// 3. MACD histogram and line/signal relationship, weight 20
	macd, errMACD := indicator.CalcMACD(prices)
	if errMACD == nil {
		analysis["macd"] = macd.Line
		analysis["macd_signal"] = macd.Signal
		analysis["macd_histogram"] = macd.Histogram
		if macd.Histogram > 0 && macd.Line > macd.Signal {
			votes = append(votes, vote{core.DirectionBuy, 20})
		} else if macd.Histogram < 0 && macd.Line < macd.Signal {
			votes = append(votes, vote{core.DirectionSell, 20})
		}
	}

	// 4. EMA(12/26) crossover, weight 15
	ema12, errEMA12 := indicator.EMA(prices, 12)
	ema26, errEMA26 := indicator.EMA(prices, 26)
	if errEMA26 != nil {
		ema26 = ema12
		errEMA26 = errEMA12
	}
	if errEMA12 == nil && errEMA26 == nil {
		analysis["ema_12"] = ema12
		analysis["ema_26"] = ema26
		if ema12 > ema26 && currentPrice > ema12 {
			votes = append(votes, vote{core.DirectionBuy, 15})
		} else if ema12 < ema26 && currentPrice < ema12 {
			votes = append(votes, vote{core.DirectionSell, 15})
		}
	}

	// 5. proximity to a strong structure level, weight 15
	lookback := srLookback
	if len(candles) < lookback {
		lookback = len(candles)
	}
	levels, errLevels := indicator.SupportResistance(candles, lookback)
	if errLevels == nil && levels.Support > 0 && levels.Resistance > 0 {
		analysis["support"] = levels.Support
		analysis["resistance"] = levels.Resistance
		distToSupport := (currentPrice - levels.Support) / currentPrice * 100
		distToResistance := (levels.Resistance - currentPrice) / currentPrice * 100
		if distToSupport < 0.2 && levels.SupportStrength >= 2 {
			votes = append(votes, vote{core.DirectionBuy, 15})
		} else if distToResistance < 0.2 && levels.ResistanceStrength >= 2 {
			votes = append(votes, vote{core.DirectionSell, 15})
		}
	}

	// 6. aggregate candlestick pattern strength, weight |strength|
	patterns, errPatterns := indicator.DetectPatterns(candles)
	if errPatterns == nil {
		analysis["pattern_strength"] = patterns.Strength
		if patterns.Strength > 10 {
			votes = append(votes, vote{core.DirectionBuy, patterns.Strength})
		} else if patterns.Strength < -10 {
			votes = append(votes, vote{core.DirectionSell, -patterns.Strength})
		}
	}

	// 7. 5-bar momentum, weight 10
	if len(prices) >= 5 {
		change := (prices[len(prices)-1] - prices[len(prices)-5]) / prices[len(prices)-5] * 100
		analysis["momentum_pct"] = change
		if change > 0.1 {
			votes = append(votes, vote{core.DirectionBuy, 10})
		} else if change < -0.1 {
			votes = append(votes, vote{core.DirectionSell, 10})
		}
	}

	direction, confidence := tally(votes)
	analysis["buy_votes"] = countVotes(votes, core.DirectionBuy)
	analysis["sell_votes"] = countVotes(votes, core.DirectionSell)

	sig := core.Signal{
		Direction:  direction,
		Confidence: confidence,
		Reason:     buildReason(analysis, errRSI == nil, errMACD == nil),
		Analysis:   analysis,
		Patterns:   patterns.Patterns,
	}

	if sig.Actionable() {
		sig.Exit = s.deriveExit(direction, currentPrice, candles)
		sig.Reason += describeExit(sig.Exit)
	}

	return sig
}

// tally decides direction by simple majority of vote count; confidence
// is the sum of the winning direction's weights capped at 100. This is
// a deliberate asymmetry: a heavily weighted minority vote does not
// move the direction, only the reported confidence of its opposite.
func tally(votes []vote) (core.Direction, float64) {
	var buyCount, sellCount int
	var buyWeight, sellWeight float64
	for _, v := range votes {
		switch v.direction {
		case core.DirectionBuy:
			buyCount++
			buyWeight += v.weight
		case core.DirectionSell:
			sellCount++
			sellWeight += v.weight
		}
	}

	switch {
	case buyCount > sellCount:
		return core.DirectionBuy, capConfidence(buyWeight)
	case sellCount > buyCount:
		return core.DirectionSell, capConfidence(sellWeight)
	default:
		return core.DirectionNeutral, 50
	}
}

func capConfidence(w float64) float64 {
	if w > 100 {
		return 100
	}
	return w
}

func countVotes(votes []vote, dir core.Direction) float64 {
	n := 0.0
	for _, v := range votes {
		if v.direction == dir {
			n++
		}
	}
	return n
}

func buildReason(analysis map[string]float64, haveRSI, haveMACD bool) string {
	var reasons []string

	smaShort, okShort := analysis["sma_short"]
	smaLong, okLong := analysis["sma_long"]
	if okShort && okLong {
		if smaShort > smaLong {
			reasons = append(reasons, fmt.Sprintf("SMA short (%.2f) > SMA long (%.2f)", smaShort, smaLong))
		} else if smaShort < smaLong {
			reasons = append(reasons, fmt.Sprintf("SMA short (%.2f) < SMA long (%.2f)", smaShort, smaLong))
		}
	}

	if haveRSI {
		if rsi := analysis["rsi"]; rsi < 30 {
			reasons = append(reasons, fmt.Sprintf("RSI oversold (%.1f)", rsi))
		} else if rsi > 70 {
			reasons = append(reasons, fmt.Sprintf("RSI overbought (%.1f)", rsi))
		}
	}

	if haveMACD {
		if hist := analysis["macd_histogram"]; hist > 0 {
			reasons = append(reasons, "MACD bullish")
		} else if hist < 0 {
			reasons = append(reasons, "MACD bearish")
		}
	}

	if len(reasons) == 0 {
		return "Mixed signals"
	}
	return strings.Join(reasons, "; ")
}

func describeExit(exit *core.TargetExit) string {
	if exit == nil {
		return ""
	}
	if exit.Method == core.ExitMethodSupportResistance {
		return fmt.Sprintf("; TP: %.2f, SL: %.2f (structure: S %.2f / R %.2f)",
			exit.TakeProfit, exit.StopLoss, exit.Support, exit.Resistance)
	}
	return fmt.Sprintf("; TP: %.2f, SL: %.2f (fixed)", exit.TakeProfit, exit.StopLoss)
}
