package strategy

import (
	"math"

	"github.com/stratlab/stratlab/internal/core"
	"github.com/stratlab/stratlab/internal/indicator"
)

// pipSize is the price distance of one pip for the modeled instrument.
const pipSize = 0.01

// maxStructureMove caps how far a structure-derived target may sit from
// the entry (1%).
const maxStructureMove = 0.01

// deriveExit computes take-profit and stop-loss levels for an entry.
// When a usable structure level exists on the target side, the exit
// targets it (capped at 1% from entry) and the stop is the target
// distance divided by the risk/reward ratio, nudged just beyond the
// nearer structure level. Otherwise a fixed-fraction fallback is used.
func (s *Synthesizer) deriveExit(direction core.Direction, entry float64, candles []core.Candle) *core.TargetExit {
	lookback := srLookback
	if len(candles) < lookback {
		lookback = len(candles)
	}
	levels, err := indicator.SupportResistance(candles, lookback)
	if err != nil {
		return nil
	}

	rr := s.params.RiskReward

	if direction == core.DirectionBuy {
		if levels.Resistance > entry {
			tp := math.Min(levels.Resistance, entry*(1+maxStructureMove))
			sl := entry - (tp-entry)/rr
			if levels.Support > 0 && levels.Support < entry {
				// keep the stop just under support when that is tighter
				sl = math.Min(sl, levels.Support*0.999)
			}
			return buildExit(direction, entry, tp, sl, core.ExitMethodSupportResistance, levels)
		}

		slDist := entry * 0.002
		if levels.Support > 0 {
			slDist = (entry - levels.Support) * 0.5
		}
		tp := entry + slDist*rr
		sl := entry - slDist
		return buildExit(direction, entry, tp, sl, core.ExitMethodFixed, levels)
	}

	// SELL
	if levels.Support > 0 && levels.Support < entry {
		tp := math.Max(levels.Support, entry*(1-maxStructureMove))
		sl := entry + (entry-tp)/rr
		if levels.Resistance > entry {
			sl = math.Max(sl, levels.Resistance*1.001)
		}
		return buildExit(direction, entry, tp, sl, core.ExitMethodSupportResistance, levels)
	}

	slDist := entry * 0.002
	if levels.Resistance > entry {
		slDist = (levels.Resistance - entry) * 0.5
	}
	tp := entry - slDist*rr
	sl := entry + slDist
	return buildExit(direction, entry, tp, sl, core.ExitMethodFixed, levels)
}

func buildExit(direction core.Direction, entry, tp, sl float64, method core.ExitMethod, levels indicator.Levels) *core.TargetExit {
	tpDist := tp - entry
	slDist := entry - sl
	if direction == core.DirectionSell {
		tpDist = entry - tp
		slDist = sl - entry
	}

	return &core.TargetExit{
		TakeProfit:     round2(tp),
		StopLoss:       round2(sl),
		TakeProfitPips: int(math.Round(tpDist / pipSize)),
		StopLossPips:   int(math.Round(slDist / pipSize)),
		Method:         method,
		Support:        levels.Support,
		Resistance:     levels.Resistance,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
