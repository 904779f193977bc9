package optimize

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/stratlab/stratlab/internal/strategy"
)

const defaultGridCap = 100

// Grid enumerates the Cartesian product of the candidate sets,
// discards combinations with ma_short >= ma_long, uniformly subsamples
// to maxCombinations when the survivors exceed it, and evaluates the
// rest sequentially. Cancellation is honored between evaluations, not
// inside one. Failed evaluations are logged and skipped.
func (o *Optimizer) Grid(ctx context.Context, sets CandidateSets, maxCombinations int) (*Report, error) {
	if maxCombinations <= 0 {
		maxCombinations = defaultGridCap
	}

	combos := enumerate(sets)
	total := len(combos)
	if total > maxCombinations {
		combos = subsample(combos, maxCombinations)
		o.log.Info("limiting grid search",
			zap.Int("combinations", total),
			zap.Int("cap", maxCombinations))
	}

	o.log.Info("grid search started",
		zap.Int("combinations", len(combos)),
		zap.String("objective", string(o.obj)))

	report := &Report{Objective: o.obj, Method: "grid"}

	for i, params := range combos {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		trial, err := o.evaluate(ctx, params, "grid", i)
		if err != nil {
			report.Skipped++
			o.log.Warn("evaluation failed",
				zap.Int("trial", i),
				zap.Error(err))
			continue
		}
		report.Evaluated++
		report.Top = append(report.Top, *trial)

		if report.Best == nil || trial.Score > report.Best.Score {
			report.Best = trial
			o.log.Debug("new best",
				zap.Int("trial", i),
				zap.Float64("score", trial.Score))
		}
	}

	sort.SliceStable(report.Top, func(i, j int) bool {
		return report.Top[i].Score > report.Top[j].Score
	})
	if len(report.Top) > topResults {
		report.Top = report.Top[:topResults]
	}

	o.log.Info("grid search finished",
		zap.Int("evaluated", report.Evaluated),
		zap.Int("skipped", report.Skipped))

	return report, nil
}

// enumerate builds the full Cartesian product, keeping only valid
// parameter sets.
func enumerate(sets CandidateSets) []strategy.Parameters {
	var combos []strategy.Parameters
	for _, short := range sets.MAShort {
		for _, long := range sets.MALong {
			if short >= long {
				continue
			}
			for _, rsi := range sets.RSIPeriod {
				for _, conf := range sets.ConfidenceThreshold {
					for _, rr := range sets.RiskReward {
						combos = append(combos, strategy.Parameters{
							MAShort:             short,
							MALong:              long,
							RSIPeriod:           rsi,
							ConfidenceThreshold: conf,
							RiskReward:          rr,
						})
					}
				}
			}
		}
	}
	return combos
}

// subsample picks n evenly spaced combinations, preserving order.
func subsample(combos []strategy.Parameters, n int) []strategy.Parameters {
	out := make([]strategy.Parameters, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, combos[i*len(combos)/n])
	}
	return out
}
