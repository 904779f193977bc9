package optimize

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/stratlab/stratlab/internal/strategy"
)

const (
	defaultPopulation  = 20
	defaultGenerations = 10
	eliteFraction      = 0.2
	tournamentSize     = 3
	mutationRate       = 0.1
)

// Genetic evolves a population of parameter sets. Each generation is
// fully evaluated, the top 20% survive as elite, and the remainder is
// bred by tournament selection, uniform crossover and per-gene
// mutation. The best individual ever seen is tracked across all
// generations. Failed evaluations are logged and skipped.
func (o *Optimizer) Genetic(ctx context.Context, sets CandidateSets, popSize, generations int) (*Report, error) {
	if popSize <= 0 {
		popSize = defaultPopulation
	}
	if generations <= 0 {
		generations = defaultGenerations
	}

	o.log.Info("genetic search started",
		zap.Int("population", popSize),
		zap.Int("generations", generations),
		zap.String("objective", string(o.obj)))

	report := &Report{Objective: o.obj, Method: "genetic"}
	population := o.initPopulation(sets, popSize)
	trial := 0

	for gen := 0; gen < generations; gen++ {
		var evaluated []Trial
		for _, individual := range population {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}

			t, err := o.evaluate(ctx, individual, "genetic", trial)
			trial++
			if err != nil {
				report.Skipped++
				o.log.Warn("evaluation failed",
					zap.Int("generation", gen),
					zap.Error(err))
				continue
			}
			report.Evaluated++
			evaluated = append(evaluated, *t)
			report.Top = append(report.Top, *t)

			if report.Best == nil || t.Score > report.Best.Score {
				best := *t
				report.Best = &best
				o.log.Debug("new best",
					zap.Int("generation", gen),
					zap.Float64("score", t.Score))
			}
		}

		if len(evaluated) == 0 {
			o.log.Warn("no valid individuals in generation", zap.Int("generation", gen))
			continue
		}

		sort.SliceStable(evaluated, func(i, j int) bool {
			return evaluated[i].Score > evaluated[j].Score
		})
		o.log.Info("generation evaluated",
			zap.Int("generation", gen),
			zap.Float64("best", evaluated[0].Score),
			zap.Float64("average", averageScore(evaluated)))

		if gen < generations-1 {
			population = o.nextGeneration(sets, evaluated, popSize)
		}
	}

	sort.SliceStable(report.Top, func(i, j int) bool {
		return report.Top[i].Score > report.Top[j].Score
	})
	if len(report.Top) > topResults {
		report.Top = report.Top[:topResults]
	}

	o.log.Info("genetic search finished",
		zap.Int("evaluated", report.Evaluated),
		zap.Int("skipped", report.Skipped))

	return report, nil
}

// initPopulation draws random individuals and repairs the MA ordering.
func (o *Optimizer) initPopulation(sets CandidateSets, size int) []strategy.Parameters {
	population := make([]strategy.Parameters, 0, size)
	for len(population) < size {
		population = append(population, o.repair(sets, o.randomIndividual(sets)))
	}
	return population
}

func (o *Optimizer) randomIndividual(sets CandidateSets) strategy.Parameters {
	return strategy.Parameters{
		MAShort:             sets.MAShort[o.rng.Intn(len(sets.MAShort))],
		MALong:              sets.MALong[o.rng.Intn(len(sets.MALong))],
		RSIPeriod:           sets.RSIPeriod[o.rng.Intn(len(sets.RSIPeriod))],
		ConfidenceThreshold: sets.ConfidenceThreshold[o.rng.Intn(len(sets.ConfidenceThreshold))],
		RiskReward:          sets.RiskReward[o.rng.Intn(len(sets.RiskReward))],
	}
}

// repair resamples ma_short from the subset below ma_long when the
// ordering invariant is violated.
func (o *Optimizer) repair(sets CandidateSets, p strategy.Parameters) strategy.Parameters {
	if p.MAShort < p.MALong {
		return p
	}
	var valid []int
	for _, v := range sets.MAShort {
		if v < p.MALong {
			valid = append(valid, v)
		}
	}
	if len(valid) == 0 {
		// No candidate fits below this long MA; shrink instead.
		p.MAShort = p.MALong - 1
		return p
	}
	p.MAShort = valid[o.rng.Intn(len(valid))]
	return p
}

func (o *Optimizer) nextGeneration(sets CandidateSets, evaluated []Trial, size int) []strategy.Parameters {
	eliteSize := int(float64(size) * eliteFraction)
	if eliteSize < 1 {
		eliteSize = 1
	}
	if eliteSize > len(evaluated) {
		eliteSize = len(evaluated)
	}

	next := make([]strategy.Parameters, 0, size)
	for _, t := range evaluated[:eliteSize] {
		next = append(next, t.Params)
	}

	for len(next) < size {
		p1 := o.tournament(evaluated)
		p2 := o.tournament(evaluated)
		child := o.mutate(sets, o.crossover(p1, p2))
		next = append(next, o.repair(sets, child))
	}
	return next
}

// tournament picks the fittest of tournamentSize random contenders.
func (o *Optimizer) tournament(evaluated []Trial) strategy.Parameters {
	best := evaluated[o.rng.Intn(len(evaluated))]
	for i := 1; i < tournamentSize && i < len(evaluated); i++ {
		c := evaluated[o.rng.Intn(len(evaluated))]
		if c.Score > best.Score {
			best = c
		}
	}
	return best.Params
}

// crossover picks every gene uniformly from either parent.
func (o *Optimizer) crossover(a, b strategy.Parameters) strategy.Parameters {
	child := a
	if o.rng.Intn(2) == 1 {
		child.MAShort = b.MAShort
	}
	if o.rng.Intn(2) == 1 {
		child.MALong = b.MALong
	}
	if o.rng.Intn(2) == 1 {
		child.RSIPeriod = b.RSIPeriod
	}
	if o.rng.Intn(2) == 1 {
		child.ConfidenceThreshold = b.ConfidenceThreshold
	}
	if o.rng.Intn(2) == 1 {
		child.RiskReward = b.RiskReward
	}
	return child
}

// mutate replaces each gene with a fresh candidate at mutationRate.
func (o *Optimizer) mutate(sets CandidateSets, p strategy.Parameters) strategy.Parameters {
	if o.rng.Float64() < mutationRate {
		p.MAShort = sets.MAShort[o.rng.Intn(len(sets.MAShort))]
	}
	if o.rng.Float64() < mutationRate {
		p.MALong = sets.MALong[o.rng.Intn(len(sets.MALong))]
	}
	if o.rng.Float64() < mutationRate {
		p.RSIPeriod = sets.RSIPeriod[o.rng.Intn(len(sets.RSIPeriod))]
	}
	if o.rng.Float64() < mutationRate {
		p.ConfidenceThreshold = sets.ConfidenceThreshold[o.rng.Intn(len(sets.ConfidenceThreshold))]
	}
	if o.rng.Float64() < mutationRate {
		p.RiskReward = sets.RiskReward[o.rng.Intn(len(sets.RiskReward))]
	}
	return p
}

func averageScore(trials []Trial) float64 {
	var sum float64
	for _, t := range trials {
		sum += t.Score
	}
	return sum / float64(len(trials))
}
