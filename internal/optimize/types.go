// Package optimize searches the strategy parameter space with grid
// search or a genetic algorithm, using backtest runs as the fitness
// function.
package optimize

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/stratlab/stratlab/internal/backtest"
	"github.com/stratlab/stratlab/internal/core"
	"github.com/stratlab/stratlab/internal/strategy"
)

// Runner executes one backtest for one parameter set. It is satisfied
// by *backtest.Simulator.
type Runner interface {
	Run(ctx context.Context, candles []core.Candle, params strategy.Parameters) (*backtest.Result, error)
}

// Recorder receives evaluation counters. It is satisfied by
// *metrics.Registry; a nil Recorder disables recording.
type Recorder interface {
	RecordEvaluation(method string)
	RecordSkip(method string)
}

// CandidateSets holds the discrete values each parameter may take.
type CandidateSets struct {
	MAShort             []int     `mapstructure:"ma_short" json:"ma_short"`
	MALong              []int     `mapstructure:"ma_long" json:"ma_long"`
	RSIPeriod           []int     `mapstructure:"rsi_period" json:"rsi_period"`
	ConfidenceThreshold []float64 `mapstructure:"confidence_threshold" json:"confidence_threshold"`
	RiskReward          []float64 `mapstructure:"risk_reward_ratio" json:"risk_reward_ratio"`
}

// DefaultCandidateSets returns the reference search space.
func DefaultCandidateSets() CandidateSets {
	return CandidateSets{
		MAShort:             []int{10, 15, 20, 25, 30},
		MALong:              []int{40, 50, 60, 70, 80},
		RSIPeriod:           []int{12, 14, 16, 18},
		ConfidenceThreshold: []float64{55, 60, 65, 70},
		RiskReward:          []float64{1.5, 2.0, 2.5, 3.0},
	}
}

// Trial is one evaluated parameter set.
type Trial struct {
	Params  strategy.Parameters `json:"parameters"`
	Score   float64             `json:"score"`
	Metrics backtest.Metrics    `json:"metrics"`
	Index   int                 `json:"trial"`
}

// Report is the outcome of one search.
type Report struct {
	Best      *Trial    `json:"best,omitempty"`
	Top       []Trial   `json:"top_results"`
	Objective Objective `json:"objective"`
	Method    string    `json:"method"`
	Evaluated int       `json:"evaluated"`
	Skipped   int       `json:"skipped"`
}

const topResults = 10

// Optimizer runs parameter searches against a fixed candle series.
type Optimizer struct {
	runner  Runner
	candles []core.Candle
	obj     Objective
	log     *zap.Logger
	rec     Recorder
	rng     *rand.Rand
}

// New creates an Optimizer. A nil logger disables logging and a nil
// recorder disables counters.
func New(runner Runner, candles []core.Candle, obj Objective, log *zap.Logger, rec Recorder) *Optimizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Optimizer{
		runner:  runner,
		candles: candles,
		obj:     obj,
		log:     log,
		rec:     rec,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Seed makes the genetic algorithm and grid subsampling reproducible.
func (o *Optimizer) Seed(seed int64) {
	o.rng = rand.New(rand.NewSource(seed))
}

// evaluate runs one backtest and scores it against the objective.
func (o *Optimizer) evaluate(ctx context.Context, params strategy.Parameters, method string, index int) (*Trial, error) {
	res, err := o.runner.Run(ctx, o.candles, params)
	if err != nil {
		if o.rec != nil {
			o.rec.RecordSkip(method)
		}
		return nil, err
	}
	if o.rec != nil {
		o.rec.RecordEvaluation(method)
	}
	return &Trial{
		Params:  params,
		Score:   o.obj.Score(res.Metrics),
		Metrics: res.Metrics,
		Index:   index,
	}, nil
}
