// Package backtest replays a candle series bar by bar against the
// signal synthesizer, holding at most one open position at a time, and
// scores the resulting trade log.
package backtest

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/stratlab/stratlab/internal/core"
	"github.com/stratlab/stratlab/internal/strategy"
)

// Config holds the immutable settings of a Simulator. The mutable run
// state lives in a fresh simulationState per Run call, so independent
// runs never share data.
type Config struct {
	InitialBalance float64
	Volume         float64
	ContractSize   float64
	Warmup         int
	AnalysisWindow int
	Timeframe      core.Timeframe
}

// DefaultConfig returns the reference simulation settings.
func DefaultConfig() Config {
	return Config{
		InitialBalance: 100000,
		Volume:         0.20,
		ContractSize:   100,
		Warmup:         50,
		AnalysisWindow: 100,
		Timeframe:      core.TimeframeH1,
	}
}

// Simulator runs strategy simulations over historical candles. It is
// not safe for concurrent use; give each goroutine its own instance.
type Simulator struct {
	cfg Config
	log *zap.Logger
}

// New creates a Simulator. A nil logger disables logging.
func New(cfg Config, log *zap.Logger) *Simulator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Simulator{cfg: cfg, log: log}
}

// simulationState is the mutable state of exactly one run.
type simulationState struct {
	balance  float64
	position *Position
	trades   []Trade
	equity   []float64
}

// ValidateSeries checks that the candle series is time-ascending and
// every bar satisfies the OHLC envelope.
func ValidateSeries(candles []core.Candle) error {
	for i, c := range candles {
		if !c.Valid() {
			return core.WrapError(core.ErrInvalidCandle,
				fmt.Errorf("candle %d violates OHLC envelope", i))
		}
		if i > 0 && c.Time.Before(candles[i-1].Time) {
			return core.WrapError(core.ErrInvalidCandle,
				fmt.Errorf("candle %d out of order", i))
		}
	}
	return nil
}

// Run replays the candle series. The first Warmup bars only prime the
// indicators; from then on each bar first tests the open position
// against its TP/SL at the bar close, then, while flat, evaluates a new
// signal over a trailing window. Exactly one equity point is appended
// per processed bar. A series shorter than Warmup+1 bars yields
// core.ErrInsufficientData.
func (s *Simulator) Run(ctx context.Context, candles []core.Candle, params strategy.Parameters) (*Result, error) {
	synth, err := strategy.NewSynthesizer(params)
	if err != nil {
		return nil, err
	}
	if err := ValidateSeries(candles); err != nil {
		return nil, err
	}
	if len(candles) < s.cfg.Warmup+1 {
		return nil, core.WrapError(core.ErrInsufficientData,
			fmt.Errorf("need at least %d candles, got %d", s.cfg.Warmup+1, len(candles)))
	}

	st := &simulationState{
		balance: s.cfg.InitialBalance,
		equity:  []float64{s.cfg.InitialBalance},
	}

	processed := 0
	for i := s.cfg.Warmup; i < len(candles); i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		bar := candles[i]

		if st.position != nil {
			s.checkExit(st, bar)
		}

		if st.position == nil {
			start := i + 1 - s.cfg.AnalysisWindow
			if start < 0 {
				start = 0
			}
			sig := synth.Evaluate(candles[start : i+1])

			if sig.Actionable() && sig.Confidence >= params.ConfidenceThreshold && sig.Exit != nil {
				st.position = &Position{
					Direction:  sig.Direction,
					EntryPrice: bar.Close,
					EntryTime:  bar.Time,
					Volume:     s.cfg.Volume,
					Exit:       *sig.Exit,
					Confidence: sig.Confidence,
				}
				s.log.Debug("position opened",
					zap.String("direction", string(sig.Direction)),
					zap.Float64("price", bar.Close),
					zap.Float64("confidence", sig.Confidence))
			}
		}

		st.equity = append(st.equity, round2(st.balance+s.unrealized(st, bar.Close)))
		processed++
	}

	if st.position != nil {
		last := candles[len(candles)-1]
		s.closePosition(st, last.Close, last, ExitReasonEndOfData)
	}

	totalReturn := (st.balance - s.cfg.InitialBalance) / s.cfg.InitialBalance * 100

	return &Result{
		Trades:         st.trades,
		EquityCurve:    st.equity,
		InitialBalance: s.cfg.InitialBalance,
		FinalBalance:   round2(st.balance),
		TotalReturnPct: round2(totalReturn),
		ProcessedBars:  processed,
		Metrics:        Evaluate(st.trades, st.equity, s.cfg.Timeframe.BarsPerYear()),
	}, nil
}

// checkExit closes the open position when the bar close crossed its
// TP or SL level. Exits are evaluated at bar close only; intrabar
// excursions are a documented approximation this model ignores.
func (s *Simulator) checkExit(st *simulationState, bar core.Candle) {
	pos := st.position
	price := bar.Close

	var reason string
	switch pos.Direction {
	case core.DirectionBuy:
		if price >= pos.Exit.TakeProfit {
			reason = ExitReasonTakeProfit
		} else if price <= pos.Exit.StopLoss {
			reason = ExitReasonStopLoss
		}
	case core.DirectionSell:
		if price <= pos.Exit.TakeProfit {
			reason = ExitReasonTakeProfit
		} else if price >= pos.Exit.StopLoss {
			reason = ExitReasonStopLoss
		}
	}

	if reason != "" {
		s.closePosition(st, price, bar, reason)
	}
}

func (s *Simulator) closePosition(st *simulationState, exitPrice float64, bar core.Candle, reason string) {
	pos := st.position
	pnl := profitLoss(pos.Direction, pos.EntryPrice, exitPrice, pos.Volume, s.cfg.ContractSize)
	st.balance += pnl

	st.trades = append(st.trades, Trade{
		Direction:  pos.Direction,
		EntryPrice: round2(pos.EntryPrice),
		ExitPrice:  round2(exitPrice),
		EntryTime:  pos.EntryTime,
		ExitTime:   bar.Time,
		Volume:     pos.Volume,
		PnL:        pnl,
		ExitReason: reason,
		Win:        pnl > 0,
	})

	s.log.Debug("position closed",
		zap.String("direction", string(pos.Direction)),
		zap.Float64("entry", pos.EntryPrice),
		zap.Float64("exit", exitPrice),
		zap.Float64("pnl", pnl),
		zap.String("reason", reason))

	st.position = nil
}

func (s *Simulator) unrealized(st *simulationState, price float64) float64 {
	if st.position == nil {
		return 0
	}
	return profitLoss(st.position.Direction, st.position.EntryPrice, price,
		st.position.Volume, s.cfg.ContractSize)
}

// profitLoss computes the signed trade result: price difference times
// volume times contract size, rounded to cents.
func profitLoss(direction core.Direction, entry, exit, volume, contractSize float64) float64 {
	diff := exit - entry
	if direction == core.DirectionSell {
		diff = entry - exit
	}
	return round2(diff * volume * contractSize)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
