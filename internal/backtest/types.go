package backtest

import (
	"time"

	"github.com/stratlab/stratlab/internal/core"
)

// Exit reasons recorded on closed trades.
const (
	ExitReasonTakeProfit = "TP"
	ExitReasonStopLoss   = "SL"
	ExitReasonEndOfData  = "end of data"
)

// Position is the single open trade a simulation may hold.
type Position struct {
	Direction  core.Direction
	EntryPrice float64
	EntryTime  time.Time
	Volume     float64
	Exit       core.TargetExit
	Confidence float64
}

// Trade is one closed trade, immutable once appended to the log.
type Trade struct {
	Direction  core.Direction `json:"type"`
	EntryPrice float64        `json:"entry_price"`
	ExitPrice  float64        `json:"exit_price"`
	EntryTime  time.Time      `json:"entry_time"`
	ExitTime   time.Time      `json:"exit_time"`
	Volume     float64        `json:"volume"`
	PnL        float64        `json:"pnl"`
	ExitReason string         `json:"reason"`
	Win        bool           `json:"win"`
}

// Result holds the complete output of one simulation run.
type Result struct {
	Trades         []Trade      `json:"trades"`
	EquityCurve    []float64    `json:"equity_curve"`
	InitialBalance float64      `json:"initial_balance"`
	FinalBalance   float64      `json:"final_balance"`
	TotalReturnPct float64      `json:"total_return_pct"`
	ProcessedBars  int          `json:"processed_bars"`
	Metrics        Metrics      `json:"metrics"`
}
