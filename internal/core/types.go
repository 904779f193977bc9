package core

import "time"

// Timeframe identifies the bar interval of a candle series.
type Timeframe string

const (
	TimeframeM1  Timeframe = "M1"
	TimeframeM5  Timeframe = "M5"
	TimeframeM15 Timeframe = "M15"
	TimeframeH1  Timeframe = "H1"
	TimeframeH4  Timeframe = "H4"
	TimeframeD1  Timeframe = "D1"
)

// CandlesPerDay returns how many bars of this timeframe fit in one day.
// Unknown timeframes fall back to hourly.
func (tf Timeframe) CandlesPerDay() int {
	switch tf {
	case TimeframeM1:
		return 1440
	case TimeframeM5:
		return 288
	case TimeframeM15:
		return 96
	case TimeframeH1:
		return 24
	case TimeframeH4:
		return 6
	case TimeframeD1:
		return 1
	default:
		return 24
	}
}

// BarsPerYear returns the annualization factor for this timeframe,
// assuming 252 trading days. H1 yields 6048.
func (tf Timeframe) BarsPerYear() float64 {
	return float64(252 * tf.CandlesPerDay())
}

// Candle represents one OHLCV bar.
type Candle struct {
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
	Time   time.Time `json:"time"`
}

// Valid checks the OHLC envelope: the high must be at least the body
// top, the low at most the body bottom, and the close positive.
func (c Candle) Valid() bool {
	bodyTop := c.Open
	if c.Close > bodyTop {
		bodyTop = c.Close
	}
	bodyBottom := c.Open
	if c.Close < bodyBottom {
		bodyBottom = c.Close
	}
	return c.Close > 0 && c.High >= bodyTop && c.Low <= bodyBottom
}

// Direction represents a trading signal direction.
type Direction string

const (
	DirectionBuy     Direction = "BUY"
	DirectionSell    Direction = "SELL"
	DirectionNeutral Direction = "NEUTRAL"
)

// ExitMethod tells how a TargetExit was derived.
type ExitMethod string

const (
	ExitMethodFixed             ExitMethod = "fixed"
	ExitMethodSupportResistance ExitMethod = "support_resistance"
)

// TargetExit holds take-profit and stop-loss levels for a signal.
type TargetExit struct {
	TakeProfit     float64    `json:"tp"`
	StopLoss       float64    `json:"sl"`
	TakeProfitPips int        `json:"tp_pips"`
	StopLossPips   int        `json:"sl_pips"`
	Method         ExitMethod `json:"method"`
	Support        float64    `json:"support_level,omitempty"`
	Resistance     float64    `json:"resistance_level,omitempty"`
}

// Signal is the synthesizer output for one evaluation point.
type Signal struct {
	Direction  Direction          `json:"signal"`
	Confidence float64            `json:"confidence"` // 0-100
	Reason     string             `json:"reason"`
	Exit       *TargetExit        `json:"tp_sl,omitempty"`
	Analysis   map[string]float64 `json:"analysis,omitempty"`
	Patterns   []string           `json:"patterns,omitempty"`
}

// Actionable reports whether the signal proposes a trade.
func (s Signal) Actionable() bool {
	return s.Direction == DirectionBuy || s.Direction == DirectionSell
}
