// Package strategy synthesizes directional trading signals from
// indicator and pattern analysis of a candle window.
package strategy

import (
	"fmt"

	"github.com/stratlab/stratlab/internal/core"
)

// Parameters holds the tunable knobs of the strategy.
type Parameters struct {
	MAShort             int     `mapstructure:"ma_short" json:"ma_short"`
	MALong              int     `mapstructure:"ma_long" json:"ma_long"`
	RSIPeriod           int     `mapstructure:"rsi_period" json:"rsi_period"`
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold" json:"confidence_threshold"`
	RiskReward          float64 `mapstructure:"risk_reward_ratio" json:"risk_reward_ratio"`
}

// DefaultParameters returns the reference parameter set.
func DefaultParameters() Parameters {
	return Parameters{
		MAShort:             20,
		MALong:              50,
		RSIPeriod:           14,
		ConfidenceThreshold: 60,
		RiskReward:          2.0,
	}
}

// Validate rejects parameter sets that cannot produce a meaningful
// strategy. The short MA length must stay below the long one.
func (p Parameters) Validate() error {
	if p.MAShort <= 0 || p.MALong <= 0 || p.RSIPeriod <= 0 {
		return core.WrapError(core.ErrInvalidParameter,
			fmt.Errorf("periods must be positive: ma_short=%d ma_long=%d rsi_period=%d",
				p.MAShort, p.MALong, p.RSIPeriod))
	}
	if p.MAShort >= p.MALong {
		return core.WrapError(core.ErrInvalidParameter,
			fmt.Errorf("ma_short (%d) must be less than ma_long (%d)", p.MAShort, p.MALong))
	}
	if p.ConfidenceThreshold < 0 || p.ConfidenceThreshold > 100 {
		return core.WrapError(core.ErrInvalidParameter,
			fmt.Errorf("confidence_threshold (%f) must be within [0,100]", p.ConfidenceThreshold))
	}
	if p.RiskReward <= 0 {
		return core.WrapError(core.ErrInvalidParameter,
			fmt.Errorf("risk_reward_ratio (%f) must be positive", p.RiskReward))
	}
	return nil
}
