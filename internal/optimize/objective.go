package optimize

import (
	"fmt"

	"github.com/stratlab/stratlab/internal/backtest"
	"github.com/stratlab/stratlab/internal/core"
)

// Objective names the metric a search maximizes.
type Objective string

const (
	ObjectiveSharpe       Objective = "sharpe_ratio"
	ObjectiveProfitFactor Objective = "profit_factor"
	ObjectiveWinRate      Objective = "win_rate"
	ObjectiveCombined     Objective = "combined"
)

// Reference ranges for normalization. An unbounded profit factor is
// scored as the top of its range.
const (
	sharpeRange       = 2.0
	profitFactorRange = 3.0
	winRateRange      = 100.0
)

// ParseObjective validates an objective name.
func ParseObjective(s string) (Objective, error) {
	switch Objective(s) {
	case ObjectiveSharpe, ObjectiveProfitFactor, ObjectiveWinRate, ObjectiveCombined:
		return Objective(s), nil
	}
	return "", core.WrapError(core.ErrInvalidParameter,
		fmt.Errorf("unknown objective %q", s))
}

// Score reduces a metrics set to the single scalar the search ranks by.
func (o Objective) Score(m backtest.Metrics) float64 {
	switch o {
	case ObjectiveSharpe:
		return m.Sharpe
	case ObjectiveProfitFactor:
		return m.ProfitFactor.Or(profitFactorRange)
	case ObjectiveWinRate:
		return m.WinRate
	case ObjectiveCombined:
		sharpe := m.Sharpe / sharpeRange
		pf := m.ProfitFactor.Or(profitFactorRange) / profitFactorRange
		wr := m.WinRate / winRateRange
		return (sharpe*0.4 + pf*0.4 + wr*0.2) * 100
	}
	return 0
}
