package calculation

import (
	"github.com/ampere-ops/payplan/internal/domain"
	"github.com/shopspring/decimal"
)

type rateShock struct {
	label      string
	multiplier decimal.Decimal
}

var rateShocks = []rateShock{
	{"optimistic", decimal.RequireFromString("1.3")},
	{"base", decimal.NewFromInt(1)},
	{"pessimistic", decimal.RequireFromString("0.7")},
}

// AnalyzeSensitivity re-prices a plan's installment under rate shocks of
// x1.3, x1.0 and x0.7 and reports the resulting profit and margin. Plans
// without installments have no scenarios. Readjusted plans replay their
// annual blocks with every block rate shocked.
func AnalyzeSensitivity(c domain.Condition) []domain.SensitivityScenario {
	if c.Installments == 0 || c.FinancedAmount.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	scenarios := make([]domain.SensitivityScenario, 0, len(rateShocks))
	for _, shock := range rateShocks {
		var installment, total decimal.Decimal
		if len(c.AnnualBlocks) > 0 {
			installment, total = shockReadjusted(c, shock.multiplier)
		} else {
			installment, total = shockFlat(c, shock.multiplier)
		}
		profit := total.Sub(c.TotalCost)

		scenarios = append(scenarios, domain.SensitivityScenario{
			Label:          shock.label,
			RateMultiplier: shock.multiplier,
			Installment:    installment,
			TotalProfit:    profit,
			MarginPct:      domain.MarginOf(profit, total),
		})
	}
	return scenarios
}

func shockFlat(c domain.Condition, multiplier decimal.Decimal) (installment, total decimal.Decimal) {
	k := c.AnticipatedInstallments
	n := c.Installments + k

	upfront := c.Entry.Sub(c.AnticipatedAmount)
	keep := one.Sub(c.AnticipationDiscountPct.Div(hundred))

	installment = Pmt(c.RatePct.Mul(multiplier), n, c.FinancedAmount)
	total = upfront.
		Add(installment.Mul(decimal.NewFromInt(int64(k))).Mul(keep)).
		Add(installment.Mul(decimal.NewFromInt(int64(n - k)))).
		Add(c.ReinforcementTotal())
	return installment, total
}

func shockReadjusted(c domain.Condition, multiplier decimal.Decimal) (installment, total decimal.Decimal) {
	rates := make([]decimal.Decimal, len(c.AnnualBlocks))
	for i, b := range c.AnnualBlocks {
		rates[i] = b.RatePct.Mul(multiplier)
	}
	schedule := ReplayBlockRates(c.FinancedAmount, c.Installments, rates)
	return schedule.Payments[0], c.Entry.Add(schedule.Total).Add(c.ReinforcementTotal())
}
