package calculation

import (
	"math"

	"github.com/ampere-ops/payplan/internal/domain"
	"github.com/shopspring/decimal"
)

// ReadjustmentPolicy returns the rate for the next 12-month block given the
// current block rate and the plan's base rate, all in percent per month
type ReadjustmentPolicy func(current, base decimal.Decimal) decimal.Decimal

// CompoundedReadjustment raises the rate by (1+base/100)^exponent between blocks
func CompoundedReadjustment(exponent float64) ReadjustmentPolicy {
	return func(current, base decimal.Decimal) decimal.Decimal {
		factor := math.Pow(1+base.Div(hundred).InexactFloat64(), exponent)
		return current.Mul(decimal.NewFromFloat(factor))
	}
}

// FlatReadjustment keeps the same rate for every block
func FlatReadjustment(current, _ decimal.Decimal) decimal.Decimal {
	return current
}

// DefaultReadjustment reproduces the legacy commercial rule rate x (1+base/100)^0.3
var DefaultReadjustment = CompoundedReadjustment(0.3)

// ReadjustedSchedule is an amortization schedule re-priced every 12 months
type ReadjustedSchedule struct {
	Payments []decimal.Decimal
	Blocks   []domain.AnnualAmortizationBlock
	Total    decimal.Decimal
}

// BuildReadjustedSchedule amortizes principal over n months. At the start of
// each 12-month block the installment is recomputed from the outstanding
// balance over the remaining term, then the rate advances through policy.
// Terms of 12 months or less produce a flat schedule with no blocks.
func BuildReadjustedSchedule(principal, ratePct decimal.Decimal, n int, policy ReadjustmentPolicy) ReadjustedSchedule {
	if n <= 0 || principal.LessThanOrEqual(decimal.Zero) {
		return ReadjustedSchedule{Total: decimal.Zero}
	}
	if policy == nil {
		policy = DefaultReadjustment
	}

	if n <= 12 {
		payments := make([]decimal.Decimal, n)
		installment := Pmt(ratePct, n, principal)
		for i := range payments {
			payments[i] = installment
		}
		return ReadjustedSchedule{
			Payments: payments,
			Total:    installment.Mul(decimal.NewFromInt(int64(n))),
		}
	}

	return amortizeBlocks(principal, ratePct, n, func(_ int, current decimal.Decimal) decimal.Decimal {
		return policy(current, ratePct)
	})
}

// ReplayBlockRates rebuilds a readjusted schedule of n months from the rate of
// each 12-month block. Blocks past the end of rates keep the last rate.
func ReplayBlockRates(principal decimal.Decimal, n int, rates []decimal.Decimal) ReadjustedSchedule {
	if n <= 0 || principal.LessThanOrEqual(decimal.Zero) || len(rates) == 0 {
		return ReadjustedSchedule{Total: decimal.Zero}
	}
	return amortizeBlocks(principal, rates[0], n, func(block int, current decimal.Decimal) decimal.Decimal {
		if block < len(rates) {
			return rates[block]
		}
		return current
	})
}

// amortizeBlocks re-prices the outstanding balance over the remaining term at
// the start of every 12-month block. next yields the rate of the given block.
func amortizeBlocks(principal, ratePct decimal.Decimal, n int, next func(block int, current decimal.Decimal) decimal.Decimal) ReadjustedSchedule {
	payments := make([]decimal.Decimal, n)
	blocks := make([]domain.AnnualAmortizationBlock, 0, (n+11)/12)
	balance := principal
	rate := ratePct
	total := decimal.Zero

	for start := 0; start < n; start += 12 {
		remaining := n - start
		length := remaining
		if length > 12 {
			length = 12
		}
		installment := Pmt(rate, remaining, balance)
		r := rate.Div(hundred)

		for p := 0; p < length; p++ {
			interest := balance.Mul(r)
			balance = balance.Sub(installment.Sub(interest))
			payments[start+p] = installment
			total = total.Add(installment)
		}

		blocks = append(blocks, domain.AnnualAmortizationBlock{
			StartMonth:  start + 1,
			EndMonth:    start + length,
			Installment: installment,
			RatePct:     rate,
		})
		rate = next(len(blocks), rate)
	}

	return ReadjustedSchedule{Payments: payments, Blocks: blocks, Total: total}
}
