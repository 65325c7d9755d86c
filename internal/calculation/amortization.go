package calculation

import (
	"errors"
	"math"

	"github.com/ampere-ops/payplan/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrNeverAmortizes is returned by Nper when the payment does not cover one
// period of interest, so the balance never reaches zero
var ErrNeverAmortizes = errors.New("payment does not cover periodic interest")

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Pmt returns the fixed periodic payment that amortizes pv over periods at ratePct per period
func Pmt(ratePct decimal.Decimal, periods int, pv decimal.Decimal) decimal.Decimal {
	if periods <= 0 || pv.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	if ratePct.IsZero() {
		return pv.Div(decimal.NewFromInt(int64(periods)))
	}

	r := ratePct.Div(hundred)
	growth := compound(r, periods)
	return pv.Mul(r).Mul(growth).Div(growth.Sub(one))
}

// Nper returns the minimum whole number of periods needed to amortize pv with
// a fixed payment. It returns ErrNeverAmortizes when payment <= pv*r.
func Nper(ratePct, payment, pv decimal.Decimal) (int, error) {
	if pv.LessThanOrEqual(decimal.Zero) || payment.LessThanOrEqual(decimal.Zero) {
		return 0, nil
	}
	if ratePct.IsZero() {
		return int(pv.Div(payment).Ceil().IntPart()), nil
	}

	r := ratePct.Div(hundred)
	if payment.LessThanOrEqual(pv.Mul(r)) {
		return 0, ErrNeverAmortizes
	}

	rf := r.InexactFloat64()
	ratio := pv.Mul(r).Div(payment).InexactFloat64()
	n := int(math.Ceil(-math.Log(1-ratio) / math.Log(1+rf)))
	if n < 1 {
		n = 1
	}

	// the float estimate drifts on long terms; settle it against Pmt
	for n > 1 && Pmt(ratePct, n-1, pv).LessThanOrEqual(payment) {
		n--
	}
	for i := 0; i < 2 && Pmt(ratePct, n, pv).GreaterThan(payment); i++ {
		n++
	}
	return n, nil
}

// Npv discounts each cash-flow value back to month zero at ratePct per month.
// Only meaningful for comparing plans against one another.
func Npv(ratePct decimal.Decimal, flow []domain.CashFlowEntry) decimal.Decimal {
	total := decimal.Zero
	for _, entry := range flow {
		total = total.Add(PresentValue(ratePct, entry.Value, entry.Month))
	}
	return total
}

// PresentValue discounts a single value due on month back to month zero
func PresentValue(ratePct, value decimal.Decimal, month int) decimal.Decimal {
	if month <= 0 || ratePct.IsZero() {
		return value
	}
	return value.Div(compound(ratePct.Div(hundred), month))
}

// PeriodRate converts a monthly rate into the equivalent rate for a period
// spanning frequency months: (1+r)^freq - 1, in percent
func PeriodRate(monthlyPct decimal.Decimal, frequency int) decimal.Decimal {
	if frequency <= 1 {
		return monthlyPct
	}
	r := monthlyPct.Div(hundred)
	return compound(r, frequency).Sub(one).Mul(hundred)
}

// compound returns (1+r)^n for a whole number of periods
func compound(r decimal.Decimal, n int) decimal.Decimal {
	return one.Add(r).Pow(decimal.NewFromInt(int64(n)))
}
