package calculation

import (
	"github.com/ampere-ops/payplan/internal/domain"
	"github.com/shopspring/decimal"
)

// EntryMix is the blended gross charged and net received for an entry
type EntryMix struct {
	Gross decimal.Decimal `json:"gross"`
	Net   decimal.Decimal `json:"net"`
}

// MixEntry totals the gross amount and the net-of-fees amount of every slice
func MixEntry(slices []domain.EntrySlice) EntryMix {
	mix := EntryMix{Gross: decimal.Zero, Net: decimal.Zero}
	for _, s := range slices {
		mix.Gross = mix.Gross.Add(s.Amount)
		mix.Net = mix.Net.Add(netOf(s.Amount, s.FeePct))
	}
	return mix
}

// GrossUpEntry splits targetNet across the slices in proportion to their
// amounts (evenly when every amount is zero) and grosses each share up by its
// fee, so the blended net equals targetNet
func GrossUpEntry(targetNet decimal.Decimal, slices []domain.EntrySlice) ([]domain.EntrySlice, EntryMix) {
	if len(slices) == 0 {
		return nil, EntryMix{Gross: targetNet, Net: targetNet}
	}

	weights := proportions(slices)
	out := make([]domain.EntrySlice, len(slices))
	for i, s := range slices {
		share := targetNet.Mul(weights[i])
		keep := one.Sub(s.FeePct.Div(hundred))
		gross := share
		if keep.GreaterThan(decimal.Zero) {
			gross = share.Div(keep)
		}
		out[i] = domain.EntrySlice{
			Method:           s.Method,
			Amount:           gross,
			FeePct:           s.FeePct,
			CardInstallments: s.CardInstallments,
		}
	}
	mix := MixEntry(out)
	// pin the net to the target; per-slice rounding otherwise leaves a 1e-16 residue
	mix.Net = targetNet
	return out, mix
}

// BlendedFeeRate is the amount-weighted fee of the slices, in percent
func BlendedFeeRate(slices []domain.EntrySlice) decimal.Decimal {
	if len(slices) == 0 {
		return decimal.Zero
	}
	weights := proportions(slices)
	fee := decimal.Zero
	for i, s := range slices {
		fee = fee.Add(s.FeePct.Mul(weights[i]))
	}
	return fee
}

// NetAfterFees applies the blended fee of the slices to a gross amount
func NetAfterFees(gross decimal.Decimal, slices []domain.EntrySlice) decimal.Decimal {
	return netOf(gross, BlendedFeeRate(slices))
}

func netOf(amount, feePct decimal.Decimal) decimal.Decimal {
	return amount.Mul(one.Sub(feePct.Div(hundred)))
}

func proportions(slices []domain.EntrySlice) []decimal.Decimal {
	total := decimal.Zero
	for _, s := range slices {
		total = total.Add(s.Amount)
	}
	weights := make([]decimal.Decimal, len(slices))
	for i, s := range slices {
		if total.IsZero() {
			weights[i] = one.Div(decimal.NewFromInt(int64(len(slices))))
			continue
		}
		weights[i] = s.Amount.Div(total)
	}
	return weights
}
