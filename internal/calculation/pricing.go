package calculation

import (
	"github.com/ampere-ops/payplan/internal/domain"
	"github.com/shopspring/decimal"
)

// WarningMarker prefixes the description of plans whose entry does not cover the immediate cost
const WarningMarker = "⚠ Entrada abaixo do custo imediato. "

// Pricing holds the validated figures every plan family starts from
type Pricing struct {
	Input       domain.SimulationInput
	TotalCost   decimal.Decimal
	BasePrice   decimal.Decimal
	GrossProfit decimal.Decimal
	BaseRate    decimal.Decimal
}

// NewPricing validates the input and derives basePrice = totalCost / (1 - margin)
func NewPricing(in domain.SimulationInput) (Pricing, error) {
	if err := in.Validate(); err != nil {
		return Pricing{}, err
	}
	rate, err := in.BaseRate()
	if err != nil {
		return Pricing{}, err
	}

	totalCost := in.TotalCost()
	basePrice := totalCost.Div(one.Sub(in.MarginPct.Div(hundred)))

	return Pricing{
		Input:       in,
		TotalCost:   totalCost,
		BasePrice:   basePrice,
		GrossProfit: basePrice.Sub(totalCost),
		BaseRate:    rate,
	}, nil
}

// planDraft carries the structural part of a plan before totals are derived
type planDraft struct {
	id          string
	category    domain.Category
	label       string
	description string

	entry        decimal.Decimal
	entryNet     decimal.Decimal
	installment  decimal.Decimal
	installments int
	frequency    int

	baseRate             decimal.Decimal
	rate                 decimal.Decimal
	financed             decimal.Decimal
	anticipated          int
	anticipationDiscount decimal.Decimal
	anticipatedAmount    decimal.Decimal
	readjusted           bool

	flow           []domain.CashFlowEntry
	blocks         []domain.AnnualAmortizationBlock
	reinforcements []domain.ReinforcementPayment
}

// finalize derives totals, profit split, margin and coverage from a draft
func (p Pricing) finalize(d planDraft) domain.Condition {
	total := FlowTotal(d.flow)
	profit := total.Sub(p.TotalCost)

	reinforcementTotal := decimal.Zero
	for _, r := range d.reinforcements {
		reinforcementTotal = reinforcementTotal.Add(r.Value)
	}

	immediate := decimal.Max(decimal.Zero, d.entry.Sub(p.TotalCost))
	if immediate.GreaterThan(profit) {
		immediate = decimal.Max(decimal.Zero, profit)
	}
	correction := decimal.Max(decimal.Zero, total.Sub(p.BasePrice).Sub(reinforcementTotal))

	covers := d.entryNet.GreaterThanOrEqual(p.Input.ImmediateCost) && d.entry.GreaterThanOrEqual(p.Input.ImmediateCost)
	description := d.description
	if !covers {
		description = WarningMarker + description
	}

	frequency := d.frequency
	if frequency < 1 {
		frequency = 1
	}

	return domain.Condition{
		ID:                      d.id,
		Category:                d.category,
		Label:                   d.label,
		CommercialName:          d.category.CommercialName(),
		Description:             description,
		Entry:                   d.entry,
		EntryNet:                d.entryNet,
		InstallmentAmount:       d.installment,
		Installments:            d.installments,
		Frequency:               frequency,
		TotalClient:             total,
		TotalCost:               p.TotalCost,
		CostRecovered:           decimal.Min(total, p.TotalCost),
		TotalProfit:             profit,
		ImmediateProfit:         immediate,
		DeferredProfit:          profit.Sub(immediate),
		EffectiveMargin:         domain.MarginOf(profit, total),
		CapturedCorrection:      correction,
		BaseRatePct:             d.baseRate,
		RatePct:                 d.rate,
		FinancedAmount:          d.financed,
		AnticipatedInstallments: d.anticipated,
		AnticipationDiscountPct: d.anticipationDiscount,
		AnticipatedAmount:       d.anticipatedAmount,
		Readjusted:              d.readjusted,
		CoversImmediateCost:     covers,
		CashFlow:                d.flow,
		AnnualBlocks:            d.blocks,
		IntercaladaExtra:        d.reinforcements,
	}
}

// anticipatedCount is how many leading installments move into the entry.
// At least one installment always stays on the schedule.
func anticipatedCount(a domain.Anticipation, n int) int {
	if !a.Active() || n <= 1 {
		return 0
	}
	if a.Count > n-1 {
		return n - 1
	}
	return a.Count
}

// anticipatedValue is what k installments cost when paid up front at the anticipation discount
func anticipatedValue(a domain.Anticipation, installment decimal.Decimal, k int) decimal.Decimal {
	if k <= 0 {
		return decimal.Zero
	}
	return installment.Mul(decimal.NewFromInt(int64(k))).Mul(one.Sub(a.DiscountPct.Div(hundred)))
}

// PlanSpec describes a plan paying an entry up front followed by equal
// installments every Frequency months, plus optional reinforcements
type PlanSpec struct {
	ID             string
	Category       domain.Category
	Label          string
	Description    string
	Entry          decimal.Decimal
	EntryNet       decimal.Decimal
	Installment    decimal.Decimal
	Installments   int
	Frequency      int
	RatePct        decimal.Decimal // per period
	Financed       decimal.Decimal
	Reinforcements []domain.ReinforcementPayment
}

// ScheduledPlan builds the cash flow for spec and derives the plan's totals
func (p Pricing) ScheduledPlan(spec PlanSpec) domain.Condition {
	return p.finalize(planDraft{
		id:             spec.ID,
		category:       spec.Category,
		label:          spec.Label,
		description:    spec.Description,
		entry:          spec.Entry,
		entryNet:       spec.EntryNet,
		installment:    spec.Installment,
		installments:   spec.Installments,
		frequency:      spec.Frequency,
		baseRate:       p.BaseRate,
		rate:           spec.RatePct,
		financed:       spec.Financed,
		reinforcements: spec.Reinforcements,
		flow:           BuildFrequencyCashFlow(spec.Entry, p.TotalCost, spec.Installment, spec.Installments, spec.Frequency, spec.Reinforcements),
	})
}
