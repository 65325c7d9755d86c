package calculation

import (
	"errors"
	"fmt"

	"github.com/ampere-ops/payplan/internal/domain"
	"github.com/shopspring/decimal"
)

// MaxCapacityPeriods bounds the term solved backward from an installment cap
const MaxCapacityPeriods = 360

var (
	entryInstallmentCounts = []int{3, 6, 10, 12}
	tableInstallmentCounts = []int{6, 10, 12, 18, 24}
	leasingTerms           = []int{12, 24, 36}
	anticipationCounts     = []int{6, 10, 12}
)

// fullPaymentPlans builds the single at-sight plan. The discount applies to
// the profit component only, never to cost.
func (e *Engine) fullPaymentPlans(p Pricing) []domain.Condition {
	in := p.Input
	discount := p.GrossProfit.Mul(in.CashDiscountPct.Div(hundred))
	total := p.BasePrice.Sub(discount)

	net := total
	if len(in.EntrySlices) > 0 {
		net = NetAfterFees(total, in.EntrySlices)
	}

	return []domain.Condition{p.finalize(planDraft{
		id:          "a-vista",
		category:    domain.CategoryFullPayment,
		label:       "À vista",
		description: fmt.Sprintf("Pagamento único com %s%% de desconto sobre o lucro", in.CashDiscountPct.StringFixed(1)),
		entry:       total,
		entryNet:    net,
		baseRate:    p.BaseRate,
		flow:        BuildCashFlow(total, p.TotalCost, decimal.Zero, 0),
	})}
}

// entryInstallmentPlans charge the whole cost as entry and amortize only the
// gross profit over the installments
func (e *Engine) entryInstallmentPlans(p Pricing) []domain.Condition {
	in := p.Input
	_, mix := GrossUpEntry(p.TotalCost, in.EntrySlices)

	out := make([]domain.Condition, 0, len(entryInstallmentCounts))
	for _, n := range entryInstallmentCounts {
		installment := Pmt(p.BaseRate, n, p.GrossProfit)
		if installment.LessThanOrEqual(decimal.Zero) {
			e.logger().Debugf("entry plan %dx skipped: no profit to amortize", n)
			continue
		}

		k := anticipatedCount(in.Anticipation, n)
		anticipated := anticipatedValue(in.Anticipation, installment, k)
		remaining := n - k

		var reinforcements []domain.ReinforcementPayment
		if in.Reinforcement.Active() {
			reinforcements = ReinforcementsInTerm(in.Reinforcement.Value, in.Reinforcement.Months, remaining)
		}

		entry := mix.Gross.Add(anticipated)
		d := planDraft{
			id:                fmt.Sprintf("entrada-%dx", n),
			category:          domain.CategoryEntryInstallments,
			label:             fmt.Sprintf("Entrada + %dx", n),
			description:       fmt.Sprintf("Entrada cobre o custo do projeto; lucro em %d parcelas", n),
			entry:             entry,
			entryNet:          mix.Net.Add(anticipated),
			installment:       installment,
			installments:      remaining,
			frequency:         1,
			baseRate:          p.BaseRate,
			rate:              p.BaseRate,
			financed:          p.GrossProfit,
			anticipated:       k,
			anticipatedAmount: anticipated,
			reinforcements:    reinforcements,
			flow:              BuildFrequencyCashFlow(entry, p.TotalCost, installment, remaining, 1, reinforcements),
		}
		if k > 0 {
			d.anticipationDiscount = in.Anticipation.DiscountPct
			d.description += fmt.Sprintf(", %d antecipadas com desconto", k)
		}
		out = append(out, p.finalize(d))
	}
	return out
}

func (e *Engine) tablePlans(p Pricing) []domain.Condition {
	return e.financedPlans(p, tableInstallmentCounts, p.BaseRate, domain.CategoryDeferredTable, "tabela", "Tabela")
}

func (e *Engine) leasingPlans(p Pricing) []domain.Condition {
	rate := p.BaseRate.Add(p.Input.LeasingSpreadPct)
	return e.financedPlans(p, leasingTerms, rate, domain.CategoryLeasing, "leasing", "Leasing")
}

// financedPlans amortize the entire base price with no entry
func (e *Engine) financedPlans(p Pricing, counts []int, rate decimal.Decimal, category domain.Category, slug, label string) []domain.Condition {
	out := make([]domain.Condition, 0, len(counts))
	for _, n := range counts {
		d := e.amortize(p, planDraft{
			id:           fmt.Sprintf("%s-%dx", slug, n),
			category:     category,
			label:        fmt.Sprintf("%s %dx", label, n),
			description:  fmt.Sprintf("Valor integral financiado em %d parcelas mensais a %s%% a.m.", n, rate.StringFixed(2)),
			entry:        decimal.Zero,
			entryNet:     decimal.Zero,
			installments: n,
			frequency:    1,
			baseRate:     p.BaseRate,
			rate:         rate,
			financed:     p.BasePrice,
		}, p.BasePrice, rate, n)
		if d.installment.LessThanOrEqual(decimal.Zero) {
			continue
		}
		out = append(out, p.finalize(d))
	}
	return out
}

// customPlans honors the caller's entry/term pair, flooring the entry at the immediate cost
func (e *Engine) customPlans(p Pricing) []domain.Condition {
	in := p.Input
	n := in.Custom.Installments
	if n <= 0 {
		return nil
	}

	entry := decimal.Max(in.Custom.Entry, in.ImmediateCost)
	principal := p.BasePrice.Sub(entry)
	if principal.LessThanOrEqual(decimal.Zero) {
		e.logger().Debugf("custom plan skipped: entry %s covers the base price", entry.StringFixed(2))
		return nil
	}

	net := entry
	if len(in.EntrySlices) > 0 {
		net = NetAfterFees(entry, in.EntrySlices)
	}

	d := e.amortize(p, planDraft{
		id:           "personalizado",
		category:     domain.CategoryCustom,
		label:        fmt.Sprintf("Entrada + %dx personalizado", n),
		description:  fmt.Sprintf("Entrada de %s e saldo em %d parcelas", entry.StringFixed(2), n),
		entry:        entry,
		entryNet:     net,
		installments: n,
		frequency:    1,
		baseRate:     p.BaseRate,
		rate:         p.BaseRate,
		financed:     principal,
	}, principal, p.BaseRate, n)
	if d.installment.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	return []domain.Condition{p.finalize(d)}
}

// anticipationBlendPlans take the immediate cost as entry, discount the
// reinforcements out of the principal and move the first installments into
// the entry at the anticipation discount
func (e *Engine) anticipationBlendPlans(p Pricing) []domain.Condition {
	in := p.Input
	if !in.Anticipation.Active() && !in.Reinforcement.Active() {
		return nil
	}

	entry := in.ImmediateCost
	net := entry
	if len(in.EntrySlices) > 0 {
		net = NetAfterFees(entry, in.EntrySlices)
	}

	out := make([]domain.Condition, 0, len(anticipationCounts))
	for _, n := range anticipationCounts {
		k := anticipatedCount(in.Anticipation, n)
		remaining := n - k

		var reinforcements []domain.ReinforcementPayment
		if in.Reinforcement.Active() {
			reinforcements = ReinforcementsInTerm(in.Reinforcement.Value, in.Reinforcement.Months, remaining)
		}
		reinforcementPV := decimal.Zero
		for _, r := range reinforcements {
			reinforcementPV = reinforcementPV.Add(PresentValue(p.BaseRate, r.Value, r.Month))
		}

		principal := p.BasePrice.Sub(entry).Sub(reinforcementPV)
		if principal.LessThanOrEqual(decimal.Zero) {
			e.logger().Debugf("anticipation plan %dx skipped: entry and reinforcements cover the price", n)
			continue
		}
		installment := Pmt(p.BaseRate, n, principal)
		anticipated := anticipatedValue(in.Anticipation, installment, k)
		gross := entry.Add(anticipated)

		d := planDraft{
			id:                fmt.Sprintf("antecipacao-%dx", n),
			category:          domain.CategoryAnticipationBlend,
			label:             fmt.Sprintf("Antecipação %dx", n),
			description:       fmt.Sprintf("%d parcelas com %d antecipadas e %d reforços", n, k, len(reinforcements)),
			entry:             gross,
			entryNet:          net.Add(anticipated),
			installment:       installment,
			installments:      remaining,
			frequency:         1,
			baseRate:          p.BaseRate,
			rate:              p.BaseRate,
			financed:          principal,
			anticipated:       k,
			anticipatedAmount: anticipated,
			reinforcements:    reinforcements,
			flow:              BuildFrequencyCashFlow(gross, p.TotalCost, installment, remaining, 1, reinforcements),
		}
		if k > 0 {
			d.anticipationDiscount = in.Anticipation.DiscountPct
		}
		out = append(out, p.finalize(d))
	}
	return out
}

type capacityVariant struct {
	id        string
	label     string
	frequency int
	feePct    decimal.Decimal
}

// capacityPlans solve the term backward from the client's maximum installment
func (e *Engine) capacityPlans(p Pricing) []domain.Condition {
	in := p.Input
	cfg := in.Capacity
	if !cfg.Enabled || cfg.MaxInstallment.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	entry := in.ImmediateCost
	principal := p.BasePrice.Sub(entry)
	if principal.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	variants := []capacityVariant{{id: "capacidade-mensal", label: "Capacidade mensal", frequency: 1, feePct: decimal.Zero}}
	if cfg.ReinforcementInterval > 1 {
		variants = append(variants, capacityVariant{
			id:        fmt.Sprintf("capacidade-%dm", cfg.ReinforcementInterval),
			label:     fmt.Sprintf("Capacidade a cada %d meses", cfg.ReinforcementInterval),
			frequency: cfg.ReinforcementInterval,
			feePct:    decimal.Zero,
		})
	}
	if in.Client.AcceptsCard && cfg.CardFeePct.GreaterThan(decimal.Zero) {
		for _, v := range variants {
			variants = append(variants, capacityVariant{
				id:        v.id + "-cartao",
				label:     v.label + " (cartão)",
				frequency: v.frequency,
				feePct:    cfg.CardFeePct,
			})
		}
	}

	out := make([]domain.Condition, 0, len(variants))
	for _, v := range variants {
		financed := principal
		if v.feePct.GreaterThan(decimal.Zero) {
			financed = principal.Div(one.Sub(v.feePct.Div(hundred)))
		}
		rate := PeriodRate(p.BaseRate, v.frequency)

		periods, err := Nper(rate, cfg.MaxInstallment, financed)
		if errors.Is(err, ErrNeverAmortizes) {
			e.logger().Debugf("%s skipped: installment cap %s never amortizes", v.id, cfg.MaxInstallment.StringFixed(2))
			continue
		}
		if periods <= 0 || periods > MaxCapacityPeriods {
			e.logger().Debugf("%s skipped: %d periods", v.id, periods)
			continue
		}

		installment := Pmt(rate, periods, financed)
		out = append(out, p.ScheduledPlan(PlanSpec{
			ID:           v.id,
			Category:     domain.CategoryCapacitySolved,
			Label:        v.label,
			Description:  fmt.Sprintf("%d parcelas de até %s a cada %d mês(es)", periods, cfg.MaxInstallment.StringFixed(2), v.frequency),
			Entry:        entry,
			EntryNet:     entry,
			Installment:  installment,
			Installments: periods,
			Frequency:    v.frequency,
			RatePct:      rate,
			Financed:     financed,
		}))
	}
	return out
}

// amortize fills in the installment and cash flow of a draft financing
// principal over n monthly installments. Terms above 12 months are readjusted.
func (e *Engine) amortize(p Pricing, d planDraft, principal, rate decimal.Decimal, n int) planDraft {
	if n <= 0 || principal.LessThanOrEqual(decimal.Zero) {
		d.installment = decimal.Zero
		return d
	}
	if n > 12 {
		schedule := BuildReadjustedSchedule(principal, rate, n, e.readjustment())
		d.installment = schedule.Payments[0]
		d.blocks = schedule.Blocks
		d.readjusted = true
		d.flow = BuildCashFlowWithReinforcements(d.entry, p.TotalCost, schedule.Payments, decimal.Zero, nil)
		return d
	}
	d.installment = Pmt(rate, n, principal)
	d.flow = BuildFrequencyCashFlow(d.entry, p.TotalCost, d.installment, n, 1, d.reinforcements)
	return d
}

// FilterByMargin drops every plan below the minimum margin except the full-payment plan
func FilterByMargin(conditions []domain.Condition, minMarginPct decimal.Decimal) []domain.Condition {
	out := make([]domain.Condition, 0, len(conditions))
	for _, c := range conditions {
		if c.Category != domain.CategoryFullPayment && c.EffectiveMargin.LessThan(minMarginPct) {
			continue
		}
		out = append(out, c)
	}
	return out
}
