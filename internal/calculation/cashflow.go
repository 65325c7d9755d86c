package calculation

import (
	"sort"

	"github.com/ampere-ops/payplan/internal/domain"
	"github.com/shopspring/decimal"
)

// BuildCashFlow emits month 0 (entry) followed by n monthly installments
func BuildCashFlow(entry, totalCost, installment decimal.Decimal, n int) []domain.CashFlowEntry {
	return BuildFrequencyCashFlow(entry, totalCost, installment, n, 1, nil)
}

// BuildFrequencyCashFlow emits n installments spaced frequency months apart.
// Reinforcements are merged into the month they fall on, or added as their own
// month when that month carries no installment.
func BuildFrequencyCashFlow(entry, totalCost, installment decimal.Decimal, n, frequency int, reinforcements []domain.ReinforcementPayment) []domain.CashFlowEntry {
	if frequency < 1 {
		frequency = 1
	}
	payments := make(map[int]decimal.Decimal, n+len(reinforcements))
	for i := 1; i <= n; i++ {
		payments[i*frequency] = installment
	}
	for _, r := range reinforcements {
		payments[r.Month] = payments[r.Month].Add(r.Value)
	}
	return assemble(entry, totalCost, payments)
}

// BuildCashFlowWithReinforcements emits one period per installment value and
// adds the reinforcement value on every listed month within the term
func BuildCashFlowWithReinforcements(entry, totalCost decimal.Decimal, installments []decimal.Decimal, reinforcement decimal.Decimal, months []int) []domain.CashFlowEntry {
	payments := make(map[int]decimal.Decimal, len(installments))
	for i, value := range installments {
		payments[i+1] = value
	}
	for _, m := range ReinforcementsInTerm(reinforcement, months, len(installments)) {
		payments[m.Month] = payments[m.Month].Add(m.Value)
	}
	return assemble(entry, totalCost, payments)
}

// ReinforcementsInTerm keeps the reinforcement months inside 1..term, deduplicated and ordered
func ReinforcementsInTerm(value decimal.Decimal, months []int, term int) []domain.ReinforcementPayment {
	if value.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	seen := make(map[int]bool, len(months))
	var out []domain.ReinforcementPayment
	for _, m := range months {
		if m < 1 || m > term || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, domain.ReinforcementPayment{Month: m, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// assemble turns month->value payments into an ordered flow with a running balance seeded at entry - totalCost
func assemble(entry, totalCost decimal.Decimal, payments map[int]decimal.Decimal) []domain.CashFlowEntry {
	months := make([]int, 0, len(payments))
	for m := range payments {
		if m > 0 {
			months = append(months, m)
		}
	}
	sort.Ints(months)

	flow := make([]domain.CashFlowEntry, len(months)+1)
	cumulative := entry.Sub(totalCost)
	flow[0] = domain.CashFlowEntry{Month: 0, Value: entry, Cumulative: cumulative}
	for i, m := range months {
		cumulative = cumulative.Add(payments[m])
		flow[i+1] = domain.CashFlowEntry{Month: m, Value: payments[m], Cumulative: cumulative}
	}
	return flow
}

// FlowTotal sums every value of a cash flow, entry included
func FlowTotal(flow []domain.CashFlowEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range flow {
		total = total.Add(e.Value)
	}
	return total
}
