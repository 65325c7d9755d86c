package calculation

import (
	"github.com/ampere-ops/payplan/internal/domain"
)

// AssignTags awards each badge to exactly one plan of the batch and returns
// the tagged copy. Ties go to the first plan found. Tags already present on
// the input are discarded.
func AssignTags(conditions []domain.Condition) []domain.Condition {
	out := make([]domain.Condition, len(conditions))
	copy(out, conditions)
	for i := range out {
		out[i].Tags = nil
	}

	withInstallments := func(c domain.Condition) bool { return c.Installments > 0 }
	everyPlan := func(domain.Condition) bool { return true }
	scored := func(c domain.Condition) bool { return c.BilateralScore != nil }

	award := func(tag domain.ConditionTag, idx int) {
		if idx >= 0 {
			out[idx].Tags = append(out[idx].Tags, tag)
		}
	}

	award(domain.TagCheapestInstallment, pick(out, withInstallments, func(a, b domain.Condition) bool {
		return a.InstallmentAmount.LessThan(b.InstallmentAmount)
	}))
	award(domain.TagHighestMargin, pick(out, everyPlan, func(a, b domain.Condition) bool {
		return a.EffectiveMargin.GreaterThan(b.EffectiveMargin)
	}))
	award(domain.TagShortestTerm, pick(out, withInstallments, func(a, b domain.Condition) bool {
		return a.Installments < b.Installments
	}))
	award(domain.TagLowestTotalCost, pick(out, everyPlan, func(a, b domain.Condition) bool {
		return a.TotalClient.LessThan(b.TotalClient)
	}))
	award(domain.TagBestBalance, pick(out, scored, func(a, b domain.Condition) bool {
		return a.BilateralScore.ScoreTotal > b.BilateralScore.ScoreTotal
	}))

	return out
}

// pick returns the index of the eligible plan that no later plan beats, or -1
func pick(conditions []domain.Condition, eligible func(domain.Condition) bool, better func(a, b domain.Condition) bool) int {
	best := -1
	for i, c := range conditions {
		if !eligible(c) {
			continue
		}
		if best < 0 || better(c, conditions[best]) {
			best = i
		}
	}
	return best
}
