package recommend

import (
	"fmt"
	"math"
	"sort"

	"github.com/ampere-ops/payplan/internal/domain"
	"github.com/shopspring/decimal"
)

// FindIdealCondition ranks the plans against the preferences and returns the
// best one with up to two alternatives. Plans below the minimum margin are
// disqualified. Returns nil when no plan qualifies.
func FindIdealCondition(conditions []domain.Condition, prefs Preferences) *Recommendation {
	ranked := make([]rankedCondition, 0, len(conditions))
	for _, c := range conditions {
		score, reasons, ok := scoreCondition(c, prefs)
		if !ok {
			continue
		}
		ranked = append(ranked, rankedCondition{condition: c, score: score, reasons: reasons})
	}
	if len(ranked) == 0 {
		return nil
	}

	// highest score first, ties keep input order
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	rec := &Recommendation{
		Best:         ranked[0].condition,
		Alternatives: []domain.Condition{},
		Reasons:      ranked[0].reasons,
		Score:        ranked[0].score,
	}
	for i := 1; i < len(ranked) && i <= MaxAlternatives; i++ {
		rec.Alternatives = append(rec.Alternatives, ranked[i].condition)
	}
	return rec
}

// scoreCondition reports false for plans below the minimum margin. Overage
// penalties are unbounded, so the score alone cannot mark disqualification.
func scoreCondition(c domain.Condition, prefs Preferences) (float64, []string, bool) {
	if c.EffectiveMargin.LessThan(prefs.MinMarginPct) {
		return Disqualified, nil, false
	}

	var reasons []string
	score := math.Min(c.EffectiveMargin.InexactFloat64(), 40) / 2

	if prefs.DesiredInstallments != nil {
		desired := *prefs.DesiredInstallments
		diff := c.Installments - desired
		if diff < 0 {
			diff = -diff
		}
		switch {
		case desired == 0 && c.Installments == 0:
			score += 30
			reasons = append(reasons, "Pagamento à vista, como preferido")
		case diff == 0:
			score += 30
			reasons = append(reasons, fmt.Sprintf("Exatamente %d parcelas, como desejado", desired))
		default:
			if credit := 20 - 2*float64(diff); credit > 0 {
				score += credit
				reasons = append(reasons, "Número de parcelas próximo ao desejado")
			}
		}
	}

	constrained := false
	if prefs.MonthlyBudget.IsPositive() {
		constrained = true
		if c.InstallmentAmount.LessThanOrEqual(prefs.MonthlyBudget) {
			score += 20
			reasons = append(reasons, "Parcela cabe no orçamento mensal")
		} else {
			ratio := overage(c.InstallmentAmount, prefs.MonthlyBudget)
			score -= 30 * ratio
			reasons = append(reasons, fmt.Sprintf("Parcela excede o orçamento em %.0f%%", ratio*100))
		}
	}
	if prefs.AvailableEntry.IsPositive() {
		constrained = true
		if c.Entry.LessThanOrEqual(prefs.AvailableEntry) {
			score += 15
			reasons = append(reasons, "Entrada dentro do valor disponível")
		} else {
			ratio := overage(c.Entry, prefs.AvailableEntry)
			score -= 25 * ratio
			reasons = append(reasons, fmt.Sprintf("Entrada excede o disponível em %.0f%%", ratio*100))
		}
	}
	if !constrained {
		score += 10
	}

	if prefs.AcceptsCard && c.Installments > 0 && c.Installments <= CardInstallmentLimit {
		score += 5
		reasons = append(reasons, "Compatível com parcelamento no cartão")
	}

	return math.Round(score*100) / 100, reasons, true
}

// overage is how far value exceeds limit, as a fraction of limit
func overage(value, limit decimal.Decimal) float64 {
	return value.Sub(limit).Div(limit).InexactFloat64()
}
