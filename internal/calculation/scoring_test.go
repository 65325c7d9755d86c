package calculation

import (
	"context"
	"testing"

	"github.com/ampere-ops/payplan/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plan(id string, installment string, installments int, total string, margin string) domain.Condition {
	return domain.Condition{
		ID:                id,
		InstallmentAmount: dec(installment),
		Installments:      installments,
		Frequency:         1,
		TotalClient:       dec(total),
		TotalCost:         dec("1000"),
		EffectiveMargin:   dec(margin),
		CashFlow:          []domain.CashFlowEntry{{Month: 0, Value: dec(total)}},
	}
}

func TestNewBatchStats(t *testing.T) {
	stats := NewBatchStats([]domain.Condition{
		plan("a", "0", 0, "1225", "18"),
		plan("b", "100", 12, "1400", "28"),
	})
	assert.Equal(t, 1225.0, stats.MinTotal)
	assert.Equal(t, 1400.0, stats.MaxTotal)
	assert.Equal(t, 1225.0, stats.MinNPV)
	assert.Equal(t, 1400.0, stats.MaxNPV)

	assert.Equal(t, BatchStats{}, NewBatchStats(nil))
}

func TestScoreCondition(t *testing.T) {
	cheap := plan("cheap", "90", 12, "1300", "23")
	dear := plan("dear", "150", 36, "1600", "37.5")
	stats := NewBatchStats([]domain.Condition{cheap, dear})

	t.Run("scores stay within bounds", func(t *testing.T) {
		sc := ScoringContext{Weight: 0.5, MonthlyBudget: dec("120"), AvailableEntry: dec("0")}
		for _, c := range []domain.Condition{cheap, dear} {
			s := ScoreCondition(c, stats, sc)
			assert.GreaterOrEqual(t, s.ClientScore, 0.0)
			assert.LessOrEqual(t, s.ClientScore, 100.0)
			assert.GreaterOrEqual(t, s.ProviderScore, 0.0)
			assert.LessOrEqual(t, s.ProviderScore, 100.0)
			assert.Equal(t, 0.5, s.Weight)
		}
	})

	t.Run("client prefers the plan within budget", func(t *testing.T) {
		sc := ScoringContext{Weight: 1, MonthlyBudget: dec("120")}
		a := ScoreCondition(cheap, stats, sc)
		b := ScoreCondition(dear, stats, sc)
		assert.Greater(t, a.ClientScore, b.ClientScore)
		assert.Equal(t, a.ClientScore, a.ScoreTotal, "full client weight")
		assert.Contains(t, a.Reasons, "Parcela dentro do orçamento mensal")
		assert.Contains(t, b.Reasons, "Parcela acima do orçamento mensal")
	})

	t.Run("provider weight favors margin", func(t *testing.T) {
		sc := ScoringContext{Weight: 0}
		a := ScoreCondition(cheap, stats, sc)
		b := ScoreCondition(dear, stats, sc)
		assert.Greater(t, b.ProviderScore, a.ProviderScore)
		assert.Equal(t, b.ProviderScore, b.ScoreTotal)
	})
}

func TestAnnotateBatch_DoesNotMutateInput(t *testing.T) {
	batch := []domain.Condition{
		plan("a", "0", 0, "1225", "18"),
		plan("b", "100", 12, "1400", "28"),
	}

	out := AnnotateBatch(batch, ScoringContext{Weight: 0.5})

	require.Len(t, out, 2)
	for _, c := range batch {
		assert.Nil(t, c.BilateralScore)
		assert.Empty(t, c.Tags)
	}
	for _, c := range out {
		assert.NotNil(t, c.BilateralScore)
	}
}

func TestAssignTags(t *testing.T) {
	batch := []domain.Condition{
		plan("full", "0", 0, "1225", "18.37"),
		plan("short", "100", 3, "1300", "23"),
		plan("cheap", "50", 24, "1400", "28"),
		plan("tie", "50", 24, "1400", "28"),
	}
	batch[1].BilateralScore = &domain.BilateralScore{ScoreTotal: 80}
	batch[2].BilateralScore = &domain.BilateralScore{ScoreTotal: 60}
	batch[3].BilateralScore = &domain.BilateralScore{ScoreTotal: 80}

	out := AssignTags(batch)

	assert.Equal(t, []domain.ConditionTag{domain.TagLowestTotalCost}, out[0].Tags, "zero installments never wins cheapest or shortest")
	assert.ElementsMatch(t, []domain.ConditionTag{domain.TagShortestTerm, domain.TagBestBalance}, out[1].Tags, "first found wins ties")
	assert.ElementsMatch(t, []domain.ConditionTag{domain.TagCheapestInstallment, domain.TagHighestMargin}, out[2].Tags)
	assert.Empty(t, out[3].Tags)
	assert.Empty(t, batch[1].Tags, "input untouched")
}

func TestAssignTags_Empty(t *testing.T) {
	assert.Empty(t, AssignTags(nil))
}

func TestAnalyzeSensitivity(t *testing.T) {
	plans, err := NewEngine().Simulate(context.Background(), richInput())
	require.NoError(t, err)

	t.Run("base scenario reproduces the plan", func(t *testing.T) {
		for _, id := range []string{"entrada-6x", "tabela-10x", "antecipacao-10x", "capacidade-2m"} {
			p := findPlan(t, plans, id)
			scenarios := AnalyzeSensitivity(p)
			require.Len(t, scenarios, 3, id)

			assert.Equal(t, "optimistic", scenarios[0].Label)
			assert.Equal(t, "base", scenarios[1].Label)
			assert.Equal(t, "pessimistic", scenarios[2].Label)

			assert.InDelta(t, p.TotalProfit.InexactFloat64(), scenarios[1].TotalProfit.InexactFloat64(), 0.01, id)
			assert.InDelta(t, p.EffectiveMargin.InexactFloat64(), scenarios[1].MarginPct.InexactFloat64(), 0.01, id)
			assert.True(t, scenarios[0].TotalProfit.GreaterThan(scenarios[2].TotalProfit), id)
		}
	})

	t.Run("readjusted plans replay their blocks", func(t *testing.T) {
		for _, id := range []string{"tabela-18x", "tabela-24x", "leasing-36x"} {
			p := findPlan(t, plans, id)
			require.NotEmpty(t, p.AnnualBlocks, id)

			scenarios := AnalyzeSensitivity(p)
			require.Len(t, scenarios, 3, id)
			assert.True(t, p.TotalProfit.Equal(scenarios[1].TotalProfit), "%s: %s vs %s", id, p.TotalProfit, scenarios[1].TotalProfit)
			assert.True(t, p.InstallmentAmount.Equal(scenarios[1].Installment), id)
			assert.True(t, scenarios[0].TotalProfit.GreaterThan(scenarios[1].TotalProfit), id)
			assert.True(t, scenarios[1].TotalProfit.GreaterThan(scenarios[2].TotalProfit), id)
		}
	})

	t.Run("no installments no scenarios", func(t *testing.T) {
		assert.Nil(t, AnalyzeSensitivity(findPlan(t, plans, "a-vista")))
		assert.Nil(t, AnalyzeSensitivity(domain.Condition{Installments: 6, FinancedAmount: decimal.Zero}))
	})
}
