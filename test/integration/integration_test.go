package integration

import (
	"context"
	"testing"
	"time"

	"github.com/ampere-ops/payplan/internal/calculation"
	"github.com/ampere-ops/payplan/internal/config"
	"github.com/ampere-ops/payplan/internal/domain"
	"github.com/ampere-ops/payplan/internal/output"
	"github.com/ampere-ops/payplan/internal/recommend"
	"github.com/ampere-ops/payplan/internal/reverse"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inputFile = "../../internal/config/testdata/simulation.yaml"

func loadInput(t *testing.T) *domain.SimulationInput {
	t.Helper()
	in, err := config.NewInputParser().LoadFromFile(inputFile)
	require.NoError(t, err, "Should load the sample input")
	return in
}

// TestEndToEnd drives a file through every engine and formatter
func TestEndToEnd(t *testing.T) {
	in := loadInput(t)

	plans, err := calculation.NewEngine().Simulate(context.Background(), *in)
	require.NoError(t, err)
	require.NotEmpty(t, plans)

	t.Run("minimum_margin", func(t *testing.T) {
		for _, p := range plans {
			if p.Category == domain.CategoryFullPayment {
				continue
			}
			assert.True(t, p.EffectiveMargin.GreaterThanOrEqual(in.MinMarginPct), "%s below the minimum margin", p.ID)
		}
	})

	t.Run("unique_ids", func(t *testing.T) {
		seen := map[string]bool{}
		for _, p := range plans {
			assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
			seen[p.ID] = true
		}
	})

	t.Run("every_tag_awarded_once", func(t *testing.T) {
		for _, tag := range domain.AllTags() {
			count := 0
			for _, p := range plans {
				if p.HasTag(tag) {
					count++
				}
			}
			assert.LessOrEqual(t, count, 1, "tag %s", tag)
		}
	})

	t.Run("cash_flow_starts_at_entry", func(t *testing.T) {
		for _, p := range plans {
			require.NotEmpty(t, p.CashFlow, p.ID)
			assert.True(t, p.Entry.Sub(p.TotalCost).Equal(p.CashFlow[0].Cumulative), p.ID)
		}
	})

	t.Run("reverse", func(t *testing.T) {
		solved, err := reverse.NewDefaultSolver(nil).Solve(context.Background(), *in)
		require.NoError(t, err)
		require.NotEmpty(t, solved)
		for _, p := range solved {
			assert.True(t, p.InstallmentAmount.LessThanOrEqual(in.Reverse.MaxInstallment), p.ID)
		}
	})

	t.Run("recommend", func(t *testing.T) {
		rec := recommend.FindIdealCondition(plans, recommend.PreferencesFromInput(*in))
		require.NotNil(t, rec)
		assert.LessOrEqual(t, len(rec.Alternatives), recommend.MaxAlternatives)
		assert.NotEmpty(t, rec.Reasons)
	})

	t.Run("every_formatter", func(t *testing.T) {
		report := output.NewReport(output.ModeSimulate, plans)
		for _, name := range output.AvailableFormatterNames() {
			data, err := output.GetFormatterByName(name).Format(report)
			require.NoError(t, err, name)
			assert.NotEmpty(t, data, name)
		}
	})
}

func TestPerformance(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping performance test in short mode")
	}
	in := loadInput(t)

	start := time.Now()
	for i := 0; i < 20; i++ {
		_, err := calculation.NewEngine().Simulate(context.Background(), *in)
		require.NoError(t, err)
	}
	assert.Less(t, time.Since(start), 10*time.Second, "20 simulations should finish well within 10s")
}

func TestErrorHandling(t *testing.T) {
	_, err := config.NewInputParser().LoadFromFile("nonexistent.yaml")
	assert.Error(t, err)

	in := loadInput(t)
	in.Quantity = decimal.Zero
	_, err = calculation.NewEngine().Simulate(context.Background(), *in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = calculation.NewEngine().Simulate(ctx, *loadInput(t))
	assert.ErrorIs(t, err, context.Canceled)
}
