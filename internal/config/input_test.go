package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ampere-ops/payplan/internal/calculation"
	"github.com/ampere-ops/payplan/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestInputParser_LoadFromFile(t *testing.T) {
	in, err := NewInputParser().LoadFromFile("testdata/simulation.yaml")
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(18000).Equal(in.TotalCost()))
	assert.Equal(t, domain.IndexIPCA, in.Index.Name)
	require.Len(t, in.EntrySlices, 2)
	assert.Equal(t, "card", in.EntrySlices[1].Method)
	assert.True(t, decimal.RequireFromString("3.5").Equal(in.EntrySlices[1].FeePct))
	assert.Equal(t, []int{6, 12}, in.Reinforcement.Months)
	assert.Equal(t, 3, in.Capacity.ReinforcementInterval)
	require.NotNil(t, in.Client.DesiredInstallments)
	assert.Equal(t, 12, *in.Client.DesiredInstallments)
	require.NotNil(t, in.ClientWeight)
	assert.Equal(t, 60, *in.ClientWeight)
	assert.True(t, in.Reverse.AllowReinforcements)
}

func TestInputParser_LoadFromFile_Defaults(t *testing.T) {
	in, err := NewInputParser().LoadFromFile("testdata/minimal.yaml")
	require.NoError(t, err)

	assert.Equal(t, domain.IndexCustom, in.Index.Name)
	require.NotNil(t, in.ClientWeight)
	assert.Equal(t, domain.DefaultClientWeight, *in.ClientWeight)

	rate, err := in.BaseRate()
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1).Equal(rate))
}

func TestInputParser_LoadFromFile_FeedsEngine(t *testing.T) {
	in, err := NewInputParser().LoadFromFile("testdata/simulation.yaml")
	require.NoError(t, err)

	plans, err := calculation.NewEngine().Simulate(context.Background(), *in)
	require.NoError(t, err)
	assert.NotEmpty(t, plans)
}

func TestInputParser_LoadFromFile_Errors(t *testing.T) {
	_, err := NewInputParser().LoadFromFile("testdata/missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")

	_, err = NewInputParser().LoadFromFile("testdata/unknown_field.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")

	_, err = NewInputParser().LoadFromFile(writeInput(t, ""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty document")

	_, err = NewInputParser().LoadFromFile(writeInput(t, "unit_cost: [1, 2"))
	require.Error(t, err)
}

func TestInputParser_ValidateInput(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{
			name:    "zero quantity",
			content: "unit_cost: 1000\nquantity: 0\nmargin_pct: 20\n",
			field:   "SimulationInput.Quantity",
		},
		{
			name:    "margin of 100",
			content: "unit_cost: 1000\nquantity: 1\nmargin_pct: 100\n",
			field:   "SimulationInput.MarginPct",
		},
		{
			name:    "bad reinforcement interval",
			content: "unit_cost: 1000\nquantity: 1\nmargin_pct: 20\ncapacity:\n  enabled: true\n  max_installment: 100\n  reinforcement_interval: 6\n",
			field:   "SimulationInput.Capacity.ReinforcementInterval",
		},
		{
			name:    "slice without method",
			content: "unit_cost: 1000\nquantity: 1\nmargin_pct: 20\nentry_slices:\n  - amount: 10\n",
			field:   "SimulationInput.EntrySlices[0].Method",
		},
		{
			name:    "unknown index",
			content: "unit_cost: 1000\nquantity: 1\nmargin_pct: 20\nindex:\n  name: libor\n",
			field:   "index.name",
		},
		{
			name:    "reinforcement without months",
			content: "unit_cost: 1000\nquantity: 1\nmargin_pct: 20\nreinforcement:\n  enabled: true\n  value: 50\n",
			field:   "reinforcement.months",
		},
		{
			name:    "capacity without cap",
			content: "unit_cost: 1000\nquantity: 1\nmargin_pct: 20\ncapacity:\n  enabled: true\n",
			field:   "capacity.max_installment",
		},
		{
			name:    "minimum margin out of range",
			content: "unit_cost: 1000\nquantity: 1\nmargin_pct: 20\nmin_margin_pct: 120\n",
			field:   "min_margin_pct",
		},
		{
			name:    "custom rate on named index",
			content: "unit_cost: 1000\nquantity: 1\nmargin_pct: 20\nindex:\n  name: selic\n  custom_monthly_rate: 2\n",
			field:   "index.custom_monthly_rate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInputParser().Parse([]byte(tt.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)

			var inputErr *domain.InputError
			require.ErrorAs(t, err, &inputErr)
			assert.Equal(t, tt.field, inputErr.Field)
		})
	}
}

func TestInputParser_UnknownIndexListsKnownOnes(t *testing.T) {
	_, err := NewInputParser().Parse([]byte("unit_cost: 1000\nquantity: 1\nmargin_pct: 20\nindex:\n  name: libor\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown index libor")
	assert.Contains(t, err.Error(), "known: ipca, igpm, inpc, selic, cdi, tr, custom")
}

func TestApplyDefaults_KeepsExplicitWeight(t *testing.T) {
	w := 0
	in := domain.SimulationInput{ClientWeight: &w, Index: domain.IndexSelection{Name: domain.IndexCDI}}
	ApplyDefaults(&in)

	assert.Equal(t, 0, *in.ClientWeight)
	assert.Equal(t, domain.IndexCDI, in.Index.Name)
}
