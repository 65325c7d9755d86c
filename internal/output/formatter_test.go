package output

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"testing"

	"github.com/ampere-ops/payplan/internal/calculation"
	"github.com/ampere-ops/payplan/internal/domain"
	"github.com/ampere-ops/payplan/internal/recommend"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildTestReport(t *testing.T) *Report {
	t.Helper()
	in := domain.SimulationInput{
		ImmediateCost:   decimal.NewFromInt(300),
		UnitCost:        decimal.NewFromInt(1000),
		Quantity:        decimal.NewFromInt(1),
		MarginPct:       decimal.NewFromInt(20),
		Index:           domain.IndexSelection{Name: domain.IndexCustom, CustomMonthlyRate: decimal.NewFromInt(1)},
		CashDiscountPct: decimal.NewFromInt(10),
	}
	plans, err := calculation.NewEngine().Simulate(context.Background(), in)
	require.NoError(t, err)
	require.NotEmpty(t, plans)
	return NewReport(ModeSimulate, plans)
}

func TestFormatterFunc(t *testing.T) {
	var received *Report
	formatter := FormatterFunc{
		ID: "test-formatter",
		F: func(report *Report) ([]byte, error) {
			received = report
			return []byte("test output"), nil
		},
	}

	report := &Report{Title: "x"}
	out, err := formatter.Format(report)

	assert.NoError(t, err)
	assert.Same(t, report, received)
	assert.Equal(t, []byte("test output"), out)
	assert.Equal(t, "test-formatter", formatter.Name())
}

func TestWriteFormatted(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	formatter := FormatterFunc{
		ID: "test-formatter",
		F: func(report *Report) ([]byte, error) {
			return []byte("test output content"), nil
		},
	}

	filename, err := WriteFormatted(formatter, &Report{}, "txt")
	require.NoError(t, err)
	assert.Contains(t, filename, "payplan_report_")
	assert.Contains(t, filename, ".txt")

	content, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "test output content", string(content))
}

func TestWriteFormatted_FormatterError(t *testing.T) {
	formatter := FormatterFunc{
		ID: "error-formatter",
		F: func(report *Report) ([]byte, error) {
			return nil, fmt.Errorf("formatter error")
		},
	}

	filename, err := WriteFormatted(formatter, &Report{}, "txt")
	assert.Error(t, err)
	assert.Empty(t, filename)
	assert.Contains(t, err.Error(), "formatter error")
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"console", "console-verbose", "csv", "detailed-csv", "json", "xlsx"}, AvailableFormatterNames())
	assert.Equal(t, []string{"excel", "table", "verbose"}, AvailableFormatAliases())

	assert.Equal(t, "console", GetFormatterByName("table").Name())
	assert.Equal(t, "console-verbose", GetFormatterByName("verbose").Name())
	assert.Equal(t, "xlsx", GetFormatterByName("excel").Name())
	assert.Nil(t, GetFormatterByName("html"))

	assert.Equal(t, "json", Extension(JSONFormatter{}))
	assert.Equal(t, "csv", Extension(DetailedCSVFormatter{}))
	assert.Equal(t, "xlsx", Extension(XLSXFormatter{}))
	assert.Equal(t, "txt", Extension(ConsoleFormatter{}))
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "R$ 1225.00", FormatCurrency(decimal.NewFromInt(1225)))
	assert.Equal(t, "18.37%", FormatPercentage(decimal.RequireFromString("18.3673")))
}

func TestConsoleFormatter(t *testing.T) {
	report := buildTestReport(t)
	out, err := ConsoleFormatter{}.Format(report)
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, "Simulação de Condições Comerciais")
	assert.Contains(t, content, "a-vista")
	assert.Contains(t, content, "R$ 1225.00")
	assert.Contains(t, content, "à vista")
}

func TestConsoleFormatter_Empty(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(NewReport(ModeReverse, nil))
	require.NoError(t, err)
	assert.Contains(t, string(out), "Nenhuma condição disponível")
}

func TestConsoleFormatter_Recommendation(t *testing.T) {
	report := buildTestReport(t)
	report.Mode = ModeRecommend
	report.Recommendation = recommend.FindIdealCondition(report.Conditions, recommend.Preferences{})
	require.NotNil(t, report.Recommendation)

	out, err := ConsoleFormatter{}.Format(report)
	require.NoError(t, err)
	assert.Contains(t, string(out), "Recomendada: "+report.Recommendation.Best.ID)
}

func TestConsoleVerboseFormatter(t *testing.T) {
	report := buildTestReport(t)
	out, err := ConsoleVerboseFormatter{}.Format(report)
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, "SIMULAÇÃO DE CONDIÇÕES COMERCIAIS")
	assert.Contains(t, content, "CONDIÇÃO 1:")
	assert.Contains(t, content, "Fluxo de caixa:")
	assert.Contains(t, content, "Sensibilidade:")
	assert.Contains(t, content, "pessimistic")
}

func TestCSVSummarizer(t *testing.T) {
	report := buildTestReport(t)
	out, err := CSVSummarizer{}.Format(report)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(report.Conditions)+1)
	assert.Equal(t, "ID", records[0][0])
	assert.Equal(t, report.Conditions[0].ID, records[1][0])
}

func TestDetailedCSVFormatter(t *testing.T) {
	report := buildTestReport(t)
	out, err := DetailedCSVFormatter{}.Format(report)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)

	expected := 1
	for _, c := range report.Conditions {
		expected += len(c.CashFlow)
	}
	assert.Len(t, records, expected)
	assert.Equal(t, []string{"ID", "Month", "Value", "Cumulative"}, records[0])
}

func TestJSONFormatter(t *testing.T) {
	report := buildTestReport(t)
	out, err := JSONFormatter{}.Format(report)
	require.NoError(t, err)

	var decoded struct {
		Mode       string `json:"mode"`
		Conditions []struct {
			ID string `json:"id"`
		} `json:"conditions"`
	}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, ModeSimulate, decoded.Mode)
	assert.Len(t, decoded.Conditions, len(report.Conditions))
	assert.NotContains(t, string(out), "\"recommendation\"")
}

func TestXLSXFormatter(t *testing.T) {
	report := buildTestReport(t)
	out, err := XLSXFormatter{}.Format(report)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{summarySheet, cashFlowSheet}, f.GetSheetList())

	rows, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	require.Len(t, rows, len(report.Conditions)+1)
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, report.Conditions[0].ID, rows[1][0])

	flow, err := f.GetRows(cashFlowSheet)
	require.NoError(t, err)
	assert.Greater(t, len(flow), 1)
}
