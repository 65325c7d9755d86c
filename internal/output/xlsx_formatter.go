package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet  = "Condições"
	cashFlowSheet = "Fluxo de Caixa"
)

// XLSXFormatter builds a workbook with a summary sheet and a cash-flow sheet
type XLSXFormatter struct{}

func (x XLSXFormatter) Name() string { return "xlsx" }

func (x XLSXFormatter) Format(report *Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	if _, err := f.NewSheet(cashFlowSheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	summaryHeader := []interface{}{"ID", "Condição", "Entrada", "Parcelas", "Valor da parcela", "Total", "Lucro", "Margem %", "Score", "Tags"}
	if err := writeRow(f, summarySheet, 1, summaryHeader); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(summarySheet, "A1", "J1", headerStyle); err != nil {
		return nil, fmt.Errorf("style summary header: %w", err)
	}
	if err := f.SetColWidth(summarySheet, "A", "B", 24); err != nil {
		return nil, fmt.Errorf("set col width: %w", err)
	}

	for i, c := range report.Conditions {
		var score interface{} = ""
		if c.BilateralScore != nil {
			score = c.BilateralScore.ScoreTotal
		}
		row := []interface{}{
			c.ID,
			c.CommercialName,
			c.Entry.InexactFloat64(),
			c.Installments,
			c.InstallmentAmount.InexactFloat64(),
			c.TotalClient.InexactFloat64(),
			c.TotalProfit.InexactFloat64(),
			c.EffectiveMargin.Round(2).InexactFloat64(),
			score,
			formatTags(c.Tags),
		}
		if err := writeRow(f, summarySheet, i+2, row); err != nil {
			return nil, err
		}
	}

	if err := writeRow(f, cashFlowSheet, 1, []interface{}{"ID", "Mês", "Valor", "Acumulado"}); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(cashFlowSheet, "A1", "D1", headerStyle); err != nil {
		return nil, fmt.Errorf("style cash flow header: %w", err)
	}
	line := 2
	for _, c := range report.Conditions {
		for _, e := range c.CashFlow {
			row := []interface{}{c.ID, e.Month, e.Value.InexactFloat64(), e.Cumulative.InexactFloat64()}
			if err := writeRow(f, cashFlowSheet, line, row); err != nil {
				return nil, err
			}
			line++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
