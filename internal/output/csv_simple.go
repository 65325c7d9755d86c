package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/ampere-ops/payplan/internal/domain"
)

// CSVSummarizer writes one row per condition
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"ID", "Category", "Label", "Entry", "EntryNet", "Installments", "InstallmentAmount", "Frequency",
		"RatePct", "TotalClient", "TotalCost", "TotalProfit", "ImmediateProfit", "DeferredProfit",
		"EffectiveMargin", "CapturedCorrection", "CoversImmediateCost", "Score", "Tags"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, cond := range report.Conditions {
		row := []string{
			cond.ID,
			string(cond.Category),
			cond.Label,
			cond.Entry.StringFixed(2),
			cond.EntryNet.StringFixed(2),
			strconv.Itoa(cond.Installments),
			cond.InstallmentAmount.StringFixed(2),
			strconv.Itoa(cond.Frequency),
			cond.RatePct.StringFixed(4),
			cond.TotalClient.StringFixed(2),
			cond.TotalCost.StringFixed(2),
			cond.TotalProfit.StringFixed(2),
			cond.ImmediateProfit.StringFixed(2),
			cond.DeferredProfit.StringFixed(2),
			cond.EffectiveMargin.StringFixed(2),
			cond.CapturedCorrection.StringFixed(2),
			strconv.FormatBool(cond.CoversImmediateCost),
			scoreCell(cond),
			formatTags(cond.Tags),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// DetailedCSVFormatter writes one row per month of every condition's cash flow
type DetailedCSVFormatter struct{}

func (d DetailedCSVFormatter) Name() string { return "detailed-csv" }

func (d DetailedCSVFormatter) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"ID", "Month", "Value", "Cumulative"}); err != nil {
		return nil, err
	}
	for _, cond := range report.Conditions {
		for _, e := range cond.CashFlow {
			row := []string{cond.ID, strconv.Itoa(e.Month), e.Value.StringFixed(2), e.Cumulative.StringFixed(2)}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func scoreCell(c domain.Condition) string {
	if c.BilateralScore == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", c.BilateralScore.ScoreTotal)
}
