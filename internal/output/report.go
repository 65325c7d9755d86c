package output

import (
	"fmt"
	"strings"

	"github.com/ampere-ops/payplan/internal/domain"
	"github.com/shopspring/decimal"
)

// FormatCurrency formats a decimal as Brazilian reais
func FormatCurrency(amount decimal.Decimal) string {
	return "R$ " + amount.StringFixed(2)
}

// FormatPercentage formats a decimal as percentage
func FormatPercentage(amount decimal.Decimal) string {
	return amount.StringFixed(2) + "%"
}

// formatInstallments renders "12x R$ 100.00", "à vista" or a periodic plan
func formatInstallments(c domain.Condition) string {
	if c.Installments == 0 {
		return "à vista"
	}
	s := fmt.Sprintf("%dx %s", c.Installments, FormatCurrency(c.InstallmentAmount))
	if c.Frequency > 1 {
		s += fmt.Sprintf(" a cada %d meses", c.Frequency)
	}
	return s
}

func formatTags(tags []domain.ConditionTag) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = string(t)
	}
	return strings.Join(parts, " ")
}

func formatScore(c domain.Condition) string {
	if c.BilateralScore == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", c.BilateralScore.ScoreTotal)
}
