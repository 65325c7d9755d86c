package output

import (
	"bytes"
	"fmt"

	"github.com/ampere-ops/payplan/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	colorPrimary = lipgloss.Color("#7D56F4")
	colorMuted   = lipgloss.Color("#6C6C6C")
	colorDanger  = lipgloss.Color("#E05A5A")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	warningStyle = lipgloss.NewStyle().Foreground(colorDanger)
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

// ConsoleFormatter renders one table row per condition
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, titleStyle.Render(report.Title))
	if len(report.Conditions) == 0 {
		fmt.Fprintln(&buf, mutedStyle.Render("Nenhuma condição disponível"))
		return buf.Bytes(), nil
	}

	fmt.Fprintln(&buf, conditionTable(report.Conditions))

	if rec := report.Recommendation; rec != nil {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Recomendada: %s (%s) pontuação %.2f\n", rec.Best.ID, rec.Best.CommercialName, rec.Score)
		for _, reason := range rec.Reasons {
			fmt.Fprintf(&buf, "• %s\n", reason)
		}
	}
	return buf.Bytes(), nil
}

func conditionTable(conditions []domain.Condition) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("ID", "Condição", "Entrada", "Parcelas", "Total", "Margem", "Score", "Tags")

	for _, cond := range conditions {
		id := cond.ID
		if !cond.CoversImmediateCost {
			id = warningStyle.Render(id + " !")
		}
		t.Row(
			id,
			cond.CommercialName,
			FormatCurrency(cond.Entry),
			formatInstallments(cond),
			FormatCurrency(cond.TotalClient),
			FormatPercentage(cond.EffectiveMargin),
			formatScore(cond),
			formatTags(cond.Tags),
		)
	}
	return t.Render()
}
