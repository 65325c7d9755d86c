package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ampere-ops/payplan/internal/domain"
)

const rule = "================================================================================"

// ConsoleVerboseFormatter prints every figure of every condition, including
// the cash flow, readjustment blocks and rate-shock scenarios
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console-verbose" }

func (c ConsoleVerboseFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, rule)
	fmt.Fprintln(&buf, strings.ToUpper(report.Title))
	fmt.Fprintln(&buf, rule)
	fmt.Fprintf(&buf, "Condições: %d\n\n", len(report.Conditions))

	for i, cond := range report.Conditions {
		writeCondition(&buf, i+1, cond)
	}

	if rec := report.Recommendation; rec != nil {
		fmt.Fprintln(&buf, "RECOMENDAÇÃO")
		fmt.Fprintln(&buf, "------------")
		fmt.Fprintf(&buf, "Melhor condição: %s (pontuação %.2f)\n", rec.Best.ID, rec.Score)
		for _, reason := range rec.Reasons {
			fmt.Fprintf(&buf, "• %s\n", reason)
		}
		for _, alt := range rec.Alternatives {
			fmt.Fprintf(&buf, "Alternativa: %s - %s\n", alt.ID, formatInstallments(alt))
		}
	}
	return buf.Bytes(), nil
}

func writeCondition(buf *bytes.Buffer, n int, c domain.Condition) {
	fmt.Fprintf(buf, "CONDIÇÃO %d: %s [%s]\n", n, c.Label, c.ID)
	fmt.Fprintf(buf, "%s - %s\n", c.CommercialName, c.Description)
	if len(c.Tags) > 0 {
		fmt.Fprintf(buf, "Tags: %s\n", formatTags(c.Tags))
	}
	fmt.Fprintf(buf, "  Entrada:              %s (líquida %s)\n", FormatCurrency(c.Entry), FormatCurrency(c.EntryNet))
	fmt.Fprintf(buf, "  Parcelamento:         %s\n", formatInstallments(c))
	if c.Installments > 0 {
		fmt.Fprintf(buf, "  Taxa:                 %s a.m. (base %s)\n", FormatPercentage(c.RatePct), FormatPercentage(c.BaseRatePct))
		fmt.Fprintf(buf, "  Valor financiado:     %s\n", FormatCurrency(c.FinancedAmount))
	}
	if c.AnticipatedInstallments > 0 {
		fmt.Fprintf(buf, "  Antecipação:          %d parcelas com %s de desconto (%s)\n",
			c.AnticipatedInstallments, FormatPercentage(c.AnticipationDiscountPct), FormatCurrency(c.AnticipatedAmount))
	}
	fmt.Fprintf(buf, "  Total do cliente:     %s\n", FormatCurrency(c.TotalClient))
	fmt.Fprintf(buf, "  Custo total:          %s\n", FormatCurrency(c.TotalCost))
	fmt.Fprintf(buf, "  Lucro total:          %s (imediato %s, diferido %s)\n",
		FormatCurrency(c.TotalProfit), FormatCurrency(c.ImmediateProfit), FormatCurrency(c.DeferredProfit))
	fmt.Fprintf(buf, "  Margem efetiva:       %s\n", FormatPercentage(c.EffectiveMargin))
	fmt.Fprintf(buf, "  Correção capturada:   %s\n", FormatCurrency(c.CapturedCorrection))
	if !c.CoversImmediateCost {
		fmt.Fprintln(buf, "  Entrada não cobre o custo imediato")
	}

	if len(c.IntercaladaExtra) > 0 {
		fmt.Fprintln(buf, "  Reforços:")
		for _, r := range c.IntercaladaExtra {
			fmt.Fprintf(buf, "    mês %3d  %s\n", r.Month, FormatCurrency(r.Value))
		}
	}

	if len(c.AnnualBlocks) > 0 {
		fmt.Fprintln(buf, "  Blocos de reajuste:")
		for _, b := range c.AnnualBlocks {
			fmt.Fprintf(buf, "    meses %3d-%3d  parcela %s  taxa %s\n", b.StartMonth, b.EndMonth, FormatCurrency(b.Installment), FormatPercentage(b.RatePct))
		}
	}

	if len(c.Sensitivity) > 0 {
		fmt.Fprintln(buf, "  Sensibilidade:")
		for _, s := range c.Sensitivity {
			fmt.Fprintf(buf, "    %-12s x%s  parcela %s  lucro %s  margem %s\n",
				s.Label, s.RateMultiplier.StringFixed(1), FormatCurrency(s.Installment), FormatCurrency(s.TotalProfit), FormatPercentage(s.MarginPct))
		}
	}

	if s := c.BilateralScore; s != nil {
		fmt.Fprintf(buf, "  Score: %.2f (cliente %.2f, fornecedor %.2f, peso %.0f)\n", s.ScoreTotal, s.ClientScore, s.ProviderScore, s.Weight)
		for _, reason := range s.Reasons {
			fmt.Fprintf(buf, "    • %s\n", reason)
		}
	}

	if len(c.CashFlow) > 0 {
		fmt.Fprintln(buf, "  Fluxo de caixa:")
		for _, e := range c.CashFlow {
			fmt.Fprintf(buf, "    mês %3d  %14s  acumulado %14s\n", e.Month, FormatCurrency(e.Value), FormatCurrency(e.Cumulative))
		}
	}
	fmt.Fprintln(buf)
}
