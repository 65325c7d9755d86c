package calculation

import (
	"fmt"
	"math"

	"github.com/ampere-ops/payplan/internal/domain"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
)

// axisRawMax is the raw point ceiling of each score axis before rescaling to 0-100
const axisRawMax = 75.0

// ScoringContext carries the client constraints and weighting a batch is scored against
type ScoringContext struct {
	Weight         float64 // client share of the total, in [0, 1]
	MonthlyBudget  decimal.Decimal
	AvailableEntry decimal.Decimal
	MinMarginPct   decimal.Decimal
}

// NewScoringContext reads the client profile and weighting from the input
func NewScoringContext(in domain.SimulationInput) ScoringContext {
	return ScoringContext{
		Weight:         in.Weight().InexactFloat64(),
		MonthlyBudget:  in.Client.MonthlyBudget,
		AvailableEntry: in.Client.AvailableEntry,
		MinMarginPct:   in.MinMarginPct,
	}
}

// BatchStats are the spreads each plan is ranked against within one batch
type BatchStats struct {
	MinTotal      float64
	MaxTotal      float64
	MaxCorrection float64
	MinNPV        float64
	MaxNPV        float64
}

// NewBatchStats collects the batch spreads of total paid, captured correction and NPV
func NewBatchStats(conditions []domain.Condition) BatchStats {
	if len(conditions) == 0 {
		return BatchStats{}
	}
	totals := make([]float64, len(conditions))
	corrections := make([]float64, len(conditions))
	npvs := make([]float64, len(conditions))
	for i, c := range conditions {
		totals[i] = c.TotalClient.InexactFloat64()
		corrections[i] = c.CapturedCorrection.InexactFloat64()
		npvs[i] = planNPV(c)
	}
	return BatchStats{
		MinTotal:      floats.Min(totals),
		MaxTotal:      floats.Max(totals),
		MaxCorrection: floats.Max(corrections),
		MinNPV:        floats.Min(npvs),
		MaxNPV:        floats.Max(npvs),
	}
}

// planNPV discounts the plan's flow at its own base rate
func planNPV(c domain.Condition) float64 {
	return Npv(c.BaseRatePct, c.CashFlow).InexactFloat64()
}

// ScoreCondition rates a plan from the client's and the provider's side.
// Each axis accumulates up to 75 raw points and is rescaled to 0-100.
func ScoreCondition(c domain.Condition, stats BatchStats, sc ScoringContext) domain.BilateralScore {
	var reasons []string
	months := float64(c.TermMonths())

	// client: budget fit
	client := 0.0
	installment := c.InstallmentAmount.InexactFloat64()
	budget := sc.MonthlyBudget.InexactFloat64()
	switch {
	case budget <= 0:
		client += 12.5
	case installment <= budget:
		client += 10 + 15*(budget-installment)/budget
		reasons = append(reasons, "Parcela dentro do orçamento mensal")
	default:
		reasons = append(reasons, "Parcela acima do orçamento mensal")
	}

	// client: entry affordability
	available := sc.AvailableEntry.InexactFloat64()
	switch {
	case available <= 0:
		client += 10
	case c.Entry.InexactFloat64() <= available:
		client += 20
		reasons = append(reasons, "Entrada dentro do valor disponível")
	default:
		reasons = append(reasons, "Entrada acima do valor disponível")
	}

	// client: total paid against the batch spread
	totalPoints := 20.0
	if spread := stats.MaxTotal - stats.MinTotal; spread > 0 {
		totalPoints = 20 * (stats.MaxTotal - c.TotalClient.InexactFloat64()) / spread
	}
	client += totalPoints
	if totalPoints >= 15 {
		reasons = append(reasons, "Custo total competitivo")
	}

	// client: shorter commitments
	client += 10 * (1 - math.Min(months, 60)/60)

	// provider: captured correction
	provider := 0.0
	if stats.MaxCorrection > 0 {
		provider += 20 * c.CapturedCorrection.InexactFloat64() / stats.MaxCorrection
		if c.CapturedCorrection.IsPositive() {
			reasons = append(reasons, "Captura correção monetária")
		}
	}

	// provider: margin above the minimum
	excess := c.EffectiveMargin.Sub(sc.MinMarginPct).InexactFloat64()
	switch {
	case excess >= 15:
		provider += 20
	case excess >= 10:
		provider += 15
	case excess >= 5:
		provider += 10
	case excess >= 0:
		provider += 5
	}
	if excess >= 5 {
		reasons = append(reasons, fmt.Sprintf("Margem %.1f p.p. acima do mínimo", excess))
	}

	// provider: present value against the batch spread
	npvPoints := 20.0
	if spread := stats.MaxNPV - stats.MinNPV; spread > 0 {
		npvPoints = 20 * (planNPV(c) - stats.MinNPV) / spread
	}
	provider += npvPoints

	// provider: short terms preferred, long ones penalized
	switch {
	case months <= 12:
		provider += 15
	case months <= 24:
		provider += 10
	case months <= 36:
		provider += 5
	default:
		provider -= 5 * (months - 36) / 12
		reasons = append(reasons, "Prazo acima de 36 meses")
	}

	clientScore := rescale(client)
	providerScore := rescale(provider)
	return domain.BilateralScore{
		ClientScore:   clientScore,
		ProviderScore: providerScore,
		ScoreTotal:    round2(clientScore*sc.Weight + providerScore*(1-sc.Weight)),
		Weight:        sc.Weight,
		Reasons:       reasons,
	}
}

// AnnotateBatch returns a copy of the batch with sensitivity scenarios,
// bilateral scores and tags filled in. The input slice is left untouched.
func AnnotateBatch(conditions []domain.Condition, sc ScoringContext) []domain.Condition {
	stats := NewBatchStats(conditions)
	out := make([]domain.Condition, len(conditions))
	for i, c := range conditions {
		c.Sensitivity = AnalyzeSensitivity(c)
		score := ScoreCondition(c, stats, sc)
		c.BilateralScore = &score
		out[i] = c
	}
	return AssignTags(out)
}

func rescale(raw float64) float64 {
	raw = math.Max(0, math.Min(axisRawMax, raw))
	return round2(raw * 100 / axisRawMax)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
