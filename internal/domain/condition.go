package domain

import (
	"github.com/shopspring/decimal"
)

// Category classifies how a commercial condition is structured
type Category string

const (
	CategoryFullPayment       Category = "full-payment"
	CategoryEntryInstallments Category = "entry-plus-installments"
	CategoryDeferredTable     Category = "fully-deferred-table"
	CategoryLeasing           Category = "leasing"
	CategoryCustom            Category = "custom"
	CategoryCapacitySolved    Category = "capacity-solved"
	CategoryAnticipationBlend Category = "anticipation-blend"
)

// CommercialName returns the client-facing label for a category
func (c Category) CommercialName() string {
	switch c {
	case CategoryFullPayment:
		return "À Vista Premium"
	case CategoryEntryInstallments:
		return "Entrada + Parcelas"
	case CategoryDeferredTable:
		return "Parcelamento Total"
	case CategoryLeasing:
		return "Leasing Operacional"
	case CategoryCustom:
		return "Condição Personalizada"
	case CategoryCapacitySolved:
		return "Parcela que Cabe no Bolso"
	case CategoryAnticipationBlend:
		return "Antecipação Inteligente"
	default:
		return "Condição Comercial"
	}
}

// ConditionTag is a badge awarded to the best plan of a batch in one category
type ConditionTag string

const (
	TagCheapestInstallment ConditionTag = "cheapest-installment"
	TagHighestMargin       ConditionTag = "highest-margin"
	TagShortestTerm        ConditionTag = "shortest-term"
	TagLowestTotalCost     ConditionTag = "lowest-total-cost"
	TagBestBalance         ConditionTag = "best-balance"
)

// AllTags lists the tag categories in award order
func AllTags() []ConditionTag {
	return []ConditionTag{TagCheapestInstallment, TagHighestMargin, TagShortestTerm, TagLowestTotalCost, TagBestBalance}
}

// CashFlowEntry is one month of a plan's payment sequence.
// Cumulative starts at entry - total cost on month 0.
type CashFlowEntry struct {
	Month      int             `json:"month"`
	Value      decimal.Decimal `json:"value"`
	Cumulative decimal.Decimal `json:"cumulative"`
}

// AnnualAmortizationBlock is one 12-month slice of a readjusted schedule
type AnnualAmortizationBlock struct {
	StartMonth  int             `json:"startMonth"`
	EndMonth    int             `json:"endMonth"`
	Installment decimal.Decimal `json:"installment"`
	RatePct     decimal.Decimal `json:"ratePct"`
}

// SensitivityScenario is the outcome of a plan under a rate shock
type SensitivityScenario struct {
	Label          string          `json:"label"`
	RateMultiplier decimal.Decimal `json:"rateMultiplier"`
	Installment    decimal.Decimal `json:"installment"`
	TotalProfit    decimal.Decimal `json:"totalProfit"`
	MarginPct      decimal.Decimal `json:"marginPct"`
}

// BilateralScore balances client affordability against provider profitability
type BilateralScore struct {
	ClientScore   float64  `json:"clientScore"`
	ProviderScore float64  `json:"providerScore"`
	ScoreTotal    float64  `json:"scoreTotal"`
	Weight        float64  `json:"weight"`
	Reasons       []string `json:"reasons"`
}

// ReinforcementPayment is an extra payment due on a specific month
type ReinforcementPayment struct {
	Month int             `json:"month"`
	Value decimal.Decimal `json:"value"`
}

// Condition is one synthesized commercial condition (payment plan).
// Conditions are built once and never modified; annotation returns copies.
type Condition struct {
	ID             string   `json:"id"`
	Category       Category `json:"category"`
	Label          string   `json:"label"`
	CommercialName string   `json:"commercialName"`
	Description    string   `json:"description"`

	Entry             decimal.Decimal `json:"entry"`
	EntryNet          decimal.Decimal `json:"entryNet"`
	InstallmentAmount decimal.Decimal `json:"installmentAmount"`
	Installments      int             `json:"installments"`
	Frequency         int             `json:"frequency"`

	TotalClient        decimal.Decimal `json:"totalClient"`
	TotalCost          decimal.Decimal `json:"totalCost"`
	CostRecovered      decimal.Decimal `json:"costRecovered"`
	TotalProfit        decimal.Decimal `json:"totalProfit"`
	ImmediateProfit    decimal.Decimal `json:"immediateProfit"`
	DeferredProfit     decimal.Decimal `json:"deferredProfit"`
	EffectiveMargin    decimal.Decimal `json:"effectiveMargin"`
	CapturedCorrection decimal.Decimal `json:"capturedCorrection"`

	// Financing parameters kept so the plan can be re-priced under rate shocks
	BaseRatePct             decimal.Decimal `json:"baseRatePct"`
	RatePct                 decimal.Decimal `json:"ratePct"`
	FinancedAmount          decimal.Decimal `json:"financedAmount"`
	AnticipatedInstallments int             `json:"anticipatedInstallments,omitempty"`
	AnticipationDiscountPct decimal.Decimal `json:"anticipationDiscountPct"`
	AnticipatedAmount       decimal.Decimal `json:"anticipatedAmount"`
	Readjusted              bool            `json:"readjusted"`
	CoversImmediateCost     bool            `json:"coversImmediateCost"`

	CashFlow         []CashFlowEntry           `json:"cashFlow"`
	AnnualBlocks     []AnnualAmortizationBlock `json:"annualBlocks,omitempty"`
	Sensitivity      []SensitivityScenario     `json:"sensitivity,omitempty"`
	BilateralScore   *BilateralScore           `json:"bilateralScore,omitempty"`
	Tags             []ConditionTag            `json:"tags,omitempty"`
	IntercaladaExtra []ReinforcementPayment    `json:"intercaladaExtra,omitempty"`
}

// ReinforcementTotal sums the extra reinforcement payments of the plan
func (c Condition) ReinforcementTotal() decimal.Decimal {
	total := decimal.Zero
	for _, r := range c.IntercaladaExtra {
		total = total.Add(r.Value)
	}
	return total
}

// TermMonths is the span of the plan in months
func (c Condition) TermMonths() int {
	freq := c.Frequency
	if freq < 1 {
		freq = 1
	}
	return c.Installments * freq
}

// HasTag reports whether the plan carries the given badge
func (c Condition) HasTag(tag ConditionTag) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// MarginOf computes profit / total x 100, or zero when total is zero
func MarginOf(profit, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return profit.Div(total).Mul(decimal.NewFromInt(100))
}
