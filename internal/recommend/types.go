package recommend

import (
	"github.com/ampere-ops/payplan/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	// MaxAlternatives is how many runners-up accompany the best plan
	MaxAlternatives = 2

	// Disqualified is the score of a plan below the minimum margin
	Disqualified = -1000.0

	// CardInstallmentLimit is the longest plan payable on a credit card
	CardInstallmentLimit = 12
)

// Preferences are the client's stated constraints for picking a plan.
// Zero budget or entry means no constraint.
type Preferences struct {
	DesiredInstallments *int            `json:"desiredInstallments,omitempty"`
	MonthlyBudget       decimal.Decimal `json:"monthlyBudget"`
	AvailableEntry      decimal.Decimal `json:"availableEntry"`
	AcceptsCard         bool            `json:"acceptsCard"`
	MinMarginPct        decimal.Decimal `json:"minMarginPct"`
}

// PreferencesFromInput reads the client profile and minimum margin of a simulation input
func PreferencesFromInput(in domain.SimulationInput) Preferences {
	return Preferences{
		DesiredInstallments: in.Client.DesiredInstallments,
		MonthlyBudget:       in.Client.MonthlyBudget,
		AvailableEntry:      in.Client.AvailableEntry,
		AcceptsCard:         in.Client.AcceptsCard,
		MinMarginPct:        in.MinMarginPct,
	}
}

// Recommendation is the chosen plan, its runners-up and why it won
type Recommendation struct {
	Best         domain.Condition   `json:"best"`
	Alternatives []domain.Condition `json:"alternatives"`
	Reasons      []string           `json:"reasons"`
	Score        float64            `json:"score"`
}

type rankedCondition struct {
	condition domain.Condition
	score     float64
	reasons   []string
}
