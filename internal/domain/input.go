package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// IndexName identifies the correction index that drives the base monthly rate
type IndexName string

const (
	IndexIPCA   IndexName = "ipca"
	IndexIGPM   IndexName = "igpm"
	IndexINPC   IndexName = "inpc"
	IndexSELIC  IndexName = "selic"
	IndexCDI    IndexName = "cdi"
	IndexTR     IndexName = "tr"
	IndexCustom IndexName = "custom"
)

// indexMonthlyRates holds the reference monthly rate (percent) for each named index.
// Read-only: callers go through MonthlyRate.
var indexMonthlyRates = map[IndexName]decimal.Decimal{
	IndexIPCA:  decimal.RequireFromString("0.38"),
	IndexIGPM:  decimal.RequireFromString("0.45"),
	IndexINPC:  decimal.RequireFromString("0.36"),
	IndexSELIC: decimal.RequireFromString("0.87"),
	IndexCDI:   decimal.RequireFromString("0.86"),
	IndexTR:    decimal.RequireFromString("0.08"),
}

// MonthlyRate returns the reference monthly rate for a named index
func (n IndexName) MonthlyRate() (decimal.Decimal, bool) {
	rate, ok := indexMonthlyRates[n]
	return rate, ok
}

// KnownIndexes lists the named indexes in display order
func KnownIndexes() []IndexName {
	return []IndexName{IndexIPCA, IndexIGPM, IndexINPC, IndexSELIC, IndexCDI, IndexTR, IndexCustom}
}

func knownIndexList() string {
	names := KnownIndexes()
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = string(n)
	}
	return strings.Join(parts, ", ")
}

// IndexSelection picks the correction index, or a fixed custom monthly rate
type IndexSelection struct {
	Name              IndexName       `yaml:"name" json:"name" validate:"required"`
	CustomMonthlyRate decimal.Decimal `yaml:"custom_monthly_rate" json:"customMonthlyRate"`
}

// EntrySlice is one payment method used to pay the entry
type EntrySlice struct {
	Method           string          `yaml:"method" json:"method" validate:"required"`
	Amount           decimal.Decimal `yaml:"amount" json:"amount"`
	FeePct           decimal.Decimal `yaml:"fee_pct" json:"feePct"`
	CardInstallments int             `yaml:"card_installments,omitempty" json:"cardInstallments,omitempty" validate:"gte=0,lte=24"`
}

// CustomPlan is the caller's own entry/term pair
type CustomPlan struct {
	Entry        decimal.Decimal `yaml:"entry" json:"entry"`
	Installments int             `yaml:"installments" json:"installments" validate:"gte=0,lte=360"`
}

// Anticipation configures an early-payment discount on the first installments
type Anticipation struct {
	Count       int             `yaml:"count" json:"count" validate:"gte=0,lte=360"`
	DiscountPct decimal.Decimal `yaml:"discount_pct" json:"discountPct"`
}

// Active reports whether the anticipation discount applies
func (a Anticipation) Active() bool {
	return a.Count > 0 && a.DiscountPct.GreaterThan(decimal.Zero)
}

// ReinforcementConfig configures interleaved extra payments on specific months
type ReinforcementConfig struct {
	Enabled bool            `yaml:"enabled" json:"enabled"`
	Value   decimal.Decimal `yaml:"value" json:"value"`
	Months  []int           `yaml:"months" json:"months" validate:"dive,gte=1,lte=360"`
}

// Active reports whether reinforcements are configured with a usable value
func (r ReinforcementConfig) Active() bool {
	return r.Enabled && r.Value.GreaterThan(decimal.Zero) && len(r.Months) > 0
}

// CapacityConfig describes the client's maximum affordable installment
type CapacityConfig struct {
	Enabled               bool            `yaml:"enabled" json:"enabled"`
	MaxInstallment        decimal.Decimal `yaml:"max_installment" json:"maxInstallment"`
	CardFeePct            decimal.Decimal `yaml:"card_fee_pct" json:"cardFeePct"`
	ReinforcementInterval int             `yaml:"reinforcement_interval" json:"reinforcementInterval" validate:"gte=0,lte=3"`
}

// ClientProfile captures the client's stated preferences
type ClientProfile struct {
	DesiredInstallments *int            `yaml:"desired_installments,omitempty" json:"desiredInstallments,omitempty" validate:"omitempty,gte=0,lte=360"`
	MonthlyBudget       decimal.Decimal `yaml:"monthly_budget" json:"monthlyBudget"`
	AvailableEntry      decimal.Decimal `yaml:"available_entry" json:"availableEntry"`
	AcceptsCard         bool            `yaml:"accepts_card" json:"acceptsCard"`
}

// ReverseConfig drives the reverse solver
type ReverseConfig struct {
	Enabled             bool            `yaml:"enabled" json:"enabled"`
	MaxInstallment      decimal.Decimal `yaml:"max_installment" json:"maxInstallment"`
	AvailableEntry      decimal.Decimal `yaml:"available_entry" json:"availableEntry"`
	AllowReinforcements bool            `yaml:"allow_reinforcements" json:"allowReinforcements"`
}

// SimulationInput is the immutable configuration for one engine run.
// All percentages are expressed in percent (20 means 20%).
type SimulationInput struct {
	ImmediateCost    decimal.Decimal     `yaml:"immediate_cost" json:"immediateCost" validate:"gte=0"`
	UnitCost         decimal.Decimal     `yaml:"unit_cost" json:"unitCost" validate:"gt=0"`
	Quantity         decimal.Decimal     `yaml:"quantity" json:"quantity" validate:"gt=0"`
	MarginPct        decimal.Decimal     `yaml:"margin_pct" json:"marginPct" validate:"gte=0,lt=100"`
	Index            IndexSelection      `yaml:"index" json:"index"`
	CashDiscountPct  decimal.Decimal     `yaml:"cash_discount_pct" json:"cashDiscountPct"`
	LeasingSpreadPct decimal.Decimal     `yaml:"leasing_spread_pct" json:"leasingSpreadPct"`
	Custom           CustomPlan          `yaml:"custom" json:"custom"`
	EntrySlices      []EntrySlice        `yaml:"entry_slices" json:"entrySlices" validate:"dive"`
	Anticipation     Anticipation        `yaml:"anticipation" json:"anticipation"`
	Reinforcement    ReinforcementConfig `yaml:"reinforcement" json:"reinforcement"`
	MinMarginPct     decimal.Decimal     `yaml:"min_margin_pct" json:"minMarginPct"`
	Capacity         CapacityConfig      `yaml:"capacity" json:"capacity"`
	Client           ClientProfile       `yaml:"client" json:"client"`
	Reverse          ReverseConfig       `yaml:"reverse" json:"reverse"`
	ClientWeight     *int                `yaml:"client_weight,omitempty" json:"scorePesoCliente,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// DefaultClientWeight is used when the input leaves the score weighting unset
const DefaultClientWeight = 50

// TotalCost is the unit cost times the quantity
func (in SimulationInput) TotalCost() decimal.Decimal {
	return in.UnitCost.Mul(in.Quantity)
}

// Weight returns the client-side share of the bilateral score, in [0, 1]
func (in SimulationInput) Weight() decimal.Decimal {
	w := DefaultClientWeight
	if in.ClientWeight != nil {
		w = *in.ClientWeight
	}
	if w < 0 {
		w = 0
	}
	if w > 100 {
		w = 100
	}
	return decimal.NewFromInt(int64(w)).Div(decimal.NewFromInt(100))
}

// BaseRate resolves the monthly base rate in percent for the selected index
func (in SimulationInput) BaseRate() (decimal.Decimal, error) {
	if in.Index.Name == IndexCustom || in.Index.Name == "" {
		if in.Index.CustomMonthlyRate.LessThan(decimal.Zero) {
			return decimal.Zero, &InputError{Field: "index.custom_monthly_rate", Message: "cannot be negative"}
		}
		return in.Index.CustomMonthlyRate, nil
	}
	rate, ok := in.Index.Name.MonthlyRate()
	if !ok {
		return decimal.Zero, &InputError{
			Field:   "index.name",
			Message: "unknown index " + string(in.Index.Name) + " (known: " + knownIndexList() + ")",
		}
	}
	return rate, nil
}

// Validate checks the programming-contract preconditions of the engine
func (in SimulationInput) Validate() error {
	if in.UnitCost.LessThanOrEqual(decimal.Zero) {
		return &InputError{Field: "unit_cost", Message: "must be positive"}
	}
	if in.Quantity.LessThanOrEqual(decimal.Zero) {
		return &InputError{Field: "quantity", Message: "must be positive"}
	}
	if in.MarginPct.LessThan(decimal.Zero) || in.MarginPct.GreaterThanOrEqual(decimal.NewFromInt(100)) {
		return &InputError{Field: "margin_pct", Message: "must be in [0, 100)"}
	}
	if in.ImmediateCost.LessThan(decimal.Zero) {
		return &InputError{Field: "immediate_cost", Message: "cannot be negative"}
	}
	if in.CashDiscountPct.LessThan(decimal.Zero) || in.CashDiscountPct.GreaterThan(decimal.NewFromInt(100)) {
		return &InputError{Field: "cash_discount_pct", Message: "must be between 0 and 100"}
	}
	if in.Anticipation.DiscountPct.LessThan(decimal.Zero) || in.Anticipation.DiscountPct.GreaterThanOrEqual(decimal.NewFromInt(100)) {
		return &InputError{Field: "anticipation.discount_pct", Message: "must be in [0, 100)"}
	}
	if in.Capacity.CardFeePct.LessThan(decimal.Zero) || in.Capacity.CardFeePct.GreaterThanOrEqual(decimal.NewFromInt(100)) {
		return &InputError{Field: "capacity.card_fee_pct", Message: "must be in [0, 100)"}
	}
	for i, s := range in.EntrySlices {
		if s.Amount.LessThan(decimal.Zero) {
			return &InputError{Field: sliceField(i, "amount"), Message: "cannot be negative"}
		}
		if s.FeePct.LessThan(decimal.Zero) || s.FeePct.GreaterThanOrEqual(decimal.NewFromInt(100)) {
			return &InputError{Field: sliceField(i, "fee_pct"), Message: "must be in [0, 100)"}
		}
	}
	if _, err := in.BaseRate(); err != nil {
		return err
	}
	return nil
}
