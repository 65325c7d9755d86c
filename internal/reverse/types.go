package reverse

import (
	"github.com/ampere-ops/payplan/internal/calculation"
	"github.com/ampere-ops/payplan/internal/domain"
	"github.com/shopspring/decimal"
)

// Options bounds the reverse search
type Options struct {
	MaxResults    int   // plans returned after ranking
	MinTermMonths int   // shortest term tried
	MaxTermMonths int   // longest term tried
	Frequencies   []int // months between installments
}

// DefaultOptions returns the standard sweep: 3 to 60 months, monthly,
// bimonthly and quarterly, top 10 plans
func DefaultOptions() Options {
	return Options{
		MaxResults:    10,
		MinTermMonths: 3,
		MaxTermMonths: 60,
		Frequencies:   []int{1, 2, 3},
	}
}

// Validate checks if the options are internally consistent
func (o Options) Validate() error {
	if o.MaxResults < 1 {
		return &SolverError{Operation: "validate_options", Message: "max_results must be at least 1"}
	}
	if o.MinTermMonths < 1 {
		return &SolverError{Operation: "validate_options", Message: "min_term_months must be at least 1"}
	}
	if o.MaxTermMonths < o.MinTermMonths {
		return &SolverError{Operation: "validate_options", Message: "max_term_months cannot be below min_term_months"}
	}
	if len(o.Frequencies) == 0 {
		return &SolverError{Operation: "validate_options", Message: "at least one frequency is required"}
	}
	for _, f := range o.Frequencies {
		if f < 1 || f > 3 {
			return &SolverError{Operation: "validate_options", Message: "frequencies must be 1, 2 or 3"}
		}
	}
	return nil
}

// TermGrid lists the terms swept: every month below 12, every other month
// up to 24 and every third month beyond
func TermGrid(o Options) []int {
	var terms []int
	for t := o.MinTermMonths; t <= o.MaxTermMonths; t += termStep(t) {
		terms = append(terms, t)
	}
	return terms
}

func termStep(term int) int {
	switch {
	case term < 12:
		return 1
	case term < 24:
		return 2
	default:
		return 3
	}
}

// ReinforcementProfile is one menu entry of extra payments, each worth
// CapShare times the installment cap
type ReinforcementProfile struct {
	ID       string
	Months   []int
	CapShare decimal.Decimal
}

// DefaultProfiles returns the fixed reinforcement menu. The first profile
// carries no reinforcement.
func DefaultProfiles() []ReinforcementProfile {
	return []ReinforcementProfile{
		{ID: "sem-reforco", CapShare: decimal.Zero},
		{ID: "reforco-50", Months: []int{6}, CapShare: decimal.RequireFromString("0.5")},
		{ID: "reforco-100", Months: []int{6, 12}, CapShare: decimal.NewFromInt(1)},
		{ID: "reforco-150", Months: []int{6, 12}, CapShare: decimal.RequireFromString("1.5")},
	}
}

// Payments returns the profile's reinforcements falling within term
func (rp ReinforcementProfile) Payments(maxInstallment decimal.Decimal, term int) []domain.ReinforcementPayment {
	if rp.CapShare.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	return calculation.ReinforcementsInTerm(maxInstallment.Mul(rp.CapShare), rp.Months, term)
}

// SolverError represents errors from the reverse solver
type SolverError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *SolverError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *SolverError) Unwrap() error {
	return e.Cause
}
