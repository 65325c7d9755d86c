package calculation

import (
	"context"

	"github.com/ampere-ops/payplan/internal/domain"
)

// Engine synthesizes the catalog of commercial conditions for one input
type Engine struct {
	Logger       Logger
	Readjustment ReadjustmentPolicy // applied between 12-month blocks of long plans
}

// NewEngine creates an engine with the legacy readjustment rule and no logging
func NewEngine() *Engine {
	return &Engine{
		Logger:       NopLogger{},
		Readjustment: DefaultReadjustment,
	}
}

// SetLogger sets the engine logger; nil restores the no-op logger
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	e.Logger = l
}

func (e *Engine) logger() Logger {
	if e.Logger == nil {
		return NopLogger{}
	}
	return e.Logger
}

func (e *Engine) readjustment() ReadjustmentPolicy {
	if e.Readjustment == nil {
		return DefaultReadjustment
	}
	return e.Readjustment
}

type planFamily struct {
	name  string
	build func(Pricing) []domain.Condition
}

// Simulate builds every plan family in order, drops plans below the minimum
// margin and returns the batch annotated with sensitivity, scores and tags.
// An empty result is valid; only contract violations return an error.
func (e *Engine) Simulate(ctx context.Context, in domain.SimulationInput) ([]domain.Condition, error) {
	p, err := NewPricing(in)
	if err != nil {
		return nil, err
	}
	e.logger().Debugf("simulate: total cost %s, base price %s, base rate %s%%",
		p.TotalCost.StringFixed(2), p.BasePrice.StringFixed(2), p.BaseRate.String())

	families := []planFamily{
		{"full-payment", e.fullPaymentPlans},
		{"entry-installments", e.entryInstallmentPlans},
		{"table", e.tablePlans},
		{"leasing", e.leasingPlans},
		{"custom", e.customPlans},
		{"anticipation", e.anticipationBlendPlans},
		{"capacity", e.capacityPlans},
	}

	var plans []domain.Condition
	for _, family := range families {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		built := family.build(p)
		e.logger().Debugf("simulate: %s produced %d plans", family.name, len(built))
		plans = append(plans, built...)
	}

	kept := FilterByMargin(plans, in.MinMarginPct)
	if dropped := len(plans) - len(kept); dropped > 0 {
		e.logger().Infof("simulate: %d plans below the %s%% minimum margin dropped", dropped, in.MinMarginPct.String())
	}

	return AnnotateBatch(kept, NewScoringContext(in)), nil
}
