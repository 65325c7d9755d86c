package reverse

import (
	"context"
	"fmt"
	"sort"

	"github.com/ampere-ops/payplan/internal/calculation"
	"github.com/ampere-ops/payplan/internal/domain"
	"github.com/shopspring/decimal"
)

// Solver searches for plans whose installment fits a client-stated ceiling
type Solver struct {
	Logger  calculation.Logger
	Options Options
}

// NewSolver creates a new reverse solver
func NewSolver(logger calculation.Logger, options Options) *Solver {
	if logger == nil {
		logger = calculation.NopLogger{}
	}
	return &Solver{
		Logger:  logger,
		Options: options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(logger calculation.Logger) *Solver {
	return NewSolver(logger, DefaultOptions())
}

// Solve sweeps term x frequency x reinforcement profile for the selected
// index. Candidates whose installment exceeds the cap or whose margin falls
// below the minimum are excluded. The survivors are scored and the best
// Options.MaxResults are returned in non-increasing score order, tagged.
// A disabled reverse config or a non-positive cap yields an empty list.
func (s *Solver) Solve(ctx context.Context, in domain.SimulationInput) ([]domain.Condition, error) {
	if err := s.Options.Validate(); err != nil {
		return nil, err
	}

	cfg := in.Reverse
	if !cfg.Enabled || cfg.MaxInstallment.LessThanOrEqual(decimal.Zero) {
		return []domain.Condition{}, nil
	}

	p, err := calculation.NewPricing(in)
	if err != nil {
		return nil, &SolverError{
			Operation: "solve",
			Message:   "invalid simulation input",
			Cause:     err,
		}
	}

	principal := p.BasePrice.Sub(cfg.AvailableEntry)
	if principal.LessThanOrEqual(decimal.Zero) {
		s.logger().Infof("reverse: available entry %s covers the base price", cfg.AvailableEntry.StringFixed(2))
		return []domain.Condition{}, nil
	}

	profiles := DefaultProfiles()
	if !cfg.AllowReinforcements {
		profiles = profiles[:1]
	}

	var candidates []domain.Condition
	iterations := 0
	for _, term := range TermGrid(s.Options) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		for _, freq := range s.Options.Frequencies {
			if term%freq != 0 {
				continue
			}
			periods := term / freq
			rate := calculation.PeriodRate(p.BaseRate, freq)
			installment := calculation.Pmt(rate, periods, principal)
			if installment.LessThanOrEqual(decimal.Zero) || installment.GreaterThan(cfg.MaxInstallment) {
				continue
			}

			for _, profile := range profiles {
				iterations++
				reinforcements := profile.Payments(cfg.MaxInstallment, term)
				if len(profile.Months) > 0 && len(reinforcements) == 0 {
					continue
				}

				c := p.ScheduledPlan(calculation.PlanSpec{
					ID:             fmt.Sprintf("reverso-%dm-%dx-%s", term, freq, profile.ID),
					Category:       domain.CategoryCapacitySolved,
					Label:          fmt.Sprintf("%d parcelas a cada %d mês(es)", periods, freq),
					Description:    describe(periods, freq, installment, reinforcements),
					Entry:          cfg.AvailableEntry,
					EntryNet:       cfg.AvailableEntry,
					Installment:    installment,
					Installments:   periods,
					Frequency:      freq,
					RatePct:        rate,
					Financed:       principal,
					Reinforcements: reinforcements,
				})
				if c.EffectiveMargin.LessThan(in.MinMarginPct) {
					continue
				}
				candidates = append(candidates, c)
			}
		}
	}
	s.logger().Debugf("reverse: %d combinations evaluated, %d candidates kept", iterations, len(candidates))

	if len(candidates) == 0 {
		return []domain.Condition{}, nil
	}

	scored := calculation.AnnotateBatch(candidates, scoringContext(in))
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].BilateralScore.ScoreTotal > scored[j].BilateralScore.ScoreTotal
	})
	if len(scored) > s.Options.MaxResults {
		scored = scored[:s.Options.MaxResults]
	}
	return calculation.AssignTags(scored), nil
}

func (s *Solver) logger() calculation.Logger {
	if s.Logger == nil {
		return calculation.NopLogger{}
	}
	return s.Logger
}

// scoringContext scores reverse candidates against the reverse cap and entry
func scoringContext(in domain.SimulationInput) calculation.ScoringContext {
	sc := calculation.NewScoringContext(in)
	sc.MonthlyBudget = in.Reverse.MaxInstallment
	sc.AvailableEntry = in.Reverse.AvailableEntry
	return sc
}

func describe(periods, freq int, installment decimal.Decimal, reinforcements []domain.ReinforcementPayment) string {
	text := fmt.Sprintf("%d parcelas de %s a cada %d mês(es)", periods, installment.StringFixed(2), freq)
	if len(reinforcements) > 0 {
		text += fmt.Sprintf(" com %d reforço(s) de %s", len(reinforcements), reinforcements[0].Value.StringFixed(2))
	}
	return text
}
