package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/ampere-ops/payplan/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var validate = newValidator()

// newValidator registers decimal.Decimal as a numeric type so tags like
// gt=0 work on currency fields
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// InputParser handles parsing of simulation input files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a simulation input from a YAML file
func (ip *InputParser) LoadFromFile(filename string) (*domain.SimulationInput, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes a YAML document, applies defaults and validates the result.
// Unknown keys are rejected.
func (ip *InputParser) Parse(data []byte) (*domain.SimulationInput, error) {
	var in domain.SimulationInput

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&in); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse YAML: empty document")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	ApplyDefaults(&in)

	if err := ip.ValidateInput(&in); err != nil {
		return nil, fmt.Errorf("input validation failed: %w", err)
	}
	return &in, nil
}

// ApplyDefaults fills the optional fields an input file may leave out
func ApplyDefaults(in *domain.SimulationInput) {
	if in.ClientWeight == nil {
		w := domain.DefaultClientWeight
		in.ClientWeight = &w
	}
	if in.Index.Name == "" {
		in.Index.Name = domain.IndexCustom
	}
}

// ValidateInput runs the struct tag checks, the engine contract and the
// cross-field rules an input file must satisfy
func (ip *InputParser) ValidateInput(in *domain.SimulationInput) error {
	if err := validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &domain.InputError{
				Field:   fe.Namespace(),
				Message: fmt.Sprintf("failed '%s' check", fe.Tag()),
			}
		}
		return err
	}

	if err := in.Validate(); err != nil {
		return err
	}

	if in.MinMarginPct.LessThan(decimal.Zero) || in.MinMarginPct.GreaterThanOrEqual(decimal.NewFromInt(100)) {
		return &domain.InputError{Field: "min_margin_pct", Message: "must be in [0, 100)"}
	}
	if in.Reinforcement.Enabled {
		if in.Reinforcement.Value.LessThanOrEqual(decimal.Zero) {
			return &domain.InputError{Field: "reinforcement.value", Message: "must be positive when reinforcement is enabled"}
		}
		if len(in.Reinforcement.Months) == 0 {
			return &domain.InputError{Field: "reinforcement.months", Message: "required when reinforcement is enabled"}
		}
	}
	if in.Capacity.Enabled && in.Capacity.MaxInstallment.LessThanOrEqual(decimal.Zero) {
		return &domain.InputError{Field: "capacity.max_installment", Message: "must be positive when capacity is enabled"}
	}
	if in.Index.Name != domain.IndexCustom && !in.Index.CustomMonthlyRate.IsZero() {
		return &domain.InputError{Field: "index.custom_monthly_rate", Message: "only allowed with the custom index"}
	}
	return nil
}
