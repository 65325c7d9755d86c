package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is matched by every InputError through errors.Is
var ErrInvalidInput = errors.New("invalid input")

// InputError reports a SimulationInput that violates the engine's contract
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Message)
}

// Is lets callers test with errors.Is(err, ErrInvalidInput)
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func sliceField(i int, name string) string {
	return fmt.Sprintf("entry_slices[%d].%s", i, name)
}
