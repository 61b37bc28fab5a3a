package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a NaN or Inf appeared in a particle buffer.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrNotSetup indicates a run was requested before its system was built.
	ErrNotSetup = errors.New("dynamo: experiment not setup")

	// ErrNoData indicates a stored run has no frames.
	ErrNoData = errors.New("dynamo: no frame data")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Frame   int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f): %v", e.Frame, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

// BoundsError reports which parameter failed validation. It matches
// ErrParameterBounds with errors.Is.
func BoundsError(name string, value float64, want string) error {
	return fmt.Errorf("%w: %s=%g, want %s", ErrParameterBounds, name, value, want)
}
