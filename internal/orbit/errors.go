package orbit

import (
	"errors"
	"fmt"
)

// Domain errors for propagation operations.
var (
	// ErrInvalidElements indicates an element set that cannot describe a bound orbit.
	ErrInvalidElements = errors.New("orbit: invalid orbital elements")

	// ErrDivergence indicates the Kepler solve did not converge.
	ErrDivergence = errors.New("orbit: kepler solver did not converge")

	// ErrNotInitialized indicates propagation was requested before Initialize.
	ErrNotInitialized = errors.New("orbit: body not initialized")

	// ErrDuplicateBody indicates a body name is already taken.
	ErrDuplicateBody = errors.New("orbit: duplicate body name")

	// ErrUnknownBody indicates a lookup for a body that does not exist.
	ErrUnknownBody = errors.New("orbit: unknown body")
)

// DivergenceError carries the inputs of a Kepler solve that failed to converge.
type DivergenceError struct {
	MeanAnomaly  float64
	Eccentricity float64
	Iterations   int
	LastStep     float64
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("orbit: kepler solver did not converge after %d iterations (M=%.6f, e=%.6f, last step %.3e)",
		e.Iterations, e.MeanAnomaly, e.Eccentricity, e.LastStep)
}

func (e *DivergenceError) Unwrap() error {
	return ErrDivergence
}

// BodyError wraps an error with the body it happened on.
type BodyError struct {
	Body    string
	Time    float64
	Wrapped error
}

func (e *BodyError) Error() string {
	return fmt.Sprintf("%s (t=%.1fs): %v", e.Body, e.Time, e.Wrapped)
}

func (e *BodyError) Unwrap() error {
	return e.Wrapped
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidElements, fmt.Sprintf(format, args...))
}
