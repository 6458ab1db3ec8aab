package sitelayout

import "fmt"

var (
	// ErrInvalidInput marks requests we reject outright - bad boundary
	// geometry, entry outside the site, impossible dimensions. These
	// never produce a partial result.
	ErrInvalidInput = fmt.Errorf("invalid input")

	// ErrNumerical marks interpolation or surface failures (degenerate
	// sample sets and the like). Also fatal for the run.
	ErrNumerical = fmt.Errorf("numerical failure")
)

// Unsatisfied requirement reasons. Stable strings so callers can match
// on them.
const (
	ReasonNoArea          = "insufficient unconstrained area"
	ReasonSpacingExhausted = "spacing exhausted candidates"
)

// invalidf wraps a formatted message with ErrInvalidInput.
func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidInput}, args...)...)
}

// numericalf wraps a formatted message with ErrNumerical.
func numericalf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrNumerical}, args...)...)
}
