package satelles

import (
	"fmt"
)

// FormatError is returned when input text does not have the overall shape of
// the format being parsed (wrong line count, wrong line length, wrong line
// number, mismatched catalog numbers between lines).
type FormatError struct {
	Line   int // 1-based line number within the record, 0 when not line-specific
	Reason string
}

// Error returns the error message for FormatError.
func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed record: line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("malformed record: %s", e.Reason)
}

// FieldParseError is returned when a single field of an otherwise well-formed
// record fails numeric parsing. It names the field and carries the raw
// substring so the caller can see exactly what was rejected.
type FieldParseError struct {
	Line  int    // 1-based line number within the record
	Field string // e.g. "inclination"
	Raw   string // the raw substring that failed to parse
	Err   error  // underlying parse error, if any
}

// Error returns the error message for FieldParseError.
func (e *FieldParseError) Error() string {
	return fmt.Sprintf("line %d: invalid %s (%q): %v", e.Line, e.Field, e.Raw, e.Err)
}

// Unwrap returns the underlying parse error.
func (e *FieldParseError) Unwrap() error { return e.Err }

// ChecksumError is returned when a TLE line's trailing modulo-10 checksum
// digit does not match the digit computed from the line content.
type ChecksumError struct {
	Line int // 1-based line number within the record
	Want int // checksum digit carried by the line
	Got  int // checksum computed from the line content
}

// Error returns the error message for ChecksumError.
func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum mismatch in line %d: line carries %d, computed %d", e.Line, e.Want, e.Got)
}

// MissingFieldError is returned by the OMM decoder when a mandatory CCSDS
// field is absent from the input mapping.
type MissingFieldError struct {
	Field string
}

// Error returns the error message for MissingFieldError.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("OMM: missing mandatory field %s", e.Field)
}

// ValidationError is returned when a decoded field is present but violates a
// unit or range constraint.
type ValidationError struct {
	Field  string
	Value  string
	Reason string // expected range or unit
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s (%q): %s", e.Field, e.Value, e.Reason)
}

// DegenerateOrbitReason names the physical condition that makes an orbit
// unusable for the analytic model.
type DegenerateOrbitReason string

const (
	ReasonEccentricityOutOfRange DegenerateOrbitReason = "eccentricity out of [0, 1)"
	ReasonMeanMotionNonPositive  DegenerateOrbitReason = "mean motion not positive"
	ReasonPerigeeBelowSurface    DegenerateOrbitReason = "recovered perigee at or below Earth's surface"
	ReasonPerturbedEccentricity  DegenerateOrbitReason = "perturbed eccentricity out of [0, 1)"
	ReasonSemiLatusRectum        DegenerateOrbitReason = "semi-latus rectum not positive"
	ReasonSatelliteDecayed       DegenerateOrbitReason = "satellite has decayed (radius below 1 Earth radius)"
)

// DegenerateOrbitError is returned when the recovered or propagated orbit is
// physically invalid: a decayed or hyperbolic orbit is a property of the input
// data, not a transient condition, and is reported rather than clamped.
type DegenerateOrbitError struct {
	Reason DegenerateOrbitReason
	Value  float64 // the offending value (eccentricity, radius in ER, ...)
	Tsince float64 // minutes since epoch when detected; 0 at initialization
}

// Error returns the error message for DegenerateOrbitError.
func (e *DegenerateOrbitError) Error() string {
	return fmt.Sprintf("degenerate orbit at tsince %.2f min: %s (value %.6e)", e.Tsince, e.Reason, e.Value)
}

// KeplerConvergenceError is returned when the fixed-point solution of
// Kepler's equation fails to reach tolerance within the iteration cap. This
// indicates genuinely degenerate input; the solver never loops unboundedly.
type KeplerConvergenceError struct {
	Iterations int
	Residual   float64
	Tsince     float64 // minutes since epoch, 0 for the standalone helper
}

// Error returns the error message for KeplerConvergenceError.
func (e *KeplerConvergenceError) Error() string {
	return fmt.Sprintf("Kepler solver did not converge after %d iterations (residual %.3e, tsince %.2f min)", e.Iterations, e.Residual, e.Tsince)
}

// NotInitializedError is returned when Propagate is called on a Propagator
// that was not built by NewPropagator. This is a programming error, not a
// data error.
type NotInitializedError struct{}

// Error returns the error message for NotInitializedError.
func (e *NotInitializedError) Error() string {
	return "propagator not initialized: construct it with NewPropagator"
}
