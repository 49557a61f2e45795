package entities

import (
	"errors"
	"fmt"
)

// Canonical validation reasons.
const (
	ReasonLengthMismatch      = "length mismatch"
	ReasonInsufficientSamples = "insufficient samples"
	ReasonNonPositiveEnergy   = "non-positive energy"
	ReasonInvalidDiameter     = "invalid diameter"
	ReasonUnparsable          = "unparsable input"
	ReasonMissingColumns      = "missing columns"
	ReasonEmptyInput          = "empty input"
)

// Numeric failure reasons. ReasonNonFinite guards against overflow in the
// derived quantities, e.g. exp(-b/a) for a nearly flat line.
const (
	ReasonDegenerateFit = "degenerate fit: non-positive slope"
	ReasonNonFinite     = "non-finite result"
)

// Input field names used in Location.
const (
	FieldEnergy   = "energy"
	FieldDiameter = "diameter"
)

// Location pinpoints the offending input so it can be described in the
// user's language. Zero fields are unset.
type Location struct {
	Field  string // FieldEnergy or FieldDiameter
	Item   int    // 1-based position in a list or sample number
	Row    int    // 1-based table row
	Column int    // 1-based table column
	Text   string // Offending token, as entered
}

// ValidationError reports bad or missing input.
type ValidationError struct {
	Reason string
	Detail string    // Free-form English detail, e.g. "row 3, column 2"
	Loc    *Location // Optional structured form of Detail
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
}

// NewValidationError builds a ValidationError with a formatted detail.
func NewValidationError(reason, format string, args ...any) *ValidationError {
	return &ValidationError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// At attaches a structured location and returns e.
func (e *ValidationError) At(loc Location) *ValidationError {
	e.Loc = &loc
	return e
}

// NumericError reports a mathematically degenerate fit.
type NumericError struct {
	Reason string
}

func (e *NumericError) Error() string {
	return e.Reason
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNumeric reports whether err carries a NumericError.
func IsNumeric(err error) bool {
	var ne *NumericError
	return errors.As(err, &ne)
}
