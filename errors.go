package anf

import "errors"

// Sentinel errors for input validation. All validation failures wrap one
// of these, so callers can classify them with errors.Is.
var (
	// ErrShapeMismatch is returned when input matrices are non-square or
	// views disagree on dimension.
	ErrShapeMismatch = errors.New("anf: shape mismatch")

	// ErrInvalidParameter is returned when a parameter is out of range:
	// K or k outside its valid interval, negative or all-zero weight or
	// alpha vectors, or an unsupported fusion mode.
	ErrInvalidParameter = errors.New("anf: invalid parameter")
)
