package tube

import "errors"

// Errors returned by engine construction and processing.
var (
	// ErrInvalidGeometry reports a non-positive or non-finite length or area,
	// or a junction whose area sum leaves its reflection coefficient undefined.
	ErrInvalidGeometry = errors.New("tube: invalid geometry")
	// ErrInvalidParams reports out-of-range boundary, attenuation or rate settings.
	ErrInvalidParams = errors.New("tube: invalid parameters")
	// ErrNonFinite reports a NaN or Inf sample. Processing stops at the first one.
	ErrNonFinite = errors.New("tube: non-finite sample")
	// ErrInvalidBands reports an unusable frequency grid.
	ErrInvalidBands = errors.New("tube: invalid frequency bands")
)
