package lots

import (
	"errors"
	"fmt"
)

var (
	// ErrLoadFailure matches any error returned by a failed Load.
	ErrLoadFailure = errors.New("lots: load failed")

	// ErrNotLoaded is returned by view operations before a successful Load.
	ErrNotLoaded = errors.New("lots: data not loaded")

	// ErrAlreadyLoaded is returned by Load once the collection is populated.
	ErrAlreadyLoaded = errors.New("lots: data already loaded")

	// ErrEmptyExport is returned when exporting a view with no records.
	// It is an expected condition, not a failure.
	ErrEmptyExport = errors.New("lots: no data to export")
)

// LoadError describes a failed fetch from a Source. It matches ErrLoadFailure
// with errors.Is and unwraps to the underlying cause.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("lots: load failed: %v", e.Err)
	}
	return fmt.Sprintf("lots: load from %s failed: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Is reports whether target is ErrLoadFailure.
func (e *LoadError) Is(target error) bool { return target == ErrLoadFailure }
