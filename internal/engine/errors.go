package engine

import (
	"errors"
	"fmt"
)

// Domain errors for engine operations.
var (
	// ErrAllocation indicates the column buffers could not be obtained.
	ErrAllocation = errors.New("engine: column buffer allocation failed")

	// ErrInvalidOptions indicates option values outside their valid ranges.
	ErrInvalidOptions = errors.New("engine: invalid options")

	// ErrNoAtlas indicates a retile without a glyph atlas.
	ErrNoAtlas = errors.New("engine: retile without glyph atlas")
)

// LayoutError wraps an error with the layout that was being allocated.
type LayoutError struct {
	Columns      int
	BufferHeight int
	Bytes        int
	Wrapped      error
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("%s (%d columns x %d rows, %d bytes)", e.Wrapped.Error(), e.Columns, e.BufferHeight, e.Bytes)
}

func (e *LayoutError) Unwrap() error {
	return e.Wrapped
}
