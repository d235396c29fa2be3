package occupancy

import (
	"errors"
	"fmt"
)

// Sentinel causes for malformed occupancy sources. They are always wrapped in
// a MalformedInputError so callers can match either the category or the
// specific cause with errors.Is / errors.As.
var (
	// ErrChronologicalOrder marks an interval starting after the current
	// grid point without covering it.
	ErrChronologicalOrder = errors.New("time intervals not in chronological order")
	// ErrNegativeDuration marks an interval whose end precedes its start.
	ErrNegativeDuration = errors.New("negative interval duration")
	// ErrStepSizeExceeded marks an interval longer than the scenario step.
	ErrStepSizeExceeded = errors.New("interval duration exceeds scenario step size")
	// ErrOddRowCount marks a source whose final record is missing its
	// second row.
	ErrOddRowCount = errors.New("odd number of rows, record pair incomplete")
	// ErrVertexCountMismatch marks a record whose two rows carry a
	// different number of coordinates.
	ErrVertexCountMismatch = errors.New("vertex count differs between record rows")
)

// MalformedInputError reports a fatal defect in an occupancy source. Row is
// the 1-based number of the first row of the offending record, or 0 when the
// defect concerns the source as a whole.
type MalformedInputError struct {
	Row int
	Err error
}

func (e *MalformedInputError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("malformed occupancy source: %v", e.Err)
	}
	return fmt.Sprintf("malformed occupancy source at row %d: %v", e.Row, e.Err)
}

func (e *MalformedInputError) Unwrap() error { return e.Err }

func malformed(row int, err error) error {
	return &MalformedInputError{Row: row, Err: err}
}
