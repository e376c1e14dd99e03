package qa

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors. The typed errors below match them through errors.Is.
var (
	ErrDataConflict    = errors.New("duplicate timestamps with conflicting values")
	ErrSchemaMismatch  = errors.New("datasets share no variables")
	ErrEmptyDataset    = errors.New("dataset has no samples")
	ErrInvalidInterval = errors.New("sampling interval must be positive")
	ErrGridTooLarge    = errors.New("regular time grid exceeds the sample limit")
)

const conflictTimeLayout = "2006-01-02 15:04:05"

// DataConflictError lists every timestamp that occurs more than once with different values.
// The dataset cannot be certified until the source file is edited.
type DataConflictError struct {
	Timestamps []time.Time
}

// Error implements the error interface
func (e *DataConflictError) Error() string {
	parts := make([]string, len(e.Timestamps))
	for i, ts := range e.Timestamps {
		parts[i] = ts.Format(conflictTimeLayout)
	}
	return fmt.Sprintf("repeated timestamp with conflicting values at %s; do not save", strings.Join(parts, ", "))
}

// Is implements errors.Is support
func (e *DataConflictError) Is(target error) bool {
	return target == ErrDataConflict
}

// SchemaMismatchError is returned when two files to be combined have no variable in common.
// They are most likely from different stations.
type SchemaMismatchError struct {
	BaseVariables []string
	NewVariables  []string
}

// Error implements the error interface
func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("the two files are not compatible: their variable lists (%d and %d columns) have nothing in common",
		len(e.BaseVariables), len(e.NewVariables))
}

// Is implements errors.Is support
func (e *SchemaMismatchError) Is(target error) bool {
	return target == ErrSchemaMismatch
}
