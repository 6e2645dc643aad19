package pipe

import (
	"github.com/macbundle/macbundle/pkg/context"
)

// Piper defines the interface for all pipeline steps.
// Each pipe is one stage of relocation, executed in order by the pipeline.
type Piper interface {
	// String returns the pipe name for logging and identification.
	String() string

	// Run executes the pipe. A non-nil error aborts the pipeline unless it
	// is a SkipError created with pipe.Skip().
	Run(ctx *context.Context) error
}

// IsSkip indicates that a pipe was intentionally skipped.
type IsSkip interface {
	IsSkip() bool
}

// SkipError represents an intentional skip of a pipeline step.
// The pipeline logs it and carries on with the next pipe.
type SkipError struct {
	Reason string
}

func (e SkipError) Error() string { return e.Reason }
func (e SkipError) IsSkip() bool  { return true }

// Skip creates a new skip error with the given reason.
func Skip(reason string) SkipError {
	return SkipError{Reason: reason}
}
