// Package pipeline executes all registered pipes in sequence.
//
// The pipeline runs pipes in stages:
//   - Validation stage: checks configuration and reads the build environment
//   - Execution stage: copies, rewrites and signs libraries
//
// Usage:
//
//	ctx := context.NewContext(context.Background(), cfg, logger)
//	if err := pipeline.RunValidation(ctx); err != nil {
//	    // Handle validation error
//	}
//	if err := pipeline.RunAll(ctx); err != nil {
//	    // Handle error
//	}
package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/macbundle/macbundle/pkg/context"
	"github.com/macbundle/macbundle/pkg/pipe"
)

// RunValidation executes only the validation pipes.
// Used by the check command.
func RunValidation(ctx *context.Context) error {
	return runPipes(ctx, pipe.ValidationPipes)
}

// RunExecution executes only the execution pipes.
// Should be called after RunValidation succeeds.
func RunExecution(ctx *context.Context) error {
	return runPipes(ctx, pipe.ExecutionPipes)
}

// RunAll executes validation pipes first, then execution pipes.
// Used by the copy-dylibs command.
func RunAll(ctx *context.Context) error {
	if err := RunValidation(ctx); err != nil {
		return err
	}
	return RunExecution(ctx)
}

// runPipes executes a slice of pipes in sequence. The first failure aborts;
// files already copied stay in place.
func runPipes(ctx *context.Context, pipes []Piper) error {
	for _, p := range pipes {
		if err := ctx.Err(); err != nil {
			return err
		}

		ctx.Logger.WithField("action", p.String()).Info("")
		start := time.Now()

		if err := p.Run(ctx); err != nil {
			if isSkip(err) {
				ctx.Logger.Infof("skipped: %v", err)
				continue
			}
			return fmt.Errorf("%s: %w", p.String(), err)
		}

		ctx.Logger.Debugf("Completed: %s (%s)", p.String(), time.Since(start).Round(time.Millisecond))
	}
	return nil
}

func isSkip(err error) bool {
	var s pipe.IsSkip
	return errors.As(err, &s) && s.IsSkip()
}

// Piper is re-exported for convenience within the pipeline package.
type Piper = pipe.Piper
