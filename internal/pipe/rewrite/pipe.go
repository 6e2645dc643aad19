package rewrite

import (
	"fmt"

	"github.com/macbundle/macbundle/pkg/context"
)

// Pipe applies the rewrite plan gathered during discovery.
type Pipe struct{}

func (Pipe) String() string { return "rewriting install names" }

func (Pipe) Run(ctx *context.Context) error {
	if ctx.Relocator == nil {
		return fmt.Errorf("no relocation state — ensure the environment check completed successfully")
	}

	files := ctx.Relocator.PlannedFiles()
	if len(files) == 0 {
		return skipError("nothing to rewrite")
	}

	if err := ctx.Relocator.Rewrite(); err != nil {
		return err
	}

	ctx.Logger.Infof("Rewrote references in %d files", len(files))
	return nil
}

type skipError string

func (e skipError) Error() string { return string(e) }
func (e skipError) IsSkip() bool  { return true }
