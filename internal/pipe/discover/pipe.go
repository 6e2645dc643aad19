package discover

import (
	"fmt"

	"github.com/macbundle/macbundle/pkg/context"
)

// Pipe walks the dependency graph of the bundle's executable.
type Pipe struct{}

func (Pipe) String() string { return "examining executable" }

func (Pipe) Run(ctx *context.Context) error {
	if ctx.Relocator == nil {
		return fmt.Errorf("no relocation state — ensure the environment check completed successfully")
	}

	if err := ctx.Relocator.Examine(ctx.Env.Executable()); err != nil {
		return err
	}

	copied := ctx.Relocator.Copied()
	ctx.Logger.WithField("external", len(ctx.Relocator.External())).
		Infof("%d libraries in bundle", len(copied))
	return nil
}
