package extra

import (
	"fmt"

	"github.com/macbundle/macbundle/pkg/context"
)

// Pipe copies the libraries named on the command line, which the executable
// may load at runtime without linking against them.
type Pipe struct{}

func (Pipe) String() string { return "copying extra libraries" }

func (Pipe) Run(ctx *context.Context) error {
	if len(ctx.Libraries) == 0 {
		return skipError("no extra libraries given")
	}
	if ctx.Relocator == nil {
		return fmt.Errorf("no relocation state — ensure the environment check completed successfully")
	}

	for _, lib := range ctx.Libraries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := ctx.Relocator.Copy(lib); err != nil {
			return err
		}
	}
	return nil
}

type skipError string

func (e skipError) Error() string { return string(e) }
func (e skipError) IsSkip() bool  { return true }
