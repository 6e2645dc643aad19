package sign

import (
	"github.com/macbundle/macbundle/pkg/context"
	"github.com/macbundle/macbundle/pkg/env"
)

// CheckPipe validates signing configuration
type CheckPipe struct{}

func (CheckPipe) String() string { return "validating signing configuration" }

func (CheckPipe) Run(ctx *context.Context) error {
	cfg := ctx.Config.Sign

	if cfg.Disable {
		return skipError("signing disabled in configuration")
	}

	if err := env.CheckResolved(cfg.Identity, "sign.identity"); err != nil {
		return err
	}

	ctx.Logger.Debug("Signing configuration validated successfully")
	return nil
}

type skipError string

func (e skipError) Error() string { return string(e) }
func (e skipError) IsSkip() bool  { return true }
