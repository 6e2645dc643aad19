package relocate

import (
	"fmt"
	"strings"

	"github.com/macbundle/macbundle/pkg/config"
	"github.com/macbundle/macbundle/pkg/context"
	"github.com/macbundle/macbundle/pkg/env"
	"github.com/macbundle/macbundle/pkg/validate"
	"github.com/macbundle/macbundle/pkg/xcode"
)

// CheckPipe validates relocation and inspection configuration
type CheckPipe struct{}

func (CheckPipe) String() string { return "validating relocation configuration" }

func (CheckPipe) Run(ctx *context.Context) error {
	cfg := ctx.Config.Relocate

	if err := validate.RequiredSlice(cfg.Actions, "relocate.actions"); err != nil {
		return err
	}
	if err := validate.AllOneOf(cfg.Actions, xcode.Actions, "relocate.actions"); err != nil {
		return err
	}
	if err := validate.RequiredSlice(cfg.TrustedPrefixes, "relocate.trusted_prefixes"); err != nil {
		return err
	}
	for i, prefix := range cfg.TrustedPrefixes {
		field := fmt.Sprintf("relocate.trusted_prefixes[%d]", i)
		if err := env.CheckResolved(prefix, field); err != nil {
			return err
		}
		if err := validate.RequiredString(prefix, field); err != nil {
			return err
		}
	}

	if err := env.CheckResolved(cfg.Token, "relocate.token"); err != nil {
		return err
	}
	if err := validate.RequiredString(cfg.Token, "relocate.token"); err != nil {
		return err
	}
	if !strings.HasPrefix(cfg.Token, "@") {
		ctx.Logger.Warnf("relocate.token %q is not a loader token such as @rpath; relocated libraries will only load from that absolute path", cfg.Token)
	}

	if err := env.CheckResolved(cfg.SearchDir, "relocate.search_dir"); err != nil {
		return err
	}
	if _, err := cfg.Mode(); err != nil {
		return err
	}
	if err := validate.OneOf(ctx.Config.Inspect.Backend, config.Backends, "inspect.backend"); err != nil {
		return err
	}

	ctx.Logger.Debug("Relocation configuration validated successfully")
	return nil
}
