package environment

import (
	"fmt"

	"github.com/macbundle/macbundle/pkg/context"
	"github.com/macbundle/macbundle/pkg/installname"
	"github.com/macbundle/macbundle/pkg/machoinfo"
	"github.com/macbundle/macbundle/pkg/otool"
	"github.com/macbundle/macbundle/pkg/relocate"
	"github.com/macbundle/macbundle/pkg/sign"
	"github.com/macbundle/macbundle/pkg/xcode"
)

// CheckPipe reads the Xcode build settings and prepares the relocator.
// Nothing on disk is touched.
type CheckPipe struct{}

func (CheckPipe) String() string { return "reading build environment" }

func (CheckPipe) Run(ctx *context.Context) error {
	if ctx.Env == nil {
		e, err := xcode.Load()
		if err != nil {
			return err
		}
		ctx.Env = e
	}

	ctx.Logger.WithField("executable", ctx.Env.ExecutablePath).Info("Build settings loaded")
	ctx.Logger.Debugf("Frameworks directory: %s", ctx.Env.FrameworksDir())

	if err := fillTools(ctx); err != nil {
		return err
	}

	mode, err := ctx.Config.Relocate.Mode()
	if err != nil {
		return err
	}

	ctx.Relocator = relocate.New(relocate.Options{
		OutputDir: ctx.Env.FrameworksDir(),
		Token:     ctx.Config.Relocate.Token,
		Trusted:   ctx.Config.Relocate.TrustedPrefixes,
		SearchDir: ctx.Config.Relocate.SearchDir,
		FileMode:  mode,
	}, ctx.Tools, ctx.Logger)

	return nil
}

// fillTools selects the external tools for every collaborator not already set.
func fillTools(ctx *context.Context) error {
	if ctx.Tools.Inspector == nil {
		switch backend := ctx.Config.Inspect.Backend; backend {
		case "", "otool":
			ctx.Tools.Inspector = otool.Inspector{}
		case "macho":
			ctx.Tools.Inspector = machoinfo.Inspector{}
		default:
			return fmt.Errorf("unsupported inspect backend %q", backend)
		}
	}

	if ctx.Tools.Editor == nil {
		ctx.Tools.Editor = installname.Tool{}
	}

	if ctx.Tools.Signer == nil && ctx.SigningEnabled() {
		hardened := ctx.Env.HardenedRuntime
		if ctx.Config.Sign.HardenedRuntime != nil {
			hardened = *ctx.Config.Sign.HardenedRuntime
		}
		ctx.Tools.Signer = sign.Codesigner{Options: sign.Options{
			Identity:        ctx.SigningIdentity(),
			HardenedRuntime: hardened,
			Timestamp:       ctx.Config.Sign.Timestamp,
		}}
	}

	return nil
}
