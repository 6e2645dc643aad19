package sign

import (
	"fmt"

	"github.com/macbundle/macbundle/pkg/context"
	"github.com/macbundle/macbundle/pkg/sign"
)

// Pipe code-signs every library copied into the bundle.
type Pipe struct{}

func (Pipe) String() string { return "signing copied libraries" }

func (Pipe) Run(ctx *context.Context) error {
	if !ctx.SigningEnabled() {
		return skipError("code signing not allowed for this build")
	}
	if ctx.Relocator == nil {
		return fmt.Errorf("no relocation state — ensure the environment check completed successfully")
	}

	identity := ctx.SigningIdentity()
	if identity == "" {
		return skipError("no signing identity configured")
	}

	if ctx.Config.Sign.VerifyIdentity {
		ctx.Logger.Infof("Validating signing identity: %s", identity)
		if err := sign.CheckKeychain(identity); err != nil {
			return fmt.Errorf("identity validation failed: %w", err)
		}
	}

	if err := ctx.Relocator.Sign(); err != nil {
		return fmt.Errorf("signing failed: %w", err)
	}

	copied := ctx.Relocator.Copied()
	ctx.Logger.Infof("Signed %d libraries", len(copied))

	if !ctx.Config.Sign.Verify {
		return nil
	}
	v, ok := ctx.Tools.Signer.(verifier)
	if !ok {
		ctx.Logger.Warnf("Signer %T cannot verify signatures, skipping verification", ctx.Tools.Signer)
		return nil
	}
	for _, path := range copied {
		output, err := v.Verify(path)
		if output != "" {
			ctx.Logger.Debug(output)
		}
		if err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}
	}
	ctx.Logger.Infof("Verified %d signatures", len(copied))
	return nil
}

// verifier is implemented by signers that can check a signature they made.
type verifier interface {
	Verify(path string) (string, error)
}
