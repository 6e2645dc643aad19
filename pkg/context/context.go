package context

import (
	"context"

	"github.com/macbundle/macbundle/pkg/config"
	"github.com/macbundle/macbundle/pkg/relocate"
	"github.com/macbundle/macbundle/pkg/xcode"
	"github.com/sirupsen/logrus"
)

// Context provides shared state for all pipes
type Context struct {
	StdCtx context.Context // Standard context for cancellation support
	Config *config.Config
	Logger *logrus.Logger

	// Env is the Xcode build environment, populated by the environment check.
	Env *xcode.Environment
	// Libraries are extra libraries named on the command line.
	Libraries []string
	// Tools are the external collaborators handed to the relocator.
	// Nil fields are filled from configuration by the environment check.
	Tools relocate.Tools
	// Relocator carries the copy-set and rewrite-plan across pipes.
	Relocator *relocate.Relocator
	// OutputExisted records whether the frameworks directory was present
	// before this run.
	OutputExisted bool
}

// NewContext creates a new context with the given standard context, config, and logger.
// If stdCtx is nil, context.Background() is used.
func NewContext(stdCtx context.Context, cfg *config.Config, logger *logrus.Logger) *Context {
	if stdCtx == nil {
		stdCtx = context.Background()
	}
	return &Context{
		StdCtx: stdCtx,
		Config: cfg,
		Logger: logger,
	}
}

// Done returns the done channel from the standard context for cancellation support
func (c *Context) Done() <-chan struct{} {
	return c.StdCtx.Done()
}

// Err returns the error from the standard context
func (c *Context) Err() error {
	return c.StdCtx.Err()
}

// SigningEnabled reports whether copied libraries should be signed: the
// build allows signing and configuration doesn't disable it.
func (c *Context) SigningEnabled() bool {
	return c.Env != nil && c.Env.SigningAllowed && !c.Config.Sign.Disable
}

// SigningIdentity returns the configured identity, falling back to the one
// Xcode resolved for the target.
func (c *Context) SigningIdentity() string {
	if c.Config.Sign.Identity != "" {
		return c.Config.Sign.Identity
	}
	if c.Env != nil {
		return c.Env.Identity
	}
	return ""
}
