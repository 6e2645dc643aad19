package pipe

import (
	"github.com/macbundle/macbundle/internal/pipe/discover"
	"github.com/macbundle/macbundle/internal/pipe/environment"
	"github.com/macbundle/macbundle/internal/pipe/extra"
	"github.com/macbundle/macbundle/internal/pipe/prepare"
	"github.com/macbundle/macbundle/internal/pipe/relocate"
	"github.com/macbundle/macbundle/internal/pipe/rewrite"
	"github.com/macbundle/macbundle/internal/pipe/sign"
)

// ValidationPipes check configuration and the build environment. They run
// before anything on disk is touched.
var ValidationPipes = []Piper{
	relocate.CheckPipe{},    // Validate relocate and inspect config
	sign.CheckPipe{},        // Validate signing config
	environment.CheckPipe{}, // Read Xcode build settings
}

// ExecutionPipes relocate the libraries, run after validation succeeds.
var ExecutionPipes = []Piper{
	prepare.Pipe{},  // Create the frameworks dir or re-examine its libraries
	extra.Pipe{},    // Copy libraries named on the command line
	discover.Pipe{}, // Walk the executable's dependencies
	rewrite.Pipe{},  // Rewrite install names
	sign.Pipe{},     // Sign copied libraries
}
