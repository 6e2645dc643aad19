package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"time"

	"github.com/macbundle/macbundle/pkg/config"
	macContext "github.com/macbundle/macbundle/pkg/context"
	"github.com/macbundle/macbundle/pkg/pipeline"
	"github.com/macbundle/macbundle/pkg/version"
	"github.com/macbundle/macbundle/pkg/xcode"
	"github.com/spf13/cobra"
)

// copyDylibsCmd represents the copy-dylibs command
var copyDylibsCmd = &cobra.Command{
	Use:   "copy-dylibs [dylib...]",
	Short: "Copy linked libraries into the app bundle",
	Long: `Copy every shared library the app's executable links against, and that
is not under a trusted system location, into the bundle's Frameworks folder.
Install names are rewritten to @rpath and the copies are signed when the
build allows code signing.

Extra libraries given as arguments are copied too, for libraries loaded at
runtime. Run from a Run Script phase after the link step; ACTION,
TARGET_BUILD_DIR, FRAMEWORKS_FOLDER_PATH and EXECUTABLE_PATH are read from
the environment. Outside Xcode, --scheme reads them from xcodebuild.`,
	Run: runCopyDylibs,
}

// runCopyDylibs executes the copy-dylibs command
func runCopyDylibs(cmd *cobra.Command, args []string) {
	start := time.Now()
	logger := SetupLogger(GetDebugMode())
	cfg := loadConfig(logger, cmd.Flags())

	stdCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ctx := macContext.NewContext(stdCtx, cfg, logger)
	ctx.Libraries = args

	ran, err := copyDylibs(ctx, xcode.CurrentAction(), func() (*xcode.Environment, error) {
		return projectEnvironment(cmd.Flags())
	})
	if err != nil {
		stop()
		ExitWithErrorf(logger, "Relocation failed: %v", err)
	}
	if ran {
		logger.Infof("Relocation succeeded after %s", formatDuration(time.Since(start)))
	}
}

// copyDylibs runs the relocation pipeline when action is enabled in the
// configuration. It reports whether the pipeline ran.
func copyDylibs(ctx *macContext.Context, action string, loadEnv func() (*xcode.Environment, error)) (bool, error) {
	if !actionEnabled(ctx.Config, action) {
		ctx.Logger.Debugf("Nothing to do for action %q", action)
		return false, nil
	}

	ctx.Logger.Debug(version.ShortVersion())

	env, err := loadEnv()
	if err != nil {
		return true, fmt.Errorf("failed to read build settings: %w", err)
	}
	ctx.Env = env

	return true, pipeline.RunAll(ctx)
}

// actionEnabled reports whether relocation runs for the Xcode build action.
func actionEnabled(cfg *config.Config, action string) bool {
	return slices.Contains(cfg.Relocate.Actions, action)
}
