package cli

import (
	"context"

	macContext "github.com/macbundle/macbundle/pkg/context"
	"github.com/macbundle/macbundle/pkg/pipeline"
	"github.com/spf13/cobra"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate configuration and build settings",
	Long: `Validate the .macbundle.yaml configuration file and the Xcode build
settings copy-dylibs depends on. Nothing in the bundle is modified.`,
	Run: runCheck,
}

// runCheck executes the check command
func runCheck(cmd *cobra.Command, args []string) {
	logger := SetupLogger(GetDebugMode())
	cfg := loadConfig(logger, cmd.Flags())

	logger.Info("Configuration loaded successfully")

	ctx := macContext.NewContext(context.Background(), cfg, logger)

	env, err := projectEnvironment(cmd.Flags())
	if err != nil {
		ExitWithErrorf(logger, "Failed to read build settings: %v", err)
	}
	ctx.Env = env

	// Run validation pipeline only
	if err := pipeline.RunValidation(ctx); err != nil {
		ExitWithErrorf(logger, "Validation failed: %v", err)
	}

	logger.Info("Configuration is valid")
}
