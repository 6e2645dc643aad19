package cli

import (
	"os"

	"github.com/macbundle/macbundle/pkg/config"
	"github.com/spf13/cobra"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate example macbundle configuration",
	Long: `Generate an example .macbundle.yaml configuration file in the current directory.
Every setting is optional; the file lists the defaults with a few example values.`,
	Run: runInit,
}

// runInit executes the init command
func runInit(cmd *cobra.Command, args []string) {
	logger := SetupLogger(GetDebugMode())
	configPath := config.DefaultPath

	// Check if config file already exists
	if _, err := os.Stat(configPath); err == nil {
		logger.Infof("Configuration file %s already exists", configPath)
		os.Exit(0)
	}

	if err := config.SaveConfig(configPath, config.ExampleConfig()); err != nil {
		ExitWithErrorf(logger, "Failed to save configuration: %v", err)
	}

	logger.Infof("Example configuration created: %s", configPath)
	logger.Info("Set MACBUNDLE_SIGN_IDENTITY or edit sign.identity to choose the signing identity")
}
