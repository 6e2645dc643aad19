package cli

import (
	"fmt"
	"os"

	"github.com/macbundle/macbundle/pkg/config"
	"github.com/macbundle/macbundle/pkg/version"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "macbundle",
	Short:   "Make macOS app bundles self-contained",
	Version: version.VersionInfo(),
	Long: `macbundle runs from Xcode Run Script build phases. It copies the shared
libraries an app links against into the bundle, rewrites their install names
so they load from inside the bundle, signs the copies, and keeps the bundle
build number up to date.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := cmd.Help(); err != nil {
			fmt.Fprintf(os.Stderr, "Error displaying help: %v\n", err)
			os.Exit(1)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	registerCommands()
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	return rootCmd.Execute()
}

// registerCommands initializes flags and registers all subcommands
func registerCommands() {
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug mode")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(copyDylibsCmd)
	rootCmd.AddCommand(bumpBuildCmd)

	for _, cmd := range []*cobra.Command{copyDylibsCmd, checkCmd} {
		addRelocateFlags(cmd.Flags())
		addProjectFlags(cmd.Flags())
	}
}

// GetConfigPath returns the config file path from flags, and whether it was
// given explicitly.
func GetConfigPath() (string, bool) {
	flags := rootCmd.PersistentFlags()
	configPath, _ := flags.GetString("config")
	return configPath, flags.Changed("config")
}

// GetDebugMode returns debug mode flag value
func GetDebugMode() bool {
	debug, _ := rootCmd.PersistentFlags().GetBool("debug")
	return debug
}
