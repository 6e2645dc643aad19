package cli

import (
	"errors"

	"github.com/macbundle/macbundle/pkg/buildnum"
	"github.com/macbundle/macbundle/pkg/xcode"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// bumpBuildCmd represents the bump-build command
var bumpBuildCmd = &cobra.Command{
	Use:   "bump-build <buildnum.ver> <Info.plist> [Info.plist...]",
	Short: "Increment the build number and write it into Info.plist files",
	Long: `Increment the build number in the version file when any file in the
version file's directory tree was modified after it, then write the version
and build number into each Info.plist as CFBundleShortVersionString and
CFBundleVersion. Does nothing for ACTION=clean.`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		logger := SetupLogger(GetDebugMode())
		if err := runBumpBuild(logger, xcode.CurrentAction(), args[0], args[1:]); err != nil {
			ExitWithErrorf(logger, "Build number update failed: %v", err)
		}
	},
}

func runBumpBuild(logger *logrus.Logger, action, versionFile string, plists []string) error {
	if action == "clean" {
		logger.Debug("Nothing to do for clean")
		return nil
	}

	result, err := buildnum.Bump(versionFile)
	if err != nil {
		return err
	}
	if result.Bumped {
		logger.WithField("changed", result.Trigger).Infof("Build number incremented to %d", result.Version.Build)
	} else {
		logger.Debugf("No changes since build %d", result.Version.Build)
	}

	for _, path := range plists {
		err := buildnum.UpdatePlist(path, result.Version)
		if errors.Is(err, buildnum.ErrPlistMissing) {
			logger.Warnf("%s does not exist, skipping", path)
			continue
		}
		if err != nil {
			return err
		}
		logger.Infof("Updated %s to %s", path, result.Version)
	}
	return nil
}
