package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/macbundle/macbundle/pkg/config"
	"github.com/macbundle/macbundle/pkg/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

// SetupLogger creates and configures a logger based on debug mode
func SetupLogger(debug bool) *logrus.Logger {
	logger := logrus.New()
	// Xcode shows a Run Script phase's stdout in the build log
	logger.SetOutput(os.Stdout)

	if debug {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logging.BulletFormatter{})
	}

	return logger
}

// loadConfig loads the configuration named by --config and applies flag
// overrides from fs, which may be nil.
func loadConfig(logger *logrus.Logger, fs *pflag.FlagSet) *config.Config {
	configPath, explicit := GetConfigPath()

	cfg, err := config.LoadOrDefault(configPath, explicit)
	if err != nil {
		ExitWithErrorf(logger, "Failed to load configuration: %v", err)
	}
	if fs != nil {
		applyFlagOverrides(cfg, fs)
	}
	return cfg
}

// ExitWithErrorf logs an error with the provided logger and exits with code 1
func ExitWithErrorf(logger *logrus.Logger, format string, args ...interface{}) {
	logger.Errorf(format, args...)
	os.Exit(1)
}

// formatDuration renders d the way goreleaser reports elapsed time:
// milliseconds below one second, otherwise whole minutes and seconds.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}

	d = d.Round(time.Second)
	minutes := int(d / time.Minute)
	seconds := int((d % time.Minute) / time.Second)

	switch {
	case minutes == 0:
		return fmt.Sprintf("%ds", seconds)
	case seconds == 0:
		return fmt.Sprintf("%dm", minutes)
	default:
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	}
}
