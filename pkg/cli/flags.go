package cli

import (
	"github.com/macbundle/macbundle/pkg/config"
	"github.com/macbundle/macbundle/pkg/xcode"
	"github.com/spf13/pflag"
)

// addRelocateFlags registers the flags that override configuration values.
func addRelocateFlags(fs *pflag.FlagSet) {
	fs.String("identity", "", "signing identity, overrides sign.identity")
	fs.Bool("no-sign", false, "do not sign copied libraries")
	fs.String("backend", "", "how references are read: otool or macho")
	fs.String("search-dir", "", "directory for dependencies recorded without a path")
}

// applyFlagOverrides copies explicitly set flags into cfg.
func applyFlagOverrides(cfg *config.Config, fs *pflag.FlagSet) {
	if fs.Changed("identity") {
		cfg.Sign.Identity, _ = fs.GetString("identity")
	}
	if fs.Changed("no-sign") {
		noSign, _ := fs.GetBool("no-sign")
		cfg.Sign.Disable = noSign
	}
	if fs.Changed("backend") {
		cfg.Inspect.Backend, _ = fs.GetString("backend")
	}
	if fs.Changed("search-dir") {
		cfg.Relocate.SearchDir, _ = fs.GetString("search-dir")
	}
}

// addProjectFlags registers the flags that read build settings from
// xcodebuild instead of the environment.
func addProjectFlags(fs *pflag.FlagSet) {
	fs.String("scheme", "", "read build settings for this scheme with xcodebuild")
	fs.String("project", "", "workspace or project for --scheme (default: detected in the working directory)")
	fs.String("configuration", "", "build configuration for --scheme")
}

// projectEnvironment loads build settings through xcodebuild when --scheme is
// set. It returns nil when the environment should be used instead.
func projectEnvironment(fs *pflag.FlagSet) (*xcode.Environment, error) {
	scheme, _ := fs.GetString("scheme")
	if scheme == "" {
		return nil, nil
	}

	q := xcode.SettingsQuery{Scheme: scheme}
	q.Configuration, _ = fs.GetString("configuration")

	var err error
	if path, _ := fs.GetString("project"); path != "" {
		q.Project, err = xcode.ProjectFromPath(path)
	} else {
		q.Project, err = xcode.DetectProject(".")
	}
	if err != nil {
		return nil, err
	}

	return xcode.LoadFromProject(q)
}
