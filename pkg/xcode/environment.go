// Package xcode reads the build settings Xcode exports to Run Script phases.
package xcode

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xyproto/env/v2"
)

// Build setting names
const (
	Action                   = "ACTION"
	TargetBuildDir           = "TARGET_BUILD_DIR"
	FrameworksFolderPath     = "FRAMEWORKS_FOLDER_PATH"
	ExecutablePath           = "EXECUTABLE_PATH"
	CodeSigningAllowed       = "CODE_SIGNING_ALLOWED"
	ExpandedCodeSignIdentity = "EXPANDED_CODE_SIGN_IDENTITY"
	CodeSignIdentity         = "CODE_SIGN_IDENTITY"
	EnableHardenedRuntime    = "ENABLE_HARDENED_RUNTIME"
)

// DefaultAction is assumed when ACTION is unset, as when the script is run
// by hand outside Xcode.
const DefaultAction = "build"

// Actions are the values Xcode sets ACTION to.
var Actions = []string{"build", "install", "clean", "analyze", "archive", "test", "installhdrs", "installsrc", "installapi", "docbuild"}

// Environment holds the build settings relocation depends on.
type Environment struct {
	Action          string
	BuildDir        string
	FrameworksPath  string
	ExecutablePath  string
	SigningAllowed  bool
	Identity        string
	HardenedRuntime bool
}

// CurrentAction returns the ACTION build setting, or DefaultAction.
func CurrentAction() string {
	return env.Str(Action, DefaultAction)
}

// Load reads the build environment. Missing required settings are reported
// together in one error.
func Load() (*Environment, error) {
	// env caches the process environment on first use
	env.Load()
	e, err := fromLookup(func(name string) string { return env.Str(name) })
	if err != nil {
		return nil, fmt.Errorf("%w — run from an Xcode Run Script phase or pass --scheme", err)
	}
	e.Action = CurrentAction()
	return e, nil
}

// FromSettings builds an Environment from settings printed by
// xcodebuild -showBuildSettings.
func FromSettings(settings map[string]string, action string) (*Environment, error) {
	e, err := fromLookup(func(name string) string { return settings[name] })
	if err != nil {
		return nil, err
	}
	e.Action = action
	return e, nil
}

func fromLookup(get func(string) string) (*Environment, error) {
	identity := get(ExpandedCodeSignIdentity)
	if identity == "" {
		identity = get(CodeSignIdentity)
	}
	e := &Environment{
		BuildDir:        get(TargetBuildDir),
		FrameworksPath:  get(FrameworksFolderPath),
		ExecutablePath:  get(ExecutablePath),
		SigningAllowed:  IsYes(get(CodeSigningAllowed)),
		Identity:        identity,
		HardenedRuntime: IsYes(get(EnableHardenedRuntime)),
	}

	var missing []string
	for name, value := range map[string]string{
		TargetBuildDir:       e.BuildDir,
		FrameworksFolderPath: e.FrameworksPath,
		ExecutablePath:       e.ExecutablePath,
	} {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("missing build settings: %s", strings.Join(missing, ", "))
	}

	return e, nil
}

// FrameworksDir returns the absolute frameworks directory inside the bundle.
func (e *Environment) FrameworksDir() string {
	return filepath.Join(e.BuildDir, e.FrameworksPath)
}

// Executable returns the absolute path of the bundle's main executable.
func (e *Environment) Executable() string {
	return filepath.Join(e.BuildDir, e.ExecutablePath)
}

// IsYes interprets an Xcode boolean build setting.
func IsYes(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "true", "1":
		return true
	}
	return false
}
