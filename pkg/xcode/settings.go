package xcode

import (
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// SettingsQuery selects the target whose build settings are read.
type SettingsQuery struct {
	Project       *DetectedProject // nil lets xcodebuild pick the project in the working directory
	Scheme        string
	Configuration string
}

// settingLine matches "    NAME = value" in -showBuildSettings output.
var settingLine = regexp.MustCompile(`^\s+([A-Za-z_][A-Za-z0-9_]*) = (.*)$`)

// BuildSettingsArgs constructs the xcodebuild argument list for q.
func BuildSettingsArgs(q SettingsQuery) []string {
	var args []string

	if q.Project != nil {
		switch q.Project.Type {
		case Workspace:
			args = append(args, "-workspace", q.Project.Path)
		case Project:
			args = append(args, "-project", q.Project.Path)
		}
	}
	if q.Scheme != "" {
		args = append(args, "-scheme", q.Scheme)
	}
	if q.Configuration != "" {
		args = append(args, "-configuration", q.Configuration)
	}

	return append(args, "-showBuildSettings")
}

// ParseBuildSettings reads the settings of the first target in
// xcodebuild -showBuildSettings output.
func ParseBuildSettings(output string) map[string]string {
	settings := make(map[string]string)
	blocks := 0
	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(line, "Build settings for action") {
			blocks++
			if blocks > 1 {
				break
			}
			continue
		}
		if m := settingLine.FindStringSubmatch(line); m != nil {
			settings[m[1]] = strings.TrimRight(m[2], "\r")
		}
	}
	return settings
}

// RunShowBuildSettings invokes xcodebuild -showBuildSettings for q.
// Returns stdout and any error.
func RunShowBuildSettings(q SettingsQuery) (string, error) {
	if _, err := exec.LookPath("xcodebuild"); err != nil {
		return "", fmt.Errorf("xcodebuild not found — install Xcode Command Line Tools with: xcode-select --install")
	}

	cmd := exec.Command("xcodebuild", BuildSettingsArgs(q)...)
	out, err := cmd.Output()
	output := string(out)

	if err != nil {
		var stderr string
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr = string(exitErr.Stderr)
		}
		if strings.Contains(stderr, "Scheme") && strings.Contains(stderr, "is not currently configured") {
			return output, fmt.Errorf("scheme %q not found: %w", q.Scheme, err)
		}
		return output, fmt.Errorf("xcodebuild -showBuildSettings failed: %s: %w", strings.TrimSpace(stderr), err)
	}

	return output, nil
}

// LoadFromProject reads the build environment from xcodebuild for use
// outside a Run Script phase.
func LoadFromProject(q SettingsQuery) (*Environment, error) {
	output, err := RunShowBuildSettings(q)
	if err != nil {
		return nil, err
	}
	return FromSettings(ParseBuildSettings(output), CurrentAction())
}
