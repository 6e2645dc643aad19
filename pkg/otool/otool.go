package otool

import (
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// dependencyPattern matches a linked-library line from `otool -L` output.
// Format: "<tab>/opt/local/lib/libz.1.dylib (compatibility version 1.0.0, current version 1.2.8)"
var dependencyPattern = regexp.MustCompile(`^\s+(\S.*?)\s*\(compatibility version [^)]*\)\s*$`)

// ParseDependencies returns the library paths listed in `otool -L` output,
// in the order they first appear. The header line naming the inspected file,
// architecture banners and anything else that doesn't match are ignored.
func ParseDependencies(output string) []string {
	var deps []string
	seen := make(map[string]bool)

	for _, line := range strings.Split(output, "\n") {
		matches := dependencyPattern.FindStringSubmatch(line)
		if len(matches) != 2 || seen[matches[1]] {
			continue
		}
		seen[matches[1]] = true
		deps = append(deps, matches[1])
	}

	return deps
}

// RunList runs `otool -L` against path and returns its standard output.
func RunList(path string) (string, error) {
	if _, err := exec.LookPath("otool"); err != nil {
		return "", fmt.Errorf("otool not found — install Xcode Command Line Tools with: xcode-select --install")
	}

	cmd := exec.Command("otool", "-L", path)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return string(out), fmt.Errorf("otool -L %s failed: %s: %w", path, strings.TrimSpace(string(exitErr.Stderr)), err)
		}
		return string(out), fmt.Errorf("otool -L %s failed: %w", path, err)
	}

	return string(out), nil
}

// Inspector lists the linked libraries of a Mach-O file using otool.
type Inspector struct{}

// Dependencies returns the load-path references recorded in path. For a
// dynamic library the first entry is the library's own install name.
func (Inspector) Dependencies(path string) ([]string, error) {
	output, err := RunList(path)
	if err != nil {
		return nil, err
	}
	return ParseDependencies(output), nil
}
