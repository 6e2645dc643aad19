package sign

import (
	"fmt"
	"os/exec"
	"strings"
)

// Options controls how a single file is signed.
type Options struct {
	Identity        string
	HardenedRuntime bool // --options runtime
	Timestamp       bool // --timestamp, needs network access to Apple's timestamp server
}

// BuildCodesignArgs constructs the codesign argument list for path.
// --force replaces the signature the linker or a previous run left behind.
func BuildCodesignArgs(opts Options, path string) []string {
	args := []string{"--force", "--sign", opts.Identity}
	if opts.HardenedRuntime {
		args = append(args, "--options", "runtime")
	}
	if opts.Timestamp {
		args = append(args, "--timestamp")
	}
	return append(args, path)
}

// RunCodesign signs the file at path. Returns combined output and any error.
func RunCodesign(opts Options, path string) (string, error) {
	if _, err := exec.LookPath("codesign"); err != nil {
		return "", fmt.Errorf("codesign not found — install Xcode Command Line Tools with: xcode-select --install")
	}

	cmd := exec.Command("codesign", BuildCodesignArgs(opts, path)...)

	out, err := cmd.CombinedOutput()
	output := string(out)

	if err != nil {
		if strings.Contains(output, "resource fork, Finder information, or similar detritus") {
			return output, fmt.Errorf("codesign failed due to extended attributes — remove them with: xattr -c %s", path)
		}
		if strings.Contains(output, "no identity found") {
			return output, fmt.Errorf("codesign could not find identity %q in the keychain: %w", opts.Identity, err)
		}
		return output, fmt.Errorf("codesign failed: %s: %w", output, err)
	}

	return output, nil
}

// Codesigner signs files with a fixed set of options.
type Codesigner struct {
	Options Options
}

// Sign signs path with the configured identity.
func (c Codesigner) Sign(path string) (string, error) {
	return RunCodesign(c.Options, path)
}
