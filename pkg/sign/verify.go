package sign

import (
	"fmt"
	"os/exec"
	"strings"
)

// BuildVerifyArgs constructs the codesign argument list that checks the
// signature of path.
func BuildVerifyArgs(path string) []string {
	return []string{"--verify", "--strict", "--verbose=2", path}
}

// RunVerify checks that path carries a valid signature.
// Returns combined output and any error.
func RunVerify(path string) (string, error) {
	if _, err := exec.LookPath("codesign"); err != nil {
		return "", fmt.Errorf("codesign not found — install Xcode Command Line Tools with: xcode-select --install")
	}

	cmd := exec.Command("codesign", BuildVerifyArgs(path)...)

	out, err := cmd.CombinedOutput()
	output := string(out)

	if err != nil {
		if strings.Contains(output, "code object is not signed at all") {
			return output, fmt.Errorf("%s is not signed", path)
		}
		if strings.Contains(output, "invalid signature") {
			return output, fmt.Errorf("%s has an invalid signature — it was probably modified after signing", path)
		}
		return output, fmt.Errorf("codesign --verify failed: %s: %w", output, err)
	}

	return output, nil
}

// Verify checks the signature of path.
func (c Codesigner) Verify(path string) (string, error) {
	return RunVerify(path)
}
