package sign

import (
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// identityPattern matches one identity line of `security find-identity -v -p codesigning`.
// Format: "  1) <SHA-1 hex> "<identity name>""
var identityPattern = regexp.MustCompile(`^\s*\d+\)\s+([0-9A-Fa-f]{40})\s+"(.+)"`)

// Identity is a code signing identity installed in the keychain.
type Identity struct {
	Hash string
	Name string
}

// ParseIdentities parses `security find-identity` output. Lines that are not
// identity entries, such as the trailing "N valid identities found", are skipped.
func ParseIdentities(output string) []Identity {
	var identities []Identity
	for _, line := range strings.Split(output, "\n") {
		if m := identityPattern.FindStringSubmatch(line); m != nil {
			identities = append(identities, Identity{Hash: m[1], Name: m[2]})
		}
	}
	return identities
}

// FindIdentity reports whether want names one of the available identities.
// codesign accepts either the full name or the SHA-1 hash, so both match,
// the hash case-insensitively. The ad-hoc identity "-" always matches.
func FindIdentity(want string, available []Identity) error {
	if want == "-" {
		return nil
	}
	for _, id := range available {
		if id.Name == want || strings.EqualFold(id.Hash, want) {
			return nil
		}
	}

	if len(available) == 0 {
		return fmt.Errorf("signing identity %q not found: the keychain has no valid code signing identities", want)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "signing identity %q not found; available identities:", want)
	for _, id := range available {
		fmt.Fprintf(&b, "\n  - %s (%s)", id.Name, id.Hash)
	}
	return fmt.Errorf("%s", b.String())
}

// CheckKeychain lists the code signing identities in the keychain and
// verifies that identity is among them.
func CheckKeychain(identity string) error {
	if identity == "-" {
		return nil
	}
	if _, err := exec.LookPath("security"); err != nil {
		return fmt.Errorf("security command not found — this tool requires macOS")
	}

	out, err := exec.Command("security", "find-identity", "-v", "-p", "codesigning").CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to list signing identities: %s: %w", string(out), err)
	}

	return FindIdentity(identity, ParseIdentities(string(out)))
}
