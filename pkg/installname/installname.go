package installname

import (
	"fmt"
	"os/exec"
	"strings"
)

// ChangeIDArgs returns the install_name_tool arguments that set the
// install name a dynamic library advertises for itself.
func ChangeIDArgs(file, newID string) []string {
	return []string{"-id", newID, file}
}

// ChangeDependencyArgs returns the install_name_tool arguments that rewrite
// the load command in file referencing oldPath so that it references newPath.
func ChangeDependencyArgs(file, oldPath, newPath string) []string {
	return []string{"-change", oldPath, newPath, file}
}

// Run executes install_name_tool with args and returns its combined output.
func Run(args []string) (string, error) {
	if _, err := exec.LookPath("install_name_tool"); err != nil {
		return "", fmt.Errorf("install_name_tool not found — install Xcode Command Line Tools with: xcode-select --install")
	}

	cmd := exec.Command("install_name_tool", args...)
	out, err := cmd.CombinedOutput()
	output := string(out)

	if err != nil {
		if strings.Contains(output, "larger updated load commands do not fit") {
			return output, fmt.Errorf("not enough header padding to rewrite load commands — relink with -headerpad_max_install_names: %w", err)
		}
		return output, fmt.Errorf("install_name_tool %s failed: %s: %w", strings.Join(args, " "), output, err)
	}

	return output, nil
}

// Tool edits load-path records with install_name_tool.
type Tool struct{}

// ChangeID rewrites the install name file advertises for itself.
func (Tool) ChangeID(file, newID string) (string, error) {
	return Run(ChangeIDArgs(file, newID))
}

// ChangeDependency rewrites file's reference to oldPath so it points at newPath.
func (Tool) ChangeDependency(file, oldPath, newPath string) (string, error) {
	return Run(ChangeDependencyArgs(file, oldPath, newPath))
}
