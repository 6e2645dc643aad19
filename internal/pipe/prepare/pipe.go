package prepare

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/macbundle/macbundle/pkg/context"
)

// Pipe makes sure the frameworks directory exists. When it was left over
// from an earlier build, the libraries already inside are re-examined so
// their references are rewritten and they are signed again.
type Pipe struct{}

func (Pipe) String() string { return "preparing frameworks directory" }

func (Pipe) Run(ctx *context.Context) error {
	if ctx.Relocator == nil {
		return fmt.Errorf("no relocation state — ensure the environment check completed successfully")
	}

	dir := ctx.Env.FrameworksDir()
	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		ctx.Logger.Infof("Creating %s", dir)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create frameworks directory: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("failed to check frameworks directory: %w", err)
	case !info.IsDir():
		return fmt.Errorf("%s exists but is not a directory", dir)
	}

	ctx.OutputExisted = true

	libs, err := existingLibraries(dir, ctx.Config.Relocate.Extensions)
	if err != nil {
		return err
	}
	if len(libs) == 0 {
		ctx.Logger.Debugf("No libraries found in %s", dir)
		return nil
	}

	ctx.Logger.Infof("Re-examining %d libraries already in %s", len(libs), filepath.Base(dir))
	for _, lib := range libs {
		if err := ctx.Relocator.Adopt(lib); err != nil {
			return err
		}
	}
	return nil
}

// existingLibraries returns the regular files in dir whose extension is one
// of exts, sorted by name.
func existingLibraries(dir string, exts []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read frameworks directory: %w", err)
	}

	var libs []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if hasExtension(entry.Name(), exts) {
			libs = append(libs, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(libs)
	return libs, nil
}

func hasExtension(name string, exts []string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
