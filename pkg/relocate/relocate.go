// Package relocate makes an application bundle self-contained by copying
// the shared libraries its executable links against into the bundle and
// rewriting their load-path records to a loader-relative token.
//
// A Relocator holds all state for one run:
//   - copy-set: libraries copied into the output directory (or adopted from it)
//   - rewrite-plan: per examined file, the (old, new) references to rewrite
//
// Typical use mirrors an Xcode build phase:
//
//	r := relocate.New(opts, tools, logger)
//	_ = r.Copy(extraLib)     // seed with extra libraries
//	_ = r.Examine(execPath)  // walk the executable's dependencies
//	_ = r.Rewrite()
//	_ = r.Sign()
package relocate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/otiai10/copy"
	"github.com/sirupsen/logrus"
)

// Inspector lists the load-path references recorded in a binary.
type Inspector interface {
	Dependencies(path string) ([]string, error)
}

// Editor rewrites load-path records in place.
type Editor interface {
	ChangeID(file, newID string) (string, error)
	ChangeDependency(file, oldPath, newPath string) (string, error)
}

// Signer code-signs a single file.
type Signer interface {
	Sign(path string) (string, error)
}

// Tools bundles the external collaborators of a Relocator.
// Signer may be nil when signing is disabled.
type Tools struct {
	Inspector Inspector
	Editor    Editor
	Signer    Signer
}

// Options configures a Relocator.
type Options struct {
	OutputDir string      // bundle frameworks directory, must exist
	Token     string      // relocation token, e.g. "@rpath"
	Trusted   []string    // path prefixes resolvable without copying
	SearchDir string      // directory for references given as a bare file name
	FileMode  os.FileMode // permissions of copied libraries
}

// Rename is one load-path record change.
type Rename struct {
	Old string
	New string
}

// Relocator walks the dependency graph of a binary and relocates every
// untrusted library into the output directory.
type Relocator struct {
	opts   Options
	tools  Tools
	logger *logrus.Logger

	copied    []string
	copiedSet map[string]bool

	planOrder []string
	plan      map[string][]Rename

	examined map[string]bool
	external []string
	pending  []string
}

// New creates a Relocator with empty state.
func New(opts Options, tools Tools, logger *logrus.Logger) *Relocator {
	if opts.FileMode == 0 {
		opts.FileMode = 0644
	}
	return &Relocator{
		opts:      opts,
		tools:     tools,
		logger:    logger,
		copiedSet: make(map[string]bool),
		plan:      make(map[string][]Rename),
		examined:  make(map[string]bool),
	}
}

// IsTrusted reports whether ref lives under one of the trusted prefixes.
func (r *Relocator) IsTrusted(ref string) bool {
	for _, prefix := range r.opts.Trusted {
		if strings.HasPrefix(ref, prefix) {
			return true
		}
	}
	return false
}

// Relocated returns the token-relative form of ref.
func (r *Relocator) Relocated(ref string) string {
	return strings.TrimSuffix(r.opts.Token, "/") + "/" + filepath.Base(ref)
}

// Destination returns where src is copied inside the output directory.
func (r *Relocator) Destination(src string) string {
	return filepath.Join(r.opts.OutputDir, filepath.Base(src))
}

// Examine discovers the dependencies of file and, transitively, of every
// library copied on the way.
func (r *Relocator) Examine(file string) error {
	r.pending = append(r.pending, file)
	return r.drain()
}

// Copy copies src into the output directory unless a file with the same name
// is already there, then examines the copy.
func (r *Relocator) Copy(src string) error {
	if err := r.copyOne(src); err != nil {
		return err
	}
	return r.drain()
}

// Adopt takes a library already present in the output directory into the
// copy-set and examines it, so it is rewritten and signed like a fresh copy.
func (r *Relocator) Adopt(path string) error {
	r.addCopied(path)
	return r.Examine(path)
}

// drain examines queued files until the work list is empty.
func (r *Relocator) drain() error {
	for len(r.pending) > 0 {
		file := r.pending[len(r.pending)-1]
		r.pending = r.pending[:len(r.pending)-1]

		if r.examined[file] {
			continue
		}
		r.examined[file] = true

		if err := r.examineOne(file); err != nil {
			return err
		}
	}
	return nil
}

func (r *Relocator) examineOne(file string) error {
	name := filepath.Base(file)
	r.logger.Infof("Examining %s", name)

	refs, err := r.tools.Inspector.Dependencies(file)
	if err != nil {
		return fmt.Errorf("failed to list dependencies of %s: %w", file, err)
	}

	found := 0
	for _, ref := range refs {
		if r.IsTrusted(ref) {
			continue
		}
		found++

		if filepath.Base(ref) != name {
			r.logger.WithField("in", name).Infof("External dependency %s", ref)
			r.external = append(r.external, ref)
		}
		r.addRename(file, Rename{Old: ref, New: r.Relocated(ref)})

		if err := r.copyOne(r.source(ref)); err != nil {
			return err
		}
	}

	if found == 0 {
		r.logger.Infof("No external dependencies found in %s", name)
	}
	return nil
}

// source maps a reference to the file it should be copied from.
func (r *Relocator) source(ref string) string {
	if filepath.Base(ref) == ref && r.opts.SearchDir != "" {
		return filepath.Join(r.opts.SearchDir, ref)
	}
	return ref
}

// copyOne performs the copy step and queues the new copy for examination.
func (r *Relocator) copyOne(src string) error {
	dest := r.Destination(src)

	if _, err := os.Stat(dest); err == nil {
		r.logger.Debugf("%s already exists, not copying", filepath.Base(dest))
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check %s: %w", dest, err)
	}

	// Libraries are usually relative symlinks to a versioned file; copy the
	// target under the link's name.
	target, err := filepath.EvalSymlinks(src)
	if err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", src, dest, err)
	}
	if err := copy.Copy(target, dest, copy.Options{
		OnSymlink: func(string) copy.SymlinkAction { return copy.Deep },
	}); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", src, dest, err)
	}
	if err := os.Chmod(dest, r.opts.FileMode); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", dest, err)
	}

	r.logger.Infof("Copied %s", src)
	r.addCopied(dest)
	r.pending = append(r.pending, dest)
	return nil
}

func (r *Relocator) addCopied(path string) {
	if r.copiedSet[path] {
		return
	}
	r.copiedSet[path] = true
	r.copied = append(r.copied, path)
}

func (r *Relocator) addRename(file string, rn Rename) {
	if _, ok := r.plan[file]; !ok {
		r.planOrder = append(r.planOrder, file)
	}
	r.plan[file] = append(r.plan[file], rn)
}

// Rewrite applies the rewrite-plan. A rename whose old reference names the
// file itself changes the file's install name; any other rename changes a
// dependency record. The first failure aborts the pass.
func (r *Relocator) Rewrite() error {
	for _, file := range r.planOrder {
		name := filepath.Base(file)
		for _, rn := range r.plan[file] {
			var (
				output string
				err    error
			)
			if filepath.Base(rn.Old) == name {
				r.logger.Infof("Setting id of %s to %s", name, rn.New)
				output, err = r.tools.Editor.ChangeID(file, rn.New)
			} else {
				r.logger.Infof("Changing %s to %s in %s", rn.Old, rn.New, name)
				output, err = r.tools.Editor.ChangeDependency(file, rn.Old, rn.New)
			}
			if output != "" {
				r.logger.Debug(output)
			}
			if err != nil {
				return fmt.Errorf("failed to change %q to %q in %s: %w", rn.Old, rn.New, file, err)
			}
		}
	}
	return nil
}

// Sign signs every library in the copy-set. The first failure aborts.
func (r *Relocator) Sign() error {
	if r.tools.Signer == nil {
		return fmt.Errorf("no signer configured")
	}
	for _, path := range r.copied {
		r.logger.Infof("Signing %s", filepath.Base(path))
		output, err := r.tools.Signer.Sign(path)
		if output != "" {
			r.logger.Debug(output)
		}
		if err != nil {
			return fmt.Errorf("failed to sign %s: %w", path, err)
		}
	}
	return nil
}

// Copied returns the copy-set in the order entries were added.
func (r *Relocator) Copied() []string {
	return append([]string(nil), r.copied...)
}

// Plan returns the rewrite-plan for file.
func (r *Relocator) Plan(file string) []Rename {
	return append([]Rename(nil), r.plan[file]...)
}

// PlannedFiles returns every file with a rewrite-plan entry, in discovery order.
func (r *Relocator) PlannedFiles() []string {
	return append([]string(nil), r.planOrder...)
}

// External returns the external dependencies reported during discovery.
func (r *Relocator) External() []string {
	return append([]string(nil), r.external...)
}
