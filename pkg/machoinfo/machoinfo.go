// Package machoinfo reads load-path records straight from Mach-O load
// commands, without shelling out to otool.
package machoinfo

import (
	"errors"
	"fmt"

	"github.com/blacktop/go-macho"
)

// Inspector lists the linked libraries of a thin or universal Mach-O file.
type Inspector struct{}

// Dependencies returns the load-path references recorded in path, in the
// order otool -L reports them: a dylib's own install name first, then every
// imported library. Slices of a universal binary are merged.
func (Inspector) Dependencies(path string) ([]string, error) {
	fat, err := macho.OpenFat(path)
	if err == nil {
		defer func() { _ = fat.Close() }()

		var refs []string
		seen := make(map[string]bool)
		for _, arch := range fat.Arches {
			refs = appendUnique(refs, seen, references(arch.File)...)
		}
		return refs, nil
	}
	if !errors.Is(err, macho.ErrNotFat) {
		return nil, fmt.Errorf("failed to read universal binary %s: %w", path, err)
	}

	f, err := macho.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read Mach-O file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return appendUnique(nil, make(map[string]bool), references(f)...), nil
}

func references(f *macho.File) []string {
	var refs []string
	if id := f.DylibID(); id != nil {
		refs = append(refs, id.Name)
	}
	return append(refs, f.ImportedLibraries()...)
}

func appendUnique(dst []string, seen map[string]bool, values ...string) []string {
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		dst = append(dst, v)
	}
	return dst
}
