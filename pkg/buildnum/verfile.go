// Package buildnum maintains a bundle's build number.
//
// The version file is plain text:
//
//	version 1.4.2
//	build 318
//
// The build number is incremented whenever any file below the version file's
// directory has been modified after the version file itself, and the result
// is written into each Info.plist as CFBundleShortVersionString and
// CFBundleVersion.
package buildnum

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
)

var (
	versionLine = regexp.MustCompile(`^version\s+(\S+)`)
	buildLine   = regexp.MustCompile(`^build\s+(\S+)`)
)

// Version is the content of a version file.
type Version struct {
	Version string
	Build   int
}

func (v Version) String() string {
	return fmt.Sprintf("v%s (%d)", v.Version, v.Build)
}

// ReadVersionFile parses the version file at path. Both the version and
// build lines are required; later lines override earlier ones.
func ReadVersionFile(path string) (Version, error) {
	f, err := os.Open(path)
	if err != nil {
		return Version{}, fmt.Errorf("failed to open version file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var (
		v        Version
		hasBuild bool
	)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if m := versionLine.FindStringSubmatch(line); m != nil {
			v.Version = m[1]
		}
		if m := buildLine.FindStringSubmatch(line); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return Version{}, fmt.Errorf("%s: invalid build number %q", path, m[1])
			}
			v.Build = n
			hasBuild = true
		}
	}
	if err := scanner.Err(); err != nil {
		return Version{}, fmt.Errorf("failed to read version file: %w", err)
	}

	if v.Version == "" || !hasBuild {
		return Version{}, fmt.Errorf("failed to read version/build from %s", path)
	}
	return v, nil
}

// WriteVersionFile replaces the version file at path with v.
func WriteVersionFile(path string, v Version) error {
	content := fmt.Sprintf("version %s\nbuild %d\n", v.Version, v.Build)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write version file: %w", err)
	}
	return nil
}

// NewerFile returns the first regular file below the version file's directory
// that was modified after the version file, or "" when there is none.
func NewerFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat version file: %w", err)
	}
	stamp := info.ModTime()

	var newer string
	err = filepath.WalkDir(filepath.Dir(path), func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		if fi.ModTime().After(stamp) {
			newer = p
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to scan %s: %w", filepath.Dir(path), err)
	}
	return newer, nil
}

// Result describes the outcome of Bump.
type Result struct {
	Version Version
	Bumped  bool
	Trigger string // file that caused the bump
}

// Bump increments the build number in the version file when NewerFile finds
// a modified source file.
func Bump(path string) (Result, error) {
	v, err := ReadVersionFile(path)
	if err != nil {
		return Result{}, err
	}

	trigger, err := NewerFile(path)
	if err != nil {
		return Result{}, err
	}
	if trigger == "" {
		return Result{Version: v}, nil
	}

	v.Build++
	if err := WriteVersionFile(path, v); err != nil {
		return Result{}, err
	}
	return Result{Version: v, Bumped: true, Trigger: trigger}, nil
}
