package xcode

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ProjectType tells xcodebuild how to open a project path.
type ProjectType int

const (
	Workspace ProjectType = iota // .xcworkspace, opened with -workspace
	Project                      // .xcodeproj, opened with -project
)

// DetectedProject is the workspace or project found in a directory.
type DetectedProject struct {
	Path string
	Type ProjectType
}

// ProjectFromPath classifies an explicitly named workspace or project.
func ProjectFromPath(path string) (*DetectedProject, error) {
	switch filepath.Ext(path) {
	case ".xcworkspace":
		return &DetectedProject{Path: path, Type: Workspace}, nil
	case ".xcodeproj":
		return &DetectedProject{Path: path, Type: Project}, nil
	}
	return nil, fmt.Errorf("%s is neither an .xcworkspace nor an .xcodeproj", path)
}

// DetectProject finds the Xcode workspace or project in dir. A single
// .xcworkspace wins, then a single .xcodeproj; anything else is an error.
func DetectProject(dir string) (*DetectedProject, error) {
	workspaces, err := findByExtension(dir, ".xcworkspace")
	if err != nil {
		return nil, fmt.Errorf("failed to scan for workspaces: %w", err)
	}

	workspaces = filterPodsWorkspace(workspaces)

	switch len(workspaces) {
	case 1:
		return &DetectedProject{Path: workspaces[0], Type: Workspace}, nil
	case 0:
	default:
		return nil, fmt.Errorf(
			"multiple .xcworkspace files found: %s — pass --project to choose one",
			strings.Join(workspaces, ", "),
		)
	}

	projects, err := findByExtension(dir, ".xcodeproj")
	if err != nil {
		return nil, fmt.Errorf("failed to scan for projects: %w", err)
	}

	switch len(projects) {
	case 1:
		return &DetectedProject{Path: projects[0], Type: Project}, nil
	case 0:
		return nil, fmt.Errorf("no .xcworkspace or .xcodeproj found in %s — pass --project or run from the project directory", dir)
	default:
		return nil, fmt.Errorf(
			"multiple .xcodeproj files found: %s — pass --project to choose one",
			strings.Join(projects, ", "),
		)
	}
}

// findByExtension returns the names of entries in dir with the given extension.
func findByExtension(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var matches []string
	for _, entry := range entries {
		if filepath.Ext(entry.Name()) == ext {
			matches = append(matches, entry.Name())
		}
	}
	return matches, nil
}

// filterPodsWorkspace drops the CocoaPods workspace when another one exists.
func filterPodsWorkspace(workspaces []string) []string {
	if len(workspaces) <= 1 {
		return workspaces
	}

	var filtered []string
	for _, ws := range workspaces {
		if ws != "Pods.xcworkspace" {
			filtered = append(filtered, ws)
		}
	}

	if len(filtered) == 0 {
		return workspaces
	}
	return filtered
}
