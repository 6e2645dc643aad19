package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/macbundle/macbundle/pkg/buildnum"
	"github.com/sirupsen/logrus"
)

const testPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>CFBundleIdentifier</key>
	<string>com.example.App</string>
</dict>
</plist>
`

// newBumpFixture writes a version file older than a source file next to it,
// and an Info.plist.
func newBumpFixture(t *testing.T) (versionFile, plistFile string) {
	t.Helper()

	dir := t.TempDir()
	versionFile = filepath.Join(dir, "buildnum.ver")
	plistFile = filepath.Join(dir, "Info.plist")
	source := filepath.Join(dir, "main.go")

	if err := os.WriteFile(versionFile, []byte("version 1.4.2\nbuild 318\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(plistFile, []byte(testPlist), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(source, []byte("package main\n"), 0644); err != nil {
		t.Fatal(err)
	}

	old := time.Now().Add(-time.Hour)
	for _, path := range []string{versionFile, plistFile} {
		if err := os.Chtimes(path, old, old); err != nil {
			t.Fatal(err)
		}
	}
	return versionFile, plistFile
}

func TestRunBumpBuild(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	versionFile, plistFile := newBumpFixture(t)
	missing := filepath.Join(filepath.Dir(plistFile), "Missing.plist")

	if err := runBumpBuild(logger, "build", versionFile, []string{plistFile, missing}); err != nil {
		t.Fatalf("runBumpBuild() error = %v", err)
	}

	v, err := buildnum.ReadVersionFile(versionFile)
	if err != nil {
		t.Fatal(err)
	}
	if v.Build != 319 {
		t.Errorf("Build = %d, want 319", v.Build)
	}

	got, err := buildnum.ReadPlistVersion(plistFile)
	if err != nil {
		t.Fatal(err)
	}
	if got != (buildnum.Version{Version: "1.4.2", Build: 319}) {
		t.Errorf("plist version = %+v", got)
	}
}

func TestRunBumpBuildClean(t *testing.T) {
	logger := logrus.New()
	versionFile, plistFile := newBumpFixture(t)

	if err := runBumpBuild(logger, "clean", versionFile, []string{plistFile}); err != nil {
		t.Fatalf("runBumpBuild() error = %v", err)
	}

	data, err := os.ReadFile(versionFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "build 318") {
		t.Errorf("version file changed on clean: %q", string(data))
	}
}

func TestRunBumpBuildInvalidVersionFile(t *testing.T) {
	logger := logrus.New()
	versionFile := filepath.Join(t.TempDir(), "buildnum.ver")
	if err := os.WriteFile(versionFile, []byte("version 1.0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := runBumpBuild(logger, "build", versionFile, []string{"Info.plist"}); err == nil {
		t.Fatal("expected error for version file without build line")
	}
}
