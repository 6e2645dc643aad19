package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name          string
		yamlContent   string
		expectError   bool
		expectedError string
		check         func(t *testing.T, cfg *Config)
	}{
		{
			name: "full config",
			yamlContent: `
relocate:
  actions: ["build"]
  token: "@executable_path/../Frameworks"
  trusted_prefixes: ["/usr/lib/", "/System/"]
  search_dir: "/opt/homebrew/lib"
  extensions: [".dylib", ".so"]
  file_mode: "0444"
inspect:
  backend: macho
sign:
  identity: "Developer ID Application: Jane Doe (TEAM123)"
  hardened_runtime: false
  timestamp: true
  verify_identity: true
`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Relocate.Token != "@executable_path/../Frameworks" {
					t.Errorf("Token = %q", cfg.Relocate.Token)
				}
				if len(cfg.Relocate.Actions) != 1 || cfg.Relocate.Actions[0] != "build" {
					t.Errorf("Actions = %v", cfg.Relocate.Actions)
				}
				if len(cfg.Relocate.TrustedPrefixes) != 2 {
					t.Errorf("TrustedPrefixes = %v", cfg.Relocate.TrustedPrefixes)
				}
				if cfg.Inspect.Backend != "macho" {
					t.Errorf("Backend = %q", cfg.Inspect.Backend)
				}
				if cfg.Sign.HardenedRuntime == nil || *cfg.Sign.HardenedRuntime {
					t.Errorf("HardenedRuntime = %v, want explicit false", cfg.Sign.HardenedRuntime)
				}
				if !cfg.Sign.Timestamp || !cfg.Sign.VerifyIdentity {
					t.Errorf("Sign = %+v", cfg.Sign)
				}
				mode, err := cfg.Relocate.Mode()
				if err != nil || mode != 0444 {
					t.Errorf("Mode() = %o, %v", mode, err)
				}
			},
		},
		{
			name: "partial config gets defaults",
			yamlContent: `
sign:
  disable: true
`,
			check: func(t *testing.T, cfg *Config) {
				if !cfg.Sign.Disable {
					t.Error("Sign.Disable should be true")
				}
				if cfg.Relocate.Token != "@rpath" {
					t.Errorf("Token = %q, want default", cfg.Relocate.Token)
				}
				if cfg.Inspect.Backend != "otool" {
					t.Errorf("Backend = %q, want default", cfg.Inspect.Backend)
				}
				if cfg.Sign.HardenedRuntime != nil {
					t.Errorf("HardenedRuntime = %v, want unset", *cfg.Sign.HardenedRuntime)
				}
			},
		},
		{
			name:        "empty file gets defaults",
			yamlContent: "",
			check: func(t *testing.T, cfg *Config) {
				if cfg.Relocate.FileMode != "0644" {
					t.Errorf("FileMode = %q, want default", cfg.Relocate.FileMode)
				}
			},
		},
		{
			name: "unknown field rejected",
			yamlContent: `
relocate:
  tokn: "@rpath"
`,
			expectError: true,
		},
		{
			name: "mapping where a list is expected",
			yamlContent: `
relocate:
  actions:
    build: true
`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpFile := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(tmpFile, []byte(tt.yamlContent), 0644); err != nil {
				t.Fatalf("Failed to create temporary config file: %v", err)
			}

			cfg, err := LoadConfig(tmpFile)

			if tt.expectError {
				if err == nil {
					t.Error("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	missing := filepath.Join(t.TempDir(), DefaultPath)

	cfg, err := LoadOrDefault(missing, false)
	if err != nil {
		t.Fatalf("implicit missing config: unexpected error: %v", err)
	}
	if cfg.Relocate.Token != "@rpath" {
		t.Errorf("Token = %q, want default", cfg.Relocate.Token)
	}

	if _, err := LoadOrDefault(missing, true); err == nil {
		t.Error("explicit missing config: expected error")
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "saved-config.yaml")

	if err := SaveConfig(tmpFile, ExampleConfig()); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if err := os.Setenv("MACBUNDLE_SIGN_IDENTITY", "Apple Development: test (TEAM)"); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Unsetenv("MACBUNDLE_SIGN_IDENTITY") }()

	loaded, err := LoadConfig(tmpFile)
	if err != nil {
		t.Fatalf("Failed to load saved config: %v", err)
	}

	if loaded.Relocate.SearchDir != "/opt/homebrew/lib" {
		t.Errorf("SearchDir = %q", loaded.Relocate.SearchDir)
	}
	if loaded.Sign.Identity != "Apple Development: test (TEAM)" {
		t.Errorf("Identity = %q, want substituted value", loaded.Sign.Identity)
	}
	if loaded.Sign.HardenedRuntime == nil || !*loaded.Sign.HardenedRuntime {
		t.Error("HardenedRuntime should survive the round trip")
	}
}

func TestSaveConfigNil(t *testing.T) {
	if err := SaveConfig(filepath.Join(t.TempDir(), "x.yaml"), nil); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestLoadConfigFileChecks(t *testing.T) {
	tests := []struct {
		name          string
		setupFunc     func(t *testing.T) string
		errorContains string
	}{
		{
			name: "directory instead of file",
			setupFunc: func(t *testing.T) string {
				dir := filepath.Join(t.TempDir(), "config.yaml")
				if err := os.MkdirAll(dir, 0755); err != nil {
					t.Fatal(err)
				}
				return dir
			},
			errorContains: "not a regular file",
		},
		{
			name: "file too large",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "config.yaml")
				if err := os.WriteFile(file, make([]byte, 1024*1024+1), 0644); err != nil {
					t.Fatal(err)
				}
				return file
			},
			errorContains: "too large",
		},
		{
			name: "missing file",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "nope.yaml")
			},
			errorContains: "failed to access config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(tt.setupFunc(t))
			if err == nil {
				t.Fatal("Expected error but got none")
			}
			if !strings.Contains(err.Error(), tt.errorContains) {
				t.Errorf("Expected error containing %q but got: %v", tt.errorContains, err)
			}
		})
	}
}

func TestMode(t *testing.T) {
	tests := []struct {
		value   string
		want    os.FileMode
		wantErr bool
	}{
		{"0644", 0644, false},
		{"755", 0755, false},
		{"0", 0, true},
		{"0999", 0, true},
		{"1777", 0, true},
		{"rw-r--r--", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := RelocateConfig{FileMode: tt.value}.Mode()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Mode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Mode() = %o, want %o", got, tt.want)
			}
		})
	}
}
