package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/parser"
	"github.com/macbundle/macbundle/pkg/env"
)

// DefaultPath is the configuration file looked up in the working directory
// when no --config flag is given.
const DefaultPath = ".macbundle.yaml"

// Config represents the complete macbundle configuration
type Config struct {
	Relocate RelocateConfig `yaml:"relocate"`
	Inspect  InspectConfig  `yaml:"inspect"`
	Sign     SignConfig     `yaml:"sign"`
}

// RelocateConfig controls dependency relocation
type RelocateConfig struct {
	// Actions lists the Xcode ACTION values that trigger relocation.
	Actions []string `yaml:"actions"`
	// Token replaces the directory part of every relocated reference.
	Token string `yaml:"token"`
	// TrustedPrefixes are resolvable at runtime and never copied.
	TrustedPrefixes []string `yaml:"trusted_prefixes"`
	// SearchDir resolves references recorded as a bare file name.
	SearchDir string `yaml:"search_dir"`
	// Extensions selects which files already in the frameworks directory
	// are re-examined before relocation starts.
	Extensions []string `yaml:"extensions"`
	// FileMode is the octal permission string applied to copied libraries.
	FileMode string `yaml:"file_mode"`
}

// InspectConfig selects how load-path references are read
type InspectConfig struct {
	Backend string `yaml:"backend"` // otool or macho
}

// SignConfig contains code signing configuration.
// Signing also requires CODE_SIGNING_ALLOWED=YES in the build environment.
type SignConfig struct {
	Disable         bool   `yaml:"disable"`
	Identity        string `yaml:"identity,omitempty"` // overrides the Xcode identity
	HardenedRuntime *bool  `yaml:"hardened_runtime,omitempty"`
	Timestamp       bool   `yaml:"timestamp"`
	VerifyIdentity  bool   `yaml:"verify_identity"`
	Verify          bool   `yaml:"verify"` // codesign --verify each library after signing
}

// Mode parses FileMode as an octal permission value.
func (r RelocateConfig) Mode() (os.FileMode, error) {
	v, err := strconv.ParseUint(r.FileMode, 8, 32)
	if err != nil || v == 0 || v > 0777 {
		return 0, fmt.Errorf("relocate.file_mode must be an octal permission such as 0644, got %q", r.FileMode)
	}
	return os.FileMode(v), nil
}

// Backends supported by InspectConfig.Backend
var Backends = []string{"otool", "macho"}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills unset fields with built-in defaults.
func (c *Config) ApplyDefaults() {
	r := &c.Relocate
	if len(r.Actions) == 0 {
		r.Actions = []string{"build", "install"}
	}
	if r.Token == "" {
		r.Token = "@rpath"
	}
	if len(r.TrustedPrefixes) == 0 {
		r.TrustedPrefixes = []string{
			"/usr/lib/",
			"/System/Library/",
			"/Library/Apple/",
			"@rpath/",
			"@executable_path/",
			"@loader_path/",
		}
	}
	if r.SearchDir == "" {
		r.SearchDir = "/usr/local/lib"
	}
	if len(r.Extensions) == 0 {
		r.Extensions = []string{".dylib"}
	}
	if r.FileMode == "" {
		r.FileMode = "0644"
	}
	if c.Inspect.Backend == "" {
		c.Inspect.Backend = "otool"
	}
}

// LoadConfig loads and parses a configuration file and applies defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config file path is required")
	}

	data, err := readConfigFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	file, err := parser.ParseBytes(data, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	var cfg Config
	if len(file.Docs) > 0 && file.Docs[0].Body != nil {
		if err := env.SubstituteEnvVarsNode(file.Docs[0].Body); err != nil {
			return nil, fmt.Errorf("environment variable substitution failed: %w", err)
		}
		if err := yaml.NodeToValue(file.Docs[0].Body, &cfg, yaml.Strict()); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// LoadOrDefault loads path, falling back to Default when path is the
// default location and no such file exists. An explicitly named file must exist.
func LoadOrDefault(path string, explicit bool) (*Config, error) {
	if !explicit {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
	}
	return LoadConfig(path)
}

// SaveConfig saves a configuration to a file
func SaveConfig(path string, config *Config) error {
	if config == nil {
		return fmt.Errorf("config cannot be nil")
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func readConfigFile(cleanPath string) ([]byte, error) {
	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to access config file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("config path is not a regular file")
	}

	const maxConfigSize = 1024 * 1024 // 1MB
	if info.Size() > maxConfigSize {
		return nil, fmt.Errorf("config file too large: maximum size is 1MB")
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return data, nil
}
