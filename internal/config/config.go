package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level staticpy.yaml configuration.
type Config struct {
	// Flags lists module flags every module starts with
	// (checked_dicts, checked_lists, shadow_frame).
	Flags []string `yaml:"flags,omitempty"`

	// Modules declares extra importable modules. Every listed member binds
	// to the dynamic type, which keeps third-party imports from degrading
	// whole annotations to unresolved.
	//
	//   modules:
	//     attr: [define, field]
	Modules map[string][]string `yaml:"modules,omitempty"`

	// Color selects diagnostic colouring: auto, always or never.
	Color string `yaml:"color,omitempty"`

	// Jobs caps the number of modules bound concurrently. Zero means one per CPU.
	Jobs int `yaml:"jobs,omitempty"`
}

// KnownFlags are the module flag names accepted in configuration and stubs.
var KnownFlags = []string{"checked_dicts", "checked_lists", "shadow_frame"}

// Default returns the configuration used when no file is found.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// LoadConfig reads and parses a staticpy.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses staticpy.yaml content from bytes.
// The path argument is used only for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// FindConfig searches for staticpy.yaml starting from dir and walking up
// to parent directories. It returns an empty path and nil error if none exists.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// IsKnownFlag reports whether name is a recognised module flag.
func IsKnownFlag(name string) bool {
	for _, f := range KnownFlags {
		if f == name {
			return true
		}
	}
	return false
}

func (c *Config) validate(path string) error {
	for i, f := range c.Flags {
		if !IsKnownFlag(f) {
			return fmt.Errorf("%s: flags[%d]: unknown module flag %q", path, i, f)
		}
	}
	switch c.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("%s: color: want auto, always or never, got %q", path, c.Color)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("%s: jobs must not be negative", path)
	}
	for name, members := range c.Modules {
		if name == "" {
			return fmt.Errorf("%s: modules: empty module name", path)
		}
		for j, m := range members {
			if m == "" {
				return fmt.Errorf("%s: modules.%s[%d]: empty member name", path, name, j)
			}
		}
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Color == "" {
		c.Color = "auto"
	}
	if c.Jobs == 0 {
		c.Jobs = runtime.NumCPU()
	}
}
