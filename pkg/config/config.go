// Package config loads the tool configuration from defaults, an
// optional fta.toml file, FTA_* environment variables, and flags.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config holds all configuration for the application
type Config struct {
	Input      string `koanf:"input"`      // Shorthand model file to load
	Output     string `koanf:"output"`     // Output path ("" = stdout)
	Format     string `koanf:"format"`     // "xml" or "shorthand"
	Nest       int    `koanf:"nest"`       // Formula nesting depth for XML gates
	Serve      bool   `koanf:"serve"`      // Start the web viewer
	Port       int    `koanf:"port"`       // Viewer port
	Watch      bool   `koanf:"watch"`      // Reload the model on file change
	Verbosity  string `koanf:"verbosity"`  // Explicit level name (debug, info, warn, error)
	VerboseCnt int    `koanf:"verbose"`    // -v occurrences
	JSONLogs   bool   `koanf:"json-logs"`  // Log as JSON instead of compact console lines
}

// Load loads configuration from defaults, config file, environment
// variables, and flags. Priority: Flags > Env > Config File > Defaults
func Load(f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	defaults := map[string]interface{}{
		"input":     "",
		"output":    "",
		"format":    "xml",
		"nest":      0,
		"serve":     false,
		"port":      8080,
		"watch":     false,
		"verbosity": "",
		"verbose":   0,
		"json-logs": false,
	}
	if err := k.Load(makeMapProvider(defaults), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config File (optional) - fta.toml
	// We ignore errors here as the file might not exist
	_ = k.Load(file.Provider("fta.toml"), toml.Parser())

	// 3. Environment Variables
	// Prefix: FTA_ (e.g., FTA_PORT=9090)
	if err := k.Load(env.Provider("FTA_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(s, "FTA_")), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Format != "xml" && cfg.Format != "shorthand" {
		return nil, fmt.Errorf("unknown output format %q", cfg.Format)
	}
	if cfg.Nest < 0 {
		return nil, fmt.Errorf("nest depth must not be negative, got %d", cfg.Nest)
	}

	return &cfg, nil
}

// Helper to use map as a provider
type mapProvider struct {
	m map[string]interface{}
}

func makeMapProvider(m map[string]interface{}) *mapProvider {
	return &mapProvider{m: m}
}

func (p *mapProvider) Read() (map[string]interface{}, error) {
	return p.m, nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
