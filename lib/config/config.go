// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the config file when --config is absent.
const EnvironmentVariable = "ENCRYPTIFY_CONFIG"

// Config is the complete encryptify configuration.
type Config struct {
	// Vault configures where envelopes and the catalog live.
	Vault VaultConfig `yaml:"vault"`

	// Compression configures when files are compressed before
	// encryption.
	Compression CompressionConfig `yaml:"compression"`

	// KDF selects the password hashing cost.
	KDF KDFConfig `yaml:"kdf"`

	// Log configures diagnostic output.
	Log LogConfig `yaml:"log"`
}

// VaultConfig configures directory locations.
type VaultConfig struct {
	// Root is the vault directory.
	// Default: . (the working directory)
	Root string `yaml:"root"`

	// IndexFile is the catalog path.
	// Default: ${ENCRYPTIFY_ROOT}/vault_index.json
	IndexFile string `yaml:"index_file"`

	// DataDir holds one envelope per stored file.
	// Default: ${ENCRYPTIFY_ROOT}/vault_data
	DataDir string `yaml:"data_dir"`

	// ExtractDir is where extract writes when --output-dir is absent.
	// Default: . (the working directory)
	ExtractDir string `yaml:"extract_dir"`
}

// CompressionConfig configures the compression policy.
type CompressionConfig struct {
	// Mode is one of "auto" (compress when it shrinks the file),
	// "always" or "never".
	// Default: auto
	Mode string `yaml:"mode"`
}

// KDFConfig selects the Argon2id cost profile.
type KDFConfig struct {
	// Profile is "moderate" (3 passes, 256 MiB) or "interactive"
	// (2 passes, 64 MiB). Envelopes only open under the profile they
	// were sealed with.
	// Default: moderate
	Profile string `yaml:"profile"`
}

// LogConfig configures diagnostic logging.
type LogConfig struct {
	// Level is debug, info, warn or error.
	// Default: warn
	Level string `yaml:"level"`
}

var (
	compressionModes = []string{"auto", "always", "never"}
	kdfProfiles      = []string{"moderate", "interactive"}
)

// Default returns the default configuration. LoadFile starts from
// these values before reading the file.
func Default() *Config {
	return &Config{
		Vault: VaultConfig{
			Root:       ".",
			IndexFile:  "${ENCRYPTIFY_ROOT}/vault_index.json",
			DataDir:    "${ENCRYPTIFY_ROOT}/vault_data",
			ExtractDir: ".",
		},
		Compression: CompressionConfig{Mode: "auto"},
		KDF:         KDFConfig{Profile: "moderate"},
		Log:         LogConfig{Level: "warn"},
	}
}

// Resolve loads configuration from flagPath if set, else from the file
// named by ENCRYPTIFY_CONFIG, else returns the expanded defaults.
func Resolve(flagPath string) (*Config, error) {
	if flagPath != "" {
		return LoadFile(flagPath)
	}
	if configPath := os.Getenv(EnvironmentVariable); configPath != "" {
		return LoadFile(configPath)
	}
	cfg := Default()
	cfg.expandVariables()
	return cfg, nil
}

// Load loads configuration from the ENCRYPTIFY_CONFIG environment
// variable. It fails if the variable is not set.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your encryptify.yaml config file, or use --config flag", EnvironmentVariable)
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path. Fields the
// file omits keep their defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.expandVariables()

	return cfg, nil
}

// loadFile merges a single configuration file into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"ENCRYPTIFY_ROOT": c.Vault.Root,
		"HOME":            os.Getenv("HOME"),
	}

	c.Vault.Root = expandVars(c.Vault.Root, vars)
	vars["ENCRYPTIFY_ROOT"] = c.Vault.Root // Update for dependent paths.

	c.Vault.IndexFile = expandVars(c.Vault.IndexFile, vars)
	c.Vault.DataDir = expandVars(c.Vault.DataDir, vars)
	c.Vault.ExtractDir = expandVars(c.Vault.ExtractDir, vars)
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Vault.Root == "" {
		errs = append(errs, fmt.Errorf("vault.root is required"))
	}
	if c.Vault.IndexFile == "" {
		errs = append(errs, fmt.Errorf("vault.index_file is required"))
	}
	if c.Vault.DataDir == "" {
		errs = append(errs, fmt.Errorf("vault.data_dir is required"))
	}

	if !slices.Contains(compressionModes, c.Compression.Mode) {
		errs = append(errs, fmt.Errorf("compression.mode must be one of: %v", compressionModes))
	}
	if !slices.Contains(kdfProfiles, c.KDF.Profile) {
		errs = append(errs, fmt.Errorf("kdf.profile must be one of: %v", kdfProfiles))
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
