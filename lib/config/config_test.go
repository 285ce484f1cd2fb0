// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Vault.Root != "." {
		t.Errorf("expected root=., got %s", cfg.Vault.Root)
	}

	if cfg.Compression.Mode != "auto" {
		t.Errorf("expected compression.mode=auto, got %s", cfg.Compression.Mode)
	}

	if cfg.KDF.Profile != "moderate" {
		t.Errorf("expected kdf.profile=moderate, got %s", cfg.KDF.Profile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoad_RequiresEncryptifyConfig(t *testing.T) {
	t.Setenv(EnvironmentVariable, "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when ENCRYPTIFY_CONFIG not set, got nil")
	}

	expectedMsg := "ENCRYPTIFY_CONFIG environment variable not set"
	if !strings.HasPrefix(err.Error(), expectedMsg) {
		t.Errorf("expected error message to start with %q, got %q", expectedMsg, err.Error())
	}
}

func TestLoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "encryptify.yaml")

	configContent := `
vault:
  root: /srv/vault
  extract_dir: /tmp/out

compression:
  mode: never

kdf:
  profile: interactive

log:
  level: debug
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Vault.Root != "/srv/vault" {
		t.Errorf("expected root=/srv/vault, got %s", cfg.Vault.Root)
	}

	// Omitted paths keep their defaults, expanded against the new root.
	if cfg.Vault.IndexFile != "/srv/vault/vault_index.json" {
		t.Errorf("expected index_file=/srv/vault/vault_index.json, got %s", cfg.Vault.IndexFile)
	}
	if cfg.Vault.DataDir != "/srv/vault/vault_data" {
		t.Errorf("expected data_dir=/srv/vault/vault_data, got %s", cfg.Vault.DataDir)
	}

	if cfg.Vault.ExtractDir != "/tmp/out" {
		t.Errorf("expected extract_dir=/tmp/out, got %s", cfg.Vault.ExtractDir)
	}

	if cfg.Compression.Mode != "never" {
		t.Errorf("expected compression.mode=never, got %s", cfg.Compression.Mode)
	}

	if cfg.KDF.Profile != "interactive" {
		t.Errorf("expected kdf.profile=interactive, got %s", cfg.KDF.Profile)
	}

	level, err := cfg.LogLevel()
	if err != nil || level != slog.LevelDebug {
		t.Errorf("expected log level debug, got %v (%v)", level, err)
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}

	configPath := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(configPath, []byte("vault: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(configPath); err == nil {
		t.Error("expected parse error")
	}
}

func TestResolve(t *testing.T) {
	tmpDir := t.TempDir()
	flagPath := filepath.Join(tmpDir, "flag.yaml")
	envPath := filepath.Join(tmpDir, "env.yaml")
	os.WriteFile(flagPath, []byte("vault:\n  root: /from/flag\n"), 0644)
	os.WriteFile(envPath, []byte("vault:\n  root: /from/env\n"), 0644)

	t.Setenv(EnvironmentVariable, envPath)

	cfg, err := Resolve(flagPath)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Vault.Root != "/from/flag" {
		t.Errorf("flag should win, got root=%s", cfg.Vault.Root)
	}

	cfg, err = Resolve("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Vault.Root != "/from/env" {
		t.Errorf("environment should apply without a flag, got root=%s", cfg.Vault.Root)
	}

	t.Setenv(EnvironmentVariable, "")
	cfg, err = Resolve("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Vault.IndexFile != "./vault_index.json" {
		t.Errorf("expected default index ./vault_index.json, got %s", cfg.Vault.IndexFile)
	}
}

func TestExpandVars(t *testing.T) {
	t.Setenv("ENCRYPTIFY_TEST_UNSET", "")

	tests := []struct {
		input    string
		vars     map[string]string
		expected string
	}{
		{
			input:    "${HOME}/vault",
			vars:     map[string]string{"HOME": "/home/user"},
			expected: "/home/user/vault",
		},
		{
			input:    "${ENCRYPTIFY_ROOT}/vault_data",
			vars:     map[string]string{"ENCRYPTIFY_ROOT": "/srv/vault"},
			expected: "/srv/vault/vault_data",
		},
		{
			input:    "${ENCRYPTIFY_TEST_UNSET:-/fallback}/data",
			vars:     map[string]string{},
			expected: "/fallback/data",
		},
		{
			input:    "/plain/path",
			vars:     map[string]string{},
			expected: "/plain/path",
		},
	}

	for _, tt := range tests {
		result := expandVars(tt.input, tt.vars)
		if result != tt.expected {
			t.Errorf("expandVars(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"empty root", func(c *Config) { c.Vault.Root = "" }, "vault.root is required"},
		{"empty data dir", func(c *Config) { c.Vault.DataDir = "" }, "vault.data_dir is required"},
		{"bad compression", func(c *Config) { c.Compression.Mode = "zstd" }, "compression.mode"},
		{"bad profile", func(c *Config) { c.KDF.Profile = "paranoid" }, "kdf.profile"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
