// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/encryptify/encryptify/cmd/encryptify/cli"
	"github.com/encryptify/encryptify/lib/config"
	"github.com/encryptify/encryptify/lib/envelope"
	"github.com/encryptify/encryptify/lib/vault"
)

// Environment carries the process streams and the hooks tests replace.
type Environment struct {
	Stdin  *os.File
	Stdout io.Writer
	Stderr io.Writer

	// NewLogger builds the command logger. Defaults to
	// cli.NewCommandLogger.
	NewLogger func(level slog.Leveler) *slog.Logger

	// KDF overrides the configured KDF profile when non-nil.
	KDF *envelope.KDFParams

	lines *bufio.Reader
}

// DefaultEnvironment returns an Environment over os.Stdin, os.Stdout
// and os.Stderr.
func DefaultEnvironment() *Environment {
	return &Environment{
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		NewLogger: cli.NewCommandLogger,
	}
}

// Lines returns the buffered reader over Stdin. Commands read by the
// shell and passwords typed into a pipe come from this one reader, so
// neither consumes input meant for the other.
func (e *Environment) Lines() *bufio.Reader {
	if e.lines == nil {
		e.lines = bufio.NewReader(e.Stdin)
	}
	return e.lines
}

// passwords returns a PasswordReader honoring --password-file.
func (e *Environment) passwords(passwordFile string) *cli.PasswordReader {
	return &cli.PasswordReader{
		File:   passwordFile,
		Input:  e.Stdin,
		Lines:  e.Lines(),
		Output: e.Stderr,
	}
}

// session is an opened vault plus what commands need to report on it.
type session struct {
	env    *Environment
	config *config.Config
	vault  *vault.Vault
	status *cli.Status
	logger *slog.Logger
}

// opener yields the session a command works on.
type opener func() (*session, error)

// openSession resolves configuration and opens the vault it names.
func (e *Environment) openSession(globals globalFlags) (*session, error) {
	cfg, err := config.Resolve(globals.configPath)
	if err != nil {
		return nil, cli.Validation("loading config: %w", err)
	}
	if globals.logLevel != "" {
		cfg.Log.Level = globals.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, cli.Validation("invalid configuration: %w", err)
	}
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, cli.Validation("%w", err)
	}

	newLogger := e.NewLogger
	if newLogger == nil {
		newLogger = cli.NewCommandLogger
	}
	logger := newLogger(level)

	kdf, err := kdfProfile(cfg.KDF.Profile)
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	if e.KDF != nil {
		kdf = *e.KDF
	}

	compression, err := vault.ParseCompressionMode(cfg.Compression.Mode)
	if err != nil {
		return nil, cli.Validation("%w", err)
	}

	opened, err := vault.Open(vault.Options{
		Root:        cfg.Vault.Root,
		IndexPath:   cfg.Vault.IndexFile,
		DataDir:     cfg.Vault.DataDir,
		Compression: compression,
		Codec:       &envelope.Codec{KDF: kdf},
		Logger:      logger,
	})
	if err != nil {
		return nil, classify(err)
	}
	logger.Debug("vault opened",
		"index", opened.IndexPath(),
		"data_dir", opened.DataDir(),
		"compression", compression,
		"kdf_profile", cfg.KDF.Profile,
	)

	return &session{
		env:    e,
		config: cfg,
		vault:  opened,
		status: cli.NewStatus(e.Stdout),
		logger: logger,
	}, nil
}

// kdfProfile maps a config profile name to its Argon2id parameters.
func kdfProfile(name string) (envelope.KDFParams, error) {
	switch name {
	case "", "moderate":
		return envelope.ModerateKDF, nil
	case "interactive":
		return envelope.InteractiveKDF, nil
	default:
		return envelope.KDFParams{}, fmt.Errorf("unknown kdf profile %q (expected moderate or interactive)", name)
	}
}
