// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the encryptify
// binary.
//
// The central type is [Command], which represents a named subcommand
// with optional nested [Command.Subcommands], a [pflag.FlagSet]
// factory, and a Run function. Commands are assembled into a tree in
// cmd/encryptify/commands and dispatched via [Command.Execute], which
// handles flag parsing, subcommand routing, and structured help output
// with examples.
//
// When a user types an unknown subcommand or flag, the framework
// computes Levenshtein edit distance against all known names and
// suggests the closest match (threshold: distance <= 3).
//
// The package also provides the pieces every command shares:
//
//   - [ToolError] categories and [ExitError] for exit status
//   - [NewCommandLogger] for slog output on stderr
//   - [PasswordReader] for terminal prompts and --password-file
//   - [Status] for styled one-line results on stdout
package cli
