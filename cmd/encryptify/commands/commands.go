// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the encryptify command tree.
//
// Every vault command is built by a constructor that takes an opener.
// The top-level commands open the vault per invocation from the
// global --config and --log-level flags; the shell opens it once and
// hands the same session to the same constructors, so a command
// behaves identically in both places.
package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/encryptify/encryptify/cmd/encryptify/cli"
	"github.com/encryptify/encryptify/lib/version"
)

// Root builds the complete encryptify command tree bound to the
// process's standard streams.
func Root() *cli.Command {
	return newRoot(DefaultEnvironment())
}

func newRoot(env *Environment) *cli.Command {
	var globals globalFlags
	open := func() (*session, error) {
		return env.openSession(globals)
	}

	return &cli.Command{
		Name: "encryptify",
		Description: `Encryptify: a password-protected file vault.

Files are Huffman-compressed when that makes them smaller, then sealed
with a key derived from your password (Argon2id) in authenticated
4 KiB chunks (XChaCha20-Poly1305 secretstream).`,
		HelpOutput: env.Stderr,
		Subcommands: []*cli.Command{
			addCommand(open, &globals),
			extractCommand(open, &globals),
			listCommand(open, &globals),
			removeCommand(open, &globals),
			shellCommand(env, &globals),
			versionCommand(env),
		},
		Examples: []cli.Example{
			{
				Description: "Add a file to the vault in the current directory",
				Command:     "encryptify add report.pdf",
			},
			{
				Description: "Extract it again into /tmp",
				Command:     "encryptify extract report.pdf --output-dir /tmp",
			},
			{
				Description: "Use a vault configured elsewhere",
				Command:     "encryptify list --config ~/.config/encryptify.yaml",
			},
			{
				Description: "Work interactively",
				Command:     "encryptify shell",
			},
		},
	}
}

// globalFlags are accepted by every command that opens the vault.
type globalFlags struct {
	configPath string
	logLevel   string
}

// register adds the global flags to flagSet. A nil receiver adds
// nothing, which is how the shell's commands omit them.
func (g *globalFlags) register(flagSet *pflag.FlagSet) {
	if g == nil {
		return
	}
	flagSet.StringVar(&g.configPath, "config", "", "config file (default: $ENCRYPTIFY_CONFIG, else built-in defaults)")
	flagSet.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn or error (overrides log.level)")
}

func versionCommand(env *Environment) *cli.Command {
	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("version takes no arguments")
			}
			fmt.Fprintf(env.Stdout, "encryptify %s\n", version.Full())
			return nil
		},
	}
}
