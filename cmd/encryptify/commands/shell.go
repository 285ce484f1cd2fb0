// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"github.com/encryptify/encryptify/cmd/encryptify/cli"
)

// shellPrompt is printed before each shell command.
const shellPrompt = "vault> "

func shellCommand(env *Environment, globals *globalFlags) *cli.Command {
	return &cli.Command{
		Name:    "shell",
		Summary: "Run vault commands interactively",
		Description: `Open the vault once and read commands line by line.

Accepts add, extract, list and remove with the same flags as the
top-level commands, plus help and exit. Commands may also be piped in;
passwords are then read from the following lines.`,
		Usage: "encryptify shell [flags]",
		Examples: []cli.Example{
			{
				Description: "Script a session",
				Command:     "printf 'add a.txt\\nsecret\\nlist\\n' | encryptify shell",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("shell", pflag.ContinueOnError)
			globals.register(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("shell takes no arguments")
			}
			s, err := env.openSession(*globals)
			if err != nil {
				return err
			}
			return s.shell()
		},
	}
}

// shell runs the read-dispatch loop until exit or end of input. A
// failing command is reported and the loop continues.
func (s *session) shell() error {
	open := func() (*session, error) { return s, nil }
	commands := &cli.Command{
		Name:       "vault",
		HelpOutput: s.env.Stdout,
		Subcommands: []*cli.Command{
			addCommand(open, nil),
			extractCommand(open, nil),
			listCommand(open, nil),
			removeCommand(open, nil),
			{Name: "exit", Summary: "Leave the shell"},
		},
	}

	stdout := s.env.Stdout
	lines := s.env.Lines()
	fmt.Fprintln(stdout, "Encryptify vault shell. Type 'help' for commands, 'exit' to leave.")
	for {
		fmt.Fprint(stdout, shellPrompt)
		line, readErr := lines.ReadString('\n')

		fields := strings.Fields(line)
		if len(fields) > 0 {
			if fields[0] == "exit" || fields[0] == "quit" {
				return nil
			}
			if err := commands.Execute(fields); err != nil {
				s.status.Error("%v", err)
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				fmt.Fprintln(stdout)
				return nil
			}
			return cli.Internal("reading command: %w", readErr)
		}
	}
}
