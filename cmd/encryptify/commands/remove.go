// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"github.com/spf13/pflag"

	"github.com/encryptify/encryptify/cmd/encryptify/cli"
)

func removeCommand(open opener, globals *globalFlags) *cli.Command {
	return &cli.Command{
		Name:    "remove",
		Summary: "Delete a stored file",
		Usage:   "encryptify remove <name> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("remove", pflag.ContinueOnError)
			globals.register(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("usage: remove <name>")
			}
			s, err := open()
			if err != nil {
				return err
			}
			return s.remove(args[0])
		},
	}
}

func (s *session) remove(name string) error {
	if err := s.vault.Remove(name); err != nil {
		return classify(err)
	}
	s.status.Success("Removed %s", name)
	return nil
}
